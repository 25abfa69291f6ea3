package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/application/stockrequest"
	"github.com/jhoicas/Compras-api/internal/domain"
)

// StockRequestHandler maneja las peticiones HTTP de solicitudes de stock (protegido).
type StockRequestHandler struct {
	reviewUC  *stockrequest.ReviewStockRequestUseCase
	fulfillUC *stockrequest.FulfillStockRequestUseCase
}

// NewStockRequestHandler construye el handler.
func NewStockRequestHandler(reviewUC *stockrequest.ReviewStockRequestUseCase, fulfillUC *stockrequest.FulfillStockRequestUseCase) *StockRequestHandler {
	return &StockRequestHandler{reviewUC: reviewUC, fulfillUC: fulfillUC}
}

// GetByID godoc
// @Summary      Consultar solicitud de stock con sus líneas
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.StockRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id} [get]
func (h *StockRequestHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.reviewUC.Get(c.Context(), c.Params("id"))
	if err != nil {
		return stockRequestError(c, err)
	}
	return c.JSON(resp)
}

// Review godoc
// @Summary      Revisar una solicitud (cantidades provisionales)
// @Description  Fija cantidades provisionales, fecha estimada de entrega y
//
//	mensaje al solicitante. No toca inventario.
//
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID de la solicitud"
// @Param        body  body  dto.ReviewStockRequestRequest  true  "líneas con cantidades provisionales"
// @Success      200   {object}  dto.StockRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id}/review [put]
func (h *StockRequestHandler) Review(c *fiber.Ctx) error {
	var in dto.ReviewStockRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.reviewUC.Review(c.Context(), c.Params("id"), &in)
	if err != nil {
		return stockRequestError(c, err)
	}
	return c.JSON(resp)
}

// Fulfill godoc
// @Summary      Atender una solicitud de stock
// @Description  Asigna inventario a cada línea (parcial si no alcanza),
//
//	asienta el libro de stock y finaliza la solicitud. Transaccional.
//
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.FulfillmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id}/fulfill [post]
func (h *StockRequestHandler) Fulfill(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.fulfillUC.Fulfill(c.Context(), userID, c.Params("id"))
	if err != nil {
		return stockRequestError(c, err)
	}
	return c.JSON(resp)
}

// stockRequestError traduce los errores del dominio a respuestas HTTP.
func stockRequestError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "solicitud o línea no encontrada"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "la solicitud ya fue finalizada"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
