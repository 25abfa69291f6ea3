package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/application/matching"
	"github.com/jhoicas/Compras-api/internal/domain"
)

// MatchHandler maneja las peticiones HTTP de conciliaciones a tres vías (protegido).
type MatchHandler struct {
	uc       *matching.CreateMatchUseCase
	summary  *matching.PaymentSummaryUseCase
	reportUC *matching.MatchReportUseCase
}

// NewMatchHandler construye el handler.
func NewMatchHandler(uc *matching.CreateMatchUseCase, summary *matching.PaymentSummaryUseCase, reportUC *matching.MatchReportUseCase) *MatchHandler {
	return &MatchHandler{uc: uc, summary: summary, reportUC: reportUC}
}

// Create godoc
// @Summary      Crear conciliación a tres vías
// @Tags         matches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMatchRequest  true  "po_id, invoice_id, grn_id"
// @Success      201   {object}  dto.MatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/matches [post]
func (h *MatchHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateMatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.CreateMatch(c.Context(), userID, in.POID, in.InvoiceID, in.GoodsReceiptID)
	if err != nil {
		return matchError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByID godoc
// @Summary      Consultar conciliación con sus líneas
// @Tags         matches
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la conciliación"
// @Success      200  {object}  dto.MatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/matches/{id} [get]
func (h *MatchHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.GetMatch(c.Context(), c.Params("id"))
	if err != nil {
		return matchError(c, err)
	}
	return c.JSON(resp)
}

// UpdateStatus godoc
// @Summary      Cambiar el estado de una conciliación
// @Tags         matches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la conciliación"
// @Param        body  body  dto.UpdateMatchStatusRequest  true  "status: DRAFT | READY_TO_PAY | PAID | VOID"
// @Success      200   {object}  dto.MatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/matches/{id}/status [put]
func (h *MatchHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateMatchStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.UpdateMatchStatus(c.Context(), c.Params("id"), in.Status)
	if err != nil {
		return matchError(c, err)
	}
	return c.JSON(resp)
}

// GetPDF godoc
// @Summary      Acta de conciliación en PDF
// @Tags         matches
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la conciliación"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/matches/{id}/pdf [get]
func (h *MatchHandler) GetPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.reportUC.GenerateMatchPDF(c.Context(), c.Params("id"))
	if err != nil {
		return matchError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `inline; filename="conciliacion.pdf"`)
	return c.Send(pdfBytes)
}

// GetPaymentSummary godoc
// @Summary      Resumen de pagos de una orden de compra
// @Tags         matches
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden de compra"
// @Success      200  {object}  dto.PaymentSummaryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/payment-summary [get]
func (h *MatchHandler) GetPaymentSummary(c *fiber.Ctx) error {
	resp, err := h.summary.GetPoPaymentSummary(c.Context(), c.Params("id"))
	if err != nil {
		return matchError(c, err)
	}
	return c.JSON(resp)
}

// GetGlobalPaymentSummary godoc
// @Summary      Resumen de pagos global
// @Tags         matches
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PaymentSummaryResponse
// @Router       /api/payment-summary [get]
func (h *MatchHandler) GetGlobalPaymentSummary(c *fiber.Ctx) error {
	resp, err := h.summary.GetAllPoPaymentSummary(c.Context())
	if err != nil {
		return matchError(c, err)
	}
	return c.JSON(resp)
}

// matchError traduce los errores del dominio a respuestas HTTP.
func matchError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "documento no encontrado"})
	case errors.Is(err, domain.ErrCrossReference):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "CROSS_REFERENCE", Message: "los documentos no se referencian entre sí"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "ya existe una conciliación activa para la factura o la recepción"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
