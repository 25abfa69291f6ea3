package matching

// KeyKind discrimina el tipo de clave de conciliación.
type KeyKind int

const (
	// KeyByOrderLine concilia por ID de línea de la orden de compra (preferida).
	KeyByOrderLine KeyKind = iota + 1
	// KeyByProductRef concilia por referencia de producto o borrador
	// (fallback para líneas capturadas sin vínculo a la orden).
	KeyByProductRef
)

// MatchKey es la unión etiquetada {ByOrderLine(id) | ByProductRef(ref)}.
// Se modela como tipo propio y no como string con prefijo para que claves de
// distinto tipo nunca puedan colisionar por accidente.
type MatchKey struct {
	Kind KeyKind
	ID   string
}

// ByOrderLine construye la clave por línea de orden de compra.
func ByOrderLine(poLineID string) MatchKey {
	return MatchKey{Kind: KeyByOrderLine, ID: poLineID}
}

// ByProductRef construye la clave por referencia de producto/borrador.
func ByProductRef(ref string) MatchKey {
	return MatchKey{Kind: KeyByProductRef, ID: ref}
}

// IsOrderLine indica si la clave referencia una línea de orden.
func (k MatchKey) IsOrderLine() bool { return k.Kind == KeyByOrderLine }
