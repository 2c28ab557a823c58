package entity

// AlertType categoría de alerta de stock. Un producto cae como máximo en una,
// evaluada en orden de precedencia: sin stock con pedidos > sin stock > stock bajo.
type AlertType string

const (
	AlertNoStockButOrdered AlertType = "no_stock_but_ordered" // sin stock real y con salidas previsionales comprometidas
	AlertOutOfStock        AlertType = "out_of_stock"         // sin stock real y sin compromisos pendientes
	AlertLowStock          AlertType = "low_stock"            // stock real por debajo del mínimo
)

// Known indica si el tipo de alerta es reconocido (para filtros de listado).
func (t AlertType) Known() bool {
	switch t {
	case AlertNoStockButOrdered, AlertOutOfStock, AlertLowStock:
		return true
	}
	return false
}

// AlertSeverity severidad de una alerta.
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// PendingOrderRef referencia a un pedido pendiente que consume el producto.
// Consultado fuera del ledger (workflow de pedidos).
type PendingOrderRef struct {
	OrderID     string
	OrderNumber string
	Quantity    int64
}

// StockAlert alerta derivada de un snapshot más la demanda viva.
// Transitoria: se recalcula bajo demanda, sin persistencia propia.
type StockAlert struct {
	ProductID        string
	Type             AlertType
	Severity         AlertSeverity
	StockReal        int64
	MinStock         int64
	ShortageQuantity int64
	RelatedOrders    []PendingOrderRef // solo para no_stock_but_ordered
}
