package entity

import "time"

// ProductStockSnapshot estado de stock materializado de un producto.
// Derivado del ledger (una fila por producto); nunca se escribe directamente,
// siempre se recalcula en la misma transacción que la mutación que lo origina.
type ProductStockSnapshot struct {
	ProductID          string
	StockReal          int64 // suma de movimientos con affects_forecast = false
	StockForecastedIn  int64 // entradas previsionales pendientes
	StockForecastedOut int64 // salidas previsionales pendientes (valor absoluto)
	MinStock           int64 // umbral de alerta, configurado externamente
	UpdatedAt          time.Time
}
