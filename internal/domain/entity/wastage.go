package entity

import "time"

// Wastage registra una merma (producto vencido, dañado, etc.) contra un lote.
type Wastage struct {
	ID        string
	OutletID  string
	ProductID string
	BatchID   string
	Qty       float64
	Reason    string
	NotedAt   time.Time
	CreatedBy string
}
