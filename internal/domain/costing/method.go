package costing

import (
	"sort"
	"strings"

	"github.com/jhoicas/panaderia-api/internal/domain/entity"
)

// Method es la política de asignación de lotes para el costeo.
type Method string

const (
	FIFO Method = "FIFO" // primero el lote recibido más antiguo
	FEFO Method = "FEFO" // primero el lote más próximo a vencer
)

// ParseMethod normaliza el método pedido por el caller. Vacío o desconocido
// degrada a FIFO (el método por defecto del sistema).
func ParseMethod(s string) Method {
	if strings.EqualFold(s, string(FEFO)) {
		return FEFO
	}
	return FIFO
}

// Sort ordena los lotes candidatos in place según la política. Las dos políticas
// comparten el mismo algoritmo de asignación; solo cambia este orden de entrada.
func (m Method) Sort(batches []*entity.PurchaseBatch) {
	less := fifoLess
	if m == FEFO {
		less = fefoLess
	}
	sort.SliceStable(batches, func(i, j int) bool { return less(batches[i], batches[j]) })
}

// fifoLess: (fecha de recepción, id) ascendente.
func fifoLess(a, b *entity.PurchaseBatch) bool {
	if !a.ReceivedAt.Equal(b.ReceivedAt) {
		return a.ReceivedAt.Before(b.ReceivedAt)
	}
	return a.ID < b.ID
}

// fefoLess: vencimiento ascendente con nil al final; desempata como FIFO.
func fefoLess(a, b *entity.PurchaseBatch) bool {
	switch {
	case a.Expiry == nil && b.Expiry != nil:
		return false
	case a.Expiry != nil && b.Expiry == nil:
		return true
	case a.Expiry != nil && b.Expiry != nil && !a.Expiry.Equal(*b.Expiry):
		return a.Expiry.Before(*b.Expiry)
	}
	return fifoLess(a, b)
}
