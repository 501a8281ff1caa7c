package inventory

import (
	"context"

	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback: los dos lados de cada movimiento quedan juntos o no quedan.
type TxRunner interface {
	Run(ctx context.Context, fn func(r repository.Repos) error) error
}

// ReceiptData datos que necesita el comprobante de un documento.
type ReceiptData struct {
	Document           *entity.Document
	TechnicianName     string
	PartnerCompanyName string
	ServiceTypeName    string
	IssuedBy           string
}

// ReceiptRenderer genera el comprobante imprimible (PDF) de un documento de movimiento.
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, data ReceiptData) ([]byte, error)
}
