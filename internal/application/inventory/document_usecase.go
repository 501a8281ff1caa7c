package inventory

import (
	"context"
	"fmt"

	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/domain/repository"
)

// DocumentUseCase lectura de documentos de movimiento, asientos del ledger y comprobantes.
type DocumentUseCase struct {
	tx       TxRunner
	receipts ReceiptRenderer
}

// NewDocumentUseCase construye el caso de uso. receipts puede ser nil si no se generan comprobantes.
func NewDocumentUseCase(tx TxRunner, receipts ReceiptRenderer) *DocumentUseCase {
	return &DocumentUseCase{tx: tx, receipts: receipts}
}

// visible aplica la restricción del perfil tecnico: solo sus propios documentos.
func visible(actor Actor, d *entity.Document) error {
	if actor.IsTechnician() && d.TechnicianID != actor.TechnicianID {
		return domain.ErrForbidden
	}
	return nil
}

func (uc *DocumentUseCase) load(ctx context.Context, r repository.Repos, actor Actor, id string) (*entity.Document, error) {
	d, err := r.Documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if err := visible(actor, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Get devuelve el documento con sus líneas y total.
func (uc *DocumentUseCase) Get(ctx context.Context, actor Actor, id string) (*dto.DocumentResponse, error) {
	var out *dto.DocumentResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		d, err := uc.load(ctx, r, actor, id)
		if err != nil {
			return err
		}
		out = toDocumentResponse(d, nil)
		return nil
	})
	return out, err
}

// List cabeceras de un tipo de documento. Un perfil tecnico solo ve las suyas.
func (uc *DocumentUseCase) List(ctx context.Context, actor Actor, kind string, in dto.DocumentFilterRequest) (*dto.DocumentListResponse, error) {
	if !entity.ValidDocumentKind(kind) {
		return nil, domain.ErrInvalidInput
	}
	in.DefaultPage()
	from, err := parseDay(in.From, false)
	if err != nil {
		return nil, fmt.Errorf("from: %w", domain.ErrInvalidInput)
	}
	to, err := parseDay(in.To, true)
	if err != nil {
		return nil, fmt.Errorf("to: %w", domain.ErrInvalidInput)
	}
	f := entity.DocumentFilter{
		Kind:         kind,
		Status:       in.Status,
		TechnicianID: in.TechnicianID,
		Search:       in.Search,
		From:         from,
		To:           to,
		Limit:        in.Limit,
		Offset:       in.Offset,
	}
	if actor.IsTechnician() {
		f.TechnicianID = actor.TechnicianID
	}
	out := &dto.DocumentListResponse{Items: []dto.DocumentResponse{}, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		list, err := r.Documents.List(ctx, f)
		if err != nil {
			return err
		}
		for _, d := range list {
			out.Items = append(out.Items, *toDocumentResponse(d, nil))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PendingCount cantidad de documentos pendientes del tipo.
func (uc *DocumentUseCase) PendingCount(ctx context.Context, kind string) (*dto.CountResponse, error) {
	out := &dto.CountResponse{}
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		n, err := r.Documents.CountByStatus(ctx, kind, entity.StatusPending)
		out.Count = n
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteInvoice elimina la nota fiscal registrada. El estoque recibido no se revierte.
func (uc *DocumentUseCase) DeleteInvoice(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(r repository.Repos) error {
		d, err := r.Documents.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d == nil || d.Kind != entity.DocumentInvoice {
			return domain.ErrNotFound
		}
		return r.Documents.Delete(ctx, id)
	})
}

// Entries asientos del ledger generados por el documento.
func (uc *DocumentUseCase) Entries(ctx context.Context, actor Actor, id string) ([]dto.LedgerEntryResponse, error) {
	var out []dto.LedgerEntryResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		if _, err := uc.load(ctx, r, actor, id); err != nil {
			return err
		}
		list, err := r.Ledger.ListByDocument(ctx, id)
		if err != nil {
			return err
		}
		out = make([]dto.LedgerEntryResponse, 0, len(list))
		for _, e := range list {
			out = append(out, dto.LedgerEntryResponse{
				ID:            e.ID,
				LineID:        e.LineID,
				Side:          e.Side,
				ItemID:        e.ItemID,
				ServiceTypeID: e.ServiceTypeID,
				TechnicianID:  e.TechnicianID,
				Address:       e.Address,
				Delta:         e.Delta,
				Resulting:     e.Resulting,
				CreatedAt:     e.CreatedAt,
			})
		}
		return nil
	})
	return out, err
}

// Receipt genera el comprobante PDF del documento.
func (uc *DocumentUseCase) Receipt(ctx context.Context, actor Actor, id string) ([]byte, error) {
	if uc.receipts == nil {
		return nil, fmt.Errorf("comprobantes no configurados")
	}
	var data ReceiptData
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		d, err := uc.load(ctx, r, actor, id)
		if err != nil {
			return err
		}
		data.Document = d
		if d.TechnicianID != "" {
			if t, err := r.Technicians.GetByID(ctx, d.TechnicianID); err != nil {
				return err
			} else if t != nil {
				data.TechnicianName = t.Name
			}
		}
		if d.PartnerCompanyID != "" {
			if p, err := r.PartnerCompanies.GetByID(ctx, d.PartnerCompanyID); err != nil {
				return err
			} else if p != nil {
				data.PartnerCompanyName = p.LegalName
			}
		}
		if d.ServiceTypeID != "" {
			if st, err := r.ServiceTypes.GetByID(ctx, d.ServiceTypeID); err != nil {
				return err
			} else if st != nil {
				data.ServiceTypeName = st.Name
			}
		}
		if d.CreatedBy != "" {
			if u, err := r.Users.GetByID(ctx, d.CreatedBy); err != nil {
				return err
			} else if u != nil {
				data.IssuedBy = u.Name
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.receipts.RenderReceipt(ctx, data)
}
