package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/domain/repository"
)

var (
	_ repository.DocumentRepository  = (*DocumentRepo)(nil)
	_ repository.EquipmentRepository = (*EquipmentRepo)(nil)
)

// DocumentRepo documentos en memoria.
type DocumentRepo struct{ s *Store }

func (r *DocumentRepo) Create(_ context.Context, d *entity.Document) (err error) {
	r.s.with(func(st *state) {
		if d.Number != "" {
			for _, v := range st.documents {
				if v.Kind == d.Kind && v.Number == d.Number {
					err = domain.ErrDuplicate
					return
				}
			}
		}
		header := *d
		header.Lines = nil
		st.documents[d.ID] = header
		st.touch(d.ID)
		lines := make([]entity.DocumentLine, 0, len(d.Lines))
		for _, l := range d.Lines {
			l.DocumentID = d.ID
			lines = append(lines, *l)
		}
		st.lines[d.ID] = lines
	})
	return err
}

func loadDocument(st *state, id string) *entity.Document {
	v, ok := st.documents[id]
	if !ok {
		return nil
	}
	for _, l := range st.lines[id] {
		l := l
		v.Lines = append(v.Lines, &l)
	}
	return &v
}

func (r *DocumentRepo) GetByID(_ context.Context, id string) (out *entity.Document, _ error) {
	r.s.with(func(st *state) { out = loadDocument(st, id) })
	return out, nil
}

func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.GetByID(ctx, id)
}

func (r *DocumentRepo) NumberExists(_ context.Context, kind, number string) (exists bool, _ error) {
	r.s.with(func(st *state) {
		for _, v := range st.documents {
			if v.Kind == kind && v.Number == number {
				exists = true
				return
			}
		}
	})
	return exists, nil
}

func (r *DocumentRepo) UpdateStatus(_ context.Context, d *entity.Document) (err error) {
	r.s.with(func(st *state) {
		v, ok := st.documents[d.ID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		v.Status = d.Status
		v.FinalizedAt = d.FinalizedAt
		v.FinalizedBy = d.FinalizedBy
		st.documents[d.ID] = v
	})
	return err
}

func (r *DocumentRepo) UpdateLine(_ context.Context, l *entity.DocumentLine) (err error) {
	r.s.with(func(st *state) {
		lines := st.lines[l.DocumentID]
		i := slices.IndexFunc(lines, func(x entity.DocumentLine) bool { return x.ID == l.ID })
		if i < 0 {
			err = domain.ErrNotFound
			return
		}
		lines[i] = *l
	})
	return err
}

func (r *DocumentRepo) Delete(_ context.Context, id string) (err error) {
	r.s.with(func(st *state) {
		if _, ok := st.documents[id]; !ok {
			err = domain.ErrNotFound
			return
		}
		delete(st.documents, id)
		delete(st.lines, id)
	})
	return err
}

func matchDocument(d entity.Document, f entity.DocumentFilter) bool {
	switch {
	case f.Kind != "" && d.Kind != f.Kind,
		f.Status != "" && d.Status != f.Status,
		f.TechnicianID != "" && d.TechnicianID != f.TechnicianID,
		f.Search != "" && !contains(d.Number, f.Search) && !contains(d.Reservation, f.Search),
		f.From != nil && d.CreatedAt.Before(*f.From),
		f.To != nil && d.CreatedAt.After(*f.To):
		return false
	}
	return true
}

// List devuelve las cabeceras más recientes primero.
func (r *DocumentRepo) List(_ context.Context, f entity.DocumentFilter) (out []*entity.Document, _ error) {
	r.s.with(func(st *state) {
		var list []entity.Document
		for _, v := range st.documents {
			if matchDocument(v, f) {
				list = append(list, v)
			}
		}
		sortBySeq(st, list, func(v entity.Document) string { return v.ID })
		slices.Reverse(list)
		for _, v := range page(list, f.Limit, f.Offset) {
			v := v
			out = append(out, &v)
		}
	})
	return out, nil
}

func (r *DocumentRepo) CountByStatus(_ context.Context, kind, status string) (n int, _ error) {
	r.s.with(func(st *state) {
		for _, v := range st.documents {
			if v.Kind == kind && v.Status == status {
				n++
			}
		}
	})
	return n, nil
}

// Consumption agrega líneas de requisiciones entregadas por día, técnico, código y dirección.
func (r *DocumentRepo) Consumption(_ context.Context, f entity.ConsumptionFilter) (out []*entity.ConsumptionRow, _ error) {
	r.s.with(func(st *state) {
		type key struct {
			day                  time.Time
			tech, code, address string
		}
		acc := map[key]*entity.ConsumptionRow{}
		for _, d := range st.documents {
			if d.Kind != entity.DocumentRequisition || d.Status != entity.StatusDelivered || d.FinalizedAt == nil {
				continue
			}
			at := *d.FinalizedAt
			switch {
			case f.TechnicianID != "" && d.TechnicianID != f.TechnicianID,
				!contains(d.Area, f.Address),
				f.From != nil && at.Before(*f.From),
				f.To != nil && at.After(*f.To):
				continue
			}
			day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
			for _, l := range st.lines[d.ID] {
				if !contains(l.Code, f.Code) {
					continue
				}
				k := key{day: day, tech: d.TechnicianID, code: l.Code, address: d.Area}
				row, ok := acc[k]
				if !ok {
					row = &entity.ConsumptionRow{
						Day:            day,
						TechnicianID:   d.TechnicianID,
						TechnicianName: st.technicians[d.TechnicianID].Name,
						ItemCode:       l.Code,
						Description:    l.Description,
						Unit:           l.Unit,
						Address:        d.Area,
						Total:          decimal.Zero,
					}
					acc[k] = row
				}
				row.Quantity += l.Quantity
				row.Total = row.Total.Add(l.Total())
			}
		}
		for _, row := range acc {
			out = append(out, row)
		}
		sort.Slice(out, func(i, j int) bool {
			if !out[i].Day.Equal(out[j].Day) {
				return out[i].Day.After(out[j].Day)
			}
			if out[i].TechnicianName != out[j].TechnicianName {
				return out[i].TechnicianName < out[j].TechnicianName
			}
			return out[i].ItemCode < out[j].ItemCode
		})
	})
	return out, nil
}

// EquipmentRepo unidades de equipo en memoria.
type EquipmentRepo struct{ s *Store }

func (r *EquipmentRepo) CreateUnits(_ context.Context, units []*entity.EquipmentUnit) error {
	r.s.with(func(st *state) {
		for _, u := range units {
			st.units[u.ID] = *u
			st.touch(u.ID)
		}
	})
	return nil
}

func (r *EquipmentRepo) HeldForUpdate(_ context.Context, technicianID, itemID string, limit int) (out []*entity.EquipmentUnit, _ error) {
	r.s.with(func(st *state) {
		var list []entity.EquipmentUnit
		for _, u := range st.units {
			if u.TechnicianID == technicianID && u.ItemID == itemID && u.Status == entity.EquipmentToTechnician {
				list = append(list, u)
			}
		}
		sortBySeq(st, list, func(u entity.EquipmentUnit) string { return u.ID })
		for _, u := range page(list, limit, 0) {
			u := u
			out = append(out, &u)
		}
	})
	return out, nil
}

func (r *EquipmentRepo) GetUnitForUpdate(_ context.Context, id string) (out *entity.EquipmentUnit, _ error) {
	r.s.with(func(st *state) {
		if u, ok := st.units[id]; ok {
			out = &u
		}
	})
	return out, nil
}

func (r *EquipmentRepo) UpdateUnit(_ context.Context, u *entity.EquipmentUnit) (err error) {
	r.s.with(func(st *state) {
		if _, ok := st.units[u.ID]; !ok {
			err = domain.ErrNotFound
			return
		}
		st.units[u.ID] = *u
	})
	return err
}

func (r *EquipmentRepo) ListUnits(_ context.Context, technicianID, itemID string) (out []*entity.EquipmentUnit, _ error) {
	r.s.with(func(st *state) {
		var list []entity.EquipmentUnit
		for _, u := range st.units {
			if (technicianID == "" || u.TechnicianID == technicianID) && (itemID == "" || u.ItemID == itemID) {
				list = append(list, u)
			}
		}
		sortBySeq(st, list, func(u entity.EquipmentUnit) string { return u.ID })
		for _, u := range list {
			u := u
			out = append(out, &u)
		}
	})
	return out, nil
}

func (r *EquipmentRepo) AppendHistory(_ context.Context, h *entity.EquipmentHistory) error {
	r.s.with(func(st *state) { st.history = append(st.history, *h) })
	return nil
}

// History devuelve el historial más reciente primero.
func (r *EquipmentRepo) History(_ context.Context, technicianID, itemID string, limit int) (out []*entity.EquipmentHistory, _ error) {
	r.s.with(func(st *state) {
		for i := len(st.history) - 1; i >= 0; i-- {
			h := st.history[i]
			if (technicianID != "" && h.TechnicianID != technicianID) || (itemID != "" && h.ItemID != itemID) {
				continue
			}
			out = append(out, &h)
			if limit > 0 && len(out) == limit {
				return
			}
		}
	})
	return out, nil
}

func (r *EquipmentRepo) Holdings(_ context.Context, technicianID string) (out []*entity.EquipmentHolding, _ error) {
	r.s.with(func(st *state) {
		type key struct{ tech, item string }
		acc := map[key]*entity.EquipmentHolding{}
		var order []key
		units := make([]entity.EquipmentUnit, 0, len(st.units))
		for _, u := range st.units {
			units = append(units, u)
		}
		sortBySeq(st, units, func(u entity.EquipmentUnit) string { return u.ID })
		for _, u := range units {
			if u.Status != entity.EquipmentToTechnician || (technicianID != "" && u.TechnicianID != technicianID) {
				continue
			}
			k := key{u.TechnicianID, u.ItemID}
			h, ok := acc[k]
			if !ok {
				it := st.items[u.ItemID]
				h = &entity.EquipmentHolding{
					TechnicianID:    u.TechnicianID,
					TechnicianName:  st.technicians[u.TechnicianID].Name,
					ItemID:          u.ItemID,
					ItemCode:        it.Code,
					ItemDescription: it.Description,
				}
				acc[k] = h
				order = append(order, k)
			}
			h.Quantity++
		}
		for _, k := range order {
			out = append(out, acc[k])
		}
	})
	return out, nil
}
