package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/domain/repository"
)

var (
	_ repository.CentralStockRepository      = (*StockRepo)(nil)
	_ repository.TechnicianBalanceRepository = (*BalanceRepo)(nil)
	_ repository.LedgerEntryRepository       = (*LedgerRepo)(nil)
)

// StockRepo estoque central en memoria.
type StockRepo struct{ s *Store }

func findStock(st *state, key entity.StockKey) (entity.CentralStock, bool) {
	for _, v := range st.stock {
		if v.ItemID == key.ItemID && v.ServiceTypeID == key.ServiceTypeID {
			return v, true
		}
	}
	return entity.CentralStock{}, false
}

func (r *StockRepo) GetByID(_ context.Context, id string) (out *entity.CentralStock, _ error) {
	r.s.with(func(st *state) {
		if v, ok := st.stock[id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *StockRepo) Get(_ context.Context, key entity.StockKey) (out *entity.CentralStock, _ error) {
	r.s.with(func(st *state) {
		if v, ok := findStock(st, key); ok {
			out = &v
		}
	})
	return out, nil
}

// GetForUpdate en memoria equivale a Get: TxRunner ya serializa las transacciones.
func (r *StockRepo) GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.CentralStock, error) {
	return r.Get(ctx, key)
}

func (r *StockRepo) Add(_ context.Context, key entity.StockKey, delta int64, location string) (out *entity.CentralStock, err error) {
	r.s.with(func(st *state) {
		if _, ok := st.items[key.ItemID]; !ok {
			err = domain.ErrNotFound
			return
		}
		v, ok := findStock(st, key)
		if !ok {
			v = entity.CentralStock{ID: uuid.New().String(), ItemID: key.ItemID, ServiceTypeID: key.ServiceTypeID}
		}
		v.Quantity += delta
		if location != "" {
			v.Location = location
		}
		v.UpdatedAt = time.Now()
		st.stock[v.ID] = v
		st.touch(v.ID)
		out = &v
	})
	return out, err
}

func (r *StockRepo) update(id string, fn func(v *entity.CentralStock)) (err error) {
	r.s.with(func(st *state) {
		v, ok := st.stock[id]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		fn(&v)
		v.UpdatedAt = time.Now()
		st.stock[id] = v
	})
	return err
}

func (r *StockRepo) SetQuantity(_ context.Context, id string, quantity int64) error {
	if quantity < 0 {
		return domain.ErrInsufficientStock
	}
	return r.update(id, func(v *entity.CentralStock) { v.Quantity = quantity })
}

func (r *StockRepo) UpdateMinimum(_ context.Context, id string, min int64) error {
	return r.update(id, func(v *entity.CentralStock) { v.MinQuantity = min })
}

func (r *StockRepo) UpdateLocation(_ context.Context, id string, location string) error {
	return r.update(id, func(v *entity.CentralStock) { v.Location = location })
}

func (r *StockRepo) List(_ context.Context, f repository.StockFilter) (out []*entity.StockLevel, _ error) {
	r.s.with(func(st *state) {
		var list []entity.CentralStock
		for _, v := range st.stock {
			it := st.items[v.ItemID]
			switch {
			case f.ServiceTypeID != "" && v.ServiceTypeID != f.ServiceTypeID,
				f.OnlyLow && !v.IsLow(),
				f.OnlyAvailable && v.Quantity <= 0,
				!contains(it.Code, f.Code),
				!contains(it.Description, f.Description):
				continue
			}
			list = append(list, v)
		}
		sortBySeq(st, list, func(v entity.CentralStock) string { return v.ID })
		for _, v := range page(list, f.Limit, f.Offset) {
			it := st.items[v.ItemID]
			out = append(out, &entity.StockLevel{
				CentralStock:    v,
				ItemCode:        it.Code,
				ItemDescription: it.Description,
				ItemUnit:        it.Unit,
				UnitValue:       it.UnitValue,
				IsEquipment:     it.IsEquipment,
				ServiceTypeName: st.serviceTypes[v.ServiceTypeID].Name,
			})
		}
	})
	return out, nil
}

// BalanceRepo saldos de técnicos en memoria.
type BalanceRepo struct{ s *Store }

func findBalance(st *state, key entity.BalanceKey) (entity.TechnicianBalance, bool) {
	for _, v := range st.balances {
		if v.TechnicianID == key.TechnicianID && v.ItemID == key.ItemID &&
			v.ServiceTypeID == key.ServiceTypeID && v.Address == key.Address {
			return v, true
		}
	}
	return entity.TechnicianBalance{}, false
}

func (r *BalanceRepo) GetForUpdate(_ context.Context, key entity.BalanceKey) (out *entity.TechnicianBalance, _ error) {
	r.s.with(func(st *state) {
		if v, ok := findBalance(st, key); ok {
			out = &v
		}
	})
	return out, nil
}

func (r *BalanceRepo) ListForUpdate(_ context.Context, technicianID, itemID, serviceTypeID string) (out []*entity.TechnicianBalance, _ error) {
	r.s.with(func(st *state) {
		var list []entity.TechnicianBalance
		for _, v := range st.balances {
			if v.TechnicianID == technicianID && v.ItemID == itemID && v.ServiceTypeID == serviceTypeID {
				list = append(list, v)
			}
		}
		sortBySeq(st, list, func(v entity.TechnicianBalance) string { return v.ID })
		for _, v := range list {
			v := v
			out = append(out, &v)
		}
	})
	return out, nil
}

func (r *BalanceRepo) Add(_ context.Context, key entity.BalanceKey, delta int64) (out *entity.TechnicianBalance, err error) {
	r.s.with(func(st *state) {
		if _, ok := st.technicians[key.TechnicianID]; !ok {
			err = domain.ErrNotFound
			return
		}
		v, ok := findBalance(st, key)
		if !ok {
			v = entity.TechnicianBalance{
				ID:            uuid.New().String(),
				TechnicianID:  key.TechnicianID,
				ItemID:        key.ItemID,
				ServiceTypeID: key.ServiceTypeID,
				Address:       key.Address,
			}
		}
		v.Quantity += delta
		v.UpdatedAt = time.Now()
		st.balances[v.ID] = v
		st.touch(v.ID)
		out = &v
	})
	return out, err
}

func (r *BalanceRepo) SetQuantity(_ context.Context, id string, quantity int64) (err error) {
	if quantity < 0 {
		return domain.ErrInsufficientBalance
	}
	r.s.with(func(st *state) {
		v, ok := st.balances[id]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		v.Quantity = quantity
		v.UpdatedAt = time.Now()
		st.balances[id] = v
	})
	return err
}

func (r *BalanceRepo) List(_ context.Context, f repository.BalanceFilter) (out []*entity.BalanceLine, _ error) {
	r.s.with(func(st *state) {
		var list []entity.TechnicianBalance
		for _, v := range st.balances {
			switch {
			case f.TechnicianID != "" && v.TechnicianID != f.TechnicianID,
				f.ServiceTypeID != "" && v.ServiceTypeID != f.ServiceTypeID,
				f.ItemID != "" && v.ItemID != f.ItemID,
				f.OnlyPositive && v.Quantity <= 0:
				continue
			}
			list = append(list, v)
		}
		sortBySeq(st, list, func(v entity.TechnicianBalance) string { return v.ID })
		for _, v := range list {
			it := st.items[v.ItemID]
			out = append(out, &entity.BalanceLine{
				TechnicianBalance: v,
				TechnicianName:    st.technicians[v.TechnicianID].Name,
				ItemCode:          it.Code,
				ItemDescription:   it.Description,
				ItemUnit:          it.Unit,
				UnitValue:         it.UnitValue,
				ServiceTypeName:   st.serviceTypes[v.ServiceTypeID].Name,
			})
		}
	})
	return out, nil
}

// LedgerRepo asientos en memoria.
type LedgerRepo struct{ s *Store }

func (r *LedgerRepo) Append(_ context.Context, e *entity.LedgerEntry) error {
	r.s.with(func(st *state) { st.entries = append(st.entries, *e) })
	return nil
}

func (r *LedgerRepo) ListByDocument(_ context.Context, documentID string) (out []*entity.LedgerEntry, _ error) {
	r.s.with(func(st *state) {
		for _, e := range st.entries {
			if e.DocumentID == documentID {
				e := e
				out = append(out, &e)
			}
		}
	})
	return out, nil
}
