package memory

import (
	"context"
	"strings"

	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/domain/repository"
)

var (
	_ repository.ItemRepository           = (*ItemRepo)(nil)
	_ repository.ServiceTypeRepository    = (*ServiceTypeRepo)(nil)
	_ repository.TechnicianRepository     = (*TechnicianRepo)(nil)
	_ repository.PartnerCompanyRepository = (*PartnerCompanyRepo)(nil)
	_ repository.UserRepository           = (*UserRepo)(nil)
)

// ItemRepo catálogo en memoria.
type ItemRepo struct{ s *Store }

func (r *ItemRepo) Create(_ context.Context, item *entity.Item) (err error) {
	r.s.with(func(st *state) {
		for _, it := range st.items {
			if strings.EqualFold(it.Code, item.Code) {
				err = domain.ErrDuplicate
				return
			}
		}
		st.items[item.ID] = *item
		st.touch(item.ID)
	})
	return err
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (out *entity.Item, _ error) {
	r.s.with(func(st *state) {
		if it, ok := st.items[id]; ok {
			out = &it
		}
	})
	return out, nil
}

func (r *ItemRepo) GetByCode(_ context.Context, code string) (out *entity.Item, _ error) {
	r.s.with(func(st *state) {
		for _, it := range st.items {
			if strings.EqualFold(it.Code, code) {
				it := it
				out = &it
				return
			}
		}
	})
	return out, nil
}

func (r *ItemRepo) Update(_ context.Context, item *entity.Item) (err error) {
	r.s.with(func(st *state) {
		if _, ok := st.items[item.ID]; !ok {
			err = domain.ErrNotFound
			return
		}
		for id, it := range st.items {
			if id != item.ID && strings.EqualFold(it.Code, item.Code) {
				err = domain.ErrDuplicate
				return
			}
		}
		st.items[item.ID] = *item
	})
	return err
}

// Delete borra el ítem y sus filas de estoque, igual que el ON DELETE CASCADE de Postgres.
func (r *ItemRepo) Delete(_ context.Context, id string) (err error) {
	r.s.with(func(st *state) {
		if _, ok := st.items[id]; !ok {
			err = domain.ErrNotFound
			return
		}
		delete(st.items, id)
		for k, s := range st.stock {
			if s.ItemID == id {
				delete(st.stock, k)
			}
		}
		for k, b := range st.balances {
			if b.ItemID == id {
				delete(st.balances, k)
			}
		}
	})
	return err
}

func (r *ItemRepo) List(_ context.Context, f repository.ItemFilter) (out []*entity.Item, _ error) {
	r.s.with(func(st *state) {
		var list []entity.Item
		for _, it := range st.items {
			if f.EquipmentOnly && !it.IsEquipment {
				continue
			}
			if f.Search != "" && !contains(it.Code, f.Search) && !contains(it.Description, f.Search) {
				continue
			}
			list = append(list, it)
		}
		sortBySeq(st, list, func(i entity.Item) string { return i.ID })
		for _, it := range page(list, f.Limit, f.Offset) {
			it := it
			out = append(out, &it)
		}
	})
	return out, nil
}

// ServiceTypeRepo tipos de servicio en memoria.
type ServiceTypeRepo struct{ s *Store }

func (r *ServiceTypeRepo) Create(_ context.Context, t *entity.ServiceType) (err error) {
	r.s.with(func(st *state) {
		for _, v := range st.serviceTypes {
			if strings.EqualFold(v.Name, t.Name) {
				err = domain.ErrDuplicate
				return
			}
		}
		st.serviceTypes[t.ID] = *t
		st.touch(t.ID)
	})
	return err
}

func (r *ServiceTypeRepo) GetByID(_ context.Context, id string) (out *entity.ServiceType, _ error) {
	r.s.with(func(st *state) {
		if v, ok := st.serviceTypes[id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *ServiceTypeRepo) GetByName(_ context.Context, name string) (out *entity.ServiceType, _ error) {
	r.s.with(func(st *state) {
		for _, v := range st.serviceTypes {
			if strings.EqualFold(v.Name, name) {
				v := v
				out = &v
				return
			}
		}
	})
	return out, nil
}

func (r *ServiceTypeRepo) Update(_ context.Context, t *entity.ServiceType) (err error) {
	r.s.with(func(st *state) {
		if _, ok := st.serviceTypes[t.ID]; !ok {
			err = domain.ErrNotFound
			return
		}
		for id, v := range st.serviceTypes {
			if id != t.ID && strings.EqualFold(v.Name, t.Name) {
				err = domain.ErrDuplicate
				return
			}
		}
		st.serviceTypes[t.ID] = *t
	})
	return err
}

func (r *ServiceTypeRepo) Delete(_ context.Context, id string) (err error) {
	r.s.with(func(st *state) {
		if _, ok := st.serviceTypes[id]; !ok {
			err = domain.ErrNotFound
			return
		}
		for _, s := range st.stock {
			if s.ServiceTypeID == id {
				err = domain.ErrConflict
				return
			}
		}
		delete(st.serviceTypes, id)
	})
	return err
}

func (r *ServiceTypeRepo) List(_ context.Context) (out []*entity.ServiceType, _ error) {
	r.s.with(func(st *state) {
		var list []entity.ServiceType
		for _, v := range st.serviceTypes {
			list = append(list, v)
		}
		sortBySeq(st, list, func(v entity.ServiceType) string { return v.ID })
		for _, v := range list {
			v := v
			out = append(out, &v)
		}
	})
	return out, nil
}

// TechnicianRepo técnicos en memoria.
type TechnicianRepo struct{ s *Store }

func (r *TechnicianRepo) Create(_ context.Context, t *entity.Technician) (err error) {
	r.s.with(func(st *state) {
		for _, v := range st.technicians {
			if v.Registration == t.Registration || (t.CPF != "" && v.CPF == t.CPF) {
				err = domain.ErrDuplicate
				return
			}
		}
		st.technicians[t.ID] = *t
		st.touch(t.ID)
	})
	return err
}

func (r *TechnicianRepo) GetByID(_ context.Context, id string) (out *entity.Technician, _ error) {
	r.s.with(func(st *state) {
		if v, ok := st.technicians[id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *TechnicianRepo) GetByRegistration(_ context.Context, registration string) (out *entity.Technician, _ error) {
	r.s.with(func(st *state) {
		for _, v := range st.technicians {
			if v.Registration == registration {
				v := v
				out = &v
				return
			}
		}
	})
	return out, nil
}

func (r *TechnicianRepo) Update(_ context.Context, t *entity.Technician) (err error) {
	r.s.with(func(st *state) {
		if _, ok := st.technicians[t.ID]; !ok {
			err = domain.ErrNotFound
			return
		}
		for id, v := range st.technicians {
			if id != t.ID && v.Registration == t.Registration {
				err = domain.ErrDuplicate
				return
			}
		}
		st.technicians[t.ID] = *t
	})
	return err
}

func (r *TechnicianRepo) List(_ context.Context, f repository.TechnicianFilter) (out []*entity.Technician, _ error) {
	r.s.with(func(st *state) {
		var list []entity.Technician
		for _, v := range st.technicians {
			if f.Status != "" && v.Status != f.Status {
				continue
			}
			if f.Search != "" && !contains(v.Name, f.Search) && !contains(v.Registration, f.Search) {
				continue
			}
			list = append(list, v)
		}
		sortBySeq(st, list, func(v entity.Technician) string { return v.ID })
		for _, v := range list {
			v := v
			out = append(out, &v)
		}
	})
	return out, nil
}

// PartnerCompanyRepo empresas parceiras en memoria.
type PartnerCompanyRepo struct{ s *Store }

func (r *PartnerCompanyRepo) Create(_ context.Context, p *entity.PartnerCompany) (err error) {
	r.s.with(func(st *state) {
		for _, v := range st.partners {
			if p.CNPJ != "" && v.CNPJ == p.CNPJ {
				err = domain.ErrDuplicate
				return
			}
		}
		st.partners[p.ID] = *p
		st.touch(p.ID)
	})
	return err
}

func (r *PartnerCompanyRepo) GetByID(_ context.Context, id string) (out *entity.PartnerCompany, _ error) {
	r.s.with(func(st *state) {
		if v, ok := st.partners[id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *PartnerCompanyRepo) Update(_ context.Context, p *entity.PartnerCompany) (err error) {
	r.s.with(func(st *state) {
		if _, ok := st.partners[p.ID]; !ok {
			err = domain.ErrNotFound
			return
		}
		st.partners[p.ID] = *p
	})
	return err
}

func (r *PartnerCompanyRepo) Delete(_ context.Context, id string) (err error) {
	r.s.with(func(st *state) {
		if _, ok := st.partners[id]; !ok {
			err = domain.ErrNotFound
			return
		}
		delete(st.partners, id)
	})
	return err
}

func (r *PartnerCompanyRepo) List(_ context.Context) (out []*entity.PartnerCompany, _ error) {
	r.s.with(func(st *state) {
		var list []entity.PartnerCompany
		for _, v := range st.partners {
			list = append(list, v)
		}
		sortBySeq(st, list, func(v entity.PartnerCompany) string { return v.ID })
		for _, v := range list {
			v := v
			out = append(out, &v)
		}
	})
	return out, nil
}

// UserRepo usuarios en memoria.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) (err error) {
	r.s.with(func(st *state) {
		for _, v := range st.users {
			if strings.EqualFold(v.Email, u.Email) {
				err = domain.ErrEmailAlreadyExists
				return
			}
		}
		st.users[u.ID] = *u
		st.touch(u.ID)
	})
	return err
}

func (r *UserRepo) GetByID(_ context.Context, id string) (out *entity.User, _ error) {
	r.s.with(func(st *state) {
		if v, ok := st.users[id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (out *entity.User, _ error) {
	r.s.with(func(st *state) {
		for _, v := range st.users {
			if strings.EqualFold(v.Email, email) {
				v := v
				out = &v
				return
			}
		}
	})
	return out, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) (err error) {
	r.s.with(func(st *state) {
		if _, ok := st.users[u.ID]; !ok {
			err = domain.ErrNotFound
			return
		}
		st.users[u.ID] = *u
	})
	return err
}

func (r *UserRepo) List(_ context.Context, limit, offset int) (out []*entity.User, _ error) {
	r.s.with(func(st *state) {
		var list []entity.User
		for _, v := range st.users {
			list = append(list, v)
		}
		sortBySeq(st, list, func(v entity.User) string { return v.ID })
		for _, v := range page(list, limit, offset) {
			v := v
			out = append(out, &v)
		}
	})
	return out, nil
}

func (r *UserRepo) Delete(_ context.Context, id string) (err error) {
	r.s.with(func(st *state) {
		if _, ok := st.users[id]; !ok {
			err = domain.ErrNotFound
			return
		}
		delete(st.users, id)
	})
	return err
}
