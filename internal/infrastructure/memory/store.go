// Package memory implementa los puertos de repositorio en memoria.
// Lo usan los tests de casos de uso y handlers. TxRunner serializa las transacciones
// y restaura una copia del estado cuando el callback devuelve error.
package memory

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/domain/repository"
)

type state struct {
	items        map[string]entity.Item
	serviceTypes map[string]entity.ServiceType
	technicians  map[string]entity.Technician
	partners     map[string]entity.PartnerCompany
	users        map[string]entity.User
	stock        map[string]entity.CentralStock
	balances     map[string]entity.TechnicianBalance
	entries      []entity.LedgerEntry
	documents    map[string]entity.Document
	lines        map[string][]entity.DocumentLine
	units        map[string]entity.EquipmentUnit
	history      []entity.EquipmentHistory
	seq          map[string]int64
	next         int64
}

func newState() *state {
	return &state{
		items:        map[string]entity.Item{},
		serviceTypes: map[string]entity.ServiceType{},
		technicians:  map[string]entity.Technician{},
		partners:     map[string]entity.PartnerCompany{},
		users:        map[string]entity.User{},
		stock:        map[string]entity.CentralStock{},
		balances:     map[string]entity.TechnicianBalance{},
		documents:    map[string]entity.Document{},
		lines:        map[string][]entity.DocumentLine{},
		units:        map[string]entity.EquipmentUnit{},
		seq:          map[string]int64{},
	}
}

func (s *state) clone() *state {
	cp := &state{
		items:        maps.Clone(s.items),
		serviceTypes: maps.Clone(s.serviceTypes),
		technicians:  maps.Clone(s.technicians),
		partners:     maps.Clone(s.partners),
		users:        maps.Clone(s.users),
		stock:        maps.Clone(s.stock),
		balances:     maps.Clone(s.balances),
		entries:      slices.Clone(s.entries),
		documents:    maps.Clone(s.documents),
		lines:        make(map[string][]entity.DocumentLine, len(s.lines)),
		units:        maps.Clone(s.units),
		history:      slices.Clone(s.history),
		seq:          maps.Clone(s.seq),
		next:         s.next,
	}
	for k, v := range s.lines {
		cp.lines[k] = slices.Clone(v)
	}
	return cp
}

// touch asigna orden de creación a id si aún no lo tiene.
func (s *state) touch(id string) {
	if _, ok := s.seq[id]; ok {
		return
	}
	s.next++
	s.seq[id] = s.next
}

// Store contiene el estado compartido por todos los repositorios en memoria.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	st   *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Repos devuelve los repositorios sobre el store.
func (s *Store) Repos() repository.Repos {
	return repository.Repos{
		Items:            &ItemRepo{s: s},
		ServiceTypes:     &ServiceTypeRepo{s: s},
		Technicians:      &TechnicianRepo{s: s},
		PartnerCompanies: &PartnerCompanyRepo{s: s},
		Users:            &UserRepo{s: s},
		Stock:            &StockRepo{s: s},
		Balances:         &BalanceRepo{s: s},
		Ledger:           &LedgerRepo{s: s},
		Documents:        &DocumentRepo{s: s},
		Equipment:        &EquipmentRepo{s: s},
	}
}

// Run ejecuta fn de forma serializada; si fn falla el estado vuelve al snapshot previo.
func (s *Store) Run(ctx context.Context, fn func(r repository.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(s.Repos()); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) with(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.st)
}

func contains(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func page[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// sortBySeq ordena por orden de creación.
func sortBySeq[T any](st *state, list []T, id func(T) string) {
	slices.SortStableFunc(list, func(a, b T) int {
		return int(st.seq[id(a)] - st.seq[id(b)])
	})
}
