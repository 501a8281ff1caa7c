package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/logistock/logistock-api/internal/domain/repository"
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// La serialización entre movimientos concurrentes la dan los SELECT ... FOR UPDATE de cada repo.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepos arma el conjunto de repositorios sobre q (pool o tx).
func NewRepos(q Querier) repository.Repos {
	return repository.Repos{
		Items:            NewItemRepository(q),
		ServiceTypes:     NewServiceTypeRepository(q),
		Technicians:      NewTechnicianRepository(q),
		PartnerCompanies: NewPartnerCompanyRepository(q),
		Users:            NewUserRepository(q),
		Stock:            NewStockRepository(q),
		Balances:         NewTechnicianBalanceRepository(q),
		Ledger:           NewLedgerEntryRepository(q),
		Documents:        NewDocumentRepository(q),
		Equipment:        NewEquipmentRepository(q),
	}
}
