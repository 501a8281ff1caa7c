package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/domain/repository"
	"github.com/logistock/logistock-api/internal/infrastructure/memory"
)

func pendingDocument() *entity.Document {
	return &entity.Document{
		ID:        "d1",
		Kind:      entity.DocumentRequisition,
		Status:    entity.StatusPending,
		CreatedAt: time.Now(),
		Lines: []*entity.DocumentLine{
			{ID: "l1", Position: 1, Code: "CB-01", Quantity: 2, Status: entity.LinePending},
		},
	}
}

func TestDocumentRepo_LinesKeepDocumentAfterReload(t *testing.T) {
	s := memory.NewStore()
	docs := s.Repos().Documents
	ctx := context.Background()
	require.NoError(t, docs.Create(ctx, pendingDocument()))

	d, err := docs.GetForUpdate(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, d.Lines, 1)
	assert.Equal(t, "d1", d.Lines[0].DocumentID)

	l := d.Lines[0]
	l.Quantity = 5
	l.Status = entity.LineApproved
	require.NoError(t, docs.UpdateLine(ctx, l))

	now := time.Now()
	d.Status = entity.StatusConfirmed
	d.FinalizedAt = &now
	require.NoError(t, docs.UpdateStatus(ctx, d))

	got, err := docs.GetByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, got.Status)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, int64(5), got.Lines[0].Quantity)
	assert.Equal(t, entity.LineApproved, got.Lines[0].Status)
}

func TestDocumentRepo_UpdateUnknownLine(t *testing.T) {
	s := memory.NewStore()
	docs := s.Repos().Documents
	ctx := context.Background()
	require.NoError(t, docs.Create(ctx, pendingDocument()))

	err := docs.UpdateLine(ctx, &entity.DocumentLine{ID: "otra", DocumentID: "d1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_RunRestoresLinesOnError(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, s.Repos().Documents.Create(ctx, pendingDocument()))

	boom := errors.New("boom")
	err := s.Run(ctx, func(r repository.Repos) error {
		d, err := r.Documents.GetForUpdate(ctx, "d1")
		if err != nil {
			return err
		}
		d.Lines[0].Status = entity.LineApproved
		if err := r.Documents.UpdateLine(ctx, d.Lines[0]); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Repos().Documents.GetByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, entity.LinePending, got.Lines[0].Status)
}
