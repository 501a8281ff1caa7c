package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/application/inventory"
	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/infrastructure/memory"
	"github.com/logistock/logistock-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	svcFibra = "8f0c2c1e-0000-4000-8000-000000000001"
	techAna  = "8f0c2c1e-0000-4000-8000-0000000000a1"
	techBeto = "8f0c2c1e-0000-4000-8000-0000000000b2"
	itemCabo = "8f0c2c1e-0000-4000-8000-0000000000c1"
	itemConn = "8f0c2c1e-0000-4000-8000-0000000000c2"
	itemONU  = "8f0c2c1e-0000-4000-8000-0000000000e1"
	partner  = "8f0c2c1e-0000-4000-8000-0000000000f1"
)

var (
	admin   = inventory.Actor{UserID: "u-admin", Role: entity.RoleAdmin}
	tecnico = inventory.Actor{UserID: "u-ana", Role: entity.RoleTechnician, TechnicianID: techAna}
)

func seed(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	r := s.Repos()
	ctx := context.Background()
	require.NoError(t, r.ServiceTypes.Create(ctx, &entity.ServiceType{ID: svcFibra, Name: "Fibra"}))
	require.NoError(t, r.Technicians.Create(ctx, &entity.Technician{ID: techAna, Name: "Ana", Registration: "M-1", Status: entity.TechnicianActive}))
	require.NoError(t, r.Technicians.Create(ctx, &entity.Technician{ID: techBeto, Name: "Beto", Registration: "M-2", Status: entity.TechnicianInactive}))
	require.NoError(t, r.Items.Create(ctx, &entity.Item{ID: itemCabo, Code: "CB-01", Description: "Cabo drop", Unit: "m", UnitValue: decimal.RequireFromString("2.50")}))
	require.NoError(t, r.Items.Create(ctx, &entity.Item{ID: itemConn, Code: "CN-02", Description: "Conector SC", Unit: "un", UnitValue: decimal.RequireFromString("1.10")}))
	require.NoError(t, r.Items.Create(ctx, &entity.Item{ID: itemONU, Code: "ONU-1", Description: "ONU GPON", Unit: "un", IsEquipment: true}))
	require.NoError(t, r.PartnerCompanies.Create(ctx, &entity.PartnerCompany{ID: partner, LegalName: "Parceira Ltda"}))
	return s
}

func receive(t *testing.T, s *memory.Store, number string, lines ...dto.DocumentLineRequest) *dto.DocumentResponse {
	t.Helper()
	uc := inventory.NewInvoiceUseCase(s, logger.Nop())
	out, err := uc.Receive(context.Background(), admin, dto.InvoiceRequest{Number: number, ServiceTypeID: svcFibra, Lines: lines})
	require.NoError(t, err)
	return out
}

func line(code string, qty int64) dto.DocumentLineRequest {
	return dto.DocumentLineRequest{Code: code, Quantity: qty}
}

func central(t *testing.T, s *memory.Store, itemID string) int64 {
	t.Helper()
	st, err := s.Repos().Stock.Get(context.Background(), entity.StockKey{ItemID: itemID, ServiceTypeID: svcFibra})
	require.NoError(t, err)
	if st == nil {
		return 0
	}
	return st.Quantity
}

func held(t *testing.T, s *memory.Store, techID, itemID, address string) int64 {
	t.Helper()
	b, err := s.Repos().Balances.GetForUpdate(context.Background(), entity.BalanceKey{TechnicianID: techID, ItemID: itemID, ServiceTypeID: svcFibra, Address: address})
	require.NoError(t, err)
	if b == nil {
		return 0
	}
	return b.Quantity
}

func issuesOf(t *testing.T, err error) []dto.LineIssue {
	t.Helper()
	var ie *inventory.IssuesError
	require.True(t, errors.As(err, &ie), "se esperaba IssuesError, llegó %v", err)
	return ie.Issues
}

// ──────────────────────────────────────────────────────────────────────────────
// Nota fiscal
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoice_ReceiveAddsStockAndSkipsUnknownCodes(t *testing.T) {
	s := seed(t)
	uc := inventory.NewInvoiceUseCase(s, logger.Nop())

	out, err := uc.Receive(context.Background(), admin, dto.InvoiceRequest{
		Number:        "NF-100",
		ServiceTypeID: svcFibra,
		Lines: []dto.DocumentLineRequest{
			{Code: "CB-01", Quantity: 100, UnitValue: "1.234,50", Location: "A1"},
			{Code: "XX-99", Quantity: 5},
			{},
			{Code: "CN-02", Quantity: 10, UnitValue: "abc"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusConfirmed, out.Status)
	require.Len(t, out.Lines, 2)
	assert.True(t, decimal.RequireFromString("1234.50").Equal(out.Lines[0].UnitValue))
	assert.True(t, out.Lines[1].UnitValue.IsZero(), "valor inválido vale cero")
	require.Len(t, out.Issues, 1)
	assert.Equal(t, 2, out.Issues[0].Position)
	assert.Equal(t, int64(100), central(t, s, itemCabo))
	assert.Equal(t, int64(10), central(t, s, itemConn))

	st, err := s.Repos().Stock.Get(context.Background(), entity.StockKey{ItemID: itemCabo, ServiceTypeID: svcFibra})
	require.NoError(t, err)
	assert.Equal(t, "A1", st.Location)
}

func TestInvoice_DuplicateNumber(t *testing.T) {
	s := seed(t)
	receive(t, s, "NF-1", line("CB-01", 1))

	uc := inventory.NewInvoiceUseCase(s, logger.Nop())
	_, err := uc.Receive(context.Background(), admin, dto.InvoiceRequest{Number: "NF-1", Lines: []dto.DocumentLineRequest{line("CB-01", 1)}})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, int64(1), central(t, s, itemCabo))
}

func TestInvoice_DeleteKeepsStock(t *testing.T) {
	s := seed(t)
	doc := receive(t, s, "NF-2", line("CB-01", 7))

	docs := inventory.NewDocumentUseCase(s, nil)
	require.NoError(t, docs.DeleteInvoice(context.Background(), doc.ID))

	_, err := docs.Get(context.Background(), admin, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(7), central(t, s, itemCabo))
}

// ──────────────────────────────────────────────────────────────────────────────
// Transferencias
// ──────────────────────────────────────────────────────────────────────────────

func TestInternalTransfer_PartialLinesReportIssues(t *testing.T) {
	s := seed(t)
	receive(t, s, "NF-1", line("CB-01", 10))
	uc := inventory.NewTransferUseCase(s, logger.Nop())

	out, err := uc.Internal(context.Background(), admin, dto.InternalTransferRequest{
		TechnicianID:  techAna,
		Area:          "Zona Norte",
		ServiceTypeID: svcFibra,
		Lines: []dto.DocumentLineRequest{
			line("CB-01", 6),
			line("CB-01", 5), // junto con la anterior supera el estoque
			line("CN-02", 1), // sin fila de estoque
		},
	})
	require.NoError(t, err)

	require.Len(t, out.Lines, 1)
	require.Len(t, out.Issues, 2)
	assert.Equal(t, int64(4), central(t, s, itemCabo))
	assert.Equal(t, int64(6), held(t, s, techAna, itemCabo, "Zona Norte"))
}

func TestInternalTransfer_NothingTransferredRollsBack(t *testing.T) {
	s := seed(t)
	receive(t, s, "NF-1", line("CB-01", 3))
	uc := inventory.NewTransferUseCase(s, logger.Nop())

	_, err := uc.Internal(context.Background(), admin, dto.InternalTransferRequest{
		TechnicianID: techAna, Area: "Centro", ServiceTypeID: svcFibra,
		Lines: []dto.DocumentLineRequest{line("CB-01", 4)},
	})
	require.ErrorIs(t, err, domain.ErrNothingTransferred)
	assert.Len(t, issuesOf(t, err), 1)
	assert.Equal(t, int64(3), central(t, s, itemCabo))

	list, err := inventory.NewDocumentUseCase(s, nil).List(context.Background(), admin, entity.DocumentInternalTransfer, dto.DocumentFilterRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestInternalTransfer_InactiveTechnician(t *testing.T) {
	s := seed(t)
	receive(t, s, "NF-1", line("CB-01", 3))
	uc := inventory.NewTransferUseCase(s, logger.Nop())

	_, err := uc.Internal(context.Background(), admin, dto.InternalTransferRequest{
		TechnicianID: techBeto, Area: "Centro", ServiceTypeID: svcFibra,
		Lines: []dto.DocumentLineRequest{line("CB-01", 1)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExternalTransfer_DebitsCentralOnly(t *testing.T) {
	s := seed(t)
	receive(t, s, "NF-1", line("CB-01", 10))
	uc := inventory.NewTransferUseCase(s, logger.Nop())

	out, err := uc.External(context.Background(), admin, dto.ExternalTransferRequest{
		PartnerCompanyID: partner,
		AuthorizedBy:     "Coordenação",
		WithdrawnBy:      "Motorista",
		ServiceTypeID:    svcFibra,
		Lines:            []dto.DocumentLineRequest{line("CB-01", 4)},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentExternalTransfer, out.Kind)
	assert.Equal(t, int64(6), central(t, s, itemCabo))
}

// ──────────────────────────────────────────────────────────────────────────────
// Requisiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRequisition_TechnicianUsesOwnID(t *testing.T) {
	s := seed(t)
	receive(t, s, "NF-1", line("CB-01", 10))
	uc := inventory.NewRequisitionUseCase(s, logger.Nop())

	out, err := uc.Create(context.Background(), tecnico, dto.RequisitionRequest{
		TechnicianID:  techBeto,
		ServiceTypeID: svcFibra,
		Area:          "Bairro Sul",
		Lines:         []dto.DocumentLineRequest{line("CB-01", 3)},
	})
	require.NoError(t, err)
	assert.Equal(t, techAna, out.TechnicianID)
	assert.Equal(t, entity.StatusPending, out.Status)
	assert.Equal(t, int64(10), out.Lines[0].QuantityBefore)
	assert.Equal(t, int64(10), central(t, s, itemCabo), "crear no mueve estoque")
}

func TestRequisition_ConfirmTransfersAndRejectsSecondTransition(t *testing.T) {
	s := seed(t)
	receive(t, s, "NF-1", line("CB-01", 10))
	uc := inventory.NewRequisitionUseCase(s, logger.Nop())
	ctx := context.Background()

	req, err := uc.Create(ctx, tecnico, dto.RequisitionRequest{ServiceTypeID: svcFibra, Area: "Bairro Sul", Lines: []dto.DocumentLineRequest{line("CB-01", 3)}})
	require.NoError(t, err)

	_, err = uc.UpdateLines(ctx, req.ID, dto.UpdateLinesRequest{Lines: []dto.LineQuantityUpdate{{LineID: req.Lines[0].ID, Quantity: 4}}})
	require.NoError(t, err)

	out, err := uc.Confirm(ctx, admin, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDelivered, out.Status)
	assert.Equal(t, entity.LineApplied, out.Lines[0].Status)
	assert.Equal(t, int64(6), central(t, s, itemCabo))
	assert.Equal(t, int64(4), held(t, s, techAna, itemCabo, "Bairro Sul"))

	_, err = uc.Confirm(ctx, admin, req.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyFinalized)
	_, err = uc.Refuse(ctx, admin, req.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyFinalized)
	assert.Equal(t, int64(6), central(t, s, itemCabo), "segunda confirmación no aplica de nuevo")
}

func TestRequisition_CreditGoesToAreaRow(t *testing.T) {
	s := seed(t)
	receive(t, s, "NF-1", line("CB-01", 10))
	uc := inventory.NewRequisitionUseCase(s, logger.Nop())
	ctx := context.Background()

	for _, area := range []string{"Bairro Sul", "Centro"} {
		req, err := uc.Create(ctx, tecnico, dto.RequisitionRequest{ServiceTypeID: svcFibra, Area: area, Lines: []dto.DocumentLineRequest{line("CB-01", 2)}})
		require.NoError(t, err)
		_, err = uc.Confirm(ctx, admin, req.ID)
		require.NoError(t, err)
	}

	assert.Equal(t, int64(2), held(t, s, techAna, itemCabo, "Bairro Sul"))
	assert.Equal(t, int64(2), held(t, s, techAna, itemCabo, "Centro"))
	assert.Zero(t, held(t, s, techAna, itemCabo, ""), "no existe fila sin dirección")
	assert.Equal(t, int64(6), central(t, s, itemCabo))
}

func TestRequisition_ShortfallAbortsWholeDocument(t *testing.T) {
	s := seed(t)
	receive(t, s, "NF-1", line("CB-01", 10), line("CN-02", 1))
	uc := inventory.NewRequisitionUseCase(s, logger.Nop())
	ctx := context.Background()

	req, err := uc.Create(ctx, tecnico, dto.RequisitionRequest{
		ServiceTypeID: svcFibra,
		Lines:         []dto.DocumentLineRequest{line("CB-01", 2), line("CN-02", 5)},
	})
	require.NoError(t, err)

	_, err = uc.Confirm(ctx, admin, req.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	issues := issuesOf(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "CN-02", issues[0].Code)
	assert.Equal(t, int64(10), central(t, s, itemCabo))

	doc, err := inventory.NewDocumentUseCase(s, nil).Get(ctx, admin, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, doc.Status)
}

func TestRequisition_Refuse(t *testing.T) {
	s := seed(t)
	uc := inventory.NewRequisitionUseCase(s, logger.Nop())
	ctx := context.Background()

	req, err := uc.Create(ctx, tecnico, dto.RequisitionRequest{Lines: []dto.DocumentLineRequest{line("CB-01", 2)}})
	require.NoError(t, err)

	out, err := uc.Refuse(ctx, admin, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRefused, out.Status)
	assert.Equal(t, entity.LineSkipped, out.Lines[0].Status)

	count, err := inventory.NewDocumentUseCase(s, nil).PendingCount(ctx, entity.DocumentRequisition)
	require.NoError(t, err)
	assert.Zero(t, count.Count)
}

// ──────────────────────────────────────────────────────────────────────────────
// Kit inicial
// ──────────────────────────────────────────────────────────────────────────────

func TestKit_MissingStockRowCreditsWithoutDebit(t *testing.T) {
	s := seed(t)
	receive(t, s, "NF-1", line("CB-01", 10))
	uc := inventory.NewKitUseCase(s, logger.Nop())

	out, err := uc.Deliver(context.Background(), admin, dto.KitRequest{
		Name: "Kit fibra", TechnicianID: techAna, ServiceTypeID: svcFibra,
		Lines: []dto.DocumentLineRequest{line("CB-01", 5), line("CN-02", 2)},
	})
	require.NoError(t, err)
	require.Len(t, out.Lines, 2)
	assert.NotEmpty(t, out.Lines[1].Note)
	assert.Equal(t, int64(5), central(t, s, itemCabo))
	assert.Equal(t, int64(5), held(t, s, techAna, itemCabo, ""))
	assert.Equal(t, int64(2), held(t, s, techAna, itemConn, ""))
}

func TestKit_InsufficientLineAbortsKit(t *testing.T) {
	s := seed(t)
	receive(t, s, "NF-1", line("CB-01", 10), line("CN-02", 1))
	uc := inventory.NewKitUseCase(s, logger.Nop())

	_, err := uc.Deliver(context.Background(), admin, dto.KitRequest{
		Name: "Kit fibra", TechnicianID: techAna, ServiceTypeID: svcFibra,
		Lines: []dto.DocumentLineRequest{line("CB-01", 5), line("CN-02", 2)},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), central(t, s, itemCabo))
	assert.Zero(t, held(t, s, techAna, itemCabo, ""))
}

// ──────────────────────────────────────────────────────────────────────────────
// Baixas
// ──────────────────────────────────────────────────────────────────────────────

func TestWriteOff_ApproveDebitsAcrossAddresses(t *testing.T) {
	s := seed(t)
	receive(t, s, "NF-1", line("CB-01", 20))
	tr := inventory.NewTransferUseCase(s, logger.Nop())
	ctx := context.Background()
	for _, area := range []string{"Norte", "Sul"} {
		_, err := tr.Internal(ctx, admin, dto.InternalTransferRequest{
			TechnicianID: techAna, Area: area, ServiceTypeID: svcFibra,
			Lines: []dto.DocumentLineRequest{line("CB-01", 4)},
		})
		require.NoError(t, err)
	}

	uc := inventory.NewWriteOffUseCase(s, logger.Nop())
	wo, err := uc.Create(ctx, tecnico, dto.WriteOffRequest{
		ServiceTypeID: svcFibra,
		Lines:         []dto.DocumentLineRequest{line("CB-01", 6), line("CN-02", 1)},
	})
	require.NoError(t, err)
	require.Len(t, wo.Lines, 2)

	out, err := uc.Approve(ctx, admin, wo.ID, dto.ApproveLinesRequest{LineIDs: []string{wo.Lines[0].ID}})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, out.Status, "queda una línea pendiente")
	assert.Zero(t, held(t, s, techAna, itemCabo, "Norte"))
	assert.Equal(t, int64(2), held(t, s, techAna, itemCabo, "Sul"))

	// sin fila de saldo: se aprueba sin débito
	out, err = uc.Approve(ctx, admin, wo.ID, dto.ApproveLinesRequest{LineIDs: []string{wo.Lines[1].ID}})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, out.Status)
	assert.Equal(t, entity.LineApproved, out.Lines[1].Status)

	_, err = uc.Approve(ctx, admin, wo.ID, dto.ApproveLinesRequest{LineIDs: []string{wo.Lines[0].ID}})
	assert.ErrorIs(t, err, domain.ErrAlreadyFinalized)
}

func TestWriteOff_InsufficientBalanceStaysPending(t *testing.T) {
	s := seed(t)
	receive(t, s, "NF-1", line("CB-01", 5))
	ctx := context.Background()
	_, err := inventory.NewTransferUseCase(s, logger.Nop()).Internal(ctx, admin, dto.InternalTransferRequest{
		TechnicianID: techAna, Area: "Norte", ServiceTypeID: svcFibra,
		Lines: []dto.DocumentLineRequest{line("CB-01", 2)},
	})
	require.NoError(t, err)

	uc := inventory.NewWriteOffUseCase(s, logger.Nop())
	wo, err := uc.Create(ctx, tecnico, dto.WriteOffRequest{ServiceTypeID: svcFibra, Lines: []dto.DocumentLineRequest{line("CB-01", 3)}})
	require.NoError(t, err)

	out, err := uc.Approve(ctx, admin, wo.ID, dto.ApproveLinesRequest{LineIDs: []string{wo.Lines[0].ID}})
	require.NoError(t, err)
	require.Len(t, out.Issues, 1)
	assert.Equal(t, entity.LinePending, out.Lines[0].Status)
	assert.Equal(t, int64(2), held(t, s, techAna, itemCabo, "Norte"))

	_, err = uc.Approve(ctx, admin, wo.ID, dto.ApproveLinesRequest{LineIDs: []string{"otra-linea"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWriteOff_RequiresValidLine(t *testing.T) {
	s := seed(t)
	_, err := inventory.NewWriteOffUseCase(s, logger.Nop()).Create(context.Background(), tecnico, dto.WriteOffRequest{
		Lines: []dto.DocumentLineRequest{line("CB-01", 0)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Equipos
// ──────────────────────────────────────────────────────────────────────────────

func TestEquipment_CheckoutAndReturn(t *testing.T) {
	s := seed(t)
	receive(t, s, "NF-1", line("ONU-1", 3), line("CB-01", 1))
	uc := inventory.NewEquipmentUseCase(s, logger.Nop())
	ctx := context.Background()

	out, err := uc.Move(ctx, admin, dto.EquipmentMovementRequest{
		TechnicianID:  techAna,
		ServiceTypeID: svcFibra,
		Lines: []dto.EquipmentLineRequest{
			{Code: "ONU-1", Quantity: 2, Direction: entity.EquipmentToTechnician},
			{Code: "CB-01", Quantity: 1, Direction: entity.EquipmentToTechnician},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Issues, 1, "material común no es equipo")
	assert.Equal(t, int64(1), central(t, s, itemONU))

	holdings, err := uc.Holdings(ctx, techAna)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, int64(2), holdings[0].Quantity)

	_, err = uc.ReturnDirect(ctx, admin, dto.EquipmentReturnRequest{TechnicianID: techAna, ItemID: itemONU, Quantity: 3})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	units, err := uc.Units(ctx, techAna, itemONU)
	require.NoError(t, err)
	require.Len(t, units, 2)
	_, err = uc.ReturnUnit(ctx, admin, units[0].ID, dto.UnitReturnRequest{Location: "Prateleira 3"})
	require.NoError(t, err)
	_, err = uc.ReturnUnit(ctx, admin, units[0].ID, dto.UnitReturnRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.ReturnDirect(ctx, admin, dto.EquipmentReturnRequest{TechnicianID: techAna, ItemID: itemONU, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), central(t, s, itemONU))

	history, err := uc.History(ctx, techAna, itemONU, 0)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestEquipment_ReturnDirectRejectsMaterial(t *testing.T) {
	s := seed(t)
	_, err := inventory.NewEquipmentUseCase(s, logger.Nop()).ReturnDirect(context.Background(), admin,
		dto.EquipmentReturnRequest{TechnicianID: techAna, ItemID: itemCabo, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotEquipment)
}

func TestEquipment_ReturnGoesBackToUnitServiceType(t *testing.T) {
	s := seed(t)
	ctx := context.Background()
	const svcCobre = "8f0c2c1e-0000-4000-8000-000000000002"
	require.NoError(t, s.Repos().ServiceTypes.Create(ctx, &entity.ServiceType{ID: svcCobre, Name: "Cobre"}))
	receive(t, s, "NF-1", line("ONU-1", 2))
	uc := inventory.NewEquipmentUseCase(s, logger.Nop())

	_, err := uc.Move(ctx, admin, dto.EquipmentMovementRequest{
		TechnicianID:  techAna,
		ServiceTypeID: svcFibra,
		Lines:         []dto.EquipmentLineRequest{{Code: "ONU-1", Quantity: 2, Direction: entity.EquipmentToTechnician}},
	})
	require.NoError(t, err)
	assert.Zero(t, central(t, s, itemONU))

	_, err = uc.Move(ctx, admin, dto.EquipmentMovementRequest{
		TechnicianID:  techAna,
		ServiceTypeID: svcCobre,
		Lines:         []dto.EquipmentLineRequest{{Code: "ONU-1", Quantity: 2, Direction: entity.EquipmentToWarehouse}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), central(t, s, itemONU), "vuelven al tipo de servicio con que salieron")
	other, err := s.Repos().Stock.Get(ctx, entity.StockKey{ItemID: itemONU, ServiceTypeID: svcCobre})
	require.NoError(t, err)
	if other != nil {
		assert.Zero(t, other.Quantity)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Conteos
// ──────────────────────────────────────────────────────────────────────────────

func counted(n int64) *int64 { return &n }

func TestStockCount_OverwritesQuantities(t *testing.T) {
	s := seed(t)
	receive(t, s, "NF-1", line("CB-01", 10))
	uc := inventory.NewCountUseCase(s, logger.Nop())

	out, err := uc.StockCount(context.Background(), admin, dto.CountRequest{Lines: []dto.CountLineRequest{
		{Code: "CB-01", ServiceTypeID: svcFibra, Counted: counted(7)},
		{Code: "CN-02", ServiceTypeID: svcFibra, Counted: counted(3)},
		{Code: "ONU-1", ServiceTypeID: svcFibra},
	}})
	require.NoError(t, err)
	require.Len(t, out.Lines, 2)
	assert.Equal(t, int64(10), out.Lines[0].QuantityBefore)
	assert.Equal(t, int64(7), out.Lines[0].Quantity)
	assert.Equal(t, int64(7), central(t, s, itemCabo))
	assert.Equal(t, int64(3), central(t, s, itemConn))

	entries, err := inventory.NewDocumentUseCase(s, nil).Entries(context.Background(), admin, out.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(-3), entries[0].Delta)
}

func TestStockCount_NothingCounted(t *testing.T) {
	s := seed(t)
	_, err := inventory.NewCountUseCase(s, logger.Nop()).StockCount(context.Background(), admin, dto.CountRequest{
		Lines: []dto.CountLineRequest{{Code: "CB-01"}},
	})
	assert.ErrorIs(t, err, domain.ErrNothingCounted)
}

func TestTechnicianCount_CreatesAndOverwritesRows(t *testing.T) {
	s := seed(t)
	receive(t, s, "NF-1", line("CB-01", 10))
	ctx := context.Background()
	_, err := inventory.NewTransferUseCase(s, logger.Nop()).Internal(ctx, admin, dto.InternalTransferRequest{
		TechnicianID: techAna, Area: "Norte", ServiceTypeID: svcFibra,
		Lines: []dto.DocumentLineRequest{line("CB-01", 5)},
	})
	require.NoError(t, err)

	out, err := inventory.NewCountUseCase(s, logger.Nop()).TechnicianCount(ctx, admin, techAna, dto.CountRequest{Lines: []dto.CountLineRequest{
		{Code: "CB-01", ServiceTypeID: svcFibra, Address: "Norte", Counted: counted(2)},
		{Code: "CN-02", ServiceTypeID: svcFibra, Address: "Norte", Counted: counted(4)},
		{Code: "CN-02", ServiceTypeID: svcFibra, Address: "Norte", Counted: counted(9)},
	}})
	require.NoError(t, err)
	require.Len(t, out.Issues, 1, "fila repetida")
	assert.Equal(t, int64(5), out.Lines[0].QuantityBefore)
	assert.Equal(t, int64(2), held(t, s, techAna, itemCabo, "Norte"))
	assert.Equal(t, int64(4), held(t, s, techAna, itemConn, "Norte"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Estoque y saldos
// ──────────────────────────────────────────────────────────────────────────────

func TestStock_UpdateMinimumsAndAlerts(t *testing.T) {
	s := seed(t)
	receive(t, s, "NF-1", line("CB-01", 50), line("CN-02", 8))
	ctx := context.Background()
	r := s.Repos()
	cabo, err := r.Stock.Get(ctx, entity.StockKey{ItemID: itemCabo, ServiceTypeID: svcFibra})
	require.NoError(t, err)
	conn, err := r.Stock.Get(ctx, entity.StockKey{ItemID: itemConn, ServiceTypeID: svcFibra})
	require.NoError(t, err)

	uc := inventory.NewStockUseCase(s, logger.Nop())
	res, err := uc.UpdateMinimums(ctx, dto.UpdateMinimumsRequest{Items: []dto.MinimumUpdate{
		{StockID: cabo.ID, Minimum: "25%"},
		{StockID: conn.ID, Minimum: "10"},
		{StockID: conn.ID, Minimum: "dez"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Updated)
	require.Len(t, res.Issues, 1)

	alerts, err := uc.Alerts(ctx, svcFibra)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "CN-02", alerts[0].ItemCode)
	assert.True(t, alerts[0].Low)

	cabo, err = r.Stock.Get(ctx, entity.StockKey{ItemID: itemCabo, ServiceTypeID: svcFibra})
	require.NoError(t, err)
	assert.Equal(t, int64(12), cabo.MinQuantity, "25% de 50 redondeado hacia abajo")

	suggestions, err := inventory.NewReplenishmentUseCase(s).GenerateReplenishmentList(ctx, svcFibra)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, int64(15), suggestions[0].IdealStock)
	assert.Equal(t, int64(7), suggestions[0].SuggestedOrderQty)
	assert.Equal(t, 1, suggestions[0].Priority)
}

func TestStock_ItemBalanceAndTechnicianBalance(t *testing.T) {
	s := seed(t)
	receive(t, s, "NF-1", line("CB-01", 10))
	ctx := context.Background()
	tr := inventory.NewTransferUseCase(s, logger.Nop())
	for _, area := range []string{"Norte", "Sul"} {
		_, err := tr.Internal(ctx, admin, dto.InternalTransferRequest{
			TechnicianID: techAna, Area: area, ServiceTypeID: svcFibra,
			Lines: []dto.DocumentLineRequest{line("CB-01", 2)},
		})
		require.NoError(t, err)
	}

	uc := inventory.NewStockUseCase(s, logger.Nop())
	ib, err := uc.ItemBalance(ctx, "", "cb-01")
	require.NoError(t, err)
	assert.Equal(t, int64(6), ib.Central)
	assert.Equal(t, int64(4), ib.WithTechnicians)

	tb, err := uc.TechnicianBalance(ctx, techAna, "")
	require.NoError(t, err)
	require.Len(t, tb.Items, 1)
	assert.Equal(t, int64(4), tb.Items[0].Quantity)
	assert.Len(t, tb.Items[0].Addresses, 2)

	_, err = uc.ItemBalance(ctx, "", "NAO-EXISTE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Documentos
// ──────────────────────────────────────────────────────────────────────────────

func TestDocuments_TechnicianSeesOnlyOwn(t *testing.T) {
	s := seed(t)
	doc := receive(t, s, "NF-1", line("CB-01", 1))
	docs := inventory.NewDocumentUseCase(s, nil)

	_, err := docs.Get(context.Background(), tecnico, doc.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := docs.Get(context.Background(), admin, doc.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("2.50").Equal(got.Total))

	_, err = docs.List(context.Background(), admin, "desconocido", dto.DocumentFilterRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
