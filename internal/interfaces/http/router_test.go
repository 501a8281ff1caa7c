package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/logistock/logistock-api/internal/application/analytics"
	"github.com/logistock/logistock-api/internal/application/auth"
	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/application/inventory"
	"github.com/logistock/logistock-api/internal/application/usecase"
	"github.com/logistock/logistock-api/internal/infrastructure/memory"
	"github.com/logistock/logistock-api/internal/infrastructure/pdf"
	"github.com/logistock/logistock-api/internal/infrastructure/spreadsheet"
	apphttp "github.com/logistock/logistock-api/internal/interfaces/http"
	"github.com/logistock/logistock-api/pkg/logger"
)

type testEnv struct {
	app          *fiber.App
	techUC       *usecase.TechnicianUseCase
	serviceType  string
	technicianID string
	adminToken   string
	techToken    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	repos := s.Repos()
	log := logger.Nop()

	userUC := usecase.NewUserUseCase(repos.Users)
	itemUC := usecase.NewItemUseCase(repos.Items)
	stUC := usecase.NewServiceTypeUseCase(repos.ServiceTypes)
	techUC := usecase.NewTechnicianUseCase(s)
	deps := apphttp.RouterDeps{
		AuthUC:        auth.NewAuthUseCase(repos.Users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		UserUC:        userUC,
		ItemUC:        itemUC,
		ServiceTypeUC: stUC,
		PartnerUC:     usecase.NewPartnerCompanyUseCase(repos.PartnerCompanies),
		TechnicianUC:  techUC,
		Stock:         inventory.NewStockUseCase(s, log),
		Counts:        inventory.NewCountUseCase(s, log),
		Replenishment: inventory.NewReplenishmentUseCase(s),
		Invoices:      inventory.NewInvoiceUseCase(s, log),
		Transfers:     inventory.NewTransferUseCase(s, log),
		Requisitions:  inventory.NewRequisitionUseCase(s, log),
		Kits:          inventory.NewKitUseCase(s, log),
		WriteOffs:     inventory.NewWriteOffUseCase(s, log),
		Documents:     inventory.NewDocumentUseCase(s, pdf.NewReceiptGenerator("")),
		Equipment:     inventory.NewEquipmentUseCase(s, log),
		DashboardUC:   appanalytics.NewDashboardUseCase(repos),
		JWTSecret:     testJWTSecret,
		AppName:       "logistock-test",
	}
	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, deps)

	_, err := userUC.Create(ctx, dto.CreateUserRequest{Email: "admin@logistock.local", Password: "admin123", Name: "Admin", Role: "admin"})
	require.NoError(t, err)
	_, err = itemUC.Create(ctx, dto.CreateItemRequest{Code: "CB-01", Description: "Cabo drop", Unit: "m"})
	require.NoError(t, err)
	st, err := stUC.Create(ctx, dto.ServiceTypeRequest{Name: "Fibra"})
	require.NoError(t, err)
	tech, err := techUC.Create(ctx, dto.TechnicianRequest{
		Name: "Ana", Registration: "T-1", CPF: "123.456.789-01", Email: "ana@logistock.local", ServiceTypeID: st.ID,
	})
	require.NoError(t, err)

	env := &testEnv{app: app, techUC: techUC, serviceType: st.ID, technicianID: tech.ID}
	env.adminToken = env.login(t, "admin@logistock.local", "admin123")
	env.techToken = env.login(t, "ana@logistock.local", "12345678901")
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Token
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// receive da entrada de 10 unidades de CB-01 en el tipo de servicio del entorno.
func (e *testEnv) receive(t *testing.T) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/invoices", e.adminToken, dto.InvoiceRequest{
		Number:        "NF-100",
		ServiceTypeID: e.serviceType,
		Lines: []dto.DocumentLineRequest{
			{Code: "CB-01", Description: "Cabo drop", Unit: "m", Quantity: 10, UnitValue: "2,50", Location: "A1"},
		},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRouter_Health(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/health", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_LoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@logistock.local", Password: "errada"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_InvoiceThenInternalTransfer(t *testing.T) {
	env := newTestEnv(t)
	env.receive(t)

	resp := env.do(t, http.MethodPost, "/api/transfers/internal", env.adminToken, dto.InternalTransferRequest{
		TechnicianID:  env.technicianID,
		Area:          "Centro",
		ServiceTypeID: env.serviceType,
		Lines:         []dto.DocumentLineRequest{{Code: "cb-01", Quantity: 4}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	doc := decode[dto.DocumentResponse](t, resp)
	assert.Equal(t, "internal_transfer", doc.Kind)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, int64(4), doc.Lines[0].Quantity)

	resp = env.do(t, http.MethodGet, "/api/me/balance", env.techToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	bal := decode[dto.TechnicianBalanceResponse](t, resp)
	require.Len(t, bal.Items, 1)
	assert.Equal(t, int64(4), bal.Items[0].Quantity)
	assert.Equal(t, "Ana", bal.TechnicianName)
}

func TestRouter_TransferWithoutStockReturnsIssues(t *testing.T) {
	env := newTestEnv(t)
	env.receive(t)

	resp := env.do(t, http.MethodPost, "/api/transfers/internal", env.adminToken, dto.InternalTransferRequest{
		TechnicianID:  env.technicianID,
		Area:          "Centro",
		ServiceTypeID: env.serviceType,
		Lines:         []dto.DocumentLineRequest{{Code: "CB-01", Quantity: 100}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	require.NotEmpty(t, body.Issues)
	assert.Equal(t, 1, body.Issues[0].Position)
}

func TestRouter_RequisitionConfirmTwiceConflicts(t *testing.T) {
	env := newTestEnv(t)
	env.receive(t)

	resp := env.do(t, http.MethodPost, "/api/requisitions", env.techToken, dto.RequisitionRequest{
		ServiceTypeID: env.serviceType,
		Area:          "Centro",
		Lines:         []dto.DocumentLineRequest{{Code: "CB-01", Quantity: 2}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	req := decode[dto.DocumentResponse](t, resp)
	assert.Equal(t, "pending", req.Status)
	assert.Equal(t, env.technicianID, req.TechnicianID)

	resp = env.do(t, http.MethodPost, "/api/requisitions/"+req.ID+"/confirm", env.techToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/requisitions/"+req.ID+"/confirm", env.adminToken, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/requisitions/"+req.ID+"/confirm", env.adminToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRouter_TechnicianCannotReadOtherBalance(t *testing.T) {
	env := newTestEnv(t)
	other, err := env.techUC.Create(context.Background(), dto.TechnicianRequest{Name: "Bruno", Registration: "T-2"})
	require.NoError(t, err)

	resp := env.do(t, http.MethodGet, "/api/technicians/"+other.ID+"/balance", env.techToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/technicians/"+other.ID+"/balance", env.adminToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_TechnicianCannotReceiveInvoice(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/invoices", env.techToken, dto.InvoiceRequest{
		Number: "NF-1",
		Lines:  []dto.DocumentLineRequest{{Code: "X", Quantity: 1}},
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_InvalidBodyIsValidationError(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/invoices", env.adminToken, dto.InvoiceRequest{Number: "NF-1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.NotEmpty(t, body.Code)
}

func TestRouter_BalanceExportsXLSX(t *testing.T) {
	env := newTestEnv(t)
	env.receive(t)
	resp := env.do(t, http.MethodPost, "/api/transfers/internal", env.adminToken, dto.InternalTransferRequest{
		TechnicianID:  env.technicianID,
		Area:          "Centro",
		ServiceTypeID: env.serviceType,
		Lines:         []dto.DocumentLineRequest{{Code: "CB-01", Quantity: 1}},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/technicians/"+env.technicianID+"/balance?format=xlsx", env.adminToken, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, spreadsheet.ContentTypeXLSX, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
}

func TestRouter_DocumentReceiptIsPDF(t *testing.T) {
	env := newTestEnv(t)
	env.receive(t)

	resp := env.do(t, http.MethodGet, "/api/invoices", env.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.DocumentListResponse](t, resp)
	require.Len(t, list.Items, 1)

	resp = env.do(t, http.MethodGet, "/api/documents/"+list.Items[0].ID+"/receipt", env.adminToken, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestRouter_MalformedIDIsBadRequest(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/api/documents/nao-e-uuid", "/api/technicians/123/balance"} {
		resp := env.do(t, http.MethodGet, path, env.adminToken, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		body := decode[dto.ErrorResponse](t, resp)
		assert.Equal(t, "INVALID_ID", body.Code, path)
	}

	resp := env.do(t, http.MethodGet, "/api/items/code/CB-01", env.adminToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
