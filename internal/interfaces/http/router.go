package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	appanalytics "github.com/logistock/logistock-api/internal/application/analytics"
	"github.com/logistock/logistock-api/internal/application/auth"
	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/application/inventory"
	"github.com/logistock/logistock-api/internal/application/usecase"
	"github.com/logistock/logistock-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	ItemUC        *usecase.ItemUseCase
	ServiceTypeUC *usecase.ServiceTypeUseCase
	PartnerUC     *usecase.PartnerCompanyUseCase
	TechnicianUC  *usecase.TechnicianUseCase

	Stock         *inventory.StockUseCase
	Counts        *inventory.CountUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Invoices      *inventory.InvoiceUseCase
	Transfers     *inventory.TransferUseCase
	Requisitions  *inventory.RequisitionUseCase
	Kits          *inventory.KitUseCase
	WriteOffs     *inventory.WriteOffUseCase
	Documents     *inventory.DocumentUseCase
	Equipment     *inventory.EquipmentUseCase
	DashboardUC   *appanalytics.DashboardUseCase

	JWTSecret string
	// LoginRateLimit intentos de login por IP dentro de LoginWindow; 0 desactiva el limiter.
	LoginRateLimit int
	LoginWindow    time.Duration
	// LimiterStorage comparte el conteo del limiter entre instancias (Redis). nil = memoria local.
	LimiterStorage fiber.Storage
	// Health verifica dependencias externas (ping a la BD). nil = siempre ok.
	Health func(ctx context.Context) error
	AppName string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Health != nil {
			if err := deps.Health(c.Context()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": deps.AppName, "db": "error"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api")

	// Auth (público, con límite de intentos)
	authHandler := NewAuthHandler(deps.AuthUC)
	loginHandlers := []fiber.Handler{}
	if deps.LoginRateLimit > 0 {
		window := deps.LoginWindow
		if window <= 0 {
			window = time.Minute
		}
		loginHandlers = append(loginHandlers, limiter.New(limiter.Config{
			Max:        deps.LoginRateLimit,
			Expiration: window,
			Storage:    deps.LimiterStorage,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "TOO_MANY_REQUESTS", Message: "demasiados intentos de login, intente más tarde"})
			},
		}))
	}
	api.Post("/auth/login", append(loginHandlers, authHandler.Login)...)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	var (
		admin    = RequireRole(entity.RoleAdmin)
		staff    = RequireRole(entity.RoleAdmin, entity.RoleStock)
		readers  = RequireRole(entity.RoleAdmin, entity.RoleStock, entity.RoleTechnical)
		everyone = RequireRole(entity.RoleAdmin, entity.RoleStock, entity.RoleTechnical, entity.RoleTechnician)
	)

	// Users (admin)
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users", admin)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Items
	itemHandler := NewItemHandler(deps.ItemUC)
	items := protected.Group("/items")
	items.Get("/", everyone, itemHandler.List)
	items.Get("/code/:code", everyone, itemHandler.GetByCode)
	items.Get("/:id", everyone, itemHandler.GetByID)
	items.Post("/", staff, itemHandler.Create)
	items.Post("/import", staff, itemHandler.Import)
	items.Put("/:id", staff, itemHandler.Update)
	items.Delete("/:id", staff, itemHandler.Delete)

	// Catálogos
	catalog := NewCatalogHandler(deps.ServiceTypeUC, deps.PartnerUC, deps.TechnicianUC)
	serviceTypes := protected.Group("/service-types")
	serviceTypes.Get("/", everyone, catalog.ListServiceTypes)
	serviceTypes.Post("/", staff, catalog.CreateServiceType)
	serviceTypes.Put("/:id", staff, catalog.UpdateServiceType)
	serviceTypes.Delete("/:id", staff, catalog.DeleteServiceType)

	partners := protected.Group("/partner-companies")
	partners.Get("/", readers, catalog.ListPartners)
	partners.Post("/", staff, catalog.CreatePartner)
	partners.Put("/:id", staff, catalog.UpdatePartner)
	partners.Delete("/:id", staff, catalog.DeletePartner)

	stockHandler := NewStockHandler(deps.Stock, deps.Counts, deps.Replenishment)
	technicians := protected.Group("/technicians")
	technicians.Get("/", readers, catalog.ListTechnicians)
	technicians.Post("/", staff, catalog.CreateTechnician)
	technicians.Get("/:id", readers, catalog.GetTechnician)
	technicians.Put("/:id", staff, catalog.UpdateTechnician)
	technicians.Patch("/:id/status", staff, catalog.SetTechnicianStatus)
	technicians.Get("/:id/balance", everyone, stockHandler.TechnicianBalance)
	technicians.Post("/:id/counts", staff, stockHandler.TechnicianCount)
	protected.Get("/me/balance", everyone, stockHandler.MyBalance)

	// Estoque central
	stock := protected.Group("/stock")
	stock.Get("/", readers, stockHandler.List)
	stock.Get("/alerts", readers, stockHandler.Alerts)
	stock.Get("/available", everyone, stockHandler.Available)
	stock.Get("/item", readers, stockHandler.ItemBalance)
	stock.Get("/replenishment", staff, stockHandler.Replenishment)
	stock.Put("/minimums", staff, stockHandler.UpdateMinimums)
	stock.Put("/locations", staff, stockHandler.UpdateLocations)
	stock.Post("/counts", staff, stockHandler.StockCount)

	// Documentos de movimiento
	docs := NewDocumentHandler(DocumentUseCases{
		Invoices:     deps.Invoices,
		Transfers:    deps.Transfers,
		Requisitions: deps.Requisitions,
		Kits:         deps.Kits,
		WriteOffs:    deps.WriteOffs,
		Documents:    deps.Documents,
	})
	invoices := protected.Group("/invoices", staff)
	invoices.Post("/", docs.ReceiveInvoice)
	invoices.Get("/", docs.ListKind(entity.DocumentInvoice))
	invoices.Delete("/:id", docs.DeleteInvoice)

	transfers := protected.Group("/transfers", staff)
	transfers.Post("/internal", docs.InternalTransfer)
	transfers.Post("/external", docs.ExternalTransfer)
	transfers.Get("/internal", docs.ListKind(entity.DocumentInternalTransfer))
	transfers.Get("/external", docs.ListKind(entity.DocumentExternalTransfer))

	requisitions := protected.Group("/requisitions")
	requisitions.Post("/", everyone, docs.CreateRequisition)
	requisitions.Get("/", everyone, docs.ListKind(entity.DocumentRequisition))
	requisitions.Get("/pending/count", readers, docs.PendingCount(entity.DocumentRequisition))
	requisitions.Put("/:id/lines", readers, docs.UpdateRequisitionLines)
	requisitions.Post("/:id/confirm", staff, docs.ConfirmRequisition)
	requisitions.Post("/:id/refuse", staff, docs.RefuseRequisition)

	kits := protected.Group("/kits", staff)
	kits.Post("/", docs.DeliverKit)
	kits.Get("/", docs.ListKind(entity.DocumentInitialKit))

	writeOffs := protected.Group("/write-offs")
	writeOffs.Post("/", everyone, docs.CreateWriteOff)
	writeOffs.Get("/", everyone, docs.ListKind(entity.DocumentWriteOff))
	writeOffs.Get("/pending/count", staff, docs.PendingCount(entity.DocumentWriteOff))
	writeOffs.Post("/:id/approve", staff, docs.ApproveWriteOff)
	writeOffs.Post("/:id/refuse", staff, docs.RefuseWriteOff)

	documents := protected.Group("/documents", everyone)
	documents.Get("/", docs.List)
	documents.Get("/:id", docs.Get)
	documents.Get("/:id/entries", docs.Entries)
	documents.Get("/:id/receipt", docs.Receipt)
	documents.Get("/:id/export", docs.ExportCount)

	// Equipos
	equipmentHandler := NewEquipmentHandler(deps.Equipment)
	equipment := protected.Group("/equipment")
	equipment.Post("/movements", staff, equipmentHandler.Move)
	equipment.Post("/returns", staff, equipmentHandler.ReturnDirect)
	equipment.Post("/units/:id/return", staff, equipmentHandler.ReturnUnit)
	equipment.Get("/holdings", everyone, equipmentHandler.Holdings)
	equipment.Get("/units", readers, equipmentHandler.Units)
	equipment.Get("/history", readers, equipmentHandler.History)

	// Dashboard y reportes
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", readers, dashboardHandler.GetSummary)
	protected.Get("/reports/consumption", readers, dashboardHandler.Consumption)
}
