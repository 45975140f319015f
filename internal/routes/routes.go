package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/config"
	appointmentDomain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/domain/cashregister"
	financeDomain "github.com/BruksfildServices01/salon-manager/internal/domain/finance"
	saleDomain "github.com/BruksfildServices01/salon-manager/internal/domain/sale"
	"github.com/BruksfildServices01/salon-manager/internal/export"
	"github.com/BruksfildServices01/salon-manager/internal/handlers"
	"github.com/BruksfildServices01/salon-manager/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/salon-manager/internal/infra/repository"
	"github.com/BruksfildServices01/salon-manager/internal/media"
	"github.com/BruksfildServices01/salon-manager/internal/middleware"
	"github.com/BruksfildServices01/salon-manager/internal/notification"
	ucAppointment "github.com/BruksfildServices01/salon-manager/internal/usecase/appointment"
	ucCash "github.com/BruksfildServices01/salon-manager/internal/usecase/cashregister"
	ucCommission "github.com/BruksfildServices01/salon-manager/internal/usecase/commission"
	ucFinance "github.com/BruksfildServices01/salon-manager/internal/usecase/finance"
	ucInventory "github.com/BruksfildServices01/salon-manager/internal/usecase/inventory"
	ucSale "github.com/BruksfildServices01/salon-manager/internal/usecase/sale"
	"github.com/BruksfildServices01/salon-manager/internal/validators"
	"github.com/BruksfildServices01/salon-manager/internal/worker"
)

// Deps carries the singletons built in main. Every pointer except DB, Config
// and Audit may be nil when the matching integration is not configured.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Audit  *audit.Dispatcher

	Redis    *redis.Client
	Queue    *worker.Queue
	Events   *notification.Publisher
	Payments financeDomain.PaymentLinkProvider
	Photos   *media.PhotoUploader
	Archiver *export.Archiver
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	db, cfg := d.DB, d.Config

	validators.Setup()

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.AccessLog(),
		middleware.CORSMiddleware(cfg.AllowedOrigins()),
	)

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	cashRepo := infraRepo.NewCashRegisterGormRepository(db)
	financeRepo := infraRepo.NewFinanceGormRepository(db)
	inventoryRepo := infraRepo.NewInventoryGormRepository(db)
	saleRepo := infraRepo.NewSaleGormRepository(db)
	commissionRepo := infraRepo.NewCommissionGormRepository(db)
	exportStore := infraRepo.NewExportGormStore(db)

	// nil *Publisher must not reach the use cases as a non-nil interface
	var appointmentEvents appointmentDomain.EventPublisher
	var saleEvents saleDomain.EventPublisher
	if d.Events != nil {
		appointmentEvents, saleEvents = d.Events, d.Events
	}

	var queueStats handlers.QueueStats
	if d.Queue != nil {
		queueStats = d.Queue
	}

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(appointmentRepo, d.Audit, appointmentEvents)
	changeStatusUC := ucAppointment.NewChangeStatus(appointmentRepo, d.Audit, appointmentEvents)
	completeAppointmentUC := ucAppointment.NewCompleteAppointment(appointmentRepo, d.Audit, appointmentEvents)
	rescheduleUC := ucAppointment.NewRescheduleAppointment(appointmentRepo, d.Audit, appointmentEvents)
	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo)
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo)

	thresholds := cashregister.Thresholds{WarnPct: cfg.CashDiffWarnPct, CriticalPct: cfg.CashDiffCriticalPct}

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	salonHandler := handlers.NewSalonHandler(db, d.Audit)
	professionalHandler := handlers.NewProfessionalHandler(db, d.Audit, d.Photos)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db, d.Audit)
	customerHandler := handlers.NewCustomerHandler(db, d.Audit)
	serviceHandler := handlers.NewServiceHandler(db, d.Audit)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		changeStatusUC,
		completeAppointmentUC,
		rescheduleUC,
		listAppointmentsUC,
		availabilityUC,
	)

	productHandler := handlers.NewProductHandler(
		ucInventory.NewProducts(inventoryRepo, d.Audit),
		ucInventory.NewStock(inventoryRepo, d.Audit),
	)

	cashHandler := handlers.NewCashRegisterHandler(
		db,
		ucCash.NewOpenCashRegister(cashRepo, d.Audit),
		ucCash.NewRegisterMovement(cashRepo, d.Audit),
		ucCash.NewCloseCashRegister(cashRepo, d.Audit, thresholds),
		ucCash.NewQueries(cashRepo),
	)

	saleHandler := handlers.NewSaleHandler(
		ucSale.NewCreateSale(saleRepo, d.Audit, saleEvents),
		ucSale.NewCancelSale(saleRepo, d.Audit),
		ucSale.NewQueries(saleRepo),
	)

	financeHandler := handlers.NewFinanceHandler(
		ucFinance.NewCreateEntry(financeRepo, d.Audit),
		ucFinance.NewMarkPaid(financeRepo, d.Audit),
		ucFinance.NewCancelEntry(financeRepo, d.Audit),
		ucFinance.NewCreatePaymentLink(financeRepo, d.Payments, d.Audit),
		ucFinance.NewQueries(financeRepo),
	)

	commissionHandler := handlers.NewCommissionHandler(
		ucCommission.NewQueries(commissionRepo),
		ucCommission.NewPayCommissions(commissionRepo, d.Audit),
	)

	exportHandler := handlers.NewExportHandler(db, exportStore, d.Archiver)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	opsHandler := handlers.NewOpsHandler(db, d.Redis, queueStats)

	publicHandler := handlers.NewPublicHandler(db, createAppointmentUC, availabilityUC)

	r.GET("/health", opsHandler.Health)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		if d.Redis != nil {
			limiter := cache.NewRateLimiter(d.Redis, cfg.PublicRateLimit, time.Minute, "rl:public")
			publicAPI.Use(limiter.Middleware())
		}
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/professionals", publicHandler.ListProfessionals)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(cfg))
		owner := secured.Group("")
		owner.Use(middleware.OwnerOnly())
		{
			secured.GET("", meHandler.GetMe)

			secured.GET("/salon", salonHandler.Get)
			owner.PATCH("/salon", salonHandler.Update)

			// PROFESSIONALS
			secured.GET("/professionals", professionalHandler.List)
			secured.GET("/professionals/:id", professionalHandler.Get)
			owner.POST("/professionals", professionalHandler.Create)
			owner.PATCH("/professionals/:id", professionalHandler.Update)
			owner.POST("/professionals/:id/photo", professionalHandler.UploadPhoto)
			secured.GET("/professionals/:id/working-hours", workingHoursHandler.Get)
			owner.PUT("/professionals/:id/working-hours", workingHoursHandler.Update)

			// CUSTOMERS
			secured.GET("/customers", customerHandler.List)
			secured.POST("/customers", customerHandler.Create)
			secured.GET("/customers/:id", customerHandler.Get)
			secured.PUT("/customers/:id", customerHandler.Update)
			secured.GET("/customers/:id/history", customerHandler.History)

			// SERVICES
			secured.GET("/services", serviceHandler.List)
			owner.POST("/services", serviceHandler.Create)
			owner.PATCH("/services/:id", serviceHandler.Update)

			// APPOINTMENTS
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.GET("/appointments/availability", appointmentHandler.Availability)
			secured.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/appointments/:id/no-show", appointmentHandler.NoShow)
			secured.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)

			// PRODUCTS / STOCK
			secured.GET("/products", productHandler.List)
			secured.GET("/products/low-stock", productHandler.LowStock)
			secured.GET("/products/:id", productHandler.Get)
			owner.POST("/products", productHandler.Create)
			owner.PUT("/products/:id", productHandler.Update)
			secured.GET("/products/:id/movements", productHandler.Movements)
			secured.POST("/products/:id/entries", productHandler.Entry)
			secured.POST("/products/:id/exits", productHandler.Exit)

			// CASH REGISTER
			secured.POST("/cash-register/open", cashHandler.Open)
			secured.POST("/cash-register/movements", cashHandler.AddMovement)
			secured.POST("/cash-register/close", cashHandler.Close)
			secured.GET("/cash-register/current", cashHandler.Current)
			secured.GET("/cash-registers", cashHandler.List)
			secured.GET("/cash-registers/:id", cashHandler.Report)
			secured.GET("/cash-registers/:id/movements", cashHandler.Movements)
			secured.GET("/cash-registers/:id/report.pdf", cashHandler.ReportPDF)

			// SALES
			secured.POST("/sales", saleHandler.Create)
			secured.GET("/sales", saleHandler.List)
			secured.GET("/sales/:id", saleHandler.Get)
			secured.GET("/sales/:id/receipt.pdf", saleHandler.Receipt)
			owner.POST("/sales/:id/cancel", saleHandler.Cancel)

			// PAYABLES / RECEIVABLES
			owner.GET("/finance/summary", financeHandler.Summary)
			owner.POST("/payables", financeHandler.CreatePayable)
			owner.GET("/payables", financeHandler.ListPayables)
			owner.POST("/payables/:id/pay", financeHandler.PayPayable)
			owner.POST("/payables/:id/cancel", financeHandler.CancelPayable)
			secured.POST("/receivables", financeHandler.CreateReceivable)
			secured.GET("/receivables", financeHandler.ListReceivables)
			secured.POST("/receivables/:id/receive", financeHandler.ReceiveReceivable)
			owner.POST("/receivables/:id/cancel", financeHandler.CancelReceivable)
			secured.POST("/receivables/:id/payment-link", financeHandler.PaymentLink)

			// COMMISSIONS
			secured.GET("/commissions", commissionHandler.List)
			secured.GET("/commissions/summary", commissionHandler.Summary)
			owner.POST("/commissions/pay", commissionHandler.Pay)

			// EXPORTS
			owner.GET("/exports/appointments.xlsx", exportHandler.Appointments)
			owner.GET("/exports/sales.xlsx", exportHandler.Sales)
			owner.GET("/exports/cash-movements.xlsx", exportHandler.CashMovements)
			owner.GET("/exports/ledger.xlsx", exportHandler.Ledger)

			owner.GET("/audit-logs", auditLogsHandler.List)
			owner.GET("/jobs", opsHandler.JobStats)
		}
	}
}
