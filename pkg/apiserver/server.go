package apiserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/crewtrack/crewtrack/pkg/apiserver/handlers"
	"github.com/crewtrack/crewtrack/pkg/apiserver/middleware"
	"github.com/crewtrack/crewtrack/pkg/auth"
	"github.com/crewtrack/crewtrack/pkg/billing"
	"github.com/crewtrack/crewtrack/pkg/config"
	"github.com/crewtrack/crewtrack/pkg/leave"
	"github.com/crewtrack/crewtrack/pkg/notify"
	"github.com/crewtrack/crewtrack/pkg/session"
	"github.com/crewtrack/crewtrack/pkg/store/postgres"
	redisclient "github.com/crewtrack/crewtrack/pkg/store/redis"
	"github.com/crewtrack/crewtrack/pkg/timerecord"
	"github.com/crewtrack/crewtrack/pkg/tools"
)

type Server struct {
	router   *gin.Engine
	db       *postgres.Store
	redis    *redisclient.Client
	cfg      *config.Config
	logger   *zap.Logger
	tokens   *auth.SessionTokenManager
	sessions *session.Store
	notifier *notify.Service
}

func NewServer(db *postgres.Store, redis *redisclient.Client, cfg *config.Config, logger *zap.Logger) *Server {
	s := &Server{
		db:     db,
		redis:  redis,
		cfg:    cfg,
		logger: logger,
		tokens: auth.NewSessionTokenManager([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL),
	}

	if redis != nil {
		s.sessions = session.NewStore(redis.Client(), cfg.Auth.SessionTTL)
		bus := notify.NewBus(redis.Client())
		hub := notify.NewHub()
		if db != nil {
			s.notifier = notify.NewService(db.DB(), bus, hub, logger)
			go s.notifier.Run(context.Background())
		}
	}

	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var gdb = gormDB(s.db)

	authHandler := handlers.NewAuthHandler(postgres.NewUserRepository(gdb), s.tokens, s.sessions, s.logger)
	r.POST("/api/v1/auth/login", authHandler.Login)

	api := r.Group("/api/v1")
	{
		api.Use(middleware.Auth(s.tokens, s.sessions))

		api.POST("/auth/logout", authHandler.Logout)

		recordService := timerecord.NewService(gdb, s.cfg.Workforce.DefaultGeofenceRadius, s.logger)
		recordHandler := handlers.NewTimeRecordHandler(recordService, postgres.NewTimeRecordRepository(gdb), s.logger)
		api.POST("/time-records/check-in", recordHandler.CheckIn)
		api.POST("/time-records/:id/check-out", recordHandler.CheckOut)
		api.GET("/time-records", recordHandler.List)
		api.PATCH("/time-records/:id/approve",
			middleware.RequirePermission(auth.CapApproveTimesheets), recordHandler.Approve)
		api.PATCH("/time-records/:id/reject",
			middleware.RequirePermission(auth.CapApproveTimesheets), recordHandler.Reject)
		api.POST("/time-records/:id/contest",
			middleware.RequirePermission(auth.CapValidateTimesheets), recordHandler.Contest)
		api.PATCH("/time-records/:id/validate",
			middleware.RequirePermission(auth.CapValidateTimesheets), recordHandler.Validate)

		engine := billing.NewEngine(postgres.NewBillingRepository(gdb), s.logger)
		orderHandler := handlers.NewServiceOrderHandler(engine, postgres.NewServiceOrderRepository(gdb), s.logger)
		api.GET("/service-orders/calculate",
			middleware.RequirePermission(auth.CapViewReports), orderHandler.Calculate)
		api.POST("/service-orders",
			middleware.RequirePermission(auth.CapManageSites), orderHandler.Create)
		api.GET("/service-orders",
			middleware.RequirePermission(auth.CapViewReports), orderHandler.List)
		api.GET("/service-orders/:id",
			middleware.RequirePermission(auth.CapViewReports), orderHandler.Get)
		api.PATCH("/service-orders/:id/status",
			middleware.RequirePermission(auth.CapManageSites), orderHandler.UpdateStatus)

		userHandler := handlers.NewUserHandler(postgres.NewUserRepository(gdb), s.logger)
		api.DELETE("/users/:id",
			middleware.RequirePermission(auth.CapManageUsers), userHandler.Deactivate)

		superadminHandler := handlers.NewSuperadminHandler(postgres.NewTenantRepository(gdb), s.sessions, s.logger)
		api.POST("/superadmin/impersonate/:tenantId",
			middleware.RequirePermission(auth.CapImpersonate), superadminHandler.Impersonate)
		api.POST("/superadmin/stop-impersonate",
			middleware.RequirePermission(auth.CapImpersonate), superadminHandler.StopImpersonate)

		toolService := tools.NewService(gdb, s.logger)
		toolHandler := handlers.NewToolHandler(toolService, s.logger)
		api.POST("/tools/:id/checkout", toolHandler.Checkout)
		api.POST("/tools/:id/checkin", toolHandler.Checkin)
		api.GET("/tools/:id/transactions",
			middleware.RequirePermission(auth.CapManageTools), toolHandler.Transactions)

		leaveService := leave.NewService(gdb, s.logger)
		leaveHandler := handlers.NewLeaveHandler(leaveService, gdb, s.logger)
		api.POST("/leave-requests", leaveHandler.Create)
		api.GET("/leave-requests", leaveHandler.List)
		api.PATCH("/leave-requests/:id/approve",
			middleware.RequirePermission(auth.CapApproveLeave), leaveHandler.Approve)
		api.PATCH("/leave-requests/:id/reject",
			middleware.RequirePermission(auth.CapApproveLeave), leaveHandler.Reject)
		api.PATCH("/leave-requests/:id/cancel", leaveHandler.Cancel)

		if s.notifier != nil {
			chatHandler := handlers.NewChatHandler(s.notifier, s.cfg.Workforce.ChatHistoryLimit, s.logger)
			api.GET("/chat/rooms/:id/messages", chatHandler.History)
			api.POST("/chat/rooms/:id/messages", chatHandler.Send)
		}

		payrollHandler := handlers.NewPayrollHandler(postgres.NewPayrollRepository(gdb), s.logger)
		api.GET("/payroll/summary",
			middleware.RequirePermission(auth.CapRunPayroll), payrollHandler.Summary)
	}

	s.router = r
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func gormDB(db *postgres.Store) *gorm.DB {
	if db == nil {
		return nil
	}
	return db.DB()
}
