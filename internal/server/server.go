package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/internal/auth"
	authdomain "github.com/campuskit/ethos/internal/auth/domain"
	"github.com/campuskit/ethos/internal/auth/session"
	"github.com/campuskit/ethos/internal/clock"
	"github.com/campuskit/ethos/internal/compliance"
	compliancedomain "github.com/campuskit/ethos/internal/compliance/domain"
	"github.com/campuskit/ethos/internal/config"
	"github.com/campuskit/ethos/internal/dashboard"
	"github.com/campuskit/ethos/internal/export"
	"github.com/campuskit/ethos/internal/feedback"
	feedbackdomain "github.com/campuskit/ethos/internal/feedback/domain"
	"github.com/campuskit/ethos/internal/insight"
	insightdomain "github.com/campuskit/ethos/internal/insight/domain"
	"github.com/campuskit/ethos/internal/logger"
	"github.com/campuskit/ethos/internal/migration"
	"github.com/campuskit/ethos/internal/policy"
	policydomain "github.com/campuskit/ethos/internal/policy/domain"
	"github.com/campuskit/ethos/internal/profile"
	profiledomain "github.com/campuskit/ethos/internal/profile/domain"
	"github.com/campuskit/ethos/internal/ratelimit"
	"github.com/campuskit/ethos/internal/usagelog"
	usagedomain "github.com/campuskit/ethos/internal/usagelog/domain"
	"github.com/campuskit/ethos/pkg/db"
	"github.com/campuskit/ethos/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	config.Module,
	logger.Module,
	clock.Module,
	telemetry.Module,
	db.Module,
	migration.Module,
	auth.Module,
	profile.Module,
	policy.Module,
	usagelog.Module,
	compliance.Module,
	insight.Module,
	feedback.Module,
	export.Module,
	dashboard.Module,
	ratelimit.Module,
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	log           *zap.Logger
	authsvc       authdomain.Service
	sessions      *session.Manager
	genID         *snowflake.Node
	profileSvc    profiledomain.Service
	policySvc     policydomain.Service
	usageSvc      usagedomain.Service
	complianceSvc compliancedomain.Service
	insightSvc    insightdomain.Service
	feedbackSvc   feedbackdomain.Service
	exportSvc     *export.Service
	dashboardSvc  *dashboard.Service
	usageLimiter  *ratelimit.UsageLimiter
	metrics       *telemetry.Metrics
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Log           *zap.Logger
	Authsvc       authdomain.Service
	Sessions      *session.Manager
	GenID         *snowflake.Node
	ProfileSvc    profiledomain.Service
	PolicySvc     policydomain.Service
	UsageSvc      usagedomain.Service
	ComplianceSvc compliancedomain.Service
	InsightSvc    insightdomain.Service
	FeedbackSvc   feedbackdomain.Service
	ExportSvc     *export.Service
	DashboardSvc  *dashboard.Service
	UsageLimiter  *ratelimit.UsageLimiter `optional:"true"`
	Metrics       *telemetry.Metrics      `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		log:           p.Log.Named("server"),
		authsvc:       p.Authsvc,
		sessions:      p.Sessions,
		genID:         p.GenID,
		profileSvc:    p.ProfileSvc,
		policySvc:     p.PolicySvc,
		usageSvc:      p.UsageSvc,
		complianceSvc: p.ComplianceSvc,
		insightSvc:    p.InsightSvc,
		feedbackSvc:   p.FeedbackSvc,
		exportSvc:     p.ExportSvc,
		dashboardSvc:  p.DashboardSvc,
		usageLimiter:  p.UsageLimiter,
		metrics:       p.Metrics,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) registerAuthRoutes() {
	g := s.engine.Group("/auth")
	g.POST("/register", s.Register)
	g.POST("/login", s.Login)
	g.POST("/logout", s.Logout)
	g.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	g := s.engine.Group("/api", s.AuthRequired())
	g.GET("/dashboard", s.Dashboard)
	g.POST("/usage-logs", s.CreateUsageLog)
	g.GET("/usage-logs", s.ListUsageLogs)
	g.GET("/insights", s.ListInsights)
	g.POST("/insights/:id/dismiss", s.DismissInsight)
	g.GET("/feedback", s.ListFeedback)
	g.POST("/feedback", s.CreateFeedback)
	g.GET("/profile", s.GetProfile)
	g.PATCH("/profile", s.UpdateProfile)
	g.GET("/export", s.ExportData)
}

func (s *Server) registerAdminRoutes() {
	g := s.engine.Group("/admin", s.AuthRequired(), s.RequireAdmin())
	g.GET("/policies", s.ListPolicies)
	g.POST("/policies", s.CreatePolicy)
	g.PATCH("/policies/:id", s.UpdatePolicy)
	g.POST("/policies/:id/activate", s.ActivatePolicy)
	g.POST("/policies/:id/archive", s.ArchivePolicy)
	g.GET("/feedback", s.AdminListFeedback)
	g.POST("/feedback/:id/status", s.TriageFeedback)
	g.POST("/compliance/recompute", s.RecomputeCompliance)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
