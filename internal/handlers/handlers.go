package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/config"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/middleware"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/models"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/repository"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/service"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/session"
)

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	accounts *service.AccountService
	records  *service.RecordService
	sessions session.Manager
	users    *repository.UserRepository
	db       *pgxpool.Pool
	cache    *redis.Client
	limiter  *middleware.RateLimiter
}

// NewHandlerSet wires repositories and services over the shared pool. The
// redis client is nil unless the session backend is redis.
func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, sessions session.Manager, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	accounts := service.NewAccountService(userRepo, sessions, log)
	records := service.NewRecordService(userRepo, recordRepo, log)

	return HandlerSet{
		log:      log,
		cfg:      cfg,
		accounts: accounts,
		records:  records,
		sessions: sessions,
		users:    userRepo,
		db:       db,
		cache:    cache,
		limiter:  middleware.NewRateLimiter(cfg.Security.LoginRPS, cfg.Security.LoginBurst),
	}
}

func (h HandlerSet) Mount(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", middleware.RateLimit(h.limiter), h.Register)
		auth.POST("/login", middleware.RateLimit(h.limiter), h.Login)
		auth.POST("/logout", h.Logout)

		protected := v1.Group("/auth")
		protected.Use(middleware.Auth(h.sessions, h.users))
		protected.GET("/me", h.Me)
	}

	authed := v1.Group("")
	authed.Use(middleware.Auth(h.sessions, h.users))

	doctor := authed.Group("")
	doctor.Use(middleware.RequireRoles(models.RoleDoctor))
	doctor.GET("/doctor/dashboard", h.DoctorDashboard)
	doctor.POST("/records", h.CreateRecord)
	doctor.GET("/patients", h.ListPatients)
	doctor.GET("/patients/:id/records/count", h.PatientRecordCount)

	patient := authed.Group("")
	patient.Use(middleware.RequireRoles(models.RolePatient))
	patient.GET("/patient/dashboard", h.PatientDashboard)
	patient.GET("/patient/doctors", h.DoctorsVisited)

	authed.GET("/records", h.ListRecords)
	authed.GET("/doctors", h.ListDoctors)
}

// writeError maps the service error taxonomy onto HTTP status classes.
// Store failures are the only 5xx the client may treat as retryable.
func (h HandlerSet) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth_required"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrNoSuchPatient):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrStoreUnavailable):
		h.log.Error().Err(err).Msg("store unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store_unavailable"})
	default:
		h.log.Error().Err(err).Msg("unhandled service error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
	}
}
