package handlers

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/retailpos/backoffice_ledger/internal/core/domain"
	portssvc "github.com/retailpos/backoffice_ledger/internal/core/ports/services"
	"github.com/retailpos/backoffice_ledger/internal/middleware"
	"github.com/retailpos/backoffice_ledger/internal/platform/config"
)

// registerCustomValidators teaches gin's binding layer the domain
// enumerations so malformed values fail at bind time with a field-level
// message.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
		return domain.ValidPaymentMethod(domain.PaymentMethod(fl.Field().String()))
	})
	_ = v.RegisterValidation("accountcategory", func(fl validator.FieldLevel) bool {
		return domain.ValidAccountCategory(domain.AccountCategory(fl.Field().String()))
	})
	_ = v.RegisterValidation("resolutionkind", func(fl validator.FieldLevel) bool {
		return domain.ValidResolutionKind(domain.ResolutionKind(fl.Field().String()))
	})
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

	// Add health check route
	r.GET("/health", healthHandler)

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware and a per-IP rate limit to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		slog.Warn("Invalid RATE_LIMIT value, rate limiting disabled", slog.String("value", cfg.RateLimit))
	} else {
		store := memory.NewStore()
		v1.Use(middleware.RateLimit(limiter.New(store, rate)))
	}

	// Delegate route registration to specific handlers, passing required services
	registerPeriodRoutes(v1, services.Period)
	registerLedgerRoutes(v1, services.Ledger)
	registerSessionRoutes(v1, services.Register)
}
