package handlers

import (
	"github.com/credisur/creditledger/cmd/docs"
	portssvc "github.com/credisur/creditledger/internal/core/ports/services"
	"github.com/credisur/creditledger/internal/middleware"
	"github.com/credisur/creditledger/internal/platform/config"
	"github.com/credisur/creditledger/internal/utils/identity"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// registerCustomValidators hooks domain identifier checks into gin's binding
// engine so malformed CUILs are rejected before reaching any service.
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("cuil", func(fl validator.FieldLevel) bool {
			_, err := identity.NormalizeCUIL(fl.Field().String())
			return err == nil
		})
	}
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

	// CORS must run before any route so the frontend can send the refresh cookie
	if cfg.FrontendBaseURL != "" {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = []string{cfg.FrontendBaseURL}
		corsCfg.AllowCredentials = true
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
		r.Use(cors.New(corsCfg))
	}

	registerHomeRoutes(r)

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Register public authentication routes
	registerAuthRoutes(r, cfg, services)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	// Delegate route registration to specific handlers, passing required services
	registerOperatorRoutes(v1, services.Operator)
	registerClientRoutes(v1, services.Client, services.Credit, services.Collection)
	registerCatalogRoutes(v1, services.Catalog)
	registerPartnerRoutes(v1, services.Partner)
	registerCreditRoutes(v1, services.Credit, services.Collection)
	registerCollectionRoutes(v1, services.Collection)
	registerInstallmentRoutes(v1, services.Credit, services.Collection)
	registerReconciliationRoutes(v1, services.Reconciliation)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
