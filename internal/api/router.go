package api

import (
	"eduvault/internal/metrics"    // Prometheus instrumentation
	"eduvault/internal/middleware" // Custom package for middleware
	"eduvault/internal/service"    // Profile and material services

	"github.com/gin-gonic/gin" // Gin web framework
)

// DashboardPrefix is the protected path prefix
const DashboardPrefix = "/dashboard"

// Dependencies are the collaborators the routes are built from
type Dependencies struct {
	Profiles      *service.ProfileService
	Materials     *service.MaterialService
	Uploader      Uploader
	SecureCookies bool // Secure flag on the session cookie (production)
}

// NewRouter registers every route on a fresh engine
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), metrics.Middleware()) // Recovery turns panics into 500s
	r.Use(middleware.RequireSession(DashboardPrefix))         // Presence gate on the protected prefix

	r.GET("/healthz", HealthHandler())
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Profile routes
	r.POST("/profile", CreateProfileHandler(deps.Profiles, deps.SecureCookies)) // Registration endpoint
	r.GET("/profile", LookupProfileHandler(deps.Profiles, deps.SecureCookies))  // Wallet lookup endpoint

	r.POST("/upload", UploadHandler(deps.Uploader)) // Upload relay endpoint

	// Dashboard routes: full verification before the handlers
	dashboard := r.Group(DashboardPrefix)
	dashboard.Use(middleware.ResolveIdentity(deps.Profiles))
	dashboard.GET("", DashboardHandler())                                  // Dashboard identity
	dashboard.GET("/my-materials", ListMaterialsHandler(deps.Materials))   // List materials
	dashboard.POST("/my-materials", CreateMaterialHandler(deps.Materials)) // Record a material

	return r
}
