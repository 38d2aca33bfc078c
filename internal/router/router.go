package router

import (
	"github.com/gin-gonic/gin"

	"github.com/thehamzam/kyc-idp/internal/handler"
	"github.com/thehamzam/kyc-idp/internal/middleware"
	"github.com/thehamzam/kyc-idp/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	allowedOrigins []string,
	authH *handler.AuthHandler,
	uploadH *handler.UploadHandler,
	submissionH *handler.SubmissionHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Upload routes
	protected.POST("/upload", uploadH.Upload)
	protected.POST("/upload-bulk", uploadH.UploadBulk)

	// Submission history
	subs := protected.Group("/submissions")
	subs.GET("", submissionH.List)
	subs.GET("/export", submissionH.Export)
	subs.GET("/:id", submissionH.GetByID)
	subs.DELETE("/:id", submissionH.Delete)

	return r
}
