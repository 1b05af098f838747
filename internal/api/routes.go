package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"paggie/trainer-app/internal/instrumentation"
	"paggie/trainer-app/internal/service"
	"paggie/trainer-app/internal/session"
)

// Dependencies are the services behind the HTTP surface.
type Dependencies struct {
	JWTSecret  string
	Auth       service.AuthService
	Profiles   service.ProfileService
	Controller *session.Controller
	Workspace  *service.Workspace
	Metrics    *instrumentation.Instrumentation
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// NewRouter builds a gin engine with panic recovery and request metrics
// installed, then registers the routes.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	if deps.Metrics != nil {
		router.Use(PanicRecovery(deps.Metrics), RequestMetrics(deps.Metrics))
	} else {
		router.Use(gin.Recovery())
	}
	SetupRoutes(router, deps)
	return router
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	authHandler := NewAuthHandler(deps.Auth, deps.Workspace)
	appHandler := NewAppHandler(deps.Controller)
	profileHandler := NewProfileHandler(deps.Profiles, deps.Workspace, deps.Controller)
	wizardHandler := NewWizardHandler(deps.Workspace)
	libraryHandler := NewLibraryHandler(deps.Workspace)
	reportHandler := NewReportHandler(deps.Workspace)
	chatHandler := NewChatHandler(deps.Workspace)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/signup", authHandler.SignUp)
			authGroup.POST("/signin", authHandler.SignIn)
			authGroup.POST("/forgot-password", authHandler.ForgotPassword)
			authGroup.POST("/recover", authHandler.Recover)
			authGroup.POST("/reset-password", authHandler.ResetPassword)
			authGroup.POST("/password-strength", authHandler.PasswordStrength)
		}

		apiV1.GET("/app", appHandler.State)
		// Reachable from the auth screens, before any session exists.
		apiV1.POST("/navigation/back", appHandler.Back)
		apiV1.POST("/navigation/forgot-password", appHandler.ForgotPassword)
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(deps.JWTSecret), SessionMiddleware(deps.Controller))
	{
		protected.POST("/auth/signout", authHandler.SignOut)

		protected.GET("/profile", profileHandler.GetProfile)
		protected.PUT("/profile", profileHandler.SaveProfile)
		protected.POST("/profile/edit", appHandler.EditProfile)
		protected.POST("/profile/logo", profileHandler.UploadLogo)
		protected.GET("/storage", profileHandler.StorageUsage)

		navGroup := protected.Group("/navigation")
		{
			navGroup.POST("/mode", appHandler.SelectMode)
			navGroup.POST("/home", appHandler.Home)
			navGroup.POST("/switch-training", appHandler.SwitchToTraining)
			navGroup.POST("/switch-assessment", appHandler.SwitchToAssessment)
		}

		wizardGroup := protected.Group("/wizards")
		{
			wizardGroup.POST("/assessment/photos/:slot", wizardHandler.UploadPhoto)
			wizardGroup.POST("/:kind", wizardHandler.Start)
			wizardGroup.GET("/:kind", wizardHandler.Get)
			wizardGroup.POST("/:kind/actions", wizardHandler.Dispatch)
			wizardGroup.POST("/:kind/next", wizardHandler.Next)
			wizardGroup.POST("/:kind/prev", wizardHandler.Prev)
			wizardGroup.POST("/:kind/jump", wizardHandler.Jump)
			wizardGroup.POST("/:kind/complete", wizardHandler.Complete)
		}

		libraryGroup := protected.Group("/library")
		{
			libraryGroup.GET("", libraryHandler.GetLibrary)
			libraryGroup.GET("/categories", libraryHandler.GetCategories)
			libraryGroup.POST("/selection", libraryHandler.ToggleSelection)
			libraryGroup.PUT("/batch", libraryHandler.SetBatch)
			libraryGroup.POST("/import", libraryHandler.Import)
			libraryGroup.POST("/custom", libraryHandler.CreateCustom)
		}

		reportGroup := protected.Group("/reports")
		{
			reportGroup.GET("/training/workbook", reportHandler.Workbook)
			reportGroup.GET("/:kind", reportHandler.GetReport)
			reportGroup.GET("/:kind/view", reportHandler.GetView)
			reportGroup.POST("/:kind/export", reportHandler.Export)
		}
		protected.GET("/artifacts", reportHandler.ListArtifacts)
		protected.DELETE("/artifacts/:id", reportHandler.DeleteArtifact)

		protected.GET("/chat", chatHandler.History)
		protected.POST("/chat", chatHandler.Send)
	}
}
