package handlers

import (
	"agency-desk-backend/internal/middleware"
	"agency-desk-backend/internal/models"
	"agency-desk-backend/internal/services"
	"agency-desk-backend/internal/store"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies are the collaborators the API is built from. Uploader and
// Verifier are optional.
type Dependencies struct {
	Store    store.Store
	Tokens   *middleware.TokenManager
	Uploader services.SnapshotUploader
	Verifier services.IdentityVerifier
}

// NewRouter wires services, handlers and routes onto a gin engine.
func NewRouter(deps Dependencies) *gin.Engine {
	users := services.NewUserService(deps.Store, deps.Tokens, deps.Verifier)
	requests := services.NewProjectRequestService(deps.Store)
	projects := services.NewProjectService(deps.Store, deps.Uploader)
	assist := services.NewAssistService(deps.Store)
	dashboard := services.NewDashboardService(deps.Store)

	authHandler := NewAuthHandler(users)
	requestsHandler := NewProjectRequestsHandler(requests)
	projectsHandler := NewProjectsHandler(projects)
	assistHandler := NewAssistRequestsHandler(assist)
	usersHandler := NewUsersHandler(users)
	dashboardHandler := NewDashboardHandler(dashboard)
	healthHandler := NewHealthHandler(deps.Store)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", healthHandler.Check)

	api := router.Group("/api")
	api.GET("/health", healthHandler.Check)

	// Public
	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/google-signup", authHandler.GoogleSignup)
	auth.POST("/google-login", authHandler.GoogleLogin)
	api.GET("/request/status/:token", requestsHandler.GetByStatusToken)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(deps.Tokens))
	admin := middleware.RequireRole(models.RoleAdmin)
	selfOrAdmin := func(param string) gin.HandlerFunc {
		return middleware.RequireSelfOrRole(param, models.RoleAdmin)
	}

	// Project requests
	authed.POST("/request", requestsHandler.Submit)
	authed.GET("/request/:id", selfOrAdmin("id"), requestsHandler.ListByClient)
	authed.GET("/request/requests/admin", admin, requestsHandler.ListAll)
	authed.PUT("/request/:id/approve", admin, requestsHandler.Approve)
	authed.PUT("/request/:id/reject", admin, requestsHandler.Reject)

	// Projects
	authed.GET("/project/all", projectsHandler.ListProjects)
	authed.GET("/project/assigned/:userId", projectsHandler.ListAssigned)
	authed.GET("/project/:id", projectsHandler.GetProject)
	authed.PUT("/project/:id/status", admin, projectsHandler.UpdateStatus)
	authed.PUT("/project/:id/developers", admin, projectsHandler.ReassignDevelopers)
	authed.GET("/project/:id/assignments", admin, projectsHandler.ListAssignments)
	authed.POST("/project/:id/snapshots", admin, projectsHandler.UploadSnapshots)

	// Assist requests
	authed.POST("/assist-request", assistHandler.Create)
	authed.GET("/assist-request", admin, assistHandler.ListAll)
	authed.GET("/assist-request/user/:userId", selfOrAdmin("userId"), assistHandler.ListByUser)
	authed.PUT("/assist-request/:id", admin, assistHandler.Update)
	authed.POST("/assist-request/pay/:id", assistHandler.Pay)
	authed.PUT("/assist-request/:id/feedback", assistHandler.SubmitFeedback)

	// Users and dashboard
	authed.GET("/admins", admin, usersHandler.ListAdmins)
	authed.GET("/admins/:id", admin, usersHandler.GetAdmin)
	authed.GET("/user/all", admin, usersHandler.ListClients)
	authed.GET("/dashboard", admin, dashboardHandler.Stats)

	return router
}
