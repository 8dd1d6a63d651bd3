package routes

import (
	"github.com/01moynul/mtd-portal/internal/content"
	"github.com/01moynul/mtd-portal/internal/handlers"
	"github.com/01moynul/mtd-portal/internal/middleware"
	"github.com/01moynul/mtd-portal/internal/models"
	"github.com/gin-gonic/gin"
)

// SetupRouter wires every route. CORS is applied outside gin, around the whole engine.
func SetupRouter(h *handlers.Handlers, redirects []content.Redirect) *gin.Engine {
	router := gin.New()

	// --- Global middleware (order matters) ---
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(h.Log),
		middleware.Redirects(redirects),
		middleware.Instrument(h.Metrics),
		middleware.Session(h.Issuer, h.CookieName),
	)

	// --- Public Routes ---
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(h.Metrics.Handler()))

	api := router.Group("/api")
	{
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.POST("/auth/logout", h.Logout)

		api.POST("/forms/contact", h.SubmitContact)
		api.POST("/forms/volunteer", h.SubmitVolunteer)
		api.POST("/newsletter", h.SubscribeNewsletter)

		api.GET("/content/:kind", h.ListContent)
		api.GET("/content/:kind/:slug", h.GetContent)

		api.GET("/subscriptions/plans", h.GetSubscriptionPlans)
	}

	// --- Protected Routes (Login Required) ---
	auth := router.Group("/api", middleware.Require())
	{
		auth.GET("/auth/me", h.Me)

		// Events
		auth.GET("/events", h.GetEvents)
		auth.POST("/events", h.PostEvents)
		auth.PATCH("/events", middleware.Require(models.RoleAdmin), h.PatchEvents)
		auth.GET("/events/registrations", h.GetMyRegistrations)

		// Mentorship sessions
		auth.GET("/sessions", h.GetSessions)
		auth.POST("/sessions", middleware.Require(models.RoleMentor, models.RoleMentee), h.CreateSession)
		auth.PATCH("/sessions", h.PatchSession)

		// Resources
		auth.GET("/resources", h.GetResources)
		auth.POST("/resources", middleware.Require(models.RoleAdmin), h.CreateResource)
		auth.PATCH("/resources", middleware.Require(models.RoleAdmin), h.PatchResource)
		auth.POST("/resources/:id/download", h.DownloadResource)
		auth.POST("/resources/:id/rate", h.RateResource)

		// Training materials and progress
		auth.GET("/materials", h.GetMaterials)
		auth.POST("/materials", middleware.Require(models.RoleAdmin), h.CreateMaterial)
		auth.PATCH("/materials", middleware.Require(models.RoleAdmin), h.PatchMaterial)
		auth.DELETE("/materials/:id", middleware.Require(models.RoleAdmin), h.DeleteMaterial)
		auth.GET("/materials/progress", h.GetMyProgress)
		auth.PUT("/materials/:id/progress", h.UpdateProgress)

		// Badges
		auth.GET("/badges", h.GetBadges)
		auth.GET("/badges/me", h.GetMyBadges)
		auth.POST("/badges", middleware.Require(models.RoleAdmin), h.CreateBadge)
		auth.POST("/badges/:id/award", middleware.Require(models.RoleAdmin), h.AwardBadge)

		// Subscriptions and payments
		auth.POST("/subscriptions", h.CreateSubscription)
		auth.GET("/subscriptions/me", h.GetMySubscription)
		auth.GET("/payments/me", h.GetMyPayments)
		auth.POST("/payments", h.CreatePayment)

		// Mentor / mentee pairings
		auth.GET("/relationships", h.GetRelationships)
		auth.POST("/relationships", middleware.Require(models.RoleMentor), h.CreateRelationship)
		auth.PATCH("/relationships", h.PatchRelationship)
	}

	// --- Admin-Only Routes ---
	admin := router.Group("/api/admin", middleware.Require(models.RoleAdmin))
	{
		admin.GET("/users", h.GetUsers)
		admin.PATCH("/users", h.PatchUser)

		admin.GET("/subscriptions", h.GetSubscriptions)
		admin.POST("/subscriptions", h.CreateSubscription)
		admin.PATCH("/subscriptions", h.PatchSubscription)

		admin.PATCH("/payments", h.PatchPayment)

		admin.GET("/metrics/realtime", h.StreamMetrics)
	}

	// --- Dashboards (redirect on refusal instead of JSON errors) ---
	dashboard := router.Group("/dashboard", middleware.DashboardGate())
	{
		dashboard.GET("", h.DashboardHome)

		dashboard.GET("/mentor", h.GetMentorDashboard)
		dashboard.GET("/mentor/mentees", h.GetMentorMentees)

		dashboard.GET("/mentee", h.GetMenteeDashboard)

		dashboard.GET("/donor", h.GetDonorDashboard)
		dashboard.GET("/donor/history", h.GetDonorHistory)

		dashboard.GET("/admin", h.GetAdminDashboard)
		dashboard.GET("/admin/users", h.GetAdminUsers)
		dashboard.GET("/admin/analytics", h.GetAdminAnalytics)
	}

	return router
}
