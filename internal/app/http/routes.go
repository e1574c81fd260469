package routes

import (
	"github.com/gin-gonic/gin"

	"cleaninghq-app/config"
	adminapi "cleaninghq-app/internal/api/admin"
	authapi "cleaninghq-app/internal/api/auth"
	"cleaninghq-app/internal/api/billing"
	"cleaninghq-app/internal/api/editor"
	"cleaninghq-app/internal/api/enrich"
	"cleaninghq-app/internal/api/generator"
	"cleaninghq-app/internal/api/render"
	siteapi "cleaninghq-app/internal/api/site"
	stripewebhooks "cleaninghq-app/internal/api/stripewebhook"
	"cleaninghq-app/internal/api/uploads"
	"cleaninghq-app/internal/app/http/middleware"
	"cleaninghq-app/internal/infra/llm"
	"cleaninghq-app/internal/store"
)

// Deps are the shared collaborators the route handlers close over. The
// generation and edit pipelines get separate invokers because they run
// under different timeouts.
type Deps struct {
	Store   store.SiteStore
	GenLLM  llm.Invoker
	EditLLM llm.Invoker
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	siteHandler := siteapi.NewHandler(d.Store)
	renderHandler := render.NewHandler(d.Store)
	editHandler := editor.NewHandler(d.Store, d.EditLLM)
	enrichHandler := enrich.NewHandler(d.Store, d.GenLLM)
	generateHandler := generator.NewHandler(generator.NewProcessor(d.Store, d.GenLLM))
	billingHandler := billing.NewHandler(d.Store)
	webhookHandler := stripewebhooks.NewHandler(d.Store)
	uploadHandler := uploads.NewHandler(d.Store)

	// Webhook bodies are signature-verified raw payloads; no sanitization.
	r.POST("/webhook", webhookHandler.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public rendering surface consumed by the preview and live sites.
	r.GET("/public/sites/:id/page/*selector", renderHandler.GetPage)
	r.GET("/public/sites/:id/sitemap.xml", renderHandler.GetSitemap)
	r.Static("/uploads", config.UPLOAD_DIR)

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Intake and checkout run before signup: the wizard and the preview
	// paywall are both anonymous.
	public.POST("/site-requests", siteHandler.CreateSiteRequest)
	public.POST("/create-checkout-session", billingHandler.CreateCheckoutSession)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(), middleware.SanitizeAndCleanInputMiddleware())
	auth.GET("/me", authapi.Me)
	auth.GET("/sites", siteHandler.ListMySites)
	auth.GET("/sites/:id", siteHandler.GetSiteRequest)
	auth.POST("/sites/:id/claim", siteHandler.ClaimSite)
	auth.POST("/sites/:id/enrich", enrichHandler.Enrich)
	auth.POST("/uploads", uploadHandler.Upload)

	// Mutating a live site needs an active subscription on that site.
	subscribed := auth.Group("/")
	subscribed.Use(middleware.RequireActiveSubscription())
	subscribed.POST("/sites/:id/edits", editHandler.CreateEdit)
	subscribed.GET("/sites/:id/edits", editHandler.ListEdits)
	subscribed.PUT("/sites/:id/hero", siteHandler.UpdateHero)
	subscribed.POST("/sites/:id/billing-portal", billingHandler.CreateBillingPortal)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/sites", adminapi.ListAllSites)
	admin.GET("/sites/:id", adminapi.GetSiteDetails)
	admin.GET("/stats", adminapi.GetAdminStats)
	admin.POST("/jobs/process-pending-sites", generateHandler.ProcessPendingSites)
	admin.POST("/sites/:id/generate", generateHandler.GenerateSite)
}
