// Package router assembles the gin engine and every API route.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rrishiddh/portfolio-project-backend/internal/handler"
	"github.com/rrishiddh/portfolio-project-backend/internal/metrics"
	"github.com/rrishiddh/portfolio-project-backend/internal/middleware"
	"github.com/rrishiddh/portfolio-project-backend/internal/models"
)

// Options carries the handlers and cross-cutting pieces the routes need.
// RateLimiter may be nil (no Redis); GoogleRedirect enables the goth flow.
type Options struct {
	IsProduction   bool
	ClientURL      string
	GoogleRedirect bool

	Authenticator middleware.Authenticator
	RateLimiter   *middleware.RateLimiter

	Auth     *handler.AuthHandler
	Blogs    *handler.BlogHandler
	Projects *handler.ProjectHandler
	Resumes  *handler.ResumeHandler
	Users    *handler.UserHandler
	Admin    *handler.AdminHandler
}

func New(opts Options) *gin.Engine {
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		metrics.GinMiddleware(),
		middleware.SecurityHeadersMiddleware(),
		middleware.HSTSMiddleware(opts.IsProduction),
		cors.New(cors.Config{
			AllowOrigins:     []string{opts.ClientURL},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Disposition", "Retry-After", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		// PDFs are already compressed.
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{`^/api/resumes/[^/]+/pdf$`})),
		middleware.BodyLimitMiddleware(middleware.MaxBodyBytes),
		// Errors are rendered inside gzip so the body goes through its writer.
		middleware.ErrorHandler(opts.IsProduction),
		middleware.Recovery(),
	)

	r.GET("/health", handler.Health)
	r.GET("/metrics", metrics.Handler())
	r.NoRoute(middleware.NotFound())

	api := r.Group("/api")
	if opts.RateLimiter != nil {
		api.Use(opts.RateLimiter.Middleware())
	}

	authenticate := middleware.AuthMiddleware(opts.Authenticator)
	optionalAuth := middleware.OptionalAuthMiddleware(opts.Authenticator)
	admin := middleware.RequireRole(models.RoleAdmin)

	auth := api.Group("/auth")
	{
		auth.POST("/register", opts.Auth.Register)
		auth.POST("/login", opts.Auth.Login)
		auth.POST("/google", opts.Auth.GoogleToken)
		if opts.GoogleRedirect {
			auth.GET("/google/login", opts.Auth.GoogleBegin)
			auth.GET("/google/callback", opts.Auth.GoogleCallback)
		}
		auth.POST("/refresh", opts.Auth.Refresh)
		auth.GET("/me", authenticate, opts.Auth.Me)
		auth.PATCH("/profile", authenticate, opts.Auth.UpdateProfile)
		auth.PATCH("/change-password", authenticate, opts.Auth.ChangePassword)
	}

	blogs := api.Group("/blogs")
	{
		blogs.GET("", optionalAuth, opts.Blogs.List)
		blogs.GET("/tags", opts.Blogs.Tags)
		blogs.GET("/analytics/overview", authenticate, admin, opts.Blogs.Overview)
		blogs.GET("/:slug", opts.Blogs.Get)
		blogs.POST("", authenticate, admin, opts.Blogs.Create)
		blogs.PATCH("/:id", authenticate, admin, opts.Blogs.Update)
		blogs.DELETE("/:id", authenticate, admin, opts.Blogs.Delete)
	}

	projects := api.Group("/projects")
	{
		projects.GET("", optionalAuth, opts.Projects.List)
		projects.GET("/technologies", opts.Projects.Technologies)
		projects.GET("/analytics/overview", authenticate, admin, opts.Projects.Overview)
		projects.POST("/reorder", authenticate, admin, opts.Projects.Reorder)
		projects.GET("/:slug", opts.Projects.Get)
		projects.POST("", authenticate, admin, opts.Projects.Create)
		projects.PATCH("/:id", authenticate, admin, opts.Projects.Update)
		projects.DELETE("/:id", authenticate, admin, opts.Projects.Delete)
	}

	resumes := api.Group("/resumes", authenticate)
	{
		resumes.GET("", opts.Resumes.List)
		resumes.GET("/analytics/overview", admin, opts.Resumes.Overview)
		resumes.GET("/:id", opts.Resumes.Get)
		resumes.POST("", opts.Resumes.Create)
		resumes.PATCH("/:id", opts.Resumes.Update)
		resumes.DELETE("/:id", opts.Resumes.Delete)
		resumes.GET("/:id/pdf", opts.Resumes.PDF)
		resumes.GET("/:id/pdf/link", opts.Resumes.PDFLink)
	}

	users := api.Group("/users", authenticate)
	{
		users.GET("", admin, opts.Users.List)
		users.GET("/analytics/overview", admin, opts.Users.Overview)
		users.GET("/:id", opts.Users.Get)
		users.GET("/:id/stats", opts.Users.Stats)
		users.PATCH("/:id/role", admin, opts.Users.UpdateRole)
		users.DELETE("/:id", admin, opts.Users.Delete)
	}

	if opts.Admin != nil {
		bans := api.Group("/admin/ip-bans", authenticate, admin)
		{
			bans.GET("", opts.Admin.ListBans)
			bans.POST("", opts.Admin.BanIP)
			bans.DELETE("/:ip", opts.Admin.UnbanIP)
		}
	}

	return r
}
