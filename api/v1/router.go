package v1

import (
	"go_library/api/v1/auth"
	"go_library/api/v1/books"
	"go_library/api/v1/borrows"
	"go_library/api/v1/fines"
	"go_library/api/v1/middleware"
	"go_library/api/v1/users"
	"go_library/internal/config"
	"go_library/internal/httpx"
	"go_library/internal/model"
	"go_library/internal/session"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter sets up the API v1 routes
func SetupRouter(r *gin.Engine, db *gorm.DB, cfg *config.Config, sessions *session.Store) {
	authHandler := auth.NewHandler(db, cfg, sessions)
	booksHandler := books.NewHandler(db)
	borrowsHandler := borrows.NewHandler(db)
	usersHandler := users.NewHandler(db)
	finesHandler := fines.NewHandler(db)

	staffOnly := middleware.RequireRoles(model.RoleAdmin, model.RoleLibrarian)
	adminOnly := middleware.RequireRoles(model.RoleAdmin)

	v1 := r.Group("/api/v1")
	{
		// Public routes (no authentication required)
		v1.GET("/ping", pingHandler)

		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		// The catalog is browsable without logging in
		v1.GET("/books", booksHandler.List)
		v1.GET("/books/:id", booksHandler.Get)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/auth/me", authHandler.Me)
			protected.POST("/auth/logout", authHandler.Logout)

			// Books routes (inventory management)
			booksGroup := protected.Group("/books")
			{
				booksGroup.POST("", staffOnly, booksHandler.Create)
				booksGroup.PUT("/:id", staffOnly, booksHandler.Update)
				booksGroup.DELETE("/:id", adminOnly, booksHandler.Delete)
			}

			// Borrows routes
			borrowsGroup := protected.Group("/borrows")
			{
				borrowsGroup.POST("", borrowsHandler.Create)
				borrowsGroup.GET("/my", borrowsHandler.My)
				borrowsGroup.GET("/overdue", staffOnly, borrowsHandler.Overdue)
				borrowsGroup.GET("", adminOnly, borrowsHandler.List)
				borrowsGroup.GET("/:id", borrowsHandler.Get)
				borrowsGroup.PUT("/:id/return", borrowsHandler.Return)
				borrowsGroup.PUT("/:id/extend", staffOnly, borrowsHandler.Extend)
			}

			// Users routes
			usersGroup := protected.Group("/users")
			{
				usersGroup.GET("", adminOnly, usersHandler.List)
				usersGroup.GET("/pending-updates", adminOnly, usersHandler.PendingUpdates)
				usersGroup.PUT("/request-update", usersHandler.RequestUpdate)
				usersGroup.PUT("/change-password", usersHandler.ChangePassword)
				usersGroup.GET("/:id", usersHandler.Get)
				usersGroup.PUT("/:id", staffOnly, usersHandler.Update)
				usersGroup.PUT("/:id/approve-update", adminOnly, usersHandler.ApproveUpdate)
				usersGroup.DELETE("/:id", adminOnly, usersHandler.Delete)
			}

			// Fines routes
			finesGroup := protected.Group("/fines")
			{
				finesGroup.GET("/my", finesHandler.My)
				finesGroup.POST("/sweep", staffOnly, finesHandler.Sweep)
				finesGroup.PUT("/:id/pay", finesHandler.Pay)
				finesGroup.PUT("/:id/waive", adminOnly, finesHandler.Waive)
			}
		}
	}
}

// pingHandler handles the ping request using unified response
func pingHandler(c *gin.Context) {
	httpx.OK(c, gin.H{
		"pong": true,
	})
}
