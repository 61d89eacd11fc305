package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/inkstream/blog-backend/internal/database"
	"github.com/inkstream/blog-backend/internal/handlers"
	"github.com/inkstream/blog-backend/internal/middleware"
)

type Server struct {
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	db := database.New()
	handler := handlers.NewHandler(db.GetDB())

	newServer := &Server{
		db:      db,
		handler: handler,
	}

	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Public reads; optional auth hydrates viewer state (liked/saved/
		// following flags)
		public := api.Group("")
		public.Use(middleware.OptionalAuthMiddleware())
		{
			public.GET("/posts", s.handler.Post.GetPosts)
			public.GET("/posts/:id", s.handler.Post.GetPost)
			public.GET("/posts/:id/comments", s.handler.Comment.GetComments)
			public.POST("/posts/:id/share", s.handler.Interaction.SharePost)

			public.GET("/categories", s.handler.Category.GetCategories)

			public.GET("/users/:id", s.handler.User.GetUserProfile)
			public.GET("/users/:id/followers", s.handler.User.GetFollowers)
			public.GET("/users/:id/following", s.handler.User.GetFollowing)
		}

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/me", s.handler.Auth.GetMe)

			// Posts
			protected.POST("/posts", s.handler.Post.CreatePost)
			protected.PUT("/posts/:id", s.handler.Post.UpdatePost)
			protected.DELETE("/posts/:id", s.handler.Post.DeletePost)

			// Comments
			protected.POST("/posts/:id/comments", s.handler.Comment.CreateComment)
			protected.PUT("/comments/:commentId", s.handler.Comment.UpdateComment)
			protected.DELETE("/comments/:commentId", s.handler.Comment.DeleteComment)

			// Interactions
			protected.POST("/posts/:id/like", s.handler.Interaction.LikePost)
			protected.DELETE("/posts/:id/like", s.handler.Interaction.UnlikePost)
			protected.POST("/posts/:id/save", s.handler.Interaction.SavePost)
			protected.DELETE("/posts/:id/save", s.handler.Interaction.UnsavePost)
			protected.POST("/comments/:commentId/like", s.handler.Interaction.LikeComment)
			protected.DELETE("/comments/:commentId/like", s.handler.Interaction.UnlikeComment)

			// Follows
			protected.POST("/follow/:id", s.handler.User.FollowUser)
			protected.DELETE("/follow/:id", s.handler.User.UnfollowUser)

			// Users
			protected.PUT("/users/:id", s.handler.User.UpdateUserProfile)

			// Notifications
			protected.GET("/notifications", s.handler.Notification.GetNotifications)
			protected.PUT("/notifications/read-all", s.handler.Notification.MarkAllRead)
			protected.PUT("/notifications/:id/read", s.handler.Notification.MarkRead)
			protected.DELETE("/notifications/:id", s.handler.Notification.DeleteNotification)

			// Admin
			protected.POST("/categories", s.handler.Category.CreateCategory)
			protected.PUT("/categories/:id", s.handler.Category.UpdateCategory)
			protected.DELETE("/categories/:id", s.handler.Category.DeleteCategory)
			protected.GET("/admin/stats", s.handler.Analytics.GetStats)
		}
	}

	return r
}
