package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storeapi/backend/internal/logger"
)

type RouterConfig struct {
	Auth           AuthService
	Posts          PostService
	Cars           CarService
	DB             Pinger
	Logger         *logger.Logger
	PublicBaseURL  string
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(cfg.Logger))
	if len(cfg.AllowedOrigins) > 0 {
		router.Use(CORSMiddleware(cfg.AllowedOrigins, true))
	}

	authHandler := NewAuthHandler(cfg.Auth, cfg.PublicBaseURL)
	postHandler := NewPostHandler(cfg.Posts)
	carHandler := NewCarHandler(cfg.Cars)
	requireUser := AuthMiddleware(cfg.Auth)

	router.GET("/", Root)
	router.GET("/ping", Ping)
	router.GET("/openapi.json", OpenAPIDoc)
	if cfg.DB != nil {
		router.GET("/ready", Ready(cfg.DB))
	}

	router.POST("/register", authHandler.Register)
	router.POST("/token", authHandler.Token)
	router.GET("/confirm/:token", authHandler.Confirm)
	router.GET("/me", requireUser, authHandler.Me)

	router.GET("/post", postHandler.ListPosts)
	router.GET("/post/:id", postHandler.GetPost)
	router.GET("/post/:id/comment", postHandler.ListComments)
	router.POST("/post", requireUser, postHandler.CreatePost)
	router.POST("/comment", requireUser, postHandler.CreateComment)
	router.POST("/like", requireUser, postHandler.LikePost)

	api := router.Group("/api")
	api.GET("/cars", carHandler.ListCars)
	api.GET("/cars/:id", carHandler.GetCar)
	api.GET("/cars/:id/trips", carHandler.ListTrips)
	api.POST("/cars/:id/trips", requireUser, carHandler.AddTrip)
	api.POST("/car", requireUser, carHandler.CreateCar)
	api.PUT("/car/:id", requireUser, carHandler.UpdateCar)
	api.DELETE("/car/:id", requireUser, carHandler.DeleteCar)

	return router
}
