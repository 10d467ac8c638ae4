package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appsvc "postboard/internal/app"
	"postboard/internal/bootstrap"
	"postboard/internal/observability"
	"postboard/internal/pkg/jwtutil"
	"postboard/internal/pkg/password"
	"postboard/internal/repository"
	"postboard/internal/transport/http/handler"
	"postboard/internal/transport/http/middleware"
)

// Services are the application services the routes are bound to.
type Services struct {
	Auth        *appsvc.AuthService
	Posts       *appsvc.PostService
	Evaluations *appsvc.EvaluationService
	Activities  *appsvc.ActivityService
}

type EngineOptions struct {
	GinMode     string
	PublicReads bool
	Health      handler.HealthDeps
}

func NewRouter(app *bootstrap.App) *gin.Engine {
	cfg := app.Config
	store := repository.NewStore(app.DB)
	tokens := jwtutil.NewIssuer(cfg.Auth.JWTSecret, cfg.TokenTTL())

	services := Services{
		Auth: appsvc.NewAuthService(
			store,
			password.NewHasher(cfg.Auth.BcryptCost),
			tokens,
			app.Profiles,
			app.Publisher,
		),
		Posts: appsvc.NewPostService(store, app.Publisher, appsvc.PostServiceConfig{
			DefaultLimit: cfg.Posts.DefaultLimit,
			MaxLimit:     cfg.Posts.MaxLimit,
		}),
		Evaluations: appsvc.NewEvaluationService(store, app.Publisher),
		Activities:  appsvc.NewActivityService(store.Activities),
	}

	return NewEngine(EngineOptions{
		GinMode:     cfg.App.GinMode,
		PublicReads: cfg.Auth.PublicReads,
		Health: handler.HealthDeps{
			Name:      cfg.App.Name,
			Env:       cfg.App.Env,
			StartedAt: app.StartedAt,
			DB:        app.DB,
			Redis:     app.Redis,
			MQConn:    app.MQConn,
		},
	}, services)
}

func NewEngine(opts EngineOptions, services Services) *gin.Engine {
	if opts.GinMode != "" {
		gin.SetMode(opts.GinMode)
	}
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowHeaders("Authorization", middleware.RequestIDHeader)
	corsConfig.AddExposeHeaders(middleware.RequestIDHeader)

	router.Use(
		cors.New(corsConfig),
		middleware.RequestID(),
		observability.GinMetrics(),
		gin.Logger(),
		gin.Recovery(),
	)

	healthHandler := handler.NewHealthHandler(opts.Health)
	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handler.NewAuthHandler(services.Auth, services.Activities)
	postHandler := handler.NewPostHandler(services.Posts)
	evaluationHandler := handler.NewEvaluationHandler(services.Evaluations)

	requireUser := middleware.RequireUser(services.Auth)
	reads := router.Group("")
	if !opts.PublicReads {
		reads.Use(requireUser)
	}
	authed := router.Group("", requireUser)

	router.POST("/user", authHandler.Register)
	router.POST("/token", authHandler.Token)
	authed.GET("/user", authHandler.Me)
	reads.GET("/user/:username", authHandler.Profile)
	reads.GET("/user/:username/posts", postHandler.ListByUser)

	authed.GET("/activity", authHandler.Activity)
	reads.GET("/feed", postHandler.Feed)
	reads.GET("/posts/:id", postHandler.Get)
	reads.GET("/posts/:id/likes", evaluationHandler.Counts)
	authed.GET("/posts", postHandler.ListOwn)
	authed.POST("/posts", postHandler.Create)
	authed.PUT("/posts/:id", postHandler.Update)
	authed.DELETE("/posts/:id", postHandler.Delete)
	authed.POST("/posts/:id/like", evaluationHandler.Upsert)
	authed.DELETE("/posts/:id/like", evaluationHandler.Delete)

	return router
}
