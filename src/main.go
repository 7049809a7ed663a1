package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"syscall"
	"time"

	"voyagemate/src/boot"
	"voyagemate/src/common"
	"voyagemate/src/config"
	"voyagemate/src/controllers"
	"voyagemate/src/lib"
	"voyagemate/src/logger"
	"voyagemate/src/middlewares"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	apiPrefix string = "/api/v1"
)

func setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(middlewares.GinZapLogger(), gin.Recovery())
	router.Use(middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func maintenanceMode() bool {
	if mm, ok := os.LookupEnv("MAINTENANCE_MODE"); ok {
		on, err := strconv.ParseBool(mm)
		return err == nil && on
	}
	return config.Get().Maintenance.Mode
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		if maintenanceMode() {
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "server is under maintenance"})
			return
		}
	})
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func corsMiddleware(c *config.Config) gin.HandlerFunc {
	if c.API.Env == "local" {
		return cors.Default()
	}
	appHost := regexp.QuoteMeta(c.App.Host)
	cc := cors.DefaultConfig()
	cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
	cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
	cc.AllowOriginFunc = func(origin string) bool {
		match, _ := regexp.MatchString("^"+appHost+"$", origin)
		return match
	}
	cc.AllowCredentials = true
	cc.AllowAllOrigins = false
	return cors.New(cc)
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		common.RegisterValidators(v)
	}
}

// registerRoutes wires every route group onto router. limiter backs the
// comment rate limit and may be nil.
func registerRoutes(router *gin.Engine, limiter redis.Cmdable) {
	c := config.Get()
	if c.Storage.Driver == "" || c.Storage.Driver == "local" {
		router.Static("/storage", c.Storage.LocalPath)
	}

	guestAuthRoutes(router)
	publicDestinationRoutes(router)
	toolRoutes(router)
	sharedTripRoutes(router, limiter)

	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	{
		authorized = accountHandlers(authorized)
		authorized = tripHandlers(authorized)
		authorized = shareHandlers(authorized)
		authorized = journalHandlers(authorized)
		authorized = dashboardHandlers(authorized)
		authorized = destinationHandlers(authorized)
	}
}

func main() {
	c, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.InitLogger(c.Log.Level, c.IsProd(), c.Log.File); err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()
	if c, err = config.LoadSecrets(ctx); err != nil {
		logger.L.Fatal("error loading secrets", zap.Error(err))
	}
	if c.JWT.Secret == "" {
		logger.L.Fatal("JWT_SECRET is not set")
	}

	boot.InitDb()
	services, err := boot.InitServices(ctx, c)
	if err != nil {
		logger.L.Fatal("error initializing services", zap.Error(err))
	}
	controllers.Configure(services)
	boot.InitScheduler(c, services.Currency)
	defer boot.StopScheduler()

	if c.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter()
	router.Use(corsMiddleware(c))
	registerValidators()
	router = maintenanceModeMiddleware(router)

	var limiter redis.Cmdable
	if rd := lib.GetRedisClient(); rd != nil {
		limiter = rd
	}
	registerRoutes(router, limiter)

	srv := &http.Server{
		Addr:              ":" + c.API.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.L.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.L.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.L.Error("forced shutdown", zap.Error(err))
	}
}
