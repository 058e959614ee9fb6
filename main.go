package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loomline/catalog_end/config"
	"github.com/loomline/catalog_end/controllers"
	"github.com/loomline/catalog_end/middleware"
	"github.com/loomline/catalog_end/repository"
	"github.com/loomline/catalog_end/routes"
	"github.com/loomline/catalog_end/service"
	"github.com/loomline/catalog_end/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	utils.InitLogger()

	cfg := config.LoadConfig()
	unitRules := config.LoadUnitRules()

	if err := repository.InitMongoDB(cfg.MongoURI, cfg.MongoDB); err != nil {
		utils.Logger.Fatal().Err(err).Msg("mongodb initialization failed")
	}
	defer repository.CloseMongoDB()

	if err := repository.InitializeCollections(); err != nil {
		utils.Logger.Fatal().Err(err).Msg("collection initialization failed")
	}
	if err := repository.InitializeAdminAccount(); err != nil {
		utils.Logger.Fatal().Err(err).Msg("admin account initialization failed")
	}

	redisClient := repository.InitRedis(cfg.RedisAddr)

	sequencer := repository.NewCounterSequencer(service.SystemClock)
	catalog := service.NewCachedCatalog(repository.NewCatalog(), service.NewProductCache(redisClient))

	enquiryStore := repository.NewEnquiryStore()
	quotationStore := repository.NewQuotationStore()

	enquiryService := service.NewEnquiryService(enquiryStore, catalog, unitRules, sequencer, service.SystemClock)
	quotationService := service.NewQuotationService(quotationStore, enquiryStore, enquiryService, catalog, unitRules, sequencer, service.SystemClock)

	controllers.Setup(enquiryService, quotationService, service.SystemClock)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORSMiddleware())

	routes.SetupRouter(r)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		utils.Logger.Info().Int("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Logger.Error().Err(err).Msg("forced shutdown")
	}
	utils.Logger.Info().Msg("server stopped")
}
