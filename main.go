package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/factory-app/config"
	"github.com/yeremiapane/factory-app/database"
	"github.com/yeremiapane/factory-app/hub"
	"github.com/yeremiapane/factory-app/repository"
	"github.com/yeremiapane/factory-app/router"
	"github.com/yeremiapane/factory-app/services"
	"github.com/yeremiapane/factory-app/utils"
)

func main() {
	cfg := config.Load()
	utils.SetupLogger(cfg.LogLevel, cfg.LogFormat)

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg.DB)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	if _, err := database.SeedMachines(db, database.DefaultMachines()); err != nil {
		utils.ErrorLogger.Errorf("Error seeding machines: %v", err)
	}

	store := repository.NewGormStore(db)
	planning := services.NewPlanningService(store, cfg.Planning)
	liveHub := hub.New()

	monitor := services.NewChangeMonitor(db, liveHub, cfg.PollInterval)
	monitor.Stats = planning.DashboardStats
	monitor.Start()
	defer monitor.Stop()

	digest := services.NewWeeklyDigest(planning, liveHub)
	if err := digest.Start(cfg.DigestSchedule); err != nil {
		utils.ErrorLogger.Errorf("Weekly digest disabled, bad schedule %q: %v", cfg.DigestSchedule, err)
	} else {
		defer digest.Stop()
	}

	r := router.SetupRouter(router.Deps{
		DB:             db,
		Store:          store,
		Planning:       planning,
		Hub:            liveHub,
		CORSOrigins:    cfg.CORSOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})
	r.SetTrustedProxies([]string{"127.0.0.1"})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.InfoLogger.Println("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Errorf("Forced shutdown: %v", err)
	}
}
