package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"paggie/trainer-app/internal/ai"
	"paggie/trainer-app/internal/api"
	"paggie/trainer-app/internal/export"
	"paggie/trainer-app/internal/imaging"
	"paggie/trainer-app/internal/instrumentation"
	"paggie/trainer-app/internal/localcache"
	"paggie/trainer-app/internal/repository/mongo"
	"paggie/trainer-app/internal/service"
	"paggie/trainer-app/internal/session"
	"paggie/trainer-app/internal/storage"
)

var noRenderer bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&noRenderer, "no-renderer", false, "start without the PDF renderer")
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logrus.Info("starting paggie server...")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI, cfg.Timeouts.Remote)
	if err != nil {
		return fmt.Errorf("could not connect to MongoDB: %w", err)
	}
	defer func() {
		logrus.Info("disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logrus.Errorf("failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logrus.Info("database connection established")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
		logrus.Info("index creation process completed")
	}()

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	profileRepo := mongo.NewMongoProfileRepository(appDB)
	libraryRepo := mongo.NewMongoLibraryRepository(appDB)
	artifactRepo := mongo.NewMongoArtifactRepository(appDB)

	// --- Local cache ---
	cache, err := localcache.Open(localcache.Options{
		Dir:      cfg.Cache.Dir,
		InMemory: cfg.Cache.InMemory,
		MaxBytes: cfg.Cache.MaxBytes,
	})
	if err != nil {
		// Profiles still load remotely; only the offline fallback is lost.
		logrus.Warnf("local cache unavailable: %v", err)
		cache = nil
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logrus.Errorf("failed to close local cache: %v", err)
		}
	}()

	// --- Initialize Storage ---
	fileStorage, err := newFileStorage(ctx)
	if err != nil {
		return err
	}

	// --- Export pipeline ---
	metrics := instrumentation.NewInstrumentation("paggie", "server")
	var engine export.Engine
	if !noRenderer {
		pwEngine, err := export.NewPlaywrightEngine()
		if err != nil {
			logrus.Warnf("pdf renderer not available, exports will fail until it is installed: %v", err)
		} else {
			engine = pwEngine
			defer func() {
				if err := pwEngine.Close(); err != nil {
					logrus.Errorf("failed to stop pdf renderer: %v", err)
				}
			}()
		}
	}
	sink := export.NewStorageSink(fileStorage, artifactRepo, cfg.S3.PresignExpiry)
	exporter := export.NewExporter(engine, sink, cfg.Timeouts.Export, metrics)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, service.LogRecoverySender{}, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.RecoveryExpiration)
	profileService := service.NewProfileService(profileRepo, cache, cfg.Timeouts.Remote, metrics)
	libraryService := service.NewLibraryService(libraryRepo, cfg.Timeouts.Remote)
	narrator := ai.NewClient(ai.Config{
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
		Timeout: cfg.Timeouts.Remote,
	}, metrics)

	controller := session.NewController(authService, profileService, session.Options{
		OnStep: func(change session.StepChange) {
			logrus.WithFields(logrus.Fields{"from": change.From, "to": change.To}).Debug("step changed")
		},
	})
	if err := controller.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session controller: %w", err)
	}
	defer controller.Stop()

	workspace := service.NewWorkspace(service.WorkspaceDeps{
		Controller: controller,
		Profiles:   profileService,
		Library:    libraryService,
		Narrator:   narrator,
		Exporter:   exporter,
		Artifacts:  artifactRepo,
		Files:      fileStorage,
		Images: imaging.Options{
			MaxFileSize: cfg.Images.MaxFileSize,
			MaxWidth:    cfg.Images.MaxWidth,
		},
		Metrics: metrics,
	})
	defer workspace.Close()

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(api.Dependencies{
		JWTSecret:  cfg.JWT.Secret,
		Auth:       authService,
		Profiles:   profileService,
		Controller: controller,
		Workspace:  workspace,
		Metrics:    metrics,
		Gatherer:   prometheus.DefaultGatherer,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:        cfg.Server.Address,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// PDF exports can take as long as the export timeout.
		WriteTimeout: cfg.Timeouts.Export + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("server starting on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("listen and serve: %w", err)
	}
	logrus.Info("shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logrus.Info("server exiting")
	return nil
}

func newFileStorage(ctx context.Context) (storage.FileStorage, error) {
	if cfg.Export.Sink == "s3" {
		st, err := storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		return st, nil
	}
	st, err := storage.NewLocalStorage(cfg.Export.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local storage: %w", err)
	}
	return st, nil
}
