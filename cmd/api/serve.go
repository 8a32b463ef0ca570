package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lion-connect-backend/config"
	"lion-connect-backend/internal/delivery/http/middleware"
	v1 "lion-connect-backend/internal/delivery/http/v1"
	"lion-connect-backend/internal/domain"
	"lion-connect-backend/internal/repository/postgres"
	redisrepo "lion-connect-backend/internal/repository/redis"
	"lion-connect-backend/internal/usecase"
	"lion-connect-backend/pkg/auth"
	"lion-connect-backend/pkg/database"
	"lion-connect-backend/pkg/logger"
	"lion-connect-backend/pkg/monitoring"
	"lion-connect-backend/pkg/redis"
	"lion-connect-backend/pkg/security"
	"lion-connect-backend/pkg/storage"
	"lion-connect-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		skip, _ := cmd.Flags().GetBool("skip-migrations")
		return serve(cmd.Context(), skip)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, skipMigrations bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// 1-3. Config, logger, database
	cfg, pool, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)
	logger.Log.Info("Starting lion connect backend", zap.String("port", cfg.Port))

	if !skipMigrations {
		if err := database.Migrate(ctx, pool); err != nil {
			logger.Log.Error("Migration failed", zap.Error(err))
			return err
		}
	}

	// 4. Setup Redis (optional)
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.New(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable, continuing without it", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// 5. Setup Storage
	files, staticDir, err := setupStorage(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to initialise storage", zap.Error(err))
		return err
	}

	// 6. Security services
	secLog := security.NewLogger(logger.Log)
	trackerCfg := security.DefaultLoginTrackerConfig()
	trackerCfg.MaxAttempts = cfg.FailedLoginMaxAttempts
	trackerCfg.BlockDuration = time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute
	loginTracker := security.NewLoginTracker(redisClient, trackerCfg, secLog)
	uploadLimiter := security.NewUploadLimiter(redisClient, 0, 0)
	rateLimiter := middleware.NewRateLimiter(redisClient, secLog)

	// 7. Setup Repositories
	userRepo := postgres.NewUserRepository(pool)
	skillRepo := postgres.NewSkillRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	companyProfileRepo := postgres.NewCompanyProfileRepository(pool)
	postRepo := postgres.NewPostRepository(pool)
	matchRepo := postgres.NewMatchRepository(pool)

	var suggestionCache domain.SuggestionCache
	if redisClient != nil && cfg.SuggestionCacheTTL > 0 {
		suggestionCache = redisrepo.NewSuggestionCache(redisClient, cfg.SuggestionCacheTTL)
	}

	// 8. Setup UseCases
	validate := validation.New()
	tokens := auth.NewHMACService(cfg.JWTSecret, cfg.JWTAccessTTL)

	authUC := usecase.NewAuthUsecase(userRepo, tokens, loginTracker, suggestionCache, validate)
	profileUC := usecase.NewProfileUsecase(userRepo, profileRepo, skillRepo, files, suggestionCache, validate, cfg.UploadMaxBytes)
	companyProfileUC := usecase.NewCompanyProfileUsecase(userRepo, companyProfileRepo, validate)
	postUC := usecase.NewPostUsecase(postRepo, validate)
	skillUC := usecase.NewSkillUsecase(skillRepo)
	matchUC := usecase.NewMatchUsecase(userRepo, skillRepo, matchRepo, suggestionCache)

	checks := map[string]usecase.Pinger{"database": pool}
	if redisClient != nil {
		checks["redis"] = usecase.PingFunc(func(ctx context.Context) error {
			return redis.HealthCheck(ctx, redisClient)
		})
	}
	healthUC := usecase.NewHealthUsecase(checks)

	// 9. Setup Router
	monitoring.Init()
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:           authUC,
		ProfileUC:        profileUC,
		CompanyProfileUC: companyProfileUC,
		PostUC:           postUC,
		SkillUC:          skillUC,
		MatchUC:          matchUC,
		Health:           healthUC,
		Tokens:           tokens,
		RateLimiter:      rateLimiter,
		UploadLimiter:    uploadLimiter,
		SecurityLogger:   secLog,
		Config:           cfg,
		StaticDir:        staticDir,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		logger.Log.Error("Listen failed", zap.Error(err))
		return err
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Log.Info("Server exiting")
	return nil
}

// setupStorage returns the upload backend and, for the local driver, the
// directory to serve statically.
func setupStorage(ctx context.Context, cfg *config.Config) (storage.Storage, string, error) {
	files, err := storage.New(ctx, storage.Config{
		Driver:          cfg.StorageDriver,
		Dir:             cfg.UploadDir,
		PublicPath:      cfg.PublicAssetsPath,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretKey,
		Endpoint:        cfg.S3Endpoint,
		PublicBaseURL:   cfg.S3PublicBaseURL,
	})
	if err != nil {
		return nil, "", err
	}

	if local, ok := files.(*storage.Local); ok {
		return files, local.Dir(), nil
	}
	return files, "", nil
}
