package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/cache"
	dbadapter "github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/db"
	httpadapter "github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/handlers"
	httpmiddleware "github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/middleware"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/notify"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/app/lifecycle"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/app/service"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/config"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/ports"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/pkg/translator"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.LoadConfig()

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	if len(cfg.JWTSecret) == 0 {
		logger.Fatal("JWT_SECRET must be set")
	}

	translator.InitTranslator(translator.Config{
		TranslationFolder:  cfg.TranslationsPath,
		SupportedLanguages: []string{translator.LanguageEn, translator.LanguageFr},
	})

	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.String("driver", cfg.DbDriver), zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close database connection", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tasks := dbadapter.NewTaskRepository(db)
	ledger := dbadapter.NewAcceptanceRepository(db)
	directory := dbadapter.NewDirectoryRepository(db)
	activities := dbadapter.NewActivityRepository(db)
	inbox := dbadapter.NewNotificationRepository(db)

	hub := notify.NewHub()
	defer hub.Close()

	sinks := []ports.NotificationSink{inbox, hub}
	if cfg.SMTPHost != "" {
		sinks = append(sinks, notify.NewEmailSink(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, directory))
	}
	if cfg.FirebaseCredentials != "" {
		push, err := notify.NewPushSink(ctx, cfg.FirebaseCredentials, directory)
		if err != nil {
			logger.Warn("push notifications disabled", zap.Error(err))
		} else {
			sinks = append(sinks, push)
		}
	}
	dispatcher := notify.NewDispatcher(notify.NewFanout(sinks...), activities, cfg.NotifyTimeout)

	var listingCache ports.Cache = cache.Noop{}
	var cachePinger handlers.Pinger
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() {
			if err := client.Close(); err != nil {
				logger.Warn("failed to close redis client", zap.Error(err))
			}
		}()
		redisCache := cache.NewRedisCache(client, cfg.CacheTTL)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis unreachable at startup", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		listingCache, cachePinger = redisCache, redisCache
	}

	engine := lifecycle.NewEngine(tasks, ledger, dbadapter.NewSequenceRepository(db), directory)
	taskService := service.NewTaskService(service.Dependencies{
		Engine:     engine,
		Tasks:      tasks,
		Ledger:     ledger,
		Directory:  directory,
		Activities: activities,
		Dispatcher: dispatcher,
		Cache:      listingCache,
	})
	notificationService := service.NewNotificationService(inbox, directory)

	r := gin.New()
	r.Use(gin.Recovery(), httpmiddleware.GinZapMiddleware(logger), cors.New(corsConfig(cfg)))
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("invalid TRUSTED_PROXIES", zap.Error(err))
	}
	httpadapter.RegisterRoutes(r, httpadapter.Handlers{
		Health:        handlers.NewHealthHandler(db, cachePinger),
		Tasks:         handlers.NewTaskHandler(taskService),
		Notifications: handlers.NewNotificationHandler(notificationService, hub),
	}, []byte(cfg.JWTSecret))

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Open event streams never finish on their own.
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		logger.Warn("pending notifications dropped", zap.Error(err))
	}
}

// newLogger builds the production zap logger. When LOG_FILE is set, entries
// are also written to a rotated file.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	if cfg.LogFile == "" {
		return logger, nil
	}

	file := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
		Compress:   true,
	})
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		file,
		zap.InfoLevel,
	)

	return logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	})), nil
}

func corsConfig(cfg *config.Config) cors.Config {
	conf := cors.DefaultConfig()
	conf.AllowHeaders = append(conf.AllowHeaders, "Authorization", "Accept-Language")
	if len(cfg.CORSOrigins) == 0 {
		conf.AllowAllOrigins = true
		return conf
	}
	conf.AllowOrigins = cfg.CORSOrigins
	conf.AllowCredentials = true
	return conf
}
