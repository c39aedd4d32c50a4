package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/actionlog"
	codegen "github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/agents/code-gen"
	csvanalysis "github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/agents/csv-analysis"
	pdfextract "github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/agents/pdf-extract"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/agents/router"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/api"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/cache"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/config"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/database"
	cerrors "github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/errors"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/logger"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/fileio"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/llm"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/store"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/pkg/registry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load failed: " + err.Error())
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()
	log := logger.NewZapAdapter(zapLogger)

	log.Info("starting chatbot server", map[string]interface{}{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	pg, err := connectPostgres(cfg, log)
	if err != nil {
		log.Error("postgres unavailable", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer pg.Close()

	redisClient, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		log.Error("redis client init failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx); err != nil {
		cancel()
		log.Error("redis unavailable", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	cancel()

	reg, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		log.Error("pipeline registry load failed", map[string]interface{}{
			"path":  cfg.Registry.Path,
			"error": err.Error(),
		})
		os.Exit(1)
	}
	log.Info("pipeline registry loaded", map[string]interface{}{"pipelines": reg.IDs()})

	fileStore := fileio.NewStore(cfg.Storage.BaseDir, log)
	sink := actionlog.NewSink(filepath.Join(cfg.Storage.BaseDir, "logs"), log)
	defer sink.Close()

	completer := llm.NewClient(&llm.Config{
		BaseURL:    cfg.APIs.Completion.BaseURL,
		APIKey:     cfg.APIs.Completion.APIKey,
		Model:      cfg.APIs.Completion.Model,
		Timeout:    config.GetDuration(cfg.APIs.Completion.Timeout),
		MaxRetries: cerrors.GetRetryCount(cerrors.ErrCodeCompletionFailed),
	}, log)

	codeGen := codegen.NewHandler(completer, fileStore, log)
	pdfPipeline := pdfextract.NewHandler(completer, fileStore, log)
	csvPipeline := csvanalysis.NewHandler(completer, fileStore, sink, log)
	dispatcher := router.NewHandler(completer, codeGen, pdfPipeline, csvPipeline, log)

	conversations := store.NewConversationStore(pg.DB, log)
	analysisCache := cache.NewAnalysisCache(
		redisClient.Client,
		time.Duration(cfg.Database.Redis.AnalysisTTL)*time.Second,
		log,
	)

	server := api.NewServer(
		dispatcher,
		conversations,
		analysisCache,
		reg,
		filepath.Join(cfg.Storage.BaseDir, "uploads"),
		log,
	)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		log.Info("http server listening", map[string]interface{}{"address": cfg.Server.Address})
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server failed", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown incomplete", map[string]interface{}{"error": err.Error()})
	}
	log.Info("server stopped", nil)
}

// connectPostgres opens the database and pings it with backoff. The retry
// budget comes from the standard error classification.
func connectPostgres(cfg *config.Config, log logger.Logger) (*database.PostgresClient, error) {
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, err
	}

	attempts := cerrors.GetRetryCount(cerrors.ErrCodeDatabaseConnectionFailed) + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		lastErr = pg.Ping(ctx)
		cancel()
		if lastErr == nil {
			log.Info("postgres connected", map[string]interface{}{
				"host": cfg.Database.Postgres.Host,
				"db":   cfg.Database.Postgres.Database,
			})
			return pg, nil
		}
		log.Warn("postgres ping failed, retrying", map[string]interface{}{
			"attempt": attempt,
			"error":   lastErr.Error(),
		})
		time.Sleep(time.Duration(attempt) * time.Second)
	}

	pg.Close()
	return nil, cerrors.NewDatabaseConnectionFailedError(lastErr)
}
