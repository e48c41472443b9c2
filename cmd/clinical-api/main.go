package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/clinscribe/platform/pkg/common/config"
	"github.com/clinscribe/platform/pkg/common/database"
	"github.com/clinscribe/platform/pkg/common/kafka"
	"github.com/clinscribe/platform/pkg/common/logger"
	"github.com/clinscribe/platform/pkg/ehr"
	"github.com/clinscribe/platform/pkg/gateway/middleware"
	"github.com/clinscribe/platform/pkg/icd"
	"github.com/clinscribe/platform/pkg/imaging"
	"github.com/clinscribe/platform/pkg/observability/metrics"
	"github.com/clinscribe/platform/pkg/patient"
	"github.com/clinscribe/platform/pkg/pdfexport"
	"github.com/clinscribe/platform/pkg/report"
	"github.com/clinscribe/platform/pkg/summary"
)

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	patientRepo := patient.NewRepository(db)
	if err := patientRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate patient tables")
	}
	reportRepo := report.NewRepository(db)
	if err := reportRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate report tables")
	}

	producer := kafka.NewProducer(cfg.ReportsTopic)
	defer producer.Close()

	catalog := icd.DefaultCatalog()
	if cfg.ICDCatalogPath != "" {
		loaded, err := icd.Load(cfg.ICDCatalogPath)
		if err != nil {
			logger.Log.WithError(err).Warn("ICD catalog file not loaded, using built-in catalog")
		} else {
			catalog = loaded
		}
	}

	reportCache := report.NewRedisCache(database.GetRedis(), cfg.ReportCacheTTL)

	patientService := patient.NewService(patientRepo)
	reportService := report.NewService(reportRepo, patientRepo, producer, reportCache, cfg.SummaryHistoryCap)

	var inference summary.Inference
	hostedEnabled := cfg.HFAPIToken != ""
	if hostedEnabled {
		inference = summary.NewHFClient(cfg.HFBaseURL, cfg.HFAPIToken, cfg.HFMaxNewTokens, cfg.HFTimeout)
	} else {
		logger.Log.Warn("HF_API_TOKEN not set, hosted inference disabled")
	}
	summaryService := summary.NewService(inference, patientService, catalog, cfg.HFModel, cfg.HFICDModel, hostedEnabled)

	ehrStore := ehr.Load(cfg.EHRDataPath)

	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.Logging, middleware.CORS)
	router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	patient.NewHandler(patientService).Register(api)
	report.NewHandler(reportService).Register(api)
	summary.NewHandler(summaryService, cfg.MaxRequestBody).Register(api)
	ehr.NewHandler(ehrStore).Register(api)
	imaging.NewHandler().Register(api)
	pdfexport.NewHandler(reportService, pdfexport.NewExporter()).Register(api)

	address := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.APIPort)
	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithField("addr", address).Info("clinical API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start clinical API")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down clinical API...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("clinical API forced to shutdown")
	}
	if err := database.ClosePostgres(); err != nil {
		logger.Log.WithError(err).Warn("closing postgres failed")
	}
	if err := database.CloseRedis(); err != nil {
		logger.Log.WithError(err).Warn("closing redis failed")
	}
	logger.Log.Info("clinical API stopped")
}
