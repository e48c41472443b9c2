package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/clinscribe/platform/pkg/common/config"
	"github.com/clinscribe/platform/pkg/common/database"
	"github.com/clinscribe/platform/pkg/common/kafka"
	"github.com/clinscribe/platform/pkg/common/logger"
	"github.com/clinscribe/platform/pkg/common/models"
	"github.com/clinscribe/platform/pkg/report"
)

// report-indexer follows the report event stream and keeps a redis cache of
// recent reports warm, so history browsing does not hit postgres for every
// page load.
func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}
	reports := report.NewRepository(db)

	cache := report.NewRedisCache(database.GetRedis(), cfg.ReportCacheTTL)
	defer database.CloseRedis()

	consumer := kafka.NewConsumer(cfg.ReportsTopic, cfg.KafkaGroupID)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Log.Info("Shutting down report indexer...")
		cancel()
	}()

	handler := func(ctx context.Context, event models.Event) error {
		uid, _ := event.Data["report_uid"].(string)
		if uid == "" {
			logger.Log.WithField("event_id", event.ID).Warn("report event without report_uid, skipping")
			return nil
		}

		switch event.Type {
		case "report_saved":
			rep, err := reports.Get(ctx, uid)
			if err != nil {
				logger.Log.WithError(err).WithField("report_uid", uid).Warn("report not loadable, cache not warmed")
				return nil
			}
			cache.SetReport(ctx, rep)
			logger.Log.WithField("report_uid", uid).Debug("report cached")
		case "report_deleted":
			cache.DeleteReport(ctx, uid)
			logger.Log.WithField("report_uid", uid).Debug("report evicted from cache")
		default:
			logger.Log.WithField("event_type", event.Type).Debug("ignoring event")
		}
		return nil
	}

	logger.Log.WithField("topic", cfg.ReportsTopic).Info("report indexer consuming")
	if err := consumer.Consume(ctx, handler); err != nil && err != context.Canceled {
		logger.Log.WithError(err).Error("consumer stopped")
	}
	logger.Log.Info("report indexer stopped")
}
