package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clinscribe/platform/pkg/common/logger"
	"github.com/clinscribe/platform/pkg/common/models"
)

// Cache mirrors hot reports so repeated fetches skip postgres. All methods
// are advisory: a cache outage degrades to database reads, never to errors.
type Cache interface {
	GetReport(ctx context.Context, uid string) (models.Report, bool)
	SetReport(ctx context.Context, rep models.Report)
	DeleteReport(ctx context.Context, uid string)
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(uid string) string {
	return fmt.Sprintf("report:%s", uid)
}

func (c *RedisCache) GetReport(ctx context.Context, uid string) (models.Report, bool) {
	data, err := c.client.Get(ctx, cacheKey(uid)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).WithField("report_uid", uid).Debug("report cache read failed")
		}
		return models.Report{}, false
	}

	var rep models.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		logger.Log.WithError(err).WithField("report_uid", uid).Warn("report cache entry unreadable, evicting")
		c.client.Del(ctx, cacheKey(uid))
		return models.Report{}, false
	}
	return rep, true
}

func (c *RedisCache) SetReport(ctx context.Context, rep models.Report) {
	data, err := json.Marshal(rep)
	if err != nil {
		logger.Log.WithError(err).WithField("report_uid", rep.ReportUID).Warn("report not cacheable")
		return
	}
	if err := c.client.Set(ctx, cacheKey(rep.ReportUID), data, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).WithField("report_uid", rep.ReportUID).Debug("report cache write failed")
	}
}

func (c *RedisCache) DeleteReport(ctx context.Context, uid string) {
	if err := c.client.Del(ctx, cacheKey(uid)).Err(); err != nil {
		logger.Log.WithError(err).WithField("report_uid", uid).Debug("report cache delete failed")
	}
}
