package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"riskpulse/internal/model"
)

// ReportCache holds computed analytics in Redis so repeated admin reads do
// not recompute over the full response set. Everything here is a pure
// derivation of source data: entries are safe to drop at any time and are
// rebuilt on the next miss.
type ReportCache interface {
	GetAggregate(ctx context.Context, formID string) (*model.AggregateReport, error)
	SetAggregate(ctx context.Context, report *model.AggregateReport) error

	GetRisk(ctx context.Context, formID string) (*model.PopulationRiskResult, error)
	SetRisk(ctx context.Context, result *model.PopulationRiskResult) error

	Invalidate(ctx context.Context, formID string) error
}

type reportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a new report cache
func NewReportCache(client *redis.Client) ReportCache {
	return &reportCache{
		client: client,
		ttl:    10 * time.Minute,
	}
}

// Key helpers
func (c *reportCache) aggregateKey(formID string) string {
	return fmt.Sprintf("form:%s:report", formID)
}

func (c *reportCache) riskKey(formID string) string {
	return fmt.Sprintf("form:%s:risk", formID)
}

func (c *reportCache) GetAggregate(ctx context.Context, formID string) (*model.AggregateReport, error) {
	data, err := c.client.Get(ctx, c.aggregateKey(formID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var report model.AggregateReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *reportCache) SetAggregate(ctx context.Context, report *model.AggregateReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.aggregateKey(report.FormID), data, c.ttl).Err()
}

func (c *reportCache) GetRisk(ctx context.Context, formID string) (*model.PopulationRiskResult, error) {
	data, err := c.client.Get(ctx, c.riskKey(formID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result model.PopulationRiskResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *reportCache) SetRisk(ctx context.Context, result *model.PopulationRiskResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.riskKey(result.FormID), data, c.ttl).Err()
}

func (c *reportCache) Invalidate(ctx context.Context, formID string) error {
	return c.client.Del(ctx, c.aggregateKey(formID), c.riskKey(formID)).Err()
}
