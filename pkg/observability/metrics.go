// Package observability holds the CloudWatch metrics sink and the X-Ray tracer
// used by the bus middlewares.
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// PutMetricData accepts at most this many datums per call
const maxDatums = 1000

// CloudWatchAPI is the part of *cloudwatch.Client Metrics calls
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics buffers datums in memory and ships them to CloudWatch on Flush.
// A Metrics with a nil client records nothing.
type Metrics struct {
	namespace string
	client    CloudWatchAPI
	logger    *zap.Logger

	mu      sync.Mutex
	pending []types.MetricDatum
}

// NewMetrics creates a new metrics instance
func NewMetrics(namespace string, client CloudWatchAPI, logger *zap.Logger) *Metrics {
	return &Metrics{namespace: namespace, client: client, logger: logger}
}

// NewNopMetrics returns a Metrics that drops everything
func NewNopMetrics() *Metrics {
	return &Metrics{logger: zap.NewNop()}
}

type timer struct {
	metrics *Metrics
	metric  string
	label   string
	start   time.Time
}

func (t *timer) Stop() {
	t.metrics.record(t.metric, t.label, float64(time.Since(t.start).Milliseconds()), types.StandardUnitMilliseconds)
}

// StartTimer starts timing metric for label; Stop records the elapsed time
func (m *Metrics) StartTimer(metric, label string) interface{ Stop() } {
	return &timer{metrics: m, metric: metric, label: label, start: time.Now()}
}

// Increment counts one occurrence of metric for label
func (m *Metrics) Increment(metric, label string) {
	m.record(metric, label, 1, types.StandardUnitCount)
}

func (m *Metrics) record(metric, label string, value float64, unit types.StandardUnit) {
	if m.client == nil {
		return
	}

	datum := types.MetricDatum{
		MetricName: aws.String(metric),
		Dimensions: []types.Dimension{{Name: aws.String("Message"), Value: aws.String(label)}},
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(time.Now()),
	}

	m.mu.Lock()
	m.pending = append(m.pending, datum)
	m.mu.Unlock()
}

// Pending returns the number of buffered datums
func (m *Metrics) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Flush sends every buffered datum. Failed chunks are logged and dropped.
func (m *Metrics) Flush(ctx context.Context) {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	for start := 0; start < len(pending); start += maxDatums {
		end := min(start+maxDatums, len(pending))
		_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(m.namespace),
			MetricData: pending[start:end],
		})
		if err != nil {
			m.logger.Warn("Failed to send metrics",
				zap.String("namespace", m.namespace),
				zap.Int("datums", end-start),
				zap.Error(err),
			)
		}
	}
}

// Run flushes every interval until ctx is done, then flushes once more
func (m *Metrics) Run(ctx context.Context, interval time.Duration) {
	if m.client == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.Flush(context.WithoutCancel(ctx))
			return
		case <-ticker.C:
			m.Flush(ctx)
		}
	}
}
