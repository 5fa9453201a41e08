package main

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"nodetree/pkg/observability"
)

// slowCloudWatch takes a while to accept each batch
type slowCloudWatch struct {
	datums atomic.Int64
}

func (c *slowCloudWatch) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	time.Sleep(50 * time.Millisecond)
	c.datums.Add(int64(len(in.MetricData)))
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestStartMetrics_StopWaitsForFinalFlush(t *testing.T) {
	cw := &slowCloudWatch{}
	metrics := observability.NewMetrics("NodeTree/test", cw, zaptest.NewLogger(t))

	stop := startMetrics(context.Background(), metrics, time.Hour)
	metrics.Increment("command_count", "CreateNode")
	metrics.Increment("command_success", "CreateNode")

	stop()

	assert.Equal(t, int64(2), cw.datums.Load())
	assert.Zero(t, metrics.Pending())
}

func TestStartMetrics_StopsWithParentContext(t *testing.T) {
	cw := &slowCloudWatch{}
	metrics := observability.NewMetrics("NodeTree/test", cw, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	stop := startMetrics(ctx, metrics, time.Hour)
	metrics.Increment("query_count", "GetNodeSubtree")
	cancel()

	stop()
	assert.Equal(t, int64(1), cw.datums.Load())
}
