package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"nodetree/domain/core/valueobjects"
	"nodetree/domain/events"
	pkgerrors "nodetree/pkg/errors"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) PutEvents(ctx context.Context, in *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*eventbridge.PutEventsOutput)
	return out, args.Error(1)
}

func nodeEvents(n int) []events.DomainEvent {
	out := make([]events.DomainEvent, n)
	for i := range out {
		out[i] = events.NewNodeCreated(valueobjects.NewNodeID(), nil, "node", time.Now())
	}
	return out
}

func TestPublishBatch_ChunksByTen(t *testing.T) {
	api := &mockAPI{}
	var sizes []int
	api.On("PutEvents", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sizes = append(sizes, len(args.Get(1).(*eventbridge.PutEventsInput).Entries))
		}).
		Return(&eventbridge.PutEventsOutput{}, nil)

	p := NewPublisher(api, "bus", zaptest.NewLogger(t))
	require.NoError(t, p.PublishBatch(context.Background(), nodeEvents(23)))
	assert.Equal(t, []int{10, 10, 3}, sizes)
}

func TestPublish_EntryShape(t *testing.T) {
	api := &mockAPI{}
	event := events.NewNodeCreated(valueobjects.NewNodeID(), nil, "AlphaPC", time.Now())

	api.On("PutEvents", mock.Anything, mock.MatchedBy(func(in *eventbridge.PutEventsInput) bool {
		if len(in.Entries) != 1 {
			return false
		}
		e := in.Entries[0]
		var detail map[string]any
		if err := json.Unmarshal([]byte(aws.ToString(e.Detail)), &detail); err != nil {
			return false
		}
		return aws.ToString(e.EventBusName) == "bus" &&
			aws.ToString(e.Source) == Source &&
			aws.ToString(e.DetailType) == events.TypeNodeCreated &&
			detail["name"] == "AlphaPC"
	})).Return(&eventbridge.PutEventsOutput{}, nil)

	p := NewPublisher(api, "bus", zaptest.NewLogger(t))
	require.NoError(t, p.Publish(context.Background(), event))
	api.AssertExpectations(t)
}

func TestPublishBatch_Failures(t *testing.T) {
	t.Run("transport error", func(t *testing.T) {
		api := &mockAPI{}
		api.On("PutEvents", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

		err := NewPublisher(api, "bus", zaptest.NewLogger(t)).PublishBatch(context.Background(), nodeEvents(1))
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeExternal))
	})

	t.Run("rejected entries", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		api := &mockAPI{}
		api.On("PutEvents", mock.Anything, mock.Anything).Return(&eventbridge.PutEventsOutput{
			FailedEntryCount: 1,
			Entries: []types.PutEventsResultEntry{
				{EventId: aws.String("ok")},
				{ErrorCode: aws.String("ThrottlingException"), ErrorMessage: aws.String("slow down")},
			},
		}, nil)

		err := NewPublisher(api, "bus", zap.New(core)).PublishBatch(context.Background(), nodeEvents(2))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 2 events failed")
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "ThrottlingException", logs.All()[0].ContextMap()["error_code"])
	})
}

func TestLogPublisher_LogsEachEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewLogPublisher(zap.New(core))

	require.NoError(t, p.PublishBatch(context.Background(), nodeEvents(3)))
	assert.Equal(t, 3, logs.FilterMessage("Domain event").Len())
}
