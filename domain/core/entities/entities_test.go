package entities

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodetree/domain/core/valueobjects"
	"nodetree/domain/events"
	pkgerrors "nodetree/pkg/errors"
)

func TestNewRootNode(t *testing.T) {
	node, err := NewNode(nil, "  AlphaPC ")
	require.NoError(t, err)

	assert.Equal(t, "AlphaPC", node.Name())
	assert.True(t, node.IsRoot())
	assert.Nil(t, node.ParentID())
	assert.False(t, node.ID().IsZero())

	evts := node.GetUncommittedEvents()
	require.Len(t, evts, 1)
	assert.Equal(t, events.TypeNodeCreated, evts[0].GetEventType())
	assert.Equal(t, node.ID().String(), evts[0].GetAggregateID())

	node.MarkEventsAsCommitted()
	assert.Empty(t, node.GetUncommittedEvents())
}

func TestNewChildNodeCopiesParent(t *testing.T) {
	parent := valueobjects.NewNodeID()
	node, err := NewNode(&parent, "CPU")
	require.NoError(t, err)

	got := node.ParentID()
	require.NotNil(t, got)
	assert.True(t, got.Equals(parent))
	assert.False(t, node.IsRoot())
}

func TestNodeNameCannotBeEmpty(t *testing.T) {
	_, err := NewNode(nil, "   ")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsBusinessRule(err))
	assert.Equal(t, "Node name cannot be empty", pkgerrors.GetAppError(err).Message)
}

func TestReconstructNodeRecordsNoEvents(t *testing.T) {
	id := valueobjects.MustParseNodeID("00000000-0000-7000-a000-100000000001")
	node, err := ReconstructNode(id, nil, "AlphaPC")
	require.NoError(t, err)
	assert.True(t, node.ID().Equals(id))
	assert.Empty(t, node.GetUncommittedEvents())
}

func TestNewProperty(t *testing.T) {
	nodeID := valueobjects.NewNodeID()

	tests := []struct {
		name    string
		propKey string
		value   float64
		wantErr string
	}{
		{"fractional", "Power", 2.41, ""},
		{"zero", "Zero", 0, ""},
		{"negative", "Offset", -12.5, ""},
		{"blank name", "  ", 1, "NodeProperty name cannot be empty"},
		{"nan", "Bad", math.NaN(), "Invalid value for PropertyValue"},
		{"inf", "Bad", math.Inf(1), "Invalid value for PropertyValue"},
		{"neg inf", "Bad", math.Inf(-1), "Invalid value for PropertyValue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop, err := NewProperty(nodeID, tt.propKey, tt.value)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, pkgerrors.GetAppError(err).Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, prop.Value().Float64())
			assert.True(t, prop.NodeID().Equals(nodeID))
			require.Len(t, prop.GetUncommittedEvents(), 1)
			assert.Equal(t, events.TypePropertyCreated, prop.GetUncommittedEvents()[0].GetEventType())
		})
	}
}
