package valueobjects

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "nodetree/pkg/errors"
)

func TestNewNodeIDIsTimeOrdered(t *testing.T) {
	id := NewNodeID()
	assert.False(t, id.IsZero())
	assert.Equal(t, uuid.Version(7), id.UUID().Version())

	parsed, err := ParseNodeID(id.String())
	require.NoError(t, err)
	assert.True(t, parsed.Equals(id))
}

func TestParseNodeID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr string
	}{
		{"seed id", "00000000-0000-7000-a000-100000000001", ""},
		{"nil uuid", "00000000-0000-0000-0000-000000000000", "NodeID must not be the nil UUID"},
		{"bad syntax", "abc", "Invalid UUID format for NodeID"},
		{"version zero", "10000000-0000-0000-0000-000000000000", "Invalid UUID format for NodeID"},
		{"empty", "", "Invalid UUID format for NodeID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseNodeID(tt.in)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.in, id.String())
				return
			}
			require.Error(t, err)
			assert.True(t, pkgerrors.IsBusinessRule(err))
			assert.Equal(t, tt.wantErr, pkgerrors.GetAppError(err).Message)
		})
	}
}

func TestNodeIDJSON(t *testing.T) {
	id := MustParseNodeID("00000000-0000-7000-a000-100000000002")
	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"00000000-0000-7000-a000-100000000002"`, string(data))

	var back NodeID
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Equals(id))
	assert.Error(t, json.Unmarshal([]byte(`"00000000-0000-0000-0000-000000000000"`), &back))
}

func TestParsePropertyID(t *testing.T) {
	_, err := ParsePropertyID("00000000-0000-0000-0000-000000000000")
	assert.Error(t, err)

	id := NewPropertyID()
	parsed, err := ParsePropertyID(id.String())
	require.NoError(t, err)
	assert.True(t, parsed.Equals(id))
}

func TestPropertyValue(t *testing.T) {
	for _, v := range []float64{0, -42, 2.41, 1e-300, 100.5} {
		pv, err := NewPropertyValue(v)
		require.NoError(t, err)
		assert.Equal(t, v, pv.Float64())
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := NewPropertyValue(v)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsBusinessRule(err))
	}
}

func TestNewNameTrims(t *testing.T) {
	n, err := NewName("  CPU\t", "Node name cannot be empty")
	require.NoError(t, err)
	assert.Equal(t, "CPU", n.String())

	_, err = NewName(" \n ", "Node name cannot be empty")
	require.Error(t, err)
	assert.Equal(t, "Node name cannot be empty", pkgerrors.GetAppError(err).Message)
}
