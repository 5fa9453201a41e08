package abstractions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"/AlphaPC", []string{"AlphaPC"}},
		{"/AlphaPC/Processing/CPU", []string{"AlphaPC", "Processing", "CPU"}},
		{"", nil},
		{"/", nil},
		{"AlphaPC", nil},
		{"/AlphaPC/", nil},
		{"//AlphaPC", nil},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitPath(tt.path))
		})
	}
}

type failingSource struct {
	TreeSource
	err error
}

func (f failingSource) ChildByName(context.Context, *string, string) (*NodeRecord, error) {
	return nil, f.err
}

func (f failingSource) PropertiesOf(context.Context, string) ([]PropertyRecord, error) {
	return nil, f.err
}

func TestResolvePathPropagatesErrors(t *testing.T) {
	boom := errors.New("throttled")
	_, err := ResolvePath(context.Background(), failingSource{err: boom}, "/A")
	assert.ErrorIs(t, err, boom)
}

func TestCollectRowsPropagatesErrors(t *testing.T) {
	boom := errors.New("throttled")
	_, err := CollectRows(context.Background(), failingSource{err: boom}, NodeRecord{ID: "n1", Name: "A"})
	assert.ErrorIs(t, err, boom)
}

func TestCollectRowsStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CollectRows(ctx, failingSource{}, NodeRecord{ID: "n1", Name: "A"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
