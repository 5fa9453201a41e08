package queries

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nodetree/application/queries/subtree"
	"nodetree/domain/core/entities"
	"nodetree/domain/core/valueobjects"
	"nodetree/infrastructure/persistence/memory"
	pkgerrors "nodetree/pkg/errors"
)

type tree struct {
	store       *memory.Store
	alpha, proc *entities.Node
	cpu         *entities.Node
}

func add(t *testing.T, s *memory.Store, parent *entities.Node, name string, props ...any) *entities.Node {
	t.Helper()
	ctx := context.Background()
	var parentID *valueobjects.NodeID
	if parent != nil {
		id := parent.ID()
		parentID = &id
	}
	node, err := entities.NewNode(parentID, name)
	require.NoError(t, err)
	require.NoError(t, s.Nodes().Save(ctx, node))
	for i := 0; i+1 < len(props); i += 2 {
		p, err := entities.NewProperty(node.ID(), props[i].(string), props[i+1].(float64))
		require.NoError(t, err)
		require.NoError(t, s.Properties().Save(ctx, p))
	}
	return node
}

func seedAlphaPC(t *testing.T) tree {
	s := memory.New()
	alpha := add(t, s, nil, "AlphaPC", "Height", 450.0, "Width", 180.0)
	proc := add(t, s, alpha, "Processing", "RAM", 32000.0)
	cpu := add(t, s, proc, "CPU", "Cores", 4.0, "Power", 2.41)
	add(t, s, proc, "Graphics")
	add(t, s, alpha, "Storage")
	return tree{store: s, alpha: alpha, proc: proc, cpu: cpu}
}

func TestGetNodeSubtreeByPath(t *testing.T) {
	fx := seedAlphaPC(t)
	h := NewGetNodeSubtreeHandler(fx.store)

	root, err := h.Handle(context.Background(), NewGetNodeSubtreeQuery(ByPath("/AlphaPC")))
	require.NoError(t, err)

	assert.Equal(t, "AlphaPC", root.Name)
	assert.Nil(t, root.ParentID)
	require.Len(t, root.Properties, 2)
	assert.Equal(t, "Height", root.Properties[0].Name)
	assert.Equal(t, "Width", root.Properties[1].Name)

	require.Len(t, root.Children, 2)
	proc := root.Children[0]
	assert.Equal(t, "Processing", proc.Name)
	assert.Equal(t, "Storage", root.Children[1].Name)
	require.Len(t, proc.Children, 2)
	assert.Equal(t, "CPU", proc.Children[0].Name)
	assert.Equal(t, "Graphics", proc.Children[1].Name)
	assert.Empty(t, proc.Children[0].Children)
}

func TestGetNodeSubtreeByIDEqualsByPath(t *testing.T) {
	fx := seedAlphaPC(t)
	h := NewGetNodeSubtreeHandler(fx.store)
	ctx := context.Background()

	byID, err := h.Handle(ctx, NewGetNodeSubtreeQuery(ByNodeID(fx.proc.ID().String())))
	require.NoError(t, err)
	byPath, err := h.Handle(ctx, NewGetNodeSubtreeQuery(ByPath("/AlphaPC/Processing")))
	require.NoError(t, err)

	assert.Equal(t, byID, byPath)
}

func TestGetNodeSubtreeNotFound(t *testing.T) {
	fx := seedAlphaPC(t)
	h := NewGetNodeSubtreeHandler(fx.store)
	ctx := context.Background()
	ghost := valueobjects.NewNodeID().String()

	_, err := h.Handle(ctx, NewGetNodeSubtreeQuery(ByNodeID(ghost)))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Equal(t, "Node with id "+ghost+" not found", pkgerrors.GetAppError(err).Message)

	_, err = h.Handle(ctx, NewGetNodeSubtreeQuery(ByPath("/AlphaPC/Nope")))
	require.Error(t, err)
	assert.Equal(t, "Node with path /AlphaPC/Nope not found", pkgerrors.GetAppError(err).Message)
}

type failingReader struct{ err error }

func (f failingReader) FetchSubtreeRows(context.Context, subtree.Selector) ([]subtree.Row, error) {
	return nil, f.err
}

func TestGetNodeSubtreeStoreFailureIsInternal(t *testing.T) {
	h := NewGetNodeSubtreeHandler(failingReader{err: errors.New("dial tcp: refused")})
	_, err := h.Handle(context.Background(), NewGetNodeSubtreeQuery(ByPath("/A")))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeInternal))
}

func TestGetNodeSubtreeQueryValidate(t *testing.T) {
	tests := []struct {
		name  string
		query GetNodeSubtreeQuery
		want  []pkgerrors.Violation
	}{
		{
			name:  "valid id",
			query: NewGetNodeSubtreeQuery(ByNodeID("00000000-0000-7000-a000-100000000001")),
		},
		{
			name:  "valid path",
			query: NewGetNodeSubtreeQuery(ByPath("/AlphaPC/Processing")),
		},
		{
			name:  "invalid id",
			query: NewGetNodeSubtreeQuery(ByNodeID("10000000-0000-0000-0000-000000000000")),
			want:  []pkgerrors.Violation{{Path: []any{"by", "nodeId"}, Message: "Invalid UUID"}},
		},
		{
			name:  "bare slash",
			query: NewGetNodeSubtreeQuery(ByPath("/")),
			want:  []pkgerrors.Violation{{Path: []any{"by", "path"}, Message: "Path must start with a slash and not be empty"}},
		},
		{
			name:  "no selector",
			query: GetNodeSubtreeQuery{},
			want:  []pkgerrors.Violation{{Path: []any{"by"}, Message: "Exactly one of nodeId or path must be provided"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.want, pkgerrors.GetAppError(err).Violations)
		})
	}
}

type mockPropertyRepository struct {
	mock.Mock
}

func (m *mockPropertyRepository) ExistsInNode(ctx context.Context, name string, nodeID valueobjects.NodeID) (bool, error) {
	args := m.Called(ctx, name, nodeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockPropertyRepository) Save(ctx context.Context, p *entities.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPropertyRepository) ListByNodeID(ctx context.Context, nodeID valueobjects.NodeID) ([]*entities.Property, error) {
	args := m.Called(ctx, nodeID)
	props, _ := args.Get(0).([]*entities.Property)
	return props, args.Error(1)
}

func TestListNodeProperties(t *testing.T) {
	fx := seedAlphaPC(t)
	h := NewListNodePropertiesHandler(fx.store.Nodes(), fx.store.Properties())
	ctx := context.Background()

	props, err := h.Handle(ctx, NewListNodePropertiesQuery(ByPath("/AlphaPC/Processing/CPU")))
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, "Cores", props[0].Name)
	assert.Equal(t, 4.0, props[0].Value)
	assert.Equal(t, "Power", props[1].Name)

	props, err = h.Handle(ctx, NewListNodePropertiesQuery(ByNodeID(fx.alpha.ID().String())))
	require.NoError(t, err)
	assert.Len(t, props, 2)

	_, err = h.Handle(ctx, NewListNodePropertiesQuery(ByPath("/Nope")))
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestListNodePropertiesStoreError(t *testing.T) {
	fx := seedAlphaPC(t)
	props := &mockPropertyRepository{}
	boom := errors.New("timeout")
	props.On("ListByNodeID", mock.Anything, fx.cpu.ID()).Return(nil, boom)

	h := NewListNodePropertiesHandler(fx.store.Nodes(), props)
	_, err := h.Handle(context.Background(), NewListNodePropertiesQuery(ByNodeID(fx.cpu.ID().String())))
	assert.ErrorIs(t, err, boom)
	props.AssertExpectations(t)
}
