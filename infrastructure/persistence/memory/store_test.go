package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodetree/application/queries/subtree"
	"nodetree/domain/core/entities"
	"nodetree/domain/core/valueobjects"
	"nodetree/infrastructure/persistence/storetest"
	pkgerrors "nodetree/pkg/errors"
)

type seeded struct {
	store                           *Store
	alpha, processing, cpu, storage *entities.Node
}

func mustNode(t *testing.T, s *Store, parent *entities.Node, name string, props map[string]float64) *entities.Node {
	t.Helper()
	var parentID *valueobjects.NodeID
	if parent != nil {
		id := parent.ID()
		parentID = &id
	}
	node, err := entities.NewNode(parentID, name)
	require.NoError(t, err)
	require.NoError(t, s.Nodes().Save(context.Background(), node))
	for k, v := range props {
		p, err := entities.NewProperty(node.ID(), k, v)
		require.NoError(t, err)
		require.NoError(t, s.Properties().Save(context.Background(), p))
	}
	return node
}

func seed(t *testing.T) seeded {
	s := New()
	alpha := mustNode(t, s, nil, "AlphaPC", map[string]float64{"Width": 180, "Height": 450})
	storage := mustNode(t, s, alpha, "Storage", nil)
	processing := mustNode(t, s, alpha, "Processing", map[string]float64{"RAM": 32000})
	mustNode(t, s, processing, "Graphics", nil)
	cpu := mustNode(t, s, processing, "CPU", map[string]float64{"Power": 2.41, "Cores": 4})
	return seeded{store: s, alpha: alpha, processing: processing, cpu: cpu, storage: storage}
}

func TestFetchSubtreeRowsOrdering(t *testing.T) {
	fx := seed(t)

	rows, err := fx.store.FetchSubtreeRows(context.Background(), subtree.ByID(fx.alpha.ID()))
	require.NoError(t, err)

	type key struct {
		depth int
		node  string
		prop  string
	}
	var got []key
	for _, r := range rows {
		k := key{depth: r.Depth, node: r.Name}
		if r.PropertyName != nil {
			k.prop = *r.PropertyName
		}
		got = append(got, k)
	}
	assert.Equal(t, []key{
		{0, "AlphaPC", "Height"},
		{0, "AlphaPC", "Width"},
		{1, "Processing", "RAM"},
		{1, "Storage", ""},
		{2, "CPU", "Cores"},
		{2, "CPU", "Power"},
		{2, "Graphics", ""},
	}, got)
}

func TestFetchSubtreeRowsByPathMatchesByID(t *testing.T) {
	fx := seed(t)
	ctx := context.Background()

	byID, err := fx.store.FetchSubtreeRows(ctx, subtree.ByID(fx.processing.ID()))
	require.NoError(t, err)
	byPath, err := fx.store.FetchSubtreeRows(ctx, subtree.ByPath("/AlphaPC/Processing"))
	require.NoError(t, err)

	assert.Equal(t, byID, byPath)
	assert.Equal(t, "Processing", byID[0].Name)
}

func TestFetchSubtreeRowsUnknownRoot(t *testing.T) {
	fx := seed(t)
	ctx := context.Background()

	for _, sel := range []subtree.Selector{
		subtree.ByID(valueobjects.NewNodeID()),
		subtree.ByPath("/AlphaPC/Nope"),
		subtree.ByPath("/alphapc"),
		subtree.ByPath("/"),
		subtree.ByPath(""),
		subtree.ByPath("/AlphaPC/"),
	} {
		rows, err := fx.store.FetchSubtreeRows(ctx, sel)
		require.NoError(t, err)
		assert.Empty(t, rows, sel.Describe())
	}
}

func TestNodeRepository(t *testing.T) {
	fx := seed(t)
	ctx := context.Background()
	nodes := fx.store.Nodes()

	found, err := nodes.FindByPath(ctx, "/AlphaPC/Processing/CPU")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.ID().Equals(fx.cpu.ID()))

	missing := valueobjects.NewNodeID()
	node, err := nodes.FindByID(ctx, missing)
	require.NoError(t, err)
	assert.Nil(t, node)

	_, err = nodes.GetByID(ctx, missing)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Contains(t, err.Error(), missing.String())

	exists, err := nodes.ExistsInParent(ctx, "AlphaPC", nil)
	require.NoError(t, err)
	assert.True(t, exists)

	alphaID := fx.alpha.ID()
	exists, err = nodes.ExistsInParent(ctx, "Storage", &alphaID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = nodes.ExistsInParent(ctx, "Storage", nil)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSaveEnforcesSiblingUniqueness(t *testing.T) {
	fx := seed(t)
	ctx := context.Background()

	dupRoot, err := entities.NewNode(nil, "AlphaPC")
	require.NoError(t, err)
	err = fx.store.Nodes().Save(ctx, dupRoot)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsBusinessRule(err))
	assert.Equal(t, `Root node with name "AlphaPC" already exists`, pkgerrors.GetAppError(err).Message)

	processingID := fx.processing.ID()
	storageID := fx.storage.ID()
	dupChild, err := entities.NewNode(&processingID, "CPU")
	require.NoError(t, err)
	assert.True(t, pkgerrors.IsBusinessRule(fx.store.Nodes().Save(ctx, dupChild)))

	sameNameElsewhere, err := entities.NewNode(&storageID, "CPU")
	require.NoError(t, err)
	assert.NoError(t, fx.store.Nodes().Save(ctx, sameNameElsewhere))
}

func TestSaveRejectsUnknownParent(t *testing.T) {
	s := New()
	ghost := valueobjects.NewNodeID()
	node, err := entities.NewNode(&ghost, "Orphan")
	require.NoError(t, err)
	assert.True(t, pkgerrors.IsNotFound(s.Nodes().Save(context.Background(), node)))
}

func TestPropertyRepository(t *testing.T) {
	fx := seed(t)
	ctx := context.Background()
	props := fx.store.Properties()

	exists, err := props.ExistsInNode(ctx, "RAM", fx.processing.ID())
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = props.ExistsInNode(ctx, "RAM", fx.cpu.ID())
	require.NoError(t, err)
	assert.False(t, exists)

	dup, err := entities.NewProperty(fx.processing.ID(), "RAM", 1)
	require.NoError(t, err)
	assert.True(t, pkgerrors.IsBusinessRule(props.Save(ctx, dup)))

	same, err := entities.NewProperty(fx.cpu.ID(), "RAM", 1)
	require.NoError(t, err)
	assert.NoError(t, props.Save(ctx, same))

	list, err := props.ListByNodeID(ctx, fx.cpu.ID())
	require.NoError(t, err)
	names := make([]string, len(list))
	for i, p := range list {
		names[i] = p.Name()
	}
	assert.Equal(t, []string{"Cores", "Power", "RAM"}, names)
}

func TestPathResolutionFollowsSegments(t *testing.T) {
	storetest.PathSegments(t, New())
}
