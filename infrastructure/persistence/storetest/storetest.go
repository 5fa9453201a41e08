// Package storetest holds behaviour every TreeStore adapter must share. Each
// adapter's tests run it against their own store.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodetree/application/ports"
	"nodetree/application/queries/subtree"
	"nodetree/domain/core/entities"
	"nodetree/domain/core/valueobjects"
)

func saveNode(t *testing.T, store ports.TreeStore, parent *entities.Node, name string) *entities.Node {
	t.Helper()
	var parentID *valueobjects.NodeID
	if parent != nil {
		id := parent.ID()
		parentID = &id
	}
	node, err := entities.NewNode(parentID, name)
	require.NoError(t, err)
	require.NoError(t, store.Nodes().Save(context.Background(), node))
	return node
}

// PathSegments checks that paths are resolved one name per segment. A root
// whose name contains a slash is reachable by id only, and never shadows the
// node the segments lead to. store must be empty.
func PathSegments(t *testing.T, store ports.TreeStore) {
	t.Helper()
	ctx := context.Background()

	slashed := saveNode(t, store, nil, "A/B")
	a := saveNode(t, store, nil, "A")
	b := saveNode(t, store, a, "B")

	t.Run("path follows segments", func(t *testing.T) {
		rows, err := store.FetchSubtreeRows(ctx, subtree.ByPath("/A/B"))
		require.NoError(t, err)
		tree, err := subtree.Assemble(rows)
		require.NoError(t, err)
		assert.Equal(t, b.ID().String(), tree.ID)
		for _, row := range rows {
			assert.Equal(t, b.ID().String(), row.NodeID)
		}

		found, err := store.Nodes().FindByPath(ctx, "/A/B")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.True(t, found.ID().Equals(b.ID()))
	})

	t.Run("slashed name is not addressable by path", func(t *testing.T) {
		for _, path := range []string{"/A%2FB", "/A//B", "A/B"} {
			rows, err := store.FetchSubtreeRows(ctx, subtree.ByPath(path))
			require.NoError(t, err, path)
			assert.Empty(t, rows, path)
		}
	})

	t.Run("slashed name is addressable by id", func(t *testing.T) {
		rows, err := store.FetchSubtreeRows(ctx, subtree.ByID(slashed.ID()))
		require.NoError(t, err)
		tree, err := subtree.Assemble(rows)
		require.NoError(t, err)
		assert.Equal(t, "A/B", tree.Name)
		assert.Empty(t, tree.Children)
	})
}
