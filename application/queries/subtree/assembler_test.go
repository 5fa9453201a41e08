package subtree

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alphaID      = "00000000-0000-7000-a000-100000000001"
	processingID = "00000000-0000-7000-a000-100000000002"
	cpuID        = "00000000-0000-7000-a000-100000000003"
	graphicsID   = "00000000-0000-7000-a000-100000000004"
	storageID    = "00000000-0000-7000-a000-100000000005"
)

func ptr[T any](v T) *T { return &v }

func nodeRow(id, name string, parent *string, depth int) Row {
	return Row{NodeID: id, Name: name, ParentID: parent, Depth: depth}
}

func propRow(id, name string, parent *string, depth int, propID, propName string, value float64) Row {
	r := nodeRow(id, name, parent, depth)
	r.PropertyID = ptr(propID)
	r.PropertyName = ptr(propName)
	r.PropertyValue = ptr(value)
	return r
}

func alphaPCRows() []Row {
	return []Row{
		propRow(alphaID, "AlphaPC", nil, 0, "p-height", "Height", 450),
		propRow(alphaID, "AlphaPC", nil, 0, "p-width", "Width", 180),
		propRow(processingID, "Processing", ptr(alphaID), 1, "p-ram", "RAM", 32000),
		nodeRow(storageID, "Storage", ptr(alphaID), 1),
		propRow(cpuID, "CPU", ptr(processingID), 2, "p-cores", "Cores", 4),
		propRow(cpuID, "CPU", ptr(processingID), 2, "p-power", "Power", 2.41),
		nodeRow(graphicsID, "Graphics", ptr(processingID), 2),
	}
}

func TestAssembleSeedTree(t *testing.T) {
	root, err := Assemble(alphaPCRows())
	require.NoError(t, err)

	assert.Equal(t, "AlphaPC", root.Name)
	assert.Nil(t, root.ParentID)
	assert.Equal(t, []PropertyDTO{
		{ID: "p-height", Name: "Height", Value: 450},
		{ID: "p-width", Name: "Width", Value: 180},
	}, root.Properties)

	require.Len(t, root.Children, 2)
	processing, storage := root.Children[0], root.Children[1]
	assert.Equal(t, "Processing", processing.Name)
	assert.Equal(t, "Storage", storage.Name)
	assert.Empty(t, storage.Children)
	assert.Empty(t, storage.Properties)
	assert.Equal(t, []PropertyDTO{{ID: "p-ram", Name: "RAM", Value: 32000}}, processing.Properties)

	require.Len(t, processing.Children, 2)
	cpu, graphics := processing.Children[0], processing.Children[1]
	assert.Equal(t, "CPU", cpu.Name)
	assert.Equal(t, "Graphics", graphics.Name)
	assert.Empty(t, cpu.Children)
	assert.Len(t, cpu.Properties, 2)
	require.NotNil(t, cpu.ParentID)
	assert.Equal(t, processingID, *cpu.ParentID)
}

func TestAssembleNonRootSubtreeKeepsParentID(t *testing.T) {
	rows := []Row{
		propRow(processingID, "Processing", ptr(alphaID), 0, "p-ram", "RAM", 32000),
		nodeRow(cpuID, "CPU", ptr(processingID), 1),
	}
	root, err := Assemble(rows)
	require.NoError(t, err)

	assert.Equal(t, processingID, root.ID)
	require.NotNil(t, root.ParentID)
	assert.Equal(t, alphaID, *root.ParentID)
	require.Len(t, root.Children, 1)
}

func TestAssembleEmptyRowsIsNotFound(t *testing.T) {
	root, err := Assemble(nil)
	assert.Nil(t, root)
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestAssembleLeafHasEmptyListsNotNil(t *testing.T) {
	root, err := Assemble([]Row{nodeRow(storageID, "Storage", nil, 0)})
	require.NoError(t, err)
	assert.NotNil(t, root.Properties)
	assert.NotNil(t, root.Children)
}

// randomRows builds a random tree and returns its rows in (depth, name,
// property name) order along with the number of nodes and the max depth.
func randomRows(r *rand.Rand) ([]Row, int, int) {
	type node struct {
		id     string
		name   string
		parent *string
		depth  int
		props  []string
	}
	nodes := []node{{id: "n0", name: "root", depth: 0}}
	count := 1 + r.Intn(40)
	for i := 1; i < count; i++ {
		parent := nodes[r.Intn(len(nodes))]
		nodes = append(nodes, node{
			id:     fmt.Sprintf("n%d", i),
			name:   fmt.Sprintf("name-%03d", r.Intn(1000)),
			parent: ptr(parent.id),
			depth:  parent.depth + 1,
		})
	}
	maxDepth := 0
	for i := range nodes {
		for p := 0; p < r.Intn(4); p++ {
			nodes[i].props = append(nodes[i].props, fmt.Sprintf("prop-%d", p))
		}
		if nodes[i].depth > maxDepth {
			maxDepth = nodes[i].depth
		}
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].depth != nodes[j].depth {
			return nodes[i].depth < nodes[j].depth
		}
		return nodes[i].name < nodes[j].name
	})

	var rows []Row
	for _, n := range nodes {
		if len(n.props) == 0 {
			rows = append(rows, nodeRow(n.id, n.name, n.parent, n.depth))
			continue
		}
		for _, p := range n.props {
			rows = append(rows, propRow(n.id, n.name, n.parent, n.depth, n.id+"-"+p, p, r.Float64()))
		}
	}
	return rows, len(nodes), maxDepth
}

func countAndDepth(n *NodeDTO, depth int) (int, int) {
	count, maxDepth := 1, depth
	for _, c := range n.Children {
		cc, cd := countAndDepth(c, depth+1)
		count += cc
		if cd > maxDepth {
			maxDepth = cd
		}
	}
	return count, maxDepth
}

func TestAssembleRandomTreesPreserveShape(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		rows, wantCount, wantDepth := randomRows(r)

		root, err := Assemble(rows)
		require.NoError(t, err)

		gotCount, gotDepth := countAndDepth(root, 0)
		assert.Equal(t, wantCount, gotCount)
		assert.Equal(t, wantDepth, gotDepth)
	}
}

func TestSelectorDescribe(t *testing.T) {
	assert.Equal(t, "path /AlphaPC", ByPath("/AlphaPC").Describe())
	assert.False(t, ByPath("/AlphaPC").IsByID())
}
