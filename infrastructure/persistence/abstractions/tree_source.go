// Package abstractions holds the store-agnostic tree traversal used by
// adapters whose backend cannot run a recursive query.
package abstractions

import (
	"context"
	"sort"
	"strings"

	"nodetree/application/queries/subtree"
)

// NodeRecord is a stored node.
type NodeRecord struct {
	ID       string
	Name     string
	ParentID *string
}

// PropertyRecord is a stored property.
type PropertyRecord struct {
	ID     string
	NodeID string
	Name   string
	Value  float64
}

// TreeSource is the read surface a key-value backend has to offer.
type TreeSource interface {
	// GetNode returns nil when the node does not exist
	GetNode(ctx context.Context, id string) (*NodeRecord, error)

	// ChildByName looks a node up by name under parentID, or among roots
	// when parentID is nil. Returns nil when absent.
	ChildByName(ctx context.Context, parentID *string, name string) (*NodeRecord, error)

	// Children lists the direct children of a node in any order
	Children(ctx context.Context, parentID string) ([]NodeRecord, error)

	// PropertiesOf lists the properties of a node in any order
	PropertiesOf(ctx context.Context, nodeID string) ([]PropertyRecord, error)
}

// SplitPath turns "/A/B" into ["A", "B"]. It returns nil for "", "/", paths
// without a leading slash and paths with empty segments.
func SplitPath(path string) []string {
	if len(path) < 2 || path[0] != '/' {
		return nil
	}
	segments := strings.Split(path[1:], "/")
	for _, s := range segments {
		if s == "" {
			return nil
		}
	}
	return segments
}

// ResolvePath walks the name chain of path from the roots down, one lookup per
// segment. Matching is exact and case-sensitive.
func ResolvePath(ctx context.Context, src TreeSource, path string) (*NodeRecord, error) {
	segments := SplitPath(path)
	if segments == nil {
		return nil, nil
	}

	var current *NodeRecord
	var parentID *string
	for _, name := range segments {
		next, err := src.ChildByName(ctx, parentID, name)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, nil
		}
		current = next
		id := current.ID
		parentID = &id
	}
	return current, nil
}

// ResolveSelector finds the subtree root named by selector.
func ResolveSelector(ctx context.Context, src TreeSource, selector subtree.Selector) (*NodeRecord, error) {
	if selector.IsByID() {
		return src.GetNode(ctx, selector.NodeID.String())
	}
	return ResolvePath(ctx, src, selector.Path)
}

// CollectRows walks the subtree under root breadth first and emits rows in
// (depth, node name, property name) order, one level at a time.
func CollectRows(ctx context.Context, src TreeSource, root NodeRecord) ([]subtree.Row, error) {
	var rows []subtree.Row

	level := []NodeRecord{root}
	for depth := 0; len(level) > 0; depth++ {
		sort.SliceStable(level, func(i, j int) bool { return level[i].Name < level[j].Name })

		var next []NodeRecord
		for _, node := range level {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			props, err := src.PropertiesOf(ctx, node.ID)
			if err != nil {
				return nil, err
			}
			rows = append(rows, rowsFor(node, depth, props)...)

			children, err := src.Children(ctx, node.ID)
			if err != nil {
				return nil, err
			}
			next = append(next, children...)
		}
		level = next
	}
	return rows, nil
}

func rowsFor(node NodeRecord, depth int, props []PropertyRecord) []subtree.Row {
	base := subtree.Row{
		NodeID:   node.ID,
		Name:     node.Name,
		ParentID: node.ParentID,
		Depth:    depth,
	}
	if len(props) == 0 {
		return []subtree.Row{base}
	}

	sort.SliceStable(props, func(i, j int) bool { return props[i].Name < props[j].Name })
	rows := make([]subtree.Row, 0, len(props))
	for _, p := range props {
		row := base
		id, name, value := p.ID, p.Name, p.Value
		row.PropertyID = &id
		row.PropertyName = &name
		row.PropertyValue = &value
		rows = append(rows, row)
	}
	return rows
}
