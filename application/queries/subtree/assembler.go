package subtree

// Assemble rebuilds the nested tree from rows ordered by depth, node name and
// property name. The first row belongs to the requested root.
//
// Nodes are materialized in row-encounter order; repeated rows for the same
// node only extend its property list. A second pass links every node under
// its parent when the parent is part of the result, which keeps children in
// row order, i.e. sorted by name.
func Assemble(rows []Row) (*NodeDTO, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	byID := make(map[string]*NodeDTO, len(rows))
	order := make([]*NodeDTO, 0, len(rows))

	for _, row := range rows {
		node, seen := byID[row.NodeID]
		if !seen {
			node = &NodeDTO{
				ID:         row.NodeID,
				Name:       row.Name,
				ParentID:   row.ParentID,
				Properties: []PropertyDTO{},
				Children:   []*NodeDTO{},
			}
			byID[row.NodeID] = node
			order = append(order, node)
		}
		if row.HasProperty() {
			node.Properties = append(node.Properties, PropertyDTO{
				ID:    *row.PropertyID,
				Name:  *row.PropertyName,
				Value: *row.PropertyValue,
			})
		}
	}

	root := byID[rows[0].NodeID]
	for _, node := range order {
		if node == root || node.ParentID == nil {
			continue
		}
		if parent, ok := byID[*node.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		}
	}

	return root, nil
}
