package queries

import (
	"context"

	"nodetree/application/ports"
	"nodetree/application/queries/subtree"
	"nodetree/domain/core/entities"
	pkgerrors "nodetree/pkg/errors"
	"nodetree/pkg/validation"
)

// ListNodePropertiesQuery lists the properties of a single node
type ListNodePropertiesQuery struct {
	By NodeSelector `json:"by"`
}

func NewListNodePropertiesQuery(by NodeSelector) ListNodePropertiesQuery {
	return ListNodePropertiesQuery{By: by}
}

func (ListNodePropertiesQuery) MessageName() string { return "ListNodeProperties" }

var listNodePropertiesSchema = validation.Field("by",
	func(q ListNodePropertiesQuery) NodeSelector { return q.By }, nodeSelectorSchema)

func (q ListNodePropertiesQuery) Validate() error {
	return validation.Check(q, listNodePropertiesSchema).Err("Invalid query")
}

// ListNodePropertiesHandler handles the ListNodePropertiesQuery
type ListNodePropertiesHandler struct {
	nodes      ports.NodeRepository
	properties ports.PropertyRepository
}

func NewListNodePropertiesHandler(nodes ports.NodeRepository, properties ports.PropertyRepository) *ListNodePropertiesHandler {
	return &ListNodePropertiesHandler{nodes: nodes, properties: properties}
}

// Handle returns the node's properties ordered by name
func (h *ListNodePropertiesHandler) Handle(ctx context.Context, q ListNodePropertiesQuery) ([]subtree.PropertyDTO, error) {
	selector, err := q.By.toSubtreeSelector()
	if err != nil {
		return nil, err
	}

	var node *entities.Node
	if selector.IsByID() {
		node, err = h.nodes.FindByID(ctx, *selector.NodeID)
	} else {
		node, err = h.nodes.FindByPath(ctx, selector.Path)
	}
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, pkgerrors.NewNotFoundError("Node with " + selector.Describe() + " not found")
	}

	props, err := h.properties.ListByNodeID(ctx, node.ID())
	if err != nil {
		return nil, err
	}
	out := make([]subtree.PropertyDTO, 0, len(props))
	for _, p := range props {
		out = append(out, subtree.PropertyDTO{
			ID:    p.ID().String(),
			Name:  p.Name(),
			Value: p.Value().Float64(),
		})
	}
	return out, nil
}
