package queries

import (
	"context"
	"errors"

	"nodetree/application/ports"
	"nodetree/application/queries/subtree"
	pkgerrors "nodetree/pkg/errors"
	"nodetree/pkg/validation"
)

// GetNodeSubtreeQuery fetches a node with all descendants and properties
type GetNodeSubtreeQuery struct {
	By NodeSelector `json:"by"`
}

func NewGetNodeSubtreeQuery(by NodeSelector) GetNodeSubtreeQuery {
	return GetNodeSubtreeQuery{By: by}
}

func (GetNodeSubtreeQuery) MessageName() string { return "GetNodeSubtree" }

var getNodeSubtreeSchema = validation.Field("by",
	func(q GetNodeSubtreeQuery) NodeSelector { return q.By }, nodeSelectorSchema)

// Validate validates the query
func (q GetNodeSubtreeQuery) Validate() error {
	return validation.Check(q, getNodeSubtreeSchema).Err("Invalid query")
}

// GetNodeSubtreeHandler handles the GetNodeSubtreeQuery
type GetNodeSubtreeHandler struct {
	reader ports.SubtreeReader
}

func NewGetNodeSubtreeHandler(reader ports.SubtreeReader) *GetNodeSubtreeHandler {
	return &GetNodeSubtreeHandler{reader: reader}
}

// Handle fetches the subtree rows and assembles them into a tree
func (h *GetNodeSubtreeHandler) Handle(ctx context.Context, q GetNodeSubtreeQuery) (*subtree.NodeDTO, error) {
	selector, err := q.By.toSubtreeSelector()
	if err != nil {
		return nil, err
	}

	rows, err := h.reader.FetchSubtreeRows(ctx, selector)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "fetch subtree rows")
	}

	root, err := subtree.Assemble(rows)
	if errors.Is(err, subtree.ErrNoRows) {
		return nil, pkgerrors.NewNotFoundError("Node with " + selector.Describe() + " not found")
	}
	return root, err
}
