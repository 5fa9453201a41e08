package queries

import (
	"regexp"

	"nodetree/application/queries/subtree"
	"nodetree/domain/core/valueobjects"
	"nodetree/pkg/validation"
)

var pathPattern = regexp.MustCompile(`^/.+$`)

// NodeSelector is the discriminated "by" part of a query: exactly one of
// NodeID or Path is set.
type NodeSelector struct {
	NodeID *string `json:"nodeId,omitempty"`
	Path   *string `json:"path,omitempty"`
}

// ByNodeID selects a node by identifier
func ByNodeID(id string) NodeSelector {
	return NodeSelector{NodeID: &id}
}

// ByPath selects a node by slash-delimited path
func ByPath(path string) NodeSelector {
	return NodeSelector{Path: &path}
}

var nodeSelectorSchema = validation.Object(
	validation.ExactlyOne("Exactly one of nodeId or path must be provided",
		func(s NodeSelector) bool { return s.NodeID != nil },
		func(s NodeSelector) bool { return s.Path != nil },
	),
	validation.Field("nodeId", func(s NodeSelector) *string { return s.NodeID },
		validation.Nullable(validation.UUID("Invalid UUID"))),
	validation.Field("path", func(s NodeSelector) *string { return s.Path },
		validation.Nullable(validation.Matches(pathPattern, "Path must start with a slash and not be empty"))),
)

// toSubtreeSelector assumes the selector passed validation.
func (s NodeSelector) toSubtreeSelector() (subtree.Selector, error) {
	if s.NodeID != nil {
		id, err := valueobjects.ParseNodeID(*s.NodeID)
		if err != nil {
			return subtree.Selector{}, err
		}
		return subtree.ByID(id), nil
	}
	return subtree.ByPath(*s.Path), nil
}
