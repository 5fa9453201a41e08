package entities

import (
	"fmt"

	"nodetree/domain/core/valueobjects"
	pkgerrors "nodetree/pkg/errors"
)

// ErrDuplicateNodeName reports a sibling-name clash under parentID, or among
// roots when parentID is nil.
func ErrDuplicateNodeName(name string, parentID *valueobjects.NodeID) error {
	if parentID == nil {
		return pkgerrors.NewBusinessRuleError(fmt.Sprintf("Root node with name %q already exists", name))
	}
	return pkgerrors.NewBusinessRuleError(fmt.Sprintf("Node with name %q already exists under parent %s", name, parentID))
}

// ErrDuplicatePropertyName reports a property-name clash on one node.
func ErrDuplicatePropertyName(name string, nodeID valueobjects.NodeID) error {
	return pkgerrors.NewBusinessRuleError(fmt.Sprintf("Property with name %q already exists for node %s", name, nodeID))
}

// ErrNodeNotFound reports a missing node by id.
func ErrNodeNotFound(id valueobjects.NodeID) error {
	return pkgerrors.NewNotFoundError(fmt.Sprintf("Node with id %s not found", id))
}
