// Package subtree holds the read model of a node and its descendants and the
// assembler that rebuilds it from flat (node, property) rows.
package subtree

import (
	"errors"

	"nodetree/domain/core/valueobjects"
)

// ErrNoRows is returned by Assemble when the row set is empty, which means the
// requested root does not exist.
var ErrNoRows = errors.New("subtree: no rows")

// Row is one (node, property) pairing of the subtree join. Property fields are
// nil for nodes without properties.
type Row struct {
	NodeID        string
	Name          string
	ParentID      *string
	Depth         int
	PropertyID    *string
	PropertyName  *string
	PropertyValue *float64
}

// HasProperty reports whether the row carries a property triplet.
func (r Row) HasProperty() bool {
	return r.PropertyID != nil && r.PropertyName != nil && r.PropertyValue != nil
}

// PropertyDTO is the read model of a property.
type PropertyDTO struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// NodeDTO is the read model of a node with its properties and children.
type NodeDTO struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	ParentID   *string       `json:"parentId"`
	Properties []PropertyDTO `json:"properties"`
	Children   []*NodeDTO    `json:"children"`
}

// Selector names the root of a subtree by id or by slash-delimited path.
// Exactly one of the two is set.
type Selector struct {
	NodeID *valueobjects.NodeID
	Path   string
}

// ByID selects a subtree by root identifier.
func ByID(id valueobjects.NodeID) Selector {
	return Selector{NodeID: &id}
}

// ByPath selects a subtree by root path, e.g. "/AlphaPC/Processing".
func ByPath(path string) Selector {
	return Selector{Path: path}
}

// IsByID reports whether the selector uses an identifier.
func (s Selector) IsByID() bool {
	return s.NodeID != nil
}

// Describe renders the selector as it appears in not-found messages:
// "id <uuid>" or "path </a/b>".
func (s Selector) Describe() string {
	if s.IsByID() {
		return "id " + s.NodeID.String()
	}
	return "path " + s.Path
}
