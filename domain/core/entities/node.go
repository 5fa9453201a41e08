package entities

import (
	"time"

	"nodetree/domain/core/valueobjects"
	"nodetree/domain/events"
)

// Node is a vertex of the tree. A node without a parent is a root.
// Nodes are immutable once created; uniqueness of a name among siblings is
// enforced by the create handler and the store, not by the entity.
type Node struct {
	id       valueobjects.NodeID
	parentID *valueobjects.NodeID
	name     valueobjects.Name

	events []events.DomainEvent
}

// NewNode creates a node with a fresh identifier and records NodeCreated
func NewNode(parentID *valueobjects.NodeID, name string) (*Node, error) {
	n, err := ReconstructNode(valueobjects.NewNodeID(), parentID, name)
	if err != nil {
		return nil, err
	}
	n.addEvent(events.NewNodeCreated(n.id, n.parentID, n.name.String(), time.Now().UTC()))
	return n, nil
}

// ReconstructNode rebuilds a node from stored data
func ReconstructNode(id valueobjects.NodeID, parentID *valueobjects.NodeID, name string) (*Node, error) {
	nodeName, err := valueobjects.NewName(name, "Node name cannot be empty")
	if err != nil {
		return nil, err
	}
	var parent *valueobjects.NodeID
	if parentID != nil {
		p := *parentID
		parent = &p
	}
	return &Node{
		id:       id,
		parentID: parent,
		name:     nodeName,
		events:   []events.DomainEvent{},
	}, nil
}

func (n *Node) ID() valueobjects.NodeID {
	return n.id
}

// ParentID returns nil for root nodes
func (n *Node) ParentID() *valueobjects.NodeID {
	if n.parentID == nil {
		return nil
	}
	p := *n.parentID
	return &p
}

func (n *Node) Name() string {
	return n.name.String()
}

func (n *Node) IsRoot() bool {
	return n.parentID == nil
}

// GetUncommittedEvents returns events raised since the last commit
func (n *Node) GetUncommittedEvents() []events.DomainEvent {
	return n.events
}

// MarkEventsAsCommitted clears the event list after publishing
func (n *Node) MarkEventsAsCommitted() {
	n.events = []events.DomainEvent{}
}

func (n *Node) addEvent(event events.DomainEvent) {
	n.events = append(n.events, event)
}
