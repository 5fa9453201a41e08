package events

import (
	"time"

	"nodetree/domain/core/valueobjects"
)

const (
	TypeNodeCreated     = "node.created"
	TypePropertyCreated = "property.created"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// NodeCreated is raised when a new node is created
type NodeCreated struct {
	BaseEvent
	NodeID   valueobjects.NodeID  `json:"node_id"`
	ParentID *valueobjects.NodeID `json:"parent_id"`
	Name     string               `json:"name"`
}

// NewNodeCreated creates a NodeCreated event
func NewNodeCreated(nodeID valueobjects.NodeID, parentID *valueobjects.NodeID, name string, timestamp time.Time) NodeCreated {
	return NodeCreated{
		BaseEvent: BaseEvent{
			AggregateID: nodeID.String(),
			EventType:   TypeNodeCreated,
			Timestamp:   timestamp,
			Version:     1,
		},
		NodeID:   nodeID,
		ParentID: parentID,
		Name:     name,
	}
}

// PropertyCreated is raised when a property is attached to a node. The
// aggregate is the owning node.
type PropertyCreated struct {
	BaseEvent
	PropertyID valueobjects.PropertyID `json:"property_id"`
	NodeID     valueobjects.NodeID     `json:"node_id"`
	Name       string                  `json:"name"`
	Value      float64                 `json:"value"`
}

// NewPropertyCreated creates a PropertyCreated event
func NewPropertyCreated(propertyID valueobjects.PropertyID, nodeID valueobjects.NodeID, name string, value float64, timestamp time.Time) PropertyCreated {
	return PropertyCreated{
		BaseEvent: BaseEvent{
			AggregateID: nodeID.String(),
			EventType:   TypePropertyCreated,
			Timestamp:   timestamp,
			Version:     1,
		},
		PropertyID: propertyID,
		NodeID:     nodeID,
		Name:       name,
		Value:      value,
	}
}
