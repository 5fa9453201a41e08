package entities

import (
	"time"

	"nodetree/domain/core/valueobjects"
	"nodetree/domain/events"
)

// Property is a named numeric attribute owned by exactly one node.
type Property struct {
	id     valueobjects.PropertyID
	nodeID valueobjects.NodeID
	name   valueobjects.Name
	value  valueobjects.PropertyValue

	events []events.DomainEvent
}

// NewProperty creates a property with a fresh identifier and records PropertyCreated
func NewProperty(nodeID valueobjects.NodeID, name string, value float64) (*Property, error) {
	p, err := ReconstructProperty(valueobjects.NewPropertyID(), nodeID, name, value)
	if err != nil {
		return nil, err
	}
	p.events = append(p.events, events.NewPropertyCreated(p.id, nodeID, p.name.String(), value, time.Now().UTC()))
	return p, nil
}

// ReconstructProperty rebuilds a property from stored data
func ReconstructProperty(id valueobjects.PropertyID, nodeID valueobjects.NodeID, name string, value float64) (*Property, error) {
	propName, err := valueobjects.NewName(name, "NodeProperty name cannot be empty")
	if err != nil {
		return nil, err
	}
	propValue, err := valueobjects.NewPropertyValue(value)
	if err != nil {
		return nil, err
	}
	return &Property{
		id:     id,
		nodeID: nodeID,
		name:   propName,
		value:  propValue,
		events: []events.DomainEvent{},
	}, nil
}

func (p *Property) ID() valueobjects.PropertyID       { return p.id }
func (p *Property) NodeID() valueobjects.NodeID       { return p.nodeID }
func (p *Property) Name() string                      { return p.name.String() }
func (p *Property) Value() valueobjects.PropertyValue { return p.value }

func (p *Property) GetUncommittedEvents() []events.DomainEvent {
	return p.events
}

func (p *Property) MarkEventsAsCommitted() {
	p.events = []events.DomainEvent{}
}
