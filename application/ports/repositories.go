package ports

import (
	"context"

	"nodetree/application/queries/subtree"
	"nodetree/domain/core/entities"
	"nodetree/domain/core/valueobjects"
	"nodetree/domain/events"
)

// NodeRepository defines the interface for node persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type NodeRepository interface {
	// FindByID returns the node or nil when it does not exist
	FindByID(ctx context.Context, id valueobjects.NodeID) (*entities.Node, error)

	// GetByID is FindByID that fails with a not-found error naming the id
	GetByID(ctx context.Context, id valueobjects.NodeID) (*entities.Node, error)

	// FindByPath resolves a slash-delimited name chain such as "/A/B/C".
	// "" and "/" resolve to nil.
	FindByPath(ctx context.Context, path string) (*entities.Node, error)

	// ExistsInParent reports whether a node named name already exists under
	// parentID, or among roots when parentID is nil
	ExistsInParent(ctx context.Context, name string, parentID *valueobjects.NodeID) (bool, error)

	// Save inserts a node. A sibling-name clash detected by the store is
	// reported as a business-rule error.
	Save(ctx context.Context, node *entities.Node) error
}

// PropertyRepository defines the interface for property persistence
type PropertyRepository interface {
	// ExistsInNode reports whether nodeID already has a property named name
	ExistsInNode(ctx context.Context, name string, nodeID valueobjects.NodeID) (bool, error)

	// Save inserts a property. A name clash on the node detected by the store
	// is reported as a business-rule error.
	Save(ctx context.Context, property *entities.Property) error

	// ListByNodeID returns the properties of a node ordered by name
	ListByNodeID(ctx context.Context, nodeID valueobjects.NodeID) ([]*entities.Property, error)
}

// SubtreeReader fetches the flattened rows of a node and all its descendants
type SubtreeReader interface {
	// FetchSubtreeRows returns rows ordered by depth, node name and property
	// name. An unknown root yields no rows and no error.
	FetchSubtreeRows(ctx context.Context, selector subtree.Selector) ([]subtree.Row, error)
}

// TreeStore is implemented by every storage adapter
type TreeStore interface {
	SubtreeReader

	// Nodes returns the node repository backed by this store
	Nodes() NodeRepository

	// Properties returns the property repository backed by this store
	Properties() PropertyRepository
}

// HealthChecker is implemented by stores that can verify connectivity
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
