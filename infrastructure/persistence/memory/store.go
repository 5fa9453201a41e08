// Package memory is an in-process TreeStore. It enforces the same uniqueness
// constraints as the database-backed stores and is the default for local runs
// and tests.
package memory

import (
	"context"
	"sync"

	"nodetree/application/ports"
	"nodetree/application/queries/subtree"
	"nodetree/domain/core/entities"
	"nodetree/domain/core/valueobjects"
	"nodetree/infrastructure/persistence/abstractions"
)

type siblingKey struct {
	parent string
	name   string
}

type propertyKey struct {
	node string
	name string
}

// Store keeps nodes and properties in maps guarded by a single RWMutex.
type Store struct {
	mu        sync.RWMutex
	nodes     map[string]abstractions.NodeRecord
	children  map[string][]string
	siblings  map[siblingKey]string
	props     map[string][]abstractions.PropertyRecord
	propNames map[propertyKey]struct{}
}

var (
	_ ports.TreeStore         = (*Store)(nil)
	_ ports.HealthChecker     = (*Store)(nil)
	_ abstractions.TreeSource = (*Store)(nil)
)

// New creates an empty store
func New() *Store {
	return &Store{
		nodes:     make(map[string]abstractions.NodeRecord),
		children:  make(map[string][]string),
		siblings:  make(map[siblingKey]string),
		props:     make(map[string][]abstractions.PropertyRecord),
		propNames: make(map[propertyKey]struct{}),
	}
}

func (s *Store) Nodes() ports.NodeRepository {
	return &nodeRepository{store: s}
}

func (s *Store) Properties() ports.PropertyRepository {
	return &propertyRepository{store: s}
}

// Ping always succeeds
func (s *Store) Ping(context.Context) error {
	return nil
}

// FetchSubtreeRows resolves the selector and walks the tree breadth first
func (s *Store) FetchSubtreeRows(ctx context.Context, selector subtree.Selector) ([]subtree.Row, error) {
	root, err := abstractions.ResolveSelector(ctx, s, selector)
	if err != nil || root == nil {
		return nil, err
	}
	return abstractions.CollectRows(ctx, s, *root)
}

func (s *Store) GetNode(_ context.Context, id string) (*abstractions.NodeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.nodes[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *Store) ChildByName(_ context.Context, parentID *string, name string) (*abstractions.NodeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.siblings[siblingKey{parent: parentKey(parentID), name: name}]
	if !ok {
		return nil, nil
	}
	rec := s.nodes[id]
	return &rec, nil
}

func (s *Store) Children(_ context.Context, parentID string) ([]abstractions.NodeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.children[parentID]
	out := make([]abstractions.NodeRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.nodes[id])
	}
	return out, nil
}

func (s *Store) PropertiesOf(_ context.Context, nodeID string) ([]abstractions.PropertyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	props := s.props[nodeID]
	out := make([]abstractions.PropertyRecord, len(props))
	copy(out, props)
	return out, nil
}

func parentKey(parentID *string) string {
	if parentID == nil {
		return ""
	}
	return *parentID
}

func toNode(rec abstractions.NodeRecord) (*entities.Node, error) {
	id, err := valueobjects.ParseNodeID(rec.ID)
	if err != nil {
		return nil, err
	}
	var parent *valueobjects.NodeID
	if rec.ParentID != nil {
		p, err := valueobjects.ParseNodeID(*rec.ParentID)
		if err != nil {
			return nil, err
		}
		parent = &p
	}
	return entities.ReconstructNode(id, parent, rec.Name)
}
