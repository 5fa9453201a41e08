package memory

import (
	"context"

	"nodetree/domain/core/entities"
	"nodetree/domain/core/valueobjects"
	"nodetree/infrastructure/persistence/abstractions"
)

type nodeRepository struct {
	store *Store
}

func (r *nodeRepository) FindByID(ctx context.Context, id valueobjects.NodeID) (*entities.Node, error) {
	rec, err := r.store.GetNode(ctx, id.String())
	if err != nil || rec == nil {
		return nil, err
	}
	return toNode(*rec)
}

func (r *nodeRepository) GetByID(ctx context.Context, id valueobjects.NodeID) (*entities.Node, error) {
	node, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, entities.ErrNodeNotFound(id)
	}
	return node, nil
}

func (r *nodeRepository) FindByPath(ctx context.Context, path string) (*entities.Node, error) {
	rec, err := abstractions.ResolvePath(ctx, r.store, path)
	if err != nil || rec == nil {
		return nil, err
	}
	return toNode(*rec)
}

func (r *nodeRepository) ExistsInParent(ctx context.Context, name string, parentID *valueobjects.NodeID) (bool, error) {
	var parent *string
	if parentID != nil {
		p := parentID.String()
		parent = &p
	}
	rec, err := r.store.ChildByName(ctx, parent, name)
	return rec != nil, err
}

func (r *nodeRepository) Save(_ context.Context, node *entities.Node) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := abstractions.NodeRecord{ID: node.ID().String(), Name: node.Name()}
	if parentID := node.ParentID(); parentID != nil {
		if _, ok := s.nodes[parentID.String()]; !ok {
			return entities.ErrNodeNotFound(*parentID)
		}
		p := parentID.String()
		rec.ParentID = &p
	}

	key := siblingKey{parent: parentKey(rec.ParentID), name: rec.Name}
	if _, taken := s.siblings[key]; taken {
		return entities.ErrDuplicateNodeName(rec.Name, node.ParentID())
	}

	s.nodes[rec.ID] = rec
	s.siblings[key] = rec.ID
	if rec.ParentID != nil {
		s.children[*rec.ParentID] = append(s.children[*rec.ParentID], rec.ID)
	}
	return nil
}
