package memory

import (
	"context"
	"sort"

	"nodetree/domain/core/entities"
	"nodetree/domain/core/valueobjects"
	"nodetree/infrastructure/persistence/abstractions"
)

type propertyRepository struct {
	store *Store
}

func (r *propertyRepository) ExistsInNode(_ context.Context, name string, nodeID valueobjects.NodeID) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.propNames[propertyKey{node: nodeID.String(), name: name}]
	return ok, nil
}

func (r *propertyRepository) Save(_ context.Context, property *entities.Property) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	nodeID := property.NodeID().String()
	if _, ok := s.nodes[nodeID]; !ok {
		return entities.ErrNodeNotFound(property.NodeID())
	}
	key := propertyKey{node: nodeID, name: property.Name()}
	if _, taken := s.propNames[key]; taken {
		return entities.ErrDuplicatePropertyName(property.Name(), property.NodeID())
	}

	s.propNames[key] = struct{}{}
	s.props[nodeID] = append(s.props[nodeID], abstractions.PropertyRecord{
		ID:     property.ID().String(),
		NodeID: nodeID,
		Name:   property.Name(),
		Value:  property.Value().Float64(),
	})
	return nil
}

func (r *propertyRepository) ListByNodeID(ctx context.Context, nodeID valueobjects.NodeID) ([]*entities.Property, error) {
	recs, err := r.store.PropertiesOf(ctx, nodeID.String())
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Name < recs[j].Name })

	out := make([]*entities.Property, 0, len(recs))
	for _, rec := range recs {
		id, err := valueobjects.ParsePropertyID(rec.ID)
		if err != nil {
			return nil, err
		}
		prop, err := entities.ReconstructProperty(id, nodeID, rec.Name, rec.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, prop)
	}
	return out, nil
}
