package postgres

import (
	"context"

	"nodetree/domain/core/entities"
	"nodetree/domain/core/valueobjects"
	pkgerrors "nodetree/pkg/errors"
)

type propertyRepository struct {
	db DB
}

func (r *propertyRepository) ExistsInNode(ctx context.Context, name string, nodeID valueobjects.NodeID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM node_properties WHERE name = $1 AND node_id = $2::uuid)`,
		name, nodeID.String()).Scan(&exists)
	if err != nil {
		return false, pkgerrors.NewDatabaseError("check property name", err)
	}
	return exists, nil
}

func (r *propertyRepository) Save(ctx context.Context, property *entities.Property) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO node_properties (id, node_id, name, value) VALUES ($1::uuid, $2::uuid, $3, $4)`,
		property.ID().String(), property.NodeID().String(), property.Name(), property.Value().Float64())
	switch {
	case err == nil:
		return nil
	case isNameClash(err, constraintPropertyName):
		return entities.ErrDuplicatePropertyName(property.Name(), property.NodeID())
	case isMissingReference(err):
		return entities.ErrNodeNotFound(property.NodeID())
	default:
		return pkgerrors.NewDatabaseError("insert property", err)
	}
}

func (r *propertyRepository) ListByNodeID(ctx context.Context, nodeID valueobjects.NodeID) ([]*entities.Property, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id::text, name, value FROM node_properties WHERE node_id = $1::uuid ORDER BY name COLLATE "C"`,
		nodeID.String())
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list properties", err)
	}
	defer rows.Close()

	var out []*entities.Property
	for rows.Next() {
		var (
			id, name string
			value    float64
		)
		if err := rows.Scan(&id, &name, &value); err != nil {
			return nil, pkgerrors.NewDatabaseError("scan property", err)
		}
		propID, err := valueobjects.ParsePropertyID(id)
		if err != nil {
			return nil, err
		}
		prop, err := entities.ReconstructProperty(propID, nodeID, name, value)
		if err != nil {
			return nil, err
		}
		out = append(out, prop)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.NewDatabaseError("list properties", err)
	}
	return out, nil
}
