package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"nodetree/domain/core/entities"
	"nodetree/domain/core/valueobjects"
	"nodetree/infrastructure/persistence/abstractions"
	pkgerrors "nodetree/pkg/errors"
)

type nodeRepository struct {
	db DB
}

func scanNode(row pgx.Row) (*entities.Node, error) {
	var (
		id, name string
		parentID *string
	)
	if err := row.Scan(&id, &name, &parentID); err != nil {
		return nil, err
	}
	nodeID, err := valueobjects.ParseNodeID(id)
	if err != nil {
		return nil, err
	}
	var parent *valueobjects.NodeID
	if parentID != nil {
		p, err := valueobjects.ParseNodeID(*parentID)
		if err != nil {
			return nil, err
		}
		parent = &p
	}
	return entities.ReconstructNode(nodeID, parent, name)
}

func (r *nodeRepository) FindByID(ctx context.Context, id valueobjects.NodeID) (*entities.Node, error) {
	node, err := scanNode(r.db.QueryRow(ctx,
		`SELECT id::text, name, parent_id::text FROM nodes WHERE id = $1::uuid`, id.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("find node by id", err)
	}
	return node, nil
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

const findByPathQuery = `
WITH RECURSIVE` + pathWalk + `
SELECT n.id::text, n.name, n.parent_id::text
FROM path_walk w
INNER JOIN nodes n ON n.id = w.id
WHERE w.level = cardinality($1::text[])`

func (r *nodeRepository) FindByPath(ctx context.Context, path string) (*entities.Node, error) {
	segments := abstractions.SplitPath(path)
	if segments == nil {
		return nil, nil
	}
	node, err := scanNode(r.db.QueryRow(ctx, findByPathQuery, segments))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("find node by path", err)
	}
	return node, nil
}

func (r *nodeRepository) ExistsInParent(ctx context.Context, name string, parentID *valueobjects.NodeID) (bool, error) {
	var (
		exists bool
		err    error
	)
	if parentID == nil {
		err = r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM nodes WHERE name = $1 AND parent_id IS NULL)`, name).Scan(&exists)
	} else {
		err = r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM nodes WHERE name = $1 AND parent_id = $2::uuid)`, name, parentID.String()).Scan(&exists)
	}
	if err != nil {
		return false, pkgerrors.NewDatabaseError("check sibling name", err)
	}
	return exists, nil
}

func (r *nodeRepository) Save(ctx context.Context, node *entities.Node) error {
	var parent any
	if p := node.ParentID(); p != nil {
		parent = p.String()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO nodes (id, name, parent_id) VALUES ($1::uuid, $2, $3::uuid)`,
		node.ID().String(), node.Name(), parent)
	switch {
	case err == nil:
		return nil
	case isNameClash(err, constraintRootName, constraintSiblingName):
		return entities.ErrDuplicateNodeName(node.Name(), node.ParentID())
	case isMissingReference(err) && node.ParentID() != nil:
		return entities.ErrNodeNotFound(*node.ParentID())
	default:
		return pkgerrors.NewDatabaseError("insert node", err)
	}
}
