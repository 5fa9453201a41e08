// Package postgres is the TreeStore backed by PostgreSQL. Subtrees are read
// with a single recursive query that resolves the root by id or by walking the
// path segments.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"nodetree/application/ports"
	"nodetree/application/queries/subtree"
	"nodetree/infrastructure/persistence/abstractions"
	pkgerrors "nodetree/pkg/errors"
)

// DB is the subset of *pgxpool.Pool the store uses
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Store implements ports.TreeStore
type Store struct {
	db DB
}

var (
	_ ports.TreeStore     = (*Store)(nil)
	_ ports.HealthChecker = (*Store)(nil)
)

// NewStore creates a store on top of a connection pool
func NewStore(db DB) *Store {
	return &Store{db: db}
}

func (s *Store) Nodes() ports.NodeRepository {
	return &nodeRepository{db: s.db}
}

func (s *Store) Properties() ports.PropertyRepository {
	return &propertyRepository{db: s.db}
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return pkgerrors.NewDatabaseError("ping", err)
	}
	return nil
}

// pathWalk resolves $1::text[] one name per level from the roots down, the
// way the key-value stores do. A name containing a slash never matches more
// than its own segment.
const pathWalk = `
path_walk (id, level) AS (
    SELECT id, 1
    FROM nodes
    WHERE parent_id IS NULL AND name = ($1::text[])[1]
    UNION ALL
    SELECT n.id, w.level + 1
    FROM path_walk w
    INNER JOIN nodes n ON n.parent_id = w.id AND n.name = ($1::text[])[w.level + 1]
    WHERE w.level < cardinality($1::text[])
)`

// Names are compared byte-wise so every store orders siblings identically.
const subtreeQuery = `
WITH RECURSIVE` + pathWalk + `,
anchor (id) AS (
    SELECT id FROM nodes WHERE $2::uuid IS NOT NULL AND id = $2::uuid
    UNION ALL
    SELECT id FROM path_walk WHERE level = cardinality($1::text[])
),
subtree (id, name, parent_id, depth) AS (
    SELECT n.id, n.name, n.parent_id, 0
    FROM nodes n
    INNER JOIN anchor a ON a.id = n.id
    UNION ALL
    SELECT n.id, n.name, n.parent_id, s.depth + 1
    FROM nodes n
    INNER JOIN subtree s ON n.parent_id = s.id
)
SELECT s.id::text, s.name, s.parent_id::text, s.depth,
       p.id::text, p.name, p.value
FROM subtree s
LEFT JOIN node_properties p ON p.node_id = s.id
ORDER BY s.depth, s.name COLLATE "C", p.name COLLATE "C"`

// FetchSubtreeRows runs the recursive subtree query
func (s *Store) FetchSubtreeRows(ctx context.Context, selector subtree.Selector) ([]subtree.Row, error) {
	var segments []string
	var byID any
	if selector.IsByID() {
		byID = selector.NodeID.String()
	} else {
		segments = abstractions.SplitPath(selector.Path)
		if segments == nil {
			return nil, nil
		}
	}

	rows, err := s.db.Query(ctx, subtreeQuery, segments, byID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("fetch subtree", err)
	}
	defer rows.Close()

	var out []subtree.Row
	for rows.Next() {
		var r subtree.Row
		if err := rows.Scan(
			&r.NodeID, &r.Name, &r.ParentID, &r.Depth,
			&r.PropertyID, &r.PropertyName, &r.PropertyValue,
		); err != nil {
			return nil, pkgerrors.NewDatabaseError("scan subtree row", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.NewDatabaseError("fetch subtree", err)
	}
	return out, nil
}
