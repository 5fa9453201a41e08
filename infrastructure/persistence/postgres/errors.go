package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"

	constraintRootName     = "nodes_root_name_key"
	constraintSiblingName  = "nodes_sibling_name_key"
	constraintPropertyName = "node_properties_node_name_key"
)

// constraintViolation returns the SQLSTATE and constraint name of a
// PostgreSQL error, or empty strings for any other error.
func constraintViolation(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr != nil {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

func isNameClash(err error, constraints ...string) bool {
	code, name := constraintViolation(err)
	if code != uniqueViolation {
		return false
	}
	for _, c := range constraints {
		if c == name {
			return true
		}
	}
	return false
}

func isMissingReference(err error) bool {
	code, _ := constraintViolation(err)
	return code == foreignKeyViolation
}
