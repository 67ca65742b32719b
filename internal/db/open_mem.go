//go:build mem

package db

import "context"

// openSQLite fallback: use in-memory store when sqlite build tag is not enabled.
func openSQLite(ctx context.Context, dsn string) (Store, error) {
	return NewMemStore(), nil
}
