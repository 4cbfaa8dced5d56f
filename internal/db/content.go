package db

import (
	"context"
	"fmt"

	"recruitsite-backend-go/internal/migrations"
	"recruitsite-backend-go/internal/store"
)

const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// OpenStore opens the content store of the given kind. Postgres stores are migrated
// before use. The returned close func is never nil.
func OpenStore(ctx context.Context, kind, dataDir, dsn string) (store.Store, func(), error) {
	switch kind {
	case "", StoreFile:
		fileStore, err := store.NewFile(dataDir)
		if err != nil {
			return nil, func() {}, err
		}
		return fileStore, func() {}, nil
	case StorePostgres:
		database, err := Open(ctx, dsn)
		if err != nil {
			return nil, func() {}, err
		}
		if err := migrations.Apply(ctx, database); err != nil {
			_ = database.Close()
			return nil, func() {}, fmt.Errorf("migrations: %w", err)
		}
		return store.NewPostgres(database), func() { _ = database.Close() }, nil
	}
	return nil, func() {}, fmt.Errorf("unknown content store %q", kind)
}
