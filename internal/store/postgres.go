package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

const upsertDocument = `
INSERT INTO documents (doc_type, body, version, updated_at)
VALUES ($1, $2, 1, $3)
ON CONFLICT (doc_type) DO UPDATE
SET body = EXCLUDED.body,
    version = documents.version + 1,
    updated_at = EXCLUDED.updated_at
`

// Postgres stores documents as JSON rows in the documents table. Update holds a
// transaction-scoped advisory lock per document type, which also covers the
// first write of a document that has no row yet.
type Postgres struct {
	DB  *sqlx.DB
	Now func() time.Time
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{DB: db, Now: time.Now}
}

func (p *Postgres) Read(ctx context.Context, doc DocType) ([]byte, error) {
	if err := checkDoc(doc); err != nil {
		return nil, err
	}
	var body []byte
	err := p.DB.GetContext(ctx, &body, `SELECT body FROM documents WHERE doc_type = $1`, string(doc))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (p *Postgres) Write(ctx context.Context, doc DocType, data []byte) error {
	if err := checkDoc(doc); err != nil {
		return err
	}
	formatted, err := indent(data)
	if err != nil {
		return err
	}
	_, err = p.DB.ExecContext(ctx, upsertDocument, string(doc), string(formatted), p.Now().UTC())
	return err
}

func (p *Postgres) Update(ctx context.Context, doc DocType, fn UpdateFunc) error {
	return p.UpdateMany(ctx, []DocType{doc}, single(doc, fn))
}

// UpdateMany runs in one transaction on one pooled connection: every document's
// advisory lock is taken in AllDocs order, and all writes commit together.
func (p *Postgres) UpdateMany(ctx context.Context, docs []DocType, fn MultiUpdateFunc) error {
	ordered, err := lockOrder(docs)
	if err != nil {
		return err
	}
	tx, err := p.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	current := make(map[DocType][]byte, len(ordered))
	for _, doc := range ordered {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, string(doc)); err != nil {
			return err
		}
		var body []byte
		err := tx.GetContext(ctx, &body, `SELECT body FROM documents WHERE doc_type = $1`, string(doc))
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		current[doc] = body
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	now := p.Now().UTC()
	for _, doc := range writeOrder(docs, next) {
		formatted, err := indent(next[doc])
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, upsertDocument, string(doc), string(formatted), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Version returns the write counter of a document, 0 when it does not exist.
func (p *Postgres) Version(ctx context.Context, doc DocType) (int64, error) {
	var version int64
	err := p.DB.GetContext(ctx, &version, `SELECT version FROM documents WHERE doc_type = $1`, string(doc))
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return version, err
}
