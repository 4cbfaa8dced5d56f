package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPostgres(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	p := NewPostgres(sqlx.NewDb(raw, "sqlmock"))
	p.Now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return p, mock
}

func TestPostgres_Read(t *testing.T) {
	p, mock := newMockPostgres(t)
	mock.ExpectQuery(`SELECT body FROM documents WHERE doc_type = \$1`).
		WithArgs("player").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow([]byte(`{"personalInfo":{}}`)))

	got, err := p.Read(context.Background(), DocPlayer)
	require.NoError(t, err)
	assert.JSONEq(t, `{"personalInfo":{}}`, string(got))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ReadMissing(t *testing.T) {
	p, mock := newMockPostgres(t)
	mock.ExpectQuery(`SELECT body FROM documents`).
		WithArgs("videos").
		WillReturnRows(sqlmock.NewRows([]string{"body"}))

	_, err := p.Read(context.Background(), DocVideos)
	assert.ErrorIs(t, err, ErrNotExist)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_WriteUpserts(t *testing.T) {
	p, mock := newMockPostgres(t)
	mock.ExpectExec(`INSERT INTO documents \(doc_type, body, version, updated_at\)`).
		WithArgs("blog", "{\n  \"posts\": []\n}", p.Now().UTC()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, p.Write(context.Background(), DocBlog, []byte(`{"posts":[]}`)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateCreatesMissingDocument(t *testing.T) {
	p, mock := newMockPostgres(t)
	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(hashtext\(\$1\)\)`).
		WithArgs("social").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT body FROM documents WHERE doc_type = \$1`).
		WithArgs("social").
		WillReturnRows(sqlmock.NewRows([]string{"body"}))
	mock.ExpectExec(`INSERT INTO documents`).
		WithArgs("social", "{\n  \"posts\": []\n}", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var seen []byte
	err := p.Update(context.Background(), DocSocial, func(current []byte) ([]byte, error) {
		seen = current
		return []byte(`{"posts":[]}`), nil
	})
	require.NoError(t, err)
	assert.Nil(t, seen)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateAbortRollsBack(t *testing.T) {
	p, mock := newMockPostgres(t)
	mock.ExpectBegin()
	mock.ExpectExec(`pg_advisory_xact_lock`).WithArgs("photos").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT body FROM documents`).
		WithArgs("photos").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow([]byte(`{"photos":[]}`)))
	mock.ExpectRollback()

	boom := errors.New("validation failed")
	err := p.Update(context.Background(), DocPhotos, func(current []byte) ([]byte, error) {
		assert.JSONEq(t, `{"photos":[]}`, string(current))
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Version(t *testing.T) {
	p, mock := newMockPostgres(t)
	mock.ExpectQuery(`SELECT version FROM documents`).
		WithArgs("schedule").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int64(7)))
	mock.ExpectQuery(`SELECT version FROM documents`).
		WithArgs("player").
		WillReturnRows(sqlmock.NewRows([]string{"version"}))

	v, err := p.Version(context.Background(), DocSchedule)
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)

	v, err = p.Version(context.Background(), DocPlayer)
	require.NoError(t, err)
	assert.Zero(t, v)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateManyUsesOneTransaction(t *testing.T) {
	p, mock := newMockPostgres(t)
	mock.ExpectBegin()
	mock.ExpectExec(`pg_advisory_xact_lock`).WithArgs("blog").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT body FROM documents`).
		WithArgs("blog").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow([]byte(`{"posts":[]}`)))
	mock.ExpectExec(`pg_advisory_xact_lock`).WithArgs("social").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT body FROM documents`).
		WithArgs("social").
		WillReturnRows(sqlmock.NewRows([]string{"body"}))
	mock.ExpectExec(`INSERT INTO documents`).
		WithArgs("social", "{\n  \"posts\": []\n}", p.Now().UTC()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO documents`).
		WithArgs("blog", "{\n  \"posts\": [\n    1\n  ]\n}", p.Now().UTC()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := p.UpdateMany(context.Background(), []DocType{DocSocial, DocBlog}, func(current map[DocType][]byte) (map[DocType][]byte, error) {
		assert.Nil(t, current[DocSocial])
		return map[DocType][]byte{
			DocSocial: []byte(`{"posts":[]}`),
			DocBlog:   []byte(`{"posts":[1]}`),
		}, nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateManyInvalidDocumentRollsBack(t *testing.T) {
	p, mock := newMockPostgres(t)
	mock.ExpectBegin()
	mock.ExpectExec(`pg_advisory_xact_lock`).WithArgs("blog").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT body FROM documents`).WithArgs("blog").WillReturnRows(sqlmock.NewRows([]string{"body"}))
	mock.ExpectExec(`pg_advisory_xact_lock`).WithArgs("social").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT body FROM documents`).WithArgs("social").WillReturnRows(sqlmock.NewRows([]string{"body"}))
	mock.ExpectExec(`INSERT INTO documents`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := p.UpdateMany(context.Background(), []DocType{DocSocial, DocBlog}, func(map[DocType][]byte) (map[DocType][]byte, error) {
		return map[DocType][]byte{
			DocSocial: []byte(`{"posts":[]}`),
			DocBlog:   []byte(`not json`),
		}, nil
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
