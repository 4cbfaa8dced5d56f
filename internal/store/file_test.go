package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T) *File {
	t.Helper()
	fs, err := NewFile(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	return fs
}

func TestFile_ReadMissing(t *testing.T) {
	fs := newFileStore(t)
	_, err := fs.Read(context.Background(), DocPlayer)
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestFile_WriteIndentsAndRemovesTemp(t *testing.T) {
	fs := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, fs.Write(ctx, DocSchedule, []byte(`{"events":[]}`)))

	got, err := fs.Read(ctx, DocSchedule)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"events\": []\n}", string(got))
	_, err = os.Stat(fs.Path(DocSchedule) + ".tmp")
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, "schedule.json", filepath.Base(fs.Path(DocSchedule)))
}

func TestFile_WriteRejectsInvalidJSON(t *testing.T) {
	fs := newFileStore(t)
	ctx := context.Background()
	require.NoError(t, fs.Write(ctx, DocVideos, []byte(`{"videos":[]}`)))

	require.Error(t, fs.Write(ctx, DocVideos, []byte(`{"videos":[`)))

	got, err := fs.Read(ctx, DocVideos)
	require.NoError(t, err)
	assert.JSONEq(t, `{"videos":[]}`, string(got))
}

func TestFile_UnknownDocument(t *testing.T) {
	fs := newFileStore(t)
	require.Error(t, fs.Write(context.Background(), DocType("secrets"), []byte(`{}`)))
}

func TestFile_SequentialWritesLastWins(t *testing.T) {
	fs := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, fs.Write(ctx, DocBlog, []byte(`{"posts":[{"id":"a"}]}`)))
	require.NoError(t, fs.Write(ctx, DocBlog, []byte(`{"posts":[{"id":"b"}]}`)))

	got, err := fs.Read(ctx, DocBlog)
	require.NoError(t, err)
	assert.JSONEq(t, `{"posts":[{"id":"b"}]}`, string(got))
}

// A writer killed between the temp write and the rename leaves a stray .tmp file
// but never a torn document.
func TestFile_InterruptedWriteLeavesPreviousDocument(t *testing.T) {
	fs := newFileStore(t)
	ctx := context.Background()
	require.NoError(t, fs.Write(ctx, DocPlayer, []byte(`{"personalInfo":{"name":"A"}}`)))

	require.NoError(t, os.WriteFile(fs.Path(DocPlayer)+".tmp", []byte(`{"personalInfo":{"na`), 0o644))

	got, err := fs.Read(ctx, DocPlayer)
	require.NoError(t, err)
	assert.True(t, json.Valid(got))
	assert.JSONEq(t, `{"personalInfo":{"name":"A"}}`, string(got))

	require.NoError(t, fs.Write(ctx, DocPlayer, []byte(`{"personalInfo":{"name":"B"}}`)))
	got, err = fs.Read(ctx, DocPlayer)
	require.NoError(t, err)
	assert.JSONEq(t, `{"personalInfo":{"name":"B"}}`, string(got))
}

func TestFile_UpdateSeesNilWhenMissing(t *testing.T) {
	fs := newFileStore(t)
	var seen []byte
	called := false
	err := fs.Update(context.Background(), DocSocial, func(current []byte) ([]byte, error) {
		called = true
		seen = current
		return []byte(`{"posts":[]}`), nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Nil(t, seen)
}

func TestFile_UpdateErrorLeavesDocument(t *testing.T) {
	fs := newFileStore(t)
	ctx := context.Background()
	require.NoError(t, fs.Write(ctx, DocPhotos, []byte(`{"photos":[]}`)))

	boom := errors.New("boom")
	err := fs.Update(ctx, DocPhotos, func([]byte) ([]byte, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	got, err := fs.Read(ctx, DocPhotos)
	require.NoError(t, err)
	assert.JSONEq(t, `{"photos":[]}`, string(got))
}

func TestFile_ConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	fs := newFileStore(t)
	ctx := context.Background()
	require.NoError(t, fs.Write(ctx, DocBlog, []byte(`{"count":0}`)))

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := fs.Update(ctx, DocBlog, func(current []byte) ([]byte, error) {
				var doc struct {
					Count int `json:"count"`
				}
				if err := json.Unmarshal(current, &doc); err != nil {
					return nil, err
				}
				doc.Count++
				return json.Marshal(doc)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := fs.Read(ctx, DocBlog)
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":25}`, string(got))
}

func TestNotifying_CallsAfterSuccessfulWritesOnly(t *testing.T) {
	var notified []DocType
	s := WithNotify(newFileStore(t), func(doc DocType) { notified = append(notified, doc) })
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, DocVideos, []byte(`{"videos":[]}`)))
	require.Error(t, s.Write(ctx, DocVideos, []byte(`not json`)))
	require.NoError(t, s.Update(ctx, DocSchedule, func([]byte) ([]byte, error) { return []byte(`{"events":[]}`), nil }))

	assert.Equal(t, []DocType{DocVideos, DocSchedule}, notified)
}

func TestFile_UpdateManyWritesEveryReturnedDocument(t *testing.T) {
	fs := newFileStore(t)
	ctx := context.Background()
	require.NoError(t, fs.Write(ctx, DocBlog, []byte(`{"posts":[]}`)))

	err := fs.UpdateMany(ctx, []DocType{DocSocial, DocBlog}, func(current map[DocType][]byte) (map[DocType][]byte, error) {
		assert.Nil(t, current[DocSocial])
		assert.JSONEq(t, `{"posts":[]}`, string(current[DocBlog]))
		return map[DocType][]byte{
			DocSocial: []byte(`{"posts":[{"id":"a"}]}`),
			DocBlog:   []byte(`{"posts":[{"id":"1"}]}`),
		}, nil
	})
	require.NoError(t, err)

	social, err := fs.Read(ctx, DocSocial)
	require.NoError(t, err)
	assert.JSONEq(t, `{"posts":[{"id":"a"}]}`, string(social))
	blog, err := fs.Read(ctx, DocBlog)
	require.NoError(t, err)
	assert.JSONEq(t, `{"posts":[{"id":"1"}]}`, string(blog))
}

func TestFile_UpdateManyRejectsInvalidDocumentBeforeWriting(t *testing.T) {
	fs := newFileStore(t)
	ctx := context.Background()

	err := fs.UpdateMany(ctx, []DocType{DocSocial, DocBlog}, func(map[DocType][]byte) (map[DocType][]byte, error) {
		return map[DocType][]byte{
			DocSocial: []byte(`{"posts":[]}`),
			DocBlog:   []byte(`not json`),
		}, nil
	})
	require.Error(t, err)
	_, err = fs.Read(ctx, DocSocial)
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestFile_UpdateManyDoesNotDeadlockWithOppositeOrder(t *testing.T) {
	fs := newFileStore(t)
	ctx := context.Background()
	bump := func(current map[DocType][]byte) (map[DocType][]byte, error) {
		next := map[DocType][]byte{}
		for doc, raw := range current {
			var body struct {
				Count int `json:"count"`
			}
			if raw != nil {
				if err := json.Unmarshal(raw, &body); err != nil {
					return nil, err
				}
			}
			body.Count++
			encoded, err := json.Marshal(body)
			if err != nil {
				return nil, err
			}
			next[doc] = encoded
		}
		return next, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		docs := []DocType{DocBlog, DocSocial}
		if i%2 == 1 {
			docs = []DocType{DocSocial, DocBlog}
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, fs.UpdateMany(ctx, docs, bump))
		}()
	}
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("multi-document updates deadlocked")
	}

	for _, doc := range []DocType{DocBlog, DocSocial} {
		raw, err := fs.Read(ctx, doc)
		require.NoError(t, err)
		assert.JSONEq(t, `{"count":20}`, string(raw))
	}
}

func TestNotifying_UpdateManyNotifiesWrittenDocuments(t *testing.T) {
	var notified []DocType
	s := WithNotify(newFileStore(t), func(doc DocType) { notified = append(notified, doc) })

	err := s.UpdateMany(context.Background(), []DocType{DocSocial, DocBlog}, func(map[DocType][]byte) (map[DocType][]byte, error) {
		return map[DocType][]byte{DocBlog: []byte(`{"posts":[]}`)}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []DocType{DocBlog}, notified)
}
