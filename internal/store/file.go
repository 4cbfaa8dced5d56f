package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// File keeps each document as an indented JSON file under Dir. Writes go to
// <path>.tmp and are renamed over the original, so readers only ever see a
// complete document. Writers of the same document are serialised in process.
type File struct {
	Dir   string
	locks map[DocType]*sync.Mutex
}

func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	locks := make(map[DocType]*sync.Mutex, len(AllDocs))
	for _, doc := range AllDocs {
		locks[doc] = &sync.Mutex{}
	}
	return &File{Dir: dir, locks: locks}, nil
}

func (f *File) Path(doc DocType) string {
	return filepath.Join(f.Dir, doc.FileName())
}

func (f *File) Read(ctx context.Context, doc DocType) ([]byte, error) {
	if err := checkDoc(doc); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path(doc))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotExist
	}
	return data, err
}

func (f *File) Write(ctx context.Context, doc DocType, data []byte) error {
	if err := checkDoc(doc); err != nil {
		return err
	}
	lock := f.locks[doc]
	lock.Lock()
	defer lock.Unlock()
	return f.writeLocked(doc, data)
}

func (f *File) Update(ctx context.Context, doc DocType, fn UpdateFunc) error {
	return f.UpdateMany(ctx, []DocType{doc}, single(doc, fn))
}

// UpdateMany validates every returned document before the first one is written.
// Each file is still replaced atomically on its own; a failure part way leaves the
// documents written so far in place.
func (f *File) UpdateMany(ctx context.Context, docs []DocType, fn MultiUpdateFunc) error {
	ordered, err := lockOrder(docs)
	if err != nil {
		return err
	}
	for _, doc := range ordered {
		lock := f.locks[doc]
		lock.Lock()
		defer lock.Unlock()
	}

	current := make(map[DocType][]byte, len(ordered))
	for _, doc := range ordered {
		data, err := os.ReadFile(f.Path(doc))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		current[doc] = data
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}

	order := writeOrder(docs, next)
	formatted := make(map[DocType][]byte, len(order))
	for _, doc := range order {
		data, err := indent(next[doc])
		if err != nil {
			return err
		}
		formatted[doc] = data
	}
	for _, doc := range order {
		if err := f.replace(doc, formatted[doc]); err != nil {
			return err
		}
	}
	return nil
}

func (f *File) writeLocked(doc DocType, data []byte) error {
	formatted, err := indent(data)
	if err != nil {
		return err
	}
	return f.replace(doc, formatted)
}

func (f *File) replace(doc DocType, formatted []byte) error {
	path := f.Path(doc)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, formatted, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// indent normalises a document to two-space indented JSON. Invalid JSON is rejected
// before anything touches the disk.
func indent(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
