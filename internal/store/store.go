// Package store persists the site's content documents, one JSON document per type.
package store

import (
	"context"
	"errors"
	"fmt"
)

type DocType string

const (
	DocPlayer   DocType = "player"
	DocBlog     DocType = "blog"
	DocSchedule DocType = "schedule"
	DocPhotos   DocType = "photos"
	DocSocial   DocType = "social"
	DocVideos   DocType = "videos"
)

// AllDocs lists every document type in a stable order.
var AllDocs = []DocType{DocPlayer, DocBlog, DocSchedule, DocPhotos, DocSocial, DocVideos}

var fileNames = map[DocType]string{
	DocPlayer:   "player-profile.json",
	DocBlog:     "blog-posts.json",
	DocSchedule: "schedule.json",
	DocPhotos:   "photos-config.json",
	DocSocial:   "social-media-config.json",
	DocVideos:   "videos.json",
}

// FileName returns the on-disk name of a document.
func (d DocType) FileName() string {
	return fileNames[d]
}

func (d DocType) Valid() bool {
	_, ok := fileNames[d]
	return ok
}

// ErrNotExist is returned by Read when a document has never been written.
var ErrNotExist = errors.New("document does not exist")

// UpdateFunc receives the current document (nil when absent) and returns its replacement.
// Returning an error aborts the update and leaves the document untouched.
type UpdateFunc func(current []byte) ([]byte, error)

// MultiUpdateFunc receives the current documents (nil values for absent ones) and
// returns the documents to persist. Documents left out of the result are not written.
type MultiUpdateFunc func(current map[DocType][]byte) (map[DocType][]byte, error)

type Store interface {
	Read(ctx context.Context, doc DocType) ([]byte, error)
	Write(ctx context.Context, doc DocType, data []byte) error
	Update(ctx context.Context, doc DocType, fn UpdateFunc) error
	// UpdateMany holds every listed document under one lock scope while fn runs.
	// Locks are taken in AllDocs order; results are written in the order docs lists them.
	UpdateMany(ctx context.Context, docs []DocType, fn MultiUpdateFunc) error
}

func checkDoc(doc DocType) error {
	if !doc.Valid() {
		return fmt.Errorf("unknown document type %q", doc)
	}
	return nil
}

// lockOrder validates docs and returns them deduplicated in AllDocs order, so two
// multi-document updates never wait on each other's locks in opposite order.
func lockOrder(docs []DocType) ([]DocType, error) {
	wanted := make(map[DocType]bool, len(docs))
	for _, doc := range docs {
		if err := checkDoc(doc); err != nil {
			return nil, err
		}
		wanted[doc] = true
	}
	ordered := make([]DocType, 0, len(wanted))
	for _, doc := range AllDocs {
		if wanted[doc] {
			ordered = append(ordered, doc)
		}
	}
	return ordered, nil
}

// writeOrder returns the documents of next in the caller's order, skipping repeats.
func writeOrder(docs []DocType, next map[DocType][]byte) []DocType {
	seen := make(map[DocType]bool, len(docs))
	out := make([]DocType, 0, len(next))
	for _, doc := range docs {
		if seen[doc] {
			continue
		}
		seen[doc] = true
		if _, ok := next[doc]; ok {
			out = append(out, doc)
		}
	}
	return out
}

// single adapts an UpdateFunc to a one-document MultiUpdateFunc.
func single(doc DocType, fn UpdateFunc) MultiUpdateFunc {
	return func(current map[DocType][]byte) (map[DocType][]byte, error) {
		next, err := fn(current[doc])
		if err != nil {
			return nil, err
		}
		return map[DocType][]byte{doc: next}, nil
	}
}
