package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"sync"
	"time"

	"recruitsite-backend-go/internal/config"
	"recruitsite-backend-go/internal/store"
)

// Content is the typed view over the document store. Reads always return a usable
// value, falling back to the document's default when it is missing or unreadable.
// Writes validate first and never replace a document that could not be parsed.
type Content struct {
	Store    store.Store
	Site     config.Site
	Location *time.Location
	Now      func() time.Time
	Poster   Poster

	stampMu sync.Mutex
	last    int64
}

func NewContent(s store.Store, site config.Site, loc *time.Location) *Content {
	if loc == nil {
		loc = time.UTC
	}
	return &Content{
		Store:    s,
		Site:     site,
		Location: loc,
		Now:      time.Now,
		Poster:   LogPoster{},
	}
}

func (c *Content) now() time.Time {
	return c.Now().In(c.Location)
}

// Today is the site-local calendar date as YYYY-MM-DD.
func (c *Content) Today() string {
	return c.now().Format("2006-01-02")
}

func (c *Content) timestamp() string {
	return c.now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// NextStamp returns a millisecond timestamp that is strictly increasing within
// this process, so two ids generated in the same millisecond still differ.
func (c *Content) NextStamp() int64 {
	c.stampMu.Lock()
	defer c.stampMu.Unlock()
	ms := c.Now().UnixMilli()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return ms
}

func (c *Content) nextID() string {
	return strconv.FormatInt(c.NextStamp(), 10)
}

func readDoc[T any](ctx context.Context, c *Content, doc store.DocType, fallback func() T) (T, bool) {
	raw, err := c.Store.Read(ctx, doc)
	if errors.Is(err, store.ErrNotExist) {
		return fallback(), false
	}
	if err != nil {
		log.Printf("warn: read %s: %v; serving defaults", doc, err)
		return fallback(), false
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		log.Printf("warn: parse %s: %v; serving defaults", doc, err)
		return fallback(), false
	}
	return value, true
}

// updateDoc runs fn against the current document under the store's per-document
// serialisation and persists the result.
func updateDoc[T any](ctx context.Context, c *Content, doc store.DocType, fallback func() T, fn func(*T) error) (T, error) {
	var out T
	err := c.Store.Update(ctx, doc, func(current []byte) ([]byte, error) {
		value, err := decodeDoc(doc, current, fallback)
		if err != nil {
			return nil, err
		}
		if err := fn(&value); err != nil {
			return nil, err
		}
		out = value
		return json.Marshal(value)
	})
	if err != nil {
		return out, storeError(doc, err)
	}
	return out, nil
}

// decodeDoc parses a stored document for a read-modify-write; nil means absent.
func decodeDoc[T any](doc store.DocType, current []byte, fallback func() T) (T, error) {
	if current == nil {
		return fallback(), nil
	}
	var value T
	if err := json.Unmarshal(current, &value); err != nil {
		return value, ErrIO("Stored "+string(doc)+" document is corrupt", err)
	}
	return value, nil
}

func writeDoc[T any](ctx context.Context, c *Content, doc store.DocType, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return ErrIO("Failed to encode "+string(doc), err)
	}
	if err := c.Store.Write(ctx, doc, raw); err != nil {
		return storeError(doc, err)
	}
	return nil
}

func storeError(doc store.DocType, err error) error {
	if _, ok := AsServiceError(err); ok {
		return err
	}
	return ErrIO("Failed to save "+string(doc)+" data", err)
}

// ensureDoc persists the default document when none exists yet and returns the stored value.
func ensureDoc[T any](ctx context.Context, c *Content, doc store.DocType, fallback func() T) (T, error) {
	value, found := readDoc(ctx, c, doc, fallback)
	if found {
		return value, nil
	}
	if _, err := c.Store.Read(ctx, doc); !errors.Is(err, store.ErrNotExist) {
		// Present but unreadable: serve defaults without overwriting it.
		return value, nil
	}
	return updateDoc(ctx, c, doc, fallback, func(*T) error { return nil })
}
