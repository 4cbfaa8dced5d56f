package services

import (
	"context"
	"sort"
	"strings"

	"recruitsite-backend-go/internal/models"
	"recruitsite-backend-go/internal/store"
)

var photoSlots = []string{models.SlotHero, models.SlotProfile, models.SlotFeatured}

func (c *Content) defaultPhotos() models.PhotosConfig {
	cfg := models.PhotosConfig{Photos: []models.Photo{}, ActivePhotos: map[string]string{}}
	uploaded := c.timestamp()
	for _, p := range c.Site.Photos {
		cfg.Photos = append(cfg.Photos, models.Photo{
			ID:           p.ID,
			Filename:     p.Filename,
			OriginalName: p.OriginalName,
			URL:          p.URL,
			Alt:          p.Alt,
			Category:     p.Category,
			UploadDate:   uploaded,
		})
	}
	for slot, id := range c.Site.ActivePhoto {
		cfg.ActivePhotos[slot] = id
	}
	markActive(&cfg)
	return cfg
}

func markActive(cfg *models.PhotosConfig) {
	live := map[string]bool{}
	for _, id := range cfg.ActivePhotos {
		live[id] = true
	}
	for i := range cfg.Photos {
		cfg.Photos[i].IsActive = live[cfg.Photos[i].ID]
	}
}

func normalizePhotos(cfg models.PhotosConfig) models.PhotosConfig {
	if cfg.Photos == nil {
		cfg.Photos = []models.Photo{}
	}
	if cfg.ActivePhotos == nil {
		cfg.ActivePhotos = map[string]string{}
	}
	return cfg
}

// Photos is the public read: the default scaffold is served but not persisted.
func (c *Content) Photos(ctx context.Context) models.PhotosConfig {
	cfg, _ := readDoc(ctx, c, store.DocPhotos, c.defaultPhotos)
	return normalizePhotos(cfg)
}

// EnsurePhotos is the admin read: it persists the default scaffold on first use.
func (c *Content) EnsurePhotos(ctx context.Context) (models.PhotosConfig, error) {
	cfg, err := ensureDoc(ctx, c, store.DocPhotos, c.defaultPhotos)
	return normalizePhotos(cfg), err
}

// NewPhoto describes an uploaded image before it is recorded.
type NewPhoto struct {
	Filename     string
	OriginalName string
	URL          string
	Alt          string
	Category     string
}

func (c *Content) AddPhoto(ctx context.Context, in NewPhoto) (models.Photo, error) {
	alt := strings.TrimSpace(in.Alt)
	if alt == "" {
		alt = in.OriginalName
	}
	photo := models.Photo{
		ID:           c.nextID(),
		Filename:     in.Filename,
		OriginalName: in.OriginalName,
		URL:          in.URL,
		Alt:          alt,
		Category:     in.Category,
		UploadDate:   c.timestamp(),
	}
	_, err := updateDoc(ctx, c, store.DocPhotos, c.defaultPhotos, func(cfg *models.PhotosConfig) error {
		*cfg = normalizePhotos(*cfg)
		cfg.Photos = append(cfg.Photos, photo)
		return nil
	})
	if err != nil {
		return models.Photo{}, err
	}
	return photo, nil
}

// SetActivePhotos merges slot assignments into the active map. Unknown slots and
// unknown photo ids are rejected.
func (c *Content) SetActivePhotos(ctx context.Context, slots map[string]string) (models.PhotosConfig, error) {
	if len(slots) == 0 {
		return models.PhotosConfig{}, ErrValidation("Invalid payload: expected { activePhotos: {} }")
	}
	for slot := range slots {
		if !validSlot(slot) {
			return models.PhotosConfig{}, ErrValidation("Unknown photo slot: " + slot)
		}
	}
	return updateDoc(ctx, c, store.DocPhotos, c.defaultPhotos, func(cfg *models.PhotosConfig) error {
		*cfg = normalizePhotos(*cfg)
		known := map[string]bool{}
		for _, p := range cfg.Photos {
			known[p.ID] = true
		}
		keys := make([]string, 0, len(slots))
		for slot := range slots {
			keys = append(keys, slot)
		}
		sort.Strings(keys)
		for _, slot := range keys {
			id := slots[slot]
			if id != "" && !known[id] {
				return ErrNotFound("Photo not found: " + id)
			}
			if id == "" {
				delete(cfg.ActivePhotos, slot)
				continue
			}
			cfg.ActivePhotos[slot] = id
		}
		markActive(cfg)
		return nil
	})
}

func validSlot(slot string) bool {
	for _, s := range photoSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// DeletePhoto removes the record and clears any slot pointing at it. The removed
// record is returned so the caller can unlink its file.
func (c *Content) DeletePhoto(ctx context.Context, id string) (models.Photo, error) {
	var removed models.Photo
	_, err := updateDoc(ctx, c, store.DocPhotos, c.defaultPhotos, func(cfg *models.PhotosConfig) error {
		*cfg = normalizePhotos(*cfg)
		kept := cfg.Photos[:0]
		found := false
		for _, p := range cfg.Photos {
			if p.ID == id {
				removed = p
				found = true
				continue
			}
			kept = append(kept, p)
		}
		if !found {
			return ErrNotFound("Photo not found")
		}
		cfg.Photos = kept
		for slot, active := range cfg.ActivePhotos {
			if active == id {
				delete(cfg.ActivePhotos, slot)
			}
		}
		markActive(cfg)
		return nil
	})
	return removed, err
}
