package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"recruitsite-backend-go/internal/models"
	"recruitsite-backend-go/internal/store"
)

func (c *Content) defaultSocial() models.SocialMediaConfig {
	return models.SocialMediaConfig{
		Posts: []models.SocialMediaPost{},
		Settings: models.SocialSettings{
			Twitter: models.PlatformSettings{
				Enabled:         true,
				DefaultHashtags: append([]string(nil), c.Site.Hashtags.Twitter...),
				Credentials:     &models.Credentials{},
			},
			Instagram: models.PlatformSettings{
				DefaultHashtags: append([]string(nil), c.Site.Hashtags.Instagram...),
			},
			Facebook: models.PlatformSettings{},
		},
	}
}

func normalizeSocial(cfg models.SocialMediaConfig) models.SocialMediaConfig {
	if cfg.Posts == nil {
		cfg.Posts = []models.SocialMediaPost{}
	}
	for i := range cfg.Posts {
		if cfg.Posts[i].Hashtags == nil {
			cfg.Posts[i].Hashtags = []string{}
		}
	}
	return cfg
}

func (c *Content) twitterHashtags(cfg models.SocialMediaConfig) []string {
	if len(cfg.Settings.Twitter.DefaultHashtags) > 0 {
		return append([]string(nil), cfg.Settings.Twitter.DefaultHashtags...)
	}
	return append([]string{}, c.Site.Hashtags.Twitter...)
}

// Social reads the social document without persisting the default scaffold.
func (c *Content) Social(ctx context.Context) models.SocialMediaConfig {
	cfg, _ := readDoc(ctx, c, store.DocSocial, c.defaultSocial)
	return normalizeSocial(cfg)
}

// EnsureSocial is the admin read: the scaffold is written on first use.
func (c *Content) EnsureSocial(ctx context.Context) (models.SocialMediaConfig, error) {
	cfg, err := ensureDoc(ctx, c, store.DocSocial, c.defaultSocial)
	return normalizeSocial(cfg), err
}

const (
	ActionCreatePost     = "createPost"
	ActionUpdatePost     = "updatePost"
	ActionDeletePost     = "deletePost"
	ActionPostNow        = "postNow"
	ActionUpdateSettings = "updateSettings"
)

type createPostInput struct {
	Platform      string   `json:"platform"`
	Content       string   `json:"content"`
	ScheduledDate string   `json:"scheduledDate"`
	BlogPostID    string   `json:"blogPostId"`
	Hashtags      []string `json:"hashtags"`
	MediaURLs     []string `json:"mediaUrls"`
}

// ApplySocialAction runs one admin action against the social document. The payload
// is an object with an "action" key; the remaining keys are the action's arguments.
func (c *Content) ApplySocialAction(ctx context.Context, raw []byte) (models.SocialMediaConfig, error) {
	fields, ok := decodeObject(raw)
	if !ok {
		return models.SocialMediaConfig{}, ErrValidation("Invalid payload")
	}
	action, _ := stringField(fields, "action")
	delete(fields, "action")

	var apply func(*models.SocialMediaConfig) error
	switch action {
	case ActionCreatePost:
		var in createPostInput
		if err := remarshal(fields, &in); err != nil {
			return models.SocialMediaConfig{}, ErrValidation("Invalid post payload")
		}
		apply = func(cfg *models.SocialMediaConfig) error {
			cfg.Posts = append(cfg.Posts, c.newManualPost(*cfg, in))
			return nil
		}
	case ActionUpdatePost:
		id, _ := stringField(fields, "id")
		patch := map[string]any{}
		if err := remarshal(fields, &patch); err != nil {
			return models.SocialMediaConfig{}, ErrValidation("Invalid post payload")
		}
		delete(patch, "id")
		apply = func(cfg *models.SocialMediaConfig) error {
			i := findPost(cfg.Posts, id)
			if i < 0 {
				return ErrNotFound("Post not found")
			}
			if err := overlay(&cfg.Posts[i], patch); err != nil {
				return ErrValidation("Invalid post payload")
			}
			return nil
		}
	case ActionDeletePost:
		id, _ := stringField(fields, "id")
		apply = func(cfg *models.SocialMediaConfig) error {
			kept := cfg.Posts[:0]
			for _, p := range cfg.Posts {
				if p.ID != id {
					kept = append(kept, p)
				}
			}
			cfg.Posts = kept
			return nil
		}
	case ActionPostNow:
		id, _ := stringField(fields, "id")
		apply = func(cfg *models.SocialMediaConfig) error {
			i := findPost(cfg.Posts, id)
			if i < 0 {
				return ErrNotFound("Post not found")
			}
			c.deliver(ctx, &cfg.Posts[i])
			return nil
		}
	case ActionUpdateSettings:
		patch := map[string]any{}
		if rawSettings, ok := fields["settings"]; ok && jsonKind(rawSettings) == "object" {
			if err := json.Unmarshal(rawSettings, &patch); err != nil {
				return models.SocialMediaConfig{}, ErrValidation("Invalid settings payload")
			}
		}
		apply = func(cfg *models.SocialMediaConfig) error {
			if err := overlay(&cfg.Settings, patch); err != nil {
				return ErrValidation("Invalid settings payload")
			}
			return nil
		}
	default:
		return models.SocialMediaConfig{}, ErrValidation("Invalid action")
	}

	cfg, err := updateDoc(ctx, c, store.DocSocial, c.defaultSocial, func(cfg *models.SocialMediaConfig) error {
		*cfg = normalizeSocial(*cfg)
		return apply(cfg)
	})
	return normalizeSocial(cfg), err
}

func (c *Content) newManualPost(cfg models.SocialMediaConfig, in createPostInput) models.SocialMediaPost {
	platform := in.Platform
	if platform == "" {
		platform = models.PlatformTwitter
	}
	status := models.SocialDraft
	if in.ScheduledDate != "" {
		status = models.SocialScheduled
	}
	hashtags := c.twitterHashtags(cfg)
	if in.Hashtags != nil {
		hashtags = CleanTags(in.Hashtags)
	}
	media := in.MediaURLs
	if media == nil {
		media = []string{}
	}
	return models.SocialMediaPost{
		ID:            uuid.NewString(),
		Platform:      platform,
		Content:       in.Content,
		ScheduledDate: in.ScheduledDate,
		Status:        status,
		BlogPostID:    in.BlogPostID,
		CreatedAt:     c.timestamp(),
		MediaURLs:     media,
		Hashtags:      hashtags,
	}
}

// deliver hands a post to the Poster and records the outcome on it.
func (c *Content) deliver(ctx context.Context, post *models.SocialMediaPost) {
	if err := c.Poster.Post(ctx, *post); err != nil {
		post.Status = models.SocialFailed
		logPublisher("post %s to %s failed: %v", post.ID, post.Platform, err)
		return
	}
	post.Status = models.SocialPosted
	post.PostedAt = c.timestamp()
}

func findPost(posts []models.SocialMediaPost, id string) int {
	if id == "" {
		return -1
	}
	for i := range posts {
		if posts[i].ID == id {
			return i
		}
	}
	return -1
}

func remarshal(in any, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
