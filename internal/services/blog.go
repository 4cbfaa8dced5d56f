package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"recruitsite-backend-go/internal/models"
	"recruitsite-backend-go/internal/store"
)

func emptyBlog() models.BlogData {
	return models.BlogData{Posts: []models.BlogPost{}}
}

// Blog returns every post, drafts included.
func (c *Content) Blog(ctx context.Context) models.BlogData {
	blog, _ := readDoc(ctx, c, store.DocBlog, emptyBlog)
	if blog.Posts == nil {
		blog.Posts = []models.BlogPost{}
	}
	return blog
}

// PublishedPosts is the public view of the blog.
func (c *Content) PublishedPosts(ctx context.Context) []models.BlogPost {
	posts := []models.BlogPost{}
	for _, post := range c.Blog(ctx).Posts {
		if post.Published {
			posts = append(posts, post)
		}
	}
	return posts
}

// SaveBlog replaces the post list. Posts without an id get a millisecond
// timestamp id, posts without a slug get one derived from the title.
func (c *Content) SaveBlog(ctx context.Context, raw []byte) (models.BlogData, error) {
	root, ok := decodeObject(raw)
	if !ok || jsonKind(root["posts"]) != "array" {
		return models.BlogData{}, ErrValidation("Invalid payload: expected { posts: [] }")
	}
	var blog models.BlogData
	if err := json.Unmarshal(raw, &blog); err != nil {
		return models.BlogData{}, ErrValidation("Invalid payload: " + err.Error())
	}

	seen := map[string]bool{}
	slugs := map[string]bool{}
	for _, post := range blog.Posts {
		if post.ID != "" {
			seen[post.ID] = true
		}
		if post.Slug != "" {
			slugs[post.Slug] = true
		}
	}
	for i := range blog.Posts {
		post := &blog.Posts[i]
		post.ID = strings.TrimSpace(post.ID)
		if post.ID == "" {
			id := c.nextID()
			for seen[id] {
				id = strconv.FormatInt(c.NextStamp(), 10)
			}
			post.ID = id
			seen[id] = true
		}
		if strings.TrimSpace(post.Title) == "" {
			return models.BlogData{}, ErrValidation("Invalid payload: post " + post.ID + " has no title")
		}
		if post.Slug == "" {
			base := Slugify(post.Title)
			if base == "" {
				base = "post-" + post.ID
			}
			post.Slug = resolveSlug(base, slugs)
			slugs[post.Slug] = true
		}
		if post.AutoPostToX && !post.Published && datePart(post.Date) > c.Today() {
			post.XPostScheduled = false
		}
	}
	if err := writeDoc(ctx, c, store.DocBlog, blog); err != nil {
		return models.BlogData{}, err
	}
	return blog, nil
}
