package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"recruitsite-backend-go/internal/models"
	"recruitsite-backend-go/internal/store"
)

// Poster delivers a social post to its platform.
type Poster interface {
	Post(ctx context.Context, post models.SocialMediaPost) error
}

// LogPoster records the post in the log instead of calling a platform API.
type LogPoster struct{}

func (LogPoster) Post(_ context.Context, post models.SocialMediaPost) error {
	logPublisher("deliver platform=%s id=%s content=%q hashtags=%v media=%d",
		post.Platform, post.ID, post.Content, post.Hashtags, len(post.MediaURLs))
	return nil
}

func logPublisher(format string, args ...any) {
	log.Printf("[Publisher] "+format, args...)
}

// errNothingDue aborts a store update that would not change the document.
var errNothingDue = errors.New("nothing due")

type PublishResult struct {
	Published   []string `json:"published"`
	SocialPosts []string `json:"socialPosts"`
	Posted      []string `json:"posted"`
	Failed      []string `json:"failed"`
}

type Publisher struct {
	Content *Content
}

func NewPublisher(c *Content) *Publisher {
	return &Publisher{Content: c}
}

// datePart trims a timestamp down to its YYYY-MM-DD prefix.
func datePart(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 10 {
		return value[:10]
	}
	return value
}

// dueForAutoPost reports whether a post has reached its date and still awaits its social mirror.
func dueForAutoPost(post models.BlogPost, today string) bool {
	return post.AutoPostToX && !post.XPostScheduled && !post.Published &&
		post.Date != "" && datePart(post.Date) <= today
}

// PublishDue publishes every blog post whose date has arrived and that is flagged for
// auto-posting, creating one scheduled twitter post per published entry. Both documents
// are updated under one lock scope, social first. A post that already has its auto
// record (left by a run whose blog write failed) reuses it instead of getting another.
func (p *Publisher) PublishDue(ctx context.Context) (PublishResult, error) {
	c := p.Content
	today := c.Today()
	var (
		result PublishResult
		titles []string
	)

	err := c.Store.UpdateMany(ctx, []store.DocType{store.DocSocial, store.DocBlog}, func(current map[store.DocType][]byte) (map[store.DocType][]byte, error) {
		result = PublishResult{Published: []string{}, SocialPosts: []string{}}
		titles = titles[:0]
		blog, err := decodeDoc(store.DocBlog, current[store.DocBlog], emptyBlog)
		if err != nil {
			return nil, err
		}
		due := []int{}
		for i, post := range blog.Posts {
			if dueForAutoPost(post, today) {
				due = append(due, i)
			}
		}
		if len(due) == 0 {
			return nil, errNothingDue
		}
		social, err := decodeDoc(store.DocSocial, current[store.DocSocial], c.defaultSocial)
		if err != nil {
			return nil, err
		}
		social = normalizeSocial(social)

		for _, i := range due {
			post := &blog.Posts[i]
			id, found := autoPostID(social, post.ID)
			if !found {
				entry := models.SocialMediaPost{
					ID:            autoPostPrefix + post.ID + "_" + strconv.FormatInt(c.NextStamp(), 10),
					Platform:      models.PlatformTwitter,
					Content:       post.Title + "\n\n" + post.Excerpt,
					ScheduledDate: post.Date,
					Status:        models.SocialScheduled,
					BlogPostID:    post.ID,
					CreatedAt:     c.timestamp(),
					Hashtags:      c.twitterHashtags(social),
				}
				social.Posts = append(social.Posts, entry)
				id = entry.ID
			}
			post.Published = true
			post.XPostScheduled = true
			result.Published = append(result.Published, post.ID)
			result.SocialPosts = append(result.SocialPosts, id)
			titles = append(titles, post.Title)
		}

		socialRaw, err := json.Marshal(social)
		if err != nil {
			return nil, err
		}
		blogRaw, err := json.Marshal(blog)
		if err != nil {
			return nil, err
		}
		return map[store.DocType][]byte{store.DocSocial: socialRaw, store.DocBlog: blogRaw}, nil
	})
	if errors.Is(err, errNothingDue) {
		return PublishResult{Published: []string{}, SocialPosts: []string{}}, nil
	}
	if err != nil {
		return PublishResult{Published: []string{}, SocialPosts: []string{}}, storeError(store.DocBlog, err)
	}
	for n, title := range titles {
		logPublisher("published blog post %q and scheduled %s", title, result.SocialPosts[n])
	}
	return result, nil
}

const autoPostPrefix = "auto_x_"

// autoPostID finds the auto-created social record of a blog post.
func autoPostID(social models.SocialMediaConfig, blogPostID string) (string, bool) {
	for _, post := range social.Posts {
		if post.BlogPostID == blogPostID && strings.HasPrefix(post.ID, autoPostPrefix+blogPostID+"_") {
			return post.ID, true
		}
	}
	return "", false
}

// DispatchDue hands every scheduled social post whose date has arrived to the Poster.
func (p *Publisher) DispatchDue(ctx context.Context) (PublishResult, error) {
	c := p.Content
	result := PublishResult{Posted: []string{}, Failed: []string{}}
	today := c.Today()

	_, err := updateDoc(ctx, c, store.DocSocial, c.defaultSocial, func(social *models.SocialMediaConfig) error {
		*social = normalizeSocial(*social)
		changed := false
		for i := range social.Posts {
			post := &social.Posts[i]
			if post.Status != models.SocialScheduled || post.ScheduledDate == "" || datePart(post.ScheduledDate) > today {
				continue
			}
			c.deliver(ctx, post)
			changed = true
			if post.Status == models.SocialPosted {
				result.Posted = append(result.Posted, post.ID)
			} else {
				result.Failed = append(result.Failed, post.ID)
			}
		}
		if !changed {
			return errNothingDue
		}
		return nil
	})
	if errors.Is(err, errNothingDue) {
		return result, nil
	}
	return result, err
}

// RunOnce publishes due blog posts, then dispatches due social posts.
func (p *Publisher) RunOnce(ctx context.Context) (PublishResult, error) {
	published, err := p.PublishDue(ctx)
	if err != nil {
		return published, err
	}
	dispatched, err := p.DispatchDue(ctx)
	published.Posted = dispatched.Posted
	published.Failed = dispatched.Failed
	return published, err
}

// Start runs RunOnce immediately and then on every tick until ctx is cancelled.
func (p *Publisher) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	logPublisher("worker started interval=%s", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	run := func() {
		sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		res, err := p.RunOnce(sweepCtx)
		if err != nil {
			logPublisher("sweep error: %v", err)
			return
		}
		if len(res.Published)+len(res.Posted)+len(res.Failed) > 0 {
			logPublisher("sweep published=%d posted=%d failed=%d", len(res.Published), len(res.Posted), len(res.Failed))
		}
	}

	run()
	for {
		select {
		case <-ctx.Done():
			logPublisher("worker stopped")
			return
		case <-ticker.C:
			run()
		}
	}
}
