package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitsite-backend-go/internal/config"
	"recruitsite-backend-go/internal/models"
	"recruitsite-backend-go/internal/store"
)

var testNow = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func newTestContent(t *testing.T) (*Content, *store.File) {
	t.Helper()
	fileStore, err := store.NewFile(t.TempDir())
	require.NoError(t, err)
	c := NewContent(fileStore, config.DefaultSite(), time.UTC)
	c.Now = func() time.Time { return testNow }
	return c, fileStore
}

func seedBlog(t *testing.T, s store.Store, posts ...models.BlogPost) {
	t.Helper()
	raw, err := json.Marshal(models.BlogData{Posts: posts})
	require.NoError(t, err)
	require.NoError(t, s.Write(context.Background(), store.DocBlog, raw))
}

func readRaw(t *testing.T, s store.Store, doc store.DocType) []byte {
	t.Helper()
	raw, err := s.Read(context.Background(), doc)
	if errors.Is(err, store.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	return raw
}

func autoPost(id, date string) models.BlogPost {
	return models.BlogPost{
		ID:          id,
		Title:       "Showcase recap " + id,
		Content:     "Body",
		Excerpt:     "Two doubles and a stolen base",
		Date:        date,
		Category:    "tournament",
		AutoPostToX: true,
	}
}

func TestPublishDueTransitionsPostDatedToday(t *testing.T) {
	c, s := newTestContent(t)
	seedBlog(t, s, autoPost("100", "2026-03-10"))

	result, err := NewPublisher(c).PublishDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"100"}, result.Published)

	blog := c.Blog(context.Background())
	require.Len(t, blog.Posts, 1)
	assert.True(t, blog.Posts[0].Published)
	assert.True(t, blog.Posts[0].XPostScheduled)

	social := c.Social(context.Background())
	require.Len(t, social.Posts, 1)
	post := social.Posts[0]
	assert.Equal(t, "100", post.BlogPostID)
	assert.Equal(t, models.PlatformTwitter, post.Platform)
	assert.Equal(t, models.SocialScheduled, post.Status)
	assert.Equal(t, "2026-03-10", post.ScheduledDate)
	assert.Equal(t, "Showcase recap 100\n\nTwo doubles and a stolen base", post.Content)
	assert.Equal(t, config.DefaultSite().Hashtags.Twitter, post.Hashtags)
	assert.Regexp(t, `^auto_x_100_\d+$`, post.ID)
	assert.Equal(t, result.SocialPosts, []string{post.ID})
}

func TestPublishDueIsIdempotent(t *testing.T) {
	c, s := newTestContent(t)
	seedBlog(t, s, autoPost("100", "2026-03-01"), autoPost("200", "2027-03-10"))
	p := NewPublisher(c)

	_, err := p.PublishDue(context.Background())
	require.NoError(t, err)
	blogOnce := readRaw(t, s, store.DocBlog)
	socialOnce := readRaw(t, s, store.DocSocial)

	second, err := p.PublishDue(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second.Published)
	assert.Equal(t, string(blogOnce), string(readRaw(t, s, store.DocBlog)))
	assert.Equal(t, string(socialOnce), string(readRaw(t, s, store.DocSocial)))
}

func TestPublishDueLeavesFuturePostsAlone(t *testing.T) {
	c, s := newTestContent(t)
	seedBlog(t, s, autoPost("300", "2027-03-10"))
	before := readRaw(t, s, store.DocBlog)

	result, err := NewPublisher(c).PublishDue(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Published)
	assert.Equal(t, string(before), string(readRaw(t, s, store.DocBlog)))
	assert.Nil(t, readRaw(t, s, store.DocSocial))
}

func TestPublishDueSkipsPostsWithoutAutoPost(t *testing.T) {
	c, s := newTestContent(t)
	manual := autoPost("400", "2026-03-01")
	manual.AutoPostToX = false
	already := autoPost("401", "2026-03-01")
	already.Published = true
	seedBlog(t, s, manual, already)

	result, err := NewPublisher(c).PublishDue(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Published)
	assert.False(t, c.Blog(context.Background()).Posts[0].Published)
}

func TestPublishDueUsesDatePrefixOfTimestamps(t *testing.T) {
	c, s := newTestContent(t)
	seedBlog(t, s, autoPost("500", "2026-03-10T23:00:00.000Z"))

	result, err := NewPublisher(c).PublishDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"500"}, result.Published)
}

func TestPublishDueKeepsBlogWhenSocialIsCorrupt(t *testing.T) {
	c, s := newTestContent(t)
	seedBlog(t, s, autoPost("600", "2026-03-10"))
	require.NoError(t, writeCorrupt(s, store.DocSocial))
	before := readRaw(t, s, store.DocBlog)

	_, err := NewPublisher(c).PublishDue(context.Background())
	require.Error(t, err)
	serr, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, KindIOFailure, serr.Kind)
	assert.Equal(t, string(before), string(readRaw(t, s, store.DocBlog)))
}

func TestPublishDueReusesSocialRecordAfterFailedBlogWrite(t *testing.T) {
	c, s := newTestContent(t)
	seedBlog(t, s, autoPost("100", "2026-03-10"))
	blocker := s.Path(store.DocBlog) + ".tmp"
	require.NoError(t, os.Mkdir(blocker, 0o755))

	_, err := NewPublisher(c).PublishDue(context.Background())
	require.Error(t, err)
	assert.False(t, c.Blog(context.Background()).Posts[0].Published)
	require.Len(t, c.Social(context.Background()).Posts, 1)

	require.NoError(t, os.Remove(blocker))
	result, err := NewPublisher(c).PublishDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"100"}, result.Published)

	social := c.Social(context.Background())
	require.Len(t, social.Posts, 1)
	assert.Equal(t, []string{social.Posts[0].ID}, result.SocialPosts)
	assert.True(t, c.Blog(context.Background()).Posts[0].Published)
}

func TestPublishDueOnPostgresUsesOneTransaction(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = raw.Close() }()
	pg := store.NewPostgres(sqlx.NewDb(raw, "sqlmock"))
	c := NewContent(pg, config.DefaultSite(), time.UTC)
	c.Now = func() time.Time { return testNow }

	blog, err := json.Marshal(models.BlogData{Posts: []models.BlogPost{autoPost("100", "2026-03-10")}})
	require.NoError(t, err)
	mock.ExpectBegin()
	mock.ExpectExec(`pg_advisory_xact_lock`).WithArgs("blog").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT body FROM documents`).WithArgs("blog").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(blog))
	mock.ExpectExec(`pg_advisory_xact_lock`).WithArgs("social").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT body FROM documents`).WithArgs("social").
		WillReturnRows(sqlmock.NewRows([]string{"body"}))
	mock.ExpectExec(`INSERT INTO documents`).WithArgs("social", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO documents`).WithArgs("blog", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := NewPublisher(c).PublishDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"100"}, result.Published)
	require.NoError(t, mock.ExpectationsWereMet())
}

type failingPoster struct{ err error }

func (f failingPoster) Post(context.Context, models.SocialMediaPost) error { return f.err }

func TestDispatchDueMovesScheduledPosts(t *testing.T) {
	c, s := newTestContent(t)
	seedBlog(t, s, autoPost("700", "2026-03-10"))
	p := NewPublisher(c)
	_, err := p.PublishDue(context.Background())
	require.NoError(t, err)

	result, err := p.DispatchDue(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Posted, 1)

	social := c.Social(context.Background())
	assert.Equal(t, models.SocialPosted, social.Posts[0].Status)
	assert.Equal(t, "2026-03-10T15:30:00.000Z", social.Posts[0].PostedAt)

	again, err := p.DispatchDue(context.Background())
	require.NoError(t, err)
	assert.Empty(t, again.Posted)
}

func TestDispatchDueRecordsFailures(t *testing.T) {
	c, s := newTestContent(t)
	seedBlog(t, s, autoPost("800", "2026-03-09"))
	c.Poster = failingPoster{err: errors.New("rate limited")}
	p := NewPublisher(c)

	result, err := p.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"800"}, result.Published)
	assert.Len(t, result.Failed, 1)
	assert.Equal(t, models.SocialFailed, c.Social(context.Background()).Posts[0].Status)
}

func TestPublisherStartStopsWithContext(t *testing.T) {
	c, s := newTestContent(t)
	seedBlog(t, s, autoPost("900", "2026-03-10"))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewPublisher(c).Start(ctx, time.Hour)
		close(done)
	}()

	require.Eventually(t, func() bool {
		posts := c.Blog(context.Background()).Posts
		return len(posts) == 1 && posts[0].Published
	}, 2*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher did not stop")
	}
}

func writeCorrupt(s *store.File, doc store.DocType) error {
	return os.WriteFile(s.Path(doc), []byte("{not json"), 0o644)
}
