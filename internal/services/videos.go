package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"recruitsite-backend-go/internal/models"
	"recruitsite-backend-go/internal/store"
)

const VideoPlaceholder = "/images/video-placeholder.jpg"

var teamProfileHubPatterns = []*regexp.Regexp{
	regexp.MustCompile(`teamprofilehub\.com/.*/video/([a-zA-Z0-9-]+)`),
	regexp.MustCompile(`tph\.com/.*/video/([a-zA-Z0-9-]+)`),
	regexp.MustCompile(`gamechanger\.io/.*/video/([a-zA-Z0-9-]+)`),
	regexp.MustCompile(`gc\.com/.*/video/([a-zA-Z0-9-]+)`),
	regexp.MustCompile(`gamechanger\.com/.*/video/([a-zA-Z0-9-]+)`),
}

var gameChangerHosts = []string{"teamprofilehub.com", "tph.com", "gamechanger.io", "gc.com", "gamechanger.com"}

// DetectVideoSource classifies a linked clip by its host.
func DetectVideoSource(url string) string {
	switch {
	case strings.Contains(url, "youtube.com"), strings.Contains(url, "youtu.be"):
		return models.SourceYouTube
	case strings.Contains(url, "hudl.com"):
		return models.SourceHudl
	}
	for _, host := range gameChangerHosts {
		if strings.Contains(url, host) {
			return models.SourceGameChanger
		}
	}
	return models.SourceUpload
}

// TeamProfileHubVideoID extracts the clip id from a TeamProfileHub or GameChanger link.
func TeamProfileHubVideoID(url string) string {
	for _, pattern := range teamProfileHubPatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

func TeamProfileHubThumbnail(videoID string) string {
	return "https://media.teamprofilehub.com/video/" + videoID + "/thumbnail.jpg"
}

func emptyVideos() models.VideosData {
	return models.VideosData{Videos: []models.VideoClip{}}
}

func (c *Content) Videos(ctx context.Context) models.VideosData {
	videos, _ := readDoc(ctx, c, store.DocVideos, emptyVideos)
	if videos.Videos == nil {
		videos.Videos = []models.VideoClip{}
	}
	return videos
}

// VideoInput carries the admin form fields shared by every video action.
type VideoInput struct {
	VideoID     string
	Title       string
	Description string
	Category    string
	Featured    bool
	URL         string
}

func (in VideoInput) requireDetails() error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" || strings.TrimSpace(in.Category) == "" {
		return ErrValidation("Missing required fields")
	}
	return nil
}

// ValidateVideoUpload checks the metadata of an upload before the file is stored.
func ValidateVideoUpload(in VideoInput) error {
	return in.requireDetails()
}

// AddUploadedVideo records a clip whose file has already been stored at url.
func (c *Content) AddUploadedVideo(ctx context.Context, in VideoInput, url string) (models.VideosData, error) {
	if err := in.requireDetails(); err != nil {
		return models.VideosData{}, err
	}
	clip := models.VideoClip{
		ID:          "video_" + strconv.FormatInt(c.NextStamp(), 10),
		Title:       in.Title,
		Description: in.Description,
		URL:         url,
		Thumbnail:   url,
		Category:    in.Category,
		Date:        c.Today(),
		Featured:    in.Featured,
		Source:      models.SourceUpload,
	}
	return c.appendVideo(ctx, clip)
}

// AddLinkedVideo records a clip hosted elsewhere.
func (c *Content) AddLinkedVideo(ctx context.Context, in VideoInput) (models.VideosData, error) {
	if strings.TrimSpace(in.URL) == "" {
		return models.VideosData{}, ErrValidation("Missing required fields")
	}
	if err := in.requireDetails(); err != nil {
		return models.VideosData{}, err
	}
	source := DetectVideoSource(in.URL)
	clip := models.VideoClip{
		ID:          "video_" + strconv.FormatInt(c.NextStamp(), 10),
		Title:       in.Title,
		Description: in.Description,
		URL:         in.URL,
		Thumbnail:   VideoPlaceholder,
		Category:    in.Category,
		Date:        c.Today(),
		Featured:    in.Featured,
		Source:      source,
	}
	if source == models.SourceGameChanger {
		link := in.URL
		clip.TeamProfileHubURL = &link
		if id := TeamProfileHubVideoID(in.URL); id != "" {
			clip.Thumbnail = TeamProfileHubThumbnail(id)
		}
	}
	return c.appendVideo(ctx, clip)
}

func (c *Content) appendVideo(ctx context.Context, clip models.VideoClip) (models.VideosData, error) {
	return updateDoc(ctx, c, store.DocVideos, emptyVideos, func(v *models.VideosData) error {
		if v.Videos == nil {
			v.Videos = []models.VideoClip{}
		}
		v.Videos = append(v.Videos, clip)
		return nil
	})
}

// UpdateVideo rewrites the editable fields of one clip.
func (c *Content) UpdateVideo(ctx context.Context, in VideoInput) (models.VideosData, error) {
	return updateDoc(ctx, c, store.DocVideos, emptyVideos, func(v *models.VideosData) error {
		i := findVideo(v.Videos, in.VideoID)
		if i < 0 {
			return ErrNotFound("Video not found")
		}
		clip := &v.Videos[i]
		clip.Title = in.Title
		clip.Description = in.Description
		clip.Category = in.Category
		clip.Featured = in.Featured
		return nil
	})
}

// DeleteVideo drops one clip and returns it so the caller can unlink an uploaded file.
func (c *Content) DeleteVideo(ctx context.Context, videoID string) (models.VideosData, models.VideoClip, error) {
	var removed models.VideoClip
	videos, err := updateDoc(ctx, c, store.DocVideos, emptyVideos, func(v *models.VideosData) error {
		i := findVideo(v.Videos, videoID)
		if i < 0 {
			return ErrNotFound("Video not found")
		}
		removed = v.Videos[i]
		v.Videos = append(v.Videos[:i], v.Videos[i+1:]...)
		return nil
	})
	return videos, removed, err
}

func findVideo(videos []models.VideoClip, id string) int {
	if id == "" {
		return -1
	}
	for i := range videos {
		if videos[i].ID == id {
			return i
		}
	}
	return -1
}
