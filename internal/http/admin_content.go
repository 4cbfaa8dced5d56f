package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"recruitsite-backend-go/internal/models"
	"recruitsite-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

func (s *Server) AdminBlog(w http.ResponseWriter, r *http.Request) {
	WriteDocument(w, s.Content.Blog(r.Context()))
}

// SaveBlog replaces the post list and then runs a publish pass, so a post saved
// with today's date and auto-posting enabled goes live immediately.
func (s *Server) SaveBlog(w http.ResponseWriter, r *http.Request) {
	body, err := readJSONBody(w, r)
	if err != nil {
		writeServiceError(w, r, services.ErrValidation("Invalid payload: expected { posts: [] }"), "")
		return
	}
	if _, err := s.Content.SaveBlog(r.Context(), body); err != nil {
		writeServiceError(w, r, err, "Failed to save blog data")
		return
	}
	result, err := s.Publisher.PublishDue(r.Context())
	if err != nil {
		log.Printf("warn: publish after blog save: %v", err)
	}
	writeSuccess(w, map[string]interface{}{"published": result.Published})
}

func (s *Server) PublishBlog(w http.ResponseWriter, r *http.Request) {
	result, err := s.Publisher.PublishDue(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to publish blog posts")
		return
	}
	writeSuccess(w, map[string]interface{}{"published": result.Published, "socialPosts": result.SocialPosts})
}

func (s *Server) AdminSchedule(w http.ResponseWriter, r *http.Request) {
	WriteDocument(w, s.Content.Schedule(r.Context()))
}

func (s *Server) SaveSchedule(w http.ResponseWriter, r *http.Request) {
	body, err := readJSONBody(w, r)
	if err != nil {
		writeServiceError(w, r, services.ErrValidation("Invalid payload: expected { events: [] }"), "")
		return
	}
	schedule, dropped, err := s.Content.SaveSchedule(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, err, "Failed to save schedule data")
		return
	}
	writeSuccess(w, map[string]interface{}{"saved": len(schedule.Events), "dropped": dropped})
}

func (s *Server) AdminPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := s.Content.EnsurePhotos(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to load photos")
		return
	}
	WriteDocument(w, photos)
}

func (s *Server) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	file, header, ok := s.formFile(w, r, "file")
	if !ok {
		return
	}
	defer file.Close()
	category := strings.TrimSpace(r.FormValue("category"))
	if category == "" {
		category = "gallery"
	}
	name, url, err := s.Uploads.Save(services.PhotoPrefix(category), header.Filename, file)
	if err != nil {
		writeServiceError(w, r, err, "Failed to upload photo")
		return
	}
	photo, err := s.Content.AddPhoto(r.Context(), services.NewPhoto{
		Filename:     name,
		OriginalName: header.Filename,
		URL:          url,
		Alt:          r.FormValue("alt"),
		Category:     category,
	})
	if err != nil {
		s.Uploads.Remove(url, "")
		writeServiceError(w, r, err, "Failed to upload photo")
		return
	}
	writeSuccess(w, map[string]interface{}{"photo": photo})
}

type activePhotosRequest struct {
	ActivePhotos map[string]string `json:"activePhotos"`
}

func (s *Server) SetActivePhotos(w http.ResponseWriter, r *http.Request) {
	body, err := readJSONBody(w, r)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	var req activePhotosRequest
	if err := json.Unmarshal(body, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload: expected { activePhotos: {} }")
		return
	}
	cfg, err := s.Content.SetActivePhotos(r.Context(), req.ActivePhotos)
	if err != nil {
		writeServiceError(w, r, err, "Failed to update photos")
		return
	}
	writeSuccess(w, map[string]interface{}{"activePhotos": cfg.ActivePhotos})
}

func (s *Server) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	removed, err := s.Content.DeletePhoto(r.Context(), chi.URLParam(r, "photoId"))
	if err != nil {
		writeServiceError(w, r, err, "Failed to delete photo")
		return
	}
	s.Uploads.Remove(removed.URL, "")
	writeSuccess(w, nil)
}

func (s *Server) AdminSocial(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.Content.EnsureSocial(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to load social media config")
		return
	}
	WriteDocument(w, cfg)
}

func (s *Server) SocialAction(w http.ResponseWriter, r *http.Request) {
	body, err := readJSONBody(w, r)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	cfg, err := s.Content.ApplySocialAction(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, err, "Failed to update social media config")
		return
	}
	writeSuccess(w, map[string]interface{}{"config": cfg})
}

func (s *Server) AdminVideos(w http.ResponseWriter, r *http.Request) {
	WriteDocument(w, s.Content.Videos(r.Context()))
}

// VideoAction handles the multipart video form; the "action" field selects
// upload, add_url, update or delete.
func (s *Server) VideoAction(w http.ResponseWriter, r *http.Request) {
	if err := s.parseUpload(w, r); err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	in := services.VideoInput{
		VideoID:     r.FormValue("videoId"),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Featured:    r.FormValue("featured") == "true",
		URL:         strings.TrimSpace(r.FormValue("url")),
	}

	var (
		videos models.VideosData
		err    error
	)
	switch r.FormValue("action") {
	case "upload":
		videos, err = s.uploadVideo(r, in)
	case "add_url":
		videos, err = s.Content.AddLinkedVideo(r.Context(), in)
	case "update":
		videos, err = s.Content.UpdateVideo(r.Context(), in)
	case "delete":
		var removed models.VideoClip
		videos, removed, err = s.Content.DeleteVideo(r.Context(), in.VideoID)
		if err == nil && removed.Source == models.SourceUpload {
			s.Uploads.Remove(removed.URL, "")
		}
	default:
		err = services.ErrValidation("Invalid action")
	}
	if err != nil {
		writeServiceError(w, r, err, "Internal server error")
		return
	}
	writeSuccess(w, map[string]interface{}{"videos": videos.Videos})
}

func (s *Server) uploadVideo(r *http.Request, in services.VideoInput) (models.VideosData, error) {
	if err := services.ValidateVideoUpload(in); err != nil {
		return models.VideosData{}, err
	}
	file, header, err := r.FormFile("video")
	if err != nil {
		return models.VideosData{}, services.ErrValidation("Missing required fields")
	}
	defer file.Close()
	_, url, err := s.Uploads.Save(services.PrefixVideo, header.Filename, file)
	if err != nil {
		return models.VideosData{}, err
	}
	videos, err := s.Content.AddUploadedVideo(r.Context(), in, url)
	if err != nil {
		s.Uploads.Remove(url, "")
		return models.VideosData{}, err
	}
	return videos, nil
}
