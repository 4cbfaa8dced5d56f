package httpapi

import (
	"net/http"
	"strings"
)

type RecruitingPacketResponse struct {
	URL *string `json:"url"`
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) PublicPlayer(w http.ResponseWriter, r *http.Request) {
	WriteRawDocument(w, s.Content.Player(r.Context()))
}

func (s *Server) PublicSchedule(w http.ResponseWriter, r *http.Request) {
	WriteDocument(w, s.Content.Schedule(r.Context()))
}

func (s *Server) PublicPhotos(w http.ResponseWriter, r *http.Request) {
	WriteDocument(w, s.Content.Photos(r.Context()))
}

func (s *Server) PublicVideos(w http.ResponseWriter, r *http.Request) {
	WriteDocument(w, s.Content.Videos(r.Context()))
}

// PublicBlog lists published posts only. Scheduled posts appear once the publisher
// has moved them, never as a side effect of this read.
func (s *Server) PublicBlog(w http.ResponseWriter, r *http.Request) {
	WriteDocument(w, map[string]interface{}{"posts": s.Content.PublishedPosts(r.Context())})
}

func (s *Server) PublicRecruitingPacket(w http.ResponseWriter, r *http.Request) {
	WriteDocument(w, packetResponse(s.Content.RecruitingPacketURL(r.Context())))
}

func packetResponse(url string) RecruitingPacketResponse {
	if url == "" {
		return RecruitingPacketResponse{}
	}
	return RecruitingPacketResponse{URL: &url}
}

// UploadedFiles serves the uploads directory read-only without directory listings.
func (s *Server) UploadedFiles() http.Handler {
	files := http.StripPrefix(s.Uploads.URLPrefix, http.FileServer(http.Dir(s.Uploads.Dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
