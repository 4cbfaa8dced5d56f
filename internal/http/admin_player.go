package httpapi

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"recruitsite-backend-go/internal/services"
)

const (
	maxJSONBody = 2 << 20
	packetDir   = "pdfs/"
)

func readJSONBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		return nil, services.ErrValidation("Invalid payload")
	}
	if !json.Valid(body) {
		return nil, services.ErrValidation("Invalid JSON payload")
	}
	return body, nil
}

func (s *Server) AdminPlayer(w http.ResponseWriter, r *http.Request) {
	WriteRawDocument(w, s.Content.Player(r.Context()))
}

func (s *Server) SavePlayer(w http.ResponseWriter, r *http.Request) {
	body, err := readJSONBody(w, r)
	if err != nil {
		writeServiceError(w, r, services.ErrValidation("Invalid player payload"), "")
		return
	}
	if _, err := s.Content.SavePlayer(r.Context(), body); err != nil {
		writeServiceError(w, r, err, "Failed to save player data")
		return
	}
	writeSuccess(w, nil)
}

func (s *Server) AdminRecruitingPacket(w http.ResponseWriter, r *http.Request) {
	WriteDocument(w, packetResponse(s.Content.RecruitingPacketURL(r.Context())))
}

func (s *Server) UploadRecruitingPacket(w http.ResponseWriter, r *http.Request) {
	file, header, ok := s.formFile(w, r, "file")
	if !ok {
		return
	}
	defer file.Close()
	if !services.IsPDF(header.Filename) {
		writeServiceError(w, r, services.ErrUnsupportedMedia("Only PDF files are allowed"), "")
		return
	}
	_, url, err := s.Uploads.Save(services.PrefixPacket, header.Filename, file)
	if err != nil {
		writeServiceError(w, r, err, "Failed to upload recruiting packet")
		return
	}
	previous, err := s.Content.SetRecruitingPacket(r.Context(), url)
	if err != nil {
		s.Uploads.Remove(url, packetDir)
		writeServiceError(w, r, err, "Failed to upload recruiting packet")
		return
	}
	if previous != "" && previous != url {
		s.Uploads.Remove(previous, packetDir)
	}
	writeSuccess(w, map[string]interface{}{"url": url})
}

type packetDeleteRequest struct {
	URL string `json:"url"`
}

// DeleteRecruitingPacket unlinks the packet. The body is optional; when it names a
// URL, only a matching packet is removed.
func (s *Server) DeleteRecruitingPacket(w http.ResponseWriter, r *http.Request) {
	var req packetDeleteRequest
	if body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody)); err == nil && len(strings.TrimSpace(string(body))) > 0 {
		_ = json.Unmarshal(body, &req)
	}
	removed, err := s.Content.ClearRecruitingPacket(r.Context(), strings.TrimSpace(req.URL))
	if err != nil {
		writeServiceError(w, r, err, "Failed to delete recruiting packet link")
		return
	}
	if removed != "" {
		s.Uploads.Remove(removed, packetDir)
	}
	writeSuccess(w, nil)
}

// formFile parses a multipart upload capped at MAX_UPLOAD_MB and returns the named file.
func (s *Server) formFile(w http.ResponseWriter, r *http.Request, field string) (multipart.File, *multipart.FileHeader, bool) {
	if err := s.parseUpload(w, r); err != nil {
		writeServiceError(w, r, err, "")
		return nil, nil, false
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "No file provided")
		return nil, nil, false
	}
	return file, header, true
}

func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request) error {
	limit := s.Config.MaxUploadMB << 20
	if limit <= 0 {
		limit = 200 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return services.ErrValidation("Invalid upload")
	}
	return nil
}
