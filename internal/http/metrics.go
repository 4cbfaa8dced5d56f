package httpapi

import (
	"net/http"

	"recruitsite-backend-go/internal/services"

	"github.com/gorilla/websocket"
)

func (s *Server) SystemStats(w http.ResponseWriter, r *http.Request) {
	sample := services.CaptureSystem(s.Uploads, s.Config.ContentStore, s.StartedAt)
	WriteDocument(w, sample)
}

// ContentSocket streams document change events so open pages can refetch.
func (s *Server) ContentSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return s.originAllowed(r) },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.Hub.Add(conn)
	defer func() {
		s.Hub.Remove(conn)
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (s *Server) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.Config.CorsOrigins) == 0 {
		return true
	}
	for _, allowed := range s.Config.CorsOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
