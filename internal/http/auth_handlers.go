package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

type LoginRequest struct {
	Token string `json:"token"`
}

type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	ExpiresAt     *int64 `json:"expiresAt,omitempty"`
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if !s.Tokens.VerifyAdminToken(strings.TrimSpace(req.Token)) {
		WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	token, exp, err := s.Tokens.CreateSession()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	expiresAt := exp.Unix()
	WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "expiresAt": expiresAt})
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeSuccess(w, nil)
}

func (s *Server) Session(w http.ResponseWriter, r *http.Request) {
	resp := SessionResponse{Authenticated: isAdmin(s.Tokens, r)}
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		if claims, err := s.Tokens.ParseSession(cookie.Value); err == nil && claims.ExpiresAt != nil {
			exp := claims.ExpiresAt.Unix()
			resp.ExpiresAt = &exp
		}
	}
	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, resp)
}
