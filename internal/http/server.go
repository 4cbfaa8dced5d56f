package httpapi

import (
	"net/http"
	"time"

	"recruitsite-backend-go/internal/config"
	"recruitsite-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	Config    config.Config
	Content   *services.Content
	Publisher *services.Publisher
	Uploads   *services.Uploads
	Tokens    services.TokenService
	Hub       *services.ChangeHub
	StartedAt time.Time
}

func NewServer(cfg config.Config, content *services.Content, uploads *services.Uploads, hub *services.ChangeHub) *Server {
	tokens := services.TokenService{
		AdminToken: cfg.AdminToken,
		Secret:     []byte(cfg.SessionSecret),
		Issuer:     cfg.SessionIssuer,
		SessionTTL: time.Duration(cfg.SessionTTLSeconds) * time.Second,
	}
	return &Server{
		Config:    cfg,
		Content:   content,
		Publisher: services.NewPublisher(content),
		Uploads:   uploads,
		Tokens:    tokens,
		Hub:       hub,
		StartedAt: time.Now(),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	limited := RateLimit(s.Config.RateLimitRequests, time.Duration(s.Config.RateLimitWindowSeconds)*time.Second)

	r.Get("/health", s.Health)

	r.Route("/api", func(api chi.Router) {
		api.Get("/player", s.PublicPlayer)
		api.Get("/schedule", s.PublicSchedule)
		api.Get("/photos", s.PublicPhotos)
		api.Get("/videos", s.PublicVideos)
		api.Get("/blog", s.PublicBlog)
		api.Get("/recruiting-packet", s.PublicRecruitingPacket)

		api.Route("/auth", func(auth chi.Router) {
			auth.With(limited).Post("/login", s.Login)
			auth.Post("/logout", s.Logout)
			auth.Get("/session", s.Session)
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(AdminGate(s.Tokens))
			admin.Get("/player", s.AdminPlayer)
			admin.Post("/player", s.SavePlayer)

			admin.Get("/blog", s.AdminBlog)
			admin.Post("/blog", s.SaveBlog)
			admin.Post("/blog/publish", s.PublishBlog)

			admin.Get("/schedule", s.AdminSchedule)
			admin.Post("/schedule", s.SaveSchedule)

			admin.Route("/photos", func(photos chi.Router) {
				photos.Get("/", s.AdminPhotos)
				photos.With(limited).Post("/", s.UploadPhoto)
				photos.Put("/", s.SetActivePhotos)
				photos.Delete("/{photoId}", s.DeletePhoto)
			})

			admin.Get("/social", s.AdminSocial)
			admin.Post("/social", s.SocialAction)

			admin.Get("/videos", s.AdminVideos)
			admin.With(limited).Post("/videos", s.VideoAction)

			admin.Get("/recruiting-packet", s.AdminRecruitingPacket)
			admin.With(limited).Post("/recruiting-packet", s.UploadRecruitingPacket)
			admin.Delete("/recruiting-packet", s.DeleteRecruitingPacket)

			admin.Get("/system", s.SystemStats)
		})
	})

	r.Get("/ws/content", s.ContentSocket)
	r.Handle(s.Uploads.URLPrefix+"/*", s.UploadedFiles())
	return r
}
