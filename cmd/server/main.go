package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"recruitsite-backend-go/internal/config"
	"recruitsite-backend-go/internal/db"
	httpapi "recruitsite-backend-go/internal/http"
	"recruitsite-backend-go/internal/services"
	"recruitsite-backend-go/internal/store"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	cleanupLogs, err := setupLogger(cfg.LogDir, cfg.LogRetentionDays)
	if err != nil {
		log.Printf("logger setup failed: %v", err)
	} else {
		defer cleanupLogs()
	}
	if cfg.UsesDevToken() {
		log.Printf("warn: ADMIN_TOKEN is not set; admin routes accept the development token")
	}

	site, err := config.LoadSite(cfg.SiteConfigPath)
	if err != nil {
		log.Printf("warn: %v; using built-in site defaults", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	contentStore, closeStore, err := db.OpenStore(ctx, cfg.ContentStore, cfg.DataDir, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("content store: %v", err)
	}
	defer closeStore()

	hub := services.NewChangeHub()
	content := services.NewContent(store.WithNotify(contentStore, hub.Notify), site, cfg.Location())
	uploads := services.NewUploads(cfg.UploadsDir, cfg.UploadsURLPrefix)
	server := httpapi.NewServer(cfg, content, uploads, hub)

	addr := ":" + cfg.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		hub.Run(groupCtx)
		return nil
	})
	if cfg.PublishEnabled {
		group.Go(func() error {
			server.Publisher.Start(groupCtx, time.Duration(cfg.PublishIntervalSeconds)*time.Second)
			return nil
		})
	}
	group.Go(func() error {
		log.Printf("listening on %s (store=%s data=%s)", addr, cfg.ContentStore, cfg.DataDir)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		return httpServer.Shutdown(ctxShutdown)
	})

	if err := group.Wait(); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Printf("shutdown complete")
}

func setupLogger(logDir string, retentionDays int) (func(), error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	var mu sync.Mutex
	currentDate := time.Now().Format("2006-01-02")
	file, err := openLogFile(logDir, currentDate)
	if err != nil {
		return nil, err
	}
	log.SetOutput(io.MultiWriter(os.Stdout, file))
	cleanupOldLogs(logDir, retentionDays)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				date := time.Now().Format("2006-01-02")
				mu.Lock()
				if date != currentDate {
					newFile, err := openLogFile(logDir, date)
					if err == nil {
						log.SetOutput(io.MultiWriter(os.Stdout, newFile))
						_ = file.Close()
						file = newFile
						currentDate = date
						cleanupOldLogs(logDir, retentionDays)
					}
				}
				mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		cancel()
		mu.Lock()
		_ = file.Close()
		mu.Unlock()
	}, nil
}

func openLogFile(logDir, date string) (*os.File, error) {
	filename := filepath.Join(logDir, fmt.Sprintf("app-%s.log", date))
	return os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func cleanupOldLogs(logDir string, retentionDays int) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -(retentionDays - 1))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.HasPrefix(name, "app-") || !strings.HasSuffix(name, ".log") {
			continue
		}
		datePart := strings.TrimSuffix(strings.TrimPrefix(name, "app-"), ".log")
		logDate, err := time.Parse("2006-01-02", datePart)
		if err != nil {
			continue
		}
		if logDate.Before(cutoff) {
			_ = os.Remove(filepath.Join(logDir, name))
		}
	}
}
