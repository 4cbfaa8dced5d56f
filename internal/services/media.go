package services

import (
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	PrefixVideo  = "videos/video_"
	PrefixPacket = "pdfs/recruiting_packet_"
)

// Uploads stores admin-uploaded files under Dir and addresses them by URL under URLPrefix.
type Uploads struct {
	Dir       string
	URLPrefix string
	Now       func() time.Time
}

func NewUploads(dir, urlPrefix string) *Uploads {
	return &Uploads{Dir: dir, URLPrefix: "/" + strings.Trim(urlPrefix, "/"), Now: time.Now}
}

// PhotoPrefix names photo files after their category.
func PhotoPrefix(category string) string {
	category = Slugify(category)
	if category == "" {
		category = "photo"
	}
	return category + "-"
}

// IsPDF checks the extension of an uploaded file name.
func IsPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// Save writes body to <prefix><ms><ext> and returns the stored name (relative to Dir)
// and its public URL. An empty body is rejected and leaves nothing on disk.
func (u *Uploads) Save(prefix, originalName string, body io.Reader) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	ms := u.Now().UnixMilli()
	var (
		name   string
		target string
		file   *os.File
		err    error
	)
	for attempt := 0; attempt < 5; attempt++ {
		name = prefix + strconv.FormatInt(ms+int64(attempt), 10) + ext
		target = filepath.Join(u.Dir, filepath.FromSlash(name))
		if err = os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return "", "", ErrIO("Failed to save upload", err)
		}
		file, err = os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if !os.IsExist(err) {
			break
		}
	}
	if err != nil {
		return "", "", ErrIO("Failed to save upload", err)
	}
	size, err := io.Copy(file, body)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(target)
		return "", "", ErrIO("Failed to save upload", err)
	}
	if size == 0 {
		_ = os.Remove(target)
		return "", "", ErrValidation("The uploaded file is empty")
	}
	return name, u.URL(name), nil
}

func (u *Uploads) URL(name string) string {
	return u.URLPrefix + "/" + name
}

// Remove unlinks the file behind url when it lives under the uploads prefix and,
// if within is set, under that sub-path too. Missing files and unlink errors are
// only logged.
func (u *Uploads) Remove(url, within string) bool {
	rel, ok := u.relative(url)
	if !ok {
		return false
	}
	if within != "" && !strings.HasPrefix(rel, within) {
		return false
	}
	target := filepath.Join(u.Dir, filepath.FromSlash(rel))
	if err := os.Remove(target); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warn: remove upload %s: %v", rel, err)
		}
		return false
	}
	return true
}

func (u *Uploads) relative(url string) (string, bool) {
	prefix := u.URLPrefix + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	rel := path.Clean("/" + strings.TrimPrefix(url, prefix))
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" || rel == "." {
		return "", false
	}
	return rel, true
}

// Size sums the bytes of every stored upload.
func (u *Uploads) Size() int64 {
	var total int64
	_ = filepath.WalkDir(u.Dir, func(_ string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}
