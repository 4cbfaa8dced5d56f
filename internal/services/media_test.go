package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUploads(t *testing.T) *Uploads {
	t.Helper()
	u := NewUploads(t.TempDir(), "/uploads/")
	u.Now = func() time.Time { return time.UnixMilli(1767225600000) }
	return u
}

func TestUploadsSaveAndRemove(t *testing.T) {
	u := newTestUploads(t)

	name, url, err := u.Save(PrefixPacket, "Packet.PDF", strings.NewReader("%PDF-1.7"))
	require.NoError(t, err)
	assert.Equal(t, "pdfs/recruiting_packet_1767225600000.pdf", name)
	assert.Equal(t, "/uploads/pdfs/recruiting_packet_1767225600000.pdf", url)
	data, err := os.ReadFile(filepath.Join(u.Dir, "pdfs", "recruiting_packet_1767225600000.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))

	_, second, err := u.Save(PrefixPacket, "again.pdf", strings.NewReader("x"))
	require.NoError(t, err)
	assert.NotEqual(t, url, second)

	assert.False(t, u.Remove(url, "videos/"))
	assert.True(t, u.Remove(url, "pdfs/"))
	assert.False(t, u.Remove(url, "pdfs/"), "already removed")
	_, err = os.Stat(filepath.Join(u.Dir, filepath.FromSlash(name)))
	assert.True(t, os.IsNotExist(err))
}

func TestUploadsRejectsEmptyBody(t *testing.T) {
	u := newTestUploads(t)
	_, _, err := u.Save(PhotoPrefix("Action Shots"), "a.jpg", strings.NewReader(""))
	require.Error(t, err)
	serr, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, KindValidationFailed, serr.Kind)

	entries, err := os.ReadDir(u.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadsRemoveIgnoresForeignURLs(t *testing.T) {
	u := newTestUploads(t)
	outside := filepath.Join(filepath.Dir(u.Dir), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	assert.False(t, u.Remove("/images/hero-bg.jpg", ""))
	assert.False(t, u.Remove("/uploads/../keep.txt", ""))
	_, err := os.Stat(outside)
	assert.NoError(t, err)
}

func TestPhotoPrefixAndPDFCheck(t *testing.T) {
	assert.Equal(t, "action-shots-", PhotoPrefix("Action Shots"))
	assert.Equal(t, "photo-", PhotoPrefix(""))
	assert.True(t, IsPDF("packet.PDF"))
	assert.False(t, IsPDF("packet.txt"))
	assert.False(t, IsPDF("pdf"))
}

func TestUploadsSize(t *testing.T) {
	u := newTestUploads(t)
	_, _, err := u.Save(PrefixVideo, "clip.mp4", strings.NewReader("12345"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), u.Size())
}
