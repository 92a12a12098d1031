package storage

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/textproto"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 32)...)
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
)

// fileHeader 构造一个与 gin 解析结果一致的 multipart.FileHeader。
func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="document"; filename="`+filename+`"`)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File["document"]
	require.Len(t, files, 1)
	return files[0]
}

func newTestManager(t *testing.T, maxBytes int64) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir(), "/uploads/", maxBytes)
	require.NoError(t, err)
	return m
}

func dirEntries(t *testing.T, m *Manager) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(m.Dir())
	require.NoError(t, err)
	return entries
}

func TestSaveWritesAllowedFile(t *testing.T) {
	m := newTestManager(t, 0)
	m.now = func() time.Time { return time.UnixMilli(1700000000000) }

	stored, err := m.Save(fileHeader(t, "My CV.pdf", "application/pdf", pdfBytes))
	require.NoError(t, err)

	assert.Equal(t, "1700000000000-My_CV.pdf", stored.Name)
	assert.Equal(t, "My CV.pdf", stored.OriginalName)
	assert.Equal(t, "/uploads/1700000000000-My_CV.pdf", stored.URL)
	assert.Equal(t, int64(len(pdfBytes)), stored.Size)
	assert.Equal(t, "application/pdf", stored.MIME)
	assert.True(t, m.Exists(stored.URL))
	assert.Equal(t, DefaultMaxBytes, m.MaxBytes())
}

func TestSaveAvoidsNameCollisions(t *testing.T) {
	m := newTestManager(t, 0)
	m.now = func() time.Time { return time.UnixMilli(1700000000000) }

	first, err := m.Save(fileHeader(t, "a.png", "image/png", pngBytes))
	require.NoError(t, err)
	second, err := m.Save(fileHeader(t, "a.png", "image/png", pngBytes))
	require.NoError(t, err)

	assert.NotEqual(t, first.Name, second.Name)
	assert.True(t, strings.HasPrefix(second.Name, "1700000000000-"))
	assert.Len(t, dirEntries(t, m), 2)
}

func TestSaveRejectsWithoutWriting(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		content     []byte
		maxBytes    int64
		want        error
	}{
		{name: "disallowed extension", filename: "tool.exe", contentType: "application/octet-stream", content: []byte("MZ\x90\x00"), want: ErrUnsupportedType},
		{name: "no extension", filename: "README", contentType: "text/plain", content: []byte("hello"), want: ErrUnsupportedType},
		{name: "disguised content", filename: "photo.png", contentType: "application/x-msdownload", content: []byte("MZ\x90\x00 not an image"), want: ErrUnsupportedType},
		{name: "too large", filename: "big.pdf", contentType: "application/pdf", content: pdfBytes, maxBytes: 8, want: ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t, tt.maxBytes)

			stored, err := m.Save(fileHeader(t, tt.filename, tt.contentType, tt.content))
			assert.Nil(t, stored)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, dirEntries(t, m))
		})
	}
}

func TestSaveAcceptsDeclaredTypeWhenSniffingIsInconclusive(t *testing.T) {
	m := newTestManager(t, 0)

	stored, err := m.Save(fileHeader(t, "track.mp3", "audio/mpeg", []byte("raw frames without a header")))
	require.NoError(t, err)
	assert.Equal(t, "audio/mpeg", stored.MIME)
	assert.Equal(t, "audio", Kind(stored.MIME))
}

func TestSaveNilHeader(t *testing.T) {
	_, err := newTestManager(t, 0).Save(nil)
	assert.ErrorIs(t, err, ErrNoFile)
}

func TestRemove(t *testing.T) {
	m := newTestManager(t, 0)
	stored, err := m.Save(fileHeader(t, "a.png", "image/png", pngBytes))
	require.NoError(t, err)

	require.NoError(t, m.Remove(stored.URL))
	assert.False(t, m.Exists(stored.URL))
	assert.ErrorIs(t, m.Remove(stored.URL), ErrFileMissing)

	for _, bad := range []string{"", "/uploads/", "/uploads/../secret", "/other/a.png", "/uploads/a/b.png", "/uploads/.."} {
		assert.ErrorIs(t, m.Remove(bad), ErrInvalidPath, bad)
	}
}

func TestCompensateRemovesFileWhenInsertFails(t *testing.T) {
	m := newTestManager(t, 0)
	stored, err := m.Save(fileHeader(t, "a.png", "image/png", pngBytes))
	require.NoError(t, err)

	insertErr := errors.New("insert failed")
	err = Compensate(m, stored, func() error { return insertErr })

	assert.ErrorIs(t, err, insertErr)
	assert.False(t, m.Exists(stored.URL))
	assert.Empty(t, dirEntries(t, m))
}

func TestCompensateKeepsFileOnSuccess(t *testing.T) {
	m := newTestManager(t, 0)
	stored, err := m.Save(fileHeader(t, "a.png", "image/png", pngBytes))
	require.NoError(t, err)

	require.NoError(t, Compensate(m, stored, func() error { return nil }))
	assert.True(t, m.Exists(stored.URL))
}

type failingRemover struct{ err error }

func (f failingRemover) Remove(string) error { return f.err }

func TestCompensateReportsCleanupFailure(t *testing.T) {
	insertErr := errors.New("insert failed")
	cleanupErr := errors.New("disk gone")

	err := Compensate(failingRemover{err: cleanupErr}, &StoredFile{URL: "/uploads/x"}, func() error { return insertErr })
	assert.ErrorIs(t, err, insertErr)
	assert.ErrorIs(t, err, cleanupErr)

	err = Compensate(failingRemover{err: ErrFileMissing}, &StoredFile{URL: "/uploads/x"}, func() error { return insertErr })
	assert.ErrorIs(t, err, insertErr)
	assert.NotErrorIs(t, err, ErrFileMissing)
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"report.pdf":          "report.pdf",
		"../../etc/passwd":    "passwd",
		`C:\Users\me\cv.docx`: "cv.docx",
		"résumé final.doc":    "resume_final.doc",
		".hidden.png":         "hidden.png",
		"":                    "file",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeName(in), in)
	}

	transliterated := sanitizeName("简历.pdf")
	assert.Regexp(t, `^[A-Za-z0-9_\-.]+\.pdf$`, transliterated)
	assert.NotEqual(t, "__.pdf", transliterated)
}

func TestKind(t *testing.T) {
	assert.Equal(t, "image", Kind("image/png"))
	assert.Equal(t, "video", Kind("video/mp4"))
	assert.Equal(t, "audio", Kind("audio/wav"))
	assert.Equal(t, "file", Kind("application/pdf"))
}
