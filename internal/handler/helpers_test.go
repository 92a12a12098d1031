package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/auth"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 32)...)
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
)

type testEnv struct {
	api    *API
	db     *gorm.DB
	files  *storage.Manager
	tokens *auth.Tokens
}

func setupTestAPI(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := db.SQLiteDSN(fmt.Sprintf("file:handler-test-%d?mode=memory&cache=shared", testDBSeq.Add(1)))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	if err := db.EnsureAdmin(gdb, "admin", "s3cret", "admin@example.com"); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	t.Cleanup(func() { db.Close(gdb) })

	files, err := storage.NewManager(t.TempDir(), "/uploads", 4096)
	if err != nil {
		t.Fatalf("failed to create upload manager: %v", err)
	}

	tokens := auth.NewTokens("handler-test-secret", time.Hour)
	return &testEnv{api: NewAPI(gdb, files, tokens), db: gdb, files: files, tokens: tokens}
}

// adminToken issues a token for the seeded admin.
func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	var account db.AdminAccount
	if err := e.db.Where("username = ?", "admin").First(&account).Error; err != nil {
		t.Fatalf("failed to load admin: %v", err)
	}
	token, _, err := e.tokens.Issue(auth.Identity{ID: account.ID, Username: account.Username})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

func newJSONRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

type formFilePart struct {
	field, filename, contentType string
	content                      []byte
}

func newMultipartRequest(t *testing.T, target string, fields map[string]string, file *formFilePart) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if file != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, file.field, file.filename))
		header.Set("Content-Type", file.contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		part.Write(file.content)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func withBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}
