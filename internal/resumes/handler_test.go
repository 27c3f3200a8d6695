package resumes

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-assistant/internal/extract"
	"resume-assistant/internal/shared/storage/object/local"
	"resume-assistant/internal/users"
)

const documentXML = `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>Staff engineer, 12 years of Go</w:t></w:r></w:p></w:body></w:document>`

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type fixture struct {
	router *gin.Engine
	repo   *users.MemoryRepo
	store  *local.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := users.NewMemoryRepo()
	_, err := repo.Insert(context.Background(), users.User{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	store := local.New(t.TempDir())
	router := gin.New()
	NewHandler(NewService(users.NewService(repo), store)).RegisterRoutes(router)
	return fixture{router: router, repo: repo, store: store}
}

func docxBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func upload(t *testing.T, router http.Handler, fields map[string]string, fileName string, data []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		part, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-resume", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), resp.Body.String())
	return resp, env
}

func TestUploadDocxUpdatesRecord(t *testing.T) {
	f := newFixture(t)

	resp, env := upload(t, f.router, map[string]string{"email": "ada@example.com"}, "cv.docx", docxBytes(t))
	require.Equal(t, http.StatusOK, resp.Code)
	require.True(t, env.Success, env.Error)

	var result UploadResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, extract.MimeDOCX, result.MimeType)
	assert.Equal(t, "cv.docx", result.User.ResumeName)
	assert.Equal(t, "Staff engineer, 12 years of Go", result.User.ResumeData)

	stored, err := f.repo.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Staff engineer, 12 years of Go", stored.ResumeData)

	rc, err := f.store.Open(context.Background(), result.StorageKey+extract.ExtractedSuffix)
	require.NoError(t, err)
	defer rc.Close()
	text, _ := io.ReadAll(rc)
	assert.Equal(t, stored.ResumeData, string(text))
}

func TestUploadUsesProvidedResumeName(t *testing.T) {
	f := newFixture(t)

	_, env := upload(t, f.router, map[string]string{"email": "ada@example.com", "resumeName": "Backend CV"}, "cv.docx", docxBytes(t))
	require.True(t, env.Success, env.Error)

	stored, err := f.repo.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Backend CV", stored.ResumeName)
}

func TestUploadLogicalFailures(t *testing.T) {
	tests := []struct {
		name     string
		fields   map[string]string
		fileName string
		data     []byte
		want     string
	}{
		{name: "missing file", fields: map[string]string{"email": "ada@example.com"}, want: "Please add your resume"},
		{name: "missing email", fields: map[string]string{}, fileName: "cv.docx", data: []byte("x"), want: "Please add your resume"},
		{name: "unknown user", fields: map[string]string{"email": "ghost@example.com"}, fileName: "cv.docx", data: []byte("x"), want: "No user found"},
		{name: "plain text", fields: map[string]string{"email": "ada@example.com"}, fileName: "cv.txt", data: []byte("just some text"), want: "Unsupported resume format"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			resp, env := upload(t, f.router, tt.fields, tt.fileName, tt.data)
			assert.Equal(t, http.StatusOK, resp.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.want, env.Error)

			stored, err := f.repo.FindByEmail(context.Background(), "ada@example.com")
			require.NoError(t, err)
			assert.Empty(t, stored.ResumeData)
		})
	}
}

func TestUploadRejectsOversizedPayload(t *testing.T) {
	f := newFixture(t)

	big := make([]byte, MaxUploadBytes+1)
	svc := NewService(users.NewService(f.repo), f.store)
	_, err := svc.Upload(context.Background(), UploadInput{Email: "ada@example.com", FileName: "cv.pdf", Body: bytes.NewReader(big)})
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestUnsupportedUploadIsNotStored(t *testing.T) {
	repo := users.NewMemoryRepo()
	_, err := repo.Insert(context.Background(), users.User{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	root := t.TempDir()
	svc := NewService(users.NewService(repo), local.New(root))

	_, err = svc.Upload(context.Background(), UploadInput{Email: "ada@example.com", FileName: "notes.txt", Body: strings.NewReader("plain notes")})
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected files must not reach the object store")
}
