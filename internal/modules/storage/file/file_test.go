package file

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/ministry-site/core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

func multipartRequest(t *testing.T, path, field, filename, contentType string, payload []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func newRouter(u *Uploader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/upload", u.Handler(KindImage, "imageUrl"))
	r.POST("/audio", u.Handler(KindAudio, "audioUrl"))
	return r
}

func TestUploadImageToLocalDisk(t *testing.T) {
	dir := t.TempDir()
	u := NewUploader(NewLocalBackend(dir, "/uploads/"), 1<<20)
	r := newRouter(u)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/upload", "image", "Cover.PNG", "image/png", pngBytes))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := w.Body.String()
	assert.Contains(t, body, `"imageUrl":"/uploads/images/`)
	assert.Contains(t, body, `.png"`)

	entries, err := os.ReadDir(filepath.Join(dir, "images"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Len(t, entries[0].Name(), 18+len(".png"))
}

func TestUploadRejections(t *testing.T) {
	u := NewUploader(NewLocalBackend(t.TempDir(), "/uploads"), 32)
	r := newRouter(u)

	cases := []struct {
		name    string
		req     *http.Request
		message string
	}{
		{"bad extension", multipartRequest(t, "/upload", "image", "script.exe", "image/png", pngBytes[:16]), "file type not allowed"},
		{"html disguised as png", multipartRequest(t, "/upload", "image", "x.png", "image/png", []byte("<html><body>hi</body></html>")), "does not match"},
		{"too large", multipartRequest(t, "/upload", "image", "x.png", "image/png", pngBytes), "byte limit"},
		{"missing field", multipartRequest(t, "/upload", "other", "x.png", "image/png", pngBytes[:16]), "file is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, tc.req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"field":"image"`)
			assert.Contains(t, w.Body.String(), tc.message)
		})
	}
}

func TestUploadAudio(t *testing.T) {
	u := NewUploader(NewLocalBackend(t.TempDir(), "/uploads"), 1<<20)
	r := newRouter(u)

	id3 := append([]byte("ID3\x03\x00"), bytes.Repeat([]byte{1}, 32)...)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/audio", "audio", "psalm.mp3", "audio/mpeg", id3))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"audioUrl":"/uploads/audios/`)

	// a bare MPEG frame sniffs as octet-stream and is accepted on its declared type
	frame := append([]byte{0xFF, 0xFB, 0x90, 0x64}, bytes.Repeat([]byte{0}, 64)...)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/audio", "audio", "hymn.mp3", "audio/mpeg", frame))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `.mp3"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/audio", "audio", "hymn.mp3", "application/octet-stream", frame))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// image bytes are not audio even with an audio extension
	w = httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/audio", "audio", "psalm.mp3", "audio/mpeg", pngBytes))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"audio"`)
}

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3BackendPut(t *testing.T) {
	fake := &fakeS3{}
	b := &S3Backend{client: fake, bucket: "media", prefix: "site", publicURL: "https://cdn.example.com"}

	url, err := b.Put(context.Background(), "images/abc.png", bytes.NewReader(pngBytes), int64(len(pngBytes)), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/site/images/abc.png", url)
	assert.Equal(t, "media", aws.ToString(fake.in.Bucket))
	assert.Equal(t, "site/images/abc.png", aws.ToString(fake.in.Key))
	assert.Equal(t, "image/png", aws.ToString(fake.in.ContentType))
	assert.Equal(t, pngBytes, fake.body)
}

func TestObjectBaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn.x", objectBaseURL("https://cdn.x/", "", "b", "r", false))
	assert.Equal(t, "https://minio.local/b", objectBaseURL("", "https://minio.local", "b", "r", true))
	assert.Equal(t, "https://b.r2.dev", objectBaseURL("", "https://r2.dev", "b", "r", false))
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com", objectBaseURL("", "", "b", "eu-west-1", false))
}

func TestNewS3BackendRequiresBucket(t *testing.T) {
	_, err := NewS3Backend(s3ConfigFor(""))
	assert.Error(t, err)
	b, err := NewS3Backend(s3ConfigFor("media"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(b.publicURL, "https://minio.local"))
}

func s3ConfigFor(bucket string) config.S3Config {
	return config.S3Config{Enable: true, Bucket: bucket, Region: "us-east-1", Endpoint: "minio.local"}
}
