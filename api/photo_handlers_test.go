package api_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"photogeoview/api"
	"photogeoview/model"
	"photogeoview/photo"
)

const testPassword = "opensesame"

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	handlers := &api.PhotoHandlers{
		Photos:       &photo.Service{Log: zap.NewNop()},
		Log:          zap.NewNop(),
		SecretKey:    "test-secret",
		PasswordHash: string(hash),
	}
	mux := http.NewServeMux()
	handlers.ServeHTTP(mux)
	return mux
}

func writeJPEG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, img, nil))
	return path
}

func doRequest(mux *http.ServeMux, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, mux *http.ServeMux, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(api.LoginRequest{Password: password})
	require.NoError(t, err)
	return doRequest(mux, httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body)))
}

func TestMetadataMissingPathParam(t *testing.T) {
	mux := newTestMux(t)
	rec := doRequest(mux, httptest.NewRequest(http.MethodGet, "/photos/metadata", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetadataFileNotFound(t *testing.T) {
	mux := newTestMux(t)
	target := "/photos/metadata?path=" + filepath.Join(t.TempDir(), "gone.jpg")
	rec := doRequest(mux, httptest.NewRequest(http.MethodGet, target, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetadataUnparseableContainer(t *testing.T) {
	mux := newTestMux(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("no tags"), 0o644))

	rec := doRequest(mux, httptest.NewRequest(http.MethodGet, "/photos/metadata?path="+path, nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestThumbnailEndpoint(t *testing.T) {
	mux := newTestMux(t)
	path := writeJPEG(t, t.TempDir(), "pic.jpg", 64, 48)

	rec := doRequest(mux, httptest.NewRequest(http.MethodGet, "/photos/thumbnail?path="+path, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, strings.HasPrefix(body["thumbnail"], "data:image/jpeg;base64,"))
}

func TestThumbnailInvalidMax(t *testing.T) {
	mux := newTestMux(t)
	path := writeJPEG(t, t.TempDir(), "pic.jpg", 16, 16)

	rec := doRequest(mux, httptest.NewRequest(http.MethodGet, "/photos/thumbnail?path="+path+"&max=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPhotoDataEndpoint(t *testing.T) {
	mux := newTestMux(t)
	path := writeJPEG(t, t.TempDir(), "pic.jpg", 64, 48)

	rec := doRequest(mux, httptest.NewRequest(http.MethodGet, "/photos/data?path="+path, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var data model.PhotoData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Equal(t, "pic.jpg", data.Filename)
	assert.NotNil(t, data.Thumbnail)
	assert.Nil(t, data.Exif)
}

func TestBrowseEndpoint(t *testing.T) {
	mux := newTestMux(t)
	dir := t.TempDir()
	writeJPEG(t, dir, "pic.jpg", 16, 16)

	rec := doRequest(mux, httptest.NewRequest(http.MethodGet, "/browse?path="+dir, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var content model.DirectoryContent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &content))
	require.Len(t, content.Entries, 1)
	assert.Equal(t, "pic.jpg", content.Entries[0].Name)
}

func TestScanEndpoint(t *testing.T) {
	mux := newTestMux(t)
	dir := t.TempDir()
	writeJPEG(t, dir, "pic.jpg", 16, 16)

	rec := doRequest(mux, httptest.NewRequest(http.MethodGet, "/scan?path="+dir+"&recursive=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var paths []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &paths))
	assert.Equal(t, []string{filepath.Join(dir, "pic.jpg")}, paths)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	mux := newTestMux(t)
	rec := login(t, mux, "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginIssuesToken(t *testing.T) {
	mux := newTestMux(t)
	rec := login(t, mux, testPassword)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["token"])
}

func TestCatalogRequiresAuth(t *testing.T) {
	mux := newTestMux(t)
	rec := doRequest(mux, httptest.NewRequest(http.MethodGet, "/catalog/near?lng=0&lat=0", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCatalogDisabledWithoutStore(t *testing.T) {
	mux := newTestMux(t)

	rec := login(t, mux, testPassword)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	req := httptest.NewRequest(http.MethodPost, "/catalog", strings.NewReader(`{"path":"/tmp/x.jpg"}`))
	req.Header.Set("Authorization", "Bearer "+body["token"])
	rec = doRequest(mux, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
