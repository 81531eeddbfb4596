package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eduvault/internal/domain"
	"eduvault/internal/service"
	"eduvault/internal/storage"
	"eduvault/internal/store"
	"eduvault/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUploader struct {
	parts []storage.Part
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, parts []storage.Part) (map[string]storage.Blob, error) {
	f.parts = parts
	if len(parts) == 0 {
		return nil, domain.NewValidationError("No files provided")
	}
	if f.err != nil {
		return nil, f.err
	}
	blobs := map[string]storage.Blob{}
	for _, p := range parts {
		blobs[p.Field] = storage.Blob{URL: "https://cdn.test/" + p.Filename, Pathname: p.Filename}
	}
	return blobs, nil
}

type testApp struct {
	router   *gin.Engine
	store    *store.MemoryStore
	uploader *fakeUploader
}

func newTestApp(t *testing.T, secret string) *testApp {
	t.Helper()
	st := store.NewMemoryStore()
	up := &fakeUploader{}
	r := NewRouter(Dependencies{
		Profiles:  service.NewProfileService(st, nil, secret, time.Second),
		Materials: service.NewMaterialService(st),
		Uploader:  up,
	})
	return &testApp{router: r, store: st, uploader: up}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, path string, body any) *http.Request {
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == utils.SessionCookie {
			return c
		}
	}
	return nil
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (a *testApp) register(t *testing.T, body map[string]any) *http.Cookie {
	t.Helper()
	w := a.do(jsonRequest(http.MethodPost, "/profile", body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	c := sessionCookie(t, w)
	require.NotNil(t, c)
	return c
}

// --- /profile ---

func TestCreateProfile(t *testing.T) {
	app := newTestApp(t, testSecret)

	w := app.do(jsonRequest(http.MethodPost, "/profile", map[string]any{
		"fullName":      "Ada Lovelace",
		"email":         "ada@uni.edu",
		"walletAddress": "0xABC",
	}))
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["emailSent"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "ada@uni.edu", user["email"])
	assert.Equal(t, "0xABC", user["walletAddress"])
	assert.Equal(t, "0xabc", user["walletAddressLower"])
	assert.Nil(t, user["institution"])
	assert.NotEmpty(t, user["id"])

	c := sessionCookie(t, w)
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 7*24*60*60, c.MaxAge)
	assert.False(t, c.Secure)

	claims, err := utils.ParseJWT(c.Value, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user["id"], claims.Subject)
}

func TestCreateProfile_MissingFields(t *testing.T) {
	app := newTestApp(t, testSecret)

	for _, body := range []map[string]any{
		{"email": "ada@uni.edu"},
		{"fullName": "Ada"},
		{"fullName": "  ", "email": "ada@uni.edu"},
	} {
		w := app.do(jsonRequest(http.MethodPost, "/profile", body))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, sessionCookie(t, w))
	}
	_, err := app.store.FindByIdentity(context.Background(), "ada@uni.edu", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateProfile_Conflict(t *testing.T) {
	app := newTestApp(t, testSecret)
	app.register(t, map[string]any{"fullName": "Ada", "email": "ada@uni.edu", "walletAddress": "0xABC"})

	w := app.do(jsonRequest(http.MethodPost, "/profile", map[string]any{
		"fullName": "Bob", "email": "bob@uni.edu", "walletAddress": "0xabc",
	}))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Nil(t, sessionCookie(t, w))
}

func TestCreateProfile_CookielessWithoutSecret(t *testing.T) {
	app := newTestApp(t, "")

	w := app.do(jsonRequest(http.MethodPost, "/profile", map[string]any{"fullName": "Ada", "email": "ada@uni.edu"}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, sessionCookie(t, w))
	assert.Equal(t, true, decode(t, w)["success"])
}

func TestLookupProfile(t *testing.T) {
	app := newTestApp(t, testSecret)
	app.register(t, map[string]any{"fullName": "Ada", "email": "ada@uni.edu", "walletAddress": "0xabc"})

	w := app.do(httptest.NewRequest(http.MethodGet, "/profile?address=0xABC", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["exists"])
	assert.Equal(t, "ada@uni.edu", body["user"].(map[string]any)["email"])
	assert.NotNil(t, sessionCookie(t, w))

	w = app.do(httptest.NewRequest(http.MethodGet, "/profile?address=0xdef", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, false, body["exists"])
	assert.Nil(t, body["user"])
	assert.Nil(t, sessionCookie(t, w))

	w = app.do(httptest.NewRequest(http.MethodGet, "/profile", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing address", decode(t, w)["error"])
}

// --- /upload ---

func multipartRequest(t *testing.T, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, name := range files {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("content of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("note", "ignored"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload(t *testing.T) {
	app := newTestApp(t, testSecret)

	w := app.do(multipartRequest(t, map[string]string{"file": "notes.pdf", "thumbnail": "cover.png"}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "https://cdn.test/notes.pdf", body["file"].(map[string]any)["url"])
	assert.Equal(t, "https://cdn.test/cover.png", body["thumbnail"].(map[string]any)["url"])
	assert.Len(t, app.uploader.parts, 2)
}

func TestUpload_NoFiles(t *testing.T) {
	app := newTestApp(t, testSecret)

	w := app.do(multipartRequest(t, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No files provided", decode(t, w)["error"])
}

func TestUpload_NotConfigured(t *testing.T) {
	app := newTestApp(t, testSecret)
	app.uploader.err = &domain.ConfigurationError{Setting: "BLOB_READ_WRITE_TOKEN", Message: "set BLOB_READ_WRITE_TOKEN in your env to enable uploads"}

	w := app.do(multipartRequest(t, map[string]string{"file": "notes.pdf"}))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decode(t, w)["error"], "BLOB_READ_WRITE_TOKEN")
}

func TestUpload_ProviderFailureIsGeneric(t *testing.T) {
	app := newTestApp(t, testSecret)
	app.uploader.err = &domain.UpstreamError{Op: "upload file", Err: assert.AnError}

	w := app.do(multipartRequest(t, map[string]string{"file": "notes.pdf"}))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server error", decode(t, w)["error"])
}

// --- /dashboard ---

func dashboardRequest(method, path string, cookie *http.Cookie, body any) *http.Request {
	var req *http.Request
	if body != nil {
		req = jsonRequest(method, path, body)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func TestDashboard_RedirectsWithoutCookie(t *testing.T) {
	app := newTestApp(t, testSecret)

	for _, path := range []string{"/dashboard", "/dashboard/my-materials", "/dashboard/settings"} {
		w := app.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/", w.Header().Get("Location"), path)
	}
}

func TestDashboard_RedirectsOnBadSession(t *testing.T) {
	app := newTestApp(t, testSecret)

	forged, err := utils.GenerateJWT(utils.ClaimsForUser(&domain.User{ID: "u1", Email: "a@b.com"}), "attacker")
	require.NoError(t, err)
	expired, err := utils.GenerateJWTAt(utils.ClaimsForUser(&domain.User{ID: "u1"}), testSecret, time.Now().Add(-8*24*time.Hour))
	require.NoError(t, err)
	ghost, err := utils.GenerateJWT(utils.ClaimsForUser(&domain.User{ID: "ghost"}), testSecret)
	require.NoError(t, err)

	for name, token := range map[string]string{"forged": forged, "expired": expired, "unknown subject": ghost, "garbage": "not.a.jwt"} {
		w := app.do(dashboardRequest(http.MethodGet, "/dashboard", &http.Cookie{Name: utils.SessionCookie, Value: token}, nil))
		assert.Equal(t, http.StatusFound, w.Code, name)
		assert.Equal(t, "/", w.Header().Get("Location"), name)
	}
}

func TestDashboard_RedirectsWhenSecretUnset(t *testing.T) {
	app := newTestApp(t, "")
	token, err := utils.GenerateJWT(utils.ClaimsForUser(&domain.User{ID: "u1"}), testSecret)
	require.NoError(t, err)

	w := app.do(dashboardRequest(http.MethodGet, "/dashboard", &http.Cookie{Name: utils.SessionCookie, Value: token}, nil))
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestDashboard_ReturnsUser(t *testing.T) {
	app := newTestApp(t, testSecret)
	cookie := app.register(t, map[string]any{"fullName": "Ada", "email": "ada@uni.edu"})

	w := app.do(dashboardRequest(http.MethodGet, "/dashboard", cookie, nil))
	require.Equal(t, http.StatusOK, w.Code)
	user := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "ada@uni.edu", user["email"])
}

func TestMyMaterials(t *testing.T) {
	app := newTestApp(t, testSecret)
	cookie := app.register(t, map[string]any{"fullName": "Ada", "email": "ada@uni.edu", "walletAddress": "0xABC"})

	for _, title := range []string{"First", "Second"} {
		w := app.do(dashboardRequest(http.MethodPost, "/dashboard/my-materials", cookie, map[string]any{
			"title": title, "fileUrl": "https://cdn.test/" + title,
		}))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		material := decode(t, w)["material"].(map[string]any)
		assert.Equal(t, "0xABC", material["userAddress"])
		assert.Equal(t, "public", material["visibility"])
		time.Sleep(2 * time.Millisecond)
	}

	w := app.do(dashboardRequest(http.MethodGet, "/dashboard/my-materials?page_size=1", cookie, nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 2, body["total"])
	assert.EqualValues(t, 2, body["total_pages"])
	items := body["materials"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Second", items[0].(map[string]any)["title"])

	w = app.do(dashboardRequest(http.MethodPost, "/dashboard/my-materials", cookie, map[string]any{"title": "No file"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMyMaterials_PageOutOfRange(t *testing.T) {
	app := newTestApp(t, testSecret)
	cookie := app.register(t, map[string]any{"fullName": "Ada", "email": "ada@uni.edu"})

	w := app.do(dashboardRequest(http.MethodGet, "/dashboard/my-materials?page=9223372036854775807", cookie, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Page out of range", decode(t, w)["error"])

	// The largest page that still fits is an empty page, not an error
	w = app.do(dashboardRequest(http.MethodGet, "/dashboard/my-materials?page=1000000&page_size=100", cookie, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["materials"])
}

func TestLookupProfile_VerbatimAddress(t *testing.T) {
	app := newTestApp(t, testSecret)
	app.register(t, map[string]any{"fullName": "Ada", "email": "ada@uni.edu", "walletAddress": " 0xAbC "})

	w := app.do(httptest.NewRequest(http.MethodGet, "/profile?address=%200xAbC%20", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["exists"])

	w = app.do(httptest.NewRequest(http.MethodGet, "/profile?address=%20%20", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t, testSecret)

	w := app.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])

	w = app.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "eduvault_http_requests_total"))
}
