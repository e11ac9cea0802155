package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfdb/models"
	"pfdb/pkg/config"
)

// newTestRouter serves every route without a database; only handlers that
// never reach the store can be exercised with it.
func newTestRouter(t *testing.T) (*gin.Engine, *server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := newServer(config.Default(), nil)
	r := gin.New()
	s.routes(r)
	return r, s
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func TestParseHandler(t *testing.T) {
	r, _ := newTestRouter(t)
	dump, err := os.ReadFile(filepath.Join("pkg", "parse", "testdata", "an94_1001.txt"))
	require.NoError(t, err)

	body := jsonBody(t, map[string]string{"weapon": "10.0.1/AssaultRifles/11", "text": string(dump)})
	resp := performRequest(r, http.MethodPost, "/parse", body, "", "application/json")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var out struct {
		Weapon     string `json:"weapon"`
		Number     int64  `json:"number"`
		Statistics []struct {
			Kind   string   `json:"kind"`
			Values []string `json:"values"`
		} `json:"statistics"`
		Missing []string `json:"missing"`
		Text    string   `json:"text"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, "10.0.1/AssaultRifles/11/0", out.Weapon)
	assert.GreaterOrEqual(t, len(out.Statistics), 30)
	assert.Len(t, out.Missing, 2)
	assert.Contains(t, out.Text, "AMMO CAPACITY ")
}

func TestParseHandlerRejectsBadInput(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := performRequest(r, http.MethodPost, "/parse", bytes.NewBufferString("{"), "", "application/json")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	body := jsonBody(t, map[string]string{"weapon": "10.0.1/NoSuchThing/11", "text": "RANK 11"})
	resp = performRequest(r, http.MethodPost, "/parse", body, "", "application/json")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	body = jsonBody(t, map[string]string{"weapon": "10.0.1/AssaultRifles/11"})
	resp = performRequest(r, http.MethodPost, "/parse", body, "", "application/json")
	assert.Equal(t, http.StatusBadRequest, resp.Code, "text is required")
}

func TestAuthMiddleware(t *testing.T) {
	r, s := newTestRouter(t)
	user := models.User{ID: 7, Username: "alice", Role: models.Role{Name: models.RoleUser}}

	resp := performRequest(r, http.MethodGet, "/me", nil, "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	resp = performRequest(r, http.MethodGet, "/me", nil, "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	token, err := s.issueAccessToken(user, time.Hour)
	require.NoError(t, err)
	resp = performRequest(r, http.MethodGet, "/me", nil, token, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"username":"alice","role":"user"}`, resp.Body.String())

	// administrators only
	resp = performRequest(r, http.MethodGet, "/revisions", nil, token, "")
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = performRequest(r, http.MethodGet, "/weapons/abc/text", nil, token, "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	other := &server{secret: []byte("another-secret"), now: time.Now}
	forged, err := other.issueAccessToken(user, time.Hour)
	require.NoError(t, err)
	resp = performRequest(r, http.MethodGet, "/me", nil, forged, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestExpiredToken(t *testing.T) {
	r, s := newTestRouter(t)
	s.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	token, err := s.issueAccessToken(models.User{ID: 1, Username: "bob"}, time.Hour)
	require.NoError(t, err)
	s.now = time.Now
	resp := performRequest(r, http.MethodGet, "/me", nil, token, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCaptureHandlerValidatesBeforeSaving(t *testing.T) {
	r, s := newTestRouter(t)
	s.cfg.Server.UploadDir = t.TempDir()
	token, err := s.issueAccessToken(models.User{ID: 3, Username: "carol"}, time.Hour)
	require.NoError(t, err)

	body, ctype := multipartBody(t, map[string]string{"weapon": "nope"}, "shot.png", "image/png", []byte("png"))
	resp := performRequest(r, http.MethodPost, "/captures", body, token, ctype)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	body, ctype = multipartBody(t, map[string]string{"weapon": "10.0.1/AssaultRifles/11"}, "shot.gif", "image/gif", []byte("gif"))
	resp = performRequest(r, http.MethodPost, "/captures", body, token, ctype)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.Code)

	entries, err := os.ReadDir(s.cfg.Server.UploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
