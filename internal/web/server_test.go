package web

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulselab/brandtune/internal/report"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "songs"), 0o755))
	return NewServer(ServerConfig{OutputDir: dir}), dir
}

func TestHealthz(t *testing.T) {
	s, _ := testServer(t)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReportMissing(t *testing.T) {
	s, _ := testServer(t)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/report", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportServed(t *testing.T) {
	s, dir := testServer(t)
	body := `{"run_id":"run-1","topics":[]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, report.FileName), []byte(body), 0o644))

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/report", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, body, rec.Body.String())
}

func TestSongFileServed(t *testing.T) {
	s, dir := testServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "songs", "topic_0_song.wav"), []byte("RIFFdata"), 0o644))

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/songs/topic_0_song.wav", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "RIFFdata", rec.Body.String())
}
