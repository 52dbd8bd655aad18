package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowcarboncode/gitdis/internal/gitdis"
	"github.com/lowcarboncode/gitdis/internal/service"
)

func newTestRouter(t *testing.T) (*service.Service, http.Handler) {
	t.Helper()
	co := gitdis.New(gitdis.GitdisSettings{TotalCacheItems: 100, CloneRoot: t.TempDir()}, nil)
	svc := service.New(co)
	return svc, NewRouter(svc, logrus.New())
}

func TestHealth(t *testing.T) {
	_, router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAddRepo_Created(t *testing.T) {
	_, router := newTestRouter(t)
	body, _ := json.Marshal(map[string]any{"url": "https://github.com/acme/demo.git"})
	req := httptest.NewRequest(http.MethodPost, "/repos", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp service.AddBranchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "acme/demo/main", resp.Key)
}

func TestAddRepo_DuplicateConflict(t *testing.T) {
	_, router := newTestRouter(t)
	body, _ := json.Marshal(map[string]any{"url": "https://github.com/acme/demo.git"})

	req := httptest.NewRequest(http.MethodPost, "/repos", bytes.NewReader(body))
	router.ServeHTTP(httptest.NewRecorder(), req)

	req2 := httptest.NewRequest(http.MethodPost, "/repos", bytes.NewReader(body))
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	assert.Equal(t, http.StatusConflict, rec2.Code)
}

func TestGet_UnknownKeyIsNull(t *testing.T) {
	svc, router := newTestRouter(t)
	settings := gitdis.BranchSettings{URL: "https://github.com/acme/demo.git", BranchName: "main", PullIntervalMs: 1000}
	_, err := svc.AddBranch(settings)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/repos/acme/demo/main/app.name", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null\n", rec.Body.String())
}
