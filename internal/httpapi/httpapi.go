// Package httpapi implements spec.md §6's HTTP surface with
// github.com/gorilla/mux: GET /health, POST /repos, and
// GET /repos/{owner}/{repo}/{branch}/{link:.*}, plus two supplemental
// routes (GET /branches, POST .../listen) documented in DESIGN.md.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/lowcarboncode/gitdis/internal/constants"
	"github.com/lowcarboncode/gitdis/internal/errors"
	"github.com/lowcarboncode/gitdis/internal/gitdis"
	"github.com/lowcarboncode/gitdis/internal/service"
)

// NewRouter builds the mux.Router serving spec.md §6's three routes, plus
// two supplemental routes (see DESIGN.md): GET /branches, backing the
// `gitdis branch list` CLI command, and POST .../listen, backing
// `gitdis branch start`.
func NewRouter(svc *service.Service, log *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	h := &handler{svc: svc, log: log}

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/repos", h.addBranch).Methods(http.MethodPost)
	r.HandleFunc("/branches", h.listBranches).Methods(http.MethodGet)
	r.HandleFunc("/repos/{owner}/{repo}/{branch}/listen", h.listenBranch).Methods(http.MethodPost)
	r.HandleFunc("/repos/{owner}/{repo}/{branch}/{link:.*}", h.get).Methods(http.MethodGet)
	return r
}

type handler struct {
	svc *service.Service
	log *logrus.Logger
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type addRepoRequest struct {
	URL                       string `json:"url"`
	BranchName                string `json:"branch_name"`
	PullRequestIntervalMillis int    `json:"pull_request_interval_millis"`
	TargetPath                string `json:"target_path"`
}

func (h *handler) addBranch(w http.ResponseWriter, r *http.Request) {
	var req addRepoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.BranchName == "" {
		req.BranchName = constants.DefaultBranchName
	}
	if req.PullRequestIntervalMillis <= 0 {
		req.PullRequestIntervalMillis = constants.DefaultPullInterval
	}

	resp, err := h.svc.AddBranch(gitdis.BranchSettings{
		URL:            req.URL,
		BranchName:     req.BranchName,
		PullIntervalMs: req.PullRequestIntervalMillis,
		TargetPath:     req.TargetPath,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *handler) listBranches(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"branches": h.svc.ListBranches()})
}

// listenBranch starts the worker for an already-registered branch —
// spec.md §4.6's listen_branch, given an HTTP home alongside the three
// routes §6 names (see DESIGN.md). The worker outlives the request: its
// context is detached from the request's cancellation.
func (h *handler) listenBranch(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	branchKey := vars["owner"] + "/" + vars["repo"] + "/" + vars["branch"]

	if err := h.svc.ListenBranch(context.WithoutCancel(r.Context()), branchKey); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "syncing"})
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	branchKey := vars["owner"] + "/" + vars["repo"] + "/" + vars["branch"]
	link := vars["link"]

	known := false
	for _, b := range h.svc.ListBranches() {
		if b.Key == branchKey {
			known = true
			break
		}
	}
	if !known {
		h.writeError(w, errors.BranchNotFound(branchKey))
		return
	}

	v, ok := h.svc.Get(branchKey, link)
	if !ok {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errors.KindRepoExists) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	if errors.Is(err, errors.KindBranchNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	h.log.WithError(err).Error("httpapi: internal error")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
