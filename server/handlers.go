package server

import (
	"errors"
	"net/http"

	"tracklist/config"
	"tracklist/core/broadcast"
	"tracklist/core/tracklist"
	"tracklist/core/view"
	"tracklist/logger"
	"tracklist/model"
	"tracklist/storage"

	"github.com/gorilla/mux"
)

const (
	msgInvalidSort = "Unknown sort column"
	msgStoreFailed = "Could not load tracks, please try again"
)

// APIHandler 处理所有请求
// It owns no state of its own: the view, the pipeline and the broadcaster
// are shared with the rest of the process.
type APIHandler struct {
	state    *view.State
	pipeline *tracklist.Pipeline
	events   *broadcast.Broadcaster
	assets   storage.AssetStore // optional, nil when MinIO is not configured
	cfg      *config.Config
}

// NewAPIHandler 创建新的API处理器
func NewAPIHandler(
	state *view.State,
	pipeline *tracklist.Pipeline,
	events *broadcast.Broadcaster,
	assets storage.AssetStore,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		state:    state,
		pipeline: pipeline,
		events:   events,
		assets:   assets,
		cfg:      cfg,
	}
}

func writeFragment(w http.ResponseWriter, status int, f *tracklist.Fragment) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(f.HTML)); err != nil {
		logger.Warn("failed to write fragment", logger.ErrorField(err))
	}
}

// renderCurrent renders the view as it is after this request's own mutation.
func (h *APIHandler) renderCurrent(w http.ResponseWriter, r *http.Request) {
	snap := h.state.Snapshot()
	f, err := h.pipeline.Render(r.Context(), snap)
	if err != nil {
		logger.Error("failed to render tracks",
			logger.ErrorField(err),
			logger.String("sort", string(snap.Sort)))
		writeFragment(w, http.StatusInternalServerError, tracklist.RenderError(msgStoreFailed))
		return
	}
	writeFragment(w, http.StatusOK, f)
}

// ListTracksHandler returns the table for the current view without changing it.
func (h *APIHandler) ListTracksHandler(w http.ResponseWriter, r *http.Request) {
	h.renderCurrent(w, r)
}

// SearchHandler sets the filter from ?search= and returns the table.
// A missing parameter clears the filter.
func (h *APIHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	h.state.SetFilter(r.URL.Query().Get("search"))
	h.renderCurrent(w, r)
}

// SortHandler sets the sort column. Anything but artist, album or title is
// rejected with 400 before the view or the store are touched.
func (h *APIHandler) SortHandler(w http.ResponseWriter, r *http.Request) {
	key, err := model.ParseSortKey(mux.Vars(r)["key"])
	if err == nil {
		err = h.state.SetSort(key)
	}
	if err != nil {
		if errors.Is(err, model.ErrInvalidSortKey) {
			logger.Warn("rejected sort key", logger.Int("length", len(mux.Vars(r)["key"])))
		}
		writeFragment(w, http.StatusBadRequest, tracklist.RenderError(msgInvalidSort))
		return
	}
	h.renderCurrent(w, r)
}

// PlayHandler acknowledges a play request for the requesting client only.
// Playback itself is not implemented.
func (h *APIHandler) PlayHandler(w http.ResponseWriter, r *http.Request) {
	logger.Info("play track", logger.String("id", mux.Vars(r)["id"]))
	writeFragment(w, http.StatusOK, tracklist.PlaybackIndicator())
}
