package server

import (
	"errors"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"tracklist/logger"
	"tracklist/storage"
)

// StaticHandler serves embedded assets, then the optional asset store, and
// answers 404 with a literal "404" body otherwise.
type StaticHandler struct {
	files fs.FS
	store storage.AssetStore
}

// NewStaticHandler creates a StaticHandler. store may be nil.
func NewStaticHandler(files fs.FS, store storage.AssetStore) *StaticHandler {
	return &StaticHandler{files: files, store: store}
}

// ServeHTTP 实现 http.Handler 接口
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		notFound(w)
		return
	}

	if data, err := fs.ReadFile(h.files, name); err == nil {
		w.Header().Set("Content-Type", detectContentType(name, data))
		w.Write(data)
		return
	}

	if h.store == nil {
		notFound(w)
		return
	}

	asset, err := h.store.Open(r.Context(), name)
	if err != nil {
		if !errors.Is(err, storage.ErrAssetNotFound) {
			logger.Warn("asset store lookup failed", logger.ErrorField(err), logger.String("path", name))
		}
		notFound(w)
		return
	}
	defer asset.Close()

	contentType := asset.ContentType
	if contentType == "" {
		contentType = detectContentType(name, nil)
	}
	w.Header().Set("Content-Type", contentType)
	if asset.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(asset.Size, 10))
	}
	n, err := io.Copy(w, asset)
	if err != nil {
		logger.Error("Error serving asset from store", logger.ErrorField(err))
		return
	}
	logger.Debug("served asset from store", logger.String("path", name), logger.Int64("bytes", n))
}

// IndexHandler serves the page shell.
func (h *StaticHandler) IndexHandler(index string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fs.ReadFile(h.files, index)
		if err != nil {
			notFound(w)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(data)
	}
}

func notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte("404"))
}

// detectContentType 根据扩展名检测内容类型
func detectContentType(name string, data []byte) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	if data != nil {
		return http.DetectContentType(data)
	}
	return "application/octet-stream"
}
