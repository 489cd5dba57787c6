package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"photogeoview/exifdata"
	"photogeoview/model"
	"photogeoview/photoerr"
	"photogeoview/storage"
	"photogeoview/thumbnail"
)

// PhotoHandlers exposes the extraction, browsing and catalog operations over
// HTTP.
type PhotoHandlers struct {
	Photos       PhotoService
	Db           storage.PhotoDB // nil disables the catalog endpoints
	Log          *zap.Logger
	SecretKey    string
	PasswordHash string
}

// PhotoService is the per-file record assembly the handlers delegate to.
type PhotoService interface {
	GetPhotoData(path string) (*model.PhotoData, error)
	ReadDirectory(path string) (*model.DirectoryContent, error)
	ScanFolder(root string, recursive bool) ([]string, error)
}

func (h *PhotoHandlers) ServeHTTP(mux *http.ServeMux) {
	wrap := func(next http.HandlerFunc) http.HandlerFunc {
		return RecoveryMiddleware(h.Log, RequestLoggerMiddleware(h.Log, next))
	}

	mux.HandleFunc("/login", wrap(h.handleLogin))
	mux.HandleFunc("/photos/metadata", wrap(h.handleMetadata))
	mux.HandleFunc("/photos/thumbnail", wrap(h.handleThumbnail))
	mux.HandleFunc("/photos/data", wrap(h.handlePhotoData))
	mux.HandleFunc("/browse", wrap(h.handleBrowse))
	mux.HandleFunc("/scan", wrap(h.handleScan))
	mux.HandleFunc("/catalog", wrap(h.authMiddleware(h.handleCatalog)))
	mux.HandleFunc("/catalog/near", wrap(h.authMiddleware(h.handleCatalogNear)))
}

func (h *PhotoHandlers) handleMetadata(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "Missing path parameter", http.StatusBadRequest)
		return
	}

	exif, err := exifdata.Extract(path)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, exif)
}

func (h *PhotoHandlers) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "Missing path parameter", http.StatusBadRequest)
		return
	}

	maxDimension := thumbnail.DefaultMaxDimension
	if raw := r.URL.Query().Get("max"); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val <= 0 {
			http.Error(w, "Invalid max parameter", http.StatusBadRequest)
			return
		}
		maxDimension = val
	}

	thumb, err := thumbnail.Derive(path, maxDimension)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"thumbnail": thumb})
}

func (h *PhotoHandlers) handlePhotoData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "Missing path parameter", http.StatusBadRequest)
		return
	}

	data, err := h.Photos.GetPhotoData(path)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, data)
}

func (h *PhotoHandlers) handleBrowse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "Missing path parameter", http.StatusBadRequest)
		return
	}

	content, err := h.Photos.ReadDirectory(path)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, content)
}

func (h *PhotoHandlers) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "Missing path parameter", http.StatusBadRequest)
		return
	}
	recursive := r.URL.Query().Get("recursive") == "true"

	paths, err := h.Photos.ScanFolder(path, recursive)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if paths == nil {
		paths = []string{}
	}
	h.writeJSON(w, http.StatusOK, paths)
}

type catalogRequest struct {
	Path string `json:"path"`
}

func (h *PhotoHandlers) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if h.Db == nil {
		http.Error(w, "Catalog disabled", http.StatusServiceUnavailable)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req catalogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		http.Error(w, "Missing path", http.StatusBadRequest)
		return
	}

	data, err := h.Photos.GetPhotoData(req.Path)
	if err != nil {
		h.writeError(w, err)
		return
	}

	record := model.NewPhotoDB(data)
	id, err := h.Db.SavePhoto(r.Context(), record)
	if err != nil {
		h.Log.Error("failed to save photo record", zap.String("path", req.Path), zap.Error(err))
		http.Error(w, "Failed to save photo", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]any{
		"id":    id.Hex(),
		"photo": data,
	})
}

func (h *PhotoHandlers) handleCatalogNear(w http.ResponseWriter, r *http.Request) {
	if h.Db == nil {
		http.Error(w, "Catalog disabled", http.StatusServiceUnavailable)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if errLng != nil || errLat != nil {
		http.Error(w, "Invalid lng/lat parameters", http.StatusBadRequest)
		return
	}

	dist := 1000
	if raw := r.URL.Query().Get("dist"); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val <= 0 {
			http.Error(w, "Invalid dist parameter", http.StatusBadRequest)
			return
		}
		dist = val
	}

	photos, err := h.Db.SearchPhotosByLocation(r.Context(), lng, lat, dist)
	if err != nil {
		h.Log.Error("location search failed", zap.Error(err))
		http.Error(w, "Search failed", http.StatusInternalServerError)
		return
	}
	if photos == nil {
		photos = []model.PhotoDB{}
	}
	h.writeJSON(w, http.StatusOK, photos)
}

func (h *PhotoHandlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Log.Error("failed to encode response", zap.Error(err))
	}
}

// writeError maps the core error taxonomy to HTTP statuses.
func (h *PhotoHandlers) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, photoerr.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, photoerr.ErrRead),
		errors.Is(err, photoerr.ErrExifParse),
		errors.Is(err, photoerr.ErrDecode):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		h.Log.Error("request failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
