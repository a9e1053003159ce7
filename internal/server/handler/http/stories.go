package http

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmitrijs2005/dinostories/internal/server/storage"
)

// maxUploadSize caps the multipart body of a story creation request.
const maxUploadSize = 10 << 20

// ListStories handles GET /v1/stories.
func (h *Handler) ListStories(w http.ResponseWriter, r *http.Request) {
	stories, err := h.storage.Stories(r.Context())
	if err != nil {
		h.log.Error("listing stories", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	list := make([]storyJSON, 0, len(stories))
	for _, s := range stories {
		list = append(list, toStoryJSON(s))
	}

	writeJSON(w, http.StatusOK, envelope{Message: "Stories fetched successfully", ListStory: list})
}

// GetStory handles GET /v1/stories/{id}.
func (h *Handler) GetStory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	story, err := h.storage.StoryByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Story not found")
			return
		}
		h.log.Error("fetching story", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s := toStoryJSON(story)
	writeJSON(w, http.StatusOK, envelope{Message: "Story fetched successfully", Story: &s})
}

// CreateStory handles POST /v1/stories. The request is multipart form data
// with a description, an optional lat/lon pair and an optional photo.
func (h *Handler) CreateStory(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	user, err := h.storage.UserByID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	description := r.FormValue("description")
	if description == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}

	lat, lon, err := parseLocation(r.FormValue("lat"), r.FormValue("lon"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid location")
		return
	}

	photoURL, err := h.savePhoto(r)
	if err != nil {
		h.log.Error("saving photo", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	story := storage.Story{
		ID:          "story-" + uuid.NewString(),
		UserID:      user.ID,
		Name:        user.Name,
		Description: description,
		PhotoURL:    photoURL,
		Lat:         lat,
		Lon:         lon,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.storage.CreateStory(r.Context(), story); err != nil {
		h.log.Error("creating story", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s := toStoryJSON(story)
	writeJSON(w, http.StatusCreated, envelope{Message: "Story created successfully", Story: &s})
}

// savePhoto stores the uploaded photo on disk and returns the URL it will
// be served under. An absent photo yields an empty URL.
func (h *Handler) savePhoto(r *http.Request) (string, error) {
	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	name := uuid.NewString() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(h.photoDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}

	return "/photos/" + name, nil
}

func parseLocation(latStr, lonStr string) (*float64, *float64, error) {
	if latStr == "" || lonStr == "" {
		return nil, nil, nil
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, nil, err
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, nil, err
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, nil, errors.New("location out of range")
	}
	return &lat, &lon, nil
}

func toStoryJSON(s storage.Story) storyJSON {
	return storyJSON{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		PhotoURL:    s.PhotoURL,
		Lat:         s.Lat,
		Lon:         s.Lon,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339Nano),
	}
}
