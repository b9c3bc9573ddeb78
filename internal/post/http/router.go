package http

import (
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/lifepost/lifepost/internal/common/constants"
	commonhttp "github.com/lifepost/lifepost/internal/common/http"
	"github.com/lifepost/lifepost/internal/common/logger"
	"github.com/lifepost/lifepost/internal/post/domain"
	"github.com/lifepost/lifepost/internal/post/service"
)

type postResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	ImagePath   string `json:"image_path,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type Handler struct {
	posts   *service.PostService
	timeout time.Duration
	errors  *commonhttp.ErrorHandler
	log     *logger.Logger
}

func NewHandler(posts *service.PostService, timeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		posts:   posts,
		timeout: timeout,
		errors:  commonhttp.NewErrorHandler(log),
		log:     log,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	withTimeout := commonhttp.WithTimeout(h.timeout)

	mux.HandleFunc("/api/posts", withTimeout(h.collection))
	mux.HandleFunc("/api/posts/", withTimeout(h.item))
}

func (h *Handler) collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
	}
}

func (h *Handler) item(w http.ResponseWriter, r *http.Request) {
	id, ok := postIDFromPath(r.URL.Path)
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidPath, "invalid post path", nil, "")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	commonhttp.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, id domain.ID) {
	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, toPostResponse(post))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	title, description, image, ok := h.parsePostForm(w, r)
	if !ok {
		return
	}
	if image != nil {
		defer image.file.Close()
	}

	post, err := h.posts.Create(r.Context(), service.CreateInput{
		Title:       title,
		Description: description,
		Image:       imageUpload(image),
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toPostResponse(post))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id domain.ID) {
	title, description, image, ok := h.parsePostForm(w, r)
	if !ok {
		return
	}
	if image != nil {
		defer image.file.Close()
	}

	post, err := h.posts.Update(r.Context(), id, service.UpdateInput{
		Title:       title,
		Description: description,
		Image:       imageUpload(image),
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toPostResponse(post))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id domain.ID) {
	if err := h.posts.Delete(r.Context(), id); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Post deleted"})
}

type formImage struct {
	file multipart.File
	ext  string
}

func (h *Handler) parsePostForm(w http.ResponseWriter, r *http.Request) (title, description string, image *formImage, ok bool) {
	if err := r.ParseMultipartForm(constants.MaxImageSizeBytes); err != nil {
		h.log.Warnf("post form parse failed: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidForm, "invalid multipart form", nil, "")
		return "", "", nil, false
	}

	title = r.FormValue("title")
	description = r.FormValue("description")

	file, header, err := r.FormFile("image")
	if err == nil {
		image = &formImage{file: file, ext: filepath.Ext(header.Filename)}
	} else if err != http.ErrMissingFile {
		h.log.Warnf("post image read failed: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidForm, "invalid image upload", nil, "")
		return "", "", nil, false
	}

	return title, description, image, true
}

func imageUpload(image *formImage) *service.ImageUpload {
	if image == nil {
		return nil
	}
	return &service.ImageUpload{Ext: image.ext, Reader: image.file}
}

func postIDFromPath(path string) (domain.ID, bool) {
	remaining := strings.TrimPrefix(path, "/api/posts/")
	if remaining == "" || strings.Contains(remaining, "/") {
		return "", false
	}
	return domain.ID(remaining), true
}

func toPostResponse(p domain.Post) postResponse {
	return postResponse{
		ID:          string(p.ID),
		Title:       p.Title,
		Author:      p.Author,
		Description: p.Description,
		ImagePath:   p.ImagePath,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
