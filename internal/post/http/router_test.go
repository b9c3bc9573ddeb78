package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/lifepost/lifepost/internal/auth/guard"
	"github.com/lifepost/lifepost/internal/auth/identityctx"
	commoncrypto "github.com/lifepost/lifepost/internal/common/crypto"
	"github.com/lifepost/lifepost/internal/common/logger"
	"github.com/lifepost/lifepost/internal/feed"
	"github.com/lifepost/lifepost/internal/post/domain"
	postrepo "github.com/lifepost/lifepost/internal/post/repository"
	"github.com/lifepost/lifepost/internal/post/service"
	userdomain "github.com/lifepost/lifepost/internal/user/domain"
)

type memoryPostRepo struct {
	mu    sync.Mutex
	posts map[domain.ID]domain.Post
	order []domain.ID
}

func newMemoryPostRepo() *memoryPostRepo {
	return &memoryPostRepo{posts: make(map[domain.ID]domain.Post)}
}

func (m *memoryPostRepo) Create(ctx context.Context, post domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[post.ID] = post
	m.order = append(m.order, post.ID)
	return nil
}

func (m *memoryPostRepo) FindByID(ctx context.Context, id domain.ID) (domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[id]
	if !ok {
		return domain.Post{}, postrepo.ErrPostNotFound
	}
	return post, nil
}

func (m *memoryPostRepo) FindAll(ctx context.Context) ([]domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Post, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		if post, ok := m.posts[m.order[i]]; ok {
			out = append(out, post)
		}
	}
	return out, nil
}

func (m *memoryPostRepo) Update(ctx context.Context, id domain.ID, fields postrepo.UpdateFields) (domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[id]
	if !ok {
		return domain.Post{}, postrepo.ErrPostNotFound
	}
	post.Title = fields.Title
	post.Description = fields.Description
	post.ImagePath = fields.ImagePath
	m.posts[id] = post
	return post, nil
}

func (m *memoryPostRepo) Delete(ctx context.Context, id domain.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return postrepo.ErrPostNotFound
	}
	delete(m.posts, id)
	return nil
}

type memoryImageStore struct {
	stored int
}

func (m *memoryImageStore) Store(ext string, r io.Reader) (string, error) {
	m.stored++
	io.Copy(io.Discard, r)
	return "uploads/image-test" + ext, nil
}

func (m *memoryImageStore) Remove(path string) error {
	return nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(event feed.Event) {}

// identityInjector stands in for the session middleware.
func identityInjector(user *userdomain.User, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user != nil {
			r = r.WithContext(identityctx.With(r.Context(), *user))
		}
		next.ServeHTTP(w, r)
	})
}

func setupPostServer(t *testing.T, user *userdomain.User) (http.Handler, *memoryPostRepo) {
	t.Helper()

	log, err := logger.New(t.TempDir(), "test", "info")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	repo := newMemoryPostRepo()
	svc := service.NewPostService(
		repo,
		guard.New(nil),
		&memoryImageStore{},
		noopPublisher{},
		&commoncrypto.UUIDGenerator{},
		nil,
		log,
	)

	mux := http.NewServeMux()
	NewHandler(svc, 5*time.Second, log).Register(mux)

	return identityInjector(user, mux), repo
}

func multipartBody(t *testing.T, fields map[string]string, imageName string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	if imageName != "" {
		part, err := writer.CreateFormFile("image", imageName)
		if err != nil {
			t.Fatalf("failed to create image part: %v", err)
		}
		part.Write([]byte("fake-image-bytes"))
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	return body, writer.FormDataContentType()
}

func TestPostHTTP_CreateRequiresAuthentication(t *testing.T) {
	handler, _ := setupPostServer(t, nil)

	body, contentType := multipartBody(t, map[string]string{
		"title":       "Hello",
		"description": "World",
	}, "")

	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPostHTTP_CreateAndGet(t *testing.T) {
	alice := &userdomain.User{ID: "user-1", Name: "Alice", Username: "alice"}
	handler, _ := setupPostServer(t, alice)

	body, contentType := multipartBody(t, map[string]string{
		"title":       "Hello",
		"description": "World",
	}, "photo.JPG")

	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		ID        string `json:"id"`
		Author    string `json:"author"`
		ImagePath string `json:"image_path"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.Author != "Alice" {
		t.Errorf("expected author Alice, got %q", created.Author)
	}
	if created.ImagePath == "" {
		t.Error("expected image path to be set")
	}

	getReq := httptest.NewRequest(http.MethodGet, "/api/posts/"+created.ID, nil)
	getRec := httptest.NewRecorder()
	handler.ServeHTTP(getRec, getReq)

	if getRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", getRec.Code, getRec.Body.String())
	}
}

func TestPostHTTP_GetNotFound(t *testing.T) {
	handler, _ := setupPostServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/posts/missing", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPostHTTP_ListIsPublic(t *testing.T) {
	handler, repo := setupPostServer(t, nil)

	repo.Create(context.Background(), domain.Post{ID: "post-1", Title: "One", Author: "Alice"})
	repo.Create(context.Background(), domain.Post{ID: "post-2", Title: "Two", Author: "Bob"})

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var posts []json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &posts); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("expected 2 posts, got %d", len(posts))
	}
}

func TestPostHTTP_UpdateForbiddenForNonOwner(t *testing.T) {
	bob := &userdomain.User{ID: "user-2", Name: "Bob", Username: "bob"}
	handler, repo := setupPostServer(t, bob)

	repo.Create(context.Background(), domain.Post{ID: "post-1", Title: "One", Author: "Alice", AuthorID: "user-1"})

	body, contentType := multipartBody(t, map[string]string{
		"title":       "Hijacked",
		"description": "Nope",
	}, "")

	req := httptest.NewRequest(http.MethodPut, "/api/posts/post-1", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPostHTTP_DeleteByOwner(t *testing.T) {
	alice := &userdomain.User{ID: "user-1", Name: "Alice", Username: "alice"}
	handler, repo := setupPostServer(t, alice)

	repo.Create(context.Background(), domain.Post{ID: "post-1", Title: "One", Author: "Alice", AuthorID: "user-1"})

	req := httptest.NewRequest(http.MethodDelete, "/api/posts/post-1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if _, err := repo.FindByID(context.Background(), "post-1"); err == nil {
		t.Error("expected post to be deleted")
	}
}
