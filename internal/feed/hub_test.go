package feed

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/lifepost/lifepost/internal/common/logger"
	postdomain "github.com/lifepost/lifepost/internal/post/domain"
)

func setupHub(t *testing.T) (*Hub, context.CancelFunc, *logger.Logger) {
	t.Helper()

	log, err := logger.New(t.TempDir(), "test", "info")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	hub := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	return hub, cancel, log
}

func TestHub_PublishReachesRegisteredClient(t *testing.T) {
	hub, cancel, log := setupHub(t)
	defer cancel()

	client := NewClient(context.Background(), hub, nil, "user-1", log)
	hub.Register(client)

	post := postdomain.Post{ID: "post-1", Title: "Hello", Author: "Alice"}
	hub.Publish(PostCreated(post))

	select {
	case payload := <-client.send:
		var event Event
		if err := json.Unmarshal(payload, &event); err != nil {
			t.Fatalf("failed to unmarshal event: %v", err)
		}
		if event.Type != EventPostCreated {
			t.Errorf("expected type %s, got %s", EventPostCreated, event.Type)
		}
		if event.Post == nil || event.Post.ID != "post-1" {
			t.Errorf("expected post view for post-1, got %+v", event.Post)
		}
	case <-time.After(time.Second):
		t.Fatal("expected event on client channel")
	}
}

func TestHub_DeletedEventCarriesIDOnly(t *testing.T) {
	hub, cancel, log := setupHub(t)
	defer cancel()

	client := NewClient(context.Background(), hub, nil, "user-1", log)
	hub.Register(client)

	hub.Publish(PostDeleted("post-9"))

	select {
	case payload := <-client.send:
		var event Event
		if err := json.Unmarshal(payload, &event); err != nil {
			t.Fatalf("failed to unmarshal event: %v", err)
		}
		if event.Type != EventPostDeleted || event.ID != "post-9" || event.Post != nil {
			t.Errorf("unexpected deleted event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("expected event on client channel")
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub, cancel, log := setupHub(t)

	client := NewClient(context.Background(), hub, nil, "user-1", log)
	hub.Register(client)

	cancel()

	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected send channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("expected client channel to close on shutdown")
	}
}
