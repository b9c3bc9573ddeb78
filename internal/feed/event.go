package feed

import (
	postdomain "github.com/lifepost/lifepost/internal/post/domain"
)

const (
	EventPostCreated = "post_created"
	EventPostUpdated = "post_updated"
	EventPostDeleted = "post_deleted"
)

type Event struct {
	Type string    `json:"type"`
	Post *PostView `json:"post,omitempty"`
	ID   string    `json:"id,omitempty"`
}

type PostView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	ImagePath   string `json:"image_path,omitempty"`
}

func PostCreated(post postdomain.Post) Event {
	return Event{Type: EventPostCreated, Post: toView(post)}
}

func PostUpdated(post postdomain.Post) Event {
	return Event{Type: EventPostUpdated, Post: toView(post)}
}

func PostDeleted(id postdomain.ID) Event {
	return Event{Type: EventPostDeleted, ID: string(id)}
}

func toView(post postdomain.Post) *PostView {
	return &PostView{
		ID:          string(post.ID),
		Title:       post.Title,
		Author:      post.Author,
		Description: post.Description,
		ImagePath:   post.ImagePath,
	}
}
