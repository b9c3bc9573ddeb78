package domain

import (
	"time"

	userdomain "github.com/lifepost/lifepost/internal/user/domain"
)

type ID string

// Post is a user-authored record. Author carries the author's display name,
// denormalized at creation time; AuthorID carries the identity id. Ownership
// checks historically compare against Author, see guard.ByAuthorName.
type Post struct {
	ID          ID
	Title       string
	Author      string
	AuthorID    userdomain.ID
	Description string
	ImagePath   string
	CreatedAt   time.Time
}
