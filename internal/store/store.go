package store

import (
	"context"
	"errors"
	"time"

	"socialposts/graph/model"
)

var ErrNotFound = errors.New("not found")

type Store interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id string) (*model.Post, error)
	// ListPosts returns all posts, newest first.
	ListPosts(ctx context.Context) ([]*model.Post, error)
	DeletePost(ctx context.Context, id string) error
	// ToggleLike removes the username's like if present, otherwise appends a
	// like with the given timestamp, and returns the updated post. The whole
	// step is atomic: two toggles for the same (post, username) can never
	// leave two like entries behind.
	ToggleLike(ctx context.Context, postID, username string, now time.Time) (*model.Post, error)
}
