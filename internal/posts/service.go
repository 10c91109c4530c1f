// Package posts holds the post aggregate service: every GraphQL operation on
// posts goes through here. Operations that mutate state take the resolved
// principal as an explicit argument.
package posts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"socialposts/graph/model"
	"socialposts/internal/apperr"
	"socialposts/internal/logctx"
	"socialposts/internal/store"
	"socialposts/internal/validate"
)

type Input struct {
	Title       string
	Description string
	Body        string
}

type Service struct {
	store store.Store
	log   zerolog.Logger
}

func New(st store.Store, log zerolog.Logger) *Service {
	return &Service{store: st, log: log}
}

// List returns every post, newest first.
func (s *Service) List(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		return nil, apperr.Store("list posts", err)
	}
	return posts, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Post not found")
		}
		return nil, apperr.Store("get post", err)
	}
	return post, nil
}

func (s *Service) Create(ctx context.Context, principal *model.User, in Input) (*model.Post, error) {
	if principal == nil {
		return nil, apperr.Authentication("authentication required")
	}
	if fields := validate.PostInput(in.Title, in.Description, in.Body); len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	post := &model.Post{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Body:        in.Body,
		UserID:      principal.ID,
		Username:    principal.Username,
		CreatedAt:   time.Now().UTC(),
		Likes:       []*model.Like{},
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, apperr.Store("create post", err)
	}

	log := logctx.From(ctx, s.log)
	log.Info().
		Str("post_id", post.ID).
		Str("username", post.Username).
		Msg("post created")
	return post, nil
}

// Delete removes a post. Only the creating principal may delete it; ownership
// is compared by username, which the token guarantees unique and stable.
func (s *Service) Delete(ctx context.Context, principal *model.User, id string) (string, error) {
	if principal == nil {
		return "", apperr.Authentication("authentication required")
	}

	post, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if principal.Username != post.Username {
		return "", apperr.Authorization("not your post to delete")
	}

	if err := s.store.DeletePost(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", apperr.NotFound("Post not found")
		}
		return "", apperr.Store("delete post", err)
	}

	log := logctx.From(ctx, s.log)
	log.Info().
		Str("post_id", id).
		Str("username", principal.Username).
		Msg("post deleted")
	return fmt.Sprintf("post %q deleted", post.Title), nil
}

// ToggleLike likes the post if the principal has not liked it yet, otherwise
// removes the like. The store performs the toggle atomically, so a principal
// racing itself cannot end up with two like entries.
func (s *Service) ToggleLike(ctx context.Context, principal *model.User, id string) (*model.Post, error) {
	if principal == nil {
		return nil, apperr.Authentication("authentication required")
	}

	post, err := s.store.ToggleLike(ctx, id, principal.Username, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("No Post found")
		}
		return nil, apperr.Store("toggle like", err)
	}

	log := logctx.From(ctx, s.log)
	log.Debug().
		Str("post_id", id).
		Str("username", principal.Username).
		Int("likes", len(post.Likes)).
		Msg("like toggled")
	return post, nil
}
