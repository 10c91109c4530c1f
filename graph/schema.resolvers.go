package graph

// This file will be automatically regenerated based on the schema, any resolver implementations
// will be copied through when generating and any unknown code will be moved to the end.
// Code generated by github.com/99designs/gqlgen version v0.17.81

import (
	"context"
	"socialposts/graph/generated"
	"socialposts/graph/model"
	"socialposts/internal/auth"
	"socialposts/internal/posts"
)

// CreatePost is the resolver for the createPost field.
func (r *mutationResolver) CreatePost(ctx context.Context, title string, description string, body string) (*model.Post, error) {
	principal, err := auth.Principal(ctx)
	if err != nil {
		return nil, err
	}
	return r.Posts.Create(ctx, principal, posts.Input{Title: title, Description: description, Body: body})
}

// DeletePost is the resolver for the deletePost field.
func (r *mutationResolver) DeletePost(ctx context.Context, postID string) (string, error) {
	principal, err := auth.Principal(ctx)
	if err != nil {
		return "", err
	}
	return r.Posts.Delete(ctx, principal, postID)
}

// LikePost is the resolver for the likePost field.
func (r *mutationResolver) LikePost(ctx context.Context, postID string) (*model.Post, error) {
	principal, err := auth.Principal(ctx)
	if err != nil {
		return nil, err
	}
	return r.Posts.ToggleLike(ctx, principal, postID)
}

// LikeCount is the resolver for the likeCount field.
func (r *postResolver) LikeCount(ctx context.Context, obj *model.Post) (int, error) {
	return len(obj.Likes), nil
}

// GetPosts is the resolver for the getPosts field.
func (r *queryResolver) GetPosts(ctx context.Context) ([]*model.Post, error) {
	return r.Posts.List(ctx)
}

// GetPost is the resolver for the getPost field.
func (r *queryResolver) GetPost(ctx context.Context, postID string) (*model.Post, error) {
	return r.Posts.Get(ctx, postID)
}

// Mutation returns generated.MutationResolver implementation.
func (r *Resolver) Mutation() generated.MutationResolver { return &mutationResolver{r} }

// Post returns generated.PostResolver implementation.
func (r *Resolver) Post() generated.PostResolver { return &postResolver{r} }

// Query returns generated.QueryResolver implementation.
func (r *Resolver) Query() generated.QueryResolver { return &queryResolver{r} }

type mutationResolver struct{ *Resolver }
type postResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }
