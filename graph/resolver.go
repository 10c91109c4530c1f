package graph

//go:generate go run github.com/99designs/gqlgen generate

import (
	"github.com/rs/zerolog"

	"socialposts/internal/posts"
)

type Resolver struct {
	Posts *posts.Service
	Log   zerolog.Logger
}
