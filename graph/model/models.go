package model

import "time"

// Post is the aggregate root: likes live inside the post document, not in a
// separate collection the resolvers join.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Body        string    `json:"body"`
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	CreatedAt   time.Time `json:"createdAt"`
	Likes       []*Like   `json:"likes"`
}

type Like struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// User is the authenticated principal resolved from a bearer token.
type User struct {
	ID       string
	Username string
}
