package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"socialposts/graph/model"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(dsn string) (Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) Close() error { return p.db.Close() }

func (p *PostgresStore) CreatePost(ctx context.Context, post *model.Post) error {
	const q = `insert into posts (id, title, description, body, user_id, username, created_at)
	values ($1, $2, $3, $4, $5, $6, $7)`

	_, err := p.db.ExecContext(ctx, q, post.ID, post.Title, post.Description, post.Body, post.UserID, post.Username, post.CreatedAt)
	return err
}

func (p *PostgresStore) GetPost(ctx context.Context, id string) (*model.Post, error) {
	const q = `select id, title, description, body, user_id, username, created_at from posts where id = $1`

	var res model.Post
	if err := p.db.QueryRowContext(ctx, q, id).Scan(&res.ID, &res.Title, &res.Description, &res.Body, &res.UserID, &res.Username, &res.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	likes, err := p.loadLikes(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	res.Likes = likesOrEmpty(likes[id])
	return &res, nil
}

func (p *PostgresStore) ListPosts(ctx context.Context) ([]*model.Post, error) {
	const q = `select id, title, description, body, user_id, username, created_at from posts
	order by created_at desc, id desc`

	rows, err := p.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*model.Post
	var ids []string
	for rows.Next() {
		var row model.Post
		if err := rows.Scan(&row.ID, &row.Title, &row.Description, &row.Body, &row.UserID, &row.Username, &row.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &row)
		ids = append(ids, row.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	likes, err := p.loadLikes(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, post := range res {
		post.Likes = likesOrEmpty(likes[post.ID])
	}
	return res, nil
}

func (p *PostgresStore) DeletePost(ctx context.Context, id string) error {
	const q = `delete from posts where id = $1`

	res, err := p.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore) ToggleLike(ctx context.Context, postID, username string, now time.Time) (*model.Post, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Row lock serializes concurrent toggles on the same post.
	var id string
	if err := tx.QueryRowContext(ctx, `select id from posts where id = $1 for update`, postID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `delete from post_likes where post_id = $1 and username = $2`, postID, username)
	if err != nil {
		return nil, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if removed == 0 {
		const q = `insert into post_likes (post_id, username, created_at) values ($1, $2, $3)`
		if _, err := tx.ExecContext(ctx, q, postID, username, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return p.GetPost(ctx, postID)
}

// loadLikes fetches likes for a batch of posts in insertion order.
func (p *PostgresStore) loadLikes(ctx context.Context, postIDs []string) (map[string][]*model.Like, error) {
	out := make(map[string][]*model.Like, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	const q = `select post_id, username, created_at from post_likes where post_id = any($1) order by id`
	rows, err := p.db.QueryContext(ctx, q, pgArray(postIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var pid string
		var like model.Like
		if err := rows.Scan(&pid, &like.Username, &like.CreatedAt); err != nil {
			return nil, err
		}
		out[pid] = append(out[pid], &like)
	}
	return out, rows.Err()
}

func likesOrEmpty(likes []*model.Like) []*model.Like {
	if likes == nil {
		return []*model.Like{}
	}
	return likes
}

// pgx's stdlib driver binds a string slice to text[] as-is.
func pgArray(ss []string) any { return ss }
