package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"socialposts/graph/model"
)

type memStore struct {
	mu    sync.RWMutex
	posts map[string]*model.Post
}

func NewMemStore() Store {
	return &memStore{posts: map[string]*model.Post{}}
}

func (m *memStore) CreatePost(ctx context.Context, post *model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.posts[post.ID] = clonePost(post)
	return nil
}

func (m *memStore) GetPost(ctx context.Context, id string) (*model.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	post, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clonePost(post), nil
}

func (m *memStore) ListPosts(ctx context.Context) ([]*model.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	posts := make([]*model.Post, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, clonePost(p))
	}

	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	return posts, nil
}

func (m *memStore) DeletePost(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[id]; !ok {
		return ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *memStore) ToggleLike(ctx context.Context, postID, username string, now time.Time) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.posts[postID]
	if !ok {
		return nil, ErrNotFound
	}

	liked := -1
	for i, like := range post.Likes {
		if like.Username == username {
			liked = i
			break
		}
	}

	if liked >= 0 {
		post.Likes = append(post.Likes[:liked], post.Likes[liked+1:]...)
	} else {
		post.Likes = append(post.Likes, &model.Like{Username: username, CreatedAt: now})
	}

	return clonePost(post), nil
}

// clonePost snapshots a post so callers never share likes slices with the
// copy guarded by the mutex.
func clonePost(p *model.Post) *model.Post {
	out := *p
	out.Likes = make([]*model.Like, len(p.Likes))
	for i, like := range p.Likes {
		l := *like
		out.Likes[i] = &l
	}
	return &out
}
