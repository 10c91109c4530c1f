package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"socialposts/graph/model"
	"socialposts/internal/store"
)

func seedPost(t *testing.T, st store.Store, id string, createdAt time.Time) *model.Post {
	t.Helper()
	p := &model.Post{
		ID:        id,
		Title:     "t-" + id,
		Body:      "b",
		UserID:    "u1",
		Username:  "alice",
		CreatedAt: createdAt,
		Likes:     []*model.Like{},
	}
	if err := st.CreatePost(context.Background(), p); err != nil {
		t.Fatalf("create %s: %v", id, err)
	}
	return p
}

func TestMemStore_ListPostsNewestFirst(t *testing.T) {
	st := store.NewMemStore()
	ctx := context.Background()

	base := time.Now().UTC()
	// вставка не по порядку
	seedPost(t, st, "p2", base.Add(2*time.Second))
	seedPost(t, st, "p1", base.Add(1*time.Second))
	seedPost(t, st, "p3", base.Add(3*time.Second))

	posts, err := st.ListPosts(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts got %d", len(posts))
	}
	want := []string{"p3", "p2", "p1"}
	for i, p := range posts {
		if p.ID != want[i] {
			t.Fatalf("position %d: want %s got %s", i, want[i], p.ID)
		}
	}
}

func TestMemStore_GetPost_NotFound(t *testing.T) {
	st := store.NewMemStore()
	if _, err := st.GetPost(context.Background(), "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestMemStore_ToggleLike_AddThenRemove(t *testing.T) {
	st := store.NewMemStore()
	ctx := context.Background()
	seedPost(t, st, "p1", time.Now().UTC())

	now := time.Now().UTC()
	p, err := st.ToggleLike(ctx, "p1", "bob", now)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if len(p.Likes) != 1 || p.Likes[0].Username != "bob" || !p.Likes[0].CreatedAt.Equal(now) {
		t.Fatalf("unexpected likes after like: %+v", p.Likes)
	}

	p, err = st.ToggleLike(ctx, "p1", "bob", time.Now().UTC())
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if len(p.Likes) != 0 {
		t.Fatalf("expected no likes got %d", len(p.Likes))
	}
}

func TestMemStore_ToggleLike_KeepsOtherLikesOrder(t *testing.T) {
	st := store.NewMemStore()
	ctx := context.Background()
	seedPost(t, st, "p1", time.Now().UTC())

	for _, u := range []string{"a", "b", "c"} {
		if _, err := st.ToggleLike(ctx, "p1", u, time.Now().UTC()); err != nil {
			t.Fatalf("toggle %s: %v", u, err)
		}
	}

	p, err := st.ToggleLike(ctx, "p1", "b", time.Now().UTC())
	if err != nil {
		t.Fatalf("unlike b: %v", err)
	}
	if len(p.Likes) != 2 || p.Likes[0].Username != "a" || p.Likes[1].Username != "c" {
		t.Fatalf("expected [a c] got %+v", p.Likes)
	}
}

func TestMemStore_ToggleLike_NotFound(t *testing.T) {
	st := store.NewMemStore()
	if _, err := st.ToggleLike(context.Background(), "nope", "bob", time.Now().UTC()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

// Одновременные toggle от одного пользователя: атомарность гарантирует,
// что чётное число переключений всегда заканчивается "не лайкнуто".
func TestMemStore_ToggleLike_ConcurrentSameUser(t *testing.T) {
	st := store.NewMemStore()
	ctx := context.Background()
	seedPost(t, st, "p1", time.Now().UTC())

	const toggles = 50
	var wg sync.WaitGroup
	wg.Add(toggles)
	for i := 0; i < toggles; i++ {
		go func() {
			defer wg.Done()
			if _, err := st.ToggleLike(ctx, "p1", "bob", time.Now().UTC()); err != nil {
				t.Errorf("toggle: %v", err)
			}
		}()
	}
	wg.Wait()

	p, err := st.GetPost(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(p.Likes) != 0 {
		t.Fatalf("invariant broken: %d likes after %d toggles", len(p.Likes), toggles)
	}
}

func TestMemStore_DeletePost(t *testing.T) {
	st := store.NewMemStore()
	ctx := context.Background()
	seedPost(t, st, "p1", time.Now().UTC())

	if err := st.DeletePost(ctx, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.GetPost(ctx, "p1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete got %v", err)
	}
	if err := st.DeletePost(ctx, "p1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete got %v", err)
	}
}

func TestMemStore_ReturnsSnapshots(t *testing.T) {
	st := store.NewMemStore()
	ctx := context.Background()
	seedPost(t, st, "p1", time.Now().UTC())

	p, err := st.ToggleLike(ctx, "p1", "bob", time.Now().UTC())
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	p.Likes[0].Username = "mallory"
	p.Title = "tampered"

	fresh, err := st.GetPost(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fresh.Title == "tampered" || fresh.Likes[0].Username != "bob" {
		t.Fatal("stored post mutated through a returned snapshot")
	}
}
