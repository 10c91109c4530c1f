package posts_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"socialposts/graph/model"
	"socialposts/internal/apperr"
	"socialposts/internal/posts"
	"socialposts/internal/store"
)

var (
	alice = &model.User{ID: "u-alice", Username: "alice"}
	bob   = &model.User{ID: "u-bob", Username: "bob"}
)

func newService() (*posts.Service, store.Store) {
	st := store.NewMemStore()
	return posts.New(st, zerolog.Nop()), st
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	s, _ := newService()
	ctx := context.Background()

	before := time.Now().UTC()
	created, err := s.Create(ctx, alice, posts.Input{Title: "T", Description: "D", Body: "B"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	after := time.Now().UTC()

	if created.ID == "" {
		t.Fatal("post id empty")
	}
	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "T" || got.Description != "D" || got.Body != "B" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Username != "alice" || got.UserID != "u-alice" {
		t.Fatalf("wrong author: %s/%s", got.Username, got.UserID)
	}
	if got.CreatedAt.Before(before) || got.CreatedAt.After(after) {
		t.Fatalf("createdAt %v outside call window [%v, %v]", got.CreatedAt, before, after)
	}
	if len(got.Likes) != 0 {
		t.Fatalf("expected empty likes got %d", len(got.Likes))
	}
}

func TestCreate_Validation(t *testing.T) {
	s, _ := newService()
	ctx := context.Background()

	_, err := s.Create(ctx, alice, posts.Input{Title: "  ", Description: "d", Body: ""})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation kind got %v", apperr.KindOf(err))
	}
	fields := apperr.FieldsOf(err)
	if _, ok := fields["title"]; !ok {
		t.Fatal("expected title field error")
	}
	if _, ok := fields["body"]; !ok {
		t.Fatal("expected body field error")
	}
	if _, ok := fields["description"]; ok {
		t.Fatal("unexpected description field error")
	}
}

func TestMutations_RequireAuthentication(t *testing.T) {
	s, _ := newService()
	ctx := context.Background()

	if _, err := s.Create(ctx, nil, posts.Input{Title: "t", Description: "d", Body: "b"}); apperr.KindOf(err) != apperr.KindAuthentication {
		t.Fatalf("create: expected authentication kind got %v", err)
	}
	if _, err := s.Delete(ctx, nil, "id"); apperr.KindOf(err) != apperr.KindAuthentication {
		t.Fatalf("delete: expected authentication kind got %v", err)
	}
	if _, err := s.ToggleLike(ctx, nil, "id"); apperr.KindOf(err) != apperr.KindAuthentication {
		t.Fatalf("toggle: expected authentication kind got %v", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	s, st := newService()
	ctx := context.Background()

	base := time.Now().UTC()
	// сеем напрямую в store, чтобы контролировать createdAt
	for _, id := range []string{"p1", "p3", "p2"} {
		offset := time.Duration(id[1]-'0') * time.Second
		err := st.CreatePost(ctx, &model.Post{
			ID: id, Title: id, Description: "d", Body: "b",
			UserID: "u", Username: "alice",
			CreatedAt: base.Add(offset), Likes: []*model.Like{},
		})
		if err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"p3", "p2", "p1"}
	if len(got) != len(want) {
		t.Fatalf("expected %d posts got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("position %d: want %s got %s", i, want[i], got[i].ID)
		}
	}
}

func TestGet_NotFound(t *testing.T) {
	s, _ := newService()

	_, err := s.Get(context.Background(), "missing")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found kind got %v", err)
	}
	if err.Error() != "Post not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestToggleLike_Involution(t *testing.T) {
	s, _ := newService()
	ctx := context.Background()

	created, err := s.Create(ctx, alice, posts.Input{Title: "t", Description: "d", Body: "b"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	liked, err := s.ToggleLike(ctx, bob, created.ID)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if len(liked.Likes) != 1 || liked.Likes[0].Username != "bob" {
		t.Fatalf("expected one bob like got %+v", liked.Likes)
	}
	if liked.Title != created.Title || !liked.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("like changed unrelated post fields")
	}

	unliked, err := s.ToggleLike(ctx, bob, created.ID)
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if len(unliked.Likes) != 0 {
		t.Fatalf("expected no likes got %+v", unliked.Likes)
	}
}

func TestToggleLike_NotFound(t *testing.T) {
	s, _ := newService()

	_, err := s.ToggleLike(context.Background(), bob, "missing")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found kind got %v", err)
	}
	if err.Error() != "No Post found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestDelete_OwnershipGate(t *testing.T) {
	s, _ := newService()
	ctx := context.Background()

	created, err := s.Create(ctx, alice, posts.Input{Title: "keep me", Description: "d", Body: "b"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// чужой пост удалить нельзя
	if _, err := s.Delete(ctx, bob, created.ID); apperr.KindOf(err) != apperr.KindAuthorization {
		t.Fatalf("expected authorization kind got %v", err)
	}
	if got, err := s.Get(ctx, created.ID); err != nil || got.Title != "keep me" {
		t.Fatalf("post changed after denied delete: %v %+v", err, got)
	}

	msg, err := s.Delete(ctx, alice, created.ID)
	if err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if !strings.Contains(msg, "keep me") {
		t.Fatalf("confirmation %q does not reference title", msg)
	}
	if _, err := s.Get(ctx, created.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found after delete got %v", err)
	}
}

func TestDelete_MissingPost(t *testing.T) {
	s, _ := newService()

	if _, err := s.Delete(context.Background(), alice, "missing"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found kind got %v", err)
	}
}

// Сценарий целиком: alice создаёт, bob лайкает и снимает лайк, alice удаляет.
func TestScenario_AliceAndBob(t *testing.T) {
	s, _ := newService()
	ctx := context.Background()

	created, err := s.Create(ctx, alice, posts.Input{Title: "A", Description: "B", Body: "C"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Username != "alice" || len(got.Likes) != 0 {
		t.Fatalf("unexpected fresh post: %+v", got)
	}

	liked, err := s.ToggleLike(ctx, bob, created.ID)
	if err != nil {
		t.Fatalf("bob like: %v", err)
	}
	if len(liked.Likes) != 1 || liked.Likes[0].Username != "bob" {
		t.Fatalf("expected [bob] got %+v", liked.Likes)
	}

	unliked, err := s.ToggleLike(ctx, bob, created.ID)
	if err != nil {
		t.Fatalf("bob unlike: %v", err)
	}
	if len(unliked.Likes) != 0 {
		t.Fatalf("expected [] got %+v", unliked.Likes)
	}

	msg, err := s.Delete(ctx, alice, created.ID)
	if err != nil {
		t.Fatalf("alice delete: %v", err)
	}
	if !strings.Contains(msg, `"A"`) {
		t.Fatalf("confirmation %q does not contain title", msg)
	}
	if _, err := s.Get(ctx, created.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found got %v", err)
	}
}

// сломанный store для проверки, что причина ошибки не теряется
type failingStore struct{ err error }

func (f *failingStore) CreatePost(ctx context.Context, post *model.Post) error { return f.err }
func (f *failingStore) GetPost(ctx context.Context, id string) (*model.Post, error) {
	return nil, f.err
}
func (f *failingStore) ListPosts(ctx context.Context) ([]*model.Post, error) { return nil, f.err }
func (f *failingStore) DeletePost(ctx context.Context, id string) error      { return f.err }
func (f *failingStore) ToggleLike(ctx context.Context, postID, username string, now time.Time) (*model.Post, error) {
	return nil, f.err
}

func TestStoreErrors_PreserveCause(t *testing.T) {
	boom := errors.New("connection refused")
	s := posts.New(&failingStore{err: boom}, zerolog.Nop())
	ctx := context.Background()

	_, err := s.List(ctx)
	if apperr.KindOf(err) != apperr.KindStore {
		t.Fatalf("expected store kind got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("cause lost: %v", err)
	}

	_, err = s.Create(ctx, alice, posts.Input{Title: "t", Description: "d", Body: "b"})
	if apperr.KindOf(err) != apperr.KindStore || !errors.Is(err, boom) {
		t.Fatalf("create: cause lost: %v", err)
	}
}
