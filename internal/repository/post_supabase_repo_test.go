package repository

import (
	"Bulletin/internal/api/config"
	"Bulletin/internal/pkg/supabase"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) *supabase.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return supabase.NewClient(config.BackendConfig{URL: srv.URL, AnonKey: "anon-key", Timeout: 5})
}

func TestSupabaseRepo_ListAll(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/posts", r.URL.Path)
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"id":"p2","title":"second","content":"b","author_id":"u1","author_name":"u1@x.io","created_at":"2024-05-02T10:00:00+00:00","views":3},
			{"id":"p1","title":"first","content":"a","author_id":"u2","author_name":"u2@x.io","created_at":"2024-05-01T10:00:00+00:00","views":0}
		]`)
	})
	repo := NewSupabasePostRepo(client, "posts", "")

	posts, err := repo.ListAll(context.Background())

	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "p2", posts[0].ID)
	assert.Equal(t, int64(3), posts[0].Views)
	assert.Equal(t, "u2@x.io", posts[1].AuthorName)
	assert.Equal(t, 2024, posts[1].CreatedAt.Year())
}

func TestSupabaseRepo_ListAllEmpty(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	})

	posts, err := NewSupabasePostRepo(client, "posts", "").ListAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestSupabaseRepo_UsesUserToken(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	})
	ctx := supabase.WithAccessToken(context.Background(), "user-token")

	_, err := NewSupabasePostRepo(client, "posts", "").ListAll(ctx)
	require.NoError(t, err)
}

func TestSupabaseRepo_GetByIDNotFound(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.missing", r.URL.Query().Get("id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	})

	_, err := NewSupabasePostRepo(client, "posts", "").GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestSupabaseRepo_IncrementViewsOverwrites(t *testing.T) {
	var body map[string]any
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.p1", r.URL.Query().Get("id"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusNoContent)
	})

	err := NewSupabasePostRepo(client, "posts", "").IncrementViews(context.Background(), "p1", 8)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"views": float64(8)}, body)
}

func TestSupabaseRepo_Create(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u1", body["author_id"])
		assert.Equal(t, "u1@x.io", body["author_name"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `[{"id":"p9","title":"t","content":"c","author_id":"u1","author_name":"u1@x.io","created_at":"2024-05-03T00:00:00+00:00","views":0}]`)
	})

	post, err := NewSupabasePostRepo(client, "posts", "").Create(context.Background(), "t", "c", "u1", "u1@x.io")

	require.NoError(t, err)
	assert.Equal(t, "p9", post.ID)
}

func TestSupabaseRepo_ErrorTranslation(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"single row missing", http.StatusNotAcceptable, `{"code":"PGRST116","message":"no rows"}`, ErrPostNotFound},
		{"unique violation", http.StatusConflict, `{"code":"23505","message":"duplicate key"}`, ErrPostRejected},
		{"check violation", http.StatusBadRequest, `{"code":"23514","message":"violates check"}`, ErrPostRejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})

			err := NewSupabasePostRepo(client, "posts", "").Update(context.Background(), "p1", "t", "c")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSupabaseRepo_PermissionDeniedIsTransportError(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"code":"42501","message":"permission denied"}`)
	})

	err := NewSupabasePostRepo(client, "posts", "").Remove(context.Background(), "p1")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPostNotFound)
	assert.NotErrorIs(t, err, ErrPostRejected)
	var apiErr *supabase.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

func TestSupabaseRepo_AtomicViewsRPC(t *testing.T) {
	var body map[string]any
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/rpc/increment_post_views", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusNoContent)
	})
	repo := NewSupabasePostRepo(client, "posts", "increment_post_views")

	counter, ok := repo.(ViewCounter)
	require.True(t, ok)
	require.NoError(t, counter.AddViews(context.Background(), "p1", 2))
	assert.Equal(t, "p1", body["post_id"])
	assert.Equal(t, float64(2), body["delta"])

	_, ok = NewSupabasePostRepo(client, "posts", "").(ViewCounter)
	assert.False(t, ok)
}

func TestSupabaseRepo_NumericIDs(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":12,"title":"t","content":"c","author_id":"u1","author_name":"u1@x.io","created_at":"2024-05-01T10:00:00Z","views":1}]`)
	})

	post, err := NewSupabasePostRepo(client, "posts", "").GetByID(context.Background(), "12")

	require.NoError(t, err)
	assert.Equal(t, "12", post.ID)
	assert.Equal(t, "t", post.Title)
}
