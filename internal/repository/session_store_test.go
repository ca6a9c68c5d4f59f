package repository

import (
	"Bulletin/internal/model"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSessionStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	store := NewRedisSessionStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "sb-ref-auth-token")

	session, _, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, session)

	local := &model.AuthSession{AccessToken: "local", User: &model.Identity{ID: "u1"}}
	require.NoError(t, store.Save(ctx, "sid", ScopeLocal, local, time.Hour))
	assert.True(t, mr.Exists("session:local:sb-ref-auth-token:sid"))

	session, scope, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, ScopeLocal, scope)
	assert.Equal(t, "local", session.AccessToken)
	assert.Equal(t, "u1", session.User.ID)

	// 标签页范围优先
	require.NoError(t, store.Save(ctx, "sid", ScopeTab, &model.AuthSession{AccessToken: "tab"}, time.Hour))
	session, scope, err = store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, ScopeTab, scope)
	assert.Equal(t, "tab", session.AccessToken)

	require.NoError(t, store.Clear(ctx, "sid"))
	assert.False(t, mr.Exists("session:local:sb-ref-auth-token:sid"))
	assert.False(t, mr.Exists("session:tab:sb-ref-auth-token:sid"))
}
