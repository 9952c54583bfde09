package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmmarket/console/internal/models"
	"farmmarket/console/internal/nav"
	"farmmarket/console/internal/storage"
)

func newStore(t *testing.T) (*Store, *storage.MemoryStorage) {
	t.Helper()
	mem := storage.NewMemoryStorage()
	return NewStore(mem, zerolog.Nop()), mem
}

func farmer() models.Session {
	return models.Session{
		Token: "tok-1",
		User:  models.User{ID: 7, Email: "f@farm.test", Name: "Fern", Role: models.RoleFarmer},
	}
}

func TestSaveLoadClear(t *testing.T) {
	ctx := context.Background()
	store, mem := newStore(t)

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Save(ctx, farmer()))

	raw, err := mem.Get(ctx, UserKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"email":"f@farm.test","name":"Fern","role":"FARMER"}`, raw)

	sess, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, farmer(), sess)

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	require.ErrorIs(t, err, ErrNoSession)

	token, err = store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestSaveRejectsSessionWithoutID(t *testing.T) {
	store, mem := newStore(t)
	sess := farmer()
	sess.User.ID = 0

	require.ErrorIs(t, store.Save(context.Background(), sess), ErrNoSession)

	_, err := mem.Get(context.Background(), TokenKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLoadPurgesRecordsWithoutID(t *testing.T) {
	tests := map[string]string{
		"legacy format": `{"email":"old@farm.test","name":"Old","role":"BUYER"}`,
		"not json":      `Old User`,
	}

	for name, user := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store, mem := newStore(t)
			require.NoError(t, mem.Set(ctx, TokenKey, "legacy-token"))
			require.NoError(t, mem.Set(ctx, UserKey, user))

			_, err := store.Load(ctx)
			require.ErrorIs(t, err, ErrNoSession)

			_, err = mem.Get(ctx, TokenKey)
			assert.ErrorIs(t, err, storage.ErrNotFound)
			_, err = mem.Get(ctx, UserKey)
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestLoadPurgesIncompleteSessions(t *testing.T) {
	const fern = `{"id":7,"email":"fern@farm.test","role":"FARMER"}`
	tests := map[string]struct {
		token *string
		user  string
	}{
		"user without id and no token": {user: `{"email":"old@farm.test","role":"BUYER"}`},
		"valid user and no token":      {user: fern},
		"token and no user":            {token: ptr("orphan")},
		"empty token":                  {token: ptr(""), user: fern},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store, mem := newStore(t)
			if tt.token != nil {
				require.NoError(t, mem.Set(ctx, TokenKey, *tt.token))
			}
			if tt.user != "" {
				require.NoError(t, mem.Set(ctx, UserKey, tt.user))
			}

			_, err := store.Load(ctx)
			require.ErrorIs(t, err, ErrNoSession)

			_, err = mem.Get(ctx, TokenKey)
			assert.ErrorIs(t, err, storage.ErrNotFound)
			_, err = mem.Get(ctx, UserKey)
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func ptr(s string) *string { return &s }

func TestLoadEmptyStorageIsAbsent(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, ErrNoSession)
}

func TestGuard(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	_, err := store.Guard(ctx, nav.ViewInventory)
	to, ok := AsRedirect(err)
	require.True(t, ok)
	assert.Equal(t, "/", to)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Save(ctx, farmer()))

	sess, err := store.Guard(ctx, nav.ViewInventory)
	require.NoError(t, err)
	assert.Equal(t, int64(7), sess.User.ID)

	_, err = store.Guard(ctx, nav.ViewTracking)
	to, ok = AsRedirect(err)
	require.True(t, ok)
	assert.Equal(t, "/dashboard", to)
	assert.ErrorIs(t, err, ErrForbiddenView)
}

func TestInspect(t *testing.T) {
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	claims := jwt.RegisteredClaims{
		Subject:   "f@farm.test",
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	info, err := Inspect(signed)
	require.NoError(t, err)
	assert.Equal(t, "f@farm.test", info.Subject)
	assert.True(t, info.IssuedAt.Equal(issued))
	assert.False(t, info.Expired(issued.Add(30*time.Minute)))
	assert.True(t, info.Expired(issued.Add(2*time.Hour)))

	_, err = Inspect("opaque-token")
	assert.Error(t, err)
}
