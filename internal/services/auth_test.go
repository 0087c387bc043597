package services

import (
	"context"
	"errors"
	"testing"

	"github.com/leadbase/apiserver/internal/store"
	"github.com/leadbase/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users  map[string]types.User
	nextID int64
	err    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]types.User{}}
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (types.User, error) {
	if f.err != nil {
		return types.User{}, f.err
	}
	user, ok := f.users[username]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) Create(_ context.Context, username *string, passwordHash string) (types.User, error) {
	if f.err != nil {
		return types.User{}, f.err
	}
	if username == nil {
		return types.User{}, errNotNull
	}
	if _, ok := f.users[*username]; ok {
		return types.User{}, store.ErrDuplicate
	}
	f.nextID++
	user := types.User{ID: f.nextID, Username: *username, PasswordHash: passwordHash}
	f.users[user.Username] = user
	return user, nil
}

var errNotNull = errors.New("NOT NULL constraint failed: users.username")

func TestAuthService_RegisterHashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)

	user, err := svc.Register(context.Background(), strPtr("alice"), strPtr("s3cret"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, user.ID)

	stored := repo.users["alice"]
	assert.NotEqual(t, "s3cret", stored.PasswordHash)

	cost, err := bcrypt.Cost([]byte(stored.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, BcryptCost, cost)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret")))
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, strPtr("alice"), strPtr("one"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, strPtr("alice"), strPtr("two"))
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestAuthService_RegisterStoreError(t *testing.T) {
	repo := newFakeUserRepo()
	repo.err = errors.New("disk full")
	svc := NewAuthService(repo)

	_, err := svc.Register(context.Background(), strPtr("alice"), strPtr("pw"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateUsername)
	assert.ErrorIs(t, err, repo.err)
}

func TestAuthService_RegisterPasswordTooLong(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a'
	}

	_, err := svc.Register(context.Background(), strPtr("alice"), strPtr(string(long)))
	assert.ErrorIs(t, err, ErrHashFailure)
}

func TestAuthService_Login(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, strPtr("alice"), strPtr("s3cret"))
	require.NoError(t, err)

	user, err := svc.Login(ctx, strPtr("alice"), strPtr("s3cret"))
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.Login(ctx, strPtr("alice"), strPtr("wrong"))
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, strPtr("bob"), strPtr("s3cret"))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_LoginStoreError(t *testing.T) {
	repo := newFakeUserRepo()
	repo.err = errors.New("io error")
	svc := NewAuthService(repo)

	_, err := svc.Login(context.Background(), strPtr("alice"), strPtr("pw"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_LoginCorruptHash(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["alice"] = types.User{ID: 1, Username: "alice", PasswordHash: "not-a-bcrypt-hash"}
	svc := NewAuthService(repo)

	_, err := svc.Login(context.Background(), strPtr("alice"), strPtr("pw"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RegisterMissingFields(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, strPtr("alice"), nil)
	assert.ErrorIs(t, err, ErrMissingPassword)

	_, err = svc.Register(ctx, nil, strPtr("pw"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errNotNull)
	assert.NotErrorIs(t, err, ErrDuplicateUsername)

	assert.Empty(t, repo.users)
}

func TestAuthService_LoginMissingFields(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, strPtr("alice"), strPtr("pw"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, nil, strPtr("pw"))
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Login(ctx, strPtr("alice"), nil)
	assert.ErrorIs(t, err, ErrMissingPassword)

	_, err = svc.Login(ctx, strPtr("bob"), nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
