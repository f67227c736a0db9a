package credstore

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mpcconsole/internal/client/models"
	"mpcconsole/internal/client/repositories/authstate"
	"mpcconsole/internal/client/store"
	"mpcconsole/internal/common"
	"mpcconsole/internal/logging"
	"mpcconsole/internal/token"
)

var secret = []byte("test-secret")

func testLogger() logging.Logger {
	return logging.NewTextLogger(io.Discard, slog.LevelError)
}

func openDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "console.db")
	db, err := store.Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, dsn
}

func newStore(t *testing.T) *Store {
	t.Helper()
	db, _ := openDB(t)
	s := New(db, secret, testLogger())
	require.NoError(t, s.Init(context.Background()))
	return s
}

func TestInit_SeedsUsers(t *testing.T) {
	s := newStore(t)

	users := s.Users()
	require.Len(t, users, 3)
	require.Equal(t, "admin", users[0].Username)
	require.Equal(t, models.RoleAdmin, users[0].Role)
	require.Nil(t, users[0].CreatedAt, "seed users have no creation time")
	require.Nil(t, s.Session())
}

func TestLogin_Scenarios(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	session, err := s.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, session.User.Role)
	require.NotEmpty(t, session.Token)
	require.WithinDuration(t, time.Now().Add(SessionTTL), session.ExpiresAt, time.Minute)

	require.NoError(t, s.Logout(ctx))

	_, err = s.Login(ctx, "admin", "wrong")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	require.Nil(t, s.Session(), "failed login must not create a session")

	// Unknown username yields the same error as a wrong password.
	_, err = s.Login(ctx, "ghost", "whatever")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLogin_ReplacesSessionAtomically(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	first, err := s.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	second, err := s.Login(ctx, "user1", "user123")
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	got := s.Session()
	require.Equal(t, "user1", got.User.Username)
	require.Equal(t, second.Token, s.Token())
}

func TestLogout_Idempotent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.Login(ctx, "user1", "user123")
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx))
	require.NoError(t, s.Logout(ctx))
	require.Nil(t, s.Session())
	require.Empty(t, s.Token())
}

func TestCreateUser(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "operator", "op-pass", models.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.NotNil(t, u.CreatedAt)

	users := s.Users()
	require.Len(t, users, 4)
	require.Equal(t, "operator", users[3].Username, "insertion order preserved")

	// The new account can authenticate.
	session, err := s.Login(ctx, "operator", "op-pass")
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, session.User.Role)
}

func TestCreateUser_UsernameTaken(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "admin", "x", models.RoleUser)
	require.ErrorIs(t, err, common.ErrUsernameTaken)
	require.Len(t, s.Users(), 3, "user set unchanged after failure")

	// Case differs: exact-match uniqueness lets this one through.
	_, err = s.CreateUser(ctx, "Admin", "x", models.RoleUser)
	require.NoError(t, err)
}

func TestCreateUser_Validation(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "", "pw", models.RoleUser)
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = s.CreateUser(ctx, "x", "pw", models.Role("superuser"))
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestDeleteUser_LastAdminProtected(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	users := s.Users()
	adminID, regularID := users[0].ID, users[1].ID

	err := s.DeleteUser(ctx, adminID)
	require.ErrorIs(t, err, common.ErrLastAdminProtected)
	require.Len(t, s.Users(), 3)

	require.NoError(t, s.DeleteUser(ctx, regularID))
	require.Len(t, s.Users(), 2)

	// A second admin lifts the protection.
	_, err = s.CreateUser(ctx, "admin2", "pw", models.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, s.DeleteUser(ctx, adminID))

	// But the set must always keep at least one admin.
	for _, u := range s.Users() {
		if u.Role == models.RoleAdmin {
			require.ErrorIs(t, s.DeleteUser(ctx, u.ID), common.ErrLastAdminProtected)
		}
	}
}

func TestDeleteUser_Unknown(t *testing.T) {
	s := newStore(t)
	require.ErrorIs(t, s.DeleteUser(context.Background(), "ghost"), common.ErrNotFound)
}

func TestDeleteUser_DoesNotTouchDeletedSubjectsSession(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	session, err := s.Login(ctx, "user1", "user123")
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, session.User.ID))
	require.NotNil(t, s.Session(), "deletion leaves the live session alone")
}

func TestPersistence_SessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "console.db")

	db, err := store.Open(ctx, dsn)
	require.NoError(t, err)
	s := New(db, secret, testLogger())
	require.NoError(t, s.Init(ctx))

	session, err := s.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, "operator", "op-pass", models.RoleUser)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Process restart.
	db, err = store.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s2 := New(db, secret, testLogger())
	require.NoError(t, s2.Init(ctx))

	restored := s2.Session()
	require.NotNil(t, restored)
	require.Equal(t, session.Token, restored.Token)
	require.Equal(t, session.User, restored.User)
	require.Len(t, s2.Users(), 4)
}

func TestPersistence_ExpiredSessionTreatedAsAbsent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "console.db")

	db, err := store.Open(ctx, dsn)
	require.NoError(t, err)
	s := New(db, secret, testLogger())
	require.NoError(t, s.Init(ctx))

	// Persist a record whose token expired long ago.
	expired, err := token.Generate("1", models.RoleAdmin, secret, -time.Hour)
	require.NoError(t, err)
	rec := &authstate.Record{
		Token:           expired,
		User:            &models.User{ID: "1", Username: "admin", Role: models.RoleAdmin},
		IsAuthenticated: true,
		Users:           s.Users(),
	}
	require.NoError(t, authstate.NewSQLiteRepository(db).Save(ctx, rec))
	require.NoError(t, db.Close())

	db, err = store.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s2 := New(db, secret, testLogger())
	require.NoError(t, s2.Init(ctx))
	require.Nil(t, s2.Session())
	require.Len(t, s2.Users(), 3, "user set survives a lapsed session")
}

func TestInit_RejectsSessionOfDeletedSubject(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "console.db")

	db, err := store.Open(ctx, dsn)
	require.NoError(t, err)
	s := New(db, secret, testLogger())
	require.NoError(t, s.Init(ctx))

	tok, err := token.Generate("gone", models.RoleUser, secret, time.Hour)
	require.NoError(t, err)
	rec := &authstate.Record{
		Token:           tok,
		User:            &models.User{ID: "gone", Username: "ghost", Role: models.RoleUser},
		IsAuthenticated: true,
		Users:           s.Users(),
	}
	require.NoError(t, authstate.NewSQLiteRepository(db).Save(ctx, rec))
	require.NoError(t, db.Close())

	db, err = store.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s2 := New(db, secret, testLogger())
	require.NoError(t, s2.Init(ctx))
	require.Nil(t, s2.Session(), "a session whose subject no longer exists is invalid")
}
