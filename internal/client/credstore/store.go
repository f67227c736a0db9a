// Package credstore owns the console's identity state: the managed user
// set, password verification, session issuance, and the durable auth record
// that survives process restarts.
//
// The store is a process-wide singleton with an explicit lifecycle: Init
// loads and validates persisted state once at startup, every later mutation
// goes through the operations below, and Logout tears the session down.
// Each operation replaces session/user state in one atomic step and is
// side-effect-free on failure.
package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"mpcconsole/internal/client/models"
	"mpcconsole/internal/client/repositories/authstate"
	"mpcconsole/internal/client/repositories/credentials"
	"mpcconsole/internal/common"
	"mpcconsole/internal/dbx"
	"mpcconsole/internal/logging"
	"mpcconsole/internal/passhash"
	"mpcconsole/internal/token"
)

// SessionTTL is the fixed validity of an issued session.
const SessionTTL = 24 * time.Hour

// Store is the credential store. All exported methods are safe for
// concurrent use.
type Store struct {
	mu      sync.Mutex
	db      *sql.DB
	secret  []byte
	session *models.Session
	users   []models.User
	log     logging.Logger

	// test seams
	now   func() time.Time
	newID func() string
}

// New constructs a Store over the local state database. Call Init before
// anything else.
func New(db *sql.DB, secret []byte, log logging.Logger) *Store {
	return &Store{
		db:     db,
		secret: secret,
		log:    log,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// seedUser is a built-in account created on first run, mirroring the
// accounts the cluster operators expect out of the box.
type seedUser struct {
	id       string
	username string
	password string
	role     models.Role
}

func seedUsers() []seedUser {
	return []seedUser{
		{id: "1", username: "admin", password: "admin123", role: models.RoleAdmin},
		{id: "2", username: "user1", password: "user123", role: models.RoleUser},
		{id: "3", username: "user2", password: "user123", role: models.RoleUser},
	}
}

// Init loads the persisted auth record, seeding the user set on first run.
// A persisted session is restored only if its token is still valid and its
// subject still exists; anything else is treated as absent.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := authstate.NewSQLiteRepository(s.db).Get(ctx)
	if errors.Is(err, common.ErrNotFound) {
		return s.seed(ctx)
	}
	if err != nil {
		return fmt.Errorf("loading auth state: %w", err)
	}

	s.users = rec.Users
	s.session = nil

	if rec.IsAuthenticated && rec.Token != "" {
		claims, err := token.Parse(rec.Token, s.secret)
		if err != nil {
			s.log.Info(ctx, "persisted session rejected", "reason", err)
			return s.persistLocked(ctx)
		}
		user, ok := s.findByIDLocked(claims.Subject)
		if !ok {
			s.log.Info(ctx, "persisted session subject no longer exists", "id", claims.Subject)
			return s.persistLocked(ctx)
		}
		s.session = &models.Session{
			Token:     rec.Token,
			User:      user,
			IssuedAt:  claims.IssuedAt.Time,
			ExpiresAt: claims.ExpiresAt.Time,
		}
	}
	return nil
}

func (s *Store) seed(ctx context.Context) error {
	seeds := seedUsers()
	users := make([]models.User, 0, len(seeds))

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		creds := credentials.NewSQLiteRepository(tx)
		for _, su := range seeds {
			hash, err := passhash.Hash([]byte(su.password))
			if err != nil {
				return fmt.Errorf("hashing seed credential: %w", err)
			}
			if err := creds.Set(ctx, su.id, hash); err != nil {
				return err
			}
			users = append(users, models.User{ID: su.id, Username: su.username, Role: su.role})
		}

		rec := &authstate.Record{Users: users}
		if err := authstate.NewSQLiteRepository(tx).Save(ctx, rec); err != nil {
			return err
		}
		s.users = users
		return nil
	})
}

// Login verifies the credentials and, on success, replaces the active
// session with a freshly issued one and persists it durably. The error
// never reveals whether the username or the password was wrong.
func (s *Store) Login(ctx context.Context, username, password string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.findByUsernameLocked(username)
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	hash, err := credentials.NewSQLiteRepository(s.db).Get(ctx, user.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("loading credential: %w", err)
	}

	match, err := passhash.Verify(hash, []byte(password))
	if err != nil {
		return nil, fmt.Errorf("verifying credential: %w", err)
	}
	if !match {
		return nil, common.ErrInvalidCredentials
	}

	now := s.now()
	tok, err := token.Generate(user.ID, user.Role, s.secret, SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	session := &models.Session{
		Token:     tok,
		User:      user,
		IssuedAt:  now,
		ExpiresAt: now.Add(SessionTTL),
	}
	s.session = session
	if err := s.persistLocked(ctx); err != nil {
		s.session = nil
		return nil, err
	}

	s.log.Info(ctx, "login", "user", user.Username, "role", user.Role)
	copied := *session
	return &copied, nil
}

// Logout clears the in-memory and persisted session unconditionally.
// Calling it twice is the same as calling it once.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = nil
	return s.persistLocked(ctx)
}

// CreateUser adds a user with a fresh unique id, storing its credential
// hash separately. A username equal (case-sensitive) to an existing one
// fails with common.ErrUsernameTaken and changes nothing.
func (s *Store) CreateUser(ctx context.Context, username, password string, role models.Role) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrValidation, role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.findByUsernameLocked(username); taken {
		return nil, common.ErrUsernameTaken
	}

	hash, err := passhash.Hash([]byte(password))
	if err != nil {
		return nil, fmt.Errorf("hashing credential: %w", err)
	}

	createdAt := s.now()
	user := models.User{
		ID:        s.newID(),
		Username:  username,
		Role:      role,
		CreatedAt: &createdAt,
	}

	// Insertion order is preserved: new users append at the end.
	users := append(append([]models.User(nil), s.users...), user)

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := credentials.NewSQLiteRepository(tx).Set(ctx, user.ID, hash); err != nil {
			return err
		}
		return authstate.NewSQLiteRepository(tx).Save(ctx, s.recordLocked(users))
	})
	if err != nil {
		return nil, err
	}

	s.users = users
	s.log.Info(ctx, "user created", "user", username, "role", role)
	return &user, nil
}

// DeleteUser removes a user and its credential. Deleting the only admin
// fails with common.ErrLastAdminProtected. Deleting the subject of the
// active session does not invalidate that session; it lapses on its own
// expiry or the next guard check after a restart.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.findByIDLocked(id)
	if !ok {
		return common.ErrNotFound
	}
	if target.Role == models.RoleAdmin && s.adminCountLocked() <= 1 {
		return common.ErrLastAdminProtected
	}

	users := make([]models.User, 0, len(s.users)-1)
	for _, u := range s.users {
		if u.ID != id {
			users = append(users, u)
		}
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := credentials.NewSQLiteRepository(tx).Delete(ctx, id); err != nil {
			return err
		}
		return authstate.NewSQLiteRepository(tx).Save(ctx, s.recordLocked(users))
	})
	if err != nil {
		return err
	}

	s.users = users
	s.log.Info(ctx, "user deleted", "id", id, "user", target.Username)
	return nil
}

// Users returns the managed user set in insertion order.
func (s *Store) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.users...)
}

// Session returns a snapshot of the active session, or nil when logged out.
// Expiry is the caller's concern; the guard re-checks it on every
// navigation.
func (s *Store) Session() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	copied := *s.session
	return &copied
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ""
	}
	return s.session.Token
}

// recordLocked builds the durable record for the given user set and the
// current session. Callers hold s.mu.
func (s *Store) recordLocked(users []models.User) *authstate.Record {
	rec := &authstate.Record{Users: users}
	if s.session != nil {
		user := s.session.User
		rec.Token = s.session.Token
		rec.User = &user
		rec.IsAuthenticated = true
	}
	return rec
}

func (s *Store) persistLocked(ctx context.Context) error {
	if err := authstate.NewSQLiteRepository(s.db).Save(ctx, s.recordLocked(s.users)); err != nil {
		return fmt.Errorf("persisting auth state: %w", err)
	}
	return nil
}

func (s *Store) findByUsernameLocked(username string) (models.User, bool) {
	for _, u := range s.users {
		if u.Username == username {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *Store) findByIDLocked(id string) (models.User, bool) {
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *Store) adminCountLocked() int {
	n := 0
	for _, u := range s.users {
		if u.Role == models.RoleAdmin {
			n++
		}
	}
	return n
}
