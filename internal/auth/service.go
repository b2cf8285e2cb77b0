package auth

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/argon2"

	"github.com/akuznecov/skyvault/internal/common"
	"github.com/akuznecov/skyvault/internal/config"
	"github.com/akuznecov/skyvault/internal/dbx"
	"github.com/akuznecov/skyvault/internal/models"
	"github.com/akuznecov/skyvault/internal/store/repomanager"
)

// Service is the concrete Provider backed by the users and sessions
// repositories. It holds at most one active session per process.
type Service struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration

	mu          sync.Mutex
	session     *models.Session
	subscribers map[int]func(Event, *models.Session)
	nextSubID   int
}

// NewService constructs a Service using repositories and application config.
func NewService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *Service {
	return &Service{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		subscribers:                  make(map[int]func(Event, *models.Session)),
	}
}

// SignUp creates a new account with an argon2id password hash.
func (s *Service) SignUp(ctx context.Context, email string, password []byte) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || len(password) == 0 {
		return &common.AuthError{Kind: "credentials", Err: common.ErrInvalidCredentials}
	}

	hash, err := hashPassword(password)
	if err != nil {
		return &common.AuthError{Kind: "internal", Err: err}
	}

	repo := s.repomanager.Users(s.db)
	if _, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: hash}); err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return &common.AuthError{Kind: "credentials", Err: common.ErrEmailTaken}
		}
		return &common.AuthError{Kind: "internal", Err: err}
	}
	return nil
}

// SignIn verifies the password against the stored hash and, on success,
// establishes the process session and notifies subscribers.
func (s *Service) SignIn(ctx context.Context, email string, password []byte) (*models.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, &common.AuthError{Kind: "credentials", Err: common.ErrInvalidCredentials}
		}
		return nil, &common.AuthError{Kind: "internal", Err: err}
	}

	if !verifyPassword(user.PasswordHash, password) {
		return nil, &common.AuthError{Kind: "credentials", Err: common.ErrInvalidCredentials}
	}

	session, err := s.establishSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.notify(EventSignedIn, session)
	return session, nil
}

// CurrentSession returns the active session. An expired access token is
// rotated transparently through the refresh token; when rotation fails the
// session is gone and common.ErrNoSession is returned. No retries.
func (s *Service) CurrentSession(ctx context.Context) (*models.Session, error) {
	s.mu.Lock()
	session := s.session
	s.mu.Unlock()

	if session == nil {
		return nil, &common.AuthError{Kind: "session", Err: common.ErrNoSession}
	}

	if _, err := ParseToken(session.AccessToken, s.jwtSecret); err == nil {
		return session, nil
	} else if !errors.Is(err, common.ErrTokenExpired) {
		s.dropSession()
		return nil, &common.AuthError{Kind: "token", Err: err}
	}

	refreshed, err := s.refresh(ctx, session.RefreshToken)
	if err != nil {
		s.dropSession()
		return nil, &common.AuthError{Kind: "session", Err: common.ErrNoSession}
	}
	return refreshed, nil
}

// SignOut revokes every refresh token for the signed-in user, clears the
// process session, and notifies subscribers even if revocation failed: from
// the caller's point of view the session is gone either way.
func (s *Service) SignOut(ctx context.Context) error {
	s.mu.Lock()
	session := s.session
	s.session = nil
	s.mu.Unlock()

	if session == nil {
		return nil
	}

	repo := s.repomanager.Sessions(s.db)
	err := repo.DeleteByUser(ctx, session.UserID)

	s.notify(EventSignedOut, nil)

	if err != nil {
		return &common.AuthError{Kind: "internal", Err: err}
	}
	return nil
}

// Subscribe registers fn on the session-change stream and returns its
// detach function.
func (s *Service) Subscribe(fn func(event Event, session *models.Session)) Unsubscribe {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// --- helpers below ---

func (s *Service) establishSession(ctx context.Context, user *models.User) (*models.Session, error) {
	access, err := GenerateToken(user.ID, user.Email, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, &common.AuthError{Kind: "internal", Err: err}
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, &common.AuthError{Kind: "internal", Err: err}
	}

	repo := s.repomanager.Sessions(s.db)
	if err := repo.Create(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, &common.AuthError{Kind: "internal", Err: err}
	}

	session := &models.Session{
		UserID:       user.ID,
		Email:        user.Email,
		AccessToken:  access,
		RefreshToken: refresh,
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	return session, nil
}

// refresh validates the refresh token, rotates it transactionally, and
// installs a fresh session.
func (s *Service) refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	repo := s.repomanager.Sessions(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, token.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	var session *models.Session
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.Sessions(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}

		access, err := GenerateToken(user.ID, user.Email, s.jwtSecret, s.accessTokenValidityDuration)
		if err != nil {
			return err
		}
		rotated, err := common.MakeRandHexString(32)
		if err != nil {
			return err
		}
		if err := repoTx.Create(ctx, user.ID, rotated, s.refreshTokenValidityDuration); err != nil {
			return err
		}

		session = &models.Session{
			UserID:       user.ID,
			Email:        user.Email,
			AccessToken:  access,
			RefreshToken: rotated,
		}
		return nil
	}); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	return session, nil
}

func (s *Service) dropSession() {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
	s.notify(EventSignedOut, nil)
}

func (s *Service) notify(event Event, session *models.Session) {
	s.mu.Lock()
	fns := make([]func(Event, *models.Session), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(event, session)
	}
}

// hashPassword derives an argon2id key with a fresh random salt and encodes
// both as "salt$key" hex.
func hashPassword(password []byte) (string, error) {
	salt := common.GenerateRandByteArray(16)
	key := argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(key), nil
}

func verifyPassword(encoded string, password []byte) bool {
	parts := strings.SplitN(encoded, "$", 2)
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	stored, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	candidate := argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
	return subtle.ConstantTimeCompare(stored, candidate) == 1
}
