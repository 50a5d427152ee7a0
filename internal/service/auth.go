package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/usermgmt/backend/internal/db"
	"github.com/usermgmt/backend/internal/limiter"
	"github.com/usermgmt/backend/internal/model"
	"github.com/usermgmt/backend/internal/token"
)

// authUserRepo - 인증에 필요한 users 테이블 인터페이스
type authUserRepo interface {
	CreateUser(ctx context.Context, in model.NewUser) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// Session is the result of register, login and refresh.
type Session struct {
	User         *model.User
	AccessToken  string
	RefreshToken string
}

type AuthService struct {
	users   authUserRepo
	ledger  *RefreshLedger
	codec   *token.Codec
	hasher  PasswordHasher
	limiter limiter.LoginLimiter
	log     *slog.Logger
}

func NewAuthService(users authUserRepo, ledger *RefreshLedger, codec *token.Codec, hasher PasswordHasher, lim limiter.LoginLimiter, log *slog.Logger) *AuthService {
	if lim == nil {
		lim = limiter.Noop{}
	}
	return &AuthService{
		users:   users,
		ledger:  ledger,
		codec:   codec,
		hasher:  hasher,
		limiter: lim,
		log:     log,
	}
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*Session, error) {
	s.log.DebugContext(ctx, "new request to register user",
		"firstName", req.FirstName, "lastName", req.LastName, "email", req.Email, "role", req.Role)

	_, err := s.users.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if !db.IsNoRows(err) {
		return nil, storageErr("find user by email", err)
	}

	role := req.Role
	if role == "" {
		role = model.RoleCustomer
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, model.NewUser{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, storageErr("create user", err)
	}

	s.log.InfoContext(ctx, "user has been registered", "id", user.ID)
	return s.issueTokens(ctx, user)
}

// Login returns ErrInvalidCredentials for both an unknown email and a wrong
// password so callers cannot tell which one failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	s.log.DebugContext(ctx, "new request to login user", "email", email)

	if err := s.limiter.Allow(ctx, email); err != nil {
		if errors.Is(err, limiter.ErrTooManyAttempts) {
			return nil, err
		}
		s.log.WarnContext(ctx, "login limiter check failed", "error", err)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, s.loginFailed(ctx, email)
		}
		return nil, storageErr("find user by email", err)
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, s.loginFailed(ctx, email)
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.log.WarnContext(ctx, "login limiter reset failed", "error", err)
	}

	session, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "user has been logged in", "id", user.ID)
	return session, nil
}

// Refresh rotates the ledger record referenced by an already verified
// refresh token and mints a new token pair from the current user row.
func (s *AuthService) Refresh(ctx context.Context, claims *token.Claims) (*Session, error) {
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrUnauthorized
	}
	recordID, err := claims.RecordID()
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, storageErr("find user by id", err)
	}

	payload := payloadFor(user)
	accessToken, err := s.codec.SignAccess(payload)
	if err != nil {
		return nil, err
	}

	record, err := s.ledger.Rotate(ctx, recordID, user.ID)
	if err != nil {
		return nil, err
	}

	payload.TokenID = record.ID
	refreshToken, err := s.codec.SignRefresh(payload)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "session refreshed", "id", user.ID)
	return &Session{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout deletes the ledger record behind the refresh token. Repeating it is
// not an error.
func (s *AuthService) Logout(ctx context.Context, claims *token.Claims) error {
	recordID, err := claims.RecordID()
	if err != nil {
		return ErrUnauthorized
	}
	if err := s.ledger.DeleteByID(ctx, recordID); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "user has been logged out", "id", claims.Subject)
	return nil
}

func (s *AuthService) Self(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, storageErr("find user by id", err)
	}
	return user, nil
}

// EnsureAdmin creates an admin account on startup when none exists for email.
func (s *AuthService) EnsureAdmin(ctx context.Context, firstName, lastName, email, password string) error {
	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !db.IsNoRows(err) {
		return storageErr("find user by email", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	user, err := s.users.CreateUser(ctx, model.NewUser{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil
		}
		return storageErr("create admin", err)
	}
	s.log.InfoContext(ctx, "admin user created", "id", user.ID)
	return nil
}

func (s *AuthService) loginFailed(ctx context.Context, email string) error {
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.log.WarnContext(ctx, "login limiter record failed", "error", err)
	}
	return ErrInvalidCredentials
}

// issueTokens persists a ledger record, then signs the refresh token that
// references it and the access token.
func (s *AuthService) issueTokens(ctx context.Context, user *model.User) (*Session, error) {
	payload := payloadFor(user)

	record, err := s.ledger.Persist(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	refreshPayload := payload
	refreshPayload.TokenID = record.ID
	refreshToken, err := s.codec.SignRefresh(refreshPayload)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.codec.SignAccess(payload)
	if err != nil {
		return nil, err
	}

	return &Session{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// payloadFor always carries the tenant when the user has one.
func payloadFor(user *model.User) token.Payload {
	return token.Payload{
		UserID:   user.ID,
		Role:     user.Role,
		TenantID: user.TenantID(),
	}
}
