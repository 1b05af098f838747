package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"paggie/trainer-app/internal/domain"
	"paggie/trainer-app/internal/repository"
	"paggie/trainer-app/internal/session"
	"paggie/trainer-app/internal/validation"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("Este e-mail já está cadastrado. Faça login ou use outro e-mail.")
	ErrAuthenticationFailed = errors.New("E-mail ou senha incorretos.")
	ErrAuthTimeout          = errors.New("Tempo de espera esgotado. Verifique sua conexão e tente novamente.")
	ErrPasswordMismatch     = errors.New("As senhas não coincidem.")
	ErrInvalidRecovery      = errors.New("Sessão inválida ou expirada. Solicite uma nova redefinição de senha.")
	ErrNotSignedIn          = errors.New("Sessão expirada. Faça login novamente.")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

// Token purposes.
const (
	PurposeSession  = "session"
	PurposeRecovery = "recovery"
)

const tokenIssuer = "paggie-trainer"

// Claims is the JWT payload of session and recovery tokens.
type Claims struct {
	UserID  string `json:"uid"`
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// RecoverySender delivers a password recovery token to its owner.
type RecoverySender interface {
	SendRecovery(ctx context.Context, email, token string) error
}

// LogRecoverySender writes recovery tokens to the log. It stands in for a
// mail gateway in local installs.
type LogRecoverySender struct{}

func (LogRecoverySender) SendRecovery(_ context.Context, email, token string) error {
	logrus.WithField("email", email).Infof("password recovery requested, token: %s", token)
	return nil
}

// AuthService signs trainers in and out and publishes the resulting session
// changes.
type AuthService interface {
	session.Observer
	SignUp(ctx context.Context, email, password string) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	SignOut(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) error
	Recover(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, newPassword, confirmPassword string) error
	ValidateToken(token string) (*Claims, error)
	GetJWTSecret() string
}

// authService implements the AuthService interface.
type authService struct {
	userRepo           repository.UserRepository
	sender             RecoverySender
	jwtSecret          string
	jwtExpiration      time.Duration
	recoveryExpiration time.Duration
	now                func() time.Time

	mu        sync.Mutex
	current   *session.Session
	listeners map[int]session.Listener
	nextID    int
}

// NewAuthService creates a new instance of authService. A nil sender logs
// recovery tokens.
func NewAuthService(userRepo repository.UserRepository, sender RecoverySender, jwtSecret string, jwtExpiration, recoveryExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 24 * time.Hour
	}
	if recoveryExpiration <= 0 {
		recoveryExpiration = time.Hour
	}
	if sender == nil {
		sender = LogRecoverySender{}
	}
	return &authService{
		userRepo:           userRepo,
		sender:             sender,
		jwtSecret:          jwtSecret,
		jwtExpiration:      jwtExpiration,
		recoveryExpiration: recoveryExpiration,
		now:                time.Now,
		listeners:          map[int]session.Listener{},
	}
}

// SignUp creates an account. It does not sign the new user in.
func (s *authService) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if err := validation.Email(email).Err(); err != nil {
		return nil, err
	}
	if err := validation.Password(password).Err(); err != nil {
		return nil, err
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, mapAuthError(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// Lost a race against another sign up with the same email.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, mapAuthError(err)
	}
	user.ID = userID
	user.PasswordHash = ""
	return user, nil
}

// SignIn checks the credentials, opens the session and notifies listeners.
func (s *authService) SignIn(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, ErrAuthenticationFailed
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, mapAuthError(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err := s.generateJWT(user, PurposeSession, s.jwtExpiration)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	user.PasswordHash = ""

	s.publish(session.EventSignedIn, &session.Session{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Token:  token,
	})
	return token, user, nil
}

// SignOut closes the current session. Signing out twice is not an error.
func (s *authService) SignOut(_ context.Context) error {
	s.publish(session.EventSignedOut, nil)
	return nil
}

// ForgotPassword sends a recovery token when the email belongs to an
// account. Unknown emails succeed silently so accounts cannot be probed.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := validation.Email(email).Err(); err != nil {
		return err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		logrus.WithField("email", email).Debug("recovery requested for unknown email")
		return nil
	}
	if err != nil {
		return mapAuthError(err)
	}

	token, err := s.generateJWT(user, PurposeRecovery, s.recoveryExpiration)
	if err != nil {
		return ErrTokenGeneration
	}
	if err := s.sender.SendRecovery(ctx, user.Email, token); err != nil {
		return fmt.Errorf("send recovery token: %w", err)
	}
	return nil
}

// Recover opens a recovery session from a token sent by ForgotPassword.
func (s *authService) Recover(ctx context.Context, token string) error {
	claims, err := s.ValidateToken(token)
	if err != nil || claims.Purpose != PurposeRecovery {
		return ErrInvalidRecovery
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return ErrInvalidRecovery
	}
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidRecovery
		}
		return mapAuthError(err)
	}

	s.publish(session.EventPasswordRecovery, &session.Session{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Token:    token,
		Recovery: true,
	})
	return nil
}

// ResetPassword replaces the password of the recovery session and then
// signs out, so the trainer logs in again with the new password.
func (s *authService) ResetPassword(ctx context.Context, newPassword, confirmPassword string) error {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()
	if current == nil || !current.Recovery {
		return ErrInvalidRecovery
	}

	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	if err := validation.Password(newPassword).Err(); err != nil {
		return err
	}

	id, err := primitive.ObjectIDFromHex(current.UserID)
	if err != nil {
		return ErrInvalidRecovery
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrHashingFailed
	}
	if err := s.userRepo.UpdatePassword(ctx, id, string(hashedPassword)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidRecovery
		}
		return mapAuthError(err)
	}

	s.publish(session.EventUserUpdated, current)
	s.publish(session.EventSignedOut, nil)
	return nil
}

// Current returns the open session, or nil.
func (s *authService) Current(_ context.Context) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, nil
	}
	out := *s.current
	return &out, nil
}

// Subscribe registers l for every later session change.
func (s *authService) Subscribe(l session.Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// publish stores the new session and calls listeners outside the lock.
func (s *authService) publish(e session.Event, sess *session.Session) {
	s.mu.Lock()
	if e == session.EventSignedOut {
		s.current = nil
	} else if sess != nil {
		cp := *sess
		s.current = &cp
	}
	listeners := make([]session.Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		var arg *session.Session
		if sess != nil {
			cp := *sess
			arg = &cp
		}
		l(e, arg)
	}
}

// ValidateToken parses and verifies a token of any purpose.
func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	return ParseToken(s.jwtSecret, tokenString)
}

// ParseToken verifies an HS256 token signed with secret.
func ParseToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" || claims.Purpose == "" {
		return nil, errors.New("invalid token or missing claims")
	}
	return claims, nil
}

// --- JWT Helper ---

func (s *authService) generateJWT(user *domain.User, purpose string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:  user.ID.Hex(),
		Email:   user.Email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}

// mapAuthError turns store outages into the connectivity message.
func mapAuthError(err error) error {
	if errors.Is(err, repository.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return ErrAuthTimeout
	}
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
