package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"agora/internal/clients"
	"agora/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer signs and validates access tokens with one process-wide
// HMAC key and algorithm.
type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenIssuer accepts HS256, HS384 or HS512.
func NewTokenIssuer(secret, algorithm string, ttl time.Duration, issuer string) (*TokenIssuer, error) {
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if secret == "" {
		return nil, errors.New("signing secret is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("token lifetime must be positive")
	}
	return &TokenIssuer{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// Issue mints a token for userID and returns it with its expiry.
func (t *TokenIssuer) Issue(userID string) (string, time.Time, error) {
	issuedAt := t.now()
	expires := issuedAt.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    t.issuer,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expires),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(t.method, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// ParseSubject validates token and returns its subject.
func (t *TokenIssuer) ParseSubject(token string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{t.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, opts...)
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", errors.New("token is not valid")
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// CredentialVerifier checks credentials with the user service.
type CredentialVerifier interface {
	Verify(ctx context.Context, credentials []byte) clients.Verification
}

// Session is a successful login.
type Session struct {
	Token        models.TokenResponse
	ExpiresAt    time.Time
	UserID       string
	RefreshToken string
}

type AuthService struct {
	verifier CredentialVerifier
	tokens   *TokenIssuer
}

func NewAuthService(verifier CredentialVerifier, tokens *TokenIssuer) *AuthService {
	return &AuthService{verifier: verifier, tokens: tokens}
}

// Login forwards the raw credentials body and, for an active user, mints a
// bearer token bound to the verified user id.
func (s *AuthService) Login(ctx context.Context, credentials []byte) (*Session, error) {
	res := s.verifier.Verify(ctx, credentials)
	switch res.Status {
	case clients.VerifyAccepted:
	case clients.VerifyRejected:
		return nil, models.NewUnauthorizedError("Invalid username or password")
	default:
		slog.WarnContext(ctx, "credential verification unavailable", "err", res.Err)
		return nil, models.NewDependencyUnavailableError("User service", res.Err)
	}

	if !res.User.Active {
		slog.WarnContext(ctx, "login refused for inactive account", "user_id", res.User.UserID)
		return nil, models.NewAccountInactiveError(res.User.UserID)
	}

	token, expires, err := s.tokens.Issue(res.User.UserID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	slog.InfoContext(ctx, "login succeeded", "user_id", res.User.UserID)

	return &Session{
		Token:        models.TokenResponse{AccessToken: token, TokenType: "bearer"},
		ExpiresAt:    expires,
		UserID:       res.User.UserID,
		RefreshToken: uuid.NewString(),
	}, nil
}
