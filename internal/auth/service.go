package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/noah-isme/backend-kasir/internal/common"
)

const (
	defaultTokenTTL = time.Hour

	roleClaim          = "role"
	customerSinceClaim = "customer_since"
)

// Service verifies credentials against the static user table and issues
// HS256 access tokens carrying the identity claims.
type Service struct {
	users     *Store
	secret    []byte
	tokenTTL  time.Duration
	now       func() time.Time
	signer    jwa.SignatureAlgorithm
	validator TokenValidator
	issuer    string
	audience  string
}

// Config configures the auth service.
type Config struct {
	Users     *Store
	Secret    string
	TokenTTL  time.Duration
	Issuer    string
	Audience  string
	ClockSkew time.Duration
}

// LoginResult bundles token material returned after a successful login.
type LoginResult struct {
	Identity  Identity  `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewService constructs a Service instance with sane defaults.
func NewService(cfg Config) (*Service, error) {
	if cfg.Users == nil {
		return nil, errors.New("auth: user store is required")
	}
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, errors.New("auth: secret is required")
	}
	tokenTTL := cfg.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	issuer := strings.TrimSpace(cfg.Issuer)
	if issuer == "" {
		issuer = "backend-kasir"
	}
	audience := strings.TrimSpace(cfg.Audience)
	if audience == "" {
		audience = "kasir-clients"
	}
	clockSkew := cfg.ClockSkew
	if clockSkew < 0 {
		clockSkew = 0
	}
	return &Service{
		users:    cfg.Users,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
		signer:   jwa.HS256,
		validator: TokenValidator{
			Issuer:    issuer,
			Audience:  audience,
			ClockSkew: clockSkew,
			Algorithm: jwa.HS256,
		},
		issuer:   issuer,
		audience: audience,
	}, nil
}

// WithNow allows tests to override the time provider.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Login verifies credentials and issues a signed access token.
func (s *Service) Login(username, password string) (LoginResult, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return LoginResult{}, invalidCredentials(nil)
	}
	user, ok := s.users.Find(username)
	if !ok {
		return LoginResult{}, invalidCredentials(nil)
	}
	match, err := argon2id.ComparePasswordAndHash(password, user.PasswordHash)
	if err != nil || !match {
		return LoginResult{}, invalidCredentials(err)
	}

	token, expiresAt, err := s.signToken(user.Identity)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign access token: %w", err)
	}
	return LoginResult{Identity: user.Identity, Token: token, ExpiresAt: expiresAt}, nil
}

// ParseToken validates an access token and reconstructs the caller identity.
func (s *Service) ParseToken(token string) (Identity, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return Identity{}, unauthenticated("missing token", nil)
	}
	algorithm, err := extractTokenAlgorithm(trimmed)
	if err != nil {
		return Identity{}, unauthenticated("invalid token", err)
	}
	if s.validator.Algorithm != "" && algorithm != s.validator.Algorithm {
		return Identity{}, unauthenticated("invalid token", fmt.Errorf("unexpected token algorithm %s", algorithm))
	}
	parsed, err := jwt.ParseString(trimmed, jwt.WithKey(algorithm, s.secret))
	if err != nil {
		return Identity{}, unauthenticated("invalid token", err)
	}
	if err := s.validator.Validate(parsed, algorithm, s.now()); err != nil {
		return Identity{}, unauthenticated("invalid token", err)
	}
	return identityFromToken(parsed)
}

func (s *Service) signToken(identity Identity) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	builder := jwt.NewBuilder().
		Subject(identity.Username).
		Issuer(s.issuer).
		Audience([]string{s.audience}).
		IssuedAt(now).
		Expiration(expiresAt).
		Claim(roleClaim, string(identity.Role))
	if identity.CustomerSince != nil {
		builder = builder.Claim(customerSinceClaim, identity.CustomerSince.Format(time.RFC3339))
	}
	token, err := builder.Build()
	if err != nil {
		return "", time.Time{}, err
	}
	signed, err := jwt.Sign(token, jwt.WithKey(s.signer, s.secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return string(signed), expiresAt, nil
}

func identityFromToken(tok jwt.Token) (Identity, error) {
	roleValue, ok := tok.Get(roleClaim)
	if !ok {
		return Identity{}, unauthenticated("invalid token", errors.New("auth: token missing role claim"))
	}
	roleStr, ok := roleValue.(string)
	if !ok {
		return Identity{}, unauthenticated("invalid token", errors.New("auth: role claim is not a string"))
	}
	role, err := ParseRole(roleStr)
	if err != nil {
		return Identity{}, unauthenticated("invalid token", err)
	}
	identity := Identity{Username: tok.Subject(), Role: role}
	if sinceValue, ok := tok.Get(customerSinceClaim); ok {
		sinceStr, ok := sinceValue.(string)
		if !ok {
			return Identity{}, unauthenticated("invalid token", errors.New("auth: customer_since claim is not a string"))
		}
		since, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			return Identity{}, unauthenticated("invalid token", err)
		}
		identity.CustomerSince = &since
	}
	return identity, nil
}

func extractTokenAlgorithm(token string) (jwa.SignatureAlgorithm, error) {
	message, err := jws.ParseString(token)
	if err != nil {
		return "", err
	}
	signatures := message.Signatures()
	if len(signatures) == 0 {
		return "", errors.New("auth: token contains no signatures")
	}
	var algorithm jwa.SignatureAlgorithm
	for _, sig := range signatures {
		headers := sig.ProtectedHeaders()
		if headers == nil {
			return "", errors.New("auth: token missing protected headers")
		}
		alg := headers.Algorithm()
		if alg == "" {
			return "", errors.New("auth: token missing algorithm")
		}
		if alg == jwa.NoSignature {
			return "", errors.New("auth: token uses none algorithm")
		}
		if algorithm == "" {
			algorithm = alg
		} else if algorithm != alg {
			return "", errors.New("auth: mixed token algorithms detected")
		}
	}
	return algorithm, nil
}

func unauthenticated(message string, err error) *common.AppError {
	return common.NewAppError(common.CodeUnauthenticated, message, http.StatusUnauthorized, err)
}

func invalidCredentials(err error) *common.AppError {
	return common.NewAppError(common.CodeUnauthenticated, "invalid username or password", http.StatusUnauthorized, err)
}
