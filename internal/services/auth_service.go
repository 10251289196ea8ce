package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ApranavC/mypcf/internal/config"
	"github.com/ApranavC/mypcf/internal/logging"
	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	authorizer "github.com/localnerve/authorizer-go"
)

// ErrUnauthenticated is returned when a credential does not identify a user
var ErrUnauthenticated = errors.New("unauthenticated")

// Verifier turns a request credential into a trusted user id
type Verifier interface {
	Verify(ctx context.Context, credential string) (string, error)
}

// NewVerifier builds the Verifier for cfg.AuthMode
func NewVerifier(ctx context.Context, cfg *config.Config, log *slog.Logger) (Verifier, error) {
	log = logging.OrDiscard(log)

	switch cfg.AuthMode {
	case "jwt":
		return NewHMACVerifier(cfg.JWTSecret), nil

	case "jwks":
		jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
			Ctx:               ctx,
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshTimeout:    10 * time.Second,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				log.Error("jwks refresh failed", "error", err)
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load JWKS: %w", err)
		}
		return &jwksVerifier{jwks: jwks, audience: cfg.JWTAudience, issuer: cfg.JWTIssuer}, nil

	case "authorizer":
		log.Info("initializing authorizer", "url", cfg.AuthzURL, "client_id", cfg.AuthzClientID)
		client, err := authorizer.NewAuthorizerClient(cfg.AuthzClientID, cfg.AuthzURL, cfg.AuthzRedirectURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create authorizer client: %w", err)
		}
		return &authorizerVerifier{client: client, roles: []string{"user"}}, nil

	case "header":
		log.Warn("header auth mode trusts X-User-ID, do not expose this server publicly")
		return HeaderVerifier{}, nil
	}

	return nil, fmt.Errorf("unsupported auth mode: %s", cfg.AuthMode)
}

// HMACVerifier accepts HMAC-signed JWTs carrying the user id in "id" or "sub"
type HMACVerifier struct {
	secret []byte
}

// NewHMACVerifier creates an HMACVerifier for secret
func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Verify(_ context.Context, credential string) (string, error) {
	token, err := jwt.Parse(credential, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return userIDFromClaims(token.Claims)
}

type jwksVerifier struct {
	jwks     *keyfunc.JWKS
	audience string
	issuer   string
}

func (v *jwksVerifier) Verify(_ context.Context, credential string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.Parse(credential, v.jwks.Keyfunc, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return userIDFromClaims(token.Claims)
}

// userIDFromClaims prefers a custom "id" claim and falls back to "sub"
func userIDFromClaims(claims jwt.Claims) (string, error) {
	mc, ok := claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("%w: unexpected claims type", ErrUnauthenticated)
	}

	switch id := mc["id"].(type) {
	case string:
		if strings.TrimSpace(id) != "" {
			return id, nil
		}
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), nil
	}

	if sub, err := mc.GetSubject(); err == nil && sub != "" {
		return sub, nil
	}
	return "", fmt.Errorf("%w: token has no user id", ErrUnauthenticated)
}

type authorizerVerifier struct {
	client *authorizer.AuthorizerClient
	roles  []string
}

func (v *authorizerVerifier) Verify(_ context.Context, credential string) (string, error) {
	rolesPtrs := make([]*string, len(v.roles))
	for i := range v.roles {
		rolesPtrs[i] = &v.roles[i]
	}

	res, err := v.client.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: credential,
		Roles:  rolesPtrs,
	})
	if err != nil {
		return "", fmt.Errorf("%w: session validation failed: %v", ErrUnauthenticated, err)
	}
	if res == nil || !res.IsValid || res.User == nil || res.User.ID == "" {
		return "", fmt.Errorf("%w: session is not valid", ErrUnauthenticated)
	}
	return res.User.ID, nil
}

// HeaderVerifier trusts the credential itself as the user id
type HeaderVerifier struct{}

func (HeaderVerifier) Verify(_ context.Context, credential string) (string, error) {
	userID := strings.TrimSpace(credential)
	if userID == "" {
		return "", fmt.Errorf("%w: empty user id", ErrUnauthenticated)
	}
	return userID, nil
}
