package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"church-app-go/internal/config"
	"church-app-go/internal/identity"
	"church-app-go/internal/session"
	"church-app-go/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// SessionAuth resolves bearer tokens to sessions. With a JWT secret
// configured tokens are verified locally; otherwise each token is
// introspected against the identity provider. Resolved sessions are cached
// so repeated requests with the same token skip the round trip.
type SessionAuth struct {
	jwtSecret   []byte
	provider    identity.Provider
	cache       *expirable.LRU[string, session.Session]
	skipAuth    bool
	mockSession session.Session
	log         logger.Logger
}

func NewSessionAuth(cfg config.SupabaseConfig, provider identity.Provider, log logger.Logger) *SessionAuth {
	mockRole, _ := session.ParseRole(cfg.MockRole)
	return &SessionAuth{
		jwtSecret: []byte(cfg.JWTSecret),
		provider:  provider,
		cache:     expirable.NewLRU[string, session.Session](cfg.AuthCacheSize, nil, cfg.AuthCacheTTL),
		skipAuth:  cfg.SkipAuth,
		mockSession: session.Session{
			UserID:     strings.TrimSpace(cfg.MockUserID),
			Email:      strings.TrimSpace(cfg.MockEmail),
			Role:       mockRole,
			ChurchID:   strings.TrimSpace(cfg.MockChurchID),
			ChurchSlug: strings.TrimSpace(cfg.MockChurchSlug),
			MemberID:   strings.TrimSpace(cfg.MockMemberID),
		},
		log: log,
	}
}

func (a *SessionAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			if a.mockSession.UserID == "" {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			ctx := session.WithSession(r.Context(), a.mockSession)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		if cached, ok := a.cache.Get(token); ok {
			ctx := session.WithSession(r.Context(), cached)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		var (
			sess session.Session
			err  error
		)
		if len(a.jwtSecret) > 0 {
			sess, err = a.verifyJWT(token)
		} else {
			sess, err = a.introspect(r, token)
		}
		if err != nil {
			if !errors.Is(err, identity.ErrUnauthenticated) {
				a.log.Warn("auth: token resolution failed", "error", err)
			}
			unauthorized(w)
			return
		}

		a.cache.Add(token, sess)
		ctx := session.WithSession(r.Context(), sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type accessClaims struct {
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	AppMetadata  map[string]interface{} `json:"app_metadata"`
	jwt.RegisteredClaims
}

func (a *SessionAuth) verifyJWT(token string) (session.Session, error) {
	var claims accessClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return session.Session{}, identity.ErrUnauthenticated
	}
	if claims.Subject == "" {
		return session.Session{}, identity.ErrUnauthenticated
	}
	return session.FromClaims(claims.Subject, claims.Email, claims.UserMetadata, claims.AppMetadata), nil
}

func (a *SessionAuth) introspect(r *http.Request, token string) (session.Session, error) {
	if a.provider == nil {
		return session.Session{}, identity.ErrUnauthenticated
	}
	user, err := a.provider.UserFromToken(r.Context(), token)
	if err != nil {
		return session.Session{}, err
	}
	return session.FromClaims(user.ID, user.Email, user.UserMetadata, user.AppMetadata), nil
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
