// Package authz implements credential verification and the role gate that
// fronts every protected operation. A caller presents a signed bearer token;
// the gate checks the verified role against the operation's allow-list, and
// the derived Scope narrows list queries to records owned by the caller.
package authz

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Roy42022p/Backend/internal/domain/records"
	"github.com/Roy42022p/Backend/internal/domain/shared"
)

// Claims — полезная нагрузка токена доступа: логин, роль и идентификатор.
type Claims struct {
	jwt.RegisteredClaims
	Role        records.Role `json:"role"`
	PrincipalID int64        `json:"id"`
}

// Scope возвращает область видимости владельца токена.
func (c *Claims) Scope() records.Scope {
	if c.Role == records.RoleCurator {
		return records.CuratorScope(c.PrincipalID)
	}
	return records.Scope{Role: c.Role, PrincipalID: c.PrincipalID}
}

// Ошибки проверки доступа.
var (
	ErrInvalidToken = shared.NewDomainError("authz", "Verify", shared.ErrUnauthorized, "invalid or expired token")
	ErrAccessDenied = shared.NewDomainError("authz", "Require", shared.ErrForbidden, "insufficient permissions")
)

// TokenManager выпускает и проверяет подписанные токены доступа (HS256).
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager creates a token manager with the given signing secret.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Issue создаёт токен для аутентифицированного участника.
func (m *TokenManager) Issue(p *records.Principal) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   p.Login,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Role:        p.Role,
		PrincipalID: p.ID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", shared.WrapError("authz", "Issue", shared.ErrExternalService, "token signing failed", err)
	}
	return signed, nil
}

// Verify разбирает и проверяет токен. Любой дефект токена — ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.Role.IsValid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Require проверяет, что роль вызывающего входит в список разрешённых.
func Require(claims *Claims, allowed ...records.Role) error {
	for _, role := range allowed {
		if claims.Role == role {
			return nil
		}
	}
	return ErrAccessDenied
}
