// Package access decides whether the current operator may manage quizzes.
//
// The token is the same bearer token the API client sends. Its signature is
// only verified when a shared secret is configured; otherwise the claims are
// read as-is and the server remains the authority.
package access

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Iron-Ham/quizdesk/internal/errors"
)

// DefaultRole is the role required to manage quizzes.
const DefaultRole = "teacher"

// Identity is what the gate learned from the token.
type Identity struct {
	Subject   string
	Roles     []string
	ExpiresAt time.Time
}

// HasRole reports whether role is among the identity's roles.
func (id Identity) HasRole(role string) bool {
	for _, r := range id.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// Gate reports whether quiz management is permitted.
type Gate interface {
	Check() (Identity, error)
}

// Permitted is the boolean view of g.
func Permitted(g Gate) bool {
	_, err := g.Check()
	return err == nil
}

// Open permits everyone. It is used when access.required is false.
type Open struct{}

// Check implements Gate.
func (Open) Check() (Identity, error) {
	return Identity{Subject: "local", Roles: []string{DefaultRole}}, nil
}

// TokenGate checks a JWT bearer token.
type TokenGate struct {
	Token string
	// Role is required in the token's role claims. Empty means DefaultRole.
	Role string
	// Secret enables HMAC signature verification.
	Secret string
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Check implements Gate. Every failure wraps errors.ErrAccessDenied.
func (g TokenGate) Check() (Identity, error) {
	raw := strings.TrimSpace(g.Token)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
	if raw == "" {
		return Identity{}, denied("no access token configured")
	}

	claims, err := g.parse(raw)
	if err != nil {
		return Identity{}, denied("invalid token: %v", err)
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	if !claims.VerifyExpiresAt(now().Unix(), false) {
		return Identity{}, denied("token expired")
	}

	id := Identity{
		Subject: subject(claims),
		Roles:   roles(claims),
	}
	if exp, ok := claims["exp"].(float64); ok {
		id.ExpiresAt = time.Unix(int64(exp), 0)
	}

	role := g.Role
	if role == "" {
		role = DefaultRole
	}
	if !id.HasRole(role) {
		return id, denied("role %q required", role)
	}
	return id, nil
}

func (g TokenGate) parse(raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if g.Secret == "" {
		if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
			return nil, err
		}
		return claims, nil
	}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	tok, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(g.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, fmt.Errorf("token not valid")
	}
	return claims, nil
}

func denied(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errors.ErrAccessDenied, fmt.Sprintf(format, args...))
}

func strClaim(claims jwt.MapClaims, key string) string {
	if s, ok := claims[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func subject(claims jwt.MapClaims) string {
	for _, key := range []string{"id", "sub", "user_id"} {
		if s := strClaim(claims, key); s != "" {
			return s
		}
	}
	return ""
}

// roles collects role names from "role", "roles" and "roles_global".
func roles(claims jwt.MapClaims) []string {
	var out []string
	if r := strClaim(claims, "role"); r != "" {
		out = append(out, r)
	}
	for _, key := range []string{"roles", "roles_global"} {
		switch v := claims[key].(type) {
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, strings.TrimSpace(s))
				}
			}
		case string:
			for _, s := range strings.Split(v, ",") {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
