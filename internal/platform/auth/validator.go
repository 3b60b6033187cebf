package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the verified, fixed-shape payload of a bearer token. It is
// resolved once at validation time and owned for the lifetime of a single
// request or WebSocket connection; nothing in this layer persists it.
type Identity struct {
	Subject  string
	Username string
	Email    string
	Name     string
	Roles    []string
}

// HasAnyRole reports whether the identity holds at least one of the given
// roles. Role membership is a flat set comparison; there is no hierarchy.
func (id *Identity) HasAnyRole(roles ...string) bool {
	for _, required := range roles {
		for _, has := range id.Roles {
			if has == required {
				return true
			}
		}
	}
	return false
}

// PrimaryRole returns the first role carried by the identity, or the
// anonymous sentinel when the identity has no roles.
func (id *Identity) PrimaryRole() string {
	if len(id.Roles) == 0 {
		return RoleAnonymous
	}
	return id.Roles[0]
}

// tokenClaims is the wire shape of an access token issued by a Keycloak
// realm. Realm roles arrive nested under realm_access.
type tokenClaims struct {
	jwt.RegisteredClaims
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	RealmAccess       struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
}

// ValidatorConfig configures token verification.
type ValidatorConfig struct {
	// Issuer is the identity provider realm URL tokens must carry.
	Issuer string
	// Audience is the OAuth client id tokens must be issued for.
	Audience string
	// JWKSURL overrides OIDC discovery of the signing-key endpoint.
	JWKSURL string
	// SigningKey enables HMAC verification for development and tests only.
	SigningKey []byte
}

// Validator verifies bearer tokens against the identity provider's published
// signing keys and extracts the caller's identity and roles. It is safe for
// concurrent use; the key set is cached process-wide (see KeyCache).
type Validator struct {
	issuer     string
	audience   string
	signingKey []byte
	keys       *KeyCache
}

// NewValidator creates a Validator. When no HMAC signing key is configured
// the JWKS endpoint is resolved from the issuer via OIDC discovery; the key
// set itself is fetched lazily on the first Validate call.
func NewValidator(cfg ValidatorConfig) *Validator {
	v := &Validator{
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		signingKey: cfg.SigningKey,
	}
	if len(cfg.SigningKey) == 0 {
		v.keys = NewKeyCache(ResolveJWKSURL(cfg.Issuer, cfg.JWKSURL))
	}
	return v
}

// InvalidateKeys discards the cached signing-key set so the next validation
// refetches it. Exposed for key-rotation handling.
func (v *Validator) InvalidateKeys() {
	if v.keys != nil {
		v.keys.Invalidate()
	}
}

// Validate verifies the raw token string and returns the caller's identity.
// Every failure mode (malformed token, bad signature, unknown key, expired,
// wrong audience, wrong issuer) returns an *AuthenticationError.
func (v *Validator) Validate(tokenStr string) (*Identity, error) {
	claims := &tokenClaims{}

	opts := []jwt.ParserOption{
		jwt.WithExpirationRequired(),
	}
	if len(v.signingKey) > 0 {
		opts = append(opts, jwt.WithValidMethods([]string{"HS256"}))
	} else {
		opts = append(opts, jwt.WithValidMethods([]string{"RS256"}))
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.ParseWithClaims(tokenStr, claims, v.keyFunc, opts...)
	if err != nil {
		return nil, authErr("invalid token", err)
	}
	if !token.Valid {
		return nil, authErr("invalid token", nil)
	}

	return &Identity{
		Subject:  claims.Subject,
		Username: claims.PreferredUsername,
		Email:    claims.Email,
		Name:     claims.Name,
		Roles:    claims.RealmAccess.Roles,
	}, nil
}

func (v *Validator) keyFunc(token *jwt.Token) (interface{}, error) {
	if len(v.signingKey) > 0 {
		return v.signingKey, nil
	}
	kid, ok := token.Header["kid"].(string)
	if !ok || kid == "" {
		return nil, fmt.Errorf("token has no kid header")
	}
	return v.keys.GetKey(kid)
}
