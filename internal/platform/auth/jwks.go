package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"
)

// JWKSKey represents a single JSON Web Key from a JWKS endpoint.
type JWKSKey struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKSResponse represents the response from a JWKS endpoint.
type JWKSResponse struct {
	Keys []JWKSKey `json:"keys"`
}

// KeyCache holds the identity provider's signing-key set. The set is fetched
// lazily on first use and then kept for the process lifetime; a key rotation
// at the provider requires an explicit Invalidate call (or a restart) before
// tokens signed with the new key verify. This staleness window is accepted.
type KeyCache struct {
	mu      sync.RWMutex
	keys    map[string]*rsa.PublicKey
	loaded  bool
	jwksURL string
	client  *http.Client
}

// NewKeyCache creates a key cache backed by the given JWKS URL. No network
// call happens until the first GetKey.
func NewKeyCache(jwksURL string) *KeyCache {
	return &KeyCache{
		jwksURL: jwksURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// GetKey returns the RSA public key for the given kid, fetching the key set
// on first use. A kid absent from the loaded set is an error; the set is not
// refetched implicitly.
func (c *KeyCache) GetKey(kid string) (*rsa.PublicKey, error) {
	c.mu.RLock()
	loaded := c.loaded
	key, ok := c.keys[kid]
	c.mu.RUnlock()

	if loaded {
		if !ok {
			return nil, fmt.Errorf("key with kid %q not found in JWKS", kid)
		}
		return key, nil
	}

	if err := c.fetch(); err != nil {
		return nil, fmt.Errorf("fetching JWKS: %w", err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	key, ok = c.keys[kid]
	if !ok {
		return nil, fmt.Errorf("key with kid %q not found in JWKS", kid)
	}
	return key, nil
}

// Invalidate discards the loaded key set so the next GetKey refetches it.
// Call this after a provider key rotation instead of restarting the process.
func (c *KeyCache) Invalidate() {
	c.mu.Lock()
	c.keys = nil
	c.loaded = false
	c.mu.Unlock()
}

// fetch retrieves the JWKS from the remote endpoint and populates the cache.
func (c *KeyCache) fetch() error {
	resp, err := c.client.Get(c.jwksURL)
	if err != nil {
		return fmt.Errorf("GET %s: %w", c.jwksURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	var jwks JWKSResponse
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return fmt.Errorf("decoding JWKS response: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for _, k := range jwks.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pubKey, err := parseRSAPublicKey(k)
		if err != nil {
			continue // skip malformed keys
		}
		keys[k.Kid] = pubKey
	}

	c.mu.Lock()
	c.keys = keys
	c.loaded = true
	c.mu.Unlock()

	return nil
}

// parseRSAPublicKey converts a JWKSKey to an *rsa.PublicKey.
func parseRSAPublicKey(k JWKSKey) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("decoding modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("decoding exponent: %w", err)
	}

	n := new(big.Int).SetBytes(nBytes)
	e := new(big.Int).SetBytes(eBytes)

	return &rsa.PublicKey{
		N: n,
		E: int(e.Int64()),
	}, nil
}
