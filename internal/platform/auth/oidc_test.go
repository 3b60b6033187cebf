package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func discoveryServer(t *testing.T, jwksURI string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/openid-configuration" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(OIDCProvider{
			Issuer:  "http://" + r.Host,
			JWKSURI: jwksURI,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewOIDCProvider(t *testing.T) {
	srv := discoveryServer(t, "https://idp.example.com/certs")

	provider, err := NewOIDCProvider(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.JWKSURI != "https://idp.example.com/certs" {
		t.Errorf("unexpected jwks_uri %q", provider.JWKSURI)
	}
}

func TestNewOIDCProvider_MissingJWKSURI(t *testing.T) {
	srv := discoveryServer(t, "")

	if _, err := NewOIDCProvider(srv.URL); err == nil {
		t.Fatal("expected error for discovery document without jwks_uri")
	}
}

func TestResolveJWKSURL(t *testing.T) {
	srv := discoveryServer(t, "https://idp.example.com/certs")

	t.Run("explicit URL wins", func(t *testing.T) {
		got := ResolveJWKSURL(srv.URL, "https://override.example.com/jwks")
		if got != "https://override.example.com/jwks" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("discovery", func(t *testing.T) {
		got := ResolveJWKSURL(srv.URL, "")
		if got != "https://idp.example.com/certs" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("unreachable provider falls back to certs path", func(t *testing.T) {
		got := ResolveJWKSURL("http://127.0.0.1:1/realms/hha", "")
		if got != "http://127.0.0.1:1/realms/hha/protocol/openid-connect/certs" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("nothing configured", func(t *testing.T) {
		if got := ResolveJWKSURL("", ""); got != "" {
			t.Errorf("got %q", got)
		}
	})
}
