package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func testJWKSServer(t *testing.T, key *rsa.PublicKey, kid string, hits *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)
		resp := JWKSResponse{Keys: []JWKSKey{{
			Kty: "RSA",
			Kid: kid,
			Use: "sig",
			Alg: "RS256",
			N:   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}}}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestKeyCache_LazyFetchAndReuse(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	var hits int64
	srv := testJWKSServer(t, &priv.PublicKey, "key-1", &hits)
	defer srv.Close()

	cache := NewKeyCache(srv.URL)
	if atomic.LoadInt64(&hits) != 0 {
		t.Fatal("expected no fetch before first GetKey")
	}

	for i := 0; i < 3; i++ {
		key, err := cache.GetKey("key-1")
		if err != nil {
			t.Fatalf("GetKey: %v", err)
		}
		if key.N.Cmp(priv.PublicKey.N) != 0 {
			t.Fatal("returned key does not match the published one")
		}
	}
	if got := atomic.LoadInt64(&hits); got != 1 {
		t.Errorf("expected exactly 1 fetch, got %d", got)
	}
}

func TestKeyCache_UnknownKidNoRefetch(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	var hits int64
	srv := testJWKSServer(t, &priv.PublicKey, "key-1", &hits)
	defer srv.Close()

	cache := NewKeyCache(srv.URL)
	if _, err := cache.GetKey("key-1"); err != nil {
		t.Fatalf("GetKey: %v", err)
	}
	if _, err := cache.GetKey("rotated-key"); err == nil {
		t.Fatal("expected error for kid absent from loaded set")
	}
	if got := atomic.LoadInt64(&hits); got != 1 {
		t.Errorf("unknown kid must not trigger a refetch, got %d fetches", got)
	}
}

func TestKeyCache_InvalidateRefetches(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	var hits int64
	srv := testJWKSServer(t, &priv.PublicKey, "key-1", &hits)
	defer srv.Close()

	cache := NewKeyCache(srv.URL)
	if _, err := cache.GetKey("key-1"); err != nil {
		t.Fatalf("GetKey: %v", err)
	}

	cache.Invalidate()

	if _, err := cache.GetKey("key-1"); err != nil {
		t.Fatalf("GetKey after Invalidate: %v", err)
	}
	if got := atomic.LoadInt64(&hits); got != 2 {
		t.Errorf("expected refetch after Invalidate, got %d fetches", got)
	}
}

func TestKeyCache_EndpointError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cache := NewKeyCache(srv.URL)
	if _, err := cache.GetKey("any"); err == nil {
		t.Fatal("expected error when the JWKS endpoint fails")
	}
}
