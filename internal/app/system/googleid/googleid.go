// Package googleid verifies Google ID tokens for federated login.
//
// The provider is an external trust boundary, so the rest of the app
// depends only on the Verifier interface; the JWKS-backed implementation
// fetches and caches Google's signing keys and validates RS256 tokens
// locally (signature, issuer, audience, expiry).
package googleid

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/dalemusser/recordhub/internal/app/system/faults"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is a verified federated identity assertion.
type Identity struct {
	Subject    string // Google's stable subject id
	Email      string
	GivenName  string
	FamilyName string
}

// Verifier exchanges an ID token for a verified Identity.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

const (
	// DefaultJWKSURL is Google's published signing-key set.
	DefaultJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

	keyCacheTTL = 24 * time.Hour
)

var errInvalidToken = faults.New(faults.InvalidIdentityToken, "ID Token de Google inválido")

// GoogleVerifier verifies tokens against Google's JWKS.
type GoogleVerifier struct {
	audience   string // OAuth client id; empty skips the audience check
	jwksURL    string
	httpClient *http.Client

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	expiresAt time.Time
}

// New builds a GoogleVerifier for the given OAuth client id (the
// expected `aud` claim).
func New(audience string) *GoogleVerifier {
	return &GoogleVerifier{
		audience:   audience,
		jwksURL:    DefaultJWKSURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		keys:       make(map[string]*rsa.PublicKey),
	}
}

// NewWithJWKSURL is New with a custom key-set URL. Used by tests.
func NewWithJWKSURL(audience, jwksURL string) *GoogleVerifier {
	v := New(audience)
	v.jwksURL = jwksURL
	return v
}

type jwks struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type idClaims struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	jwt.RegisteredClaims
}

// Verify validates idToken and returns the identity it asserts. Every
// failure is an InvalidIdentityToken fault.
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	if idToken == "" {
		return nil, faults.New(faults.InvalidIdentityToken, "ID Token de Google es requerido")
	}

	var claims idClaims
	_, err := jwt.ParseWithClaims(idToken, &claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("token has no kid header")
		}
		return v.publicKey(ctx, kid)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer("https://accounts.google.com"),
	)
	if err != nil {
		return nil, errInvalidToken
	}
	if v.audience != "" {
		if len(claims.Audience) == 0 || claims.Audience[0] != v.audience {
			return nil, errInvalidToken
		}
	}
	if claims.Subject == "" {
		return nil, errInvalidToken
	}

	return &Identity{
		Subject:    claims.Subject,
		Email:      claims.Email,
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
	}, nil
}

// publicKey returns the cached key for kid, refreshing the key set when
// the cache is cold, stale, or missing the kid (key rotation).
func (v *GoogleVerifier) publicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.RLock()
	if key, ok := v.keys[kid]; ok && time.Now().Before(v.expiresAt) {
		v.mu.RUnlock()
		return key, nil
	}
	v.mu.RUnlock()

	if err := v.fetchKeys(ctx); err != nil {
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	if key, ok := v.keys[kid]; ok {
		return key, nil
	}
	return nil, fmt.Errorf("public key with kid %s not found", kid)
}

func (v *GoogleVerifier) fetchKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return err
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	var set jwks
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("decode JWKS: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		pub, err := parseRSAPublicKey(k.N, k.E)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}

	v.mu.Lock()
	v.keys = keys
	v.expiresAt = time.Now().Add(keyCacheTTL)
	v.mu.Unlock()
	return nil
}

func parseRSAPublicKey(nStr, eStr string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(nStr)
	if err != nil {
		return nil, fmt.Errorf("decode modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(eStr)
	if err != nil {
		return nil, fmt.Errorf("decode exponent: %w", err)
	}

	var e int
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}
