package firebase

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const jwksURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

// ErrUpstream marks failures of the key endpoint itself, as opposed to a bad
// token. Callers retry these; a bad token they do not.
var ErrUpstream = errors.New("firebase key service unavailable")

// Token is the subset of a verified Firebase ID token this portal cares about.
type Token struct {
	UID           string
	Email         string
	Name          string
	EmailVerified bool
}

// Verifier turns a bearer ID token into verified identity claims.
type Verifier interface {
	Verify(idToken string) (*Token, error)
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

type keyCache struct {
	keys      map[string]*rsa.PublicKey
	expiresAt time.Time
	mu        sync.RWMutex
}

// JWKSVerifier verifies Firebase ID tokens against Google's securetoken JWKS,
// caching the public keys for 24 hours.
type JWKSVerifier struct {
	cache      *keyCache
	httpClient *http.Client
	jwksURL    string
	projectID  string
}

func NewJWKSVerifier(projectID string) *JWKSVerifier {
	return &JWKSVerifier{
		cache: &keyCache{
			keys: make(map[string]*rsa.PublicKey),
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
		jwksURL:    jwksURL,
		projectID:  projectID,
	}
}

func (v *JWKSVerifier) fetchKeys() error {
	resp, err := v.httpClient.Get(v.jwksURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: endpoint returned status %d", ErrUpstream, resp.StatusCode)
	}

	var doc jwks
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return fmt.Errorf("%w: failed to decode JWKS: %v", ErrUpstream, err)
	}

	v.cache.mu.Lock()
	defer v.cache.mu.Unlock()

	v.cache.keys = make(map[string]*rsa.PublicKey)
	for _, k := range doc.Keys {
		pubKey, err := parseRSAPublicKey(k.N, k.E)
		if err != nil {
			continue
		}
		v.cache.keys[k.Kid] = pubKey
	}
	v.cache.expiresAt = time.Now().Add(24 * time.Hour)
	return nil
}

func parseRSAPublicKey(nStr, eStr string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(nStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}

	eBytes, err := base64.RawURLEncoding.DecodeString(eStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
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

func (v *JWKSVerifier) publicKey(kid string) (*rsa.PublicKey, error) {
	v.cache.mu.RLock()
	if key, ok := v.cache.keys[kid]; ok && time.Now().Before(v.cache.expiresAt) {
		v.cache.mu.RUnlock()
		return key, nil
	}
	v.cache.mu.RUnlock()

	if err := v.fetchKeys(); err != nil {
		return nil, err
	}

	v.cache.mu.RLock()
	defer v.cache.mu.RUnlock()
	if key, ok := v.cache.keys[kid]; ok {
		return key, nil
	}
	return nil, fmt.Errorf("public key with kid %s not found", kid)
}

// Verify checks the token's signature, issuer, audience and expiry and returns
// its identity claims.
func (v *JWKSVerifier) Verify(idToken string) (*Token, error) {
	parsed, err := jwt.Parse(idToken, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("token header missing kid")
		}
		return v.publicKey(kid)
	},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer("https://securetoken.google.com/"+v.projectID),
		jwt.WithAudience(v.projectID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, ErrUpstream) {
			return nil, err
		}
		return nil, fmt.Errorf("invalid identity token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid identity token claims")
	}

	tok := &Token{}
	tok.UID, _ = claims["sub"].(string)
	tok.Email, _ = claims["email"].(string)
	tok.Name, _ = claims["name"].(string)
	if verified, ok := claims["email_verified"].(bool); ok {
		tok.EmailVerified = verified
	}

	if tok.Email == "" {
		return nil, fmt.Errorf("identity token has no email claim")
	}
	return tok, nil
}
