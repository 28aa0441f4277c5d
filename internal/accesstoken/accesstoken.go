// Package accesstoken mints and parses Twilio access tokens: HS256 JWTs
// signed with an API key secret that carry one or more grants.
package accesstoken

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// ContentType marks the token as a Twilio access token.
	ContentType = "twilio-fpa;v=1"

	DefaultTTL = time.Hour
	maxTTL     = 24 * time.Hour
)

// VideoGrant allows joining a video room.
type VideoGrant struct {
	Room string `json:"room,omitempty"`
}

// Grants is the "grants" claim. Player holds a playback grant exactly as the
// provider returned it.
type Grants struct {
	Identity string          `json:"identity,omitempty"`
	Video    *VideoGrant     `json:"video,omitempty"`
	Player   json.RawMessage `json:"player,omitempty"`
}

// Claims represents an access token payload.
type Claims struct {
	Grants Grants `json:"grants"`
	jwt.RegisteredClaims
}

// Signer mints tokens for one account and API key. It is safe for concurrent use.
type Signer struct {
	accountSID string
	apiKey     string
	apiSecret  []byte
	ttl        time.Duration
	now        func() time.Time
}

// NewSigner returns a Signer whose tokens live for ttl. A non-positive ttl
// selects DefaultTTL; the provider rejects anything above 24h, so ttl is
// capped there.
func NewSigner(accountSID, apiKey, apiSecret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if ttl > maxTTL {
		ttl = maxTTL
	}
	return &Signer{
		accountSID: accountSID,
		apiKey:     apiKey,
		apiSecret:  []byte(apiSecret),
		ttl:        ttl,
		now:        time.Now,
	}
}

// Sign serializes grants into a signed token string.
func (s *Signer) Sign(grants Grants) (string, error) {
	now := s.now()
	claims := Claims{
		Grants: grants,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        fmt.Sprintf("%s-%d", s.apiKey, now.Unix()),
			Issuer:    s.apiKey,
			Subject:   s.accountSID,
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["cty"] = ContentType

	signed, err := token.SignedString(s.apiSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token minted by this signer and returns its claims.
func (s *Signer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		if cty, _ := token.Header["cty"].(string); cty != ContentType {
			return nil, fmt.Errorf("unexpected content type: %q", cty)
		}
		return s.apiSecret, nil
	},
		jwt.WithIssuer(s.apiKey),
		jwt.WithSubject(s.accountSID),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid access token")
	}
	return claims, nil
}
