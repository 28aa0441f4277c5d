package accesstoken

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testAccountSID = "ACtest"
	testAPIKey     = "SKtest"
	testAPISecret  = "test-secret"
)

func newTestSigner(now time.Time) *Signer {
	s := NewSigner(testAccountSID, testAPIKey, testAPISecret, time.Hour)
	s.now = func() time.Time { return now }
	return s
}

func TestNewSignerTTL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ttl  time.Duration
		want time.Duration
	}{
		{name: "zero falls back to default", ttl: 0, want: DefaultTTL},
		{name: "negative falls back to default", ttl: -time.Minute, want: DefaultTTL},
		{name: "explicit value is kept", ttl: 10 * time.Minute, want: 10 * time.Minute},
		{name: "capped at one day", ttl: 48 * time.Hour, want: 24 * time.Hour},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewSigner(testAccountSID, testAPIKey, testAPISecret, tt.ttl)
			if s.ttl != tt.want {
				t.Errorf("ttl = %v, want %v", s.ttl, tt.want)
			}
		})
	}
}

func TestSignVideoGrant(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	s := newTestSigner(now)

	signed, err := s.Sign(Grants{Identity: "alice", Video: &VideoGrant{Room: "Superclass!"}})
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	claims, err := s.Parse(signed)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if claims.Grants.Identity != "alice" {
		t.Errorf("identity = %q, want alice", claims.Grants.Identity)
	}
	if claims.Grants.Video == nil || claims.Grants.Video.Room != "Superclass!" {
		t.Errorf("video grant = %+v, want room Superclass!", claims.Grants.Video)
	}
	if len(claims.Grants.Player) != 0 {
		t.Errorf("player grant = %s, want empty", claims.Grants.Player)
	}
	if claims.Issuer != testAPIKey || claims.Subject != testAccountSID {
		t.Errorf("iss/sub = %q/%q", claims.Issuer, claims.Subject)
	}
	if claims.ID != "SKtest-1700000000" {
		t.Errorf("jti = %q, want SKtest-1700000000", claims.ID)
	}
	if got := claims.ExpiresAt.Time; !got.Equal(now.Add(time.Hour)) {
		t.Errorf("exp = %v, want %v", got, now.Add(time.Hour))
	}
}

func TestSignHeader(t *testing.T) {
	t.Parallel()

	s := newTestSigner(time.Now())
	signed, err := s.Sign(Grants{Identity: "bob"})
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	token, _, err := jwt.NewParser().ParseUnverified(signed, &Claims{})
	if err != nil {
		t.Fatalf("ParseUnverified() error: %v", err)
	}
	if token.Header["cty"] != ContentType {
		t.Errorf("cty = %v, want %q", token.Header["cty"], ContentType)
	}
	if token.Header["alg"] != "HS256" {
		t.Errorf("alg = %v, want HS256", token.Header["alg"])
	}
}

func TestSignPlaybackGrant(t *testing.T) {
	t.Parallel()

	s := newTestSigner(time.Now())
	grant := json.RawMessage(`{"playbackUrl":"https://play.example/x","requestCredentials":null}`)

	signed, err := s.Sign(Grants{Player: grant})
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	claims, err := s.Parse(signed)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if claims.Grants.Identity != "" {
		t.Errorf("identity = %q, want anonymous", claims.Grants.Identity)
	}
	if claims.Grants.Video != nil {
		t.Errorf("video grant = %+v, want nil", claims.Grants.Video)
	}

	var player map[string]any
	if err := json.Unmarshal(claims.Grants.Player, &player); err != nil {
		t.Fatalf("player grant is not JSON: %v", err)
	}
	if player["playbackUrl"] != "https://play.example/x" {
		t.Errorf("playbackUrl = %v", player["playbackUrl"])
	}
}

func TestSignDistinctIdentities(t *testing.T) {
	t.Parallel()

	s := newTestSigner(time.Now())
	room := &VideoGrant{Room: "Superclass!"}

	alice, err := s.Sign(Grants{Identity: "alice", Video: room})
	if err != nil {
		t.Fatalf("Sign(alice) error: %v", err)
	}
	bob, err := s.Sign(Grants{Identity: "bob", Video: room})
	if err != nil {
		t.Fatalf("Sign(bob) error: %v", err)
	}
	if alice == bob {
		t.Error("tokens for different identities are identical")
	}
}

func TestParseRejects(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := newTestSigner(now)
	signed, err := s.Sign(Grants{Identity: "alice"})
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()

		other := NewSigner(testAccountSID, testAPIKey, "another-secret", time.Hour)
		if _, err := other.Parse(signed); err == nil {
			t.Error("expected signature error")
		}
	})

	t.Run("other account", func(t *testing.T) {
		t.Parallel()

		other := NewSigner("ACother", testAPIKey, testAPISecret, time.Hour)
		if _, err := other.Parse(signed); err == nil {
			t.Error("expected subject mismatch error")
		}
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()

		later := newTestSigner(now.Add(2 * time.Hour))
		_, err := later.Parse(signed)
		if err == nil {
			t.Fatal("expected expiry error")
		}
		if !strings.Contains(err.Error(), "expired") {
			t.Errorf("error = %v, want expiry", err)
		}
	})

	t.Run("missing content type", func(t *testing.T) {
		t.Parallel()

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: testAPIKey, Subject: testAccountSID},
		})
		plain, err := token.SignedString([]byte(testAPISecret))
		if err != nil {
			t.Fatalf("SignedString() error: %v", err)
		}
		if _, err := s.Parse(plain); err == nil {
			t.Error("expected content type error")
		}
	})
}
