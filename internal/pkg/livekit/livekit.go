package livekit

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is how long an issued room token stays valid.
const DefaultTTL = 6 * time.Hour

// Options holds LiveKit server credentials.
type Options struct {
	URL       string
	APIKey    string
	APISecret string
}

// VideoGrant mirrors the grant claims the LiveKit server expects.
type VideoGrant struct {
	Room     string `json:"room,omitempty"`
	RoomJoin bool   `json:"roomJoin,omitempty"`
}

// Claims is the LiveKit access token payload.
type Claims struct {
	Video VideoGrant `json:"video"`
	jwtlib.RegisteredClaims
}

// AccessToken mints a join token for one identity and one room.
func AccessToken(opts Options, identity, room string, ttl time.Duration) (string, error) {
	if opts.APIKey == "" || opts.APISecret == "" {
		return "", fmt.Errorf("livekit api key/secret not configured")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now()
	claims := Claims{
		Video: VideoGrant{Room: room, RoomJoin: true},
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    opts.APIKey,
			Subject:   identity,
			NotBefore: jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString([]byte(opts.APISecret))
}

// ParseToken validates a token against the secret and returns its claims.
func ParseToken(opts Options, tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(opts.APISecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
