package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every verification failure: bad signature,
// malformed encoding, wrong signing method or past expiry. Callers get no
// hint about which check failed.
var ErrInvalidToken = errors.New("invalid token")

type Service struct {
	Secret []byte
	TTL    time.Duration
}

// Issue signs an HS256 token carrying the subject and an absolute expiry.
// A zero ttl falls back to the service default.
func (s *Service) Issue(subject string, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = s.TTL
	}
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.Secret)
}

// Verify returns the subject of a valid token, ErrInvalidToken otherwise.
func (s *Service) Verify(raw string) (string, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil || !t.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
