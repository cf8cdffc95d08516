package jwt

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"time"

	jwtgo "github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"holdem-server/internal/config"
)

// Issuer issues the seat tokens
const Issuer = "holdem-server"

// Audience is the intended audience of a seat token
const Audience = "holdem-server.relay"

// secretSize is the number of random bytes used when no secret is configured
const secretSize = 32

// Signer signs and validates seat tokens
// A seat token lets a remote player act for exactly one seat
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner returns a signer using HS256 with secret
// A zero ttl signs tokens that do not expire
func NewSigner(secret []byte, ttl time.Duration) *Signer {
	if len(secret) == 0 {
		panic("secret cannot be empty")
	}

	return &Signer{
		secret: secret,
		ttl:    ttl,
	}
}

// LoadSigner returns a signer from the relay configuration
// Without a configured secret a random one is generated, so tokens do not survive a restart
func LoadSigner() *Signer {
	cfg := config.Instance().Relay

	secret := []byte(cfg.TokenSecret)
	if len(secret) == 0 {
		secret = make([]byte, secretSize)
		if _, err := rand.Read(secret); err != nil {
			logrus.WithError(err).Fatal("could not generate a token secret")
		}

		logrus.Warn("relay.tokenSecret is not set, seat tokens are only valid until the server restarts")
	}

	return NewSigner(secret, cfg.TokenTTL)
}

// Sign will sign a token for the seat
func (s *Signer) Sign(seat int) (string, error) {
	if seat < 0 {
		return "", fmt.Errorf("cannot sign a token for seat %d", seat)
	}

	now := time.Now()
	claims := jwtgo.StandardClaims{
		Audience: Audience,
		Id:       uuid.New().String(),
		IssuedAt: now.Unix(),
		Issuer:   Issuer,
		Subject:  strconv.Itoa(seat),
	}

	if s.ttl > 0 {
		claims.ExpiresAt = now.Add(s.ttl).Unix()
	}

	return jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidSeat will validate a signed token and return its seat
func (s *Signer) ValidSeat(signedString string) (int, error) {
	token, err := jwtgo.ParseWithClaims(signedString, &jwtgo.StandardClaims{}, func(token *jwtgo.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtgo.SigningMethodHMAC); !ok {
			return nil, errors.New("expected HS256 signing method")
		}

		return s.secret, nil
	})

	if err != nil {
		return -1, err
	}

	if token.Valid {
		if claims, ok := token.Claims.(*jwtgo.StandardClaims); ok {
			if claims.Audience != Audience {
				return -1, errors.New("invalid audience")
			}

			if claims.Issuer != Issuer {
				return -1, errors.New("invalid issuer")
			}

			seat, err := strconv.Atoi(claims.Subject)
			if err != nil || seat < 0 {
				return -1, errors.New("invalid subject")
			}

			return seat, nil
		}

		return -1, fmt.Errorf("expected jwt.StandardClaims, got %T", token.Claims)
	}

	logrus.Warn("token claims were not valid. did not expect to reach this code")
	return -1, errors.New("claims were not valid")
}
