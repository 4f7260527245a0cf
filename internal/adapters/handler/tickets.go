package handler

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/escolar/admin-console/internal/core/domain"
)

const ticketTTL = 5 * time.Minute

type ticketClaims struct {
	Entity domain.EntityType `json:"ent"`
	jwt.RegisteredClaims
}

// Tickets signs the short-lived token a delete dialog posts back, binding
// the decision to one entity and record.
type Tickets struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTickets(secret []byte) *Tickets {
	return &Tickets{secret: secret, ttl: ticketTTL, now: time.Now}
}

func (t *Tickets) Issue(entity domain.EntityType, id int) (string, error) {
	now := t.now()
	claims := ticketClaims{
		Entity: entity,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.Itoa(id),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify reports whether token is a valid, unexpired ticket for entity/id.
func (t *Tickets) Verify(token string, entity domain.EntityType, id int) bool {
	if token == "" {
		return false
	}

	var claims ticketClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		if !errors.Is(err, jwt.ErrTokenExpired) {
			log.Printf("Confirmation ticket rejected: %v", err)
		}
		return false
	}

	return parsed.Valid && claims.Entity == entity && claims.Subject == strconv.Itoa(id)
}
