package security

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrExpiredToken   = errors.New("token has expired")
	ErrInvalidToken   = errors.New("invalid token")
	ErrInvalidKeySize = errors.New("invalid symmetric key size")
	ErrMissingSubject = errors.New("token subject is required")
)

// Payload identifies the caller on whose behalf the adapter acts.
type Payload struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiredAt time.Time `json:"expired_at"`
}

func NewPayload(userID string, duration time.Duration) (*Payload, error) {
	if userID == "" {
		return nil, ErrMissingSubject
	}
	tokenID, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Payload{
		ID:        tokenID,
		UserID:    userID,
		IssuedAt:  now,
		ExpiredAt: now.Add(duration),
	}, nil
}

func (p *Payload) Valid() error {
	if p.UserID == "" {
		return ErrInvalidToken
	}
	if time.Now().After(p.ExpiredAt) {
		return ErrExpiredToken
	}
	return nil
}
