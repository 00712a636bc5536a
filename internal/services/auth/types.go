package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrEmailTaken      = errors.New("email already registered")
	ErrSessionNotFound = errors.New("session not found")
	ErrRefreshNotFound = errors.New("refresh token not found")
)

// SessionRecord is what the session store keeps per sid. ExpiresAt tracks
// the refresh horizon; access tokens expire on their own schedule.
type SessionRecord struct {
	SID       string
	UserID    int64
	ExpiresAt time.Time
}

// AccessClaims is the verified content of an access token.
type AccessClaims struct {
	UserID    int64
	SID       string
	ExpiresAt time.Time
}

// Me is the public slice of the account returned with token responses.
type Me struct {
	ID      int64
	Email   string
	PenName string
}

// AuthResult bundles a fresh token pair with the account it belongs to.
type AuthResult struct {
	AccessToken   string
	RefreshToken  string
	AccessExpires time.Time
	Me            Me
}
