package domain

import "errors"

// Authentication errors
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserAlreadyExists     = errors.New("user already exists")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAccountLocked         = errors.New("account locked due to too many failed login attempts")
	ErrSessionNotFound       = errors.New("session not found")
	ErrSessionExpired        = errors.New("session expired")
	ErrSessionRevoked        = errors.New("session revoked")
	ErrInvalidToken          = errors.New("invalid token")
	ErrIdentityNotFound      = errors.New("identity not found")
	ErrIdentityAlreadyLinked = errors.New("identity already linked to another user")
)

// Validation errors
var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrWeakPassword = errors.New("password does not meet requirements")
)

// Student record errors
var (
	ErrStudentNotFound      = errors.New("student not found")
	ErrStudentAlreadyExists = errors.New("student profile already exists for user")
	ErrQuestionNotFound     = errors.New("question not found")
)

// Adapter errors
var (
	ErrSpeechUnavailable     = errors.New("speech recognition is not available")
	ErrRecognitionInProgress = errors.New("a recognition is already in progress")
	ErrRecognitionFailed     = errors.New("speech recognition failed")
	ErrEmptyTranscript       = errors.New("no speech detected in audio")
)
