package domain

import "errors"

var (
	// ErrDuplicateIdentity is returned when the email or username is already taken
	ErrDuplicateIdentity = errors.New("username or email already exists")
	// ErrInvalidCredential does not distinguish an unknown user from a wrong password
	ErrInvalidCredential = errors.New("invalid email or password")
	// ErrEmailNotVerified blocks login until the verification link is redeemed
	ErrEmailNotVerified = errors.New("please verify your email before logging in")
	ErrUnknownUser      = errors.New("invalid user")
	ErrUnknownWallet    = errors.New("invalid wallet id")
	ErrInvalidAmount    = errors.New("amount must be a positive number")
	ErrNotFound         = errors.New("entity was not found")
	// ErrAuditAppend is logged, never returned from a primary mutation
	ErrAuditAppend = errors.New("audit append failed")
	// ErrPersistence wraps storage failures that abort the current operation
	ErrPersistence = errors.New("persistence failure")
)
