package domain

import "errors"

// Invalid-token reasons. Each distinct check surfaces its own sentinel so
// callers can tell "bad token" from "no-longer-valid token".
var (
	ErrDecode               = errors.New("token decode error")
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	ErrMissingTokenID       = errors.New("missing token id")
	ErrRevoked              = errors.New("token has been revoked")
	ErrExpired              = errors.New("token has expired")
	ErrNotYetValid          = errors.New("token not yet valid")
)
