package errors

import "errors"

var ErrNotFound = errors.New("resource not found")
var ErrUnauthorized = errors.New("session is not authorized")
var ErrInvalidInput = errors.New("invalid input")
var ErrNothingToUpdate = errors.New("no updatable fields supplied")

// ErrUpstreamUnavailable covers network failures and non-2xx answers from the store API.
var ErrUpstreamUnavailable = errors.New("upstream store unavailable")

// ErrInvalidSignature is only returned when webhook signatures are enforced.
var ErrInvalidSignature = errors.New("webhook signature mismatch")
