package services

import "errors"

// Sentinel errors mapped to HTTP codes by the handlers.
var (
	// ErrInvalidRequest is a caller error: bad amount, empty phone, bad id.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotFound covers every missing-document lookup.
	ErrNotFound = errors.New("not found")

	// ErrCredentialsMissing means the provider credentials were not configured.
	ErrCredentialsMissing = errors.New("payment credentials not configured")

	// ErrProviderUnreachable is a transport failure talking to the provider.
	ErrProviderUnreachable = errors.New("payment provider unreachable")

	// ErrMalformedResponse means the provider answered without the expected fields.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrTokenUnavailable means the access-token step of an initiation failed.
	ErrTokenUnavailable = errors.New("provider token unavailable")

	// ErrProviderRequestFailed is a failed push request; the pending row stays.
	ErrProviderRequestFailed = errors.New("provider request failed")
)
