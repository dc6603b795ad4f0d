// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/api/googleapi"
)

// Sentinel errors for non-retryable failures. The runner aborts the whole
// run when a call fails with one of these; everything else is retried.
var (
	// ErrQuotaExceeded means the API rejected the call for quota or rate
	// limit reasons. Retrying would burn more quota for nothing.
	ErrQuotaExceeded = errors.New("search quota exceeded")

	// ErrAuthFailed means the API rejected the credentials.
	ErrAuthFailed = errors.New("search authentication failed")
)

// Kind classifies an API call failure for the retry decision.
type Kind int

const (
	// KindTransient covers network errors, timeouts and 5xx responses.
	KindTransient Kind = iota

	// KindQuota covers rate-limit and quota-exhausted responses.
	KindQuota

	// KindAuth covers invalid or rejected credentials.
	KindAuth
)

// Classify maps an error from a Search call to its Kind. Unrecognized
// errors are treated as transient so a flaky middlebox response does not
// kill a long batch.
func Classify(err error) Kind {
	if errors.Is(err, ErrQuotaExceeded) {
		return KindQuota
	}
	if errors.Is(err, ErrAuthFailed) {
		return KindAuth
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 403 || apiErr.Code == 429:
			return KindQuota
		case apiErr.Code == 400 || apiErr.Code == 401:
			return KindAuth
		default:
			return KindTransient
		}
	}

	return KindTransient
}

// IsFatal reports whether err should abort the run instead of being
// retried or downgraded to a failed result.
func IsFatal(err error) bool {
	k := Classify(err)
	return k == KindQuota || k == KindAuth
}

// IsTimeout reports whether err was caused by an attempt deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// wrapAPIError converts recognized googleapi errors into the typed
// sentinels so callers can match with errors.Is.
func wrapAPIError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch Classify(apiErr) {
	case KindQuota:
		return fmt.Errorf("%w: HTTP %d: %s", ErrQuotaExceeded, apiErr.Code, apiErr.Message)
	case KindAuth:
		return fmt.Errorf("%w: HTTP %d: %s", ErrAuthFailed, apiErr.Code, apiErr.Message)
	}
	return err
}
