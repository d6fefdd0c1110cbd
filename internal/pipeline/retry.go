package pipeline

import (
	"errors"
	"math/rand"
	"time"

	"github.com/dgallion1/mevzuat/internal/pathstore"
)

// IsRetryable reports whether err is a transient backend failure.
func IsRetryable(err error) bool {
	var retryErr *pathstore.RetryableError
	return errors.As(err, &retryErr)
}

// backoffBase is scaled in tests.
var backoffBase = time.Second

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * backoffBase
	if base > 30*backoffBase {
		base = 30 * backoffBase
	}
	jitter := time.Duration(rand.Int63n(int64(base)/2 + 1))
	return base + jitter
}

const MaxRetries = 3
