package httpx

import (
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type HTTPStatusCoder interface {
	HTTPStatusCode() int
}

// IsRateLimitError reports whether err is a rate-limit response. Only these
// are worth retrying against the completion endpoint; everything else fails
// the same way on a second attempt.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	var sc HTTPStatusCoder
	if errors.As(err, &sc) && sc.HTTPStatusCode() == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, keyword := range []string{
		"rate limit",
		"rate-limited",
		"too many requests",
		"quota exceeded",
		"request rate exceeded",
	} {
		if strings.Contains(msg, keyword) {
			return true
		}
	}
	return false
}

// RetryAfterDuration prefers the server's Retry-After header over the local
// backoff, capped at max.
func RetryAfterDuration(resp *http.Response, fallback, max time.Duration) time.Duration {
	sleepFor := fallback
	if resp != nil {
		if ra := strings.TrimSpace(resp.Header.Get("Retry-After")); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
				sleepFor = time.Duration(secs) * time.Second
			}
		}
	}
	if max > 0 && sleepFor > max {
		sleepFor = max
	}
	return sleepFor
}

// JitterSleep spreads base by ±20% so synchronized callers don't retry in
// lockstep.
func JitterSleep(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	j := 0.2
	delta := base.Seconds() * j
	low := base.Seconds() - delta
	high := base.Seconds() + delta
	if low < 0 {
		low = 0
	}
	v := low + rand.Float64()*(high-low)
	return time.Duration(v * float64(time.Second))
}
