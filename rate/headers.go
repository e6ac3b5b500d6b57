package rate

import (
	"net/http"
	"strconv"
	"time"
)

const (
	headerLimit     = "x-ratelimit-limit"
	headerRemaining = "x-ratelimit-remaining"
	headerReset     = "x-ratelimit-reset"
)

// Status is the server-reported quota state derived from one response's
// headers. It is evaluated per response and never persisted across calls.
type Status struct {
	// Enforced reports whether the server advertises quota enforcement
	// at all. Servers without x-ratelimit-remaining never throttle us.
	Enforced bool

	// Limit is the window's total request budget, zero when the server
	// doesn't report one.
	Limit int

	// Remaining is the number of requests left in the current window.
	// Only meaningful when Enforced is true.
	Remaining int

	// Reset is the instant the quota window rolls over. Only meaningful
	// when the quota is exhausted.
	Reset time.Time
}

// ParseStatus reads the x-ratelimit-* headers from a response header set.
// Header lookup is case-insensitive per http.Header semantics. A missing or
// malformed x-ratelimit-remaining yields an unenforced Status.
func ParseStatus(h http.Header) Status {
	remaining := h.Get(headerRemaining)
	if remaining == "" {
		return Status{}
	}
	n, err := strconv.Atoi(remaining)
	if err != nil {
		return Status{}
	}

	s := Status{Enforced: true, Remaining: n}
	if limit := h.Get(headerLimit); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			s.Limit = l
		}
	}
	if reset := h.Get(headerReset); reset != "" {
		if epoch, err := strconv.ParseInt(reset, 10, 64); err == nil {
			s.Reset = time.Unix(epoch, 0)
		}
	}
	return s
}

// Exhausted reports whether the window's quota is used up and the client
// must wait for the reset instant.
func (s Status) Exhausted() bool {
	return s.Enforced && s.Remaining == 0
}

// Wait returns how long to suspend before the quota window resets,
// measured from now. Clamped at zero when the reset instant has passed.
func (s Status) Wait(now time.Time) time.Duration {
	if !s.Exhausted() || s.Reset.IsZero() {
		return 0
	}
	d := s.Reset.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
