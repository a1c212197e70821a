// Package ratelimit throttles inbound messages per identity.
//
// The limiter is a fixed-window counter kept in a storage.CounterStore. Each
// admission increments the identity's counter and re-arms its expiry in one
// atomic store operation; a request is allowed while the counter is at or
// below the limit.
//
// Because every increment pushes the expiry out again, the window resets
// only after a quiet period of one full window. This is a resettable fixed
// window, not a sliding log: a burst at the end of one window followed by a
// burst right after it expires can admit up to about 2N requests within 2W.
//
// When the counter store fails the limiter allows the request. Keeping the
// assistant available matters more than strict throttling; Decision.FailOpen
// marks these admissions so callers can count them.
package ratelimit
