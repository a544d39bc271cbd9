// Package billing starts hosted payment flows. The client only obtains a
// redirect URL; everything after the hand-off happens on the payment
// provider's pages and lands via server-side webhooks, so there is no
// local state to track.
package billing
