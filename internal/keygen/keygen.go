// Package keygen produces license key strings. The prefix distinguishes
// freshly issued keys from rotated ones; the random suffix is an
// identification code, not a security primitive (the status endpoint
// exposes a single boolean and nothing else).
package keygen

import (
	"math/rand/v2"
	"strings"
)

const (
	LivePrefix    = "pk_live_"
	RotatedPrefix = "sk_"

	liveSuffixLen     = 24
	rotatedSegmentLen = 13

	alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// NewLiveKey returns a key value matching pk_live_[a-z0-9]{24}.
func NewLiveKey() string {
	return LivePrefix + randomString(liveSuffixLen)
}

// NewRotatedKey returns a key value matching sk_[a-z0-9]{13}_[a-z0-9]{13}.
// Rotated keys carry a distinct prefix and a two-segment suffix so a key
// that has been regenerated is recognizable at a glance.
func NewRotatedKey() string {
	return RotatedPrefix + randomString(rotatedSegmentLen) + "_" + randomString(rotatedSegmentLen)
}

func randomString(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
	return b.String()
}
