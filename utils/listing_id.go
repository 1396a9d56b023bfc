package utils

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const listingIDPrefix = "GS"

// GenerateListingID returns a human-readable unique code for a new listing,
// e.g. "GS-MDSJ2K1A-4F9QXZ": millisecond timestamp and a 6-char random
// suffix, both base36, uppercased. Uniqueness is backed by the unique index
// on materials.listing_id; the timestamp component makes collisions within
// the same millisecond the only case the index ever has to reject.
func GenerateListingID() string {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 36)
	random := randomBase36(6)
	return strings.ToUpper(fmt.Sprintf("%s-%s-%s", listingIDPrefix, timestamp, random))
}

const base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36Chars[rand.Intn(len(base36Chars))]
	}
	return string(b)
}
