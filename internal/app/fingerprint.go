package app

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"booking_reviews/internal/charset"
	"booking_reviews/internal/domain"
)

// FingerprintLen is the number of hex characters kept from the digest; the
// hash column is sized to it.
const FingerprintLen = 13

// Fingerprint identifies a review by who wrote it, when, and under which title.
// Inputs are the raw scraped values; rating and vote counts are deliberately
// not part of identity.
func Fingerprint(username, postDate, title string) string {
	sum := md5.Sum(charset.EncodeReplacing(username + postDate + title))
	return hex.EncodeToString(sum[:])[:FingerprintLen]
}

// FingerprintOf applies Fingerprint to a raw record.
func FingerprintOf(r domain.RawReview) string {
	return Fingerprint(rawString(r[fieldUsername]), rawString(r[fieldPostDate]), rawString(r[fieldTitle]))
}

// rawString renders a loosely typed value as text; missing is "".
func rawString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}
