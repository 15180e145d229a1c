package models

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	slugSuffixLen  = 6
	tokenSuffixLen = 8

	base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// NewCardSlug builds the shareable identifier for a card from the two names,
// the clock, and a randomness source. Generation lives here, outside the
// persistence layer, so it stays a pure function of its inputs.
func NewCardSlug(name1, name2 string, now time.Time, rnd io.Reader) (string, error) {
	suffix, err := randomBase36(rnd, slugSuffixLen)
	if err != nil {
		return "", fmt.Errorf("generating slug suffix: %w", err)
	}
	return fmt.Sprintf("%s-%s-%s-%s",
		slugifyName(name1),
		slugifyName(name2),
		strconv.FormatInt(now.UnixMilli(), 36),
		suffix,
	), nil
}

// NewLinkToken builds a one-time-link token: millisecond timestamp in base36
// plus a random suffix, matching the shape used in creation-flow URLs.
func NewLinkToken(now time.Time, rnd io.Reader) (string, error) {
	suffix, err := randomBase36(rnd, tokenSuffixLen)
	if err != nil {
		return "", fmt.Errorf("generating token suffix: %w", err)
	}
	return strconv.FormatInt(now.UnixMilli(), 36) + "-" + suffix, nil
}

// slugifyName lowercases a name and collapses anything that is not a letter
// or digit into single hyphens.
func slugifyName(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return "card"
	}
	return out
}

func randomBase36(rnd io.Reader, n int) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rnd, buf); err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = base36Alphabet[int(b)%len(base36Alphabet)]
	}
	return string(out), nil
}
