// Package sanitize normalizes arbitrary human-readable names into
// identifiers that are valid as vector store collection names.
//
// Collection names must match ^[A-Za-z_][A-Za-z0-9_]*$ and fit in
// MaxNameLength characters.
package sanitize

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode"
)

const (
	// MaxNameLength is the maximum length for collection names.
	MaxNameLength = 63

	// hashSuffixLength is the length of the hash suffix added to truncated
	// names. Format: _<8-char-hash> = 9 characters total.
	hashSuffixLength = 9

	// digitPrefix is prepended when a normalized name starts with a digit.
	digitPrefix = "coll_"

	// DefaultCollectionName is used when normalization produces an empty result.
	DefaultCollectionName = "documents_collection"
)

// CollectionName normalizes raw into a collection name of at most
// MaxNameLength characters. It is total and deterministic: every input,
// including the empty string, maps to a valid identifier.
//
// Steps, in order: transliterate Cyrillic, collapse whitespace runs to a
// single underscore, strip everything outside [A-Za-z0-9_], prefix names
// that start with a digit with "coll_", truncate over-long names with an
// MD5-derived suffix, and substitute DefaultCollectionName for an empty
// result.
func CollectionName(raw string) string {
	return CollectionNameMax(raw, MaxNameLength)
}

// CollectionNameMax is CollectionName with an explicit length bound.
// A non-positive maxLength falls back to MaxNameLength.
func CollectionNameMax(raw string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = MaxNameLength
	}

	name := Transliterate(raw)

	// Whitespace runs become a single underscore.
	name = strings.Join(strings.Fields(name), "_")

	// Keep only ASCII letters, digits and underscores.
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	name = b.String()

	if name != "" && unicode.IsDigit(rune(name[0])) {
		name = digitPrefix + name
	}

	if len(name) > maxLength {
		name = truncateWithHash(name, maxLength)
	}

	if name == "" {
		name = DefaultCollectionName
	}

	return name
}

// truncateWithHash truncates name to fit maxLength, appending the first
// 8 hex characters of the MD5 of the pre-truncation name so that two
// distinct long names stay distinct after truncation. Bounds too small
// to fit a hash suffix degrade to a plain prefix truncation.
func truncateWithHash(name string, maxLength int) string {
	if maxLength <= hashSuffixLength {
		return name[:maxLength]
	}
	sum := md5.Sum([]byte(name))
	suffix := "_" + hex.EncodeToString(sum[:])[:hashSuffixLength-1]
	return name[:maxLength-hashSuffixLength] + suffix
}
