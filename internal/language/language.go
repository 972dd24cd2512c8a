// Package language picks the caller's preferred display language from an
// Accept-Language header.
//
// Entries look like "en-US" or "en-US;q=0.7". Entries without a q value
// weigh 1.0. Malformed entries are skipped one by one, so a single bad
// entry never invalidates the rest of the header.
package language

import (
	"strconv"
	"strings"
)

// maxHeaderLength caps how much of the header is parsed
const maxHeaderLength = 4096

// maxSubtagLength is the RFC 4647 limit for one language-range subtag
const maxSubtagLength = 8

// Tag is one language range with its quality weight
type Tag struct {
	Value  string  // Language range as sent by the client, e.g. "en-AU" or "*"
	Weight float64 // Quality weight in [0, 1]
}

// Parse returns the most preferred language tag of an Accept-Language header
// The second return value is false when the header is empty or holds no valid entry
//
// The tag with the strictly highest weight wins. Equal weights are broken
// in favour of the entry that comes first in the header.
func Parse(header string) (string, bool) {
	tag, ok := Best(ParseTags(header))
	if !ok {
		return "", false
	}
	return tag.Value, true
}

// ParseTags parses an Accept-Language header into tags, in header order
// Malformed entries are left out
func ParseTags(header string) []Tag {
	header = truncate(header)

	var tags []Tag
	for part := range strings.SplitSeq(header, ",") {
		tag, ok := parseEntry(part)
		if !ok {
			continue
		}
		tags = append(tags, tag)
	}

	return tags
}

// Best returns the tag with the highest weight, first one wins on ties
func Best(tags []Tag) (Tag, bool) {
	if len(tags) == 0 {
		return Tag{}, false
	}

	best := tags[0]
	for _, tag := range tags[1:] {
		// Strict comparison keeps the leftmost tag on ties
		if tag.Weight > best.Weight {
			best = tag
		}
	}

	return best, true
}

// truncate cuts header to maxHeaderLength bytes on an entry boundary
// An entry that straddles the cap is dropped whole, otherwise it would
// lose its ";q=" suffix and be scored at the default weight
func truncate(header string) string {
	if len(header) <= maxHeaderLength {
		return header
	}
	if header[maxHeaderLength] == ',' {
		return header[:maxHeaderLength]
	}

	cut := header[:maxHeaderLength]
	i := strings.LastIndexByte(cut, ',')
	if i < 0 {
		// A single entry longer than the cap is never complete
		return ""
	}
	return cut[:i]
}

// parseQValue parses an RFC 7231 qvalue: "0" [ "." 0*3DIGIT ] or "1" [ "." 0*3"0" ]
// Exponents, signs, hex floats and NaN are rejected
func parseQValue(raw string) (float64, bool) {
	if raw == "" || len(raw) > 5 {
		return 0, false
	}
	if raw[0] != '0' && raw[0] != '1' {
		return 0, false
	}
	if len(raw) > 1 {
		if raw[1] != '.' {
			return 0, false
		}
		for _, r := range raw[2:] {
			if r < '0' || r > '9' || (raw[0] == '1' && r != '0') {
				return 0, false
			}
		}
	}

	q, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return q, true
}

// parseEntry parses a single "tag" or "tag;q=weight" entry
func parseEntry(entry string) (Tag, bool) {
	params := strings.Split(entry, ";")

	value := strings.TrimSpace(params[0])
	if !validRange(value) {
		return Tag{}, false
	}

	weight := 1.0
	for _, param := range params[1:] {
		key, raw, found := strings.Cut(strings.TrimSpace(param), "=")
		if !found || !strings.EqualFold(strings.TrimSpace(key), "q") {
			// Unknown parameters carry no preference information
			continue
		}

		q, ok := parseQValue(strings.TrimSpace(raw))
		if !ok {
			return Tag{}, false
		}
		weight = q
	}

	return Tag{Value: value, Weight: weight}, true
}

// validRange reports whether s is "*" or alphanum subtags joined by "-"
func validRange(s string) bool {
	if s == "*" {
		return true
	}
	if s == "" {
		return false
	}

	for i, subtag := range strings.Split(s, "-") {
		if subtag == "" || len(subtag) > maxSubtagLength {
			return false
		}
		for _, r := range subtag {
			isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
			isDigit := r >= '0' && r <= '9'
			// The primary subtag is letters only, the rest may hold digits
			if !isLetter && (i == 0 || !isDigit) {
				return false
			}
		}
	}

	return true
}
