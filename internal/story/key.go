package story

import (
	"net/url"
	"strings"
)

// KeyPrefix namespaces all persisted story records. The prefix encodes the
// record schema version: v1 records held only an "a story is active" marker,
// v2 records hold the full scene list and cursor. Bumping the schema means
// bumping the prefix so old and new shapes never collide under one key.
const KeyPrefix = "story_v2_"

// DeriveKey maps a free-text hero name to a stable storage key.
//
// Two names that differ only by case, surrounding whitespace, or internal
// whitespace runs derive the same key ("Brave Bee", " brave  bee " and
// "BRAVE BEE" are the same story). DeriveKey is total: every input, the
// empty string included, yields a valid key.
func DeriveKey(rawSubject string) string {
	s := strings.ToLower(strings.TrimSpace(rawSubject))
	s = strings.Join(strings.Fields(s), "_")
	return KeyPrefix + url.QueryEscape(s)
}
