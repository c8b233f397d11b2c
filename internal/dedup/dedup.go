// Package dedup suppresses postings that describe the same opportunity across Sources.
package dedup

import (
	"encoding/hex"
	"strings"

	"github.com/go-crypt/x/blake2b"

	"github.com/amishk599/hunter/internal/model"
)

// locationPrefixLen is how much of the normalized location takes part in the key.
const locationPrefixLen = 20

// Key fingerprints a posting from its title, company and location prefix.
// Two postings with the same key are the same opportunity regardless of Source.
func Key(p model.JobPosting) string {
	location := []rune(strings.ToLower(strings.TrimSpace(p.Location)))
	if len(location) > locationPrefixLen {
		location = location[:locationPrefixLen]
	}

	canonical := strings.ToLower(strings.TrimSpace(p.Title)) + "|" +
		strings.ToLower(strings.TrimSpace(p.Company)) + "|" +
		string(location)

	h, _ := blake2b.New(16, nil) // 128 bits; only used for set membership
	h.Write([]byte(canonical))
	return hex.EncodeToString(h.Sum(nil))
}

// Dedup keeps the first posting seen for every key, preserving input order.
func Dedup(postings []model.JobPosting) []model.JobPosting {
	seen := make(map[string]struct{}, len(postings))
	unique := make([]model.JobPosting, 0, len(postings))
	for _, p := range postings {
		k := Key(p)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, p)
	}
	return unique
}
