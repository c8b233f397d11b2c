package adapter

import "strings"

// Canonical job types understood by the providers' filters.
const (
	jobTypeFullTime = "fulltime"
	jobTypePartTime = "parttime"
	jobTypeContract = "contract"
)

// normalizeJobType maps free-text job types onto the canonical set. Unknown
// values, "all" and empty map to "" (no filter).
func normalizeJobType(s string) string {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "fulltime", "permanent":
		return jobTypeFullTime
	case "parttime":
		return jobTypePartTime
	case "contract", "contractor", "freelance", "temporary":
		return jobTypeContract
	default:
		return ""
	}
}
