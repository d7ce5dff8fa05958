package constants

// MatchStatus is the canonical disposition for a processed document.
type MatchStatus string

// Stable values (store these exact strings in reports).
const (
	StatusMatched MatchStatus = "MATCHED"  // at least one match above the score floor
	StatusNoMatch MatchStatus = "NO_MATCH" // processed cleanly, zero surfaced matches
	StatusFailed  MatchStatus = "FAILED"   // document-level processing failure
)
