package constants

// DocumentKind selects the extraction rule set applied to a page of text.
type DocumentKind string

// Stable values (appear in logs and exported reports).
const (
	KindCheck       DocumentKind = "CHECK"
	KindRemittance  DocumentKind = "REMITTANCE"
	KindLockboxPage DocumentKind = "LOCKBOX_PAGE"
)

// ErrorMarker is prepended to a page's raw text when upstream text extraction
// failed. Pages carrying only the marker have no useful data and are dropped
// by the grouper.
const ErrorMarker = "[EXTRACTION FAILED]"
