package docrecon

import "fmt"

// PageOutOfRangeError is returned by every query accessor when the
// requested page number is not present in the model.
type PageOutOfRangeError struct {
	PageNo int
}

func (e *PageOutOfRangeError) Error() string {
	return fmt.Sprintf("docrecon: page %d out of range", e.PageNo)
}

// AssertionMismatchError indicates an internal invariant was violated: the
// legacy (v1) grouper is expected to always produce one record per subject
// for both the caption pass and the footnote pass, so the caller can zip
// them by index. If the two passes ever disagree in length, that is a bug
// in the grouper, not a malformed input, and is reported through this type
// rather than dropped silently.
type AssertionMismatchError struct {
	Op            string
	CaptionCount  int
	FootnoteCount int
}

func (e *AssertionMismatchError) Error() string {
	return fmt.Sprintf("docrecon: %s invariant violated: %d caption records vs %d footnote records", e.Op, e.CaptionCount, e.FootnoteCount)
}
