package docrecon

import "golang.org/x/text/unicode/norm"

// normalizeSpanContent NFC-normalizes a span's latex/html/text payload
// before it's used as a dedup key in GetAllSpans. OCR and LaTeX renderers
// are inconsistent about composed vs. decomposed Unicode (accented
// characters, combining diacritics); without normalization, two spans that
// a human would read as identical text compare unequal.
func normalizeSpanContent(s string) string {
	return norm.NFC.String(s)
}
