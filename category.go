package docrecon

// CategoryId is a closed enumeration of the detection categories a page
// can hold. Unlike the integer category_id the upstream vision pipeline
// emits on the wire, CategoryId is a tagged variant: the sanitizer and
// groupers dispatch on tag equality, never on integer ranges or arithmetic.
type CategoryId int

const (
	CategoryTitle                 CategoryId = 0
	CategoryPlainText             CategoryId = 1
	CategoryAbandon               CategoryId = 2
	CategoryImageBody             CategoryId = 3
	CategoryImageCaption          CategoryId = 4
	CategoryTableBody             CategoryId = 5
	CategoryTableCaption          CategoryId = 6
	CategoryTableFootnote         CategoryId = 7
	CategoryIsolateFormula        CategoryId = 8
	CategoryEmbedding             CategoryId = 9
	CategoryInlineEquationSpan    CategoryId = 13
	CategoryInterlineEquationSpan CategoryId = 14
	CategoryOCRText               CategoryId = 15
	// CategoryImageFootnote is synthetic: the sanitizer relabels a
	// CategoryTableFootnote detection to this tag when it sits closer to
	// an image body than to any table body. It never appears on the wire.
	CategoryImageFootnote CategoryId = 101
)

// String returns a human-readable category name, used in log lines and
// error messages.
func (c CategoryId) String() string {
	switch c {
	case CategoryTitle:
		return "title"
	case CategoryPlainText:
		return "plain_text"
	case CategoryAbandon:
		return "abandon"
	case CategoryImageBody:
		return "image_body"
	case CategoryImageCaption:
		return "image_caption"
	case CategoryTableBody:
		return "table_body"
	case CategoryTableCaption:
		return "table_caption"
	case CategoryTableFootnote:
		return "table_footnote"
	case CategoryIsolateFormula:
		return "isolate_formula"
	case CategoryEmbedding:
		return "embedding"
	case CategoryInlineEquationSpan:
		return "inline_equation"
	case CategoryInterlineEquationSpan:
		return "interline_equation"
	case CategoryOCRText:
		return "ocr_text"
	case CategoryImageFootnote:
		return "image_footnote"
	default:
		return "unknown"
	}
}

// isDedupEligible reports whether c participates in the high-IoU dedup
// pass (categories 0..9).
func (c CategoryId) isDedupEligible() bool {
	return c >= CategoryTitle && c <= CategoryEmbedding
}

// Extra carries the optional payload fields a detection may have,
// depending on its category: a LaTeX transcription for equations and
// table bodies, an HTML transcription for table bodies, OCR'd text for
// text spans, or a poly fallback for detectors that never populate bbox.
type Extra struct {
	Latex string
	HTML  string
	Text  string
	Poly  []float64
}

// Detection is a single normalized, sanitized detector output.
type Detection struct {
	Box      Box
	Score    float64
	Category CategoryId
	Extra    Extra
}

// PageInfo describes the dimensions of one page as reported by the PDF
// decoder collaborator.
type PageInfo struct {
	Width, Height float64
}

// PageDetections holds all detections belonging to one page, plus the
// page's pixel dimensions as originally reported by the detector.
// normalize.go computes the normalization scale from RawPageInfo, not from
// this type.
type PageDetections struct {
	PageNo     int
	ModelW     int
	ModelH     int
	Detections []Detection
}

// BoxScore pairs a box with its detection confidence; used throughout the
// compound/query result types below.
type BoxScore struct {
	Box   Box
	Score float64
}

// CompoundImage is a subject (image body) together with its owned
// captions and footnotes.
type CompoundImage struct {
	Body      BoxScore
	Captions  []BoxScore
	Footnotes []BoxScore
}

// CompoundTable is identical in shape to CompoundImage, for table bodies.
type CompoundTable struct {
	Body      BoxScore
	Captions  []BoxScore
	Footnotes []BoxScore
}

// SpanType identifies what kind of content a Span carries.
type SpanType int

const (
	SpanText SpanType = iota
	SpanImage
	SpanTable
	SpanInlineEquation
	SpanInterlineEquation
)

// Span is a single piece of document content, shaped for downstream layout
// assembly.
type Span struct {
	Box     Box
	Score   float64
	Type    SpanType
	Content string // latex, html, or plain text, depending on Type
}

// EquationKind distinguishes the three equation shapes a page can hold.
type EquationKind int

const (
	EquationIsolated EquationKind = iota
	EquationInline
	EquationInterline
)

// EquationBlock is a single equation detection: a bbox, its LaTeX
// transcription, and which of the three equation categories it came from.
type EquationBlock struct {
	Box   Box
	Score float64
	Latex string
	Kind  EquationKind
}

// OCRSpan is a single OCR'd text region: a bbox plus recognized text.
type OCRSpan struct {
	Box     Box
	Score   float64
	Content string
}
