package docrecon

import (
	"log"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Model is the engine's single entry point: constructed once from an
// upstream vision pipeline's raw per-page detections and a Dataset
// collaborator, it eagerly normalizes and sanitizes every page, then serves
// read-only queries. A Model is safe for concurrent use by multiple
// goroutines once constructed — nothing past NewModel mutates its state.
type Model struct {
	id         uuid.UUID
	cfg        Config
	detections map[int][]Detection
	pageInfo   map[int]PageInfo
}

// NewModel normalizes and sanitizes every page of rawPages against ds, and
// returns a Model ready to be queried. modelID is a caller-supplied label
// (e.g. a document ID) attached to every log line this Model instance
// emits, alongside a per-instance correlation ID that disambiguates
// concurrently-constructed Models sharing the same label. A zero Config
// resolves to DefaultConfig.
func NewModel(modelID string, rawPages []RawPageDetections, ds Dataset, cfg Config) (*Model, error) {
	cfg = cfg.resolved()
	m := &Model{
		id:         uuid.New(),
		cfg:        cfg,
		detections: make(map[int][]Detection, len(rawPages)),
		pageInfo:   make(map[int]PageInfo, len(rawPages)),
	}

	logID := modelID + "/" + m.id.String()
	for _, rp := range rawPages {
		pageNo := rp.PageInfo.PageNo
		actual, err := ds.GetPage(pageNo)
		if err != nil {
			return nil, errors.Wrapf(err, "docrecon[%s/%s]: loading page %d", modelID, m.id, pageNo)
		}

		dets := normalizePage(logID, rp, actual)
		dets = sanitizePage(logID, pageNo, dets, cfg)

		log.Printf("docrecon[%s/%s]: page %d: %d detections survived normalize+sanitize", modelID, m.id, pageNo, len(dets))

		m.detections[pageNo] = dets
		m.pageInfo[pageNo] = actual
	}

	return m, nil
}

// PageDetections returns every sanitized detection on pageNo, in the order
// produced by normalize+sanitize. A raw escape hatch for callers that need
// more than the compound query accessors below expose.
func (m *Model) PageDetections(pageNo int) ([]Detection, error) {
	dets, ok := m.detections[pageNo]
	if !ok {
		return nil, &PageOutOfRangeError{PageNo: pageNo}
	}
	return dets, nil
}

// GetPageSize returns the true PDF page dimensions reported by the Dataset
// collaborator at construction time.
func (m *Model) GetPageSize(pageNo int) (PageInfo, error) {
	info, ok := m.pageInfo[pageNo]
	if !ok {
		return PageInfo{}, &PageOutOfRangeError{PageNo: pageNo}
	}
	return info, nil
}

// blocksByCategory collects every detection of category c on pageNo as a
// BoxScore, in detection order.
func (m *Model) blocksByCategory(pageNo int, c CategoryId) ([]BoxScore, error) {
	dets, ok := m.detections[pageNo]
	if !ok {
		return nil, &PageOutOfRangeError{PageNo: pageNo}
	}
	var out []BoxScore
	for _, d := range dets {
		if d.Category == c {
			out = append(out, BoxScore{Box: d.Box, Score: d.Score})
		}
	}
	return out, nil
}

// otherThan returns every detection on pageNo whose category is neither of
// the two given, for the v1 grouper's foreign-object veto.
func (m *Model) otherThan(pageNo int, subjectCat, objectCat CategoryId) []Detection {
	var out []Detection
	for _, d := range m.detections[pageNo] {
		if d.Category != subjectCat && d.Category != objectCat {
			out = append(out, d)
		}
	}
	return out
}

// GetDiscarded returns every abandoned block on pageNo.
func (m *Model) GetDiscarded(pageNo int) ([]BoxScore, error) {
	return m.blocksByCategory(pageNo, CategoryAbandon)
}

// GetTextBlocks returns every plain-text block on pageNo.
func (m *Model) GetTextBlocks(pageNo int) ([]BoxScore, error) {
	return m.blocksByCategory(pageNo, CategoryPlainText)
}

// GetTitleBlocks returns every title block on pageNo.
func (m *Model) GetTitleBlocks(pageNo int) ([]BoxScore, error) {
	return m.blocksByCategory(pageNo, CategoryTitle)
}

// GetOCRText returns every OCR'd text span on pageNo, content NFC-normalized.
func (m *Model) GetOCRText(pageNo int) ([]OCRSpan, error) {
	dets, ok := m.detections[pageNo]
	if !ok {
		return nil, &PageOutOfRangeError{PageNo: pageNo}
	}
	var out []OCRSpan
	for _, d := range dets {
		if d.Category != CategoryOCRText {
			continue
		}
		out = append(out, OCRSpan{Box: d.Box, Score: d.Score, Content: normalizeSpanContent(d.Extra.Text)})
	}
	return out, nil
}

// GetEquations returns every equation on pageNo, with its LaTeX
// transcription: isolated (block-level) equations, inline equation spans,
// and interline equation spans.
func (m *Model) GetEquations(pageNo int) ([]EquationBlock, error) {
	dets, ok := m.detections[pageNo]
	if !ok {
		return nil, &PageOutOfRangeError{PageNo: pageNo}
	}
	var out []EquationBlock
	for _, d := range dets {
		var kind EquationKind
		switch d.Category {
		case CategoryIsolateFormula:
			kind = EquationIsolated
		case CategoryInlineEquationSpan:
			kind = EquationInline
		case CategoryInterlineEquationSpan:
			kind = EquationInterline
		default:
			continue
		}
		out = append(out, EquationBlock{Box: d.Box, Score: d.Score, Latex: normalizeSpanContent(d.Extra.Latex), Kind: kind})
	}
	return out, nil
}

// GetImgsV2 groups image bodies with their captions and footnotes using the
// canonical (v2) grouper. Captions are expected below their image; when a
// caption has an image both above and below it at distances within
// VerticalPriorityRatio of an axis_unit, it goes to the image above it.
// Footnotes carry no directional
// preference and go through axis-affinity regardless of side.
func (m *Model) GetImgsV2(pageNo int) ([]CompoundImage, error) {
	bodies, err := m.blocksByCategory(pageNo, CategoryImageBody)
	if err != nil {
		return nil, err
	}
	captions, err := m.blocksByCategory(pageNo, CategoryImageCaption)
	if err != nil {
		return nil, err
	}
	footnotes, err := m.blocksByCategory(pageNo, CategoryImageFootnote)
	if err != nil {
		return nil, err
	}

	capRecs := groupByDistanceV2(bodies, captions, PriorityBottom, m.cfg)
	footRecs := groupByDistanceV2(bodies, footnotes, PriorityAll, m.cfg)

	out := make([]CompoundImage, len(capRecs))
	for i := range capRecs {
		out[i] = CompoundImage{
			Body:      capRecs[i].SubBox,
			Captions:  capRecs[i].ObjBoxes,
			Footnotes: footRecs[i].ObjBoxes,
		}
	}
	return out, nil
}

// GetTablesV2 groups table bodies with their captions and footnotes using
// the canonical (v2) grouper. Table captions are expected above their
// table, unlike image captions. Footnotes carry no directional preference
// and go through axis-affinity regardless of side.
func (m *Model) GetTablesV2(pageNo int) ([]CompoundTable, error) {
	bodies, err := m.blocksByCategory(pageNo, CategoryTableBody)
	if err != nil {
		return nil, err
	}
	captions, err := m.blocksByCategory(pageNo, CategoryTableCaption)
	if err != nil {
		return nil, err
	}
	footnotes, err := m.blocksByCategory(pageNo, CategoryTableFootnote)
	if err != nil {
		return nil, err
	}

	capRecs := groupByDistanceV2(bodies, captions, PriorityUp, m.cfg)
	footRecs := groupByDistanceV2(bodies, footnotes, PriorityAll, m.cfg)

	out := make([]CompoundTable, len(capRecs))
	for i := range capRecs {
		out[i] = CompoundTable{
			Body:      capRecs[i].SubBox,
			Captions:  capRecs[i].ObjBoxes,
			Footnotes: footRecs[i].ObjBoxes,
		}
	}
	return out, nil
}

// GetImgs groups image bodies with their captions and footnotes using the
// legacy (v1) grouper. Returns AssertionMismatchError if the caption pass
// and footnote pass disagree on how many subject records they produced —
// both passes run over the same sorted/overlap-reduced subject list, so
// they should always agree; a mismatch means the grouper itself is broken.
func (m *Model) GetImgs(pageNo int) ([]CompoundImage, error) {
	bodies, err := m.blocksByCategory(pageNo, CategoryImageBody)
	if err != nil {
		return nil, err
	}
	captions, err := m.blocksByCategory(pageNo, CategoryImageCaption)
	if err != nil {
		return nil, err
	}
	footnotes, err := m.blocksByCategory(pageNo, CategoryImageFootnote)
	if err != nil {
		return nil, err
	}

	capRecs, _ := groupByDistanceV1(bodies, captions, m.otherThan(pageNo, CategoryImageBody, CategoryImageCaption), m.cfg)
	footRecs, _ := groupByDistanceV1(bodies, footnotes, m.otherThan(pageNo, CategoryImageBody, CategoryImageFootnote), m.cfg)

	if len(capRecs) != len(footRecs) {
		return nil, &AssertionMismatchError{Op: "GetImgs", CaptionCount: len(capRecs), FootnoteCount: len(footRecs)}
	}

	out := make([]CompoundImage, len(capRecs))
	for i := range capRecs {
		out[i] = CompoundImage{
			Body:      BoxScore{Box: capRecs[i].SubjectBody, Score: capRecs[i].Score},
			Captions:  objBoxesOf(capRecs[i]),
			Footnotes: objBoxesOf(footRecs[i]),
		}
	}
	return out, nil
}

// GetTables groups table bodies with their captions and footnotes using the
// legacy (v1) grouper.
func (m *Model) GetTables(pageNo int) ([]CompoundTable, error) {
	bodies, err := m.blocksByCategory(pageNo, CategoryTableBody)
	if err != nil {
		return nil, err
	}
	captions, err := m.blocksByCategory(pageNo, CategoryTableCaption)
	if err != nil {
		return nil, err
	}
	footnotes, err := m.blocksByCategory(pageNo, CategoryTableFootnote)
	if err != nil {
		return nil, err
	}

	capRecs, _ := groupByDistanceV1(bodies, captions, m.otherThan(pageNo, CategoryTableBody, CategoryTableCaption), m.cfg)
	footRecs, _ := groupByDistanceV1(bodies, footnotes, m.otherThan(pageNo, CategoryTableBody, CategoryTableFootnote), m.cfg)

	if len(capRecs) != len(footRecs) {
		return nil, &AssertionMismatchError{Op: "GetTables", CaptionCount: len(capRecs), FootnoteCount: len(footRecs)}
	}

	out := make([]CompoundTable, len(capRecs))
	for i := range capRecs {
		out[i] = CompoundTable{
			Body:      BoxScore{Box: capRecs[i].SubjectBody, Score: capRecs[i].Score},
			Captions:  objBoxesOf(capRecs[i]),
			Footnotes: objBoxesOf(footRecs[i]),
		}
	}
	return out, nil
}

func objBoxesOf(rec GroupRecordV1) []BoxScore {
	if rec.ObjectBody == nil {
		return nil
	}
	return []BoxScore{{Box: *rec.ObjectBody, Score: rec.Score}}
}

// GetAllSpans assembles every piece of content on pageNo into spans, in
// detection order, deduplicating exact repeats of the same type, position, and
// (NFC-normalized) content. Only categories {3,5,13,14,15} (image body,
// table body, inline/interline equation spans, OCR text) contribute a
// span; title and plain-text blocks are not spans.
func (m *Model) GetAllSpans(pageNo int) ([]Span, error) {
	dets, ok := m.detections[pageNo]
	if !ok {
		return nil, &PageOutOfRangeError{PageNo: pageNo}
	}

	type key struct {
		t       SpanType
		box     Box
		content string
	}
	seen := make(map[key]bool)

	var out []Span
	add := func(t SpanType, box Box, score float64, content string) {
		content = normalizeSpanContent(content)
		k := key{t, box, content}
		if seen[k] {
			return
		}
		seen[k] = true
		out = append(out, Span{Box: box, Score: score, Type: t, Content: content})
	}

	for _, d := range dets {
		switch d.Category {
		case CategoryOCRText:
			add(SpanText, d.Box, d.Score, d.Extra.Text)
		case CategoryTableBody:
			content := d.Extra.Latex
			if content == "" {
				content = d.Extra.HTML
			}
			add(SpanTable, d.Box, d.Score, content)
		case CategoryImageBody:
			add(SpanImage, d.Box, d.Score, "")
		case CategoryInlineEquationSpan:
			add(SpanInlineEquation, d.Box, d.Score, d.Extra.Latex)
		case CategoryInterlineEquationSpan:
			add(SpanInterlineEquation, d.Box, d.Score, d.Extra.Latex)
		}
	}
	return out, nil
}
