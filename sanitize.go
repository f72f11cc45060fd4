package docrecon

import (
	"log"
	"math"
)

// sanitizePage runs three ordered passes over one page's already-normalized
// detections: low-confidence prune, high-IoU dedup, then footnote
// reclassification.
func sanitizePage(modelID string, pageNo int, detections []Detection, cfg Config) []Detection {
	detections = pruneLowConfidence(modelID, pageNo, detections, cfg)
	detections = dedupHighIoU(detections, cfg)
	reclassifyFootnotes(detections, cfg)
	return detections
}

// pruneLowConfidence removes every detection scoring at or below
// cfg.LowConfThreshold.
func pruneLowConfidence(modelID string, pageNo int, detections []Detection, cfg Config) []Detection {
	out := detections[:0:0]
	for _, d := range detections {
		if d.Score <= cfg.LowConfThreshold {
			log.Printf("docrecon[%s]: page %d: dropping low-confidence detection (score=%.3f category=%s)", modelID, pageNo, d.Score, d.Category)
			continue
		}
		out = append(out, d)
	}
	return out
}

// dedupHighIoU marks and removes duplicates: for every ordered pair of
// dedup-eligible detections (categories 0..9) whose IoU exceeds
// cfg.IoUDupThreshold, the lower-scoring one is marked for removal; on an
// exact score tie the first encountered (lower index) survives and only
// the later one is marked. The removal set is computed over all pairs
// before anything is actually dropped.
func dedupHighIoU(detections []Detection, cfg Config) []Detection {
	n := len(detections)
	remove := make([]bool, n)

	for i := 0; i < n; i++ {
		if !detections[i].Category.isDedupEligible() {
			continue
		}
		for j := 0; j < n; j++ {
			if i == j || !detections[j].Category.isDedupEligible() {
				continue
			}
			if iou(detections[i].Box, detections[j].Box) <= cfg.IoUDupThreshold {
				continue
			}
			var loser int
			switch {
			case detections[i].Score > detections[j].Score:
				loser = j
			case detections[i].Score < detections[j].Score:
				loser = i
			default:
				// Equal score: keep the first encountered.
				loser = i
				if i < j {
					loser = j
				}
			}
			remove[loser] = true
		}
	}

	out := make([]Detection, 0, n)
	for i, d := range detections {
		if !remove[i] {
			out = append(out, d)
		}
	}
	return out
}

// reclassifyFootnotes only runs its distance passes on pages that hold at
// least one category-7 (table_footnote) detection and at least one
// category-3 (image_body) detection; the short-circuit sits after
// collection, so it guards only the distance passes below, not the
// category tally itself.
func reclassifyFootnotes(detections []Detection, cfg Config) {
	var footnotes, figures, tables []int
	for i, d := range detections {
		switch d.Category {
		case CategoryTableFootnote:
			footnotes = append(footnotes, i)
		case CategoryImageBody:
			figures = append(figures, i)
		case CategoryTableBody:
			tables = append(tables, i)
		}
	}

	if len(footnotes) == 0 || len(figures) == 0 {
		return
	}

	minDistToFigure := make(map[int]float64, len(footnotes))
	for _, fi := range footnotes {
		for _, gi := range figures {
			left, right, bottom, top := relativePos(detections[fi].Box, detections[gi].Box)
			if countTrue(left, right, bottom, top) > 1 {
				continue
			}
			d := fixedDistance(detections[gi].Box, detections[fi].Box, cfg)
			if cur, ok := minDistToFigure[fi]; !ok || d < cur {
				minDistToFigure[fi] = d
			}
		}
	}

	minDistToTable := make(map[int]float64, len(footnotes))
	for _, fi := range footnotes {
		for _, ti := range tables {
			left, right, bottom, top := relativePos(detections[fi].Box, detections[ti].Box)
			if countTrue(left, right, bottom, top) > 1 {
				continue
			}
			d := fixedDistance(detections[ti].Box, detections[fi].Box, cfg)
			if cur, ok := minDistToTable[fi]; !ok || d < cur {
				minDistToTable[fi] = d
			}
		}
	}

	for _, fi := range footnotes {
		figDist, ok := minDistToFigure[fi]
		if !ok {
			continue
		}
		tableDist, hasTable := minDistToTable[fi]
		if !hasTable || figDist < tableDist {
			detections[fi].Category = CategoryImageFootnote
		}
	}
}

// fixedDistance treats diagonal arrangements as infinitely far, and a size
// mismatch along the perpendicular axis as also infinitely far. Symmetric
// by construction (the larger of the two perpendicular spans is compared
// against the smaller, not B2 against B1 positionally) so that
// fixedDistance(a,b) == fixedDistance(b,a).
func fixedDistance(b1, b2 Box, cfg Config) float64 {
	left, right, bottom, top := relativePos(b1, b2)
	if countTrue(left, right, bottom, top) > 1 {
		return math.Inf(1)
	}

	var l1, l2 float64
	if left || right {
		l1 = float64(b1.Y1 - b1.Y0)
		l2 = float64(b2.Y1 - b2.Y0)
	} else {
		l1 = float64(b1.X1 - b1.X0)
		l2 = float64(b2.X1 - b2.X0)
	}

	lBig, lSmall := math.Max(l1, l2), math.Min(l1, l2)
	if lSmall != 0 && (lBig-lSmall)/lSmall > cfg.SizeMismatchRatio {
		return math.Inf(1)
	}

	return bboxDistance(b1, b2)
}

func countTrue(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
