package docrecon

import (
	"log"
	"math"
)

// normalizePage rescales every raw detection's box into page coordinate
// space and drops detections that are malformed or become degenerate after
// rescaling. It returns the surviving detections in their original relative
// order.
func normalizePage(modelID string, page RawPageDetections, actualPage PageInfo) []Detection {
	scaleX, scaleY := scaleRatio(page.PageInfo.Width, page.PageInfo.Height, actualPage)

	out := make([]Detection, 0, len(page.LayoutDets))
	for _, raw := range page.LayoutDets {
		if raw.Score < 0 || raw.Score > 1 {
			log.Printf("docrecon[%s]: page %d: dropping detection with score %.3f out of [0,1]", modelID, page.PageInfo.PageNo, raw.Score)
			continue
		}

		box, ok := rescaleBox(raw, scaleX, scaleY)
		if !ok {
			log.Printf("docrecon[%s]: page %d: dropping malformed detection (no bbox or poly)", modelID, page.PageInfo.PageNo)
			continue
		}
		if box.IsDegenerate() {
			log.Printf("docrecon[%s]: page %d: dropping degenerate box after rescale", modelID, page.PageInfo.PageNo)
			continue
		}

		out = append(out, Detection{
			Box:      box,
			Score:    raw.Score,
			Category: CategoryId(raw.CategoryID),
			Extra: Extra{
				Latex: raw.Latex,
				HTML:  raw.HTML,
				Text:  raw.Text,
				Poly:  raw.Poly,
			},
		})
	}
	return out
}

// scaleRatio computes (scale_x, scale_y) from the ratio of the detector's
// own image dimensions (as reported on the wire record's page_info block)
// to the page's true dimensions (as reported by the Dataset collaborator).
func scaleRatio(modelW, modelH int, actualPage PageInfo) (float64, float64) {
	scaleX, scaleY := 1.0, 1.0
	if actualPage.Width > 0 && modelW > 0 {
		scaleX = float64(modelW) / actualPage.Width
	}
	if actualPage.Height > 0 && modelH > 0 {
		scaleY = float64(modelH) / actualPage.Height
	}
	if scaleX == 0 {
		scaleX = 1
	}
	if scaleY == 0 {
		scaleY = 1
	}
	return scaleX, scaleY
}

// rescaleBox prefers an explicit bbox over a poly fallback, then divides
// by the scale ratios and truncates toward zero. ok is false when neither
// bbox nor a usable poly is present.
func rescaleBox(raw RawDetection, scaleX, scaleY float64) (Box, bool) {
	var x0, y0, x1, y1 float64
	switch {
	case raw.hasBBox():
		b := *raw.Bbox
		x0, y0, x1, y1 = b[0], b[1], b[2], b[3]
	case len(raw.Poly) >= 6:
		x0, y0, x1, y1 = raw.Poly[0], raw.Poly[1], raw.Poly[4], raw.Poly[5]
	default:
		return Box{}, false
	}

	return Box{
		X0: truncDiv(x0, scaleX),
		Y0: truncDiv(y0, scaleY),
		X1: truncDiv(x1, scaleX),
		Y1: truncDiv(y1, scaleY),
	}, true
}

// truncDiv divides v by scale and truncates toward zero.
func truncDiv(v, scale float64) int {
	return int(math.Trunc(v / scale))
}
