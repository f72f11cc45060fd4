package docrecon

import (
	"math"
	"sort"
)

// PriorityPos selects which direction a v2 grouping call prefers when an
// object has both a top and a bottom neighbor at nearly the same distance
// (Up/Bottom/Left/Right/All).
type PriorityPos int

const (
	PriorityUp PriorityPos = iota
	PriorityBottom
	PriorityLeft
	PriorityRight
	PriorityAll
)

// GroupRecordV2 is one subject's grouping result from the v2 grouper: the
// subject's box/score plus every object that chose it, in sorted object
// order.
type GroupRecordV2 struct {
	SubIdx   int
	SubBox   BoxScore
	ObjBoxes []BoxScore
}

// directedNeighbor is the nearest subject found in one direction from an
// object, or the sentinel (subIdx -1, dist +Inf) when none exists.
type directedNeighbor struct {
	subIdx int
	dist   float64
}

func noNeighbor() directedNeighbor {
	return directedNeighbor{subIdx: -1, dist: math.Inf(1)}
}

// groupByDistanceV2 implements the canonical subject-object grouper:
// subjects and objects are the (pre-overlap-reduction) detections of the
// requested categories on one page; reduceOverlap is applied internally
// before any distances are computed.
func groupByDistanceV2(subjects, objects []BoxScore, priority PriorityPos, cfg Config) []GroupRecordV2 {
	subjects = reduceOverlap(subjects)
	objects = reduceOverlap(objects)

	sortByOrigin(subjects)
	sortByOrigin(objects)

	type dirState struct {
		top, bottom, left, right directedNeighbor
	}
	states := make([]dirState, len(objects))
	for i := range states {
		states[i] = dirState{top: noNeighbor(), bottom: noNeighbor(), left: noNeighbor(), right: noNeighbor()}
	}

	for i, obj := range objects {
		for j, sub := range subjects {
			b1, b2, _ := removeMutualOverlap(obj.Box, sub.Box)
			left, right, bottom, top := relativePos(b1, b2)
			if countTrue(left, right, bottom, top) > 1 {
				continue
			}
			dist := bboxDistance(obj.Box, sub.Box)
			if left && dist < states[i].left.dist {
				states[i].left = directedNeighbor{j, dist}
			}
			if right && dist < states[i].right.dist {
				states[i].right = directedNeighbor{j, dist}
			}
			if bottom && dist < states[i].bottom.dist {
				states[i].bottom = directedNeighbor{j, dist}
			}
			if top && dist < states[i].top.dist {
				states[i].top = directedNeighbor{j, dist}
			}
		}
	}

	subObjMap := make(map[int][]int, len(subjects))
	for i := range subjects {
		subObjMap[i] = nil
	}

	for i, obj := range objects {
		st := states[i]
		axisUnit := float64(minInt(obj.Box.Width(), obj.Box.Height()))

		if st.top.subIdx >= 0 && st.bottom.subIdx >= 0 &&
			(priority == PriorityBottom || priority == PriorityUp) {
			if math.Abs(st.top.dist-st.bottom.dist) < cfg.VerticalPriorityRatio*axisUnit {
				// priority names the side of its subject the object sits
				// on: PriorityBottom (object below its subject) takes the
				// subject above it, PriorityUp the subject below it.
				target := st.bottom.subIdx
				if priority == PriorityBottom {
					target = st.top.subIdx
				}
				subObjMap[target] = append(subObjMap[target], i)
				continue
			}
		}

		lr := pickAxisCandidate(st.left, st.right, func(idx int) int { return subjects[idx].Box.Height() }, obj.Box.Height(), cfg.AxisMultiplicity*axisUnit)
		tb := pickAxisCandidate(st.top, st.bottom, func(idx int) int { return subjects[idx].Box.Width() }, obj.Box.Width(), cfg.AxisMultiplicity*axisUnit)

		var target int
		switch {
		case lr.subIdx < 0 && tb.subIdx < 0:
			continue
		case lr.subIdx < 0:
			target = tb.subIdx
		case tb.subIdx < 0:
			target = lr.subIdx
		default:
			if cfg.AxisMultiplicity*axisUnit >= math.Abs(lr.dist-tb.dist) {
				target = pickByAspect(lr, tb, subjects, obj.Box)
			} else if lr.dist > tb.dist {
				target = tb.subIdx
			} else {
				target = lr.subIdx
			}
		}
		subObjMap[target] = append(subObjMap[target], i)
	}

	recs := make([]GroupRecordV2, 0, len(subjects))
	for i, sub := range subjects {
		rec := GroupRecordV2{SubIdx: i, SubBox: sub}
		for _, oi := range subObjMap[i] {
			rec.ObjBoxes = append(rec.ObjBoxes, objects[oi])
		}
		recs = append(recs, rec)
	}
	return recs
}

// pickAxisCandidate implements the axis-affinity rule between the two
// directional candidates on one axis (left/right, or top/bottom).
// perpExtent returns a subject's extent perpendicular to the axis being
// compared (e.g. height for left/right candidates); objExtent is the
// object's corresponding extent. tieTolerance is
// cfg.AxisMultiplicity * axis_unit.
func pickAxisCandidate(a, b directedNeighbor, perpExtent func(int) int, objExtent int, tieTolerance float64) directedNeighbor {
	switch {
	case a.subIdx < 0 && b.subIdx < 0:
		return directedNeighbor{subIdx: -1, dist: math.Inf(1)}
	case a.subIdx < 0:
		return b
	case b.subIdx < 0:
		return a
	}

	if tieTolerance >= math.Abs(a.dist-b.dist) {
		// Minimize |L_sub - L_obj| + d.
		scoreA := math.Abs(float64(perpExtent(a.subIdx)-objExtent)) + a.dist
		scoreB := math.Abs(float64(perpExtent(b.subIdx)-objExtent)) + b.dist
		if scoreA > scoreB {
			return b
		}
		return a
	}
	if a.dist > b.dist {
		return b
	}
	return a
}

// pickByAspect breaks the final horizontal-vs-vertical tie by comparing
// which dimension's relative mismatch is smaller. A zero-extent comparison
// is treated as +Inf dissimilarity so it never wins the tie.
func pickByAspect(lr, tb directedNeighbor, subjects []BoxScore, objBox Box) int {
	xAxisBox := subjects[tb.subIdx].Box
	yAxisBox := subjects[lr.subIdx].Box

	widthMismatch := dimMismatch(float64(xAxisBox.Width()), float64(objBox.Width()))
	heightMismatch := dimMismatch(float64(yAxisBox.Height()), float64(objBox.Height()))

	if widthMismatch > heightMismatch {
		return lr.subIdx
	}
	return tb.subIdx
}

func dimMismatch(subExtent, objExtent float64) float64 {
	if objExtent == 0 {
		return math.Inf(1)
	}
	return math.Abs(subExtent-objExtent) / objExtent
}

func sortByOrigin(boxes []BoxScore) {
	sort.SliceStable(boxes, func(i, j int) bool {
		return originKey(boxes[i].Box) < originKey(boxes[j].Box)
	})
}

func originKey(b Box) float64 {
	return float64(b.X0)*float64(b.X0) + float64(b.Y0)*float64(b.Y0)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
