package docrecon

import (
	"math"
	"sort"
)

// GroupRecordV1 is one subject's grouping result from the legacy (v1)
// grouper: the subject box, the merged box of every object assigned to
// it (nil when none were assigned), the union of subject+objects, and the
// subject's own score.
type GroupRecordV1 struct {
	SubjectBody Box
	ObjectBody  *Box
	All         Box
	Score       float64
}

type v1Node struct {
	box       Box
	score     float64
	isSubject bool
}

const v1Unset = math.MaxFloat64

// groupByDistanceV1 implements the legacy subject-object grouper:
// merged-bbox overlap filtering, a seed-and-grow object expansion, and
// quadrant-based assignment. otherDetections is every sanitized detection
// on the page in neither subjectCat nor objectCat, used by the
// foreign-object veto. totalDistance is a secondary diagnostic return
// value: the summed distance of matched pairs, plus a best-effort
// distance for objects that never matched any subject.
func groupByDistanceV1(subjectBoxes, objectBoxes []BoxScore, otherDetections []Detection, cfg Config) (result []GroupRecordV1, totalDistance float64) {
	subjects := reduceOverlap(subjectBoxes)
	objects := reduceOverlap(objectBoxes)
	sortByOrigin(subjects)

	all := make([]v1Node, 0, len(subjects)+len(objects))
	for _, s := range subjects {
		all = append(all, v1Node{box: s.Box, score: s.Score, isSubject: true})
	}
	for _, o := range objects {
		all = append(all, v1Node{box: o.Box, score: o.Score, isSubject: false})
	}
	n := len(all)

	dis := make([][]float64, n)
	for i := range dis {
		dis[i] = make([]float64, n)
		for j := range dis[i] {
			dis[i][j] = v1Unset
		}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			if all[i].isSubject && all[j].isSubject {
				continue
			}
			subjIdx, objIdx := i, j
			if all[j].isSubject {
				subjIdx, objIdx = j, i
			}
			ratio := searchOverlapRatio(all, subjIdx, objIdx, otherDetections, cfg)
			var d float64
			if ratio >= cfg.MergeBoxOverlapAreaRatio {
				d = math.Inf(1)
			} else {
				d = fixedDistance(all[subjIdx].box, all[objIdx].box, cfg)
			}
			dis[i][j] = d
			dis[j][i] = d
		}
	}

	used := make([]bool, n)
	relation := map[int][]int{}

	for i := 0; i < n; i++ {
		if !all[i].isSubject {
			continue
		}

		seen := map[int]bool{}
		var arr []struct {
			dist float64
			idx  int
		}
		for j := 0; j < n; j++ {
			if all[j].isSubject || used[j] || dis[i][j] == v1Unset {
				continue
			}
			left, right, bottom, top := relativePos(all[i].box, all[j].box)
			if countTrue(left, right, bottom, top) > 1 {
				continue
			}
			var oneWayDis float64
			if left || right {
				oneWayDis = float64(all[i].box.Width())
			} else {
				oneWayDis = float64(all[i].box.Height())
			}
			if dis[i][j] > oneWayDis {
				continue
			}
			arr = append(arr, struct {
				dist float64
				idx  int
			}{dis[i][j], j})
		}
		sort.Slice(arr, func(a, b int) bool { return arr[a].dist < arr[b].dist })

		var candidates []int
		if len(arr) > 0 {
			if mayFindOtherNearestBbox(all, dis, i, arr[0].idx) >= arr[0].dist {
				candidates = []int{arr[0].idx}
				seen[arr[0].idx] = true
			}
		}

		// Seed-and-grow expansion: iterate to a fixpoint, tracking visited
		// indices in `seen` so no index is revisited.
		for len(candidates) > 0 {
			var tmp []int
			for _, j0 := range candidates {
				for k := i + 1; k < n; k++ {
					if all[k].isSubject || used[k] || seen[k] || dis[j0][k] == v1Unset || dis[j0][k] > dis[i][j0] {
						continue
					}
					left, right, bottom, top := relativePos(all[j0].box, all[k].box)
					if countTrue(left, right, bottom, top) > 1 {
						continue
					}

					isNearest := true
					for ni := i + 1; ni < n; ni++ {
						if ni == j0 || ni == k || used[ni] || seen[ni] {
							continue
						}
						if !floatGtCfg(dis[ni][k], dis[j0][k], cfg) {
							isNearest = false
							break
						}
					}
					if !isNearest {
						continue
					}

					expandIdxs := append(seenSlice(seen), k)
					expanded := mergedBBoxOf(all, expandIdxs)
					nDist := bboxDistance(all[i].box, expanded)
					if floatGtCfg(dis[i][j0], nDist, cfg) {
						continue
					}
					tmp = append(tmp, k)
					seen[k] = true
				}
			}
			candidates = tmp
		}

		// Quadrant partition: strips left/top/bottom/right of the subject's
		// own box within the expanded union.
		seenIdxs := seenSlice(seen)
		relation[i] = nil
		if len(seenIdxs) == 0 {
			continue
		}

		outer := mergedBBoxOf(all, append(append([]int{}, seenIdxs...), i))
		ix0, iy0, ix1, iy1 := all[i].box.X0, all[i].box.Y0, all[i].box.X1, all[i].box.Y1

		quadrants := [4]Box{
			{outer.X0, outer.Y0, ix0, outer.Y1},       // left strip
			{outer.X0, outer.Y0, outer.X1, iy0},       // top strip
			{outer.X0, iy1, outer.X1, outer.Y1},       // bottom strip
			{ix1, outer.Y0, outer.X1, outer.Y1},       // right strip
		}

		bestArea := 0
		bestQuadrant := -1
		for qi, quad := range quadrants {
			var embedded []int
			for _, idx := range seenIdxs {
				if overlapAreaRatioToFirst(all[idx].box, quad) > cfg.CaptionOverlapAreaRatio {
					embedded = append(embedded, idx)
				}
			}
			if len(embedded) == 0 {
				continue
			}
			embeddedArea := area(mergedBBoxOf(all, embedded))
			if embeddedArea > bestArea {
				bestArea = embeddedArea
				bestQuadrant = qi
			}
		}

		if bestQuadrant < 0 {
			continue
		}
		winner := quadrants[bestQuadrant]
		for _, idx := range seenIdxs {
			if overlapAreaRatioToFirst(all[idx].box, winner) > cfg.CaptionOverlapAreaRatio {
				used[idx] = true
				relation[i] = append(relation[i], idx)
			}
		}
	}

	subjIdxsSorted := make([]int, 0, len(subjects))
	for i := 0; i < n; i++ {
		if all[i].isSubject {
			subjIdxsSorted = append(subjIdxsSorted, i)
		}
	}

	result = make([]GroupRecordV1, 0, len(subjIdxsSorted))
	for _, i := range subjIdxsSorted {
		rec := GroupRecordV1{
			SubjectBody: all[i].box,
			All:         all[i].box,
			Score:       all[i].score,
		}
		if objIdxs := relation[i]; len(objIdxs) > 0 {
			ob := mergedBBoxOf(all, objIdxs)
			rec.ObjectBody = &ob
			rec.All = mergedBBox(all[i].box, ob)
		}
		result = append(result, rec)
	}

	totalDistance = 0
	claimedSubjects := make([]bool, n)
	for i, objIdxs := range relation {
		if len(objIdxs) > 0 {
			claimedSubjects[i] = true
		}
		for _, j := range objIdxs {
			totalDistance += bboxDistance(all[i].box, all[j].box)
		}
	}
	for j := 0; j < n; j++ {
		if all[j].isSubject || used[j] {
			continue
		}
		bestDist := math.Inf(1)
		bestSub := -1
		for i := 0; i < n; i++ {
			if !all[i].isSubject || claimedSubjects[i] {
				continue
			}
			if dis[i][j] < bestDist {
				bestDist = dis[i][j]
				bestSub = i
			}
		}
		if bestSub >= 0 {
			totalDistance += bestDist
			claimedSubjects[bestSub] = true
		}
	}

	return result, totalDistance
}

// searchOverlapRatio implements the foreign-object veto: the merged bbox
// of the subject/object pair is checked against every
// detection outside both categories, and the highest overlap ratio
// relative to the object's own area is returned; the scan stops at the
// first ratio that reaches cfg.MergeBoxOverlapAreaRatio.
func searchOverlapRatio(all []v1Node, subjIdx, objIdx int, otherDetections []Detection, cfg Config) float64 {
	merged := mergedBBox(all[subjIdx].box, all[objIdx].box)
	objectArea := area(all[objIdx].box)
	if objectArea == 0 {
		return 0
	}

	ratio := 0.0
	for _, other := range otherDetections {
		r := float64(overlapArea(merged, other.Box)) / float64(objectArea)
		if r > ratio {
			ratio = r
		}
		if ratio >= cfg.MergeBoxOverlapAreaRatio {
			break
		}
	}
	return ratio
}

// mayFindOtherNearestBbox implements the seed-rejection check: if any
// other subject at least as large as the candidate object
// part-overlaps (or lies inside) the merged bbox of (s_i, o_j), and that
// subject is strictly nearer to the object than s_i is, the seed is
// rejected in favor of nearer competition.
func mayFindOtherNearestBbox(all []v1Node, dis [][]float64, subjIdx, objIdx int) float64 {
	merged := mergedBBox(all[subjIdx].box, all[objIdx].box)
	objectArea := area(all[objIdx].box)

	ret := math.Inf(1)
	for i, node := range all {
		if i == subjIdx || !node.isSubject {
			continue
		}
		if isPartOverlap(merged, node.box) || isIn(node.box, merged) {
			if area(node.box) >= objectArea {
				ret = math.Min(ret, dis[i][objIdx])
			}
		}
	}
	return ret
}

func seenSlice(seen map[int]bool) []int {
	out := make([]int, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func mergedBBoxOf(all []v1Node, idxs []int) Box {
	boxes := make([]Box, len(idxs))
	for i, idx := range idxs {
		boxes[i] = all[idx].box
	}
	return mergedBBox(boxes...)
}

func floatGtCfg(a, b float64, cfg Config) bool {
	return a > b+cfg.FloatEPS
}
