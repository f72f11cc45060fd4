package docrecon

import "testing"

func TestGroupByDistanceV2_CaptionBelowFigure(t *testing.T) {
	cfg := DefaultConfig()
	subjects := []BoxScore{{Box: Box{X0: 0, Y0: 0, X1: 100, Y1: 100}, Score: 0.9}}
	objects := []BoxScore{{Box: Box{X0: 0, Y0: 110, X1: 100, Y1: 130}, Score: 0.9}}

	recs := groupByDistanceV2(subjects, objects, PriorityBottom, cfg)
	if len(recs) != 1 {
		t.Fatalf("expected one subject record, got %d", len(recs))
	}
	if len(recs[0].ObjBoxes) != 1 {
		t.Fatalf("expected the caption to attach to the only subject, got %+v", recs[0])
	}
}

func TestGroupByDistanceV2_DiagonalObjectIsIgnored(t *testing.T) {
	cfg := DefaultConfig()
	subjects := []BoxScore{{Box: Box{X0: 0, Y0: 0, X1: 100, Y1: 100}, Score: 0.9}}
	objects := []BoxScore{{Box: Box{X0: 120, Y0: 120, X1: 150, Y1: 150}, Score: 0.9}}

	recs := groupByDistanceV2(subjects, objects, PriorityBottom, cfg)
	if len(recs) != 1 || len(recs[0].ObjBoxes) != 0 {
		t.Fatalf("expected the diagonal object to be unassigned, got %+v", recs)
	}
}

func TestGroupByDistanceV2_NearestSubjectWinsOverFarther(t *testing.T) {
	cfg := DefaultConfig()
	subjects := []BoxScore{
		{Box: Box{X0: 0, Y0: 0, X1: 100, Y1: 100}, Score: 0.9},
		{Box: Box{X0: 0, Y0: 300, X1: 100, Y1: 400}, Score: 0.9},
	}
	objects := []BoxScore{{Box: Box{X0: 0, Y0: 110, X1: 100, Y1: 130}, Score: 0.9}}

	recs := groupByDistanceV2(subjects, objects, PriorityBottom, cfg)
	var attachedTo *int
	for i, r := range recs {
		if len(r.ObjBoxes) > 0 {
			idx := i
			attachedTo = &idx
		}
	}
	if attachedTo == nil || recs[*attachedTo].SubBox.Box != subjects[0].Box {
		t.Fatalf("expected the caption to attach to the nearer subject, got recs=%+v", recs)
	}
}

func TestPickAxisCandidate_NoCandidates(t *testing.T) {
	got := pickAxisCandidate(noNeighbor(), noNeighbor(), func(int) int { return 0 }, 10, 1)
	if got.subIdx != -1 {
		t.Errorf("expected no candidate, got %+v", got)
	}
}

func TestDimMismatch_ZeroExtentIsInfinite(t *testing.T) {
	if m := dimMismatch(10, 0); !isInf(m) {
		t.Errorf("expected +Inf for a zero-extent object, got %v", m)
	}
}
