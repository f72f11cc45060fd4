package docrecon

import "testing"

func TestGroupByDistanceV1_CaptionBelowFigure(t *testing.T) {
	cfg := DefaultConfig()
	subjects := []BoxScore{{Box: Box{X0: 0, Y0: 0, X1: 100, Y1: 100}, Score: 0.9}}
	objects := []BoxScore{{Box: Box{X0: 0, Y0: 110, X1: 100, Y1: 130}, Score: 0.8}}

	recs, total := groupByDistanceV1(subjects, objects, nil, cfg)
	if len(recs) != 1 {
		t.Fatalf("expected one subject record, got %d", len(recs))
	}
	if recs[0].ObjectBody == nil {
		t.Fatalf("expected the caption to attach to the only subject, got %+v", recs[0])
	}
	if total <= 0 {
		t.Errorf("expected a positive total distance, got %v", total)
	}
}

func TestGroupByDistanceV1_ForeignOverlapVetoesAssignment(t *testing.T) {
	cfg := DefaultConfig()
	subjects := []BoxScore{{Box: Box{X0: 0, Y0: 0, X1: 100, Y1: 100}, Score: 0.9}}
	objects := []BoxScore{{Box: Box{X0: 0, Y0: 110, X1: 100, Y1: 130}, Score: 0.8}}
	// A large foreign detection spanning the merged subject+object region
	// should veto the assignment.
	other := []Detection{
		{Box: Box{X0: 0, Y0: 0, X1: 100, Y1: 130}, Score: 0.9, Category: CategoryAbandon},
	}

	recs, _ := groupByDistanceV1(subjects, objects, other, cfg)
	if len(recs) != 1 {
		t.Fatalf("expected one subject record, got %d", len(recs))
	}
	if recs[0].ObjectBody != nil {
		t.Errorf("expected the foreign-overlap veto to block assignment, got %+v", recs[0])
	}
}

func TestGroupByDistanceV1_NoObjectsLeavesSubjectUnassigned(t *testing.T) {
	cfg := DefaultConfig()
	subjects := []BoxScore{{Box: Box{X0: 0, Y0: 0, X1: 100, Y1: 100}, Score: 0.9}}

	recs, total := groupByDistanceV1(subjects, nil, nil, cfg)
	if len(recs) != 1 || recs[0].ObjectBody != nil {
		t.Fatalf("expected a single unassigned subject record, got %+v", recs)
	}
	if total != 0 {
		t.Errorf("expected zero total distance with no objects, got %v", total)
	}
}
