package docrecon

import (
	"math"
	"testing"
)

func TestIoU(t *testing.T) {
	tests := []struct {
		name     string
		b1, b2   Box
		expected float64
	}{
		{
			name:     "no overlap",
			b1:       Box{X0: 0, Y0: 0, X1: 10, Y1: 10},
			b2:       Box{X0: 20, Y0: 20, X1: 30, Y1: 30},
			expected: 0,
		},
		{
			name:     "identical boxes",
			b1:       Box{X0: 0, Y0: 0, X1: 10, Y1: 10},
			b2:       Box{X0: 0, Y0: 0, X1: 10, Y1: 10},
			expected: 1.0,
		},
		{
			name:     "half overlap",
			b1:       Box{X0: 0, Y0: 0, X1: 10, Y1: 10},
			b2:       Box{X0: 5, Y0: 0, X1: 15, Y1: 10},
			expected: 50.0 / 150.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := iou(tt.b1, tt.b2); math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("iou() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsIn(t *testing.T) {
	outer := Box{X0: 0, Y0: 0, X1: 100, Y1: 100}
	inner := Box{X0: 10, Y0: 10, X1: 20, Y1: 20}
	if !isIn(inner, outer) {
		t.Error("expected inner to be contained in outer")
	}
	if isIn(outer, inner) {
		t.Error("did not expect outer to be contained in inner")
	}
	// Shared edges count as contained.
	flushEdge := Box{X0: 0, Y0: 0, X1: 50, Y1: 50}
	if !isIn(flushEdge, outer) {
		t.Error("expected a box sharing outer's top-left edges to be contained")
	}
}

func TestRelativePos_FigureAboveCaption(t *testing.T) {
	// A figure directly above its caption: the caption (b2) sits below b1.
	figure := Box{X0: 0, Y0: 0, X1: 100, Y1: 100}
	caption := Box{X0: 0, Y0: 110, X1: 100, Y1: 130}

	left, right, bottom, top := relativePos(figure, caption)
	if left || right || top {
		t.Errorf("expected only bottom=true, got left=%v right=%v bottom=%v top=%v", left, right, bottom, top)
	}
	if !bottom {
		t.Error("expected caption to be classified as below the figure")
	}
}

func TestRelativePos_Diagonal(t *testing.T) {
	b1 := Box{X0: 0, Y0: 0, X1: 10, Y1: 10}
	b2 := Box{X0: 20, Y0: 20, X1: 30, Y1: 30}

	left, right, bottom, top := relativePos(b1, b2)
	if countTrue(left, right, bottom, top) != 2 {
		t.Errorf("expected exactly two flags set for a diagonal pair, got left=%v right=%v bottom=%v top=%v", left, right, bottom, top)
	}
}

func TestBBoxDistance_Overlapping(t *testing.T) {
	b1 := Box{X0: 0, Y0: 0, X1: 10, Y1: 10}
	b2 := Box{X0: 5, Y0: 5, X1: 15, Y1: 15}
	if d := bboxDistance(b1, b2); d != 0 {
		t.Errorf("expected 0 distance for overlapping boxes, got %v", d)
	}
}

func TestBBoxDistance_Separated(t *testing.T) {
	b1 := Box{X0: 0, Y0: 0, X1: 10, Y1: 10}
	b2 := Box{X0: 13, Y0: 0, X1: 20, Y1: 10}
	if d := bboxDistance(b1, b2); math.Abs(d-3) > floatEPS {
		t.Errorf("expected distance 3, got %v", d)
	}
}

func TestMergedBBox(t *testing.T) {
	boxes := []Box{
		{X0: 0, Y0: 0, X1: 10, Y1: 10},
		{X0: -5, Y0: 3, X1: 7, Y1: 20},
		{X0: 2, Y0: 2, X1: 30, Y1: 8},
	}
	m := mergedBBox(boxes...)
	want := Box{X0: -5, Y0: 0, X1: 30, Y1: 20}
	if m != want {
		t.Errorf("mergedBBox() = %+v, want %+v", m, want)
	}
}

func TestRemoveMutualOverlap_NoOverlap(t *testing.T) {
	b1 := Box{X0: 0, Y0: 0, X1: 10, Y1: 10}
	b2 := Box{X0: 20, Y0: 20, X1: 30, Y1: 30}
	out1, out2, removed := removeMutualOverlap(b1, b2)
	if out1 != b1 || out2 != b2 {
		t.Error("expected non-overlapping boxes to be returned unchanged")
	}
	if removed != (Box{}) {
		t.Errorf("expected a zero-value removed region, got %+v", removed)
	}
}

func TestRemoveMutualOverlap_ShrinksShorterAxis(t *testing.T) {
	b1 := Box{X0: 0, Y0: 0, X1: 10, Y1: 10}
	b2 := Box{X0: 8, Y0: 0, X1: 18, Y1: 10}
	out1, out2, _ := removeMutualOverlap(b1, b2)
	if area(intersection(out1, out2)) > 0 {
		t.Errorf("expected no remaining overlap, got out1=%+v out2=%+v", out1, out2)
	}
}

func TestFloatGt(t *testing.T) {
	if floatGt(1.0000001, 1.0) {
		t.Error("difference within epsilon should not count as greater")
	}
	if !floatGt(1.1, 1.0) {
		t.Error("difference beyond epsilon should count as greater")
	}
}
