package docrecon

// Config holds the engine's tuning constants as overridable fields, the
// way pdfmarkdown.Config exposes its own tuning knobs. Construct one with
// DefaultConfig; NewModel treats a zero Config as DefaultConfig.
type Config struct {
	// LowConfThreshold: detections scoring at or below this are dropped
	// during sanitization.
	LowConfThreshold float64

	// IoUDupThreshold: the IoU above which two same-ish-category
	// detections are considered duplicates, keeping only the higher
	// score.
	IoUDupThreshold float64

	// CaptionOverlapAreaRatio: the v1 grouper's quadrant-inclusion
	// threshold.
	CaptionOverlapAreaRatio float64

	// MergeBoxOverlapAreaRatio: the v1 grouper's foreign-object veto
	// threshold.
	MergeBoxOverlapAreaRatio float64

	// SizeMismatchRatio: fixedDistance's size-mismatch cutoff.
	SizeMismatchRatio float64

	// AxisMultiplicity: the v2 grouper's tie tolerance, expressed as a
	// multiple of axis_unit.
	AxisMultiplicity float64

	// VerticalPriorityRatio: the v2 grouper's vertical short-circuit
	// tolerance, expressed as a multiple of axis_unit.
	VerticalPriorityRatio float64

	// FloatEPS: the tolerance used by floatGt wherever a dominance
	// comparison gates group membership.
	FloatEPS float64
}

// DefaultConfig returns the engine's default tuning constants.
func DefaultConfig() Config {
	return Config{
		LowConfThreshold:         0.05,
		IoUDupThreshold:          0.9,
		CaptionOverlapAreaRatio:  0.6,
		MergeBoxOverlapAreaRatio: 1.1,
		SizeMismatchRatio:        0.3,
		AxisMultiplicity:         0.5,
		VerticalPriorityRatio:    3,
		FloatEPS:                 1e-6,
	}
}

// resolved returns c if it looks configured (non-zero FloatEPS), otherwise
// DefaultConfig(). This lets NewModel accept a zero Config as "use
// defaults", mirroring how pdfmarkdown.NewConverter vs.
// NewConverterWithConfig are both offered, but collapsed into one
// constructor that tolerates an unset Config.
func (c Config) resolved() Config {
	if c.FloatEPS == 0 {
		return DefaultConfig()
	}
	return c
}
