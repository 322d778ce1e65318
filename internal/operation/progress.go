package operation

import "math"

// Indeterminate is the progress reported when completion cannot be
// estimated. Any negative value means the same thing.
const Indeterminate = -1.0

// ProgressCapable is an operation that can report how far along it is.
type ProgressCapable interface {
	// Progress returns the completion fraction in [0,1], or a negative
	// number when progress is indeterminate.
	Progress() float64
}

func IsIndeterminate(p float64) bool { return p < 0 }

// ValidProgress reports whether p is an acceptable Progress value: inside
// [0,1], or negative. NaN and values above 1 are not.
func ValidProgress(p float64) bool {
	if math.IsNaN(p) {
		return false
	}
	return p <= 1
}

// ProgressOf returns v's progress if v is ProgressCapable.
func ProgressOf(v any) (float64, bool) {
	pc, ok := v.(ProgressCapable)
	if !ok {
		return 0, false
	}
	return pc.Progress(), true
}

// Fraction returns done/total clamped to [0,1], or Indeterminate when the
// total is unknown.
func Fraction(done, total int) float64 {
	if total <= 0 {
		return Indeterminate
	}
	f := float64(done) / float64(total)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
