// Package bonus implements the per-player bonus-letter quota tracker
// (spec §4.3, component C3). The progress vector is kept as a plain
// [26]int on model.Player; this package holds the pure decrement/reset
// logic so the side effect of awarding a life stays separable from the
// data it operates on, per the spec's design note on keeping BonusProgress
// a pure data type.
package bonus

// Result reports whether decrementing a letter completed the quota and
// awarded a life.
type Result struct {
	AwardedLife bool
}

// TryLetter decrements progress[idx(ch)] if it is positive. If every
// counter in progress reaches zero as a result, lives is incremented (
// capped by maxLives), progress is reset to template, and
// Result.AwardedLife is true. Non-ASCII-letter runes are ignored. An
// all-zero template turns the mechanic off: TryLetter then changes
// nothing and never awards a life.
func TryLetter(progress *[26]int, lives *int, ch rune, maxLives int, template [26]int) Result {
	if template == ([26]int{}) {
		return Result{}
	}
	idx, ok := letterIndex(ch)
	if !ok {
		return Result{}
	}
	if progress[idx] > 0 {
		progress[idx]--
	}
	if !allZero(progress) {
		return Result{}
	}
	if *lives < maxLives {
		*lives++
	}
	*progress = template
	return Result{AwardedLife: true}
}

func letterIndex(ch rune) (int, bool) {
	switch {
	case ch >= 'a' && ch <= 'z':
		return int(ch - 'a'), true
	case ch >= 'A' && ch <= 'Z':
		return int(ch - 'A'), true
	default:
		return 0, false
	}
}

func allZero(progress *[26]int) bool {
	for _, v := range progress {
		if v != 0 {
			return false
		}
	}
	return true
}
