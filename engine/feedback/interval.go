package feedback

import "github.com/Carmen-Shannon/oxy-recursion/engine/host"

// FrameInterval returns the output frame duration in nanoseconds, fps_den * 1e9 / fps_num rounded
// toward zero. A zero numerator yields 0.
func FrameInterval(info host.VideoInfo) uint64 {
	if info.FPSNum == 0 {
		return 0
	}
	return uint64(info.FPSDen) * 1_000_000_000 / uint64(info.FPSNum)
}

// RequiredFrames returns how many frames span delayNS at intervalNS: max(1, delay/interval), or 0 when
// the interval is 0.
func RequiredFrames(delayNS, intervalNS uint64) int {
	if intervalNS == 0 {
		return 0
	}
	return int(max(1, delayNS/intervalNS))
}

// IntervalTracker holds the configured delay and the frame interval the buffer is currently sized for.
// An interval of 0 means the buffer is not sized.
type IntervalTracker struct {
	delayNS    uint64
	intervalNS uint64
}

// SetDelay sets the delay in milliseconds, floored to 1 ms.
//
// Parameters:
//   - ms: the delay in milliseconds
//
// Returns:
//   - bool: true if the delay changed
func (t *IntervalTracker) SetDelay(ms int64) bool {
	d := uint64(max(ms, 1)) * 1_000_000
	if d == t.delayNS {
		return false
	}
	t.delayNS = d
	return true
}

// Delay returns the delay in nanoseconds.
func (t *IntervalTracker) Delay() uint64 {
	return t.delayNS
}

// Interval returns the interval the buffer is sized for, or 0.
func (t *IntervalTracker) Interval() uint64 {
	return t.intervalNS
}

// Changed reports whether intervalNS differs from the tracked interval.
func (t *IntervalTracker) Changed(intervalNS uint64) bool {
	return intervalNS != t.intervalNS
}

// Accept records intervalNS as the sized interval and returns the slot count it requires.
func (t *IntervalTracker) Accept(intervalNS uint64) int {
	t.intervalNS = intervalNS
	return RequiredFrames(t.delayNS, intervalNS)
}

// Reset marks the buffer as not sized.
func (t *IntervalTracker) Reset() {
	t.intervalNS = 0
}
