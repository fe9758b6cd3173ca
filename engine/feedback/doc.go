// Package feedback implements the recursion (video feedback) filter. Each output frame the filter
// composites its target's live frame with the oldest frame of a delay buffer of off-screen render
// targets, stores the result as the newest buffered frame and draws it. The buffer length follows the
// configured delay divided by the output frame interval and is rebuilt from scratch whenever the target
// resolution changes or a configured lifecycle event fires.
package feedback
