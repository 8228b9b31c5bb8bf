// Package stopwatch provides the "Instant" class: a monotonic stopwatch
// reporting elapsed time in microseconds.
//
// Methods, in host index order:
//
//	0 Start()            reset the start instant to now
//	1 Elapsed() -> R8    microseconds since the last Start, or since creation
//
// The class has no error slot; neither method can fail.
package stopwatch
