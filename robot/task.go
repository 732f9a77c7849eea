package robot

import (
	"time"

	"iboardbot.dev/svg"
)

// A PrintTask is a unit of work accepted by the driver: either a
// single drawing or a set of drawings repeated on an interval.
// Construct one with Once or Scheduled.
type PrintTask struct {
	// Interval between scheduled drawings. Zero means draw once.
	Interval time.Duration
	// Drawings holds one polyline set per drawing. Scheduled tasks
	// rotate through them round-robin, one per firing.
	Drawings [][]svg.Polyline
}

// Once returns a task that draws polylines a single time.
func Once(polylines []svg.Polyline) PrintTask {
	return PrintTask{Drawings: [][]svg.Polyline{polylines}}
}

// Scheduled returns a task that draws one of drawings per interval
// tick, rotating through the set.
func Scheduled(interval time.Duration, drawings [][]svg.Polyline) PrintTask {
	return PrintTask{Interval: interval, Drawings: drawings}
}
