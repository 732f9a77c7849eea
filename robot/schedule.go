package robot

import "time"

// scheduleDelay is the delay before a new schedule's first firing. It
// leaves the caller room to finish enqueueing and interleaves the
// first scheduled burst with any already pending one-shot blocks.
var scheduleDelay = 2 * time.Second

// schedule is a handle on the periodic firing goroutine of the
// currently active task.
type schedule struct {
	quit chan struct{}
	done chan struct{}
}

// newSchedule runs fire after the initial delay and then once per
// interval until stop is called. Firings run on their own goroutine;
// they must not touch the serial port.
func newSchedule(interval time.Duration, fire func()) *schedule {
	s := &schedule{
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		timer := time.NewTimer(scheduleDelay)
		defer timer.Stop()
		for {
			select {
			case <-s.quit:
				return
			case <-timer.C:
				fire()
				timer.Reset(interval)
			}
		}
	}()
	return s
}

// stop cancels the schedule. No firing starts after stop returns;
// blocks appended by earlier firings stay queued.
func (s *schedule) stop() {
	close(s.quit)
	<-s.done
}
