package robot

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tarm/serial"
)

// Baud is the board's fixed serial rate (8 data bits, no parity, one
// stop bit, no flow control).
const Baud = 115200

const (
	// pollTimeout bounds the intake poll so the loop can turn back
	// to the serial line.
	pollTimeout = 50 * time.Millisecond
	// readTimeout bounds a serial read so the loop can turn back to
	// the intake channel.
	readTimeout = time.Second
)

var ackPattern = regexp.MustCompile(`^CL STATUS=ACK&NUM=(\d+)$`)

// taskBacklog is the intake channel capacity. Client sends must not
// wait out the serial loop's read timeout, so the channel carries
// enough slack for any realistic burst of requests.
const taskBacklog = 16

func newIntake() chan PrintTask {
	return make(chan PrintTask, taskBacklog)
}

// Communicate opens the board's serial device and starts the driver
// loop on its own goroutine. Tasks sent on the returned channel are
// compiled and printed; closing the channel shuts the driver down and
// releases the port.
func Communicate(device string, baud int) (chan<- PrintTask, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: readTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("robot: open %s: %w", device, err)
	}
	tasks := newIntake()
	go func() {
		defer port.Close()
		Drive(port, tasks)
	}()
	return tasks, nil
}

// driver holds the state owned by the serial loop. Only the pending
// queue and the iteration counter are shared with schedule firings.
type driver struct {
	w       *bufio.Writer
	pending queue
	active  *schedule
	iter    atomic.Uint64

	// current is the number of the last transmitted block, 0 before
	// any send.
	current int
}

// Drive runs the driver conversation on an already open port until
// tasks is closed. Communicate is the usual entry point; Drive exists
// so the loop can run against any line, such as a Simulator.
func Drive(port io.ReadWriter, tasks <-chan PrintTask) {
	d := &driver{w: bufio.NewWriterSize(port, BlockSize)}
	lines := lineReader{r: port}
	for {
		select {
		case task, ok := <-tasks:
			if !ok {
				if d.active != nil {
					d.active.stop()
				}
				log.Printf("robot: intake closed, driver shutting down")
				return
			}
			d.accept(task)
		case <-time.After(pollTimeout):
		}
		if line, ok := lines.next(); ok {
			d.handleLine(line)
		}
	}
}

// accept installs a new task, cancelling any active schedule first.
// Blocks already queued by the previous task are not revoked.
func (d *driver) accept(t PrintTask) {
	if d.active != nil {
		d.active.stop()
		d.active = nil
	}
	d.iter.Store(0)
	if len(t.Drawings) == 0 {
		log.Printf("robot: ignoring task with no drawings")
		return
	}
	if t.Interval <= 0 {
		d.pending.push(Blocks(t.Drawings[0], true))
		return
	}
	drawings := t.Drawings
	d.active = newSchedule(t.Interval, func() {
		n := d.iter.Add(1) - 1
		set := drawings[int(n%uint64(len(drawings)))]
		d.pending.push(Blocks(set, true))
	})
}

func (d *driver) handleLine(line string) {
	if line == "" {
		return
	}
	if !strings.HasPrefix(line, "CL ") {
		log.Printf("robot: ignoring device line %q", line)
		return
	}
	if d.pending.empty() {
		return
	}
	if d.clearToSend(line) {
		d.send()
	}
}

// clearToSend decides whether a status line cues the next block. The
// device gates transmission: READY means it is idle, an ACK matching
// the last sent block means it consumed it. An ACK of 1 signals a
// device reset, an ACK ahead of the local counter means the driver
// process restarted after earlier prints; both resync and send.
func (d *driver) clearToSend(line string) bool {
	if line == "CL STATUS=READY" {
		return true
	}
	m := ackPattern.FindStringSubmatch(line)
	if m == nil {
		log.Printf("robot: unrecognized status line %q", line)
		return false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		log.Printf("robot: bad block number in %q: %v", line, err)
		return false
	}
	switch {
	case n == 1:
		return true
	case n == d.current:
		return true
	case n > d.current:
		d.current = 1
		return true
	default:
		log.Printf("robot: out-of-sequence ack of block %d, last sent %d", n, d.current)
		return false
	}
}

// send transmits the front block. The block is popped before the
// write: a write failure loses it rather than wedging the queue on a
// dead device, and higher layers may reissue the task.
func (d *driver) send() {
	block, ok := d.pending.pop()
	if !ok {
		return
	}
	d.current++
	if _, err := d.w.Write(block); err != nil {
		log.Printf("robot: writing block %d failed: %v", d.current, err)
		return
	}
	if err := d.w.Flush(); err != nil {
		log.Printf("robot: flushing block %d failed: %v", d.current, err)
	}
}

// lineReader assembles newline-terminated status lines from bounded
// port reads. A read that times out yields no line; a partial line is
// kept for the next attempt.
type lineReader struct {
	r   io.Reader
	buf []byte
	tmp [128]byte
}

func (l *lineReader) next() (string, bool) {
	if i := bytes.IndexByte(l.buf, '\n'); i >= 0 {
		return l.take(i), true
	}
	n, err := l.r.Read(l.tmp[:])
	if err != nil && err != io.EOF {
		log.Printf("robot: serial read failed: %v", err)
		return "", false
	}
	l.buf = append(l.buf, l.tmp[:n]...)
	if i := bytes.IndexByte(l.buf, '\n'); i >= 0 {
		return l.take(i), true
	}
	return "", false
}

func (l *lineReader) take(i int) string {
	line := strings.TrimRight(string(l.buf[:i]), " \t\r")
	l.buf = append(l.buf[:0], l.buf[i+1:]...)
	return line
}
