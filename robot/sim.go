package robot

import (
	"fmt"
	"sync"
)

// Simulator emulates an iBoardBot on the far end of the serial line.
// It speaks the device's status line protocol, decodes received
// blocks back into commands and records them, so the driver loop can
// be exercised end to end without hardware.
type Simulator struct {
	mu       sync.Mutex
	pending  []byte
	resp     []byte
	received [][]Command
	blockErr error
}

func NewSimulator() *Simulator {
	return &Simulator{}
}

func (s *Simulator) Write(data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, data...)
	return len(data), nil
}

// Read produces the next status line. A fully received block is
// acknowledged with its own number; an idle board beacons READY.
func (s *Simulator) Read(data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.resp) == 0 {
		if len(s.pending) > 0 {
			num, cmds, err := decodeBlock(s.pending)
			s.pending = s.pending[:0]
			if err != nil {
				s.blockErr = err
				return 0, err
			}
			s.received = append(s.received, cmds)
			s.resp = append(s.resp, fmt.Sprintf("CL STATUS=ACK&NUM=%d\n", num)...)
		} else {
			s.resp = append(s.resp, "CL STATUS=READY\n"...)
		}
	}
	n := copy(data, s.resp)
	s.resp = s.resp[n:]
	return n, nil
}

// Received returns the decoded command streams of the blocks received
// so far, in order.
func (s *Simulator) Received() [][]Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	blocks := make([][]Command, len(s.received))
	copy(blocks, s.received)
	return blocks
}

// Err reports the first framing error seen, if any.
func (s *Simulator) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blockErr
}

// decodeBlock splits a raw block back into its command frames and
// extracts the block number from the header.
func decodeBlock(b []byte) (num int, cmds []Command, err error) {
	if len(b) < blockHeader || len(b) > BlockSize {
		return 0, nil, fmt.Errorf("robot: block of %d bytes", len(b))
	}
	if len(b)%3 != 0 {
		return 0, nil, fmt.Errorf("robot: block of %d bytes not command aligned", len(b))
	}
	var start Command
	copy(start[:], b[:3])
	if start != BlockStart() {
		return 0, nil, fmt.Errorf("robot: block starts with % x", b[:3])
	}
	if b[3] != 0xfa || b[4]&0xf0 != 0x90 {
		return 0, nil, fmt.Errorf("robot: bad block number frame % x", b[3:6])
	}
	num = int(b[4]&0x0f)<<8 | int(b[5])
	for i := blockHeader; i < len(b); i += 3 {
		cmds = append(cmds, Command{b[i], b[i+1], b[i+2]})
	}
	return num, cmds, nil
}
