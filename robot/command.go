// package robot drives the iBoardBot whiteboard plotter. It compiles
// polyline drawings into the board's framed block protocol and runs
// the half-duplex serial conversation that feeds blocks to the device
// under its acknowledgement scheme.
package robot

import (
	"fmt"

	"iboardbot.dev/svg"
)

// Board dimensions in millimeters.
const (
	Width  = 358
	Height = 123
)

// A Command is a single 3-byte frame understood by the board.
type Command [3]byte

// BlockStart introduces a block header.
func BlockStart() Command { return Command{0xfa, 0x9f, 0xa1} }

// BlockNumber frames the block sequence number n, 1 <= n < 4000.
func BlockNumber(n int) Command {
	if n < 1 || n >= 4000 {
		panic(fmt.Sprintf("robot: block number %d out of range", n))
	}
	return Command{0xfa, 0x90 | byte(n>>8), byte(n)}
}

func StartDrawing() Command { return Command{0xfa, 0x1f, 0xa1} }
func StopDrawing() Command  { return Command{0xfa, 0x20, 0x00} }
func PenLift() Command      { return Command{0xfa, 0x30, 0x00} }
func PenDown() Command      { return Command{0xfa, 0x40, 0x00} }

// EnableEraser engages the eraser attachment. The board lifts the pen
// as part of engaging it.
func EnableEraser() Command { return Command{0xfa, 0x50, 0x00} }

// Wait pauses the board for s seconds, at most 30.
func Wait(s int) Command {
	if s < 0 || s > 30 {
		panic(fmt.Sprintf("robot: wait of %d seconds out of range", s))
	}
	return Command{0xfa, 0x60, byte(s)}
}

// MoveTo moves the carriage to (x, y) in device space: tenths of a
// millimeter with the origin at the bottom left. Both coordinates are
// packed as 12-bit values.
func MoveTo(x, y int) Command {
	if x < 0 || x > Width*10 || y < 0 || y > Height*10 {
		panic(fmt.Sprintf("robot: move to (%d,%d) outside the board", x, y))
	}
	return Command{byte(x >> 4), byte(x<<4) | byte(y>>8), byte(y)}
}

// fix converts a point in user space (millimeters, y growing
// downward) to device space. Points outside the board are pinned to
// the nearest edge; callers are expected to pre-fit their drawings
// and clamping is a last resort.
func fix(p svg.CoordinatePair) (x, y int) {
	x = int(clamp(p.X, 0, Width) * 10)
	y = int(clamp(Height-p.Y, 0, Height) * 10)
	return x, y
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
