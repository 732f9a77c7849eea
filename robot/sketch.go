package robot

import (
	"log"

	"iboardbot.dev/svg"
)

// BlockSize is the maximum length in bytes of a transmitted block,
// including the 6-byte header.
const BlockSize = 768

const blockHeader = 6

// eraseStep is the vertical distance in device units covered per
// half-lap of the erase sweep.
const eraseStep = 10

// A Block is one framed unit of transmission: a BlockStart and
// BlockNumber header followed by a command-aligned slice of the
// compiled command stream.
type Block []byte

type sketch struct {
	buf []byte
}

func (s *sketch) add(c Command) {
	s.buf = append(s.buf, c[:]...)
}

// Blocks compiles polylines into transmission blocks. With erase set
// the drawing is preceded by a sweep that wipes the whole board;
// otherwise the pen is lifted and homed first. Polylines with fewer
// than two points are skipped.
func Blocks(polylines []svg.Polyline, erase bool) []Block {
	var s sketch
	s.add(StartDrawing())
	if erase {
		s.erase()
	} else {
		s.add(PenLift())
		s.add(MoveTo(0, 0))
	}
	for _, pl := range polylines {
		if len(pl) < 2 {
			log.Printf("robot: skipping polyline with less than 2 coordinate pairs")
			continue
		}
		x, y := fix(pl[0])
		s.add(MoveTo(x, y))
		s.add(PenDown())
		for _, p := range pl[1:] {
			x, y := fix(p)
			s.add(MoveTo(x, y))
		}
		s.add(PenLift())
	}
	s.add(MoveTo(0, 0))
	s.add(StopDrawing())
	return s.blocks()
}

// erase engages the eraser at the top left corner and zig-zags across
// the board, descending one millimeter per half-lap, until the bottom
// edge is reached. The carriage ends parked at the origin.
func (s *sketch) erase() {
	s.add(PenLift())
	s.add(MoveTo(0, Height*10))
	s.add(EnableEraser())
	y := Height * 10
	for y > 0 {
		s.add(MoveTo(Width*10, y))
		y = max(0, y-eraseStep)
		s.add(MoveTo(Width*10, y))
		s.add(MoveTo(0, y))
		y = max(0, y-eraseStep)
		s.add(MoveTo(0, y))
	}
	s.add(PenLift())
	s.add(MoveTo(0, 0))
}

// blocks splits the command stream into framed blocks of at most
// BlockSize bytes. The chunk size is a multiple of 3, so block
// boundaries always align on command boundaries.
func (s *sketch) blocks() []Block {
	const chunk = BlockSize - blockHeader
	var blocks []Block
	buf := s.buf
	for i := 0; len(buf) > 0; i++ {
		n := min(chunk, len(buf))
		b := make(Block, 0, blockHeader+n)
		start, num := BlockStart(), BlockNumber(i+1)
		b = append(b, start[:]...)
		b = append(b, num[:]...)
		b = append(b, buf[:n]...)
		buf = buf[n:]
		blocks = append(blocks, b)
	}
	return blocks
}
