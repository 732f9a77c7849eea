package robot

import (
	"bytes"
	"testing"

	"iboardbot.dev/svg"
)

func TestEmptySketch(t *testing.T) {
	blocks := Blocks(nil, false)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	want := []byte{
		0xfa, 0x9f, 0xa1, // block start
		0xfa, 0x90, 0x01, // block number 1
		0xfa, 0x1f, 0xa1, // start drawing
		0xfa, 0x30, 0x00, // pen lift
		0x00, 0x00, 0x00, // move to 0,0
		0x00, 0x00, 0x00, // move to 0,0
		0xfa, 0x20, 0x00, // stop drawing
	}
	if !bytes.Equal(blocks[0], want) {
		t.Errorf("got % x\nwant % x", blocks[0], want)
	}
}

func TestSimpleLine(t *testing.T) {
	polylines := []svg.Polyline{
		{{X: 12.3, Y: 45.6}, {X: 14.3, Y: 47.6}},
	}
	blocks := Blocks(polylines, false)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	want := []byte{
		0xfa, 0x9f, 0xa1, // block start
		0xfa, 0x90, 0x01, // block number 1
		0xfa, 0x1f, 0xa1, // start drawing
		0xfa, 0x30, 0x00, // pen lift
		0x00, 0x00, 0x00, // move to 0,0
		0x07, 0xb3, 0x06, // move to 123,774
		0xfa, 0x40, 0x00, // pen down
		0x08, 0xf2, 0xf2, // move to 143,754
		0xfa, 0x30, 0x00, // pen lift
		0x00, 0x00, 0x00, // move to 0,0
		0xfa, 0x20, 0x00, // stop drawing
	}
	if !bytes.Equal(blocks[0], want) {
		t.Errorf("got % x\nwant % x", blocks[0], want)
	}
}

func TestOverflowClamped(t *testing.T) {
	polylines := []svg.Polyline{
		{{X: 400, Y: 45.6}, {X: 14.3, Y: 47.6}},
	}
	blocks := Blocks(polylines, false)
	cmds := commandStream(t, blocks)
	if got, want := cmds[3], MoveTo(Width*10, 774); got != want {
		t.Errorf("clamped move: got % x, want % x", got, want)
	}
}

func TestShortPolylinesSkipped(t *testing.T) {
	polylines := []svg.Polyline{
		{{X: 10, Y: 10}},
		{},
	}
	blocks := Blocks(polylines, false)
	if len(blocks) != 1 || len(blocks[0]) != 21 {
		t.Fatalf("got %d blocks of %d bytes, want the empty sketch", len(blocks), len(blocks[0]))
	}
}

// longLine is a single polyline with the given number of points, kept
// well inside the board.
func longLine(points int) svg.Polyline {
	pl := make(svg.Polyline, points)
	for i := range pl {
		pl[i] = svg.CoordinatePair{X: float64(i%300) * 0.1, Y: 10}
	}
	return pl
}

func TestBlockSplitBoundary(t *testing.T) {
	// 247 points compile to 254 commands, filling one block exactly.
	blocks := Blocks([]svg.Polyline{longLine(247)}, false)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if len(blocks[0]) != BlockSize {
		t.Errorf("got block of %d bytes, want %d", len(blocks[0]), BlockSize)
	}

	// Two more points overflow into a second block.
	blocks = Blocks([]svg.Polyline{longLine(249)}, false)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if len(blocks[0]) != BlockSize || len(blocks[1]) != 12 {
		t.Errorf("got blocks of %d and %d bytes, want %d and 12", len(blocks[0]), len(blocks[1]), BlockSize)
	}
	for i, b := range blocks {
		num, _, err := decodeBlock(b)
		if err != nil {
			t.Fatal(err)
		}
		if num != i+1 {
			t.Errorf("block %d numbered %d", i, num)
		}
	}
}

func TestBlockInvariants(t *testing.T) {
	sketches := [][]svg.Polyline{
		nil,
		{{{X: 12.3, Y: 45.6}, {X: 14.3, Y: 47.6}}},
		{longLine(247)},
		{longLine(1000), longLine(3), {{X: 5, Y: 5}}},
	}
	for _, polylines := range sketches {
		for _, erase := range []bool{false, true} {
			blocks := Blocks(polylines, erase)
			var stream []Command
			for i, b := range blocks {
				if len(b) < blockHeader || len(b) > BlockSize {
					t.Fatalf("block %d is %d bytes", i, len(b))
				}
				if (len(b)-blockHeader)%3 != 0 {
					t.Fatalf("block %d body of %d bytes not command aligned", i, len(b)-blockHeader)
				}
				num, cmds, err := decodeBlock(b)
				if err != nil {
					t.Fatal(err)
				}
				if num != i+1 {
					t.Fatalf("block %d numbered %d", i, num)
				}
				stream = append(stream, cmds...)
			}
			if stream[0] != StartDrawing() {
				t.Errorf("stream starts with % x", stream[0])
			}
			last := len(stream) - 1
			if stream[last] != StopDrawing() || stream[last-1] != MoveTo(0, 0) {
				t.Errorf("stream ends with % x % x", stream[last-1], stream[last])
			}
			for _, c := range stream {
				if c[0] == 0xfa {
					continue
				}
				x := int(c[0])<<4 | int(c[1])>>4
				y := int(c[1]&0x0f)<<8 | int(c[2])
				if x > Width*10 || y > Height*10 {
					t.Errorf("move to (%d, %d) outside the board", x, y)
				}
			}
		}
	}
}

func TestEraseSweep(t *testing.T) {
	blocks := Blocks(nil, true)
	cmds := commandStream(t, blocks)
	want := []Command{StartDrawing(), PenLift(), MoveTo(0, Height*10), EnableEraser()}
	for i, c := range want {
		if cmds[i] != c {
			t.Fatalf("command %d is % x, want % x", i, cmds[i], c)
		}
	}
	tail := []Command{PenLift(), MoveTo(0, 0), MoveTo(0, 0), StopDrawing()}
	for i, c := range tail {
		got := cmds[len(cmds)-len(tail)+i]
		if got != c {
			t.Fatalf("trailing command %d is % x, want % x", i, got, c)
		}
	}
	// The sweep descends monotonically from the top edge to the
	// bottom, alternating between the side edges.
	y := Height * 10
	touchedBottom := false
	for _, c := range cmds[4 : len(cmds)-len(tail)] {
		x := int(c[0])<<4 | int(c[1])>>4
		cy := int(c[1]&0x0f)<<8 | int(c[2])
		if x != 0 && x != Width*10 {
			t.Fatalf("sweep moves to interior x %d", x)
		}
		if cy > y {
			t.Fatalf("sweep ascends from %d to %d", y, cy)
		}
		y = cy
		if cy == 0 {
			touchedBottom = true
		}
	}
	if !touchedBottom {
		t.Error("sweep never reaches the bottom edge")
	}
}

func commandStream(t *testing.T, blocks []Block) []Command {
	t.Helper()
	var stream []Command
	for _, b := range blocks {
		_, cmds, err := decodeBlock(b)
		if err != nil {
			t.Fatal(err)
		}
		stream = append(stream, cmds...)
	}
	return stream
}
