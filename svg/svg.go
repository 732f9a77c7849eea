// package svg converts a subset of SVG documents into polylines.
//
// The supported drawable elements are path, polyline, polygon and
// line. Curves are flattened into line segments. Coordinates are
// taken as user units with y growing downward; transform attributes
// are not applied.
package svg

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// A CoordinatePair is a point in user units (millimeters).
type CoordinatePair struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// A Polyline is an ordered point list interpreted as a single pen
// stroke.
type Polyline []CoordinatePair

// flattenSteps is the number of segments a Bézier curve is flattened
// into.
const flattenSteps = 16

// Parse extracts the drawable elements of an SVG document as
// polylines.
func Parse(r io.Reader) ([]Polyline, error) {
	dec := xml.NewDecoder(r)
	var polylines []Polyline
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("svg: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "path":
			pls, err := parsePath(attr(start, "d"))
			if err != nil {
				return nil, err
			}
			polylines = append(polylines, pls...)
		case "polyline", "polygon":
			pl, err := parsePoints(attr(start, "points"))
			if err != nil {
				return nil, err
			}
			if start.Name.Local == "polygon" && len(pl) > 1 {
				pl = append(pl, pl[0])
			}
			if len(pl) > 0 {
				polylines = append(polylines, pl)
			}
		case "line":
			pl, err := parseLine(start)
			if err != nil {
				return nil, err
			}
			polylines = append(polylines, pl)
		}
	}
	return polylines, nil
}

func attr(e xml.StartElement, name string) string {
	for _, a := range e.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func parseLine(e xml.StartElement) (Polyline, error) {
	coord := func(name string) (float64, error) {
		v := strings.TrimSpace(attr(e, name))
		if v == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("svg: line attribute %s: %w", name, err)
		}
		return f, nil
	}
	var pl Polyline
	for _, names := range [][2]string{{"x1", "y1"}, {"x2", "y2"}} {
		x, err := coord(names[0])
		if err != nil {
			return nil, err
		}
		y, err := coord(names[1])
		if err != nil {
			return nil, err
		}
		pl = append(pl, CoordinatePair{X: x, Y: y})
	}
	return pl, nil
}

func parsePoints(points string) (Polyline, error) {
	sc := &pathScanner{s: points}
	var pl Polyline
	for !sc.done() {
		pt, err := sc.pair()
		if err != nil {
			return nil, err
		}
		pl = append(pl, pt)
	}
	return pl, nil
}

// parsePath converts SVG path data into polylines, one per subpath.
// Supported commands: M/m, L/l, H/h, V/v, C/c, Q/q and Z/z, with the
// usual implicit repetition.
func parsePath(d string) ([]Polyline, error) {
	sc := &pathScanner{s: d}
	var (
		polylines []Polyline
		cur       Polyline
		pos       CoordinatePair
		first     CoordinatePair
		cmd       byte
	)
	flush := func() {
		if len(cur) > 0 {
			polylines = append(polylines, cur)
			cur = nil
		}
	}
	lineTo := func(pt CoordinatePair) {
		if len(cur) == 0 {
			cur = Polyline{pos}
		}
		cur = append(cur, pt)
		pos = pt
	}
	for !sc.done() {
		if c, ok := sc.command(); ok {
			cmd = c
		} else if cmd == 0 {
			return nil, fmt.Errorf("svg: path data does not start with a command")
		} else if cmd == 'Z' || cmd == 'z' {
			return nil, fmt.Errorf("svg: coordinates after a close command")
		}
		rel := cmd >= 'a'
		switch cmd {
		case 'M', 'm':
			pt, err := sc.pair()
			if err != nil {
				return nil, err
			}
			if rel {
				pt = add(pt, pos)
			}
			flush()
			pos, first = pt, pt
			cur = Polyline{pt}
			// Further coordinates are implicit line commands.
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'L', 'l':
			pt, err := sc.pair()
			if err != nil {
				return nil, err
			}
			if rel {
				pt = add(pt, pos)
			}
			lineTo(pt)
		case 'H', 'h':
			x, err := sc.number()
			if err != nil {
				return nil, err
			}
			if rel {
				x += pos.X
			}
			lineTo(CoordinatePair{X: x, Y: pos.Y})
		case 'V', 'v':
			y, err := sc.number()
			if err != nil {
				return nil, err
			}
			if rel {
				y += pos.Y
			}
			lineTo(CoordinatePair{X: pos.X, Y: y})
		case 'C', 'c':
			var pts [3]CoordinatePair
			for i := range pts {
				pt, err := sc.pair()
				if err != nil {
					return nil, err
				}
				if rel {
					pt = add(pt, pos)
				}
				pts[i] = pt
			}
			p0 := pos
			for i := 1; i <= flattenSteps; i++ {
				t := float64(i) / flattenSteps
				lineTo(cubicAt(p0, pts[0], pts[1], pts[2], t))
			}
		case 'Q', 'q':
			var pts [2]CoordinatePair
			for i := range pts {
				pt, err := sc.pair()
				if err != nil {
					return nil, err
				}
				if rel {
					pt = add(pt, pos)
				}
				pts[i] = pt
			}
			p0 := pos
			for i := 1; i <= flattenSteps; i++ {
				t := float64(i) / flattenSteps
				lineTo(quadraticAt(p0, pts[0], pts[1], t))
			}
		case 'Z', 'z':
			if len(cur) > 0 {
				lineTo(first)
				flush()
			}
			pos = first
		default:
			return nil, fmt.Errorf("svg: unsupported path command %q", string(cmd))
		}
	}
	flush()
	return polylines, nil
}

func add(a, b CoordinatePair) CoordinatePair {
	return CoordinatePair{X: a.X + b.X, Y: a.Y + b.Y}
}

func cubicAt(p0, c1, c2, p1 CoordinatePair, t float64) CoordinatePair {
	mt := 1 - t
	return CoordinatePair{
		X: mt*mt*mt*p0.X + 3*mt*mt*t*c1.X + 3*mt*t*t*c2.X + t*t*t*p1.X,
		Y: mt*mt*mt*p0.Y + 3*mt*mt*t*c1.Y + 3*mt*t*t*c2.Y + t*t*t*p1.Y,
	}
}

func quadraticAt(p0, c, p1 CoordinatePair, t float64) CoordinatePair {
	mt := 1 - t
	return CoordinatePair{
		X: mt*mt*p0.X + 2*mt*t*c.X + t*t*p1.X,
		Y: mt*mt*p0.Y + 2*mt*t*c.Y + t*t*p1.Y,
	}
}

// pathScanner tokenizes path data: command letters and numbers
// separated by whitespace or commas.
type pathScanner struct {
	s string
	i int
}

func (p *pathScanner) skip() {
	for p.i < len(p.s) {
		switch p.s[p.i] {
		case ' ', '\t', '\n', '\r', ',':
			p.i++
		default:
			return
		}
	}
}

func (p *pathScanner) done() bool {
	p.skip()
	return p.i >= len(p.s)
}

func (p *pathScanner) command() (byte, bool) {
	p.skip()
	if p.i < len(p.s) {
		c := p.s[p.i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			p.i++
			return c, true
		}
	}
	return 0, false
}

func (p *pathScanner) number() (float64, error) {
	p.skip()
	start := p.i
	digits := func() {
		for p.i < len(p.s) && p.s[p.i] >= '0' && p.s[p.i] <= '9' {
			p.i++
		}
	}
	if p.i < len(p.s) && (p.s[p.i] == '+' || p.s[p.i] == '-') {
		p.i++
	}
	digits()
	if p.i < len(p.s) && p.s[p.i] == '.' {
		p.i++
		digits()
	}
	if p.i < len(p.s) && (p.s[p.i] == 'e' || p.s[p.i] == 'E') {
		p.i++
		if p.i < len(p.s) && (p.s[p.i] == '+' || p.s[p.i] == '-') {
			p.i++
		}
		digits()
	}
	if p.i == start {
		return 0, fmt.Errorf("svg: malformed number at offset %d in %q", p.i, p.s)
	}
	f, err := strconv.ParseFloat(p.s[start:p.i], 64)
	if err != nil {
		return 0, fmt.Errorf("svg: malformed number %q: %w", p.s[start:p.i], err)
	}
	return f, nil
}

func (p *pathScanner) pair() (CoordinatePair, error) {
	x, err := p.number()
	if err != nil {
		return CoordinatePair{}, err
	}
	y, err := p.number()
	if err != nil {
		return CoordinatePair{}, err
	}
	return CoordinatePair{X: x, Y: y}, nil
}
