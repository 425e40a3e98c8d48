package svgpath

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
)

// SyntaxError describes malformed path or points data.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("svgpath: offset %d: %s", e.Offset, e.Msg)
}

type scanner struct {
	s   string
	pos int
}

func (sc *scanner) errorf(offset int, format string, args ...interface{}) error {
	return &SyntaxError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func (sc *scanner) skip() {
	for sc.pos < len(sc.s) {
		switch sc.s[sc.pos] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			sc.pos++
		default:
			return
		}
	}
}

func (sc *scanner) done() bool {
	sc.skip()
	return sc.pos >= len(sc.s)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// numberNext reports whether the next token starts a number.
func (sc *scanner) numberNext() bool {
	sc.skip()
	if sc.pos >= len(sc.s) {
		return false
	}
	c := sc.s[sc.pos]
	return c == '+' || c == '-' || c == '.' || isDigit(c)
}

func (sc *scanner) number() (float64, error) {
	sc.skip()
	start, i := sc.pos, sc.pos
	if i < len(sc.s) && (sc.s[i] == '+' || sc.s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(sc.s) && isDigit(sc.s[i]) {
		i++
		digits++
	}
	if i < len(sc.s) && sc.s[i] == '.' {
		i++
		for i < len(sc.s) && isDigit(sc.s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, sc.errorf(start, "expected number")
	}
	if i < len(sc.s) && (sc.s[i] == 'e' || sc.s[i] == 'E') {
		j := i + 1
		if j < len(sc.s) && (sc.s[j] == '+' || sc.s[j] == '-') {
			j++
		}
		if j < len(sc.s) && isDigit(sc.s[j]) {
			for j < len(sc.s) && isDigit(sc.s[j]) {
				j++
			}
			i = j
		}
	}
	v, err := strconv.ParseFloat(sc.s[start:i], 64)
	if err != nil {
		return 0, sc.errorf(start, "bad number %q", sc.s[start:i])
	}
	sc.pos = i
	return v, nil
}

// flag reads an arc flag, which may be packed against the next token.
func (sc *scanner) flag() (bool, error) {
	sc.skip()
	if sc.pos < len(sc.s) {
		switch sc.s[sc.pos] {
		case '0':
			sc.pos++
			return false, nil
		case '1':
			sc.pos++
			return true, nil
		}
	}
	return false, sc.errorf(sc.pos, "expected arc flag")
}

func isCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'Z', 'z', 'L', 'l', 'H', 'h', 'V', 'v',
		'C', 'c', 'S', 's', 'Q', 'q', 'T', 't', 'A', 'a':
		return true
	}
	return false
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// controlPoints is the number of control coordinate pairs preceding the
// endpoint of each curve command.
var controlPoints = map[byte]int{'C': 2, 'S': 1, 'Q': 1, 'T': 0}

type parser struct {
	sc    *scanner
	path  Path
	cur   orb.Point
	start orb.Point
	prev  byte
}

// Parse reads SVG path data (the d attribute) into segments. A closepath
// adds a closing line only when the current point is away from the subpath
// start; an arc with a zero radius is reported as a line.
func Parse(d string) (Path, error) {
	p := &parser{sc: &scanner{s: d}}
	for !p.sc.done() {
		at := p.sc.pos
		c := p.sc.s[at]
		if !isCommand(c) {
			return nil, p.sc.errorf(at, "expected command, got %q", c)
		}
		if p.prev == 0 && upper(c) != 'M' {
			return nil, p.sc.errorf(at, "path data must begin with a moveto")
		}
		p.sc.pos++
		if upper(c) == 'Z' {
			p.closePath()
			continue
		}
		for first := true; first || p.sc.numberNext(); first = false {
			if err := p.apply(c, first); err != nil {
				return nil, err
			}
		}
	}
	return p.path, nil
}

func (p *parser) point(rel bool) (orb.Point, error) {
	x, err := p.sc.number()
	if err != nil {
		return orb.Point{}, err
	}
	y, err := p.sc.number()
	if err != nil {
		return orb.Point{}, err
	}
	if rel {
		return orb.Point{p.cur[0] + x, p.cur[1] + y}, nil
	}
	return orb.Point{x, y}, nil
}

func (p *parser) emit(kind Kind, end orb.Point) {
	p.path = append(p.path, Segment{Kind: kind, Start: p.cur, End: end})
	p.cur = end
}

func (p *parser) closePath() {
	if p.cur != p.start {
		p.emit(Line, p.start)
	}
	p.prev = 'Z'
}

func (p *parser) apply(c byte, first bool) error {
	rel := c >= 'a'
	cmd := upper(c)
	switch cmd {
	case 'M':
		pt, err := p.point(rel)
		if err != nil {
			return err
		}
		if first {
			p.cur, p.start = pt, pt
		} else {
			// extra coordinate pairs after a moveto are implicit linetos
			p.emit(Line, pt)
			cmd = 'L'
		}
	case 'L':
		pt, err := p.point(rel)
		if err != nil {
			return err
		}
		p.emit(Line, pt)
	case 'H':
		x, err := p.sc.number()
		if err != nil {
			return err
		}
		if rel {
			x += p.cur[0]
		}
		p.emit(Line, orb.Point{x, p.cur[1]})
	case 'V':
		y, err := p.sc.number()
		if err != nil {
			return err
		}
		if rel {
			y += p.cur[1]
		}
		p.emit(Line, orb.Point{p.cur[0], y})
	case 'C', 'S', 'Q', 'T':
		for i := 0; i < controlPoints[cmd]; i++ {
			if _, err := p.point(rel); err != nil {
				return err
			}
		}
		end, err := p.point(rel)
		if err != nil {
			return err
		}
		if cmd == 'C' || cmd == 'S' {
			p.emit(CubicBezier, end)
		} else {
			p.emit(QuadraticBezier, end)
		}
	case 'A':
		rx, err := p.sc.number()
		if err != nil {
			return err
		}
		ry, err := p.sc.number()
		if err != nil {
			return err
		}
		if _, err := p.sc.number(); err != nil {
			return err
		}
		if _, err := p.sc.flag(); err != nil {
			return err
		}
		if _, err := p.sc.flag(); err != nil {
			return err
		}
		end, err := p.point(rel)
		if err != nil {
			return err
		}
		if rx == 0 || ry == 0 {
			p.emit(Line, end)
		} else {
			p.emit(Arc, end)
		}
	}
	p.prev = cmd
	return nil
}
