package token

import "fmt"

const (
	lineBits = 18
	colBits  = 32 - lineBits

	// MaxLines is the maximum 1-based line number value that can be encoded in
	// Pos.
	MaxLines = (1 << lineBits) - 1
	// MaxCols is the maximum 1-based column number value that can be encoded in
	// Pos.
	MaxCols = (1 << colBits) - 1

	lineMask = MaxLines
	colMask  = MaxCols
)

// Pos is an efficient encoding of a 1-based line and column position in a
// 32-bit unsigned integer. A value of 0 for either line or column should be
// interpreted as "unknown".
type Pos uint32

// MakePos creates a Pos value encoding the provided line and col. It is the
// caller's responsibility to ensure the values are > 0 and <= the maximum
// allowed.
func MakePos(line, col int) Pos {
	return Pos(col<<lineBits | line)
}

// LineCol returns the line and column values encoded in Pos.
func (p Pos) LineCol() (int, int) {
	l := p & lineMask
	c := (p >> lineBits) & colMask
	return int(l), int(c)
}

// Unknown returns true if either line or column value is unknown.
func (p Pos) Unknown() bool {
	l, c := p.LineCol()
	return l == 0 || c == 0
}

// IsValid returns true if the position is known.
func (p Pos) IsValid() bool { return !p.Unknown() }

// Add returns the position n columns after p on the same line. An unknown
// position stays unknown.
func (p Pos) Add(n int) Pos {
	if p.Unknown() {
		return p
	}
	l, c := p.LineCol()
	return MakePos(l, c+n)
}

// Before returns true if p is strictly before other. Unknown positions are
// never before anything.
func (p Pos) Before(other Pos) bool {
	if p.Unknown() || other.Unknown() {
		return false
	}
	l1, c1 := p.LineCol()
	l2, c2 := other.LineCol()
	return l1 < l2 || (l1 == l2 && c1 < c2)
}

// Position is a Pos resolved in a named file.
type Position struct {
	Filename string
	Line     int
	Col      int
}

// MakePosition returns the Position corresponding to pos in filename.
func MakePosition(filename string, pos Pos) Position {
	l, c := pos.LineCol()
	return Position{Filename: filename, Line: l, Col: c}
}

// String returns the position formatted as "file:line:col". Unknown line or
// column parts are omitted.
func (p Position) String() string {
	s := p.Filename
	if s == "" {
		s = "-"
	}
	if p.Line > 0 {
		s += fmt.Sprintf(":%d", p.Line)
		if p.Col > 0 {
			s += fmt.Sprintf(":%d", p.Col)
		}
	}
	return s
}
