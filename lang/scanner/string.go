package scanner

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// comment consumes a '#' comment up to the end of the line, without the
// newline.
func (s *Scanner) comment() (lit, val string) {
	// '#' opening already consumed, hence the -1
	startOff := s.off - 1
	for s.cur != '\n' && s.cur != -1 {
		s.advance()
	}
	return string(s.src[startOff:s.off]), string(s.src[startOff+1 : s.off])
}

func (s *Scanner) shortString(opening rune) (lit, decoded string) {
	// '"' / "'" opening already consumed, hence the -1
	startOff, startLine, startCol := s.off-1, s.line, s.col-1
	s.sb.Reset()

	for {
		cur := s.cur
		if cur == '\n' || cur < 0 {
			s.error(startLine, startCol, "string literal not terminated")
			break
		}
		s.advance()
		if cur == opening {
			break
		}
		if cur == '\\' {
			s.escape()
			continue
		}
		s.sb.WriteRune(cur)
	}
	return string(s.src[startOff:s.off]), s.sb.String()
}

var simpleEscapes = [...]byte{
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
}

// escape parses an escape sequence. In case of a syntax error, it stops at
// the offending character (without consuming it). Otherwise it consumes and
// writes the value of the escape sequence. It expects the leading backslash
// to be consumed. An unknown escape sequence is kept verbatim, backslash
// included.
func (s *Scanner) escape() {
	// initial backslash already consumed, hence the -1
	startLine, startCol := s.line, s.col-1

	if cur := s.cur; s.advanceIf('a', 'b', 'f', 'n', 'r', 't', 'v', '\\', '"', '\'') {
		s.sb.WriteByte(simpleEscapes[cur])
		return
	}
	if s.advanceIf('\n') {
		// line continuation inside the string
		return
	}

	illegalOrIncomplete := func() {
		line, col := s.line, s.col
		msg := fmt.Sprintf("illegal character %#U in escape sequence", s.cur)
		if s.cur < 0 || s.cur == '\n' {
			msg = "escape sequence not terminated"
			line, col = startLine, startCol
		}
		s.error(line, col, msg)
	}

	var (
		ndigits int
		base    uint32
		rn      uint32
	)
	switch {
	case isOctal(s.cur):
		// \ooo - up to 3 octal digits
		for i := 0; i < 3 && isOctal(s.cur); i++ {
			rn = rn*8 + uint32(digitVal(s.cur))
			s.advance()
		}
		s.sb.WriteRune(rune(rn))
		return
	case s.advanceIf('x'):
		ndigits, base = 2, 16
	case s.advanceIf('u'):
		ndigits, base = 4, 16
	case s.advanceIf('U'):
		ndigits, base = 8, 16
	default:
		if s.cur < 0 {
			s.error(startLine, startCol, "escape sequence not terminated")
			return
		}
		s.sb.WriteByte('\\')
		return
	}

	for i := 0; i < ndigits; i++ {
		if !isHexadecimal(s.cur) {
			illegalOrIncomplete()
			return
		}
		rn = rn*base + uint32(digitVal(s.cur))
		s.advance()
	}
	if rn > unicode.MaxRune || (rn >= 0xD800 && rn < 0xE000) {
		s.error(startLine, startCol, "escape sequence is invalid Unicode code point")
		s.sb.WriteRune(utf8.RuneError)
		return
	}
	s.sb.WriteRune(rune(rn))
}

func isOctal(rn rune) bool {
	return '0' <= rn && rn <= '7'
}

func digitVal(rn rune) int {
	switch {
	case '0' <= rn && rn <= '9':
		return int(rn - '0')
	case 'a' <= rn && rn <= 'f':
		return int(rn - 'a' + 10)
	case 'A' <= rn && rn <= 'F':
		return int(rn - 'A' + 10)
	}
	return 16 // larger than any legal digit val
}
