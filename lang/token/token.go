package token

import "strconv"

// A Token represents a lexical token.
type Token int8

//nolint:revive
const (
	ILLEGAL Token = iota
	EOF

	// Layout tokens synthesized from line structure
	NEWLINE // end of logical line
	INDENT  // increase of indentation
	DEDENT  // decrease of indentation

	// Tokens with values
	COMMENT // # code comment
	IDENT   // x
	INT     // 123
	FLOAT   // 1.23e45
	STRING  // "foo" or 'foo'

	// Punctuation

	// binary operators
	PLUS       // +
	MINUS      // -
	STAR       // *
	SLASH      // /
	SLASHSLASH // //
	PERCENT    // %
	STARSTAR   // **

	// augmented binary operators - order must match binary operators
	PLUSEQ       // +=
	MINUSEQ      // -=
	STAREQ       // *=
	SLASHEQ      // /=
	SLASHSLASHEQ // //=
	PERCENTEQ    // %=
	STARSTAREQ   // **=

	// relational operators
	EQEQ   // ==
	BANGEQ // !=
	LT     // <
	GT     // >
	GE     // >=
	LE     // <=

	// punctuation
	SEMICOLON // ;
	COMMA     // ,
	LPAREN    // (
	RPAREN    // )
	COLON     // :
	DOT       // .
	EQ        // =

	// Keywords
	AND
	AS
	ASSERT
	BREAK
	CLASS
	CONTINUE
	DEF
	ELIF
	ELSE
	EXCEPT
	FALSE
	FOR
	IF
	IN
	IS
	NONE
	NOT
	OR
	PASS
	RAISE
	RETURN
	TRUE
	TRY
	WHILE

	maxToken             = WHILE
	litStart, litEnd     = COMMENT, STRING
	punctStart, punctEnd = PLUS, EQ
	kwStart, kwEnd       = AND, WHILE
)

func (tok Token) String() string { return tokenNames[tok] }

// GoString is like String but quotes punctuation tokens. Use Sprintf("%#v",
// tok) when constructing error messages.
func (tok Token) GoString() string {
	if tok >= punctStart && tok <= punctEnd {
		return "'" + tokenNames[tok] + "'"
	}
	return tokenNames[tok]
}

// IsAugBinop returns true if tok is an augmented assignment operator such as
// +=.
func (tok Token) IsAugBinop() bool {
	return tok >= PLUSEQ && tok <= STARSTAREQ
}

// AugBinop returns the binary operator corresponding to the augmented
// assignment operator tok, e.g. PLUS for PLUSEQ. It returns ILLEGAL if tok is
// not an augmented assignment operator.
func (tok Token) AugBinop() Token {
	if !tok.IsAugBinop() {
		return ILLEGAL
	}
	return tok - PLUSEQ + PLUS
}

var tokenNames = [...]string{
	ILLEGAL: "illegal token",
	EOF:     "end of file",

	NEWLINE: "newline",
	INDENT:  "indent",
	DEDENT:  "dedent",

	COMMENT: "comment",
	IDENT:   "identifier",
	INT:     "int literal",
	FLOAT:   "float literal",
	STRING:  "string literal",

	PLUS:       "+",
	MINUS:      "-",
	STAR:       "*",
	SLASH:      "/",
	SLASHSLASH: "//",
	PERCENT:    "%",
	STARSTAR:   "**",

	PLUSEQ:       "+=",
	MINUSEQ:      "-=",
	STAREQ:       "*=",
	SLASHEQ:      "/=",
	SLASHSLASHEQ: "//=",
	PERCENTEQ:    "%=",
	STARSTAREQ:   "**=",

	EQEQ:   "==",
	BANGEQ: "!=",
	LT:     "<",
	GT:     ">",
	GE:     ">=",
	LE:     "<=",

	SEMICOLON: ";",
	COMMA:     ",",
	LPAREN:    "(",
	RPAREN:    ")",
	COLON:     ":",
	DOT:       ".",
	EQ:        "=",

	AND:      "and",
	AS:       "as",
	ASSERT:   "assert",
	BREAK:    "break",
	CLASS:    "class",
	CONTINUE: "continue",
	DEF:      "def",
	ELIF:     "elif",
	ELSE:     "else",
	EXCEPT:   "except",
	FALSE:    "False",
	FOR:      "for",
	IF:       "if",
	IN:       "in",
	IS:       "is",
	NONE:     "None",
	NOT:      "not",
	OR:       "or",
	PASS:     "pass",
	RAISE:    "raise",
	RETURN:   "return",
	TRUE:     "True",
	TRY:      "try",
	WHILE:    "while",
}

var (
	keywords = func() map[string]Token {
		kw := make(map[string]Token)
		for i := kwStart; i <= kwEnd; i++ {
			kw[tokenNames[i]] = i
		}
		return kw
	}()
	punctuations = func() map[string]Token {
		puncts := make(map[string]Token)
		for i := punctStart; i <= punctEnd; i++ {
			puncts[tokenNames[i]] = i
		}
		return puncts
	}()
)

// LookupKw maps an identifier to its keyword token or IDENT (if not a
// keyword).
func LookupKw(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// LookupPunct maps a punctuation to its token or ILLEGAL (if not a valid
// punctuation).
func LookupPunct(punct string) Token {
	if tok, ok := punctuations[punct]; ok {
		return tok
	}
	return ILLEGAL
}

// Value records the raw text, position and decoded value associated with
// each token.
type Value struct {
	Raw    string  // raw text of token
	Int    int64   // decoded int
	Float  float64 // decoded float
	String string  // decoded string or normalized identifier
	Pos    Pos     // start position of token
}

// Literal returns the string representation of the literal value of the token
// from its associated Value struct. If t is not a literal, it returns an empty
// string.
func (tok Token) Literal(v Value) string {
	switch tok {
	case IDENT:
		return v.String
	case STRING:
		return strconv.Quote(v.String)
	case COMMENT:
		return v.String
	case INT:
		return strconv.FormatInt(v.Int, 10)
	case FLOAT:
		return strconv.FormatFloat(v.Float, 'g', 10, 64)
	default:
		return ""
	}
}
