package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenString(t *testing.T) {
	for tok := Token(0); tok <= maxToken; tok++ {
		if tok.String() == "" {
			t.Errorf("missing string representation of token %d", tok)
		}
	}
}

func TestLookupKw(t *testing.T) {
	cases := map[string]Token{
		"def":    DEF,
		"None":   NONE,
		"True":   TRUE,
		"while":  WHILE,
		"and":    AND,
		"none":   IDENT,
		"true":   IDENT,
		"define": IDENT,
	}
	for in, want := range cases {
		assert.Equal(t, want, LookupKw(in), in)
	}
}

func TestLookupPunct(t *testing.T) {
	assert.Equal(t, STARSTAREQ, LookupPunct("**="))
	assert.Equal(t, EQ, LookupPunct("="))
	assert.Equal(t, PLUS, LookupPunct("+"))
	assert.Equal(t, ILLEGAL, LookupPunct("!"))
}

func TestAugBinop(t *testing.T) {
	cases := []struct {
		in, want Token
	}{
		{PLUSEQ, PLUS},
		{MINUSEQ, MINUS},
		{STAREQ, STAR},
		{SLASHEQ, SLASH},
		{SLASHSLASHEQ, SLASHSLASH},
		{PERCENTEQ, PERCENT},
		{STARSTAREQ, STARSTAR},
		{EQ, ILLEGAL},
		{PLUS, ILLEGAL},
	}
	for _, c := range cases {
		t.Run(c.in.String(), func(t *testing.T) {
			assert.Equal(t, c.want, c.in.AugBinop())
		})
	}
}
