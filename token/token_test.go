package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupKeyword(t *testing.T) {
	kind, ok := LookupKeyword("push")
	require.True(t, ok)
	require.Equal(t, PUSH, kind)

	kind, ok = LookupKeyword("printchar")
	require.True(t, ok)
	require.Equal(t, PRINTCHAR, kind)

	for _, word := range []string{"Push", "pus", "pushx", "loop", ""} {
		_, ok := LookupKeyword(word)
		require.False(t, ok, word)
	}
	require.Len(t, Keywords(), 17)
}

func TestLookupOperator(t *testing.T) {
	tests := map[rune]Kind{'+': ADD, '-': SUB, '*': IMUL, '/': IDIV, '%': MOD}
	for r, expected := range tests {
		kind, ok := LookupOperator(r)
		require.True(t, ok)
		require.Equal(t, expected, kind)
	}
	_, ok := LookupOperator('$')
	require.False(t, ok)
}

func TestKind(t *testing.T) {
	require.Equal(t, "PUSH", PUSH.String())
	require.Equal(t, "Kind(99)", Kind(99).String())
	require.Equal(t, "integer literal", INT.Describe())
	require.Equal(t, "identifier", IDENT.Describe())
	require.Equal(t, "instruction", JMP.Describe())

	require.True(t, ADD.IsInstruction())
	require.True(t, PRINTCHAR.IsInstruction())
	require.False(t, INT.IsInstruction())
	require.False(t, IDENT.IsInstruction())
	require.False(t, EOL.IsInstruction())
}

func TestTokenString(t *testing.T) {
	require.Equal(t, "integer 42", Token{Kind: INT, Int: 42, Literal: "42"}.String())
	require.Equal(t, `identifier "loop"`, Token{Kind: IDENT, Literal: "loop"}.String())
	require.Equal(t, "end of line", Token{Kind: EOL, Literal: "\n"}.String())
	require.Equal(t, `instruction "+"`, Token{Kind: ADD, Literal: "+"}.String())
}

func TestPosition(t *testing.T) {
	require.False(t, NoPos.IsValid())
	p := Position{Line: 3, Column: 7, Index: 2}
	require.True(t, p.IsValid())
	require.Equal(t, "3:7", p.String())
}

func TestSequencePeek(t *testing.T) {
	push := Token{Kind: PUSH, Literal: "push"}
	one := Token{Kind: INT, Int: 1, Literal: "1"}
	add := Token{Kind: ADD, Literal: "add"}
	seq := NewSequence(push, one)
	seq.Append(add)
	require.Equal(t, 3, seq.Len())

	_, err := seq.PeekLeft(0)
	require.ErrorIs(t, err, ErrOutOfBounds)
	tok, err := seq.PeekLeft(1)
	require.NoError(t, err)
	require.Equal(t, push, tok)

	tok, err = seq.PeekRight(0)
	require.NoError(t, err)
	require.Equal(t, one, tok)
	tok, err = seq.PeekRight(1)
	require.NoError(t, err)
	require.Equal(t, add, tok)
	_, err = seq.PeekRight(2)
	require.ErrorIs(t, err, ErrOutOfBounds)

	require.Equal(t, 1, seq.CountKind(INT))
	tokens := seq.Tokens()
	tokens[0] = add
	require.Equal(t, push, seq.At(0))
}

func TestEmptySequencePeek(t *testing.T) {
	seq := NewSequence()
	_, err := seq.PeekRight(0)
	require.ErrorIs(t, err, ErrOutOfBounds)
	_, err = seq.PeekLeft(0)
	require.ErrorIs(t, err, ErrOutOfBounds)
}
