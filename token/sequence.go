package token

import "errors"

// ErrOutOfBounds is returned by the peek methods when the neighbor of the
// given index falls outside the sequence.
var ErrOutOfBounds = errors.New("token index out of bounds")

// Sequence is an ordered, append-only list of tokens.
type Sequence struct {
	tokens []Token
}

// NewSequence returns a sequence holding the given tokens.
func NewSequence(tokens ...Token) *Sequence {
	return &Sequence{tokens: tokens}
}

// Append adds a token to the end of the sequence.
func (s *Sequence) Append(tok Token) {
	s.tokens = append(s.tokens, tok)
}

// Len returns the number of tokens in the sequence.
func (s *Sequence) Len() int {
	return len(s.tokens)
}

// At returns the token at index i. It panics if i is out of range.
func (s *Sequence) At(i int) Token {
	return s.tokens[i]
}

// Tokens returns a copy of the tokens in the sequence.
func (s *Sequence) Tokens() []Token {
	out := make([]Token, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// PeekLeft returns the token immediately before index i.
func (s *Sequence) PeekLeft(i int) (Token, error) {
	if i <= 0 || i > len(s.tokens) {
		return Token{}, ErrOutOfBounds
	}
	return s.tokens[i-1], nil
}

// PeekRight returns the token immediately after index i.
func (s *Sequence) PeekRight(i int) (Token, error) {
	if i < -1 || i+1 >= len(s.tokens) {
		return Token{}, ErrOutOfBounds
	}
	return s.tokens[i+1], nil
}

// CountKind returns the number of tokens of the given kind.
func (s *Sequence) CountKind(k Kind) int {
	var n int
	for _, tok := range s.tokens {
		if tok.Kind == k {
			n++
		}
	}
	return n
}
