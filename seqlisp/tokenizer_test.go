package seqlisp

import (
	"strings"
	"testing"
)

func tokenize(t *testing.T, src string) []*Token {
	t.Helper()
	tokenizer := NewTokenizer(strings.NewReader(src))
	var tokens []*Token
	for {
		tok, err := tokenizer.Current()
		if err != nil {
			t.Fatal(err)
		}
		tokenizer.Consume()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}

func TestTokenizer_Basic(t *testing.T) {
	tokens := tokenize(t, `(+ 1 2.5)`)
	kinds := []TokenKind{
		TokenOpenParen, TokenSymbol, TokenNumber, TokenNumber, TokenCloseParen, TokenEOF,
	}
	if len(tokens) != len(kinds) {
		t.Fatalf("expected %d tokens, got %d", len(kinds), len(tokens))
	}
	for i, kind := range kinds {
		if tokens[i].Kind != kind {
			t.Fatalf("token %d: expected %v, got %v", i, kind, tokens[i].Kind)
		}
	}
	if tokens[1].Text != "+" {
		t.Fatalf("expected +, got %q", tokens[1].Text)
	}
	if tokens[3].Num != 2.5 {
		t.Fatalf("expected 2.5, got %v", tokens[3].Num)
	}
}

func TestTokenizer_NegativeNumbers(t *testing.T) {
	tokens := tokenize(t, `-12 -.5 -x -`)
	if tokens[0].Kind != TokenNumber || tokens[0].Num != -12 {
		t.Fatalf("-12: %v %v", tokens[0].Kind, tokens[0].Num)
	}
	if tokens[1].Kind != TokenNumber || tokens[1].Num != -0.5 {
		t.Fatalf("-.5: %v %v", tokens[1].Kind, tokens[1].Num)
	}
	if tokens[2].Kind != TokenSymbol || tokens[2].Text != "-x" {
		t.Fatalf("-x should be a symbol: %v %q", tokens[2].Kind, tokens[2].Text)
	}
	if tokens[3].Kind != TokenSymbol || tokens[3].Text != "-" {
		t.Fatalf("bare - should be a symbol: %v %q", tokens[3].Kind, tokens[3].Text)
	}
}

func TestTokenizer_StringEscapes(t *testing.T) {
	tokens := tokenize(t, `"a\"b\\c\/d\ne\tf\rg"`)
	if tokens[0].Kind != TokenString {
		t.Fatalf("expected string, got %v", tokens[0].Kind)
	}
	want := "a\"b\\c/d\ne\tf\rg"
	if tokens[0].Text != want {
		t.Fatalf("expected %q, got %q", want, tokens[0].Text)
	}
}

func TestTokenizer_UnterminatedString(t *testing.T) {
	tokenizer := NewTokenizer(strings.NewReader(`"open`))
	_, err := tokenizer.Current()
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestTokenizer_SymbolTerminators(t *testing.T) {
	tokens := tokenize(t, `foo(bar)baz}qux`)
	texts := []string{"foo", "(", "bar", ")", "baz", "}", "qux"}
	for i, text := range texts {
		if tokens[i].Text != text {
			t.Fatalf("token %d: expected %q, got %q", i, text, tokens[i].Text)
		}
	}
}

func TestTokenizer_ObjectTokens(t *testing.T) {
	tokens := tokenize(t, `{ stepNumber 0 ... step }`)
	kinds := []TokenKind{
		TokenOpenBrace, TokenSymbol, TokenNumber, TokenSymbol, TokenSymbol, TokenCloseBrace, TokenEOF,
	}
	for i, kind := range kinds {
		if tokens[i].Kind != kind {
			t.Fatalf("token %d: expected %v, got %v", i, kind, tokens[i].Kind)
		}
	}
	if tokens[3].Text != "..." {
		t.Fatalf("expected spread symbol, got %q", tokens[3].Text)
	}
}

func TestTokenizer_Positions(t *testing.T) {
	tokens := tokenize(t, "a\n  b")
	if tokens[0].Pos.Line != 1 || tokens[0].Pos.Column != 1 {
		t.Fatalf("a at %v", tokens[0].Pos)
	}
	if tokens[1].Pos.Line != 2 || tokens[1].Pos.Column != 3 {
		t.Fatalf("b at %v", tokens[1].Pos)
	}
}
