package compiler

import "testing"

func TestLexKeywordsAndIdentifiers(t *testing.T) {
	toks, err := Lex("SELECT * FROM users")
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		kind   TokenKind
		lexeme string
	}{
		{Keyword, "SELECT"},
		{Operator, "*"},
		{Keyword, "FROM"},
		{Identifier, "users"},
		{End, ""},
	}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(toks), toks)
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Lexeme != w.lexeme {
			t.Fatalf("token %d: expected %+v, got %+v", i, w, toks[i])
		}
	}
}

func TestLexStringLiteral(t *testing.T) {
	toks, err := Lex("'alice'")
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Kind != String || toks[0].Lexeme != "alice" {
		t.Fatalf("expected unquoted string token, got %+v", toks[0])
	}
}

func TestLexNumber(t *testing.T) {
	toks, err := Lex("42 3.14")
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Lexeme != "42" || toks[1].Lexeme != "3.14" {
		t.Fatalf("unexpected numeric tokens: %+v", toks[:2])
	}
}

func TestLexOperators(t *testing.T) {
	cases := map[string]string{
		"=": "=", "<>": "<>", "!=": "!=", "<=": "<=", ">=": ">=", "<": "<", ">": ">",
	}
	for src, want := range cases {
		toks, err := Lex("a " + src + " b")
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		if toks[1].Lexeme != want {
			t.Fatalf("src %q: expected operator %q, got %q", src, want, toks[1].Lexeme)
		}
	}
}

func TestLexStripsComments(t *testing.T) {
	toks, err := Lex("SELECT * FROM t -- trailing comment\n/* block\ncomment */ WHERE id = 1")
	if err != nil {
		t.Fatal(err)
	}
	var lexemes []string
	for _, tok := range toks {
		if tok.Kind != End {
			lexemes = append(lexemes, tok.Lexeme)
		}
	}
	want := []string{"SELECT", "*", "FROM", "t", "WHERE", "id", "=", "1"}
	if len(lexemes) != len(want) {
		t.Fatalf("expected %v, got %v", want, lexemes)
	}
	for i := range want {
		if lexemes[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, lexemes)
		}
	}
}

func TestLexUnrecognizedCharacter(t *testing.T) {
	_, err := Lex("SELECT # FROM t")
	if err == nil {
		t.Fatal("expected lex error")
	}
	if _, ok := err.(*ErrLex); !ok {
		t.Fatalf("expected *ErrLex, got %T", err)
	}
}

func TestLexEndTokenPosition(t *testing.T) {
	toks, err := Lex("DROP TABLE t")
	if err != nil {
		t.Fatal(err)
	}
	last := toks[len(toks)-1]
	if last.Kind != End {
		t.Fatal("expected final token to be End")
	}
	if last.Pos != len("DROP TABLE t") {
		t.Fatalf("expected End position %d, got %d", len("DROP TABLE t"), last.Pos)
	}
}
