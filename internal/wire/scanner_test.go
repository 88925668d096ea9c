package wire

import (
	"bytes"
	"reflect"
	"testing"
)

func readAll(t *testing.T, input string) []Token {
	t.Helper()
	toks, rest, err := ReadLine([]byte(input))
	if err != nil {
		t.Fatalf("ReadLine(%q): %v", input, err)
	}
	if len(rest) != 0 {
		t.Fatalf("ReadLine(%q): %d bytes left over", input, len(rest))
	}
	return toks
}

func TestReadLine(t *testing.T) {
	tests := []struct {
		input string
		want  []Token
	}{
		{
			input: "* OK Ready\r\n",
			want: []Token{
				{Kind: TokenStar},
				{Kind: TokenAtom, Str: "OK"},
				{Kind: TokenAtom, Str: "Ready"},
				{Kind: TokenCRLF},
			},
		},
		{
			input: "A0001 OK [READ-WRITE] SELECT completed\r\n",
			want: []Token{
				{Kind: TokenAtom, Str: "A0001"},
				{Kind: TokenAtom, Str: "OK"},
				{Kind: TokenLBracket},
				{Kind: TokenAtom, Str: "READ-WRITE"},
				{Kind: TokenRBracket},
				{Kind: TokenAtom, Str: "SELECT"},
				{Kind: TokenAtom, Str: "completed"},
				{Kind: TokenCRLF},
			},
		},
		{
			input: "* FLAGS (\\Answered \\Seen)\r\n",
			want: []Token{
				{Kind: TokenStar},
				{Kind: TokenAtom, Str: "FLAGS"},
				{Kind: TokenLParen},
				{Kind: TokenFlag, Str: "Answered"},
				{Kind: TokenFlag, Str: "Seen"},
				{Kind: TokenRParen},
				{Kind: TokenCRLF},
			},
		},
		{
			input: "* 172 EXISTS\r\n",
			want: []Token{
				{Kind: TokenStar},
				{Kind: TokenNumber, Num: 172, Str: "172"},
				{Kind: TokenAtom, Str: "EXISTS"},
				{Kind: TokenCRLF},
			},
		},
		{
			input: "+ \r\n",
			want: []Token{
				{Kind: TokenPlus},
				{Kind: TokenCRLF},
			},
		},
		{
			input: "* LIST () \"/\" \"lp \\\"war\\\"\"\r\n",
			want: []Token{
				{Kind: TokenStar},
				{Kind: TokenAtom, Str: "LIST"},
				{Kind: TokenLParen},
				{Kind: TokenRParen},
				{Kind: TokenQuoted, Str: "/"},
				{Kind: TokenQuoted, Str: `lp "war"`},
				{Kind: TokenCRLF},
			},
		},
		{
			// A literal may contain CRLF.
			input: "* 1 FETCH (BODY[] {12}\r\nHello\r\nWorld)\r\n",
			want: []Token{
				{Kind: TokenStar},
				{Kind: TokenNumber, Num: 1, Str: "1"},
				{Kind: TokenAtom, Str: "FETCH"},
				{Kind: TokenLParen},
				{Kind: TokenAtom, Str: "BODY"},
				{Kind: TokenLBracket},
				{Kind: TokenRBracket},
				{Kind: TokenLiteral, Bytes: []byte("Hello\r\nWorld")},
				{Kind: TokenRParen},
				{Kind: TokenCRLF},
			},
		},
		{
			input: "* SEARCH NIL \\* {3+}\r\nabc\r\n",
			want: []Token{
				{Kind: TokenStar},
				{Kind: TokenAtom, Str: "SEARCH"},
				{Kind: TokenNIL},
				{Kind: TokenFlag, Str: "*"},
				{Kind: TokenLiteral, Bytes: []byte("abc")},
				{Kind: TokenCRLF},
			},
		},
		{
			// A digit run lexes as a number, the tail as an atom.
			input: "* ESEARCH COUNT 2 ALL 304,319:320\r\n",
			want: []Token{
				{Kind: TokenStar},
				{Kind: TokenAtom, Str: "ESEARCH"},
				{Kind: TokenAtom, Str: "COUNT"},
				{Kind: TokenNumber, Num: 2, Str: "2"},
				{Kind: TokenAtom, Str: "ALL"},
				{Kind: TokenNumber, Num: 304, Str: "304"},
				{Kind: TokenAtom, Str: ",319:320"},
				{Kind: TokenCRLF},
			},
		},
	}

	for _, test := range tests {
		got := readAll(t, test.input)
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("ReadLine(%q) =\n%v\nwant\n%v", test.input, got, test.want)
		}
	}
}

func TestReadLineMultiple(t *testing.T) {
	buf := []byte("* 3 EXISTS\r\n* 1 EXPUNGE\r\n")
	toks, rest, err := ReadLine(buf)
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if got := len(toks); got != 4 {
		t.Errorf("first line: got %d tokens, want 4", got)
	}
	if string(rest) != "* 1 EXPUNGE\r\n" {
		t.Errorf("rest = %q", rest)
	}
	toks, rest, err = ReadLine(rest)
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if len(rest) != 0 {
		t.Errorf("second rest = %q", rest)
	}
	if toks[1].Num != 1 {
		t.Errorf("expunge num = %v", toks[1].Num)
	}
}

// TestReadLineRestartable feeds a response byte by byte and checks that the
// final result matches tokenizing the whole buffer at once.
func TestReadLineRestartable(t *testing.T) {
	inputs := []string{
		"A0001 OK LOGIN completed\r\n",
		"* 1 FETCH (BODY[] {11}\r\nHello World)\r\n",
		"* 1 FETCH (BODY[] {12}\r\nHello\r\nWorld UID 7)\r\n",
		"* LIST (\\Noselect) \"/\" Drafts\r\n",
	}
	for _, input := range inputs {
		want := readAll(t, input)

		var buf []byte
		var got []Token
		for i := 0; i < len(input); i++ {
			buf = append(buf, input[i])
			toks, rest, err := ReadLine(buf)
			if err == ErrIncomplete {
				if i == len(input)-1 {
					t.Fatalf("%q: still incomplete after all bytes", input)
				}
				continue
			}
			if err != nil {
				t.Fatalf("%q: ReadLine: %v", input, err)
			}
			if i != len(input)-1 {
				t.Fatalf("%q: complete after %d of %d bytes", input, i+1, len(input))
			}
			if len(rest) != 0 {
				t.Fatalf("%q: rest = %q", input, rest)
			}
			got = toks
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%q: incremental tokens =\n%v\nwant\n%v", input, got, want)
		}
	}
}

func TestReadLineIncomplete(t *testing.T) {
	inputs := []string{
		"",
		"* OK",
		"* OK Ready\r",
		"* 1 FETCH (BODY[] {11}\r\nHello",
		"* 1 FETCH (BODY[] {11",
		"\"unterminated",
	}
	for _, input := range inputs {
		if _, _, err := ReadLine([]byte(input)); err != ErrIncomplete {
			t.Errorf("ReadLine(%q) = %v, want ErrIncomplete", input, err)
		}
	}
}

func TestReadLineMalformed(t *testing.T) {
	inputs := []string{
		"* OK Ready\n",
		"* OK Re\rady\r\n",
		"\"bad \\x escape\"\r\n",
		"{abc}\r\n",
		"\x01\r\n",
	}
	for _, input := range inputs {
		_, _, err := ReadLine([]byte(input))
		if _, ok := err.(*ProtocolError); !ok {
			t.Errorf("ReadLine(%q) = %v, want *ProtocolError", input, err)
		}
	}
}

func TestLiteralDoesNotAliasInput(t *testing.T) {
	buf := []byte("* 1 FETCH (BODY[] {5}\r\nhello)\r\n")
	toks, _, err := ReadLine(buf)
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	var lit []byte
	for _, tok := range toks {
		if tok.Kind == TokenLiteral {
			lit = tok.Bytes
		}
	}
	for i := range buf {
		buf[i] = 'x'
	}
	if !bytes.Equal(lit, []byte("hello")) {
		t.Errorf("literal changed after buffer reuse: %q", lit)
	}
}
