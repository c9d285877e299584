// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package lualex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func scanAll(t *testing.T, src string) ([]Token, error) {
	t.Helper()
	s := NewScanner(src)
	var toks []Token
	for {
		tok, err := s.Scan()
		if err != nil {
			return toks, err
		}
		if tok.Kind == EOFToken {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

func lexemes(src string, toks []Token) []string {
	out := make([]string, len(toks))
	for i, tok := range toks {
		out[i] = src[tok.Start:tok.End]
	}
	return out
}

func TestScanner(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
		bad  bool
	}{
		{name: "empty", src: "", want: nil},
		{name: "identifier", src: "foo", want: []string{"foo"}},
		{name: "whitespacePadded", src: "  foo  ", want: []string{"foo"}},
		{name: "integer", src: "345", want: []string{"345"}},
		{name: "hex", src: "0xff", want: []string{"0xff"}},
		{name: "float", src: "3.14", want: []string{"3.14"}},
		{name: "leadingDotFloat", src: ".5", want: []string{".5"}},
		{name: "hexExponentMinus", src: "0x12e-4", want: []string{"0x12e", "-", "4"}},
		{name: "shortString", src: `"abc\"def"`, want: []string{`"abc\"def"`}},
		{name: "longString", src: "[==[abc]]==]", want: []string{"[==[abc]]==]"}},
		{
			name: "operators",
			src:  "a//b..c...d~=e<=f>=g::h::",
			want: []string{"a", "//", "b", "..", "c", "...", "d", "~=", "e", "<=", "f", ">=", "g", "::", "h", "::"},
		},
		{
			name: "commentSkipped",
			src:  "a --[[ long comment ]] b",
			want: []string{"a", "b"},
		},
		{
			name: "lineCommentSkipped",
			src:  "a -- trailing\nb",
			want: []string{"a", "b"},
		},
		{name: "unterminatedString", src: `"abc`, bad: true},
		{name: "badSymbol", src: "a $ b", bad: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			toks, err := scanAll(t, test.src)
			if test.bad {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatal("Scan:", err)
			}
			got := lexemes(test.src, toks)
			if diff := cmp.Diff(test.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("lexemes (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScannerOffsets(t *testing.T) {
	const src = "for a=1,   4do print  (1,4)end"
	toks, err := scanAll(t, src)
	if err != nil {
		t.Fatal("Scan:", err)
	}
	for i := 1; i < len(toks); i++ {
		if toks[i].Start < toks[i-1].End {
			t.Fatalf("token %d overlaps token %d", i, i-1)
		}
	}
	if toks[0].Start != 0 {
		t.Errorf("first token starts at %d, want 0", toks[0].Start)
	}
	last := toks[len(toks)-1]
	if last.End != len(src) {
		t.Errorf("last token ends at %d, want %d", last.End, len(src))
	}
}
