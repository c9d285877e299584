// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package luaparse

import "testing"

// TestParseChunkLeadingTriviaNotDuplicated guards against the chunk's
// pre-body trivia span and its first statement's leading span being
// treated as two independent regions: both are computed from the same
// [lastEnd, token.Start) gap, so a caller that walks both must account
// for the overlap instead of rendering it twice.
func TestParseChunkLeadingTriviaNotDuplicated(t *testing.T) {
	src := "-- leading comment\nlocal a = 1\n"
	root, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	body := root.Children[0]
	if body.List.Len() == 0 {
		t.Fatal("expected at least one statement")
	}
	first := body.List.Items[0]
	if root.Trivia[0] != first.Leading {
		t.Errorf("chunk.Trivia[0] = %v; first.Leading = %v; want equal", root.Trivia[0], first.Leading)
	}
}

func TestParseEmptyChunk(t *testing.T) {
	root, err := Parse("   -- just a comment\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	body := root.Children[0]
	if body.List.Len() != 0 {
		t.Fatalf("expected an empty body, got %d statements", body.List.Len())
	}
	if root.Trivia[0] != root.Trivia[1] {
		t.Errorf("an empty chunk's pre- and post-body trivia should be the same span: %v vs %v", root.Trivia[0], root.Trivia[1])
	}
}

func TestParseShebang(t *testing.T) {
	src := "#!/usr/bin/env lua\nprint(1)\n"
	root, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if root.SheBang == nil {
		t.Fatal("expected a shebang node")
	}
	if root.SheBang.Text != "#!/usr/bin/env lua" {
		t.Errorf("SheBang.Text = %q", root.SheBang.Text)
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse("local a = ")
	if err == nil {
		t.Fatal("Parse: want error for incomplete assignment")
	}
}

func TestParseMethodCallChain(t *testing.T) {
	root, err := Parse("local a = obj:m1():m2()\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	local := root.Children[0].List.Items[0].Node
	v := local.Exprs.Items[0].Node
	if v.List == nil || len(v.List.Items) != 2 {
		t.Fatalf("expected a two-suffix chain, got %+v", v.List)
	}
}
