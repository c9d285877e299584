// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package luafmt

import (
	"strings"
	"testing"
)

func mustConfig(t *testing.T, sets map[string]string) *Config {
	t.Helper()
	cfg := &Config{}
	for name, value := range sets {
		if err := cfg.SetByName(name, value); err != nil {
			t.Fatalf("SetByName(%q, %q): %v", name, value, err)
		}
	}
	return cfg
}

// TestFormatScenarios exercises the concrete input/output pairs
// enumerated in the external interface specification (§8).
func TestFormatScenarios(t *testing.T) {
	tests := []struct {
		name string
		src  string
		sets map[string]string
		want string
	}{
		{
			name: "replaceZeroSpacesWithHint",
			src:  "for a=1,   4do print  (1,4)end",
			sets: map[string]string{"replace_zero_spaces_with_hint": "true"},
			want: "for a = 1,   4 do print  (1, 4) end",
		},
		{
			name: "removeSpacesBetweenTokens",
			src:  "for a=1,   4do print  (1,4)end",
			sets: map[string]string{"remove_spaces_between_tokens": "true"},
			want: "fora=1,4doprint(1,4)end",
		},
		{
			name: "trailingFieldSeparator",
			src:  "local a = { a, b; c ={}, d = 5--[[]]; e }",
			sets: map[string]string{
				"field_separator":                 ",",
				"write_trailing_field_separator":   "true",
			},
			want: "local a = { a, b, c ={}, d = 5--[[]], e, }",
		},
		{
			name: "doEndIndentFormat",
			src:  "do print(a) print(b) end",
			sets: map[string]string{
				"indentation_string":  "    ",
				"do_end_indent_format": "1",
			},
			want: "do\n    print(a) print(b)\nend",
		},
		{
			name: "convertCharStringToNormalString",
			src:  `local a = 'abc"'`,
			sets: map[string]string{"convert_charstring_to_normalstring": "true"},
			want: `local a = "abc\""`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := mustConfig(t, test.sets)
			got, err := Format(test.src, cfg)
			if err != nil {
				t.Fatalf("Format(%q): %v", test.src, err)
			}
			if got != test.want {
				t.Errorf("Format(%q) = %q; want %q", test.src, got, test.want)
			}
		})
	}
}

// TestFormatLosslessDefault checks spec §8 P1: an all-unset Config
// reproduces the input byte-for-byte.
func TestFormatLosslessDefault(t *testing.T) {
	srcs := []string{
		"",
		"local a = 1\n",
		"-- comment\nlocal a = 1\n",
		"do print(a) print(b) end",
		"local t = { a, b; c = 1, [2] = 3 }\n",
		"if a then b() elseif c then d() else e() end\n",
		"for i=1,10 do f(i) end\n",
		"function f(a, b, ...) return a + b end\n",
		"for  i=1,10 do end\n",
		"for --[[c]] i=1,10 do end\n",
		"for  k,v in pairs(t) do end\n",
		"function   foo() end\n",
		"function outer.  inner() end\n",
		"function obj:  method() end\n",
		"local   a = 1\n",
		"local a,   b = 1, 2\n",
		"return   1, 2\n",
		"local a = 1\nlocal b =   2\n",
		"a =   1\n",
	}
	for _, src := range srcs {
		got, err := Format(src, nil)
		if err != nil {
			t.Errorf("Format(%q, nil): %v", src, err)
			continue
		}
		if got != src {
			t.Errorf("Format(%q, nil) = %q; want unchanged", src, got)
		}
	}
}

// TestFormatIdempotence checks spec §8 P2 for a representative config.
func TestFormatIdempotence(t *testing.T) {
	cfg := mustConfig(t, map[string]string{
		"indentation_string":   "  ",
		"if_indent_format":     "1",
		"do_end_indent_format": "1",
	})
	src := "if a then do print(1) print(2) end else print(3) end\n"
	once, err := Format(src, cfg)
	if err != nil {
		t.Fatalf("Format once: %v", err)
	}
	twice, err := Format(once, cfg)
	if err != nil {
		t.Fatalf("Format twice: %v", err)
	}
	if once != twice {
		t.Errorf("format is not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

// TestFormatCommentRemoval checks spec §8 P6: no "--" survives outside
// string literals when remove_comments is set.
func TestFormatCommentRemoval(t *testing.T) {
	cfg := mustConfig(t, map[string]string{"remove_comments": "true"})
	src := "local a = 1 -- a comment\n--[[ block ]]\nlocal b = '--not a comment'\n"
	out, err := Format(src, cfg)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	body := out
	if i := strings.Index(body, "'--not a comment'"); i >= 0 {
		body = body[:i] + body[i+len("'--not a comment'"):]
	}
	if strings.Contains(body, "--") {
		t.Errorf("remove_comments left a comment marker: %q", out)
	}
}

func TestFormatRangeEmitsUnrelatedStatementsVerbatim(t *testing.T) {
	src := "local a   =   1\nlocal b   =   2\nlocal c   =   3\n"
	cfg := mustConfig(t, map[string]string{"remove_spaces_between_tokens": "true"})
	out, err := FormatRange(src, cfg, &LineRange{Start: 2, End: 2})
	if err != nil {
		t.Fatalf("FormatRange: %v", err)
	}
	lines := strings.Split(out, "\n")
	if lines[0] != "local a   =   1" {
		t.Errorf("line 1 rewritten: %q", lines[0])
	}
	if lines[1] != "localb=2" {
		t.Errorf("line 2 not rewritten as expected: %q", lines[1])
	}
	if lines[2] != "local c   =   3" {
		t.Errorf("line 3 rewritten: %q", lines[2])
	}
}

// TestFormatTableBrokenKeepsComments guards against a writer defect
// where a table forced onto multiple lines silently dropped any
// comment between fields.
func TestFormatTableBrokenKeepsComments(t *testing.T) {
	cfg := mustConfig(t, map[string]string{
		"indentation_string": "  ",
		"format_type_table":  "1",
	})
	src := "local t = {\n  a, -- first\n  b, -- second\n}\n"
	out, err := Format(src, cfg)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(out, "--first") || !strings.Contains(out, "--second") {
		t.Errorf("Format dropped a comment from a broken table:\n%s", out)
	}
}

// TestFormatMethodCallChainBreaks checks that a chain of method calls
// breaks one call per line once it no longer fits max_width, and that
// a following call's argument list stays glued to the call it belongs
// to rather than getting its own line.
func TestFormatMethodCallChainBreaks(t *testing.T) {
	cfg := mustConfig(t, map[string]string{
		"indentation_string":         "  ",
		"format_type_method_call":    "1",
		"enable_oneline_method_call": "true",
		"max_width":                  "10",
	})
	src := "local a = obj:first():second():third()\n"
	out, err := Format(src, cfg)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	for _, want := range []string{":first()", ":second()", ":third()"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format(%q) = %q; missing %q", src, out, want)
		}
	}
	if !strings.Contains(out, "\n") {
		t.Errorf("Format(%q) = %q; want a line break once the chain no longer fits", src, out)
	}
}

// TestFormatMethodCallChainSingleLineFits checks that the same
// configuration keeps the chain on one line when it already fits.
func TestFormatMethodCallChainSingleLineFits(t *testing.T) {
	cfg := mustConfig(t, map[string]string{
		"indentation_string":         "  ",
		"format_type_method_call":    "1",
		"enable_oneline_method_call": "true",
		"max_width":                  "200",
	})
	src := "local a = obj:first():second()\n"
	out, err := Format(src, cfg)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if strings.Contains(out, "\n\n") || strings.Count(out, "\n") > 1 {
		t.Errorf("Format(%q) = %q; want the chain kept on one line", src, out)
	}
}

// TestFormatIfOnelineCollapse checks that format_type_if plus
// enable_oneline_if collapses a short if statement onto one line.
func TestFormatIfOnelineCollapse(t *testing.T) {
	cfg := mustConfig(t, map[string]string{
		"indentation_string": "  ",
		"if_indent_format":   "1",
		"format_type_if":     "1",
		"enable_oneline_if":  "true",
		"max_width":          "200",
	})
	src := "if a then\n  b()\nend\n"
	out, err := Format(src, cfg)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if strings.Contains(strings.TrimRight(out, "\n"), "\n") {
		t.Errorf("Format(%q) = %q; want a single line", src, out)
	}
}

// TestFormatIfNoElseKeepsTrailingCommentOnce guards against a chain
// where the gap before `end` in a plain if with no elseif/else clause
// got rendered twice: once as emitIndentedBody's trailing trivia, once
// more by the chain's own end-of-block fallback.
func TestFormatIfNoElseKeepsTrailingCommentOnce(t *testing.T) {
	cfg := mustConfig(t, map[string]string{
		"indentation_string": "  ",
		"if_indent_format":   "1",
		"format_type_if":     "1",
	})
	src := "if a then\n  b()\n  -- trailing\nend\n"
	out, err := Format(src, cfg)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if n := strings.Count(out, "--trailing"); n != 1 {
		t.Errorf("Format(%q) = %q; want exactly one occurrence of the trailing comment, got %d", src, out, n)
	}
}

// TestFormatKeywordLeadingCommentPreserved guards against a writer
// defect where the gap right after a `function`, `local`, or `return`
// keyword was rendered as a hardcoded literal instead of the item's
// own recorded trivia, silently deleting a comment placed there.
func TestFormatKeywordLeadingCommentPreserved(t *testing.T) {
	srcs := []string{
		"function --[[c]] foo() end\n",
		"local --[[c]] a = 1\n",
		"return --[[c]] 1\n",
	}
	for _, src := range srcs {
		out, err := Format(src, nil)
		if err != nil {
			t.Errorf("Format(%q, nil): %v", src, err)
			continue
		}
		if out != src {
			t.Errorf("Format(%q, nil) = %q; want unchanged", src, out)
		}
	}
}

// TestFormatFunctionOnelineDistinguishesTopLevelAndScoped checks that
// enable_oneline_top_level_function and enable_oneline_scoped_function
// are consulted independently, per spec.md §6.
func TestFormatFunctionOnelineDistinguishesTopLevelAndScoped(t *testing.T) {
	cfg := mustConfig(t, map[string]string{
		"indentation_string":                "  ",
		"function_indent_format":            "1",
		"format_type_function":              "1",
		"enable_oneline_top_level_function": "true",
		"enable_oneline_scoped_function":    "false",
		"max_width":                         "200",
	})
	topLevel := "function f()\n  return 1\nend\n"
	out, err := Format(topLevel, cfg)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if strings.Contains(strings.TrimRight(out, "\n"), "\n") {
		t.Errorf("Format(%q) = %q; want a top-level function to collapse onto one line", topLevel, out)
	}

	scoped := "local function f()\n  return 1\nend\n"
	out, err = Format(scoped, cfg)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(out, "\n") {
		t.Errorf("Format(%q) = %q; want a local function to stay broken when enable_oneline_scoped_function is false", scoped, out)
	}
}

func TestFormatParseError(t *testing.T) {
	_, err := Format("local a = ", nil)
	if err == nil {
		t.Fatal("Format on invalid source: want error, got nil")
	}
	fe, ok := err.(*FormatError)
	if !ok {
		t.Fatalf("error type = %T; want *FormatError", err)
	}
	if fe.Kind != ParsingError {
		t.Errorf("Kind = %v; want ParsingError", fe.Kind)
	}
}
