// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package luafmtcli

import "testing"

func opsString(ops []diffOp) string {
	s := ""
	for _, op := range ops {
		switch op.kind {
		case diffEqual:
			s += " " + op.line + "\n"
		case diffDelete:
			s += "-" + op.line + "\n"
		case diffInsert:
			s += "+" + op.line + "\n"
		}
	}
	return s
}

func TestDiffLines(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want string
	}{
		{name: "identical", a: []string{"x", "y"}, b: []string{"x", "y"}, want: " x\n y\n"},
		{
			name: "insertOnly",
			a:    []string{"x"},
			b:    []string{"x", "y"},
			want: " x\n+y\n",
		},
		{
			name: "deleteOnly",
			a:    []string{"x", "y"},
			b:    []string{"x"},
			want: " x\n-y\n",
		},
		{
			name: "replace",
			a:    []string{"local a = 1"},
			b:    []string{"local a = 2"},
			want: "-local a = 1\n+local a = 2\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := opsString(diffLines(test.a, test.b))
			if got != test.want {
				t.Errorf("diffLines(%v, %v) =\n%s\nwant\n%s", test.a, test.b, got, test.want)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		s    string
		want []string
	}{
		{s: "", want: nil},
		{s: "a\n", want: []string{"a"}},
		{s: "a\nb\n", want: []string{"a", "b"}},
		{s: "a\nb", want: []string{"a", "b"}},
	}
	for _, test := range tests {
		got := splitLines(test.s)
		if len(got) != len(test.want) {
			t.Errorf("splitLines(%q) = %v; want %v", test.s, got, test.want)
			continue
		}
		for i := range got {
			if got[i] != test.want[i] {
				t.Errorf("splitLines(%q)[%d] = %q; want %q", test.s, i, got[i], test.want[i])
			}
		}
	}
}
