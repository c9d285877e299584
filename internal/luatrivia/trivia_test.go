// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package luatrivia

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Item
	}{
		{name: "empty", src: "", want: nil},
		{name: "spacesOnly", src: "   \t  ", want: nil},
		{name: "newline", src: "\n", want: []Item{{Kind: NewLine, Start: 0, End: 1, FullStart: 0, FullEnd: 1}}},
		{
			name: "oneLineComment",
			src:  "-- hello\n",
			want: []Item{
				{Kind: OneLineComment, Text: " hello", Start: 2, End: 8, FullStart: 0, FullEnd: 8},
				{Kind: NewLine, Start: 8, End: 9, FullStart: 8, FullEnd: 9},
			},
		},
		{
			name: "multiLineComment",
			src:  "--[==[ body ]==]",
			want: []Item{
				{Kind: MultiLineComment, Level: 2, Text: " body ", Start: 6, End: 12, FullStart: 0, FullEnd: 16},
			},
		},
		{
			name: "consecutiveComments",
			src:  "--[[a]] --[[b]]",
			want: []Item{
				{Kind: MultiLineComment, Text: "a", Start: 4, End: 5, FullStart: 0, FullEnd: 7},
				{Kind: MultiLineComment, Text: "b", Start: 12, End: 13, FullStart: 8, FullEnd: 15},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Parse(test.src, 0, len(test.src))
			if diff := cmp.Diff(test.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Parse (-want +got):\n%s", diff)
			}
		})
	}
}
