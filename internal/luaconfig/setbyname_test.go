// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package luaconfig

import "testing"

func TestSetByName(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
		check   func(*Config) bool
	}{
		{
			name:  "remove_comments",
			value: "true",
			check: func(c *Config) bool { return c.RemoveComments != nil && *c.RemoveComments },
		},
		{
			name:  "indentation_string",
			value: "  ",
			check: func(c *Config) bool { return c.IndentationString != nil && *c.IndentationString == "  " },
		},
		{
			name:  "if_indent_format",
			value: "2",
			check: func(c *Config) bool { return c.IfIndentFormat != nil && *c.IfIndentFormat == LevelIndentCompact },
		},
		{
			name:    "if_indent_format",
			value:   "3",
			wantErr: true,
		},
		{
			name:  "field_separator",
			value: ";",
			check: func(c *Config) bool { return c.FieldSeparator != nil && *c.FieldSeparator == SemicolonSeparator },
		},
		{
			name:    "field_separator",
			value:   "|",
			wantErr: true,
		},
		{
			name:  "line_range",
			value: "3-17",
			check: func(c *Config) bool {
				return c.LineRange != nil && c.LineRange.Start == 3 && c.LineRange.End == 17
			},
		},
		{
			name:    "line_range",
			value:   "17-3",
			wantErr: true,
		},
		{
			name:    "does_not_exist",
			value:   "true",
			wantErr: true,
		},
	}
	for _, test := range tests {
		c := &Config{}
		err := c.SetByName(test.name, test.value)
		if (err != nil) != test.wantErr {
			t.Errorf("SetByName(%q, %q) error = %v; wantErr %v", test.name, test.value, err, test.wantErr)
			continue
		}
		if err == nil && test.check != nil && !test.check(c) {
			t.Errorf("SetByName(%q, %q): field not set as expected, got %+v", test.name, test.value, c)
		}
	}
}
