// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package luaconfig

import (
	"fmt"
	"strconv"
)

// SetByName parses value and assigns it to the field named name,
// following the table in the formatter's external interface
// specification. An unrecognized name or an unparseable value is
// reported as a non-fatal error: the config is left unmodified for
// that field, and the caller (the CLI or config loader) is expected to
// log the error as a warning rather than abort.
func (c *Config) SetByName(name, value string) error {
	switch name {
	case "remove_comments":
		return setBool(&c.RemoveComments, value)
	case "remove_newlines":
		return setBool(&c.RemoveNewlines, value)
	case "remove_spaces_between_tokens":
		return setBool(&c.RemoveSpacesBetweenTokens, value)
	case "replace_zero_spaces_with_hint":
		return setBool(&c.ReplaceZeroSpacesWithHint, value)
	case "hint_before_comment":
		c.HintBeforeComment = strPtr(value)
	case "hint_after_multiline_comment":
		c.HintAfterMultilineComment = strPtr(value)
	case "hint_before_oneline_comment_text":
		c.HintBeforeOnelineCommentText = strPtr(value)
	case "hint_before_multiline_comment_text":
		c.HintBeforeMultilineCommentText = strPtr(value)
	case "hint_after_multiline_comment_text":
		c.HintAfterMultilineCommentText = strPtr(value)
	case "write_newline_at_eof":
		return setBool(&c.WriteNewlineAtEOF, value)
	case "indentation_string":
		c.IndentationString = strPtr(value)
	case "indent_every_statement":
		return setBool(&c.IndentEveryStatement, value)
	case "do_end_indent_format":
		return setLevel(&c.DoEndIndentFormat, value)
	case "for_indent_format":
		return setLevel(&c.ForIndentFormat, value)
	case "function_indent_format":
		return setLevel(&c.FunctionIndentFormat, value)
	case "if_indent_format":
		return setLevel(&c.IfIndentFormat, value)
	case "while_do_indent_format":
		return setLevel(&c.WhileDoIndentFormat, value)
	case "repeat_until_indent_format":
		return setLevel(&c.RepeatUntilIndentFormat, value)
	case "max_width":
		return setInt(&c.MaxWidth, value)
	case "format_type_binary_op":
		return setLevel(&c.FormatTypeBinaryOp, value)
	case "format_type_table":
		return setLevel(&c.FormatTypeTable, value)
	case "format_type_if":
		return setLevel(&c.FormatTypeIf, value)
	case "format_type_function":
		return setLevel(&c.FormatTypeFunction, value)
	case "format_type_method_call":
		return setLevel(&c.FormatTypeMethodCall, value)
	case "format_type_table_field":
		return setLevel(&c.FormatTypeTableField, value)
	case "enable_oneline_binary_op":
		return setBool(&c.EnableOnelineBinaryOp, value)
	case "enable_oneline_table":
		return setBool(&c.EnableOnelineTable, value)
	case "enable_oneline_if":
		return setBool(&c.EnableOnelineIf, value)
	case "enable_oneline_method_call":
		return setBool(&c.EnableOnelineMethodCall, value)
	case "enable_oneline_table_field":
		return setBool(&c.EnableOnelineTableField, value)
	case "enable_oneline_top_level_function":
		return setBool(&c.EnableOnelineTopLevelFunc, value)
	case "enable_oneline_scoped_function":
		return setBool(&c.EnableOnelineScopedFunc, value)
	case "indent_method_call":
		return setBool(&c.IndentMethodCall, value)
	case "indent_table_field":
		return setBool(&c.IndentTableField, value)
	case "field_separator":
		switch value {
		case ",":
			c.FieldSeparator = sepPtr(CommaSeparator)
		case ";":
			c.FieldSeparator = sepPtr(SemicolonSeparator)
		default:
			return fmt.Errorf("field_separator: must be \",\" or \";\", got %q", value)
		}
	case "write_trailing_field_separator":
		return setBool(&c.WriteTrailingFieldSeparator, value)
	case "convert_charstring_to_normalstring":
		return setBool(&c.ConvertCharStringToNormalString, value)
	case "line_range":
		return setLineRange(&c.LineRange, value)
	default:
		return fmt.Errorf("unknown configuration option %q", name)
	}
	return nil
}

func setBool(field **bool, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("parse bool %q: %w", value, err)
	}
	*field = boolPtr(b)
	return nil
}

func setInt(field **int, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse int %q: %w", value, err)
	}
	*field = intPtr(n)
	return nil
}

func setLevel(field **FormatLevel, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse format level %q: %w", value, err)
	}
	if n < 0 || n > 2 {
		return fmt.Errorf("format level %d out of range [0,2]", n)
	}
	*field = levelPtr(FormatLevel(n))
	return nil
}

// setLineRange parses "start-end", e.g. "3-17".
func setLineRange(field **LineRange, value string) error {
	var start, end int
	if _, err := fmt.Sscanf(value, "%d-%d", &start, &end); err != nil {
		return fmt.Errorf("parse line_range %q: want \"start-end\"", value)
	}
	if start < 1 || end < start {
		return fmt.Errorf("line_range %q: invalid range", value)
	}
	*field = &LineRange{Start: start, End: end}
	return nil
}
