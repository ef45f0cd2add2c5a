package faker

import (
	"fmt"
	"regexp/syntax"
	"strings"
)

// segKind enumerates the pieces of a compiled expression.
type segKind uint8

const (
	segLiteral segKind = iota
	segFunc            // gofakeit lookup, e.g. "email" or "number:1,10"
	segNumerify        // '#' -> digit
	segLetterify       // '?' -> letter
	segBothify         // both of the above
	segRegexify        // regular expression
)

type segment struct {
	kind segKind
	text string
}

// template is a parsed expression. Parsing is done once per distinct
// expression; evaluation happens per record.
type template []segment

// parseExpression splits expr into literal text and "#{...}" directives.
// Inside a directive single-quoted arguments may contain braces.
func parseExpression(expr string) (template, error) {
	var (
		out template
		lit strings.Builder
	)
	flushLit := func() {
		if lit.Len() > 0 {
			out = append(out, segment{kind: segLiteral, text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(expr); {
		if !strings.HasPrefix(expr[i:], "#{") {
			lit.WriteByte(expr[i])
			i++
			continue
		}
		end, err := directiveEnd(expr, i+2)
		if err != nil {
			return nil, err
		}
		seg, err := compileDirective(strings.TrimSpace(expr[i+2 : end]))
		if err != nil {
			return nil, err
		}
		flushLit()
		out = append(out, seg)
		i = end + 1
	}
	flushLit()
	return out, nil
}

// directiveEnd returns the index of the '}' closing a directive body that
// starts at from.
func directiveEnd(expr string, from int) (int, error) {
	quoted := false
	for j := from; j < len(expr); j++ {
		switch expr[j] {
		case '\'':
			quoted = !quoted
		case '}':
			if !quoted {
				return j, nil
			}
		}
	}
	return 0, fmt.Errorf("unterminated directive at offset %d", from-2)
}

func compileDirective(body string) (segment, error) {
	if body == "" {
		return segment{}, fmt.Errorf("empty directive")
	}
	name, rest, _ := strings.Cut(body, " ")
	arg, err := quotedArg(strings.TrimSpace(rest))
	if err != nil {
		return segment{}, fmt.Errorf("directive %q: %w", name, err)
	}

	switch strings.ToLower(name) {
	case "numerify":
		return segment{kind: segNumerify, text: arg}, nil
	case "letterify":
		return segment{kind: segLetterify, text: arg}, nil
	case "bothify":
		return segment{kind: segBothify, text: arg}, nil
	case "regexify":
		if _, err := syntax.Parse(arg, syntax.Perl); err != nil {
			return segment{}, fmt.Errorf("directive %q: %w", name, err)
		}
		return segment{kind: segRegexify, text: arg}, nil
	}
	if arg != "" {
		return segment{}, fmt.Errorf("directive %q does not take arguments", name)
	}
	fn, err := resolveFunc(name)
	if err != nil {
		return segment{}, err
	}
	return segment{kind: segFunc, text: fn}, nil
}

// quotedArg extracts a single-quoted argument. An empty input yields "".
func quotedArg(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	if len(s) < 2 || s[0] != '\'' || s[len(s)-1] != '\'' {
		return "", fmt.Errorf("argument %s must be single-quoted", s)
	}
	return s[1 : len(s)-1], nil
}

// ValidateExpression reports whether expr parses and every directive maps to
// a known generator function with well-formed arguments. Failures are
// returned as *GenerationError.
func ValidateExpression(expr string) error {
	if _, err := parseExpression(expr); err != nil {
		return &GenerationError{Expression: expr, Err: err}
	}
	return nil
}
