package tas

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

const (
	commentToken    = '#'
	breakpointToken = "***"
)

// Parse parses a script into a Document. Lines are split on '\n'; a trailing
// '\r' on a line is ignored. Parsing stops at the first malformed action
// token and returns a *ParseError.
func Parse(text string) (*Document, error) {
	doc := &Document{}
	for i, raw := range strings.Split(text, "\n") {
		lineNumber := i + 1
		line, err := parseLine(strings.TrimSuffix(raw, "\r"), lineNumber)
		if err != nil {
			return nil, err
		}
		if line == nil {
			continue
		}
		doc.Lines = append(doc.Lines, LineRecord{Line: line, LineNumber: lineNumber})
	}

	Logger().Debug("parsed document", "lines", len(doc.Lines), "frames", doc.TotalFrames())
	return doc, nil
}

// parseLine classifies one physical line. It returns nil for lines that
// produce no record.
func parseLine(raw string, lineNumber int) (Line, error) {
	body := raw
	if idx := strings.IndexByte(raw, commentToken); idx != -1 {
		if isBlank(raw[:idx]) {
			return &Comment{Text: raw[idx+1:]}, nil
		}
		// Trailing comments are not kept.
		body = raw[:idx]
	}

	if isBlank(body) {
		return nil, nil
	}

	if rest, ok := strings.CutPrefix(strings.TrimLeftFunc(body, unicode.IsSpace), breakpointToken); ok {
		return parseBreakpoint(rest), nil
	}

	head, tail, hasComma := strings.Cut(body, ",")

	if count, ok := parseFrameCount(head); ok {
		return parseFrameInput(count, tail, lineNumber)
	}

	if key, value, ok := strings.Cut(body, ":"); ok {
		return &Property{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)}, nil
	}

	call := &Call{Method: strings.TrimSpace(head)}
	if hasComma {
		for _, arg := range strings.Split(tail, ",") {
			call.Arguments = append(call.Arguments, strings.TrimSpace(arg))
		}
	}
	return call, nil
}

func parseBreakpoint(rest string) *Breakpoint {
	rest = strings.TrimSpace(rest)
	rest = strings.TrimSpace(strings.TrimPrefix(rest, ","))
	factor, err := strconv.ParseFloat(rest, 64)
	if err != nil || !isFinite(factor) {
		return &Breakpoint{}
	}
	return &Breakpoint{Factor: factor, HasFactor: true}
}

// parseFrameCount accepts a trimmed run of ASCII digits.
func parseFrameCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseFrameInput(count int, tail string, lineNumber int) (*FrameInput, error) {
	input := &FrameInput{Count: count}
	for _, token := range splitBalanced(tail) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		action, ok := parseAction(token)
		if !ok {
			return nil, &ParseError{Line: lineNumber, Token: token, Context: tail}
		}
		input.Add(action)
	}
	return input, nil
}

// parseAction parses "K" or "K(v1,v2,...)".
func parseAction(token string) (Action, bool) {
	if ValidKey(token) {
		return Action{Key: token}, true
	}
	if len(token) < 4 || !isLetter(token[0]) || token[1] != '(' || token[len(token)-1] != ')' {
		return Action{}, false
	}

	parts := strings.Split(token[2:len(token)-1], ",")
	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || !isFinite(v) {
			return Action{}, false
		}
		values = append(values, v)
	}
	return Action{Key: token[:1], Values: values}, true
}

// splitBalanced splits s on commas that are not inside parentheses.
func splitBalanced(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
