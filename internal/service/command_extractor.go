package service

import (
	"encoding/json"
	"errors"
	"strings"

	appErrors "github.com/noah-isme/edu-agent-api/pkg/errors"
)

// Command is an action descriptor located inside free-form text.
type Command struct {
	Action   string
	Payload  map[string]json.RawMessage
	Fragment string
	Start    int
	End      int
}

// ParseError reports an opening that could not be turned into a JSON object.
type ParseError struct {
	Action   string
	Fragment string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "invalid command"
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, appErrors.ErrParse) match.
func (e *ParseError) Is(target error) bool {
	return target == appErrors.ErrParse
}

var errUnterminatedObject = errors.New("accolade fermante manquante")

// CommandExtractor locates the first registered action descriptor in text and isolates its JSON
// object by brace balancing.
type CommandExtractor struct {
	actions    []string
	quoteAware bool
}

// NewCommandExtractor builds an extractor trying actions in the given order. With quoteAware set,
// braces inside JSON string literals are ignored while balancing.
func NewCommandExtractor(actions []string, quoteAware bool) *CommandExtractor {
	return &CommandExtractor{actions: append([]string(nil), actions...), quoteAware: quoteAware}
}

// QuoteAware reports the balancing mode.
func (e *CommandExtractor) QuoteAware() bool {
	return e.quoteAware
}

// Extract returns nil, nil when no action opening appears in text.
func (e *CommandExtractor) Extract(text string) (*Command, error) {
	action, start := e.findOpening(text)
	if start < 0 {
		return nil, nil
	}

	var end int
	if e.quoteAware {
		end = balanceQuoteAware(text, start)
	} else {
		end = balanceNaive(text, start)
	}
	if end < 0 {
		return nil, &ParseError{Action: action, Fragment: text[start:], Err: errUnterminatedObject}
	}

	fragment := text[start:end]
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(fragment), &payload); err != nil {
		return nil, &ParseError{Action: action, Fragment: fragment, Err: err}
	}

	return &Command{Action: action, Payload: payload, Fragment: fragment, Start: start, End: end}, nil
}

// findOpening picks the first action in registry order that has an opening, and the earliest
// position of that opening.
func (e *CommandExtractor) findOpening(text string) (string, int) {
	if !strings.Contains(text, `"action"`) {
		return "", -1
	}
	for _, action := range e.actions {
		if pos := findActionOpening(text, action); pos >= 0 {
			return action, pos
		}
	}
	return "", -1
}

func findActionOpening(text, action string) int {
	quoted := `"` + action + `"`
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		j := skipJSONSpace(text, i+1)
		if !strings.HasPrefix(text[j:], `"action"`) {
			continue
		}
		j = skipJSONSpace(text, j+len(`"action"`))
		if j >= len(text) || text[j] != ':' {
			continue
		}
		j = skipJSONSpace(text, j+1)
		if strings.HasPrefix(text[j:], quoted) {
			return i
		}
	}
	return -1
}

func skipJSONSpace(text string, i int) int {
	for i < len(text) {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

// balanceNaive counts every brace, including those inside string values. It returns the index just
// past the closing brace, or -1.
func balanceNaive(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

func balanceQuoteAware(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}
