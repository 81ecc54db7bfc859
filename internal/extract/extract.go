package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	kerrors "cfgseal/internal/errors"
)

// Kind tags the outcome of a single extraction.
type Kind int

const (
	NotFound Kind = iota
	Found
	ParseError
)

func (k Kind) String() string {
	switch k {
	case Found:
		return "found"
	case ParseError:
		return "parse error"
	default:
		return "not found"
	}
}

// Result is the outcome of looking up one declaration.
type Result struct {
	Kind Kind
	// Value holds the compacted JSON literal when Kind is Found.
	Value json.RawMessage
	// Detail explains a ParseError.
	Detail string
}

// Field maps a logical name in the aggregate to the identifier declared in
// the source text.
type Field struct {
	Name     string
	Declared string
}

// Outcome pairs a field with its extraction result.
type Outcome struct {
	Field  Field
	Result Result
}

// Values is the aggregate mapping from logical name to JSON value. Fields
// that were not extracted hold a nil RawMessage, which marshals as null.
type Values map[string]json.RawMessage

// Extract finds the first `export const <declared> = ...;` statement in
// content and parses its value.
func Extract(content, declared string) Result {
	loc := declarationPattern(declared).FindStringIndex(content)
	if loc == nil {
		return Result{Kind: NotFound}
	}

	rest := content[loc[1]:]
	dec := json.NewDecoder(strings.NewReader(rest))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return parseError("invalid JSON value: %v", err)
	}

	tail := strings.TrimLeft(rest[dec.InputOffset():], " \t\r\n")
	if !strings.HasPrefix(tail, ";") {
		return parseError("declaration is not terminated by ';'")
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return parseError("invalid JSON value: %v", err)
	}
	return Result{Kind: Found, Value: buf.Bytes()}
}

// Collect extracts every field independently. The first field is the
// primary one: if it is not found, or is a JSON null, Collect returns
// ErrPrimaryMissing. Other fields never cause an error.
func Collect(content string, fields []Field) (Values, []Outcome, error) {
	if len(fields) == 0 {
		return nil, nil, fmt.Errorf("%w: no fields configured", kerrors.ErrInvalidConfig)
	}

	values := make(Values, len(fields))
	outcomes := make([]Outcome, 0, len(fields))
	for _, f := range fields {
		res := Extract(content, f.Declared)
		outcomes = append(outcomes, Outcome{Field: f, Result: res})
		if res.Kind == Found {
			values[f.Name] = res.Value
		} else {
			values[f.Name] = nil
		}
	}

	primary := outcomes[0]
	switch {
	case primary.Result.Kind == ParseError:
		return nil, outcomes, fmt.Errorf("%w: %s: %s", kerrors.ErrPrimaryMissing, primary.Field.Declared, primary.Result.Detail)
	case primary.Result.Kind == NotFound:
		return nil, outcomes, fmt.Errorf("%w: %s not declared", kerrors.ErrPrimaryMissing, primary.Field.Declared)
	case string(primary.Result.Value) == "null":
		return nil, outcomes, fmt.Errorf("%w: %s is null", kerrors.ErrPrimaryMissing, primary.Field.Declared)
	}

	return values, outcomes, nil
}

// LoadFile reads path and collects fields from it.
func LoadFile(path string, fields []Field) (Values, []Outcome, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", kerrors.ErrSourceNotFound, path, err)
	}
	return Collect(string(content), fields)
}

func declarationPattern(declared string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*export[ \t]+const[ \t]+` + regexp.QuoteMeta(declared) + `[ \t]*=`)
}

func parseError(format string, args ...any) Result {
	return Result{Kind: ParseError, Detail: fmt.Sprintf(format, args...)}
}
