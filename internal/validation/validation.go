// Package validation implements a small declarative rule engine for request
// payloads and query parameters.
//
// Each endpoint declares a Schema: an ordered list of field rules plus an
// optional at-least-one-of constraint. Loading a schema against raw input
// trims every string, silently drops undeclared fields, evaluates the rules
// in declaration order, and aggregates all failures into a single
// field→message map rather than stopping at the first one. This is a
// deliberate reimplementation of a schema library in miniature: the rule
// set here is tiny and fixed, and owning it keeps the error shape and
// trimming semantics exactly as the API documents them.
package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sakif/catalog-service/internal/apperror"
)

// Kind is the expected type of a field after loading.
type Kind int

const (
	String Kind = iota
	Int
)

// Field is a single declarative rule set for one input field. Zero values
// mean "rule not applied": a MaxLen of 0 imposes no length ceiling, a nil
// Min no lower range bound, and so on.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Default  any  // applied when the field is absent and not required
	MinLen   int  // string rule, checked after trimming
	MaxLen   int  // string rule, checked after trimming
	Min      *int // integer range bound, inclusive
	Max      *int // integer range bound, inclusive
	Email    bool // string must parse as an email address
	Password bool // string must satisfy the password strength rule
}

// Schema is the ordered rule declaration for one endpoint.
type Schema struct {
	Fields []Field

	// AtLeastOneOf requires at least one of the named fields to be present
	// in the input. Used by partial updates where an empty update is
	// meaningless.
	AtLeastOneOf []string
}

// Values holds the loaded, validated input. Only declared fields ever
// appear; integers have been coerced, strings trimmed.
type Values map[string]any

// Has reports whether the field was present in the input (or filled by a
// default).
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// String returns the field as a string, or "" when absent.
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Int returns the field as an int, or 0 when absent.
func (v Values) Int(name string) int {
	n, _ := v[name].(int)
	return n
}

// schemaKey is where the cross-field at-least-one-of failure is reported in
// the error data, since it belongs to no single field.
const schemaKey = "_schema"

// Load evaluates the schema against a decoded JSON object. On any rule
// violation it returns a ValidationFailed error whose data maps each
// failing field to its message. Fields not declared in the schema are
// ignored without error.
func (s *Schema) Load(raw map[string]any) (Values, error) {
	values := make(Values, len(s.Fields))
	errs := make(map[string]string)

	for _, f := range s.Fields {
		rawVal, present := raw[f.Name]

		// Trim before anything else, including the presence-after-trim
		// semantics of coercion below.
		if str, ok := rawVal.(string); ok {
			rawVal = strings.TrimSpace(str)
		}

		if !present {
			if f.Required {
				errs[f.Name] = "Missing data for required field."
			} else if f.Default != nil {
				values[f.Name] = f.Default
			}
			continue
		}

		switch f.Kind {
		case Int:
			n, ok := coerceInt(rawVal)
			if !ok {
				errs[f.Name] = "Not a valid integer."
				continue
			}
			if msg := checkRange(f, n); msg != "" {
				errs[f.Name] = msg
				continue
			}
			values[f.Name] = n

		case String:
			str, ok := rawVal.(string)
			if !ok {
				errs[f.Name] = "Not a valid string."
				continue
			}
			if msg := checkString(f, str); msg != "" {
				errs[f.Name] = msg
				continue
			}
			values[f.Name] = str
		}
	}

	if len(s.AtLeastOneOf) > 0 {
		any := false
		for _, name := range s.AtLeastOneOf {
			if _, ok := raw[name]; ok {
				any = true
				break
			}
		}
		if !any {
			errs[schemaKey] = "All fields are missing"
		}
	}

	if len(errs) > 0 {
		return nil, apperror.ValidationFailed(errs)
	}
	return values, nil
}

// LoadQuery evaluates the schema against URL query parameters. Each
// parameter arrives as a string; integer fields go through the same
// coercion as JSON string values.
func (s *Schema) LoadQuery(query url.Values) (Values, error) {
	raw := make(map[string]any, len(query))
	for key, vals := range query {
		if len(vals) > 0 {
			raw[key] = vals[0]
		}
	}
	return s.Load(raw)
}

// coerceInt accepts native JSON numbers and numeric strings. A float with a
// fractional part is not an integer, and neither is "".
func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func checkRange(f Field, n int) string {
	if (f.Min != nil && n < *f.Min) || (f.Max != nil && n > *f.Max) {
		switch {
		case f.Min != nil && f.Max != nil:
			return fmt.Sprintf("Must be greater than or equal to %d and less than or equal to %d.", *f.Min, *f.Max)
		case f.Min != nil:
			return fmt.Sprintf("Must be greater than or equal to %d.", *f.Min)
		default:
			return fmt.Sprintf("Must be less than or equal to %d.", *f.Max)
		}
	}
	return ""
}

// checkString applies the string rules. Length bounds count characters,
// not bytes, so multibyte input is measured the way a user would count it.
func checkString(f Field, str string) string {
	length := utf8.RuneCountInString(str)
	if f.MinLen > 0 && length < f.MinLen {
		return "Fields cannot be blank"
	}
	if f.MaxLen > 0 && length > f.MaxLen {
		return fmt.Sprintf("Maximum length of fields is %d", f.MaxLen)
	}
	if f.Email {
		if msg := checkEmail(str); msg != "" {
			return msg
		}
	}
	if f.Password {
		if msg := checkPassword(str); msg != "" {
			return msg
		}
	}
	return ""
}

// checkEmail validates address syntax. ParseAddress also accepts the
// display-name form ("Name <a@b.c>"), so the round-trip comparison rejects
// anything that isn't a bare address.
func checkEmail(str string) string {
	addr, err := mail.ParseAddress(str)
	if err != nil || addr.Address != str {
		return "Not a valid email address."
	}
	return ""
}

// checkPassword enforces the strength rule by scanning characters: at least
// six characters with one lowercase letter, one uppercase letter, and one
// digit, in any order.
func checkPassword(str string) string {
	if utf8.RuneCountInString(str) < 6 {
		return "Passwords must have at least 6 characters"
	}

	var hasLower, hasUpper, hasDigit bool
	for _, c := range str {
		switch {
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= '0' && c <= '9':
			hasDigit = true
		}
	}

	if !hasLower || !hasUpper || !hasDigit {
		return "Password must include at least one lowercase letter, one uppercase letter, one digit"
	}
	return ""
}
