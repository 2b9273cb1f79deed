package validation

import (
	"fmt"

	"github.com/ginjaninja78/invoice-report-importer/internal/cell"
)

// Rule names carried by FieldError.
const (
	RuleRequired = "required"
	RuleKind     = "kind"
)

// FieldError is one violation found on a row.
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Check validates row against the schema. Every declared field is checked
// and all violations are returned; fields not in the schema are ignored.
func (s Schema) Check(row map[string]any) []*FieldError {
	var errs []*FieldError

	for _, f := range s {
		value, present := row[f.Name]
		if !present || cell.IsBlank(value) {
			if f.Required {
				errs = append(errs, &FieldError{
					Field:   f.Name,
					Rule:    RuleRequired,
					Message: fmt.Sprintf("Missing required field %q", f.Name),
				})
			}
			continue
		}

		if !matchesKind(value, f.Kind) {
			errs = append(errs, &FieldError{
				Field:   f.Name,
				Rule:    RuleKind,
				Message: fmt.Sprintf("Field %q must be %s, got %s", f.Name, describeKind(f.Kind), cell.Describe(value)),
			})
		}
	}

	return errs
}

// Messages validates row and returns only the human-readable messages. The
// result is never nil.
func (s Schema) Messages(row map[string]any) []string {
	errs := s.Check(row)
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Message)
	}
	return out
}

func matchesKind(v any, kind Kind) bool {
	_, isText := cell.Text(v)
	_, isNumber := cell.Number(v)

	switch kind {
	case KindText:
		return isText
	case KindNumber:
		return isNumber
	case KindTextOrNumber:
		return isText || isNumber
	}
	return false
}

func describeKind(kind Kind) string {
	switch kind {
	case KindText:
		return "text"
	case KindNumber:
		return "a number"
	case KindTextOrNumber:
		return "text or a number"
	}
	return string(kind)
}
