package rules

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xenocrm/crm-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldKind classifies a customer attribute for operator compatibility checks.
type FieldKind int

const (
	KindNumber FieldKind = iota
	KindString
	KindDate
)

// fieldKinds lists the customer attributes audience rules may reference.
var fieldKinds = map[string]FieldKind{
	"totalSpends": KindNumber,
	"visits":      KindNumber,
	"lastVisit":   KindDate,
	"name":        KindString,
	"email":       KindString,
}

// InvalidRuleError reports a rule that cannot be compiled: unknown field,
// unknown operator, an operator incompatible with the field's type, or a
// value that cannot be coerced to the field's type.
type InvalidRuleError struct {
	Index  int
	Field  string
	Reason string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("invalid audience rule %d (field %q): %s", e.Index, e.Field, e.Reason)
}

// Predicate reports whether a customer matches a compiled rule set.
type Predicate func(c *models.Customer) bool

type clause struct {
	or    bool
	match func(c *models.Customer) bool
}

// Validate eagerly checks a rule list without building a predicate.
func Validate(rs []models.AudienceRule) error {
	_, err := Compile(rs)
	return err
}

// Compile translates an audience rule list into a single predicate.
// Clauses are folded strictly left to right using each rule's logical
// operator; the first rule is the base clause and must carry none. An
// empty rule list compiles to a predicate that matches nothing.
func Compile(rs []models.AudienceRule) (Predicate, error) {
	if len(rs) == 0 {
		return func(*models.Customer) bool { return false }, nil
	}

	clauses := make([]clause, 0, len(rs))
	for i, r := range rs {
		if i == 0 && r.LogicalOperator != "" {
			return nil, &InvalidRuleError{Index: i, Field: r.Field, Reason: "first rule must not have a logical operator"}
		}
		if i > 0 && r.LogicalOperator != models.LogicalAnd && r.LogicalOperator != models.LogicalOr {
			return nil, &InvalidRuleError{Index: i, Field: r.Field, Reason: fmt.Sprintf("logical operator must be AND or OR, got %q", r.LogicalOperator)}
		}

		match, err := compileClause(i, r)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause{or: r.LogicalOperator == models.LogicalOr, match: match})
	}

	return func(c *models.Customer) bool {
		result := clauses[0].match(c)
		for _, cl := range clauses[1:] {
			if cl.or {
				result = result || cl.match(c)
			} else {
				result = result && cl.match(c)
			}
		}
		return result
	}, nil
}

func compileClause(idx int, r models.AudienceRule) (func(c *models.Customer) bool, error) {
	kind, ok := fieldKinds[r.Field]
	if !ok {
		return nil, &InvalidRuleError{Index: idx, Field: r.Field, Reason: "unknown field"}
	}

	switch r.Operator {
	case models.OpGreaterThan, models.OpGreaterOrEq, models.OpLessThan, models.OpLessOrEq:
		if kind == KindString {
			return nil, &InvalidRuleError{Index: idx, Field: r.Field, Reason: fmt.Sprintf("operator %q requires a numeric or date field", r.Operator)}
		}
	case models.OpContains, models.OpNotContains:
		if kind != KindString {
			return nil, &InvalidRuleError{Index: idx, Field: r.Field, Reason: fmt.Sprintf("operator %q requires a string field", r.Operator)}
		}
	case models.OpEquals:
		// valid on every field kind
	default:
		return nil, &InvalidRuleError{Index: idx, Field: r.Field, Reason: fmt.Sprintf("unknown operator %q", r.Operator)}
	}

	switch kind {
	case KindNumber:
		want, err := toNumber(r.Value)
		if err != nil {
			return nil, &InvalidRuleError{Index: idx, Field: r.Field, Reason: err.Error()}
		}
		op := r.Operator
		field := r.Field
		return func(c *models.Customer) bool {
			return compareNumbers(numberField(c, field), want, op)
		}, nil

	case KindDate:
		want, err := toDate(r.Value)
		if err != nil {
			return nil, &InvalidRuleError{Index: idx, Field: r.Field, Reason: err.Error()}
		}
		op := r.Operator
		return func(c *models.Customer) bool {
			return compareDates(c.LastVisit, want, op)
		}, nil

	default: // KindString
		want, ok := r.Value.(string)
		if !ok {
			return nil, &InvalidRuleError{Index: idx, Field: r.Field, Reason: fmt.Sprintf("value must be a string, got %T", r.Value)}
		}
		op := r.Operator
		field := r.Field
		return func(c *models.Customer) bool {
			return compareStrings(stringField(c, field), want, op)
		}, nil
	}
}

func numberField(c *models.Customer, field string) float64 {
	switch field {
	case "totalSpends":
		return c.TotalSpends
	case "visits":
		return float64(c.Visits)
	}
	return 0
}

func stringField(c *models.Customer, field string) string {
	switch field {
	case "name":
		return c.Name
	case "email":
		return c.Email
	}
	return ""
}

func compareNumbers(got, want float64, op string) bool {
	switch op {
	case models.OpGreaterThan:
		return got > want
	case models.OpGreaterOrEq:
		return got >= want
	case models.OpLessThan:
		return got < want
	case models.OpLessOrEq:
		return got <= want
	case models.OpEquals:
		return got == want
	}
	return false
}

func compareDates(got, want time.Time, op string) bool {
	switch op {
	case models.OpGreaterThan:
		return got.After(want)
	case models.OpGreaterOrEq:
		return got.After(want) || got.Equal(want)
	case models.OpLessThan:
		return got.Before(want)
	case models.OpLessOrEq:
		return got.Before(want) || got.Equal(want)
	case models.OpEquals:
		return got.Equal(want)
	}
	return false
}

func compareStrings(got, want, op string) bool {
	switch op {
	case models.OpEquals:
		return got == want
	case models.OpContains:
		return strings.Contains(strings.ToLower(got), strings.ToLower(want))
	case models.OpNotContains:
		return !strings.Contains(strings.ToLower(got), strings.ToLower(want))
	}
	return false
}

// toNumber coerces a rule value into a float64. JSON decoding hands us
// float64; BSON decoding may hand back int32/int64; the rule builder UI
// occasionally sends numeric strings.
func toNumber(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not a number", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("value must be a number, got %T", v)
	}
}

// toDate coerces a rule value into a time.Time. Accepts YYYY-MM-DD (the
// rule builder's format) or RFC 3339.
func toDate(v interface{}) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case primitive.DateTime:
		return d.Time(), nil
	case string:
		if t, err := time.Parse("2006-01-02", d); err == nil {
			return t, nil
		}
		if t, err := time.Parse(time.RFC3339, d); err == nil {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("value %q is not a date (want YYYY-MM-DD or RFC 3339)", d)
	default:
		return time.Time{}, fmt.Errorf("value must be a date, got %T", v)
	}
}
