// Package filter translates AIP-160 battle record filters into SQL.
package filter

import (
	"fmt"
	"strings"
	"time"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Condition is a SQL WHERE fragment with positional parameters.
type Condition struct {
	Clause string
	Params []any
}

// Empty reports whether the condition filters nothing.
func (c Condition) Empty() bool {
	return c.Clause == ""
}

// columns maps filter identifiers to battle_records columns.
var columns = map[string]string{
	"outcome":      "outcome",
	"difficulty":   "difficulty",
	"ai_level":     "ai_level",
	"rounds":       "rounds",
	"damage_dealt": "damage_dealt",
	"damage_taken": "damage_taken",
	"flawless":     "flawless",
	"wizard_id":    "wizard_id",
	"new_spell":    "new_spell",
	"ended_at":     "ended_at",
}

var booleans = map[string]bool{"flawless": true}

var operators = map[string]string{
	"=":  "=",
	"!=": "!=",
	"<":  "<",
	"<=": "<=",
	">":  ">",
	">=": ">=",
}

// Declarations returns the identifiers a record filter may reference.
func Declarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("outcome", filtering.TypeString),
		filtering.DeclareIdent("difficulty", filtering.TypeString),
		filtering.DeclareIdent("ai_level", filtering.TypeInt),
		filtering.DeclareIdent("rounds", filtering.TypeInt),
		filtering.DeclareIdent("damage_dealt", filtering.TypeInt),
		filtering.DeclareIdent("damage_taken", filtering.TypeInt),
		filtering.DeclareIdent("flawless", filtering.TypeBool),
		filtering.DeclareIdent("wizard_id", filtering.TypeString),
		filtering.DeclareIdent("new_spell", filtering.TypeString),
		filtering.DeclareIdent("ended_at", filtering.TypeTimestamp),
	)
}

// Parse parses a filter expression. Blank input yields an empty condition.
//
// Example: outcome = "victory" AND ai_level >= 3 AND flawless
func Parse(filter string) (Condition, error) {
	if strings.TrimSpace(filter) == "" {
		return Condition{}, nil
	}
	decls, err := Declarations()
	if err != nil {
		return Condition{}, fmt.Errorf("create declarations: %w", err)
	}
	parsed, err := filtering.ParseFilterString(filter, decls)
	if err != nil {
		return Condition{}, fmt.Errorf("parse filter: %w", err)
	}
	return translate(parsed.CheckedExpr.GetExpr())
}

func translate(e *expr.Expr) (Condition, error) {
	// Boolean fields stand alone: the filter grammar has no boolean literals.
	if ident := e.GetIdentExpr(); ident != nil {
		if !booleans[ident.GetName()] {
			return Condition{}, fmt.Errorf("field %s is not boolean", ident.GetName())
		}
		return Condition{Clause: columns[ident.GetName()] + " = ?", Params: []any{true}}, nil
	}
	call := e.GetCallExpr()
	if call == nil {
		return Condition{}, fmt.Errorf("unsupported expression: %T", e.GetExprKind())
	}
	switch call.GetFunction() {
	case filtering.FunctionAnd:
		return join(call.GetArgs(), "AND")
	case filtering.FunctionOr:
		return join(call.GetArgs(), "OR")
	case filtering.FunctionNot:
		if len(call.GetArgs()) != 1 {
			return Condition{}, fmt.Errorf("NOT requires 1 argument")
		}
		inner, err := translate(call.GetArgs()[0])
		if err != nil {
			return Condition{}, err
		}
		return Condition{Clause: "NOT " + inner.Clause, Params: inner.Params}, nil
	}
	op, ok := operators[call.GetFunction()]
	if !ok {
		return Condition{}, fmt.Errorf("unsupported function: %s", call.GetFunction())
	}
	return compare(call.GetArgs(), op)
}

func join(args []*expr.Expr, keyword string) (Condition, error) {
	if len(args) != 2 {
		return Condition{}, fmt.Errorf("%s requires 2 arguments", keyword)
	}
	left, err := translate(args[0])
	if err != nil {
		return Condition{}, err
	}
	right, err := translate(args[1])
	if err != nil {
		return Condition{}, err
	}
	return Condition{
		Clause: fmt.Sprintf("(%s %s %s)", left.Clause, keyword, right.Clause),
		Params: append(left.Params, right.Params...),
	}, nil
}

func compare(args []*expr.Expr, op string) (Condition, error) {
	if len(args) != 2 {
		return Condition{}, fmt.Errorf("comparison requires 2 arguments")
	}
	ident := args[0].GetIdentExpr()
	if ident == nil {
		return Condition{}, fmt.Errorf("expected identifier, got %T", args[0].GetExprKind())
	}
	column, ok := columns[ident.GetName()]
	if !ok {
		return Condition{}, fmt.Errorf("unknown field: %s", ident.GetName())
	}
	value, err := literal(args[1])
	if err != nil {
		return Condition{}, err
	}
	return Condition{Clause: fmt.Sprintf("%s %s ?", column, op), Params: []any{value}}, nil
}

func literal(e *expr.Expr) (any, error) {
	if call := e.GetCallExpr(); call != nil {
		if call.GetFunction() == filtering.FunctionTimestamp && len(call.GetArgs()) == 1 {
			return timestamp(call.GetArgs()[0])
		}
		return nil, fmt.Errorf("unsupported function in value position: %s", call.GetFunction())
	}
	c := e.GetConstExpr()
	if c == nil {
		return nil, fmt.Errorf("expected constant, got %T", e.GetExprKind())
	}
	switch kind := c.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	case *expr.Constant_DoubleValue:
		return kind.DoubleValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}

// timestamp converts a timestamp("...") argument to unix milliseconds, the
// storage format of ended_at.
func timestamp(e *expr.Expr) (int64, error) {
	value := e.GetConstExpr().GetStringValue()
	if value == "" {
		return 0, fmt.Errorf("timestamp argument must be a constant string")
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp format: %s", value)
	}
	return t.UTC().UnixMilli(), nil
}
