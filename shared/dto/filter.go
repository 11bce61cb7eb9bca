package dto

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

// Operator is the SQL comparison a Filter applies.
type Operator string

const (
	OperatorEq        Operator = "="
	OperatorGreaterEq Operator = ">="
	OperatorLessEq    Operator = "<="
	OperatorIn        Operator = "IN"
)

const (
	GroupAnd = "AND"
	GroupOr  = "OR"
)

// Filter compares one column with a bound value. ArgName defaults to Field
// and must be unique within the group it is rendered in.
type Filter struct {
	Table    string
	Field    string
	ArgName  string
	Operator Operator
	Value    any
}

func (f Filter) column() string {
	if f.Table == "" {
		return f.Field
	}

	return f.Table + "." + f.Field
}

func (f Filter) argName() string {
	if f.ArgName == "" {
		return f.Field
	}

	return f.ArgName
}

// Clause renders the filter with named sqlx parameters. IN binds one
// parameter per element and an empty list matches nothing. An unknown
// operator renders nothing.
func (f Filter) Clause() (string, map[string]any) {
	args := map[string]any{}
	name := f.argName()

	switch f.Operator {
	case OperatorEq, OperatorGreaterEq, OperatorLessEq:
		args[name] = f.Value

		return fmt.Sprintf("%s %s :%s", f.column(), f.Operator, name), args
	case OperatorIn:
		values := reflect.ValueOf(f.Value)
		if values.Kind() != reflect.Slice && values.Kind() != reflect.Array {
			return "", args
		}

		if values.Len() == 0 {
			return "FALSE", args
		}

		params := make([]string, values.Len())

		for i := range values.Len() {
			key := fmt.Sprintf("%s_%d", name, i)
			args[key] = values.Index(i).Interface()
			params[i] = ":" + key
		}

		return fmt.Sprintf("%s IN (%s)", f.column(), strings.Join(params, ", ")), args
	default:
		return "", args
	}
}

// FilterGroup joins its filters and nested groups with Operator, AND when unset.
type FilterGroup struct {
	Operator string
	Filters  []Filter
	Groups   []FilterGroup
}

func (g FilterGroup) Clause() (string, map[string]any) {
	args := map[string]any{}
	clauses := []string{}

	add := func(clause string, clauseArgs map[string]any) {
		if clause == "" {
			return
		}

		clauses = append(clauses, clause)
		maps.Copy(args, clauseArgs)
	}

	for _, filter := range g.Filters {
		add(filter.Clause())
	}

	for _, group := range g.Groups {
		add(group.Clause())
	}

	if len(clauses) == 0 {
		return "", args
	}

	operator := g.Operator
	if operator == "" {
		operator = GroupAnd
	}

	return "(" + strings.Join(clauses, " "+operator+" ") + ")", args
}
