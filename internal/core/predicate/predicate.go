// Package predicate is a small typed boolean expression tree over task
// attributes. Builders produce it, the SQL adapter and Match interpret it.
package predicate

import (
	"fmt"
	"strings"
)

type Field string

const (
	FieldID            Field = "id"
	FieldTaskNo        Field = "taskNo"
	FieldTitle         Field = "title"
	FieldNote          Field = "note"
	FieldRemark        Field = "remark"
	FieldDocuments     Field = "documents"
	FieldStatus        Field = "status"
	FieldPriority      Field = "priority"
	FieldIsSelfTask    Field = "isSelfTask"
	FieldProjectID     Field = "projectId"
	FieldCreatedBy     Field = "createdBy"
	FieldAssignedTo    Field = "assignedTo"
	FieldWorkingBy     Field = "workingBy"
	FieldTargetTeamID  Field = "targetTeamId"
	FieldTargetGroupID Field = "targetGroupId"
	FieldDeadline      Field = "deadline"
	FieldProjectName   Field = "projectName"
	FieldProjectCode   Field = "projectCode"
	FieldAssigneeName  Field = "assigneeName"
	FieldCreatorName   Field = "creatorName"
)

// Expr is implemented by every node of the tree.
type Expr interface {
	isExpr()
	String() string
}

// Eq matches field = value. Value is a string, bool or time.Time.
type Eq struct {
	Field Field
	Value any
}

// In matches field ∈ values; an empty list matches nothing.
type In struct {
	Field  Field
	Values []string
}

// Contains is a case-insensitive substring match.
type Contains struct {
	Field Field
	Value string
}

// Prefix is a case-sensitive prefix match used for codes.
type Prefix struct {
	Field Field
	Value string
}

type IsNull struct {
	Field Field
}

// Range bounds a time field; nil bounds are open.
type Range struct {
	Field Field
	From  any
	To    any
}

type And struct {
	Exprs []Expr
}

type Or struct {
	Exprs []Expr
}

type Not struct {
	Expr Expr
}

func (Eq) isExpr()       {}
func (In) isExpr()       {}
func (Contains) isExpr() {}
func (Prefix) isExpr()   {}
func (IsNull) isExpr()   {}
func (Range) isExpr()    {}
func (And) isExpr()      {}
func (Or) isExpr()       {}
func (Not) isExpr()      {}

func (e Eq) String() string       { return fmt.Sprintf("%s = %v", e.Field, e.Value) }
func (e In) String() string       { return fmt.Sprintf("%s IN [%s]", e.Field, strings.Join(e.Values, ",")) }
func (e Contains) String() string { return fmt.Sprintf("%s ~ %q", e.Field, e.Value) }
func (e Prefix) String() string   { return fmt.Sprintf("%s ^= %q", e.Field, e.Value) }
func (e IsNull) String() string   { return fmt.Sprintf("%s IS NULL", e.Field) }
func (e Range) String() string    { return fmt.Sprintf("%s IN [%v, %v]", e.Field, e.From, e.To) }
func (e Not) String() string      { return "NOT (" + e.Expr.String() + ")" }
func (e And) String() string      { return join("AND", e.Exprs) }
func (e Or) String() string       { return join("OR", e.Exprs) }

func join(op string, exprs []Expr) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, "("+e.String()+")")
	}
	return strings.Join(parts, " "+op+" ")
}

// AllOf builds a conjunction, dropping nil operands and flattening single items.
func AllOf(exprs ...Expr) Expr {
	kept := compact(exprs)
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return And{Exprs: kept}
}

// AnyOf builds a disjunction, dropping nil operands and flattening single items.
func AnyOf(exprs ...Expr) Expr {
	kept := compact(exprs)
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return Or{Exprs: kept}
}

// NotEqOrNull matches rows where field is absent or differs from value.
func NotEqOrNull(field Field, value string) Expr {
	return Or{Exprs: []Expr{Not{Expr: Eq{Field: field, Value: value}}, IsNull{Field: field}}}
}

func compact(exprs []Expr) []Expr {
	kept := make([]Expr, 0, len(exprs))
	for _, e := range exprs {
		if e != nil {
			kept = append(kept, e)
		}
	}
	return kept
}
