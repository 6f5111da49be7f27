package predicate

import (
	"strings"
	"time"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
)

// truth is SQL three-valued logic, so Match agrees with the SQL adapter on NULLs.
type truth int8

const (
	tFalse truth = iota
	tTrue
	tUnknown
)

// Match evaluates expr against a task in memory. A nil expr matches everything.
func Match(expr Expr, task domain.Task) bool {
	if expr == nil {
		return true
	}
	return eval(expr, task) == tTrue
}

func eval(expr Expr, task domain.Task) truth {
	switch e := expr.(type) {
	case Eq:
		v, ok := Value(task, e.Field)
		if !ok {
			return tUnknown
		}
		return of(equal(v, e.Value))
	case In:
		if len(e.Values) == 0 {
			return tFalse
		}
		v, ok := Value(task, e.Field)
		if !ok {
			return tUnknown
		}
		for _, candidate := range e.Values {
			if equal(v, candidate) {
				return tTrue
			}
		}
		return tFalse
	case Contains:
		v, ok := Value(task, e.Field)
		if !ok {
			return tUnknown
		}
		s, _ := v.(string)
		return of(strings.Contains(strings.ToLower(s), strings.ToLower(e.Value)))
	case Prefix:
		v, ok := Value(task, e.Field)
		if !ok {
			return tUnknown
		}
		s, _ := v.(string)
		return of(strings.HasPrefix(s, e.Value))
	case IsNull:
		_, ok := Value(task, e.Field)
		return of(!ok)
	case Range:
		v, ok := Value(task, e.Field)
		if !ok {
			return tUnknown
		}
		t, _ := v.(time.Time)
		if from, isTime := e.From.(time.Time); isTime && t.Before(from) {
			return tFalse
		}
		if to, isTime := e.To.(time.Time); isTime && t.After(to) {
			return tFalse
		}
		return tTrue
	case And:
		result := tTrue
		for _, sub := range e.Exprs {
			switch eval(sub, task) {
			case tFalse:
				return tFalse
			case tUnknown:
				result = tUnknown
			}
		}
		return result
	case Or:
		result := tFalse
		for _, sub := range e.Exprs {
			switch eval(sub, task) {
			case tTrue:
				return tTrue
			case tUnknown:
				result = tUnknown
			}
		}
		return result
	case Not:
		switch eval(e.Expr, task) {
		case tTrue:
			return tFalse
		case tFalse:
			return tTrue
		}
		return tUnknown
	}
	return tFalse
}

func of(b bool) truth {
	if b {
		return tTrue
	}
	return tFalse
}

func equal(a, b any) bool {
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	return a == b
}

// Value reads a field from a task. The second result is false when the column
// would be NULL.
func Value(task domain.Task, field Field) (any, bool) {
	switch field {
	case FieldID:
		return task.ID, true
	case FieldTaskNo:
		return task.TaskNo, true
	case FieldTitle:
		return task.Title, true
	case FieldNote:
		return deref(task.Note)
	case FieldRemark:
		return deref(task.Remark)
	case FieldDocuments:
		if len(task.Documents) == 0 {
			return nil, false
		}
		return strings.Join(task.Documents, "\n"), true
	case FieldStatus:
		return string(task.Status), true
	case FieldPriority:
		return string(task.Priority), true
	case FieldIsSelfTask:
		return task.IsSelfTask, true
	case FieldProjectID:
		return deref(task.ProjectID)
	case FieldCreatedBy:
		return task.CreatedBy, true
	case FieldAssignedTo:
		return deref(task.AssignedTo)
	case FieldWorkingBy:
		return deref(task.WorkingBy)
	case FieldTargetTeamID:
		return deref(task.TargetTeamID)
	case FieldTargetGroupID:
		return deref(task.TargetGroupID)
	case FieldDeadline:
		if task.Deadline == nil {
			return nil, false
		}
		return *task.Deadline, true
	case FieldProjectName:
		return deref(task.ProjectName)
	case FieldProjectCode:
		return deref(task.ProjectCode)
	case FieldAssigneeName:
		return deref(task.AssigneeName)
	case FieldCreatorName:
		return deref(task.CreatorName)
	}
	return nil, false
}

func deref(s *string) (any, bool) {
	if s == nil {
		return nil, false
	}
	return *s, true
}
