// Package visibility decides which tasks an actor may list. It is pure: the
// caller resolves the actor's groups beforehand.
package visibility

import (
	"strings"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/predicate"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/textnorm"
)

// Plan is a built listing query: which tables to read and the predicate rows
// must satisfy in each of them.
type Plan struct {
	Scope domain.Scope
	Where predicate.Expr
	Sort  domain.SortOrder
}

// Build turns an actor and a filter into a Plan.
func Build(actor domain.Actor, filter domain.TaskFilter) (Plan, error) {
	view := filter.ViewMode
	if view == "" {
		view = domain.ViewAll
	}
	if !view.Valid() {
		return Plan{}, domain.Validation("unknown view mode %q", view)
	}
	for _, s := range filter.Statuses {
		if !s.Valid() {
			return Plan{}, domain.Validation("unknown status %q", s)
		}
	}

	statuses, clause := viewClause(view, actor, filter.Statuses)
	sort := filter.Sort
	if sort.Field == "" {
		sort = domain.DefaultSort
	}
	if !sort.Field.Valid() {
		return Plan{}, domain.Validation("unknown sort field %q", sort.Field)
	}

	where := predicate.AllOf(
		statusClause(statuses),
		clause,
		SearchClause(filter.Search),
		freeClauses(filter),
	)

	return Plan{
		Scope: Classify(statuses),
		Where: where,
		Sort:  sort,
	}, nil
}

// viewClause applies the view-mode presets in fixed precedence; the first
// matching mode wins and replaces the default visibility clause.
func viewClause(view domain.ViewMode, actor domain.Actor, requested []domain.TaskStatus) ([]domain.TaskStatus, predicate.Expr) {
	u := actor.ID
	switch view {
	case domain.ViewMyPending:
		return []domain.TaskStatus{domain.TaskStatusPending}, predicate.AnyOf(
			predicate.Eq{Field: predicate.FieldAssignedTo, Value: u},
			predicate.AllOf(
				predicate.IsNull{Field: predicate.FieldAssignedTo},
				predicate.Eq{Field: predicate.FieldTargetTeamID, Value: u},
			),
		)
	case domain.ViewTeamPending:
		return []domain.TaskStatus{domain.TaskStatusPending}, predicate.AllOf(
			predicate.Eq{Field: predicate.FieldIsSelfTask, Value: false},
			predicate.Eq{Field: predicate.FieldCreatedBy, Value: u},
			predicate.NotEqOrNull(predicate.FieldAssignedTo, u),
			predicate.NotEqOrNull(predicate.FieldTargetTeamID, u),
		)
	case domain.ViewMyCompleted:
		return []domain.TaskStatus{domain.TaskStatusCompleted},
			predicate.Eq{Field: predicate.FieldWorkingBy, Value: u}
	case domain.ViewTeamCompleted:
		return []domain.TaskStatus{domain.TaskStatusCompleted}, predicate.AllOf(
			predicate.Eq{Field: predicate.FieldCreatedBy, Value: u},
			predicate.Eq{Field: predicate.FieldIsSelfTask, Value: false},
			predicate.NotEqOrNull(predicate.FieldWorkingBy, u),
		)
	case domain.ViewReviewPendingByMe:
		return []domain.TaskStatus{domain.TaskStatusReviewPending},
			predicate.Eq{Field: predicate.FieldCreatedBy, Value: u}
	case domain.ViewReviewPendingByTeam:
		return []domain.TaskStatus{domain.TaskStatusReviewPending}, predicate.AllOf(
			predicate.Eq{Field: predicate.FieldWorkingBy, Value: u},
			predicate.Eq{Field: predicate.FieldIsSelfTask, Value: false},
			predicate.Not{Expr: predicate.Eq{Field: predicate.FieldCreatedBy, Value: u}},
		)
	}

	if actor.Role.Privileged() {
		return requested, nil
	}
	return requested, DefaultClause(actor)
}

// DefaultClause is the visibility of an ordinary actor outside any preset view.
func DefaultClause(actor domain.Actor) predicate.Expr {
	u := actor.ID
	return predicate.AnyOf(
		predicate.Eq{Field: predicate.FieldCreatedBy, Value: u},
		predicate.Eq{Field: predicate.FieldAssignedTo, Value: u},
		predicate.Eq{Field: predicate.FieldWorkingBy, Value: u},
		predicate.Eq{Field: predicate.FieldTargetTeamID, Value: u},
		predicate.AllOf(
			predicate.IsNull{Field: predicate.FieldAssignedTo},
			predicate.In{Field: predicate.FieldTargetGroupID, Values: actor.GroupIDs},
		),
	)
}

// CanView reports whether actor may open task directly.
func CanView(actor domain.Actor, task domain.Task) bool {
	if actor.Role.Privileged() {
		return true
	}
	return predicate.Match(DefaultClause(actor), task)
}

// Classify decides which tables a status filter touches.
func Classify(statuses []domain.TaskStatus) domain.Scope {
	var pending, completed bool
	for _, s := range statuses {
		if s == domain.TaskStatusCompleted {
			completed = true
		} else {
			pending = true
		}
	}
	switch {
	case pending && !completed:
		return domain.ScopePending
	case completed && !pending:
		return domain.ScopeCompleted
	}
	return domain.ScopeMixed
}

func statusClause(statuses []domain.TaskStatus) predicate.Expr {
	if len(statuses) == 0 {
		return nil
	}
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}
	if len(values) == 1 {
		return predicate.Eq{Field: predicate.FieldStatus, Value: values[0]}
	}
	return predicate.In{Field: predicate.FieldStatus, Values: values}
}

var searchFields = []predicate.Field{
	predicate.FieldTitle,
	predicate.FieldTaskNo,
	predicate.FieldNote,
	predicate.FieldRemark,
	predicate.FieldDocuments,
	predicate.FieldProjectName,
	predicate.FieldAssigneeName,
	predicate.FieldCreatorName,
}

// SearchClause expands one free-text token into an OR over the searchable
// columns, both as typed and title-cased, plus code matches for code-like tokens.
func SearchClause(raw string) predicate.Expr {
	token := strings.TrimSpace(raw)
	if token == "" {
		return nil
	}

	variants := []string{token}
	if titled := textnorm.TitleCase(token); titled != token {
		variants = append(variants, titled)
	}

	var exprs []predicate.Expr
	for _, v := range variants {
		for _, f := range searchFields {
			exprs = append(exprs, predicate.Contains{Field: f, Value: v})
		}
	}

	if textnorm.LooksLikeCode(token) {
		code := strings.ToUpper(token)
		exprs = append(exprs,
			predicate.Eq{Field: predicate.FieldTaskNo, Value: code},
			predicate.Prefix{Field: predicate.FieldTaskNo, Value: code},
			predicate.Prefix{Field: predicate.FieldProjectCode, Value: code},
		)
	}
	return predicate.AnyOf(exprs...)
}

func freeClauses(filter domain.TaskFilter) predicate.Expr {
	var exprs []predicate.Expr
	if filter.Priority != nil {
		exprs = append(exprs, predicate.Eq{Field: predicate.FieldPriority, Value: string(*filter.Priority)})
	}
	if filter.ProjectID != nil {
		exprs = append(exprs, predicate.Eq{Field: predicate.FieldProjectID, Value: *filter.ProjectID})
	}
	if filter.CreatedBy != nil {
		exprs = append(exprs, predicate.Eq{Field: predicate.FieldCreatedBy, Value: *filter.CreatedBy})
	}
	if filter.AssignedTo != nil {
		exprs = append(exprs, predicate.Eq{Field: predicate.FieldAssignedTo, Value: *filter.AssignedTo})
	}
	if filter.DeadlineFrom != nil || filter.DeadlineTo != nil {
		r := predicate.Range{Field: predicate.FieldDeadline}
		if filter.DeadlineFrom != nil {
			r.From = *filter.DeadlineFrom
		}
		if filter.DeadlineTo != nil {
			r.To = *filter.DeadlineTo
		}
		exprs = append(exprs, r)
	}
	return predicate.AllOf(exprs...)
}
