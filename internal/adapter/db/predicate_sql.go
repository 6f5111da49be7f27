package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/predicate"
)

var columns = map[predicate.Field]string{
	predicate.FieldID:            "t.id",
	predicate.FieldTaskNo:        "t.task_no",
	predicate.FieldTitle:         "t.title",
	predicate.FieldNote:          "t.note",
	predicate.FieldRemark:        "t.remark",
	predicate.FieldDocuments:     "t.documents",
	predicate.FieldStatus:        "t.status",
	predicate.FieldPriority:      "t.priority",
	predicate.FieldIsSelfTask:    "t.is_self_task",
	predicate.FieldProjectID:     "t.project_id",
	predicate.FieldCreatedBy:     "t.created_by",
	predicate.FieldAssignedTo:    "t.assigned_to",
	predicate.FieldWorkingBy:     "t.working_by",
	predicate.FieldTargetTeamID:  "t.target_team_id",
	predicate.FieldTargetGroupID: "t.target_group_id",
	predicate.FieldDeadline:      "t.deadline",
	predicate.FieldProjectName:   "p.name",
	predicate.FieldProjectCode:   "p.code",
	predicate.FieldAssigneeName:  "ua.name",
	predicate.FieldCreatorName:   "uc.name",
}

// likeEscape is accepted verbatim by both MySQL and SQLite.
const likeEscape = "!"

// sqlWhere renders expr as a parameterised boolean expression. A nil expr
// yields "1=1".
func sqlWhere(expr predicate.Expr) (string, []any, error) {
	if expr == nil {
		return "1=1", nil, nil
	}
	w := &whereWriter{}
	if err := w.write(expr); err != nil {
		return "", nil, err
	}
	return w.sb.String(), w.args, nil
}

type whereWriter struct {
	sb   strings.Builder
	args []any
}

func (w *whereWriter) write(expr predicate.Expr) error {
	switch e := expr.(type) {
	case predicate.Eq:
		col, err := column(e.Field)
		if err != nil {
			return err
		}
		w.sb.WriteString(col + " = ?")
		w.args = append(w.args, bindValue(e.Value))
	case predicate.In:
		if len(e.Values) == 0 {
			w.sb.WriteString("1=0")
			return nil
		}
		col, err := column(e.Field)
		if err != nil {
			return err
		}
		w.sb.WriteString(col + " IN (" + strings.TrimSuffix(strings.Repeat("?, ", len(e.Values)), ", ") + ")")
		for _, v := range e.Values {
			w.args = append(w.args, v)
		}
	case predicate.Contains:
		col, err := column(e.Field)
		if err != nil {
			return err
		}
		w.sb.WriteString("LOWER(" + col + ") LIKE ? ESCAPE '" + likeEscape + "'")
		w.args = append(w.args, "%"+escapeLike(strings.ToLower(e.Value))+"%")
	case predicate.Prefix:
		col, err := column(e.Field)
		if err != nil {
			return err
		}
		w.sb.WriteString(col + " LIKE ? ESCAPE '" + likeEscape + "'")
		w.args = append(w.args, escapeLike(e.Value)+"%")
	case predicate.IsNull:
		col, err := column(e.Field)
		if err != nil {
			return err
		}
		w.sb.WriteString(col + " IS NULL")
	case predicate.Range:
		col, err := column(e.Field)
		if err != nil {
			return err
		}
		var parts []string
		if e.From != nil {
			parts = append(parts, col+" >= ?")
			w.args = append(w.args, bindValue(e.From))
		}
		if e.To != nil {
			parts = append(parts, col+" <= ?")
			w.args = append(w.args, bindValue(e.To))
		}
		if len(parts) == 0 {
			parts = append(parts, col+" IS NOT NULL")
		}
		w.sb.WriteString(strings.Join(parts, " AND "))
	case predicate.And:
		return w.group(" AND ", e.Exprs, "1=1")
	case predicate.Or:
		return w.group(" OR ", e.Exprs, "1=0")
	case predicate.Not:
		w.sb.WriteString("NOT (")
		if err := w.write(e.Expr); err != nil {
			return err
		}
		w.sb.WriteString(")")
	default:
		return fmt.Errorf("unsupported predicate %T", expr)
	}
	return nil
}

func (w *whereWriter) group(op string, exprs []predicate.Expr, empty string) error {
	if len(exprs) == 0 {
		w.sb.WriteString(empty)
		return nil
	}
	w.sb.WriteString("(")
	for i, sub := range exprs {
		if i > 0 {
			w.sb.WriteString(op)
		}
		w.sb.WriteString("(")
		if err := w.write(sub); err != nil {
			return err
		}
		w.sb.WriteString(")")
	}
	w.sb.WriteString(")")
	return nil
}

func column(field predicate.Field) (string, error) {
	col, ok := columns[field]
	if !ok {
		return "", fmt.Errorf("unknown predicate field %q", field)
	}
	return col, nil
}

func bindValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return dbTime(t)
	}
	return v
}

func escapeLike(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return r.Replace(s)
}
