package db_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"

	dbadapter "github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/db"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/db/dbtest"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/ports"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/predicate"
)

type TaskRepositorySuite struct {
	suite.Suite

	db    *sqlx.DB
	tasks *dbadapter.TaskRepository
	ctx   context.Context
	base  time.Time
}

func TestTaskRepositorySuite(t *testing.T) {
	suite.Run(t, new(TaskRepositorySuite))
}

func (s *TaskRepositorySuite) SetupTest() {
	s.db = dbtest.New(s.T())
	s.tasks = dbadapter.NewTaskRepository(s.db)
	s.ctx = context.Background()
	s.base = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	dbtest.SeedUser(s.T(), s.db, "u-alice", "Alice Martin")
	dbtest.SeedUser(s.T(), s.db, "u-bob", "Bob Stone")
	dbtest.SeedProject(s.T(), s.db, "p-1", "Payroll Revamp", "PRJ-7")
}

func (s *TaskRepositorySuite) newTask(n int) domain.Task {
	created := s.base.Add(time.Duration(n) * time.Minute)
	return domain.Task{
		ID:        fmt.Sprintf("task-%02d", n),
		TaskNo:    fmt.Sprintf("TASK-%06d", n),
		Title:     fmt.Sprintf("Task %d", n),
		Priority:  domain.TaskPriorityMedium,
		Status:    domain.TaskStatusPending,
		CreatedBy: "u-alice",
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func (s *TaskRepositorySuite) TestCreateAndGet_RoundTripsAllFields() {
	note := "Quarterly Figures"
	deadline := s.base.Add(48 * time.Hour)
	project := "p-1"
	assignee := "u-bob"

	task := s.newTask(1)
	task.Note = &note
	task.Deadline = &deadline
	task.ProjectID = &project
	task.AssignedTo = &assignee
	task.Documents = []string{"https://files/a.pdf", "https://files/b.pdf"}
	task.ReminderTimes = domain.NewTimestamps(s.base.Add(time.Hour), s.base.Add(30*time.Minute))

	s.Require().NoError(s.tasks.Create(s.ctx, task))

	got, bucket, err := s.tasks.Get(s.ctx, task.ID)
	s.Require().NoError(err)
	s.Equal(domain.BucketPending, bucket)
	s.Equal(task.TaskNo, got.TaskNo)
	s.Equal(note, *got.Note)
	s.True(deadline.Equal(*got.Deadline))
	s.Equal(task.Documents, got.Documents)
	s.Require().Len(got.ReminderTimes, 2)
	s.True(got.ReminderTimes[0].Before(got.ReminderTimes[1]))
	s.Equal("Alice Martin", *got.CreatorName)
	s.Equal("Bob Stone", *got.AssigneeName)
	s.Equal("PRJ-7", *got.ProjectCode)
	s.False(got.IsSelfTask)
}

func (s *TaskRepositorySuite) TestDocuments_URIsWithCommasSurvive() {
	task := s.newTask(1)
	task.Documents = []string{"https://files/q1,q2.pdf?a=1&b=2", "https://files/b.pdf"}
	s.Require().NoError(s.tasks.Create(s.ctx, task))

	got, err := s.tasks.GetIn(s.ctx, domain.BucketPending, task.ID)
	s.Require().NoError(err)
	s.Equal(task.Documents, got.Documents)

	var stored string
	s.Require().NoError(s.db.Get(&stored, "SELECT documents FROM pending_tasks WHERE id = ?", task.ID))
	s.Equal(`["https://files/q1,q2.pdf?a=1&b=2","https://files/b.pdf"]`, stored)
}

func (s *TaskRepositorySuite) TestDocuments_ReadsCommaJoinedRows() {
	task := s.newTask(1)
	s.Require().NoError(s.tasks.Create(s.ctx, task))
	_, err := s.db.Exec("UPDATE pending_tasks SET documents = ? WHERE id = ?", "a.pdf, b.pdf", task.ID)
	s.Require().NoError(err)

	got, err := s.tasks.GetIn(s.ctx, domain.BucketPending, task.ID)
	s.Require().NoError(err)
	s.Equal([]string{"a.pdf", "b.pdf"}, got.Documents)
}

func (s *TaskRepositorySuite) TestCreate_DuplicateTaskNo() {
	first := s.newTask(1)
	second := s.newTask(2)
	second.TaskNo = first.TaskNo

	s.Require().NoError(s.tasks.Create(s.ctx, first))
	s.ErrorIs(s.tasks.Create(s.ctx, second), domain.ErrDuplicateTaskNo)
}

func (s *TaskRepositorySuite) TestGet_UnknownID() {
	_, _, err := s.tasks.Get(s.ctx, "missing")
	s.ErrorIs(err, domain.ErrTaskNotFound)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *TaskRepositorySuite) TestUpdate_RewritesMutableColumns() {
	task := s.newTask(1)
	s.Require().NoError(s.tasks.Create(s.ctx, task))

	remark := "Done"
	task.Status = domain.TaskStatusReviewPending
	task.Remark = &remark
	task.ReviewTimes = task.ReviewTimes.Append(s.base.Add(time.Hour))
	task.UpdatedAt = s.base.Add(time.Hour)
	s.Require().NoError(s.tasks.Update(s.ctx, task))

	got, err := s.tasks.GetIn(s.ctx, domain.BucketPending, task.ID)
	s.Require().NoError(err)
	s.Equal(domain.TaskStatusReviewPending, got.Status)
	s.Equal("Done", *got.Remark)
	s.Len(got.ReviewTimes, 1)

	missing := s.newTask(9)
	s.ErrorIs(s.tasks.Update(s.ctx, missing), domain.ErrTaskNotFound)
}

func (s *TaskRepositorySuite) TestRelocate_MovesRowAndDetectsReplay() {
	task := s.newTask(1)
	s.Require().NoError(s.tasks.Create(s.ctx, task))

	completedAt := s.base.Add(2 * time.Hour)
	task.Status = domain.TaskStatusCompleted
	task.CompletedAt = &completedAt
	s.Require().NoError(s.tasks.Relocate(s.ctx, task, domain.BucketCompleted))

	got, bucket, err := s.tasks.Get(s.ctx, task.ID)
	s.Require().NoError(err)
	s.Equal(domain.BucketCompleted, bucket)
	s.Equal(task.TaskNo, got.TaskNo)
	s.True(completedAt.Equal(*got.CompletedAt))

	_, err = s.tasks.GetIn(s.ctx, domain.BucketPending, task.ID)
	s.ErrorIs(err, domain.ErrTaskNotFound)

	// A stale pending copy next to an existing completed row.
	stale := s.newTask(1)
	s.Require().NoError(s.tasks.Create(s.ctx, stale))
	s.ErrorIs(s.tasks.Relocate(s.ctx, task, domain.BucketCompleted), domain.ErrDuplicateTaskNo)

	_, err = s.tasks.GetIn(s.ctx, domain.BucketPending, task.ID)
	s.NoError(err, "failed relocation must roll back")
}

func (s *TaskRepositorySuite) TestDelete_RemovesAcceptancesWithPendingRow() {
	task := s.newTask(1)
	s.Require().NoError(s.tasks.Create(s.ctx, task))
	ledger := dbadapter.NewAcceptanceRepository(s.db)
	s.Require().NoError(ledger.CreatePending(s.ctx, task.ID, []string{"u-bob"}))

	s.Require().NoError(s.tasks.Delete(s.ctx, domain.BucketPending, task.ID))

	rows, err := ledger.ListByTask(s.ctx, task.ID)
	s.Require().NoError(err)
	s.Empty(rows)
	s.ErrorIs(s.tasks.Delete(s.ctx, domain.BucketPending, task.ID), domain.ErrTaskNotFound)
}

func (s *TaskRepositorySuite) TestQuery_FiltersAndPages() {
	for i := 1; i <= 5; i++ {
		task := s.newTask(i)
		if i%2 == 0 {
			bob := "u-bob"
			task.AssignedTo = &bob
		}
		s.Require().NoError(s.tasks.Create(s.ctx, task))
	}

	got, total, err := s.tasks.Query(s.ctx, domain.BucketPending, ports.TaskQuery{
		Where: predicate.Eq{Field: predicate.FieldAssignedTo, Value: "u-bob"},
		Sort:  domain.SortOrder{Field: domain.SortCreatedAt},
		Limit: 10,
	})
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Require().Len(got, 2)
	s.Equal("task-02", got[0].ID)
	s.Equal("task-04", got[1].ID)

	got, total, err = s.tasks.Query(s.ctx, domain.BucketPending, ports.TaskQuery{
		Sort:  domain.DefaultSort,
		Skip:  2,
		Limit: 2,
	})
	s.Require().NoError(err)
	s.Equal(5, total)
	s.Require().Len(got, 2)
	s.Equal("task-03", got[0].ID)
	s.Equal("task-02", got[1].ID)
}

func (s *TaskRepositorySuite) TestQuery_SearchMatchesJoinedNamesCaseInsensitively() {
	s.Require().NoError(s.tasks.Create(s.ctx, s.newTask(1)))

	got, total, err := s.tasks.Query(s.ctx, domain.BucketPending, ports.TaskQuery{
		Where: predicate.Contains{Field: predicate.FieldCreatorName, Value: "alice m"},
		Sort:  domain.DefaultSort,
		Limit: 10,
	})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Len(got, 1)

	_, total, err = s.tasks.Query(s.ctx, domain.BucketPending, ports.TaskQuery{
		Where: predicate.Contains{Field: predicate.FieldTitle, Value: "100%"},
		Sort:  domain.DefaultSort,
		Limit: 10,
	})
	s.Require().NoError(err)
	s.Zero(total)
}

func (s *TaskRepositorySuite) TestQuery_DeadlineNullsLastInBothDirections() {
	for i := 1; i <= 3; i++ {
		task := s.newTask(i)
		if i != 2 {
			d := s.base.Add(time.Duration(i) * 24 * time.Hour)
			task.Deadline = &d
		}
		s.Require().NoError(s.tasks.Create(s.ctx, task))
	}

	for _, desc := range []bool{false, true} {
		got, _, err := s.tasks.Query(s.ctx, domain.BucketPending, ports.TaskQuery{
			Sort:  domain.SortOrder{Field: domain.SortDeadline, Desc: desc},
			Limit: 10,
		})
		s.Require().NoError(err)
		s.Require().Len(got, 3)
		s.Nil(got[2].Deadline)
	}
}

func (s *TaskRepositorySuite) TestQuery_TitleUsesNaturalOrder() {
	for i, title := range []string{"Task 10", "task 9", "Task 2"} {
		task := s.newTask(i + 1)
		task.Title = title
		s.Require().NoError(s.tasks.Create(s.ctx, task))
	}

	got, total, err := s.tasks.Query(s.ctx, domain.BucketPending, ports.TaskQuery{
		Sort:  domain.SortOrder{Field: domain.SortTitle},
		Skip:  1,
		Limit: 2,
	})
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Require().Len(got, 2)
	s.Equal("task 9", got[0].Title)
	s.Equal("Task 10", got[1].Title)
}
