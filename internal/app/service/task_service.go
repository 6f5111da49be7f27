package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/app/lifecycle"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/ordering"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/ports"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/visibility"
)

const (
	listCachePrefix  = "tasks:list:"
	taskCachePattern = "tasks:*"
)

type TaskService struct {
	engine     *lifecycle.Engine
	tasks      ports.TaskRepository
	ledger     ports.AcceptanceLedger
	directory  ports.Directory
	activities ports.ActivityReader
	dispatcher ports.EventDispatcher
	cache      ports.Cache
}

type Dependencies struct {
	Engine     *lifecycle.Engine
	Tasks      ports.TaskRepository
	Ledger     ports.AcceptanceLedger
	Directory  ports.Directory
	Activities ports.ActivityReader
	Dispatcher ports.EventDispatcher
	Cache      ports.Cache
}

func NewTaskService(deps Dependencies) *TaskService {
	return &TaskService{
		engine:     deps.Engine,
		tasks:      deps.Tasks,
		ledger:     deps.Ledger,
		directory:  deps.Directory,
		activities: deps.Activities,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
	}
}

var _ ports.TaskService = (*TaskService)(nil)

func (s *TaskService) Create(ctx context.Context, actor domain.Actor, in domain.CreateTaskInput) (domain.Task, error) {
	outcome, err := s.engine.Create(ctx, actor, in)
	return s.commit(ctx, outcome, err)
}

func (s *TaskService) Update(ctx context.Context, actor domain.Actor, id string, in domain.UpdateTaskInput) (domain.Task, error) {
	outcome, err := s.engine.Update(ctx, actor, id, in)
	return s.commit(ctx, outcome, err)
}

func (s *TaskService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	outcome, err := s.engine.Delete(ctx, actor, id)
	_, err = s.commit(ctx, outcome, err)
	return err
}

func (s *TaskService) SubmitForReview(ctx context.Context, actor domain.Actor, id string, in domain.WorkInput) (domain.Task, error) {
	outcome, err := s.engine.SubmitForReview(ctx, actor, id, in)
	return s.commit(ctx, outcome, err)
}

func (s *TaskService) Reject(ctx context.Context, actor domain.Actor, id string, in domain.WorkInput) (domain.Task, error) {
	outcome, err := s.engine.Reject(ctx, actor, id, in)
	return s.commit(ctx, outcome, err)
}

func (s *TaskService) Finalize(ctx context.Context, actor domain.Actor, id string, in domain.WorkInput) (domain.Task, error) {
	outcome, err := s.engine.Finalize(ctx, actor, id, in)
	return s.commit(ctx, outcome, err)
}

func (s *TaskService) Revert(ctx context.Context, actor domain.Actor, id string) (domain.Task, error) {
	outcome, err := s.engine.Revert(ctx, actor, id)
	return s.commit(ctx, outcome, err)
}

func (s *TaskService) SendReminder(ctx context.Context, actor domain.Actor, id string) (domain.Task, error) {
	outcome, err := s.engine.SendReminder(ctx, actor, id)
	return s.commit(ctx, outcome, err)
}

func (s *TaskService) UpdateAcceptance(
	ctx context.Context,
	actor domain.Actor,
	acceptanceID string,
	status domain.AcceptanceStatus,
) (domain.Task, error) {
	outcome, err := s.engine.UpdateAcceptance(ctx, actor, acceptanceID, status)
	return s.commit(ctx, outcome, err)
}

// commit hands the transition's events to the dispatcher and drops cached
// listings. Neither step can fail the transition.
func (s *TaskService) commit(ctx context.Context, outcome domain.Outcome, err error) (domain.Task, error) {
	if err != nil {
		return domain.Task{}, err
	}
	if s.dispatcher != nil {
		s.dispatcher.Dispatch(ctx, outcome.Events)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, taskCachePattern); err != nil {
			zap.L().Warn("task cache invalidation failed", zap.Error(err))
		}
	}
	return outcome.Task, nil
}

func (s *TaskService) FindAll(
	ctx context.Context,
	actor domain.Actor,
	page domain.Pagination,
	filter domain.TaskFilter,
) (domain.TaskPage, error) {
	actor, err := s.withGroups(ctx, actor)
	if err != nil {
		return domain.TaskPage{}, err
	}
	plan, err := visibility.Build(actor, filter)
	if err != nil {
		return domain.TaskPage{}, err
	}
	page = page.Normalize()

	key := listCacheKey(actor, page, filter)
	var cached domain.TaskPage
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
			zap.L().Warn("task cache read failed", zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	result, err := s.list(ctx, plan, page)
	if err != nil {
		return domain.TaskPage{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result); err != nil {
			zap.L().Warn("task cache write failed", zap.Error(err))
		}
	}
	return result, nil
}

func (s *TaskService) list(ctx context.Context, plan visibility.Plan, page domain.Pagination) (domain.TaskPage, error) {
	skip := page.Skip()
	result := domain.TaskPage{Page: page.Page, Limit: page.Limit}

	switch plan.Scope {
	case domain.ScopePending, domain.ScopeCompleted:
		bucket := domain.BucketPending
		if plan.Scope == domain.ScopeCompleted {
			bucket = domain.BucketCompleted
		}
		items, total, err := s.tasks.Query(ctx, bucket, ports.TaskQuery{
			Where: plan.Where,
			Sort:  plan.Sort,
			Skip:  skip,
			Limit: page.Limit,
		})
		if err != nil {
			return domain.TaskPage{}, err
		}
		result.Items, result.Total = items, total
		return result, nil
	}

	// Each table contributes its first skip+limit rows; the window of the
	// union lies within them.
	head := ports.TaskQuery{Where: plan.Where, Sort: plan.Sort, Limit: skip + page.Limit}
	pending, pendingTotal, err := s.tasks.Query(ctx, domain.BucketPending, head)
	if err != nil {
		return domain.TaskPage{}, err
	}
	completed, completedTotal, err := s.tasks.Query(ctx, domain.BucketCompleted, head)
	if err != nil {
		return domain.TaskPage{}, err
	}

	result.Items = ordering.Merge(plan.Sort, skip, page.Limit, pending, completed)
	result.Total = pendingTotal + completedTotal
	return result, nil
}

func (s *TaskService) FindByID(ctx context.Context, actor domain.Actor, id string) (domain.Task, error) {
	task, _, err := s.tasks.Get(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	actor, err = s.withGroups(ctx, actor)
	if err != nil {
		return domain.Task{}, err
	}
	if !visibility.CanView(actor, task) {
		return domain.Task{}, domain.Forbidden("task %s is not visible to you", task.TaskNo)
	}
	return task, nil
}

func (s *TaskService) PendingAcceptances(ctx context.Context, actor domain.Actor) ([]domain.PendingAcceptance, error) {
	return s.ledger.ListPendingForUser(ctx, actor.ID)
}

func (s *TaskService) Activity(ctx context.Context, actor domain.Actor, id string) ([]domain.Activity, error) {
	task, err := s.FindByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.activities.ListByTask(ctx, task.ID)
}

// withGroups resolves the actor's membership groups unless the caller did.
func (s *TaskService) withGroups(ctx context.Context, actor domain.Actor) (domain.Actor, error) {
	if actor.GroupIDs != nil || actor.Role.Privileged() {
		return actor, nil
	}
	groups, err := s.directory.GroupsOf(ctx, actor.ID)
	if err != nil {
		return domain.Actor{}, err
	}
	actor.GroupIDs = groups
	return actor, nil
}

func listCacheKey(actor domain.Actor, page domain.Pagination, filter domain.TaskFilter) string {
	raw, _ := json.Marshal(struct {
		Actor  domain.Actor
		Page   domain.Pagination
		Filter domain.TaskFilter
	}{actor, page, filter})
	sum := sha256.Sum256(raw)
	return listCachePrefix + hex.EncodeToString(sum[:])
}
