// Package marketplace runs the task lifecycle: owners pay a budget up front
// to advertise a channel, other users complete the task and earn the reward
// until the budget can no longer fund a payout.
package marketplace

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	tickCtx "github.com/tickpiar/tick/services/tickapi/context"
	"github.com/tickpiar/tick/services/tickapi/db"
)

// ErrInvalidTaskParameters is returned when reward or budget fall outside
// the configured bounds. It is surfaced before any store mutation.
var ErrInvalidTaskParameters = errors.New("invalid task parameters")

// Store is the slice of the datastore the marketplace needs. db.Client
// satisfies it; tests substitute an in-memory fake.
type Store interface {
	ActiveTasks(excludeOwnerID int64, limit int) ([]db.Task, error)
	TasksByOwner(ownerID int64) ([]db.Task, error)
	HasCompleted(taskID int64, userID int64) (bool, error)
	CreateTaskPaid(ownerID int64, channelHandle string, reward int64, totalBudget int64) (*db.Task, error)
	CompleteTask(taskID int64, userID int64) (*db.Task, error)
	DeactivateTask(taskID int64, ownerID int64) error
}

// Opportunity is an active task annotated with whether the viewer has
// already completed it
type Opportunity struct {
	db.Task
	Completed bool `json:"completed"`
}

// Service orchestrates the task lifecycle against the task registry
type Service struct {
	store  Store
	config tickCtx.Config
	log    logrus.FieldLogger
}

// NewService creates a marketplace service
func NewService(store Store, config tickCtx.Config, log logrus.FieldLogger) *Service {
	return &Service{
		store:  store,
		config: config,
		log:    log.WithField("service", "marketplace"),
	}
}

// Advertise validates the task parameters, debits the owner the total budget
// and creates the task. The debit and the insert are one atomic unit in the
// store: an insufficient balance creates no task, and a failed insert leaves
// no debit behind.
func (s *Service) Advertise(ownerID int64, channelHandle string, reward int64, totalBudget int64) (*db.Task, error) {
	channelHandle = strings.TrimPrefix(strings.TrimSpace(channelHandle), "@")
	if channelHandle == "" {
		return nil, fmt.Errorf("%w: channel handle is required", ErrInvalidTaskParameters)
	}
	min, max := s.config.Rewards.MinTaskReward, s.config.Rewards.MaxTaskReward
	if reward < min || reward > max {
		return nil, fmt.Errorf("%w: reward must be between %d and %d", ErrInvalidTaskParameters, min, max)
	}
	if totalBudget < reward {
		return nil, fmt.Errorf("%w: budget must cover at least one reward", ErrInvalidTaskParameters)
	}

	task, err := s.store.CreateTaskPaid(ownerID, channelHandle, reward, totalBudget)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"task":    task.ID,
		"owner":   ownerID,
		"channel": channelHandle,
		"budget":  totalBudget,
	}).Info("task advertised")

	return task, nil
}

// Complete claims the task's reward for the user. The store runs the
// duplicate, liveness and budget checks in the same atomic unit as the
// writes; the returned snapshot predates the increment so the caller can
// report the reward paid.
func (s *Service) Complete(taskID int64, userID int64) (*db.Task, error) {
	return s.store.CompleteTask(taskID, userID)
}

// EarnOpportunities lists active tasks excluding the viewer's own, each
// annotated with whether the viewer already completed it. Read-only.
func (s *Service) EarnOpportunities(userID int64, limit int) ([]Opportunity, error) {
	if limit <= 0 {
		limit = 5
	}
	tasks, err := s.store.ActiveTasks(userID, limit)
	if err != nil {
		return nil, err
	}

	opportunities := make([]Opportunity, 0, len(tasks))
	for _, task := range tasks {
		completed, err := s.store.HasCompleted(task.ID, userID)
		if err != nil {
			return nil, err
		}
		opportunities = append(opportunities, Opportunity{Task: task, Completed: completed})
	}

	return opportunities, nil
}

// OwnTasks lists the owner's tasks, newest first
func (s *Service) OwnTasks(ownerID int64) ([]db.Task, error) {
	return s.store.TasksByOwner(ownerID)
}

// Deactivate stops a task from accepting further completions. The unspent
// remainder of the budget stays spent; there are no refunds.
func (s *Service) Deactivate(taskID int64, ownerID int64) error {
	return s.store.DeactivateTask(taskID, ownerID)
}
