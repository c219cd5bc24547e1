package db

import (
	"fmt"

	"github.com/go-pg/pg"
)

// Task is a channel-subscription offer: a reward per completion and a total
// spending cap funded up front by the owner. Tasks are never deleted, only
// deactivated.
type Task struct {
	Timestamps

	ID             int64  `json:"id"`
	OwnerID        int64  `json:"owner_id"`
	ChannelHandle  string `json:"channel_handle"`
	Reward         int64  `json:"reward"`
	TotalBudget    int64  `json:"total_budget"`
	CompletedCount int64  `json:"completed_count" sql:",notnull"`
	Active         bool   `json:"active" sql:",notnull"`
}

// MaxCompletions returns how many completions the budget can fund
func (t *Task) MaxCompletions() int64 {
	if t.Reward == 0 {
		return 0
	}
	return t.TotalBudget / t.Reward
}

// Exhausted reports whether the remaining budget can no longer fund another
// reward payout
func (t *Task) Exhausted() bool {
	return (t.CompletedCount+1)*t.Reward > t.TotalBudget
}

// TaskByID selects a task by ID
func (c *Client) TaskByID(id int64) (*Task, error) {
	var task Task
	err := c.Model(&task).Where("id = ?", id).First()
	if err == pg.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return &task, nil
}

// ActiveTasks returns tasks that are active and still have budget for at
// least one more payout, newest first. A non-zero excludeOwnerID filters out
// that owner's tasks.
func (c *Client) ActiveTasks(excludeOwnerID int64, limit int) ([]Task, error) {
	tasks := make([]Task, 0)
	q := c.Model(&tasks).
		Where("active = ?", true).
		Where("(completed_count + 1) * reward <= total_budget")
	if excludeOwnerID != 0 {
		q = q.Where("owner_id != ?", excludeOwnerID)
	}
	err := q.Order("created_at DESC").Limit(limit).Select()
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	return tasks, nil
}

// TasksByOwner returns all tasks created by the owner, newest first
func (c *Client) TasksByOwner(ownerID int64) ([]Task, error) {
	tasks := make([]Task, 0)
	err := c.Model(&tasks).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Select()
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	return tasks, nil
}

// AddTask inserts a task. The caller is responsible for having already
// debited the owner; most callers want CreateTaskPaid instead.
func (c *Client) AddTask(task *Task) error {
	return wrapStoreErr(c.Add(task))
}

// CreateTaskPaid debits the owner's balance by the total budget and inserts
// the task as one atomic unit. An insufficient balance leaves no task and no
// debit behind.
func (c *Client) CreateTaskPaid(ownerID int64, channelHandle string, reward int64, totalBudget int64) (*Task, error) {
	task := &Task{
		OwnerID:       ownerID,
		ChannelHandle: channelHandle,
		Reward:        reward,
		TotalBudget:   totalBudget,
		Active:        true,
	}
	err := c.RunInTransaction(func(tx *pg.Tx) error {
		owner := new(Account)
		err := tx.Model(owner).Where("id = ?", ownerID).For("UPDATE").First()
		if err == pg.ErrNoRows {
			return ErrAccountNotFound
		}
		if err != nil {
			return err
		}

		if owner.Balance < totalBudget {
			return ErrInsufficientFunds
		}

		description := fmt.Sprintf("Task payment for @%s", channelHandle)
		_, err = applyEntryTx(tx, ownerID, -totalBudget, LedgerEntryKindTaskPayment, description)
		if err != nil {
			return err
		}

		return tx.Insert(task)
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return task, nil
}

// CompleteTask records a completion, increments the task's counter and
// credits the user the reward, all inside one transaction with the task row
// locked. It returns the task snapshot as of before the increment so the
// caller can report the reward paid.
//
// The duplicate check runs inside the same transaction as the writes; two
// concurrent calls for the same (task, user) pair end with exactly one
// success. The budget check reads the locked row, so concurrent completions
// near exhaustion cannot jointly overspend.
func (c *Client) CompleteTask(taskID int64, userID int64) (*Task, error) {
	var snapshot Task
	err := c.RunInTransaction(func(tx *pg.Tx) error {
		task := new(Task)
		err := tx.Model(task).Where("id = ?", taskID).For("UPDATE").First()
		if err == pg.ErrNoRows {
			return ErrTaskNotFound
		}
		if err != nil {
			return err
		}

		completed, err := hasCompletedTx(tx, taskID, userID)
		if err != nil {
			return err
		}
		if completed {
			return ErrAlreadyCompleted
		}

		if !task.Active {
			return ErrTaskInactive
		}

		if (task.CompletedCount+1)*task.Reward > task.TotalBudget {
			return ErrBudgetExhausted
		}

		// An unregistered user must surface as ErrAccountNotFound, not as a
		// foreign key failure on the completion insert. The lock also orders
		// concurrent credits to the same user.
		user := new(Account)
		err = tx.Model(user).Where("id = ?", userID).For("UPDATE").First()
		if err == pg.ErrNoRows {
			return ErrAccountNotFound
		}
		if err != nil {
			return err
		}

		err = tx.Insert(&TaskCompletion{TaskID: taskID, UserID: userID})
		if err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyCompleted
			}
			return err
		}

		_, err = tx.Exec(
			`UPDATE tasks SET completed_count = completed_count + 1, updated_at = now() WHERE id = ?`,
			taskID,
		)
		if err != nil {
			return err
		}

		description := fmt.Sprintf("Task reward for subscribing to @%s", task.ChannelHandle)
		_, err = applyEntryTx(tx, userID, task.Reward, LedgerEntryKindTaskReward, description)
		if err != nil {
			return err
		}

		snapshot = *task
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return &snapshot, nil
}

// DeactivateTask soft-deactivates a task owned by ownerID. Spent budget is
// not refunded.
func (c *Client) DeactivateTask(taskID int64, ownerID int64) error {
	var task Task
	res, err := c.Model(&task).
		Where("id = ?", taskID).
		Where("owner_id = ?", ownerID).
		Set("active = ?", false).
		Set("updated_at = now()").
		Update()
	if err != nil {
		return wrapStoreErr(err)
	}
	if res.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}
