package db

import "github.com/go-pg/pg"

// TaskCompletion records that one user claimed one task's reward. The
// (task_id, user_id) pair is unique at the schema level; the constraint is
// load-bearing for the pay-once guarantee, not advisory.
type TaskCompletion struct {
	Timestamps

	ID     int64 `json:"id"`
	TaskID int64 `json:"task_id"`
	UserID int64 `json:"user_id"`
}

// HasCompleted reports whether the user has already completed the task
func (c *Client) HasCompleted(taskID int64, userID int64) (bool, error) {
	count, err := c.Model((*TaskCompletion)(nil)).
		Where("task_id = ?", taskID).
		Where("user_id = ?", userID).
		Count()
	if err != nil {
		return false, wrapStoreErr(err)
	}
	return count > 0, nil
}

func hasCompletedTx(tx *pg.Tx, taskID int64, userID int64) (bool, error) {
	count, err := tx.Model((*TaskCompletion)(nil)).
		Where("task_id = ?", taskID).
		Where("user_id = ?", userID).
		Count()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
