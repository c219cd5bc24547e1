package marketplace

import (
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tickCtx "github.com/tickpiar/tick/services/tickapi/context"
	"github.com/tickpiar/tick/services/tickapi/db"
)

type completionKey struct {
	taskID int64
	userID int64
}

// fakeStore is an in-memory Store with the same atomicity semantics as the
// Postgres-backed client. The single mutex plays the role of the row locks:
// every mutation's checks and writes happen under it.
type fakeStore struct {
	mu          sync.Mutex
	balances    map[int64]int64
	tasks       map[int64]*db.Task
	completions map[completionKey]bool
	nextTaskID  int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		balances:    make(map[int64]int64),
		tasks:       make(map[int64]*db.Task),
		completions: make(map[completionKey]bool),
	}
}

func (f *fakeStore) ActiveTasks(excludeOwnerID int64, limit int) ([]db.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tasks := make([]db.Task, 0)
	for id := f.nextTaskID; id >= 1; id-- {
		task := f.tasks[id]
		if task == nil || !task.Active || task.Exhausted() {
			continue
		}
		if excludeOwnerID != 0 && task.OwnerID == excludeOwnerID {
			continue
		}
		tasks = append(tasks, *task)
		if len(tasks) == limit {
			break
		}
	}
	return tasks, nil
}

func (f *fakeStore) TasksByOwner(ownerID int64) ([]db.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tasks := make([]db.Task, 0)
	for id := f.nextTaskID; id >= 1; id-- {
		task := f.tasks[id]
		if task != nil && task.OwnerID == ownerID {
			tasks = append(tasks, *task)
		}
	}
	return tasks, nil
}

func (f *fakeStore) HasCompleted(taskID int64, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completions[completionKey{taskID, userID}], nil
}

func (f *fakeStore) CreateTaskPaid(ownerID int64, channelHandle string, reward int64, totalBudget int64) (*db.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	balance, ok := f.balances[ownerID]
	if !ok {
		return nil, db.ErrAccountNotFound
	}
	if balance < totalBudget {
		return nil, db.ErrInsufficientFunds
	}
	f.balances[ownerID] = balance - totalBudget
	f.nextTaskID++
	task := &db.Task{
		ID:            f.nextTaskID,
		OwnerID:       ownerID,
		ChannelHandle: channelHandle,
		Reward:        reward,
		TotalBudget:   totalBudget,
		Active:        true,
	}
	f.tasks[task.ID] = task
	copied := *task
	return &copied, nil
}

func (f *fakeStore) CompleteTask(taskID int64, userID int64) (*db.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[taskID]
	if !ok {
		return nil, db.ErrTaskNotFound
	}
	if f.completions[completionKey{taskID, userID}] {
		return nil, db.ErrAlreadyCompleted
	}
	if !task.Active {
		return nil, db.ErrTaskInactive
	}
	if task.Exhausted() {
		return nil, db.ErrBudgetExhausted
	}
	if _, ok := f.balances[userID]; !ok {
		return nil, db.ErrAccountNotFound
	}
	snapshot := *task
	f.completions[completionKey{taskID, userID}] = true
	task.CompletedCount++
	f.balances[userID] += task.Reward
	return &snapshot, nil
}

func (f *fakeStore) DeactivateTask(taskID int64, ownerID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return db.ErrTaskNotFound
	}
	task.Active = false
	return nil
}

func (f *fakeStore) balance(accountID int64) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[accountID]
}

func testConfig() tickCtx.Config {
	return tickCtx.Config{
		Rewards: tickCtx.RewardsConfig{
			ReferralBonus: 50,
			MinTaskReward: 15,
			MaxTaskReward: 50,
		},
	}
}

func newTestService(store Store) *Service {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewService(store, testConfig(), log)
}

func TestAdvertiseValidation(t *testing.T) {
	store := newFakeStore()
	store.balances[1] = 1000
	service := newTestService(store)

	testCases := []struct {
		desc    string
		channel string
		reward  int64
		budget  int64
	}{
		{
			desc:    "Empty channel",
			channel: "   ",
			reward:  20,
			budget:  100,
		},
		{
			desc:    "Bare at sign",
			channel: "@",
			reward:  20,
			budget:  100,
		},
		{
			desc:    "Reward below minimum",
			channel: "somechannel",
			reward:  14,
			budget:  100,
		},
		{
			desc:    "Reward above maximum",
			channel: "somechannel",
			reward:  51,
			budget:  100,
		},
		{
			desc:    "Budget below one reward",
			channel: "somechannel",
			reward:  20,
			budget:  19,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			_, err := service.Advertise(1, tC.channel, tC.reward, tC.budget)
			assert.True(t, errors.Is(err, ErrInvalidTaskParameters))
		})
	}

	// validation failures never touch the balance
	assert.Equal(t, int64(1000), store.balance(1))
	assert.Empty(t, store.tasks)
}

func TestAdvertise(t *testing.T) {
	store := newFakeStore()
	store.balances[1] = 100
	service := newTestService(store)

	task, err := service.Advertise(1, "@somechannel", 20, 100)
	require.NoError(t, err)
	assert.Equal(t, "somechannel", task.ChannelHandle)
	assert.True(t, task.Active)
	assert.Equal(t, int64(5), task.MaxCompletions())
	assert.Equal(t, int64(0), store.balance(1))
}

func TestAdvertiseInsufficientFunds(t *testing.T) {
	store := newFakeStore()
	store.balances[1] = 99
	service := newTestService(store)

	_, err := service.Advertise(1, "somechannel", 20, 100)
	assert.Equal(t, db.ErrInsufficientFunds, err)
	assert.Equal(t, int64(99), store.balance(1))
	assert.Empty(t, store.tasks)
}

func TestCompleteUntilExhausted(t *testing.T) {
	store := newFakeStore()
	store.balances[1] = 45
	store.balances[2] = 0
	store.balances[3] = 0
	store.balances[4] = 0
	service := newTestService(store)

	// a 45 coin budget at 20 per completion funds exactly two payouts
	task, err := service.Advertise(1, "somechannel", 20, 45)
	require.NoError(t, err)

	snapshot, err := service.Complete(task.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), snapshot.CompletedCount)
	assert.Equal(t, int64(20), store.balance(2))

	snapshot, err = service.Complete(task.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), snapshot.CompletedCount)
	assert.Equal(t, int64(20), store.balance(3))

	_, err = service.Complete(task.ID, 4)
	assert.Equal(t, db.ErrBudgetExhausted, err)
	assert.Equal(t, int64(0), store.balance(4))

	// the stranded 5 coins stay with the task, not the owner
	assert.Equal(t, int64(0), store.balance(1))
}

func TestCompleteTwice(t *testing.T) {
	store := newFakeStore()
	store.balances[1] = 100
	store.balances[2] = 0
	service := newTestService(store)

	task, err := service.Advertise(1, "somechannel", 20, 100)
	require.NoError(t, err)

	_, err = service.Complete(task.ID, 2)
	require.NoError(t, err)

	_, err = service.Complete(task.ID, 2)
	assert.Equal(t, db.ErrAlreadyCompleted, err)
	assert.Equal(t, int64(20), store.balance(2))
}

func TestCompleteMissingAndInactive(t *testing.T) {
	store := newFakeStore()
	store.balances[1] = 100
	store.balances[2] = 0
	service := newTestService(store)

	_, err := service.Complete(404, 2)
	assert.Equal(t, db.ErrTaskNotFound, err)

	task, err := service.Advertise(1, "somechannel", 20, 100)
	require.NoError(t, err)
	require.NoError(t, service.Deactivate(task.ID, 1))

	_, err = service.Complete(task.ID, 2)
	assert.Equal(t, db.ErrTaskInactive, err)
}

func TestCompleteUnregisteredUser(t *testing.T) {
	store := newFakeStore()
	store.balances[1] = 100
	service := newTestService(store)

	task, err := service.Advertise(1, "somechannel", 20, 100)
	require.NoError(t, err)

	_, err = service.Complete(task.ID, 999)
	assert.Equal(t, db.ErrAccountNotFound, err)

	// the failed claim leaves no completion behind
	completed, err := store.HasCompleted(task.ID, 999)
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Equal(t, int64(0), store.tasks[task.ID].CompletedCount)
}

func TestCompleteConcurrently(t *testing.T) {
	store := newFakeStore()
	store.balances[1] = 20
	service := newTestService(store)

	// budget for exactly one payout, ten users racing for it
	task, err := service.Advertise(1, "somechannel", 20, 20)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		store.balances[int64(i+2)] = 0
	}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := service.Complete(task.ID, userID)
			results <- err
		}(int64(i + 2))
	}
	wg.Wait()
	close(results)

	var successes, exhausted int
	for err := range results {
		switch err {
		case nil:
			successes++
		case db.ErrBudgetExhausted:
			exhausted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 9, exhausted)
}

func TestEarnOpportunities(t *testing.T) {
	store := newFakeStore()
	store.balances[1] = 200
	store.balances[2] = 100
	service := newTestService(store)

	mine, err := service.Advertise(2, "mychannel", 20, 100)
	require.NoError(t, err)
	first, err := service.Advertise(1, "firstchannel", 20, 100)
	require.NoError(t, err)
	second, err := service.Advertise(1, "secondchannel", 20, 100)
	require.NoError(t, err)

	_, err = service.Complete(first.ID, 2)
	require.NoError(t, err)

	opportunities, err := service.EarnOpportunities(2, 0)
	require.NoError(t, err)
	require.Len(t, opportunities, 2)

	// newest first, own task excluded
	assert.Equal(t, second.ID, opportunities[0].ID)
	assert.False(t, opportunities[0].Completed)
	assert.Equal(t, first.ID, opportunities[1].ID)
	assert.True(t, opportunities[1].Completed)
	for _, opportunity := range opportunities {
		assert.NotEqual(t, mine.ID, opportunity.ID)
	}
}

func TestOwnTasks(t *testing.T) {
	store := newFakeStore()
	store.balances[1] = 200
	service := newTestService(store)

	first, err := service.Advertise(1, "firstchannel", 20, 100)
	require.NoError(t, err)
	second, err := service.Advertise(1, "secondchannel", 20, 100)
	require.NoError(t, err)
	require.NoError(t, service.Deactivate(first.ID, 1))

	tasks, err := service.OwnTasks(1)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, second.ID, tasks[0].ID)
	assert.False(t, tasks[1].Active)
}

func TestDeactivateWrongOwner(t *testing.T) {
	store := newFakeStore()
	store.balances[1] = 100
	service := newTestService(store)

	task, err := service.Advertise(1, "somechannel", 20, 100)
	require.NoError(t, err)

	err = service.Deactivate(task.ID, 2)
	assert.Equal(t, db.ErrTaskNotFound, err)

	opportunities, err := service.EarnOpportunities(2, 0)
	require.NoError(t, err)
	assert.Len(t, opportunities, 1)
}
