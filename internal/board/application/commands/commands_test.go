package commands

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/focusboard/internal/board/domain/task"
	sharedDomain "github.com/felixgeelhaar/focusboard/internal/shared/domain"
)

// mockTaskRepository is a mock implementation of task.Repository.
type mockTaskRepository struct {
	mock.Mock
}

func (m *mockTaskRepository) Save(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*task.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskRepository) FindAll(ctx context.Context) ([]*task.Task, error) {
	args := m.Called(ctx)
	if ts, ok := args.Get(0).([]*task.Task); ok {
		return ts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskRepository) ActivePriorities(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	if ps, ok := args.Get(0).([]int); ok {
		return ps, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskRepository) FindActiveByPriority(ctx context.Context, priority int) (*task.Task, error) {
	args := m.Called(ctx, priority)
	if t, ok := args.Get(0).(*task.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskRepository) NextDisplayOrder(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockTaskRepository) UpdateDisplayOrder(ctx context.Context, id uuid.UUID, order int) error {
	args := m.Called(ctx, id, order)
	return args.Error(0)
}

func (m *mockTaskRepository) Delete(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*task.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskRepository) DeleteAll(ctx context.Context) ([]*task.Task, error) {
	args := m.Called(ctx)
	if ts, ok := args.Get(0).([]*task.Task); ok {
		return ts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskRepository) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) ([]*task.Task, error) {
	args := m.Called(ctx, cutoff)
	if ts, ok := args.Get(0).([]*task.Task); ok {
		return ts, args.Error(1)
	}
	return nil, args.Error(1)
}

// passthroughUnitOfWork hands the caller's context straight through and
// counts lifecycle calls so tests can assert commit/rollback behavior.
type passthroughUnitOfWork struct {
	begins    int
	commits   int
	rollbacks int
}

func (u *passthroughUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	u.begins++
	return ctx, nil
}

func (u *passthroughUnitOfWork) Commit(ctx context.Context) error {
	u.commits++
	return nil
}

func (u *passthroughUnitOfWork) Rollback(ctx context.Context) error {
	u.rollbacks++
	return nil
}

// capturingPublisher records routing keys in publication order.
type capturingPublisher struct {
	routingKeys []string
}

func (p *capturingPublisher) Publish(_ context.Context, routingKey string, _ []byte) error {
	p.routingKeys = append(p.routingKeys, routingKey)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func rehydratedTask(title string, priority int) *task.Task {
	now := time.Now().UTC()
	return task.Rehydrated(
		sharedDomain.RehydrateBaseEntity(uuid.New(), now, now),
		title, now.UnixMilli(), priority, false, nil, 0, nil, nil,
	)
}

func completedTask(title string, completedAt time.Time) *task.Task {
	now := time.Now().UTC()
	return task.Rehydrated(
		sharedDomain.RehydrateBaseEntity(uuid.New(), now, now),
		title, now.UnixMilli(), 0, true, &completedAt, 0, nil, nil,
	)
}

func intPtr(v int) *int { return &v }

func TestCreateTaskHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("fills the lowest free slot when no priority is given", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		pub := &capturingPublisher{}
		handler := NewCreateTaskHandler(repo, uow, pub)

		repo.On("ActivePriorities", mock.Anything).Return([]int{1, 2, 4}, nil)
		repo.On("NextDisplayOrder", mock.Anything).Return(5, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		created, err := handler.Handle(ctx, CreateTaskCommand{Title: "write report"})
		require.NoError(t, err)

		assert.Equal(t, 3, created.Priority())
		assert.Equal(t, 5, created.DisplayOrder())
		assert.Equal(t, []string{task.RoutingKeyCreated, task.RoutingKeyPriorityAssigned}, pub.routingKeys)
		assert.Equal(t, 1, uow.commits)
		repo.AssertExpectations(t)
	})

	t.Run("accepts a free explicit slot", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		pub := &capturingPublisher{}
		handler := NewCreateTaskHandler(repo, uow, pub)

		repo.On("FindActiveByPriority", mock.Anything, 7).Return(nil, sharedDomain.NotFoundf("no active task at priority 7"))
		repo.On("NextDisplayOrder", mock.Anything).Return(0, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		created, err := handler.Handle(ctx, CreateTaskCommand{Title: "write report", Priority: intPtr(7)})
		require.NoError(t, err)

		assert.Equal(t, 7, created.Priority())
		repo.AssertExpectations(t)
	})

	t.Run("rejects an occupied explicit slot", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		pub := &capturingPublisher{}
		handler := NewCreateTaskHandler(repo, uow, pub)

		repo.On("FindActiveByPriority", mock.Anything, 2).Return(rehydratedTask("holder", 2), nil)

		_, err := handler.Handle(ctx, CreateTaskCommand{Title: "write report", Priority: intPtr(2)})
		require.Error(t, err)

		assert.ErrorIs(t, err, sharedDomain.ErrConflict)
		assert.Equal(t, 1, uow.rollbacks)
		assert.Empty(t, pub.routingKeys)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects an empty title", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		handler := NewCreateTaskHandler(repo, uow, &capturingPublisher{})

		_, err := handler.Handle(ctx, CreateTaskCommand{Title: "   "})

		assert.ErrorIs(t, err, sharedDomain.ErrValidation)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("applies meta and focus duration", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		handler := NewCreateTaskHandler(repo, uow, &capturingPublisher{})

		repo.On("ActivePriorities", mock.Anything).Return([]int{}, nil)
		repo.On("NextDisplayOrder", mock.Anything).Return(0, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		created, err := handler.Handle(ctx, CreateTaskCommand{
			Title:         "deep work",
			Meta:          task.Meta{"color": "blue"},
			FocusDuration: intPtr(25),
		})
		require.NoError(t, err)

		assert.Equal(t, 1, created.Priority())
		assert.Equal(t, "blue", created.Meta()["color"])
		require.NotNil(t, created.FocusDuration())
		assert.Equal(t, 25, *created.FocusDuration())
	})
}

func TestAssignPriorityHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("swaps slots with the current holder", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		pub := &capturingPublisher{}
		handler := NewAssignPriorityHandler(repo, uow, pub)

		target := rehydratedTask("moving up", 5)
		holder := rehydratedTask("current holder", 2)

		repo.On("FindByID", mock.Anything, target.ID()).Return(target, nil)
		repo.On("FindActiveByPriority", mock.Anything, 2).Return(holder, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		updated, err := handler.Handle(ctx, AssignPriorityCommand{TaskID: target.ID(), Priority: 2})
		require.NoError(t, err)

		assert.Equal(t, 2, updated.Priority())
		assert.Equal(t, 5, holder.Priority(), "holder should take the old slot")
		// Displaced holder publishes before the moved task.
		assert.Equal(t, []string{task.RoutingKeyPriorityAssigned, task.RoutingKeyPriorityAssigned}, pub.routingKeys)
		assert.Equal(t, 1, uow.commits)
		repo.AssertNumberOfCalls(t, "Save", 2)
	})

	t.Run("no-op when the task already holds the slot", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		pub := &capturingPublisher{}
		handler := NewAssignPriorityHandler(repo, uow, pub)

		target := rehydratedTask("staying put", 3)
		repo.On("FindByID", mock.Anything, target.ID()).Return(target, nil)
		repo.On("Save", mock.Anything, target).Return(nil)

		updated, err := handler.Handle(ctx, AssignPriorityCommand{TaskID: target.ID(), Priority: 3})
		require.NoError(t, err)

		assert.Equal(t, 3, updated.Priority())
		assert.Empty(t, pub.routingKeys)
		repo.AssertNotCalled(t, "FindActiveByPriority", mock.Anything, mock.Anything)
	})

	t.Run("conflict when an unslotted task targets a taken slot", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		handler := NewAssignPriorityHandler(repo, uow, &capturingPublisher{})

		target := rehydratedTask("unslotted", 0)
		holder := rehydratedTask("current holder", 4)

		repo.On("FindByID", mock.Anything, target.ID()).Return(target, nil)
		repo.On("FindActiveByPriority", mock.Anything, 4).Return(holder, nil)

		_, err := handler.Handle(ctx, AssignPriorityCommand{TaskID: target.ID(), Priority: 4})

		assert.ErrorIs(t, err, sharedDomain.ErrConflict)
		assert.Equal(t, 1, uow.rollbacks)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("completed task cannot hand its stale slot to the holder", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		handler := NewAssignPriorityHandler(repo, uow, &capturingPublisher{})

		// The completed task still records priority 1, but the slot has
		// since been refilled by an active task. Releasing "1" to the
		// holder would put two active tasks on the same slot.
		now := time.Now().UTC()
		done := now.Add(-time.Hour)
		target := task.Rehydrated(
			sharedDomain.RehydrateBaseEntity(uuid.New(), now, now),
			"finished early", now.UnixMilli(), 1, true, &done, 0, nil, nil,
		)
		holder := rehydratedTask("current holder", 2)

		repo.On("FindByID", mock.Anything, target.ID()).Return(target, nil)
		repo.On("FindActiveByPriority", mock.Anything, 2).Return(holder, nil)

		_, err := handler.Handle(ctx, AssignPriorityCommand{TaskID: target.ID(), Priority: 2})

		assert.ErrorIs(t, err, sharedDomain.ErrConflict)
		assert.Equal(t, 2, holder.Priority(), "holder must keep its slot")
		assert.Equal(t, 1, uow.rollbacks)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects non-positive priority before touching storage", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		handler := NewAssignPriorityHandler(repo, uow, &capturingPublisher{})

		_, err := handler.Handle(ctx, AssignPriorityCommand{TaskID: uuid.New(), Priority: 0})

		assert.ErrorIs(t, err, sharedDomain.ErrValidation)
		assert.Zero(t, uow.begins)
	})

	t.Run("not found for an unknown task", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		handler := NewAssignPriorityHandler(repo, uow, &capturingPublisher{})

		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, sharedDomain.NotFoundf("task %s not found", id))

		_, err := handler.Handle(ctx, AssignPriorityCommand{TaskID: id, Priority: 1})

		assert.ErrorIs(t, err, sharedDomain.ErrNotFound)
		assert.Equal(t, 1, uow.rollbacks)
	})
}

func TestBulkReorderHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("applies every entry in one transaction", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		handler := NewBulkReorderHandler(repo, uow)

		first, second := uuid.New(), uuid.New()
		repo.On("UpdateDisplayOrder", mock.Anything, first, 0).Return(nil)
		repo.On("UpdateDisplayOrder", mock.Anything, second, 1).Return(nil)

		count, err := handler.Handle(ctx, BulkReorderCommand{Entries: []ReorderEntry{
			{TaskID: first.String(), DisplayOrder: intPtr(0)},
			{TaskID: second.String(), DisplayOrder: intPtr(1)},
		}})
		require.NoError(t, err)

		assert.Equal(t, 2, count)
		assert.Equal(t, 1, uow.commits)
		repo.AssertExpectations(t)
	})

	t.Run("rejects an empty batch", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		handler := NewBulkReorderHandler(repo, uow)

		_, err := handler.Handle(ctx, BulkReorderCommand{})

		assert.ErrorIs(t, err, sharedDomain.ErrValidation)
		assert.Zero(t, uow.begins)
	})

	t.Run("validates the whole batch before touching storage", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		handler := NewBulkReorderHandler(repo, uow)

		_, err := handler.Handle(ctx, BulkReorderCommand{Entries: []ReorderEntry{
			{TaskID: uuid.NewString(), DisplayOrder: intPtr(0)},
			{TaskID: uuid.NewString(), DisplayOrder: nil},
		}})

		assert.ErrorIs(t, err, sharedDomain.ErrValidation)
		assert.Zero(t, uow.begins)
		repo.AssertNotCalled(t, "UpdateDisplayOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a malformed task id", func(t *testing.T) {
		repo := new(mockTaskRepository)
		handler := NewBulkReorderHandler(repo, &passthroughUnitOfWork{})

		_, err := handler.Handle(ctx, BulkReorderCommand{Entries: []ReorderEntry{
			{TaskID: "not-a-uuid", DisplayOrder: intPtr(0)},
		}})

		assert.ErrorIs(t, err, sharedDomain.ErrValidation)
	})

	t.Run("rolls back the batch when a task is missing", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		handler := NewBulkReorderHandler(repo, uow)

		first, second := uuid.New(), uuid.New()
		repo.On("UpdateDisplayOrder", mock.Anything, first, 0).Return(nil)
		repo.On("UpdateDisplayOrder", mock.Anything, second, 1).Return(sharedDomain.NotFoundf("task %s not found", second))

		_, err := handler.Handle(ctx, BulkReorderCommand{Entries: []ReorderEntry{
			{TaskID: first.String(), DisplayOrder: intPtr(0)},
			{TaskID: second.String(), DisplayOrder: intPtr(1)},
		}})

		assert.ErrorIs(t, err, sharedDomain.ErrNotFound)
		assert.Equal(t, 1, uow.rollbacks)
		assert.Zero(t, uow.commits)
	})
}

func TestToggleTaskHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("completes an open task", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		pub := &capturingPublisher{}
		handler := NewToggleTaskHandler(repo, uow, pub)

		open := rehydratedTask("inbox zero", 1)
		repo.On("FindByID", mock.Anything, open.ID()).Return(open, nil)
		repo.On("Save", mock.Anything, open).Return(nil)

		toggled, err := handler.Handle(ctx, ToggleTaskCommand{TaskID: open.ID()})
		require.NoError(t, err)

		assert.True(t, toggled.Completed())
		require.NotNil(t, toggled.CompletedAt())
		assert.Equal(t, []string{task.RoutingKeyCompleted}, pub.routingKeys)
	})

	t.Run("reopens a completed task", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		pub := &capturingPublisher{}
		handler := NewToggleTaskHandler(repo, uow, pub)

		done := completedTask("already done", time.Now().UTC())
		repo.On("FindByID", mock.Anything, done.ID()).Return(done, nil)
		repo.On("Save", mock.Anything, done).Return(nil)

		toggled, err := handler.Handle(ctx, ToggleTaskCommand{TaskID: done.ID()})
		require.NoError(t, err)

		assert.False(t, toggled.Completed())
		assert.Nil(t, toggled.CompletedAt())
		assert.Equal(t, []string{task.RoutingKeyReopened}, pub.routingKeys)
	})
}

func TestUpdateTaskHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("updates fields and swaps priority like assign", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		pub := &capturingPublisher{}
		handler := NewUpdateTaskHandler(repo, uow, pub)

		target := rehydratedTask("old title", 3)
		holder := rehydratedTask("current holder", 1)

		title := "new title"
		repo.On("FindByID", mock.Anything, target.ID()).Return(target, nil)
		repo.On("FindActiveByPriority", mock.Anything, 1).Return(holder, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		updated, err := handler.Handle(ctx, UpdateTaskCommand{
			TaskID:   target.ID(),
			Title:    &title,
			Priority: intPtr(1),
		})
		require.NoError(t, err)

		assert.Equal(t, "new title", updated.Title())
		assert.Equal(t, 1, updated.Priority())
		assert.Equal(t, 3, holder.Priority())
		assert.NotEmpty(t, pub.routingKeys)
	})

	t.Run("leaves omitted fields alone", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		handler := NewUpdateTaskHandler(repo, uow, &capturingPublisher{})

		target := rehydratedTask("keep me", 2)
		repo.On("FindByID", mock.Anything, target.ID()).Return(target, nil)
		repo.On("Save", mock.Anything, target).Return(nil)

		updated, err := handler.Handle(ctx, UpdateTaskCommand{TaskID: target.ID()})
		require.NoError(t, err)

		assert.Equal(t, "keep me", updated.Title())
		assert.Equal(t, 2, updated.Priority())
		assert.False(t, updated.Completed())
	})

	t.Run("rejects an invalid focus duration", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		handler := NewUpdateTaskHandler(repo, uow, &capturingPublisher{})

		target := rehydratedTask("short fuse", 2)
		repo.On("FindByID", mock.Anything, target.ID()).Return(target, nil)

		_, err := handler.Handle(ctx, UpdateTaskCommand{TaskID: target.ID(), FocusDuration: intPtr(0)})

		assert.ErrorIs(t, err, sharedDomain.ErrValidation)
		assert.Equal(t, 1, uow.rollbacks)
	})
}

func TestDeleteTaskHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the deleted record and publishes", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		pub := &capturingPublisher{}
		handler := NewDeleteTaskHandler(repo, uow, pub)

		victim := rehydratedTask("doomed", 1)
		repo.On("Delete", mock.Anything, victim.ID()).Return(victim, nil)

		deleted, err := handler.Handle(ctx, DeleteTaskCommand{TaskID: victim.ID()})
		require.NoError(t, err)

		assert.Equal(t, victim.ID(), deleted.ID())
		assert.Equal(t, []string{task.RoutingKeyDeleted}, pub.routingKeys)
	})

	t.Run("not found passes through", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		pub := &capturingPublisher{}
		handler := NewDeleteTaskHandler(repo, uow, pub)

		id := uuid.New()
		repo.On("Delete", mock.Anything, id).Return(nil, sharedDomain.NotFoundf("task %s not found", id))

		_, err := handler.Handle(ctx, DeleteTaskCommand{TaskID: id})

		assert.ErrorIs(t, err, sharedDomain.ErrNotFound)
		assert.Empty(t, pub.routingKeys)
	})
}

func TestDeleteAllTasksHandler(t *testing.T) {
	repo := new(mockTaskRepository)
	uow := &passthroughUnitOfWork{}
	pub := &capturingPublisher{}
	handler := NewDeleteAllTasksHandler(repo, uow, pub)

	victims := []*task.Task{rehydratedTask("one", 1), rehydratedTask("two", 2)}
	repo.On("DeleteAll", mock.Anything).Return(victims, nil)

	deleted, err := handler.Handle(context.Background())
	require.NoError(t, err)

	assert.Len(t, deleted, 2)
	assert.Equal(t, []string{task.RoutingKeyDeleted, task.RoutingKeyDeleted}, pub.routingKeys)
}

func TestSetFocusDurationHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("sets the duration", func(t *testing.T) {
		repo := new(mockTaskRepository)
		handler := NewSetFocusDurationHandler(repo, &passthroughUnitOfWork{})

		target := rehydratedTask("pomodoro", 1)
		repo.On("FindByID", mock.Anything, target.ID()).Return(target, nil)
		repo.On("Save", mock.Anything, target).Return(nil)

		updated, err := handler.Handle(ctx, SetFocusDurationCommand{TaskID: target.ID(), Minutes: 25})
		require.NoError(t, err)

		require.NotNil(t, updated.FocusDuration())
		assert.Equal(t, 25, *updated.FocusDuration())
	})

	t.Run("rejects non-positive minutes", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		handler := NewSetFocusDurationHandler(repo, uow)

		target := rehydratedTask("pomodoro", 1)
		repo.On("FindByID", mock.Anything, target.ID()).Return(target, nil)

		_, err := handler.Handle(ctx, SetFocusDurationCommand{TaskID: target.ID(), Minutes: 0})

		assert.ErrorIs(t, err, sharedDomain.ErrValidation)
		assert.Equal(t, 1, uow.rollbacks)
	})
}
