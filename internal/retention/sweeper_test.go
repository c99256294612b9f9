package retention

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/focusboard/internal/board/domain/task"
	sharedDomain "github.com/felixgeelhaar/focusboard/internal/shared/domain"
)

// mockTaskRepository covers only the methods the sweeper touches; the rest
// panic through testify if called.
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

type passthroughUnitOfWork struct {
	commits   int
	rollbacks int
}

func (u *passthroughUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
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

type capturingPublisher struct {
	routingKeys []string
}

func (p *capturingPublisher) Publish(_ context.Context, routingKey string, _ []byte) error {
	p.routingKeys = append(p.routingKeys, routingKey)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func expiredTask(title string, completedAt time.Time) *task.Task {
	return task.Rehydrated(
		sharedDomain.RehydrateBaseEntity(uuid.New(), completedAt, completedAt),
		title, completedAt.UnixMilli(), 0, true, &completedAt, 0, nil, nil,
	)
}

func TestSweeper_Sweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("passes the retention cutoff to storage", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		sweeper := NewSweeper(repo, uow, &capturingPublisher{}, discardLogger()).
			WithClock(func() time.Time { return now })

		repo.On("DeleteCompletedBefore", mock.Anything, now.Add(-DefaultRetention)).Return([]*task.Task{}, nil)

		count, err := sweeper.Sweep(ctx)
		require.NoError(t, err)

		assert.Zero(t, count)
		assert.Equal(t, 1, uow.commits)
		repo.AssertExpectations(t)
	})

	t.Run("publishes an expiry event per removed task", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		pub := &capturingPublisher{}
		sweeper := NewSweeper(repo, uow, pub, discardLogger()).
			WithClock(func() time.Time { return now })

		removed := []*task.Task{
			expiredTask("stale one", now.Add(-5*time.Hour)),
			expiredTask("stale two", now.Add(-6*time.Hour)),
		}
		repo.On("DeleteCompletedBefore", mock.Anything, mock.Anything).Return(removed, nil)

		count, err := sweeper.Sweep(ctx)
		require.NoError(t, err)

		assert.Equal(t, 2, count)
		assert.Equal(t, []string{task.RoutingKeyExpired, task.RoutingKeyExpired}, pub.routingKeys)
	})

	t.Run("honors a custom retention window", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		sweeper := NewSweeper(repo, uow, &capturingPublisher{}, discardLogger()).
			WithRetention(30 * time.Minute).
			WithClock(func() time.Time { return now })

		repo.On("DeleteCompletedBefore", mock.Anything, now.Add(-30*time.Minute)).Return([]*task.Task{}, nil)

		_, err := sweeper.Sweep(ctx)
		require.NoError(t, err)

		repo.AssertExpectations(t)
	})

	t.Run("storage failure rolls back and surfaces", func(t *testing.T) {
		repo := new(mockTaskRepository)
		uow := &passthroughUnitOfWork{}
		sweeper := NewSweeper(repo, uow, &capturingPublisher{}, discardLogger()).
			WithClock(func() time.Time { return now })

		repo.On("DeleteCompletedBefore", mock.Anything, mock.Anything).Return(nil, sharedDomain.Storagef("delete expired tasks", errors.New("disk full")))

		_, err := sweeper.Sweep(ctx)

		assert.ErrorIs(t, err, sharedDomain.ErrStorage)
		assert.Equal(t, 1, uow.rollbacks)
	})
}
