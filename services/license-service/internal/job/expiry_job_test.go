package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockExpirer struct {
	ExpireLicensesFunc func(ctx context.Context, today time.Time) (int64, error)
}

func (m *mockExpirer) ExpireLicenses(ctx context.Context, today time.Time) (int64, error) {
	return m.ExpireLicensesFunc(ctx, today)
}

func TestExpiryJob_Run(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 0, 5, 0, 0, time.UTC)
	calls := 0
	exp := &mockExpirer{
		ExpireLicensesFunc: func(ctx context.Context, today time.Time) (int64, error) {
			calls++
			assert.Equal(t, fixed, today)
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return 3, nil
		},
	}
	j := NewExpiryJob(exp, zap.NewNop())
	j.now = func() time.Time { return fixed }

	j.Run()
	assert.Equal(t, 1, calls)
}

func TestExpiryJob_RunError(t *testing.T) {
	exp := &mockExpirer{
		ExpireLicensesFunc: func(ctx context.Context, today time.Time) (int64, error) {
			return 0, errors.New("db down")
		},
	}
	assert.NotPanics(t, NewExpiryJob(exp, zap.NewNop()).Run)
}

func TestScheduler_Add(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	j := NewExpiryJob(&mockExpirer{}, zap.NewNop())

	require.NoError(t, s.Add("license_expiry", "@daily", j))
	require.NoError(t, s.Add("license_expiry", "0 1 * * *", j))
	assert.Error(t, s.Add("license_expiry", "not a schedule", j))

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
