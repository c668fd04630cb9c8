package ratelimiting

import (
	"context"
	"taskhive/internal/core/domain/logging"
	ratelimiter "taskhive/internal/core/domain/rate_limiter"
	"taskhive/internal/core/services"
	"testing"

	"github.com/stretchr/testify/require"
)

type testInput struct {
	Key string
}

func (i testInput) GetRateLimitKey() string {
	return i.Key
}

type testResult struct {
	Done bool
}

type testService struct {
	WasCalled bool
}

func (s *testService) Run(ctx context.Context, input testInput) (testResult, error) {
	s.WasCalled = true
	return testResult{Done: true}, nil
}

func createService(isAllowed bool, inner services.Service[testInput, testResult]) services.Service[testInput, testResult] {
	return WithRateLimiting(
		logging.NewFakeLogger(),
		ratelimiter.NewFakeRateLimiter(isAllowed),
		ratelimiter.Limit{Value: 3, Interval: ratelimiter.Hour},
		inner,
	)
}

func TestInnerServiceCalledIfRateLimitNotExceeded(t *testing.T) {
	// Setup ---
	inner := &testService{}
	service := createService(true, inner)

	// Exercise ---
	result, err := service.Run(context.Background(), testInput{Key: "test"})

	// Verify ---
	require.NoError(t, err)
	require.True(t, result.Done)
	require.True(t, inner.WasCalled)
}

func TestErrorIfRateLimitExceeded(t *testing.T) {
	// Setup ---
	inner := &testService{}
	service := createService(false, inner)

	// Exercise ---
	_, err := service.Run(context.Background(), testInput{Key: "test"})

	// Verify ---
	require.ErrorIs(t, err, ratelimiter.ErrRateLimitExceeded)
	require.False(t, inner.WasCalled)
}
