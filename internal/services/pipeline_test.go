package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressTheater_Steps(t *testing.T) {
	theater := NewProgressTheater(0)

	steps := theater.Steps()
	require.Len(t, steps, 5)
	assert.Equal(t, "Initializing Python Kernel", steps[0].Label)
	assert.Equal(t, "Gradient Boosting Score", steps[4].Label)

	steps[0].Label = "changed"
	assert.Equal(t, "Initializing Python Kernel", theater.Steps()[0].Label)
}

func TestProgressTheater_StepAt(t *testing.T) {
	theater := NewProgressTheater(DefaultStepInterval)

	tests := []struct {
		elapsed time.Duration
		want    int
	}{
		{-time.Second, 0},
		{0, 0},
		{1799 * time.Millisecond, 0},
		{1800 * time.Millisecond, 1},
		{4 * time.Second, 2},
		{7200 * time.Millisecond, 4},
		{time.Hour, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, theater.StepAt(tt.elapsed), tt.elapsed.String())
	}
}

func TestProgressTheater_Run(t *testing.T) {
	theater := NewProgressTheater(5 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	var (
		mu   sync.Mutex
		seen []int
	)
	done := make(chan struct{})
	go func() {
		theater.Run(ctx, func(index int, _ PipelineStep) {
			mu.Lock()
			seen = append(seen, index)
			mu.Unlock()
		})
		close(done)
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 5
	}, time.Second, 5*time.Millisecond)

	// holds on the last step
	time.Sleep(25 * time.Millisecond)
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, seen)
}
