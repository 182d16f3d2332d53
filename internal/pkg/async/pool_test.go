package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolExecute(t *testing.T) {
	pool := NewPool(2)
	boom := errors.New("boom")

	results := pool.Execute(context.Background(), []Task{
		{Name: "a", Execute: func(context.Context) (interface{}, error) { return 1, nil }},
		{Name: "b", Execute: func(context.Context) (interface{}, error) { return "two", nil }},
		{Name: "c", Execute: func(context.Context) (interface{}, error) { return nil, boom }},
	})

	require.Len(t, results, 3)
	assert.Equal(t, 1, results["a"].Data)
	assert.Equal(t, "two", results["b"].Data)
	assert.ErrorIs(t, results["c"].Err, boom)

	again := pool.Execute(context.Background(), []Task{
		{Name: "d", Execute: func(context.Context) (interface{}, error) { return true, nil }},
	})
	assert.Equal(t, true, again["d"].Data, "the pool is reusable")
}

func TestPoolCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Int32
	results := NewPool(1).Execute(ctx, []Task{
		{Name: "a", Execute: func(context.Context) (interface{}, error) { ran.Add(1); return nil, nil }},
	})

	assert.ErrorIs(t, results["a"].Err, context.Canceled)
	assert.Zero(t, ran.Load())
}

func TestPoolNoTasks(t *testing.T) {
	assert.Empty(t, NewPool(4).Execute(context.Background(), nil))
}
