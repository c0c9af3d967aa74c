package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryQueueBatchesAvailableJobs(t *testing.T) {
	q := NewMemoryQueue(8)
	ctx := context.Background()

	for i, id := range []string{"j1", "j2", "j3"} {
		require.NoError(t, q.Enqueue(ctx, turnJob{
			ID:      id,
			Request: TurnRequest{MerchantID: "m1", SessionID: "s1", Message: "msg"},
		}), "enqueue %d", i)
	}

	jobs, err := q.Dequeue(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, jobs, 2, "batch caps at maxJobs")
	require.Equal(t, "j1", jobs[0].ID)
	require.Equal(t, "m1", jobs[0].Request.MerchantID)

	jobs, err = q.Dequeue(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Equal(t, "j3", jobs[0].ID)
	require.NoError(t, q.Ack(ctx, jobs[0]))
}

func TestMemoryQueueDequeueTimesOutIdle(t *testing.T) {
	q := NewMemoryQueue(1)

	start := time.Now()
	jobs, err := q.Dequeue(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Empty(t, jobs)
	require.GreaterOrEqual(t, time.Since(start), time.Second)
}

func TestMemoryQueueDequeueHonorsContext(t *testing.T) {
	q := NewMemoryQueue(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx, 1, 5)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
