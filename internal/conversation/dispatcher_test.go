package conversation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type echoService struct {
	mu    sync.Mutex
	calls int
}

func (s *echoService) ProcessTurn(_ context.Context, req TurnRequest) (*TurnResponse, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return &TurnResponse{
		SessionID: req.SessionID,
		Reply:     "echo: " + req.Message,
	}, nil
}

func TestQueueDispatcherRoundTrip(t *testing.T) {
	svc := &echoService{}
	d := NewQueueDispatcher(svc, NewMemoryQueue(16), nil, WithWorkerCount(2), WithReceiveWaitSeconds(1))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		require.NoError(t, d.Shutdown(ctx))
	}()

	resp, err := d.ProcessTurn(context.Background(), TurnRequest{
		MerchantID: "m1",
		SessionID:  "s1",
		Message:    "hello",
	})
	require.NoError(t, err)
	require.Equal(t, "echo: hello", resp.Reply)
	require.Equal(t, "s1", resp.SessionID)
}

func TestQueueDispatcherConcurrentCallers(t *testing.T) {
	svc := &echoService{}
	d := NewQueueDispatcher(svc, NewMemoryQueue(64), nil, WithWorkerCount(4), WithReceiveWaitSeconds(1))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = d.Shutdown(ctx)
	}()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := d.ProcessTurn(context.Background(), TurnRequest{
				MerchantID: "m1",
				SessionID:  "s1",
				Message:    "hi",
			})
			require.NoError(t, err)
			require.Equal(t, "echo: hi", resp.Reply)
		}()
	}
	wg.Wait()

	svc.mu.Lock()
	defer svc.mu.Unlock()
	require.Equal(t, 20, svc.calls)
}

func TestQueueDispatcherCallerContextCancelled(t *testing.T) {
	slow := &slowService{delay: 500 * time.Millisecond}
	d := NewQueueDispatcher(slow, NewMemoryQueue(16), nil, WithWorkerCount(1), WithReceiveWaitSeconds(1))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = d.Shutdown(ctx)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := d.ProcessTurn(ctx, TurnRequest{MerchantID: "m1", SessionID: "s1", Message: "hi"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

type slowService struct {
	delay time.Duration
}

func (s *slowService) ProcessTurn(ctx context.Context, req TurnRequest) (*TurnResponse, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &TurnResponse{SessionID: req.SessionID, Reply: "late"}, nil
}
