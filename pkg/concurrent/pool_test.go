package concurrent

import (
	"context"
	"errors"
	"strconv"
	"testing"
)

func TestParallelMap_PreservesOrder(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	results, err := ParallelMap(context.Background(), items, func(n int) (string, error) {
		return strconv.Itoa(n * 2), nil
	}, 3)
	if err != nil {
		t.Fatalf("ParallelMap returned error: %v", err)
	}

	for i, got := range results {
		want := strconv.Itoa(i * 2)
		if got != want {
			t.Errorf("result[%d] = %q, want %q", i, got, want)
		}
	}
}

func TestParallelMap_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	items := []int{1, 2, 3}

	_, err := ParallelMap(context.Background(), items, func(n int) (int, error) {
		if n == 2 {
			return 0, boom
		}
		return n, nil
	}, 2)
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestParallelMap_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ParallelMap(ctx, []int{1, 2, 3}, func(n int) (int, error) {
		t.Error("fn ran despite cancelled context")
		return n, nil
	}, 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestParallelMap_WorkerBoundClamped(t *testing.T) {
	// More workers than items, and a non-positive bound, must both work.
	for _, workers := range []int{0, -1, 100} {
		results, err := ParallelMap(context.Background(), []int{5}, func(n int) (int, error) {
			return n + 1, nil
		}, workers)
		if err != nil || len(results) != 1 || results[0] != 6 {
			t.Errorf("workers=%d: results=%v err=%v", workers, results, err)
		}
	}
}

func TestParallelMap_Empty(t *testing.T) {
	results, err := ParallelMap(context.Background(), nil, func(n int) (int, error) {
		return n, nil
	}, 2)
	if err != nil || results != nil {
		t.Errorf("expected nil results and nil error, got %v, %v", results, err)
	}
}
