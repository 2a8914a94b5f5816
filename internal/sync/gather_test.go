package sync

import (
	"context"
	"errors"
	"testing"
)

func TestGatherPreservesInputOrder(t *testing.T) {
	values, errs := Gather(context.Background(), 50, func(_ context.Context, i int) (int, error) {
		return i * 2, nil
	})
	for i, v := range values {
		if v != i*2 {
			t.Fatalf("values[%d] = %d, want %d", i, v, i*2)
		}
		if errs[i] != nil {
			t.Fatalf("unexpected error at %d: %v", i, errs[i])
		}
	}
}

func TestGatherIsolatesErrors(t *testing.T) {
	boom := errors.New("boom")
	values, errs := Gather(context.Background(), 3, func(_ context.Context, i int) (string, error) {
		if i == 1 {
			return "", boom
		}
		return "ok", nil
	})
	if errs[0] != nil || errs[2] != nil {
		t.Fatalf("healthy items must not be affected: %v", errs)
	}
	if !errors.Is(errs[1], boom) {
		t.Fatalf("errs[1] = %v, want boom", errs[1])
	}
	if values[0] != "ok" || values[2] != "ok" {
		t.Fatalf("values = %v", values)
	}
}

func TestGatherZeroItems(t *testing.T) {
	values, errs := Gather(context.Background(), 0, func(_ context.Context, _ int) (int, error) {
		t.Fatal("fn must not be called")
		return 0, nil
	})
	if len(values) != 0 || len(errs) != 0 {
		t.Fatalf("expected empty results, got %v %v", values, errs)
	}
}
