package mono

import (
	"context"
	"testing"
)

func TestGenerateParallelismOption(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	if got := GetGenerateParallelism(ctx, 4); got != 4 {
		t.Fatalf("expected default 4, got %d", got)
	}
	ctx = WithGenerateParallelism(ctx, 2)
	if got := GetGenerateParallelism(ctx, 4); got != 2 {
		t.Fatalf("expected configured 2, got %d", got)
	}
}

func TestInstantiationDepthOption(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	if got := GetInstantiationDepth(ctx, 64); got != 64 {
		t.Fatalf("expected default 64, got %d", got)
	}
	ctx = WithInstantiationDepth(ctx, 3)
	if got := GetInstantiationDepth(ctx, 64); got != 3 {
		t.Fatalf("expected configured 3, got %d", got)
	}
}
