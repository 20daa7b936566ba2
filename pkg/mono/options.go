package mono

import "context"

type OptionKey string

const (
	GenerateOptionKey OptionKey = "generate_options"
	DepthOptionKey    OptionKey = "depth_options"
)

type MaxLimitOption struct {
	Value int
}

type GenerateOptions struct {
	Parallelism MaxLimitOption
}

type DepthOptions struct {
	Max MaxLimitOption
}

// WithGenerateParallelism bounds how many specialization units a batch run
// may generate concurrently.
func WithGenerateParallelism(ctx context.Context, parallelism int) context.Context {
	return context.WithValue(ctx, GenerateOptionKey, GenerateOptions{Parallelism: MaxLimitOption{Value: parallelism}})
}

// WithInstantiationDepth bounds how deep nested generic instantiation may
// recurse before generation fails.
func WithInstantiationDepth(ctx context.Context, max int) context.Context {
	return context.WithValue(ctx, DepthOptionKey, DepthOptions{Max: MaxLimitOption{Value: max}})
}

func GetGenerateParallelism(ctx context.Context, defaultParallelism int) int {
	options, ok := ctx.Value(GenerateOptionKey).(GenerateOptions)
	if ok && options.Parallelism.Value > 0 {
		return options.Parallelism.Value
	}
	return defaultParallelism
}

func GetInstantiationDepth(ctx context.Context, defaultMax int) int {
	options, ok := ctx.Value(DepthOptionKey).(DepthOptions)
	if ok && options.Max.Value > 0 {
		return options.Max.Value
	}
	return defaultMax
}
