package compute

import (
	"context"

	"triggerOracle/internal/model"
)

// Describer performs the artist computation: one prompt in, one description out.
type Describer interface {
	Describe(ctx context.Context, prompt string) (string, error)
}

// DescriberFunc adapts a function to Describer.
type DescriberFunc func(ctx context.Context, prompt string) (string, error)

func (f DescriberFunc) Describe(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Resolver performs the oracle computation: exactly one boolean per market.
type Resolver interface {
	Resolve(ctx context.Context, input model.OracleInput) (bool, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, input model.OracleInput) (bool, error)

func (f ResolverFunc) Resolve(ctx context.Context, input model.OracleInput) (bool, error) {
	return f(ctx, input)
}
