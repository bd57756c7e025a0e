package repokit

import (
	"context"
	"errors"
	"fmt"
)

// Guarder is a dependency that can check it is reachable
type Guarder interface {
	Guard(context.Context) error
}

// MustGuard checks every dependency and panics with all failures joined.
// Meant for process startup only
func MustGuard(ctx context.Context, deps ...Guarder) {
	var errs []error
	for _, d := range deps {
		if err := d.Guard(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		panic(fmt.Errorf("repokit: startup guard: %w", err))
	}
}
