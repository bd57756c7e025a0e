package repokit

// Binder binds a repo to a Queryer, usually the tx of the current WithTx call
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a constructor such as func(Queryer) *pgRepo to Binder
type BindFunc[T any] func(Queryer) T

// Bind calls f
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// MustBind binds q, panicking on a nil Queryer so wiring bugs surface at the call site
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return b.Bind(q)
}
