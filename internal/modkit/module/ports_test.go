package module_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lorebook/internal/modkit/module"
	phttp "lorebook/internal/platform/net/http"
)

type readiness interface {
	Ready(ctx context.Context) error
}

type storePing struct{ err error }

func (s storePing) Ready(context.Context) error { return s.err }

type bundle struct {
	Pinger  readiness
	Default string
	hidden  int
}

type fake struct{ ports any }

func (fake) MountRoutes(phttp.Router) {}
func (f fake) Ports() any             { return f.ports }
func (fake) Name() string             { return "catalog" }

func TestPortsOf_WholeBundle(t *testing.T) {
	b := bundle{Default: "en-US"}
	got, ok := module.PortsOf[bundle](fake{b})
	require.True(t, ok)
	assert.Equal(t, "en-US", got.Default)
}

func TestPortsOf_FieldOfStructOrPointer(t *testing.T) {
	b := bundle{Pinger: storePing{}, hidden: 1}
	for _, p := range []any{b, &b} {
		r, ok := module.PortsOf[readiness](fake{p})
		require.True(t, ok)
		assert.NoError(t, r.Ready(context.Background()))
	}
	s, ok := module.PortsOf[string](fake{b})
	require.True(t, ok)
	assert.Equal(t, "", s)
}

func TestPortsOf_Misses(t *testing.T) {
	var nilBundle *bundle
	for _, p := range []any{nil, nilBundle, 7, bundle{}} {
		_, ok := module.PortsOf[float64](fake{p})
		assert.False(t, ok, "%T", p)
	}
}

func TestMustPortsOf_PanicNamesModule(t *testing.T) {
	assert.PanicsWithValue(t, "module: catalog exposes no float64 port", func() { module.MustPortsOf[float64](fake{bundle{}}) })
	assert.NotPanics(t, func() { module.MustPortsOf[bundle](fake{bundle{}}) })
}
