// internal/adapter/registry_test.go
package adapter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopAdapter struct{ Adapter }

func TestRegistry_NewUsesRegisteredFactory(t *testing.T) {
	var gotDeps Deps
	Register("registry-test", func(d Deps) Adapter {
		gotDeps = d
		return nopAdapter{}
	})

	called := false
	a, err := New("registry-test", Deps{Tap: func(Frame) { called = true }})
	require.NoError(t, err)
	assert.IsType(t, nopAdapter{}, a)
	require.NotNil(t, gotDeps.Tap)
	gotDeps.Tap(Frame{})
	assert.True(t, called)
	assert.Contains(t, Kinds(), "registry-test")
}

func TestRegistry_UnknownKind(t *testing.T) {
	_, err := New("trdp-native", Deps{})
	assert.True(t, errors.Is(err, ErrUnsupportedAdapter))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	Register("dup-test", func(Deps) Adapter { return nopAdapter{} })
	assert.Panics(t, func() {
		Register("dup-test", func(Deps) Adapter { return nopAdapter{} })
	})
}

func TestSessionID_String(t *testing.T) {
	var id SessionID
	id[15] = 0x2a
	assert.Equal(t, "0000000000000000000000000000002a", id.String())
}
