package initchecker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type provider interface {
	Name() string
}

type impl struct{}

func (impl) Name() string { return "impl" }

func TestCheckInit(t *testing.T) {
	t.Run(`initialized`, func(t *testing.T) {
		var p provider = impl{}
		require.NotPanics(t, func() { CheckInit("provider", p, "ptr", &impl{}) })
	})
	t.Run(`nil interface`, func(t *testing.T) {
		var p provider
		require.PanicsWithValue(t, "provider dependency not initialized", func() { CheckInit("provider", p) })
	})
	t.Run(`nil pointer in interface`, func(t *testing.T) {
		var ptr *impl
		var p provider = ptr
		require.PanicsWithValue(t, "provider dependency not initialized", func() { CheckInit("provider", p) })
	})
	t.Run(`odd arguments`, func(t *testing.T) {
		require.Panics(t, func() { CheckInit("provider") })
	})
}
