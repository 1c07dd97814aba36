package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdown_RunsHooksInReverseOrder(t *testing.T) {
	m := New(time.Second, nil)

	var order []string
	for _, name := range []string{"postgres", "redis", "http_server"} {
		name := name
		m.Register(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, []string{"http_server", "redis", "postgres"}, order)
}

func TestShutdown_CollectsHookErrors(t *testing.T) {
	m := New(time.Second, nil)

	failure := errors.New("close failed")
	m.Register("broken", func(context.Context) error { return failure })

	var ran bool
	m.Register("healthy", func(context.Context) error {
		ran = true
		return nil
	})

	err := m.Shutdown(context.Background())
	assert.ErrorIs(t, err, failure)
	assert.True(t, ran)
}

func TestShutdown_RunsOnlyOnce(t *testing.T) {
	m := New(time.Second, nil)

	var calls int
	m.Register("counted", func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, m.Shutdown(context.Background()))
	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestRegister_IgnoresNilHook(t *testing.T) {
	m := New(time.Second, nil)

	m.Register("noop", nil)

	assert.NoError(t, m.Shutdown(context.Background()))
}
