package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry(t *testing.T) {
	t.Run("typed handlers come before wildcard handlers", func(t *testing.T) {
		registry := NewHandlerRegistry()
		typed := newTestHandler()
		wildcard := newTestHandler()
		registry.Register(wildcard)
		registry.Register(typed, "order.placed")

		handlers := registry.GetHandlers("order.placed")
		assert.Len(t, handlers, 2)
		assert.Same(t, typed, handlers[0])
		assert.Same(t, wildcard, handlers[1])

		others := registry.GetHandlers("catalog.imported")
		assert.Len(t, others, 1)
		assert.Same(t, wildcard, others[0])
	})

	t.Run("duplicate registration is ignored", func(t *testing.T) {
		registry := NewHandlerRegistry()
		h := newTestHandler()
		registry.Register(h, "order.placed", "order.placed")
		registry.Register(h, "order.placed")
		registry.Register(h)
		registry.Register(h)

		assert.Len(t, registry.GetHandlers("order.placed"), 2, "once typed, once wildcard")
	})

	t.Run("unregister removes every registration", func(t *testing.T) {
		registry := NewHandlerRegistry()
		h := newTestHandler()
		keep := newTestHandler()
		registry.Register(h, "order.placed", "order.status_changed")
		registry.Register(h)
		registry.Register(keep, "order.placed")

		registry.Unregister(h)

		assert.Equal(t, []string{"order.placed"}, registry.EventTypes())
		handlers := registry.GetHandlers("order.placed")
		assert.Len(t, handlers, 1)
		assert.Same(t, keep, handlers[0])
		assert.Empty(t, registry.GetHandlers("order.status_changed"))
	})

	t.Run("event types are sorted", func(t *testing.T) {
		registry := NewHandlerRegistry()
		registry.Register(newTestHandler(), "order.placed", "account.registered", "catalog.imported")

		assert.Equal(t, []string{"account.registered", "catalog.imported", "order.placed"}, registry.EventTypes())
	})
}
