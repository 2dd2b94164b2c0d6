package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wallet/withdrawal/internal/domain/shared"
)

func TestHandlerRegistry(t *testing.T) {
	r := NewHandlerRegistry()
	a := newTestHandler()
	b := newTestHandler()
	wild := newTestHandler()

	r.Register(a, "A")
	r.Register(b, "A", "B")
	r.Register(wild)

	assert.Equal(t, []shared.EventHandler{a, b, wild}, r.GetHandlers("A"))
	assert.Equal(t, []shared.EventHandler{b, wild}, r.GetHandlers("B"))
	assert.Equal(t, []shared.EventHandler{wild}, r.GetHandlers("C"))

	r.Unregister(b)
	assert.Equal(t, []shared.EventHandler{a, wild}, r.GetHandlers("A"))
	assert.Equal(t, []shared.EventHandler{wild}, r.GetHandlers("B"))
	_, stillTracked := r.handlers["B"]
	assert.False(t, stillTracked, "empty event types are dropped")

	r.Unregister(wild)
	assert.Equal(t, []shared.EventHandler{a}, r.GetHandlers("A"))
}
