package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMessage(t *testing.T) {
	m := NewMessage("order.placed", "Order placed", "body", " a@b.io ", "", "c@d.io")

	assert.NotEqual(t, NewMessage("x", "", "").ID, m.ID)
	assert.Equal(t, []string{"a@b.io", "c@d.io"}, m.Recipients)
	assert.Empty(t, m.HTMLBody)
	assert.Equal(t, "<b>x</b>", m.WithHTML("<b>x</b>").HTMLBody)
}
