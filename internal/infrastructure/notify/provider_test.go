package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopfront/backend/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fakeProvider returns the queued errors in order, then nil
type fakeProvider struct {
	name string

	mu   sync.Mutex
	errs []error
	sent []notification.Message
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Send(_ context.Context, msg notification.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, msg)
	if len(p.errs) == 0 {
		return nil
	}
	err := p.errs[0]
	p.errs = p.errs[1:]
	return err
}

func (p *fakeProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

func testMessage() notification.Message {
	return notification.NewMessage("order.placed", "Order placed", "Thanks for your order", "buyer@example.com")
}

func TestPermanent(t *testing.T) {
	base := errors.New("mailbox unavailable")

	assert.Nil(t, Permanent(nil))
	assert.False(t, IsPermanent(base))

	err := Permanent(base)
	assert.True(t, IsPermanent(err))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, base.Error(), err.Error())

	wrapped := errors.Join(errors.New("first"), err)
	assert.True(t, IsPermanent(wrapped))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		recipients []string
		wantErr    bool
	}{
		{"single recipient", []string{"a@example.com"}, false},
		{"named address", []string{"Buyer <a@example.com>"}, false},
		{"no recipients", nil, true},
		{"malformed", []string{"not-an-email"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := testMessage()
			msg.Recipients = tt.recipients
			err := validate(msg)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsPermanent(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSender_Address(t *testing.T) {
	assert.Equal(t, `"Shopfront" <no-reply@shop.test>`, Sender{Email: "no-reply@shop.test", Name: "Shopfront"}.Address())
	assert.Equal(t, "<no-reply@shop.test>", Sender{Email: "no-reply@shop.test"}.Address())
}

func TestLogProvider(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewLogProvider(zap.New(core))

	msg := testMessage()
	require.NoError(t, p.Send(context.Background(), msg))
	require.Equal(t, 1, logs.Len())

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, msg.ID.String(), fields["message_id"])
	assert.Equal(t, "buyer@example.com", fields["to"])
	assert.Equal(t, "Order placed", fields["subject"])

	msg.Recipients = nil
	assert.True(t, IsPermanent(p.Send(context.Background(), msg)))
}
