package eventbus

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInProcessEventBus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus, err := NewEventBus(ctx, Config{}, slog.Default())
	require.NoError(t, err)

	msgs, err := bus.Subscribe(ctx, "match.reported.v1")
	require.NoError(t, err)

	require.NoError(t, bus.Publish("match.reported.v1", message.NewMessage(watermill.NewUUID(), []byte(`{"ok":true}`))))

	select {
	case msg := <-msgs:
		assert.JSONEq(t, `{"ok":true}`, string(msg.Payload))
		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}

	assert.NoError(t, bus.Close())
}
