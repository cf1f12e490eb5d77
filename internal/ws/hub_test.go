package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishEncodesEvent(t *testing.T) {
	h := NewHub()
	h.Publish(Event{Type: TypeSaleCompleted, Action: "checkout", Data: map[string]string{"id": "SALE-1"}})

	select {
	case msg := <-h.Broadcast:
		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(msg, &got))
		assert.Equal(t, "sale_completed", got["type"])
		assert.Equal(t, "checkout", got["action"])
		assert.NotEmpty(t, got["timestamp"])
	case <-time.After(time.Second):
		t.Fatal("event was not queued")
	}
}

func TestPublishKeepsOrderAndNeverBlocks(t *testing.T) {
	h := NewHub()
	total := cap(h.Broadcast) + 10
	for i := 0; i < total; i++ {
		h.Publish(Event{Type: TypeStockUpdate, Action: "update", Data: i})
	}
	require.Len(t, h.Broadcast, cap(h.Broadcast))

	for i := 0; i < cap(h.Broadcast); i++ {
		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(<-h.Broadcast, &got))
		assert.Equal(t, float64(i), got["data"])
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	h.Publish(Event{Type: TypeStockUpdate, Action: "noop"})
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	assert.Equal(t, 0, h.ClientCount())
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.Publish(Event{Type: TypeStockUpdate, Action: "product_created"})
	r.Publish(Event{Type: TypeSaleCompleted, Action: "checkout"})

	assert.Equal(t, []string{"stock_update/product_created", "sale_completed/checkout"}, r.Types())
	assert.Len(t, r.Events(), 2)
}
