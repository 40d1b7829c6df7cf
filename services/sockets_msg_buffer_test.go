package services

import (
	"fmt"
	"testing"
)

func TestMessageBufferEvictsOldest(t *testing.T) {
	buf := &MessageBuffer{MaxLength: 3}
	for i := 0; i < 5; i++ {
		buf.Push(&ChatMessage{ID: fmt.Sprintf("m%d", i)})
	}

	items := buf.GetCopy()
	if len(items) != 3 {
		t.Fatalf("expected 3 buffered messages, got %d", len(items))
	}
	for i, msg := range items {
		want := fmt.Sprintf("m%d", i+2)
		if msg.ID != want {
			t.Fatalf("expected %s at position %d, got %s", want, i, msg.ID)
		}
	}
}

func TestMessageBufferGroupIsolation(t *testing.T) {
	group := NewMessageBufferGroup()
	group.PushMessage("cafe-1", &ChatMessage{ID: "m1"})
	group.PushMessage("cafe-2", &ChatMessage{ID: "m2"})

	if msgs := group.CopyMessages("cafe-1"); len(msgs) != 1 || msgs[0].ID != "m1" {
		t.Fatalf("cafe-1 buffer wrong: %+v", msgs)
	}
	if msgs := group.CopyMessages("cafe-3"); msgs != nil {
		t.Fatalf("unknown tenant must return nil, got %+v", msgs)
	}
}
