package services

import "sync"

// MessageBuffer keeps the most recent lobby messages for one tenant, so a
// joining client doesn't open to an empty screen.
type MessageBuffer struct {
	MaxLength int
	items     []*ChatMessage
}

func (buf *MessageBuffer) Push(msg *ChatMessage) {

	// If there is still room under the max, add it
	if len(buf.items) < buf.MaxLength {
		buf.items = append(buf.items, msg)
		return
	}

	// Move everything over one space
	for i := 1; i < len(buf.items); i++ {
		buf.items[i-1] = buf.items[i]
	}

	// Insert the new message in the last slot
	buf.items[len(buf.items)-1] = msg

}

func (buf *MessageBuffer) GetCopy() []*ChatMessage {
	items := make([]*ChatMessage, len(buf.items))
	copy(items, buf.items)
	return items
}

// MessageBufferGroup holds the replay buffers for all tenants, keyed by
// tenant slug.
type MessageBufferGroup struct {
	buffers    map[string]*MessageBuffer
	buffersMut sync.RWMutex
}

func NewMessageBufferGroup() *MessageBufferGroup {
	return &MessageBufferGroup{
		buffers: map[string]*MessageBuffer{},
	}
}

func (g *MessageBufferGroup) PushMessage(tenantSlug string, msg *ChatMessage) {

	// Lock on the buffers
	g.buffersMut.Lock()
	defer g.buffersMut.Unlock()

	// Get the buffer for this tenant
	buf, ok := g.buffers[tenantSlug]
	if !ok {
		buf = &MessageBuffer{
			MaxLength: 25,
		}
		g.buffers[tenantSlug] = buf
	}

	// Push the message
	buf.Push(msg)

}

func (g *MessageBufferGroup) CopyMessages(tenantSlug string) []*ChatMessage {

	// Lock on the buffers
	g.buffersMut.RLock()
	defer g.buffersMut.RUnlock()

	// Get the buffer for this tenant
	buf, ok := g.buffers[tenantSlug]
	if !ok {
		return nil
	}

	// Copy the values from the buffer
	return buf.GetCopy()

}
