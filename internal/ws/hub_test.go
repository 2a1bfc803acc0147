package ws

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/laporinapp/laporin/internal/model"
)

func newTestClient(h *Hub) *Client {
	c := NewClient(h, nil, uuid.New(), "tester", model.RoleCitizen)
	h.addClient(c)
	return c
}

// drain reads every queued event off a client's send buffer
func drain(t *testing.T, c *Client) []model.WSEvent {
	t.Helper()
	var events []model.WSEvent
	for {
		select {
		case data := <-c.send:
			var ev model.WSEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				t.Fatalf("undecodable event on send buffer: %v", err)
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestPublishReachesEveryRoomMember(t *testing.T) {
	h := NewHub()
	a := newTestClient(h)
	b := newTestClient(h)
	outsider := newTestClient(h)

	h.JoinRoom(a, "room-1")
	h.JoinRoom(b, "room-1")
	h.JoinRoom(outsider, "room-2")

	h.Publish("room-1", &model.WSEvent{Type: model.WSEventReceiveMessage})

	if got := len(drain(t, a)); got != 1 {
		t.Errorf("member a got %d events, want 1", got)
	}
	if got := len(drain(t, b)); got != 1 {
		t.Errorf("member b got %d events, want 1", got)
	}
	if got := len(drain(t, outsider)); got != 0 {
		t.Errorf("outsider got %d events, want 0", got)
	}
}

func TestPublishExceptSkipsTheSender(t *testing.T) {
	h := NewHub()
	sender := newTestClient(h)
	other := newTestClient(h)

	h.JoinRoom(sender, "room-1")
	h.JoinRoom(other, "room-1")

	h.PublishExcept("room-1", sender.SocketID, &model.WSEvent{Type: model.WSEventUserTyping})

	if got := len(drain(t, sender)); got != 0 {
		t.Errorf("sender got %d events, want 0", got)
	}
	events := drain(t, other)
	if len(events) != 1 {
		t.Fatalf("other got %d events, want 1", len(events))
	}
	if events[0].Type != model.WSEventUserTyping {
		t.Errorf("got event type %q, want %q", events[0].Type, model.WSEventUserTyping)
	}
}

func TestLeaveRoomStopsDelivery(t *testing.T) {
	h := NewHub()
	c := newTestClient(h)
	h.JoinRoom(c, "room-1")
	h.LeaveRoom(c, "room-1")

	h.Publish("room-1", &model.WSEvent{Type: model.WSEventReceiveMessage})

	if got := len(drain(t, c)); got != 0 {
		t.Errorf("got %d events after leaving, want 0", got)
	}
	if h.ActiveRoomsCount() != 0 {
		t.Errorf("empty room was not removed")
	}
}

func TestDisconnectCleansUpAllMemberships(t *testing.T) {
	h := NewHub()
	c := newTestClient(h)
	stayer := newTestClient(h)

	h.JoinRoom(c, "room-1")
	h.JoinRoom(c, "room-2")
	h.JoinRoom(stayer, "room-1")

	h.removeClient(c)

	if h.ConnectionsCount() != 1 {
		t.Errorf("got %d connections, want 1", h.ConnectionsCount())
	}
	if h.RoomSize("room-1") != 1 {
		t.Errorf("room-1 size = %d, want 1", h.RoomSize("room-1"))
	}
	if h.RoomSize("room-2") != 0 {
		t.Errorf("room-2 size = %d, want 0", h.RoomSize("room-2"))
	}

	// send channel is closed, publish must not panic
	h.Publish("room-1", &model.WSEvent{Type: model.WSEventReceiveMessage})
	if got := len(drain(t, stayer)); got != 1 {
		t.Errorf("stayer got %d events, want 1", got)
	}
}

func TestJoinRoomIgnoresUnregisteredClient(t *testing.T) {
	h := NewHub()
	ghost := NewClient(h, nil, uuid.New(), "ghost", model.RoleCitizen)

	h.JoinRoom(ghost, "room-1")

	if h.ActiveRoomsCount() != 0 {
		t.Errorf("unregistered client created a room")
	}
}

func TestSlowClientDoesNotBlockTheRoom(t *testing.T) {
	h := NewHub()
	slow := newTestClient(h)
	fast := newTestClient(h)
	h.JoinRoom(slow, "room-1")
	h.JoinRoom(fast, "room-1")

	// Fill the slow client's buffer to capacity
	for i := 0; i < cap(slow.send); i++ {
		slow.send <- []byte("{}")
	}

	// Must return instead of blocking on the full buffer; the event is
	// dropped for the slow client only
	h.Publish("room-1", &model.WSEvent{Type: model.WSEventReceiveMessage})

	if got := len(drain(t, fast)); got != 1 {
		t.Errorf("fast client got %d events, want 1", got)
	}
}
