package websocket

// Client-to-server events.
const (
	EventJoinHousehold       = "join_household"
	EventTodoCreate          = "todo:create"
	EventTodoUpdate          = "todo:update"
	EventTodoToggle          = "todo:toggle"
	EventTodoDelete          = "todo:delete"
	EventTodoSetAll          = "todo:set_all"
	EventTodoRemoveCompleted = "todo:remove_completed"
)

// Server-to-client events.
const (
	EventRoomJoined   = "room_joined"
	EventError        = "error"
	EventTodoCreated  = "todo:created"
	EventTodoUpdated  = "todo:updated"
	EventTodoDeleted  = "todo:deleted"
	EventBackupStatus = "backup:status"
)

// Event is the envelope for everything sent over the socket.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// NewEvent wraps a payload in the wire envelope.
func NewEvent(event string, data any) Event {
	return Event{Event: event, Data: data}
}
