package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	ws "github.com/coder/websocket"

	"github.com/hearthhq/hearth/internal/store"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
)

// Client represents a single authenticated WebSocket connection.
type Client struct {
	hub  *Hub
	conn *ws.Conn
	send chan []byte

	userID      int64
	username    string
	householdID int64

	// joined flips once the client has sent join_household. Only touched by
	// the read loop.
	joined bool

	todos  *store.TodoStore
	logger *slog.Logger
}

// NewClient creates a Client tied to the given hub and connection. The
// identity fields come from the validated connection token.
func NewClient(hub *Hub, conn *ws.Conn, todos *store.TodoStore, userID int64, username string, householdID int64, logger *slog.Logger) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		userID:      userID,
		username:    username,
		householdID: householdID,
		todos:       todos,
		logger:      logger,
	}
}

// Run registers the client, starts the write pump, and runs the read pump.
// It blocks until the connection is closed, then unregisters.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writePump(ctx)
	c.readPump(ctx)
}

// readPump reads incoming messages and dispatches them. It returns on error
// (connection close), which triggers cleanup.
func (c *Client) readPump(ctx context.Context) {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}
		c.handleEvent(data)
	}
}

// writePump drains the send channel and writes messages to the WebSocket.
// It also sends periodic pings to detect stale connections.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				// Hub closed the channel; connection is done
				return
			}
			if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

type inboundEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinPayload struct {
	HouseholdID int64 `json:"household_id"`
}

type createTodoPayload struct {
	Title      string  `json:"title"`
	AssignedTo *string `json:"assigned_to"`
	Priority   string  `json:"priority"`
}

type updateTodoPayload struct {
	ID         string  `json:"id"`
	Title      *string `json:"title"`
	Completed  *bool   `json:"completed"`
	Priority   *string `json:"priority"`
	AssignedTo *string `json:"assigned_to"`
}

type todoIDPayload struct {
	ID string `json:"id"`
}

type setAllPayload struct {
	Completed bool `json:"completed"`
}

// handleEvent dispatches a single inbound message. Everything except
// join_household requires the client to have joined its household room.
func (c *Client) handleEvent(raw []byte) {
	var msg inboundEvent
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid message")
		return
	}

	if msg.Event == EventJoinHousehold {
		c.handleJoin(msg.Data)
		return
	}

	if !c.joined {
		c.sendError("You must join your household room first")
		return
	}

	switch msg.Event {
	case EventTodoCreate:
		c.handleTodoCreate(msg.Data)
	case EventTodoUpdate:
		c.handleTodoUpdate(msg.Data)
	case EventTodoToggle:
		c.handleTodoToggle(msg.Data)
	case EventTodoDelete:
		c.handleTodoDelete(msg.Data)
	case EventTodoSetAll:
		c.handleTodoSetAll(msg.Data)
	case EventTodoRemoveCompleted:
		c.handleTodoRemoveCompleted()
	default:
		c.logger.Debug("unknown event", "event", msg.Event, "user", c.username)
	}
}

func (c *Client) handleJoin(data json.RawMessage) {
	var p joinPayload
	if len(data) > 0 {
		if err := json.Unmarshal(data, &p); err != nil {
			c.sendError("Invalid message")
			return
		}
	}

	// Clients may only ever join the room of the household their token
	// belongs to.
	if p.HouseholdID != c.householdID {
		c.sendError("You can only join your own household room")
		return
	}

	c.hub.JoinRoom(c)
	c.joined = true
	c.sendEvent(EventRoomJoined, map[string]string{
		"room": fmt.Sprintf("household_%d", c.householdID),
	})
}

func (c *Client) handleTodoCreate(data json.RawMessage) {
	var p createTodoPayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.sendError("Invalid message")
		return
	}
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		c.sendError("Title is required")
		return
	}

	todo, err := c.todos.Create(c.householdID, p.Title, p.AssignedTo, p.Priority, c.username)
	if err != nil {
		c.logger.Error("create todo", "error", err, "user", c.username)
		c.sendError("Internal error")
		return
	}

	c.hub.BroadcastToRoom(c.householdID, NewEvent(EventTodoCreated, map[string]any{"todo": todo}))
}

func (c *Client) handleTodoUpdate(data json.RawMessage) {
	var p updateTodoPayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.sendError("Invalid message")
		return
	}

	todo, err := c.todos.GetByID(c.householdID, p.ID)
	if err != nil {
		c.logger.Error("get todo", "error", err, "user", c.username)
		c.sendError("Internal error")
		return
	}
	if todo == nil {
		c.sendError("Todo not found")
		return
	}

	title := todo.Title
	if p.Title != nil {
		title = *p.Title
	}
	completed := todo.Completed
	if p.Completed != nil {
		completed = *p.Completed
	}
	priority := todo.Priority
	if p.Priority != nil {
		priority = *p.Priority
	}
	assignedTo := todo.AssignedTo
	if p.AssignedTo != nil {
		if *p.AssignedTo == "" {
			assignedTo = nil
		} else {
			assignedTo = p.AssignedTo
		}
	}

	updated, err := c.todos.Update(c.householdID, p.ID, title, completed, priority, assignedTo)
	if err != nil {
		c.logger.Error("update todo", "error", err, "user", c.username)
		c.sendError("Internal error")
		return
	}

	c.hub.BroadcastToRoom(c.householdID, NewEvent(EventTodoUpdated, map[string]any{"todo": updated}))
}

func (c *Client) handleTodoToggle(data json.RawMessage) {
	var p todoIDPayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.sendError("Invalid message")
		return
	}

	todo, err := c.todos.Toggle(c.householdID, p.ID)
	if err != nil {
		c.logger.Error("toggle todo", "error", err, "user", c.username)
		c.sendError("Internal error")
		return
	}
	if todo == nil {
		c.sendError("Todo not found")
		return
	}

	c.hub.BroadcastToRoom(c.householdID, NewEvent(EventTodoUpdated, map[string]any{"todo": todo}))
}

func (c *Client) handleTodoDelete(data json.RawMessage) {
	var p todoIDPayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.sendError("Invalid message")
		return
	}

	todo, err := c.todos.GetByID(c.householdID, p.ID)
	if err != nil {
		c.logger.Error("get todo", "error", err, "user", c.username)
		c.sendError("Internal error")
		return
	}
	if todo == nil {
		c.sendError("Todo not found")
		return
	}

	if err := c.todos.Delete(c.householdID, p.ID); err != nil {
		c.logger.Error("delete todo", "error", err, "user", c.username)
		c.sendError("Internal error")
		return
	}

	c.hub.BroadcastToRoom(c.householdID, NewEvent(EventTodoDeleted, map[string]string{"id": p.ID}))
}

func (c *Client) handleTodoSetAll(data json.RawMessage) {
	var p setAllPayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.sendError("Invalid message")
		return
	}

	todos, err := c.todos.SetAllCompleted(c.householdID, p.Completed)
	if err != nil {
		c.logger.Error("set all todos", "error", err, "user", c.username)
		c.sendError("Internal error")
		return
	}

	// One todo:updated per todo so clients reuse their single-item handler.
	for i := range todos {
		c.hub.BroadcastToRoom(c.householdID, NewEvent(EventTodoUpdated, map[string]any{"todo": &todos[i]}))
	}
}

func (c *Client) handleTodoRemoveCompleted() {
	ids, err := c.todos.DeleteCompleted(c.householdID)
	if err != nil {
		c.logger.Error("remove completed todos", "error", err, "user", c.username)
		c.sendError("Internal error")
		return
	}

	for _, id := range ids {
		c.hub.BroadcastToRoom(c.householdID, NewEvent(EventTodoDeleted, map[string]string{"id": id}))
	}
}

func (c *Client) sendEvent(event string, data any) {
	buf, err := json.Marshal(NewEvent(event, data))
	if err != nil {
		c.logger.Error("marshal event", "error", err)
		return
	}
	select {
	case c.send <- buf:
	default:
	}
}

func (c *Client) sendError(message string) {
	c.sendEvent(EventError, map[string]string{"message": message})
}
