package core

// Event is a realtime notification pushed to connected clients.
type Event struct {
	Name    string      `json:"event"`
	Room    string      `json:"-"`
	Payload interface{} `json:"payload"`
}

// Broadcaster publishes events to the realtime channel. Handlers depend on
// this capability instead of a process-wide transport handle; the transport
// itself (socket server, message broker, ...) lives behind it.
type Broadcaster interface {
	// Publish sends an event to every connected client.
	Publish(event string, payload interface{})
	// PublishTo sends an event to the clients joined to room (by
	// convention a user ID).
	PublishTo(room, event string, payload interface{})
}
