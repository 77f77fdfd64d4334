package ws

const (
	// server - client
	MsgReady          = "ready"
	MsgAccountUpdated = "account_updated"
)

// sendBuffer is the number of queued events per connection. A connection
// that falls further behind loses events.
const sendBuffer = 64
