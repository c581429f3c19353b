package models

// Socket event names. These are the wire contract with the client; field
// names in the payload structs below are stable for the same reason.
const (
	EventNewNotification = "newNotification"
	EventReceiveMessage  = "receiveMessage"
)

// NewNotificationEvent is pushed to the receiver's personal channel when a
// notification is persisted and the receiver has live connections.
type NewNotificationEvent struct {
	Sender    string `json:"sender"`
	Type      string `json:"type"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// ReceiveMessageEvent mirrors the persisted message for live chat delivery.
type ReceiveMessageEvent struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
	Text      string `json:"text"`
	Seen      bool   `json:"seen"`
	CreatedAt string `json:"createdAt"`
}
