package models

// Message is one chat message between two users. Immutable after creation
// except for Seen, which only ever flips false -> true.
type Message struct {
	MessageID      string `dynamodbav:"messageId" json:"id"`
	ConversationID string `dynamodbav:"conversationId" json:"-"`
	// MessageKey is the sort key: createdAt plus a message-id suffix so
	// two messages written in the same nanosecond cannot collide.
	MessageKey string `dynamodbav:"messageKey" json:"-"`
	Sender     string `dynamodbav:"sender" json:"sender"`
	Receiver   string `dynamodbav:"receiver" json:"receiver"`
	Text       string `dynamodbav:"text" json:"text"`
	Seen       bool   `dynamodbav:"seen" json:"seen"`
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
}

const MessagesTable = "Messages"
