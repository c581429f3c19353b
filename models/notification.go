package models

// Notification types
const (
	NotificationTypeMessage  = "message"
	NotificationTypeInterest = "interest"
)

// Notification is the durable record of an event directed at a user. One is
// created per message send, per interest-request creation and per terminal
// interest transition, whether or not the receiver is connected.
type Notification struct {
	NotificationID string `dynamodbav:"notificationId" json:"notificationId"`
	Sender         string `dynamodbav:"sender" json:"sender"`
	Receiver       string `dynamodbav:"receiver" json:"receiver"`
	Type           string `dynamodbav:"type" json:"type"`
	Text           string `dynamodbav:"text" json:"text"`
	IsRead         bool   `dynamodbav:"isRead" json:"isRead"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
}

const NotificationsTable = "Notifications"
