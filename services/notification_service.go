package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"sangam_server/models"
	"sangam_server/socket"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NotificationService persists notifications and fans them out to the
// receiver's live connections. Persistence is the success criterion; live
// delivery is best-effort and may reach zero connections.
type NotificationService struct {
	Dynamo   *DynamoService
	Registry *socket.Registry
}

// Notify creates the durable notification record and pushes it to every
// live connection of the receiver. The returned record is valid whether or
// not anyone was reached.
func (s *NotificationService) Notify(ctx context.Context, sender, receiver, notificationType, text string) (*models.Notification, error) {
	if sender == "" || receiver == "" || notificationType == "" {
		return nil, fmt.Errorf("sender, receiver and type are required: %w", models.ErrInvalidArgument)
	}

	notification := models.Notification{
		NotificationID: uuid.NewString(),
		Sender:         sender,
		Receiver:       receiver,
		Type:           notificationType,
		Text:           text,
		IsRead:         false,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339Nano),
	}

	if err := s.Dynamo.PutItem(ctx, models.NotificationsTable, notification); err != nil {
		return nil, err
	}

	reached := s.Registry.Deliver(receiver, models.EventNewNotification, models.NewNotificationEvent{
		Sender:    sender,
		Type:      notificationType,
		Text:      text,
		Timestamp: notification.CreatedAt,
	})
	log.Debug().
		Str("receiver", receiver).
		Str("type", notificationType).
		Int("connections", reached).
		Msg("notification stored and delivered")

	return &notification, nil
}

// ListForUser returns the user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	if userID == "" {
		return nil, fmt.Errorf("userId is required: %w", models.ErrInvalidArgument)
	}

	keyCondition := "#receiver = :receiver"
	items, err := s.Dynamo.QueryItems(ctx, models.NotificationsTable, keyCondition,
		map[string]types.AttributeValue{
			":receiver": &types.AttributeValueMemberS{Value: userID},
		},
		map[string]string{"#receiver": "receiver"},
		0,
	)
	if err != nil {
		return nil, err
	}

	var notifications []models.Notification
	if err := attributevalue.UnmarshalListOfMaps(items, &notifications); err != nil {
		return nil, fmt.Errorf("failed to unmarshal notifications: %w", err)
	}

	// The sort key is the notification id, so order here.
	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt > notifications[j].CreatedAt
	})
	return notifications, nil
}

// MarkAllRead flips every unread notification for the user to read and
// returns how many were modified. Already-read notifications are untouched.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, fmt.Errorf("userId is required: %w", models.ErrInvalidArgument)
	}

	keyCondition := "#receiver = :receiver"
	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.NotificationsTable, keyCondition,
		map[string]types.AttributeValue{
			":receiver": &types.AttributeValueMemberS{Value: userID},
			":unread":   &types.AttributeValueMemberBOOL{Value: false},
		},
		map[string]string{"#receiver": "receiver", "#isRead": "isRead"},
		"#isRead = :unread",
		true,
	)
	if err != nil {
		return 0, err
	}

	modified := 0
	for _, item := range items {
		idAttr, ok := item["notificationId"].(*types.AttributeValueMemberS)
		if !ok {
			continue
		}
		key := map[string]types.AttributeValue{
			"receiver":       &types.AttributeValueMemberS{Value: userID},
			"notificationId": &types.AttributeValueMemberS{Value: idAttr.Value},
		}
		_, err := s.Dynamo.UpdateItemWithCondition(ctx, models.NotificationsTable, key,
			"SET #isRead = :read",
			"#isRead = :unread",
			map[string]types.AttributeValue{
				":read":   &types.AttributeValueMemberBOOL{Value: true},
				":unread": &types.AttributeValueMemberBOOL{Value: false},
			},
			map[string]string{"#isRead": "isRead"},
		)
		if err != nil {
			if errors.Is(err, models.ErrConflict) {
				continue // a concurrent mark-read got it first
			}
			return modified, err
		}
		modified++
	}
	return modified, nil
}

// Delete removes a single notification for the user. NotFound when it does
// not exist.
func (s *NotificationService) Delete(ctx context.Context, userID, notificationID string) error {
	if userID == "" || notificationID == "" {
		return fmt.Errorf("userId and notificationId are required: %w", models.ErrInvalidArgument)
	}
	key := map[string]types.AttributeValue{
		"receiver":       &types.AttributeValueMemberS{Value: userID},
		"notificationId": &types.AttributeValueMemberS{Value: notificationID},
	}
	return s.Dynamo.DeleteItemIfExists(ctx, models.NotificationsTable, key, "notificationId")
}
