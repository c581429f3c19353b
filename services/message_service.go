package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sangam_server/models"
	"sangam_server/socket"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const newMessageText = "You have a new message."

// MessageService persists chat messages between two users and triggers the
// notification fan-out on send. Messages for a pair live under one
// conversation partition whose sort key is the creation timestamp, so the
// transcript comes back in chronological order straight from the store.
type MessageService struct {
	Dynamo        *DynamoService
	Notifications *NotificationService
	Registry      *socket.Registry
}

// Send persists a message with seen=false, pushes it to the receiver's live
// connections and records a message notification. The persisted message is
// returned; reaching zero live connections is not an error.
func (s *MessageService) Send(ctx context.Context, sender, receiver, text string) (*models.Message, error) {
	if sender == "" || receiver == "" || text == "" {
		return nil, fmt.Errorf("sender, receiver and text are required: %w", models.ErrInvalidArgument)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	id := uuid.NewString()
	message := models.Message{
		MessageID:      id,
		ConversationID: models.PairKey(sender, receiver),
		MessageKey:     now + "#" + id,
		Sender:         sender,
		Receiver:       receiver,
		Text:           text,
		Seen:           false,
		CreatedAt:      now,
	}

	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		return nil, err
	}

	reached := s.Registry.Deliver(receiver, models.EventReceiveMessage, models.ReceiveMessageEvent{
		ID:        message.MessageID,
		Sender:    sender,
		Receiver:  receiver,
		Text:      text,
		Seen:      false,
		CreatedAt: now,
	})
	log.Debug().
		Str("sender", sender).
		Str("receiver", receiver).
		Int("connections", reached).
		Msg("message stored")

	if _, err := s.Notifications.Notify(ctx, sender, receiver, models.NotificationTypeMessage, newMessageText); err != nil {
		return nil, fmt.Errorf("message stored but notification failed: %w", err)
	}

	return &message, nil
}

// History returns every message between the two users, in either direction,
// oldest first.
func (s *MessageService) History(ctx context.Context, userA, userB string) ([]models.Message, error) {
	if userA == "" || userB == "" {
		return nil, fmt.Errorf("both user ids are required: %w", models.ErrInvalidArgument)
	}

	keyCondition := "#conversationId = :conversationId"
	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition,
		map[string]types.AttributeValue{
			":conversationId": &types.AttributeValueMemberS{Value: models.PairKey(userA, userB)},
		},
		map[string]string{"#conversationId": "conversationId"},
		"",
		true, // oldest first: this is a transcript, not a feed
	)
	if err != nil {
		return nil, err
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}
	return messages, nil
}

// MarkSeen flips seen=true on every unseen message from sender to receiver
// and returns the count modified. Messages in the reverse direction and
// already-seen messages are never touched.
func (s *MessageService) MarkSeen(ctx context.Context, sender, receiver string) (int, error) {
	if sender == "" || receiver == "" {
		return 0, fmt.Errorf("sender and receiver are required: %w", models.ErrInvalidArgument)
	}

	conversationID := models.PairKey(sender, receiver)
	keyCondition := "#conversationId = :conversationId"
	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition,
		map[string]types.AttributeValue{
			":conversationId": &types.AttributeValueMemberS{Value: conversationID},
			":sender":         &types.AttributeValueMemberS{Value: sender},
			":unseen":         &types.AttributeValueMemberBOOL{Value: false},
		},
		map[string]string{
			"#conversationId": "conversationId",
			"#sender":         "sender",
			"#seen":           "seen",
		},
		"#sender = :sender AND #seen = :unseen",
		true,
	)
	if err != nil {
		return 0, err
	}

	modified := 0
	for _, item := range items {
		keyAttr, ok := item["messageKey"].(*types.AttributeValueMemberS)
		if !ok {
			continue
		}
		key := map[string]types.AttributeValue{
			"conversationId": &types.AttributeValueMemberS{Value: conversationID},
			"messageKey":     &types.AttributeValueMemberS{Value: keyAttr.Value},
		}
		_, err := s.Dynamo.UpdateItemWithCondition(ctx, models.MessagesTable, key,
			"SET #seen = :seen",
			"#seen = :unseen",
			map[string]types.AttributeValue{
				":seen":   &types.AttributeValueMemberBOOL{Value: true},
				":unseen": &types.AttributeValueMemberBOOL{Value: false},
			},
			map[string]string{"#seen": "seen"},
		)
		if err != nil {
			if errors.Is(err, models.ErrConflict) {
				continue // already seen via a concurrent call
			}
			return modified, err
		}
		modified++
	}
	return modified, nil
}
