package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sangam_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Notification texts for the interest workflow.
const (
	requestSentText     = "Someone sent you a request!"
	requestAcceptedText = "Your request was accepted!"
	requestDeniedText   = "Your request was denied."
)

// InterestService manages the mutual-interest workflow: pending ->
// accepted/denied, with duplicate suppression across both directions of a
// pair. The suppression is atomic: a pair-guard item is inserted with a
// not-exists condition in the same transaction as the request itself, so two
// concurrent creates for the same pair cannot both succeed.
type InterestService struct {
	Dynamo        *DynamoService
	Notifications *NotificationService
	Profiles      *UserProfileService
}

// Create records a new pending interest request from one user to another.
// If a pending or accepted request already exists between the pair, in
// either direction, that existing request is returned instead - duplicate
// creation is idempotent, not an error. A new request also records a like
// edge (interest implies like) and notifies the receiver.
func (s *InterestService) Create(ctx context.Context, fromUser, toUser string) (*models.InterestRequest, error) {
	if fromUser == "" || toUser == "" {
		return nil, fmt.Errorf("interestFrom and interestTo are required: %w", models.ErrInvalidArgument)
	}
	if fromUser == toUser {
		return nil, fmt.Errorf("cannot send interest to yourself: %w", models.ErrInvalidArgument)
	}

	pairKey := models.PairKey(fromUser, toUser)

	// Two attempts: if we lose the pair-guard race but the winning request
	// is denied before we can read it, the guard is gone and a fresh
	// insert is correct.
	for attempt := 0; attempt < 2; attempt++ {
		request := models.InterestRequest{
			RequestID:    uuid.NewString(),
			PairKey:      pairKey,
			InterestFrom: fromUser,
			InterestTo:   toUser,
			Status:       models.RequestStatusPending,
			CreatedAt:    time.Now().UTC().Format(time.RFC3339Nano),
		}

		err := s.insertRequest(ctx, request)
		if err == nil {
			log.Info().Str("from", fromUser).Str("to", toUser).Str("requestId", request.RequestID).
				Msg("interest request created")
			if _, err := s.Notifications.Notify(ctx, fromUser, toUser, models.NotificationTypeInterest, requestSentText); err != nil {
				return nil, fmt.Errorf("request stored but notification failed: %w", err)
			}
			return &request, nil
		}
		if !errors.Is(err, models.ErrConflict) {
			return nil, err
		}

		existing, lookupErr := s.activeRequest(ctx, pairKey)
		if lookupErr == nil {
			return existing, nil
		}
		if !errors.Is(lookupErr, models.ErrNotFound) {
			return nil, lookupErr
		}
	}
	return nil, fmt.Errorf("interest create contention for pair %s: %w", pairKey, models.ErrConflict)
}

// insertRequest writes the pair guard, the request and the like edge as one
// transaction. The guard's not-exists condition is the unique constraint
// that closes the duplicate-create race.
func (s *InterestService) insertRequest(ctx context.Context, request models.InterestRequest) error {
	pairItem, err := attributevalue.MarshalMap(models.InterestPair{
		PairKey:   request.PairKey,
		RequestID: request.RequestID,
		CreatedAt: request.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal pair guard: %w", err)
	}
	requestItem, err := attributevalue.MarshalMap(request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	likeItem, err := attributevalue.MarshalMap(models.Like{
		LikedFrom: request.InterestFrom,
		LikedTo:   request.InterestTo,
		CreatedAt: request.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal like edge: %w", err)
	}

	return s.Dynamo.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(models.InterestPairsTable),
				Item:                pairItem,
				ConditionExpression: aws.String("attribute_not_exists(pairKey)"),
			}},
			{Put: &types.Put{
				TableName: aws.String(models.InterestRequestsTable),
				Item:      requestItem,
			}},
			{Put: &types.Put{
				TableName: aws.String(models.LikesTable),
				Item:      likeItem,
			}},
		},
	})
}

// activeRequest resolves the pair guard to the pending/accepted request it
// protects.
func (s *InterestService) activeRequest(ctx context.Context, pairKey string) (*models.InterestRequest, error) {
	item, err := s.Dynamo.GetItem(ctx, models.InterestPairsTable, map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: pairKey},
	})
	if err != nil {
		return nil, err
	}
	var pair models.InterestPair
	if err := attributevalue.UnmarshalMap(item, &pair); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pair guard: %w", err)
	}
	return s.GetByID(ctx, pair.RequestID)
}

// GetByID fetches a single request.
func (s *InterestService) GetByID(ctx context.Context, requestID string) (*models.InterestRequest, error) {
	item, err := s.Dynamo.GetItem(ctx, models.InterestRequestsTable, map[string]types.AttributeValue{
		"requestId": &types.AttributeValueMemberS{Value: requestID},
	})
	if err != nil {
		return nil, err
	}
	var request models.InterestRequest
	if err := attributevalue.UnmarshalMap(item, &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request: %w", err)
	}
	return &request, nil
}

// Transition moves a request to newStatus. Accepted and denied are
// terminal: the status write is conditioned on the request still being
// pending, so a request that already reached a terminal state fails with
// ErrInvalidTransition and keeps its stored status. Terminal transitions
// notify the original sender; a denial also releases the pair guard so the
// pair may try again later.
func (s *InterestService) Transition(ctx context.Context, requestID, newStatus string) (*models.InterestRequest, error) {
	if requestID == "" {
		return nil, fmt.Errorf("requestId is required: %w", models.ErrInvalidArgument)
	}
	if !models.ValidRequestStatus(newStatus) {
		return nil, fmt.Errorf("invalid status %q: %w", newStatus, models.ErrInvalidArgument)
	}

	key := map[string]types.AttributeValue{
		"requestId": &types.AttributeValueMemberS{Value: requestID},
	}
	attrs, err := s.Dynamo.UpdateItemWithCondition(ctx, models.InterestRequestsTable, key,
		"SET #status = :status",
		"attribute_exists(requestId) AND #status = :pending",
		map[string]types.AttributeValue{
			":status":  &types.AttributeValueMemberS{Value: newStatus},
			":pending": &types.AttributeValueMemberS{Value: models.RequestStatusPending},
		},
		map[string]string{"#status": "status"},
	)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			// Either the request does not exist or it is terminal.
			current, getErr := s.GetByID(ctx, requestID)
			if getErr != nil {
				return nil, getErr
			}
			return nil, fmt.Errorf("request %s is already %s: %w", requestID, current.Status, models.ErrInvalidTransition)
		}
		return nil, err
	}

	var request models.InterestRequest
	if err := attributevalue.UnmarshalMap(attrs, &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated request: %w", err)
	}

	switch newStatus {
	case models.RequestStatusAccepted:
		log.Info().Str("requestId", requestID).Msg("interest request accepted")
		if _, err := s.Notifications.Notify(ctx, request.InterestTo, request.InterestFrom, models.NotificationTypeInterest, requestAcceptedText); err != nil {
			return nil, err
		}
	case models.RequestStatusDenied:
		log.Info().Str("requestId", requestID).Msg("interest request denied")
		if err := s.releasePair(ctx, request); err != nil {
			return nil, err
		}
		if _, err := s.Notifications.Notify(ctx, request.InterestTo, request.InterestFrom, models.NotificationTypeInterest, requestDeniedText); err != nil {
			return nil, err
		}
	}
	return &request, nil
}

// releasePair deletes the pair guard, but only while it still points at
// this request; a guard already replaced by a newer request stays.
func (s *InterestService) releasePair(ctx context.Context, request models.InterestRequest) error {
	err := s.Dynamo.DeleteItemWithCondition(ctx, models.InterestPairsTable,
		map[string]types.AttributeValue{
			"pairKey": &types.AttributeValueMemberS{Value: request.PairKey},
		},
		"requestId = :requestId",
		map[string]types.AttributeValue{
			":requestId": &types.AttributeValueMemberS{Value: request.RequestID},
		},
		nil,
	)
	if err != nil && !errors.Is(err, models.ErrConflict) {
		return err
	}
	return nil
}

// ListAll returns every request with both profiles populated. Debugging
// surface; it scans.
func (s *InterestService) ListAll(ctx context.Context) ([]models.InterestRequestView, error) {
	items, err := s.Dynamo.ScanItems(ctx, models.InterestRequestsTable)
	if err != nil {
		return nil, err
	}
	requests, err := unmarshalRequests(items)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, requests, true, true)
}

// SentBy returns requests the user sent, with the receiver's profile.
func (s *InterestService) SentBy(ctx context.Context, userID string) ([]models.InterestRequestView, error) {
	requests, err := s.queryByParty(ctx, models.InterestFromIndex, "interestFrom", userID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, requests, false, true)
}

// ReceivedPending returns pending requests addressed to the user, with the
// sender's profile.
func (s *InterestService) ReceivedPending(ctx context.Context, userID string) ([]models.InterestRequestView, error) {
	requests, err := s.queryByParty(ctx, models.InterestToIndex, "interestTo", userID)
	if err != nil {
		return nil, err
	}
	pending := requests[:0]
	for _, request := range requests {
		if request.Status == models.RequestStatusPending {
			pending = append(pending, request)
		}
	}
	return s.populate(ctx, pending, true, false)
}

// AcceptedInvolving returns accepted requests where the user is either
// party, with both profiles.
func (s *InterestService) AcceptedInvolving(ctx context.Context, userID string) ([]models.InterestRequestView, error) {
	requests, err := s.involving(ctx, userID, models.RequestStatusAccepted)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, requests, true, true)
}

// DeniedInvolving returns denied requests where the user is either party.
// The view only exposes the other party and which side performed the
// denial - never whether the viewer was sender or receiver beyond that.
func (s *InterestService) DeniedInvolving(ctx context.Context, userID string) ([]models.DeniedRequestView, error) {
	requests, err := s.involving(ctx, userID, models.RequestStatusDenied)
	if err != nil {
		return nil, err
	}

	otherIDs := make([]string, 0, len(requests))
	for _, request := range requests {
		otherIDs = append(otherIDs, otherParty(request, userID))
	}
	profiles, err := s.Profiles.BatchGetProfiles(ctx, otherIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.DeniedRequestView, 0, len(requests))
	for _, request := range requests {
		other := otherParty(request, userID)
		deniedBy := "them"
		if request.InterestTo == userID {
			// The receiver is the side that denies.
			deniedBy = "me"
		}
		view := models.DeniedRequestView{
			RequestID: request.RequestID,
			Status:    request.Status,
			DeniedBy:  deniedBy,
			UserID:    other,
		}
		if profile, ok := profiles[other]; ok {
			p := profile
			view.User = &p
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *InterestService) involving(ctx context.Context, userID, status string) ([]models.InterestRequest, error) {
	sent, err := s.queryByParty(ctx, models.InterestFromIndex, "interestFrom", userID)
	if err != nil {
		return nil, err
	}
	received, err := s.queryByParty(ctx, models.InterestToIndex, "interestTo", userID)
	if err != nil {
		return nil, err
	}

	all := append(sent, received...)
	matched := all[:0]
	for _, request := range all {
		if request.Status == status {
			matched = append(matched, request)
		}
	}
	return matched, nil
}

func (s *InterestService) queryByParty(ctx context.Context, indexName, attr, userID string) ([]models.InterestRequest, error) {
	if userID == "" {
		return nil, fmt.Errorf("userId is required: %w", models.ErrInvalidArgument)
	}
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.InterestRequestsTable, indexName,
		fmt.Sprintf("#%s = :user", attr),
		map[string]types.AttributeValue{
			":user": &types.AttributeValueMemberS{Value: userID},
		},
		map[string]string{"#" + attr: attr},
		0,
	)
	if err != nil {
		return nil, err
	}
	return unmarshalRequests(items)
}

func (s *InterestService) populate(ctx context.Context, requests []models.InterestRequest, withFrom, withTo bool) ([]models.InterestRequestView, error) {
	ids := make([]string, 0, len(requests)*2)
	for _, request := range requests {
		if withFrom {
			ids = append(ids, request.InterestFrom)
		}
		if withTo {
			ids = append(ids, request.InterestTo)
		}
	}
	profiles, err := s.Profiles.BatchGetProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.InterestRequestView, 0, len(requests))
	for _, request := range requests {
		view := models.InterestRequestView{InterestRequest: request}
		if withFrom {
			if profile, ok := profiles[request.InterestFrom]; ok {
				p := profile
				view.FromUser = &p
			}
		}
		if withTo {
			if profile, ok := profiles[request.InterestTo]; ok {
				p := profile
				view.ToUser = &p
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func otherParty(request models.InterestRequest, viewerID string) string {
	if request.InterestFrom == viewerID {
		return request.InterestTo
	}
	return request.InterestFrom
}

func unmarshalRequests(items []map[string]types.AttributeValue) ([]models.InterestRequest, error) {
	var requests []models.InterestRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, fmt.Errorf("failed to unmarshal requests: %w", err)
	}
	return requests, nil
}
