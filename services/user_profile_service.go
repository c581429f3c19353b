package services

import (
	"context"
	"errors"
	"fmt"

	"sangam_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UserProfileService reads from the external user store. The profile CRUD
// itself lives in another service; this layer only needs lookups to populate
// like and interest-request cards.
type UserProfileService struct {
	Dynamo *DynamoService
}

// GetProfile retrieves one profile by user id.
func (s *UserProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("userId is required: %w", models.ErrInvalidArgument)
	}
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, err
	}
	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// Exists reports whether a user id is present in the user store.
func (s *UserProfileService) Exists(ctx context.Context, userID string) (bool, error) {
	_, err := s.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// BatchGetProfiles fetches many profiles in one round trip, keyed by user
// id. Ids with no profile are simply absent from the result.
func (s *UserProfileService) BatchGetProfiles(ctx context.Context, userIDs []string) (map[string]models.UserProfile, error) {
	items, err := s.Dynamo.BatchGetItems(ctx, models.UserProfilesTable, "userId", dedupe(userIDs))
	if err != nil {
		return nil, err
	}
	profiles := make(map[string]models.UserProfile, len(items))
	for _, item := range items {
		var profile models.UserProfile
		if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
		}
		profiles[profile.UserID] = profile
	}
	return profiles, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
