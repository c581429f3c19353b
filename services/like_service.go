package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sangam_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
)

// LikeService maintains the directed like edge set. Toggle is a strict
// toggle, not an upsert: both the insert and the delete are conditional
// writes, so two concurrent calls cannot double-insert.
type LikeService struct {
	Dynamo   *DynamoService
	Profiles *UserProfileService
}

const toggleAttempts = 3

// Toggle creates the (from -> to) edge if absent and deletes it if present.
// Returns whether the edge exists after the call.
func (s *LikeService) Toggle(ctx context.Context, fromUser, toUser string) (bool, error) {
	if fromUser == "" || toUser == "" {
		return false, fmt.Errorf("likedFrom and likedTo are required: %w", models.ErrInvalidArgument)
	}

	like := models.Like{
		LikedFrom: fromUser,
		LikedTo:   toUser,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	// Conditional insert, and on conflict a conditional delete. If a
	// concurrent toggle wins both races, start over.
	for attempt := 0; attempt < toggleAttempts; attempt++ {
		err := s.Dynamo.PutItemIfAbsent(ctx, models.LikesTable, like, "likedFrom")
		if err == nil {
			log.Debug().Str("from", fromUser).Str("to", toUser).Msg("like created")
			return true, nil
		}
		if !errors.Is(err, models.ErrConflict) {
			return false, err
		}

		err = s.Dynamo.DeleteItemIfExists(ctx, models.LikesTable, likeKey(fromUser, toUser), "likedFrom")
		if err == nil {
			log.Debug().Str("from", fromUser).Str("to", toUser).Msg("like removed")
			return false, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			return false, err
		}
	}
	return false, fmt.Errorf("like toggle contention for %s -> %s: %w", fromUser, toUser, models.ErrConflict)
}

// Unlike removes the edge outright. NotFound when there is no edge, which
// distinguishes it from Toggle.
func (s *LikeService) Unlike(ctx context.Context, fromUser, toUser string) error {
	if fromUser == "" || toUser == "" {
		return fmt.Errorf("likedFrom and likedTo are required: %w", models.ErrInvalidArgument)
	}
	return s.Dynamo.DeleteItemIfExists(ctx, models.LikesTable, likeKey(fromUser, toUser), "likedFrom")
}

// ReceivedLikes returns the profiles of everyone who liked the user.
func (s *LikeService) ReceivedLikes(ctx context.Context, userID string) ([]models.UserProfile, error) {
	ids, err := s.ReceivedLikeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.profilesFor(ctx, ids)
}

// SentLikes returns the profiles of everyone the user has liked.
func (s *LikeService) SentLikes(ctx context.Context, userID string) ([]models.UserProfile, error) {
	ids, err := s.SentLikeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.profilesFor(ctx, ids)
}

// SentLikeIDs returns the bare ids the user has liked, for cheap membership
// checks on the client.
func (s *LikeService) SentLikeIDs(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, fmt.Errorf("userId is required: %w", models.ErrInvalidArgument)
	}
	items, err := s.Dynamo.QueryItems(ctx, models.LikesTable, "#likedFrom = :user",
		map[string]types.AttributeValue{
			":user": &types.AttributeValueMemberS{Value: userID},
		},
		map[string]string{"#likedFrom": "likedFrom"},
		0,
	)
	if err != nil {
		return nil, err
	}
	return likeEdgeIDs(items, func(like models.Like) string { return like.LikedTo })
}

// ReceivedLikeIDs returns the bare ids of everyone who liked the user.
func (s *LikeService) ReceivedLikeIDs(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, fmt.Errorf("userId is required: %w", models.ErrInvalidArgument)
	}
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.LikesTable, models.LikedToIndex,
		"#likedTo = :user",
		map[string]types.AttributeValue{
			":user": &types.AttributeValueMemberS{Value: userID},
		},
		map[string]string{"#likedTo": "likedTo"},
		0,
	)
	if err != nil {
		return nil, err
	}
	return likeEdgeIDs(items, func(like models.Like) string { return like.LikedFrom })
}

func (s *LikeService) profilesFor(ctx context.Context, ids []string) ([]models.UserProfile, error) {
	byID, err := s.Profiles.BatchGetProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}
	profiles := make([]models.UserProfile, 0, len(ids))
	for _, id := range ids {
		if profile, ok := byID[id]; ok {
			profiles = append(profiles, profile)
		}
	}
	return profiles, nil
}

func likeEdgeIDs(items []map[string]types.AttributeValue, pick func(models.Like) string) ([]string, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		var like models.Like
		if err := attributevalue.UnmarshalMap(item, &like); err != nil {
			return nil, fmt.Errorf("failed to unmarshal like: %w", err)
		}
		ids = append(ids, pick(like))
	}
	return ids, nil
}

func likeKey(fromUser, toUser string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"likedFrom": &types.AttributeValueMemberS{Value: fromUser},
		"likedTo":   &types.AttributeValueMemberS{Value: toUser},
	}
}
