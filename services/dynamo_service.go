package services

import (
	"context"
	"errors"
	"fmt"

	"sangam_server/models"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
)

// DynamoAPI is the subset of the DynamoDB client this layer uses. Tests
// substitute an in-memory implementation.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoService wraps the DynamoDB client with the handful of access
// patterns the interaction layer needs.
type DynamoService struct {
	Client DynamoAPI
}

// InitializeDynamoDBClient initializes the DynamoDB client for a region.
func InitializeDynamoDBClient(region string) *dynamodb.Client {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(region))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load AWS config")
	}
	return dynamodb.NewFromConfig(cfg)
}

// PutItem stores an item unconditionally (upsert).
func (ds *DynamoService) PutItem(ctx context.Context, tableName string, item interface{}) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &tableName,
		Item:      marshaled,
	})
	if err != nil {
		return storageError("put", tableName, err)
	}
	return nil
}

// PutItemIfAbsent stores an item only if no item with the same key exists.
// Returns ErrConflict when the item is already there.
func (ds *DynamoService) PutItemIfAbsent(ctx context.Context, tableName string, item interface{}, keyAttr string) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	condition := fmt.Sprintf("attribute_not_exists(%s)", keyAttr)
	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &tableName,
		Item:                marshaled,
		ConditionExpression: &condition,
	})
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return fmt.Errorf("item already exists in '%s': %w", tableName, models.ErrConflict)
		}
		return storageError("conditional put", tableName, err)
	}
	return nil
}

// GetItem retrieves one item by key. Returns ErrNotFound when absent.
func (ds *DynamoService) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	output, err := ds.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &tableName,
		Key:       key,
	})
	if err != nil {
		return nil, storageError("get", tableName, err)
	}
	if output.Item == nil {
		return nil, fmt.Errorf("item in '%s': %w", tableName, models.ErrNotFound)
	}
	return output.Item, nil
}

// DeleteItem removes an item unconditionally.
func (ds *DynamoService) DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error {
	_, err := ds.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &tableName,
		Key:       key,
	})
	if err != nil {
		return storageError("delete", tableName, err)
	}
	return nil
}

// DeleteItemIfExists removes an item only if it exists. Returns ErrNotFound
// when there was nothing to delete.
func (ds *DynamoService) DeleteItemIfExists(ctx context.Context, tableName string, key map[string]types.AttributeValue, keyAttr string) error {
	condition := fmt.Sprintf("attribute_exists(%s)", keyAttr)
	_, err := ds.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           &tableName,
		Key:                 key,
		ConditionExpression: &condition,
	})
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return fmt.Errorf("item in '%s': %w", tableName, models.ErrNotFound)
		}
		return storageError("conditional delete", tableName, err)
	}
	return nil
}

// DeleteItemWithCondition removes an item only when the condition holds.
// A failed condition surfaces as ErrConflict.
func (ds *DynamoService) DeleteItemWithCondition(
	ctx context.Context,
	tableName string,
	key map[string]types.AttributeValue,
	conditionExpression string,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
) error {
	input := &dynamodb.DeleteItemInput{
		TableName:                 &tableName,
		Key:                       key,
		ConditionExpression:       &conditionExpression,
		ExpressionAttributeValues: expressionAttributeValues,
	}
	if len(expressionAttributeNames) > 0 {
		input.ExpressionAttributeNames = expressionAttributeNames
	}
	_, err := ds.Client.DeleteItem(ctx, input)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return fmt.Errorf("condition failed deleting from '%s': %w", tableName, models.ErrConflict)
		}
		return storageError("conditional delete", tableName, err)
	}
	return nil
}

// UpdateItemWithCondition applies an update expression guarded by a
// condition expression, returning the new attributes. A failed condition
// surfaces as ErrConflict so the caller can translate it.
func (ds *DynamoService) UpdateItemWithCondition(
	ctx context.Context,
	tableName string,
	key map[string]types.AttributeValue,
	updateExpression string,
	conditionExpression string,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
) (map[string]types.AttributeValue, error) {
	input := &dynamodb.UpdateItemInput{
		TableName:                 &tableName,
		Key:                       key,
		UpdateExpression:          &updateExpression,
		ExpressionAttributeValues: expressionAttributeValues,
		ReturnValues:              types.ReturnValueAllNew,
	}
	if conditionExpression != "" {
		input.ConditionExpression = &conditionExpression
	}
	if len(expressionAttributeNames) > 0 {
		input.ExpressionAttributeNames = expressionAttributeNames
	}

	output, err := ds.Client.UpdateItem(ctx, input)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return nil, fmt.Errorf("condition failed updating '%s': %w", tableName, models.ErrConflict)
		}
		return nil, storageError("update", tableName, err)
	}
	return output.Attributes, nil
}

// QueryItems queries a table by key condition.
func (ds *DynamoService) QueryItems(
	ctx context.Context,
	tableName string,
	keyConditionExpression string,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
	limit int32,
) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.QueryInput{
		TableName:                 &tableName,
		KeyConditionExpression:    &keyConditionExpression,
		ExpressionAttributeValues: expressionAttributeValues,
	}
	if len(expressionAttributeNames) > 0 {
		input.ExpressionAttributeNames = expressionAttributeNames
	}
	if limit > 0 {
		input.Limit = &limit
	}
	output, err := ds.Client.Query(ctx, input)
	if err != nil {
		return nil, storageError("query", tableName, err)
	}
	return output.Items, nil
}

// QueryItemsWithIndex queries a Global Secondary Index.
func (ds *DynamoService) QueryItemsWithIndex(
	ctx context.Context,
	tableName string,
	indexName string,
	keyConditionExpression string,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
	limit int32,
) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.QueryInput{
		TableName:                 &tableName,
		IndexName:                 &indexName,
		KeyConditionExpression:    &keyConditionExpression,
		ExpressionAttributeValues: expressionAttributeValues,
	}
	if len(expressionAttributeNames) > 0 {
		input.ExpressionAttributeNames = expressionAttributeNames
	}
	if limit > 0 {
		input.Limit = &limit
	}
	output, err := ds.Client.Query(ctx, input)
	if err != nil {
		return nil, storageError("query index "+indexName, tableName, err)
	}
	return output.Items, nil
}

// QueryItemsWithOptions queries with an explicit sort-key direction.
// ascending=true returns oldest first.
func (ds *DynamoService) QueryItemsWithOptions(
	ctx context.Context,
	tableName string,
	keyConditionExpression string,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
	filterExpression string,
	ascending bool,
) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.QueryInput{
		TableName:                 &tableName,
		KeyConditionExpression:    &keyConditionExpression,
		ExpressionAttributeValues: expressionAttributeValues,
		ScanIndexForward:          &ascending,
	}
	if len(expressionAttributeNames) > 0 {
		input.ExpressionAttributeNames = expressionAttributeNames
	}
	if filterExpression != "" {
		input.FilterExpression = &filterExpression
	}
	output, err := ds.Client.Query(ctx, input)
	if err != nil {
		return nil, storageError("query", tableName, err)
	}
	return output.Items, nil
}

// TransactWriteItems runs a write transaction. A transaction cancelled by a
// conditional check surfaces as ErrConflict.
func (ds *DynamoService) TransactWriteItems(ctx context.Context, input *dynamodb.TransactWriteItemsInput) error {
	_, err := ds.Client.TransactWriteItems(ctx, input)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return fmt.Errorf("transaction condition failed: %w", models.ErrConflict)
		}
		return storageError("transact write", "(multiple)", err)
	}
	return nil
}

// BatchGetProfilesByIDs fetches many items by single-attribute key in one
// round trip.
func (ds *DynamoService) BatchGetItems(ctx context.Context, tableName string, keyAttr string, ids []string) ([]map[string]types.AttributeValue, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, map[string]types.AttributeValue{
			keyAttr: &types.AttributeValueMemberS{Value: id},
		})
	}
	output, err := ds.Client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
		RequestItems: map[string]types.KeysAndAttributes{
			tableName: {Keys: keys},
		},
	})
	if err != nil {
		return nil, storageError("batch get", tableName, err)
	}
	return output.Responses[tableName], nil
}

// ScanItems returns every item in a table. Only used by the debugging
// list-all endpoint; nothing hot-path scans.
func (ds *DynamoService) ScanItems(ctx context.Context, tableName string) ([]map[string]types.AttributeValue, error) {
	output, err := ds.Client.Scan(ctx, &dynamodb.ScanInput{TableName: &tableName})
	if err != nil {
		return nil, storageError("scan", tableName, err)
	}
	return output.Items, nil
}

// IsConditionalCheckFailed reports whether err is a failed condition
// expression, either on a single write or inside a cancelled transaction.
func IsConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}
	var tc *types.TransactionCanceledException
	if errors.As(err, &tc) {
		for _, reason := range tc.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				return true
			}
		}
	}
	return false
}

func storageError(op, tableName string, err error) error {
	return fmt.Errorf("%s on table '%s': %w: %w", op, tableName, models.ErrUnavailable, err)
}
