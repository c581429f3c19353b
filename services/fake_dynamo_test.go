package services

import (
	"context"
	"strings"
	"sync"

	"sangam_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is an in-memory DynamoAPI good enough for the expressions this
// layer issues: single-attribute equality key conditions, AND-joined
// equality/attribute_exists conditions and single-assignment SET updates.
type fakeDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
}

var fakeKeySchema = map[string][]string{
	models.InterestRequestsTable: {"requestId"},
	models.InterestPairsTable:    {"pairKey"},
	models.LikesTable:            {"likedFrom", "likedTo"},
	models.MessagesTable:         {"conversationId", "messageKey"},
	models.NotificationsTable:    {"receiver", "notificationId"},
	models.UserProfilesTable:     {"userId"},
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{tables: make(map[string]map[string]map[string]types.AttributeValue)}
}

func (f *fakeDynamo) table(name string) map[string]map[string]types.AttributeValue {
	t, ok := f.tables[name]
	if !ok {
		t = make(map[string]map[string]types.AttributeValue)
		f.tables[name] = t
	}
	return t
}

func itemKey(tableName string, item map[string]types.AttributeValue) string {
	parts := make([]string, 0, 2)
	for _, attr := range fakeKeySchema[tableName] {
		if s, ok := item[attr].(*types.AttributeValueMemberS); ok {
			parts = append(parts, s.Value)
		}
	}
	return strings.Join(parts, "|")
}

func attrEqual(a, b types.AttributeValue) bool {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	}
	return false
}

func resolveName(name string, names map[string]string) string {
	if strings.HasPrefix(name, "#") {
		if resolved, ok := names[name]; ok {
			return resolved
		}
		return strings.TrimPrefix(name, "#")
	}
	return name
}

// checkCondition evaluates AND-joined clauses of the forms
// attribute_exists(a), attribute_not_exists(a) and lhs = :rhs.
func checkCondition(
	condition string,
	item map[string]types.AttributeValue,
	values map[string]types.AttributeValue,
	names map[string]string,
) bool {
	for _, clause := range strings.Split(condition, " AND ") {
		clause = strings.TrimSpace(clause)
		switch {
		case strings.HasPrefix(clause, "attribute_not_exists("):
			attr := strings.TrimSuffix(strings.TrimPrefix(clause, "attribute_not_exists("), ")")
			if item != nil {
				if _, ok := item[resolveName(attr, names)]; ok {
					return false
				}
			}
		case strings.HasPrefix(clause, "attribute_exists("):
			attr := strings.TrimSuffix(strings.TrimPrefix(clause, "attribute_exists("), ")")
			if item == nil {
				return false
			}
			if _, ok := item[resolveName(attr, names)]; !ok {
				return false
			}
		default:
			parts := strings.SplitN(clause, "=", 2)
			if len(parts) != 2 {
				return false
			}
			attr := resolveName(strings.TrimSpace(parts[0]), names)
			valueRef := strings.TrimSpace(parts[1])
			if item == nil {
				return false
			}
			actual, ok := item[attr]
			if !ok {
				return false
			}
			expected, ok := values[valueRef]
			if !ok {
				return false
			}
			if !attrEqual(actual, expected) {
				return false
			}
		}
	}
	return true
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func (f *fakeDynamo) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tableName := aws.ToString(params.TableName)
	t := f.table(tableName)
	key := itemKey(tableName, params.Item)
	if params.ConditionExpression != nil {
		if !checkCondition(*params.ConditionExpression, t[key], params.ExpressionAttributeValues, params.ExpressionAttributeNames) {
			return nil, conditionFailed()
		}
	}
	t[key] = copyItem(params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tableName := aws.ToString(params.TableName)
	item, ok := f.table(tableName)[itemKey(tableName, params.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyItem(item)}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, params *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tableName := aws.ToString(params.TableName)
	t := f.table(tableName)
	key := itemKey(tableName, params.Key)
	if params.ConditionExpression != nil {
		if !checkCondition(*params.ConditionExpression, t[key], params.ExpressionAttributeValues, params.ExpressionAttributeNames) {
			return nil, conditionFailed()
		}
	}
	delete(t, key)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, params *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tableName := aws.ToString(params.TableName)
	t := f.table(tableName)
	key := itemKey(tableName, params.Key)
	item := t[key]
	if params.ConditionExpression != nil {
		if !checkCondition(*params.ConditionExpression, item, params.ExpressionAttributeValues, params.ExpressionAttributeNames) {
			return nil, conditionFailed()
		}
	}
	if item == nil {
		item = copyItem(params.Key)
		t[key] = item
	}

	// Only "SET a = :v" single assignments are issued by this layer.
	expr := strings.TrimSpace(strings.TrimPrefix(aws.ToString(params.UpdateExpression), "SET"))
	parts := strings.SplitN(expr, "=", 2)
	attr := resolveName(strings.TrimSpace(parts[0]), params.ExpressionAttributeNames)
	item[attr] = params.ExpressionAttributeValues[strings.TrimSpace(parts[1])]

	return &dynamodb.UpdateItemOutput{Attributes: copyItem(item)}, nil
}

func (f *fakeDynamo) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tableName := aws.ToString(params.TableName)
	parts := strings.SplitN(aws.ToString(params.KeyConditionExpression), "=", 2)
	attr := resolveName(strings.TrimSpace(parts[0]), params.ExpressionAttributeNames)
	expected := params.ExpressionAttributeValues[strings.TrimSpace(parts[1])]

	var matched []map[string]types.AttributeValue
	for _, item := range f.table(tableName) {
		actual, ok := item[attr]
		if !ok || !attrEqual(actual, expected) {
			continue
		}
		if params.FilterExpression != nil {
			if !checkCondition(*params.FilterExpression, item, params.ExpressionAttributeValues, params.ExpressionAttributeNames) {
				continue
			}
		}
		matched = append(matched, copyItem(item))
	}

	// Order by the table's sort key when it has one.
	schema := fakeKeySchema[tableName]
	if len(schema) == 2 {
		sortAttr := schema[1]
		ascending := params.ScanIndexForward == nil || *params.ScanIndexForward
		for i := 0; i < len(matched); i++ {
			for j := i + 1; j < len(matched); j++ {
				a, _ := matched[i][sortAttr].(*types.AttributeValueMemberS)
				b, _ := matched[j][sortAttr].(*types.AttributeValueMemberS)
				if a == nil || b == nil {
					continue
				}
				if (ascending && b.Value < a.Value) || (!ascending && b.Value > a.Value) {
					matched[i], matched[j] = matched[j], matched[i]
				}
			}
		}
	}
	return &dynamodb.QueryOutput{Items: matched}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var items []map[string]types.AttributeValue
	for _, item := range f.table(aws.ToString(params.TableName)) {
		items = append(items, copyItem(item))
	}
	return &dynamodb.ScanOutput{Items: items}, nil
}

func (f *fakeDynamo) TransactWriteItems(_ context.Context, params *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, twi := range params.TransactItems {
		if twi.Put == nil || twi.Put.ConditionExpression == nil {
			continue
		}
		tableName := aws.ToString(twi.Put.TableName)
		t := f.table(tableName)
		key := itemKey(tableName, twi.Put.Item)
		if !checkCondition(*twi.Put.ConditionExpression, t[key], twi.Put.ExpressionAttributeValues, twi.Put.ExpressionAttributeNames) {
			return nil, &types.TransactionCanceledException{
				Message: aws.String("Transaction cancelled"),
				CancellationReasons: []types.CancellationReason{
					{Code: aws.String("ConditionalCheckFailed")},
				},
			}
		}
	}
	for _, twi := range params.TransactItems {
		if twi.Put == nil {
			continue
		}
		tableName := aws.ToString(twi.Put.TableName)
		f.table(tableName)[itemKey(tableName, twi.Put.Item)] = copyItem(twi.Put.Item)
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func (f *fakeDynamo) BatchGetItem(_ context.Context, params *dynamodb.BatchGetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	responses := make(map[string][]map[string]types.AttributeValue)
	for tableName, request := range params.RequestItems {
		for _, key := range request.Keys {
			if item, ok := f.table(tableName)[itemKey(tableName, key)]; ok {
				responses[tableName] = append(responses[tableName], copyItem(item))
			}
		}
	}
	return &dynamodb.BatchGetItemOutput{Responses: responses}, nil
}
