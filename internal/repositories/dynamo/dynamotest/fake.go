// Package dynamotest provides an in-memory stand-in for the DynamoDB calls
// the dynamo stores make.
package dynamotest

import (
	"context"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Fake keeps tables in memory. It understands attribute_exists and
// attribute_not_exists conditions on the partition key and nothing else.
type Fake struct {
	mu     sync.Mutex
	keys   map[string]string
	tables map[string]map[string]map[string]types.AttributeValue
}

// New creates a Fake. keys maps table name to partition key attribute.
func New(keys map[string]string) *Fake {
	return &Fake{
		keys:   keys,
		tables: map[string]map[string]map[string]types.AttributeValue{},
	}
}

func (f *Fake) table(name string) map[string]map[string]types.AttributeValue {
	t, ok := f.tables[name]
	if !ok {
		t = map[string]map[string]types.AttributeValue{}
		f.tables[name] = t
	}
	return t
}

func (f *Fake) keyOf(table string, item map[string]types.AttributeValue) string {
	if s, ok := item[f.keys[table]].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func checkCond(cond *string, exists bool) error {
	if cond == nil {
		return nil
	}
	c := aws.ToString(cond)
	failed := (strings.HasPrefix(c, "attribute_not_exists") && exists) ||
		(strings.HasPrefix(c, "attribute_exists") && !exists)
	if failed {
		return &types.ConditionalCheckFailedException{Message: aws.String("conditional check failed")}
	}
	return nil
}

func (f *Fake) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := aws.ToString(in.TableName)
	t := f.table(name)
	k := f.keyOf(name, in.Item)
	_, exists := t[k]
	if err := checkCond(in.ConditionExpression, exists); err != nil {
		return nil, err
	}
	t[k] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *Fake) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := aws.ToString(in.TableName)
	return &dynamodb.GetItemOutput{Item: f.table(name)[f.keyOf(name, in.Key)]}, nil
}

func (f *Fake) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := aws.ToString(in.TableName)
	t := f.table(name)
	k := f.keyOf(name, in.Key)
	_, exists := t[k]
	if err := checkCond(in.ConditionExpression, exists); err != nil {
		return nil, err
	}
	delete(t, k)
	return &dynamodb.DeleteItemOutput{}, nil
}

// Scan returns the whole table in one page
func (f *Fake) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []map[string]types.AttributeValue
	for _, it := range f.table(aws.ToString(in.TableName)) {
		items = append(items, it)
	}
	return &dynamodb.ScanOutput{Items: items, Count: int32(len(items))}, nil
}
