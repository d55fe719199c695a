package viewstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DDBClient is the subset of the DynamoDB API used by DynamoStore.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// Item attribute names.
const (
	attrGridID    = "grid_id"
	attrName      = "name"
	attrVersion   = "version"
	attrCodec     = "codec"
	attrView      = "view"
	attrUpdatedAt = "updated_at"
)

// DynamoStore stores views in a DynamoDB table.
//
// Table schema:
//   - Partition key: grid_id (string)
//   - Sort key: name (string)
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name gridkit-views \
//	  --attribute-definitions AttributeName=grid_id,AttributeType=S AttributeName=name,AttributeType=S \
//	  --key-schema AttributeName=grid_id,KeyType=HASH AttributeName=name,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type DynamoStore struct {
	client    DDBClient
	tableName string
	opts      options
}

var _ Store = (*DynamoStore)(nil)

// NewDynamoStore creates a view store backed by tableName.
func NewDynamoStore(client DDBClient, tableName string, optFns ...Option) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		opts:      applyOptions(optFns),
	}
}

func itemKey(gridID, name string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrGridID: &types.AttributeValueMemberS{Value: gridID},
		attrName:   &types.AttributeValueMemberS{Value: name},
	}
}

// Save implements Store. The write is conditional on the stored version, so
// concurrent saves of the same view cannot both succeed.
func (s *DynamoStore) Save(ctx context.Context, gridID string, v *View) error {
	if err := validateName("grid id", gridID); err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}

	next := *v
	next.Version = v.Version + 1
	next.UpdatedAt = time.Now().UTC()

	payload, err := s.opts.codec.Marshal(&next)
	if err != nil {
		return fmt.Errorf("viewstore: encode %q: %w", v.Name, err)
	}

	item := itemKey(gridID, v.Name)
	item[attrVersion] = &types.AttributeValueMemberN{Value: strconv.FormatInt(next.Version, 10)}
	item[attrCodec] = &types.AttributeValueMemberS{Value: s.opts.codec.Name()}
	item[attrView] = &types.AttributeValueMemberB{Value: payload}
	item[attrUpdatedAt] = &types.AttributeValueMemberS{Value: next.UpdatedAt.Format(time.RFC3339Nano)}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}
	if v.Version == 0 {
		input.ConditionExpression = aws.String("attribute_not_exists(#name)")
		input.ExpressionAttributeNames = map[string]string{"#name": attrName}
	} else {
		input.ConditionExpression = aws.String("#version = :expected")
		input.ExpressionAttributeNames = map[string]string{"#version": attrVersion}
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(v.Version, 10)},
		}
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("%w: view %q is not at version %d", ErrConcurrentModification, v.Name, v.Version)
		}
		return fmt.Errorf("viewstore: failed to put view to DynamoDB: %w", err)
	}

	v.Version = next.Version
	v.UpdatedAt = next.UpdatedAt
	return nil
}

// Load implements Store.
func (s *DynamoStore) Load(ctx context.Context, gridID, name string) (*View, error) {
	if err := validateName("grid id", gridID); err != nil {
		return nil, err
	}
	if err := validateName("view name", name); err != nil {
		return nil, err
	}

	resp, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            itemKey(gridID, name),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("viewstore: failed to get view from DynamoDB: %w", err)
	}
	if len(resp.Item) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrViewNotFound, gridID, name)
	}

	payload, ok := resp.Item[attrView].(*types.AttributeValueMemberB)
	if !ok {
		return nil, errors.New("viewstore: invalid view attribute in DynamoDB")
	}
	codecName := ""
	if c, ok := resp.Item[attrCodec].(*types.AttributeValueMemberS); ok {
		codecName = c.Value
	}

	v, err := decodeView(codecName, payload.Value)
	if err != nil {
		return nil, fmt.Errorf("viewstore: decode %s/%s: %w", gridID, name, err)
	}
	if ver, ok := resp.Item[attrVersion].(*types.AttributeValueMemberN); ok {
		n, err := strconv.ParseInt(ver.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("viewstore: failed to parse version: %w", err)
		}
		v.Version = n
	}
	return v, nil
}

// List implements Store.
func (s *DynamoStore) List(ctx context.Context, gridID string) ([]string, error) {
	if err := validateName("grid id", gridID); err != nil {
		return nil, err
	}

	var (
		names    []string
		startKey map[string]types.AttributeValue
	)
	for {
		resp, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.tableName),
			KeyConditionExpression: aws.String("grid_id = :grid"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":grid": &types.AttributeValueMemberS{Value: gridID},
			},
			ProjectionExpression:     aws.String("#name"),
			ExpressionAttributeNames: map[string]string{"#name": attrName},
			ExclusiveStartKey:        startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("viewstore: failed to query DynamoDB: %w", err)
		}
		for _, item := range resp.Items {
			if n, ok := item[attrName].(*types.AttributeValueMemberS); ok {
				names = append(names, n.Value)
			}
		}
		if len(resp.LastEvaluatedKey) == 0 {
			break
		}
		startKey = resp.LastEvaluatedKey
	}
	sort.Strings(names)
	return names, nil
}

// Delete implements Store.
func (s *DynamoStore) Delete(ctx context.Context, gridID, name string) error {
	if err := validateName("grid id", gridID); err != nil {
		return err
	}
	if err := validateName("view name", name); err != nil {
		return err
	}

	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(s.tableName),
		Key:                      itemKey(gridID, name),
		ConditionExpression:      aws.String("attribute_exists(#name)"),
		ExpressionAttributeNames: map[string]string{"#name": attrName},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("%w: %s/%s", ErrViewNotFound, gridID, name)
		}
		return fmt.Errorf("viewstore: failed to delete view from DynamoDB: %w", err)
	}
	return nil
}
