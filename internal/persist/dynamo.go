package persist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const dynamoTTL = 30 * 24 * time.Hour // 30-day TTL

// dynamoAPI is the minimal DynamoDB interface required by DynamoSink.
// Defined here for testability.
type dynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoSink writes turns to a DynamoDB table keyed by user_id and
// created_at.
type DynamoSink struct {
	api       dynamoAPI
	tableName string
}

// NewDynamoSink creates a DynamoSink over the given client and table.
func NewDynamoSink(api dynamoAPI, tableName string) (*DynamoSink, error) {
	if api == nil {
		return nil, errors.New("persist: dynamodb api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("persist: table name must not be empty")
	}
	return &DynamoSink{api: api, tableName: tableName}, nil
}

// Put stores one record.
func (s *DynamoSink) Put(ctx context.Context, rec Record) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	createdAt = createdAt.UTC()

	_, err := s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			"user_id":    &types.AttributeValueMemberS{Value: rec.UserID},
			"created_at": &types.AttributeValueMemberS{Value: createdAt.Format(time.RFC3339Nano)},
			"message":    &types.AttributeValueMemberS{Value: rec.Message},
			"response":   &types.AttributeValueMemberS{Value: rec.Response},
			"ttl":        &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", createdAt.Add(dynamoTTL).Unix())},
		},
	})
	if err != nil {
		return fmt.Errorf("persist: dynamodb put: %w", err)
	}
	return nil
}
