package persist

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamoAPI struct {
	inputs []*dynamodb.PutItemInput
	err    error
}

func (f *fakeDynamoAPI) PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.PutItemOutput{}, nil
}

func TestNewDynamoSinkValidates(t *testing.T) {
	_, err := NewDynamoSink(nil, "chat_history")
	assert.Error(t, err)

	_, err = NewDynamoSink(&fakeDynamoAPI{}, "  ")
	assert.Error(t, err)
}

func TestDynamoSinkPutItemShape(t *testing.T) {
	api := &fakeDynamoAPI{}
	sink, err := NewDynamoSink(api, "chat_history")
	require.NoError(t, err)

	createdAt := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	err = sink.Put(context.Background(), Record{
		UserID:    "1234",
		Message:   "hello there",
		Response:  "Hi! How can I help?",
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
	require.Len(t, api.inputs, 1)

	in := api.inputs[0]
	assert.Equal(t, "chat_history", *in.TableName)

	stringAttr := func(name string) string {
		attr, ok := in.Item[name].(*types.AttributeValueMemberS)
		require.True(t, ok, "attribute %s", name)
		return attr.Value
	}
	assert.Equal(t, "1234", stringAttr("user_id"))
	assert.Equal(t, "hello there", stringAttr("message"))
	assert.Equal(t, "Hi! How can I help?", stringAttr("response"))
	assert.Equal(t, createdAt.Format(time.RFC3339Nano), stringAttr("created_at"))

	ttl, ok := in.Item["ttl"].(*types.AttributeValueMemberN)
	require.True(t, ok)
	assert.Equal(t, "1744536600", ttl.Value, "30 days past created_at")
}
