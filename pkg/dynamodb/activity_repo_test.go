package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/savaki/slack-timeline/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockDynamoDB mocks the API interface for testing
type MockDynamoDB struct {
	UpdateItemFunc func(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

var _ API = (*MockDynamoDB)(nil)

func (m *MockDynamoDB) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if m.UpdateItemFunc != nil {
		return m.UpdateItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestRepo(client API) *ActivityRepository {
	repo := NewActivityRepository(client, "test-activity")
	repo.now = func() time.Time { return fixedNow }
	return repo
}

func attributesFor(t *testing.T, rec models.ActivityRecord) map[string]types.AttributeValue {
	t.Helper()
	item, err := attributevalue.MarshalMap(rec)
	require.NoError(t, err)
	return item
}

func TestNotify(t *testing.T) {
	var got *dynamodb.UpdateItemInput
	repo := newTestRepo(&MockDynamoDB{
		UpdateItemFunc: func(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
			got = params
			return &dynamodb.UpdateItemOutput{}, nil
		},
	})

	require.NoError(t, repo.Notify(context.Background()))
	require.NotNil(t, got)

	assert.Equal(t, "test-activity", *got.TableName)
	assert.Equal(t, &types.AttributeValueMemberS{Value: models.DefaultSignalID}, got.Key["signal_id"])
	assert.Contains(t, *got.UpdateExpression, "ADD event_count :one")
	assert.Equal(t, "ttl", got.ExpressionAttributeNames["#ttl"])
	assert.Equal(t, &types.AttributeValueMemberBOOL{Value: true}, got.ExpressionAttributeValues[":pending"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "1"}, got.ExpressionAttributeValues[":one"])
}

func TestNotifyError(t *testing.T) {
	repo := newTestRepo(&MockDynamoDB{
		UpdateItemFunc: func(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
			return nil, errors.New("throttled")
		},
	})

	err := repo.Notify(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "update activity")
}

func TestPollAndReset(t *testing.T) {
	pending := *models.NewActivityRecord(models.DefaultSignalID, fixedNow.Add(-time.Minute))
	cleared := pending
	cleared.Pending = false
	expired := *models.NewActivityRecord(models.DefaultSignalID, fixedNow.Add(-models.ActivityTTL-time.Hour))

	tests := []struct {
		name    string
		old     *models.ActivityRecord
		err     error
		want    bool
		wantErr bool
	}{
		{name: "no record yet", old: nil, want: false},
		{name: "pending record", old: &pending, want: true},
		{name: "already cleared", old: &cleared, want: false},
		{name: "expired record", old: &expired, want: false},
		{name: "dynamodb error", err: errors.New("throttled"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestRepo(&MockDynamoDB{
				UpdateItemFunc: func(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
					assert.Equal(t, types.ReturnValueAllOld, params.ReturnValues)
					assert.Equal(t, &types.AttributeValueMemberBOOL{Value: false}, params.ExpressionAttributeValues[":pending"])
					if tt.err != nil {
						return nil, tt.err
					}
					out := &dynamodb.UpdateItemOutput{}
					if tt.old != nil {
						out.Attributes = attributesFor(t, *tt.old)
					}
					return out, nil
				},
			})

			got, err := repo.PollAndReset(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
