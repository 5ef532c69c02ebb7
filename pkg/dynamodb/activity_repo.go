package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
	"github.com/savaki/slack-timeline/pkg/activity"
	"github.com/savaki/slack-timeline/pkg/models"
)

// ActivityRepository is an activity.Signal stored as a single DynamoDB item,
// so webhook receivers and pollers in different processes share one flag
type ActivityRepository struct {
	client    API
	tableName string
	signalID  string
	now       func() time.Time
}

var _ activity.Signal = (*ActivityRepository)(nil)

// NewActivityRepository creates a new activity repository
func NewActivityRepository(client API, tableName string) *ActivityRepository {
	return &ActivityRepository{
		client:    client,
		tableName: tableName,
		signalID:  models.DefaultSignalID,
		now:       time.Now,
	}
}

// Notify marks the signal pending and bumps the event counter
func (r *ActivityRepository) Notify(ctx context.Context) error {
	rec := models.NewActivityRecord(r.signalID, r.now())

	values, err := attributevalue.MarshalMap(map[string]interface{}{
		":pending": rec.Pending,
		":now":     rec.LastEventAt,
		":ttl":     rec.TTL,
		":one":     rec.EventCount,
	})
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        &r.tableName,
		Key:              r.key(),
		UpdateExpression: aws.String("SET pending = :pending, last_event_at = :now, updated_at = :now, #ttl = :ttl ADD event_count :one"),
		ExpressionAttributeNames: map[string]string{
			"#ttl": "ttl",
		},
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return fmt.Errorf("update activity: %w", err)
	}

	log.Debug().Str("signalID", r.signalID).Msg("Activity signal set")
	return nil
}

// PollAndReset clears the pending flag and returns its previous value. The
// read and the clear are a single UpdateItem, so concurrent pollers never
// both observe true.
func (r *ActivityRepository) PollAndReset(ctx context.Context) (bool, error) {
	now := r.now()
	values, err := attributevalue.MarshalMap(map[string]interface{}{
		":pending": false,
		":now":     now,
	})
	if err != nil {
		return false, fmt.Errorf("marshal activity: %w", err)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &r.tableName,
		Key:                       r.key(),
		UpdateExpression:          aws.String("SET pending = :pending, updated_at = :now"),
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllOld,
	})
	if err != nil {
		return false, fmt.Errorf("reset activity: %w", err)
	}
	if len(out.Attributes) == 0 {
		return false, nil
	}

	var prev models.ActivityRecord
	if err := attributevalue.UnmarshalMap(out.Attributes, &prev); err != nil {
		return false, fmt.Errorf("unmarshal activity: %w", err)
	}
	if prev.Expired(now) {
		log.Debug().Str("signalID", r.signalID).Msg("Ignoring expired activity record")
		return false, nil
	}

	return prev.Pending, nil
}

func (r *ActivityRepository) key() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"signal_id": &types.AttributeValueMemberS{Value: r.signalID},
	}
}
