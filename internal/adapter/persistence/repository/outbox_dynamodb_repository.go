package repository

import (
	"context"
	"errors"
	"fmt"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/usecase/interfaces"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const outboxStatusIndex = "status-created_at-index"

// OutboxDynamoRepository serves the relay.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: status-created_at-index (PK: status, SK: created_at)
type OutboxDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IOutboxRepository = (*OutboxDynamoRepository)(nil)

func NewOutboxDynamoRepository(ddb *dynamodb.Client, tableName string) *OutboxDynamoRepository {
	return &OutboxDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *OutboxDynamoRepository) ListPending(ctx context.Context, limit int) ([]entities.OutboxEvent, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(outboxStatusIndex),
		KeyConditionExpression: aws.String("#status = :s"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s": &types.AttributeValueMemberS{Value: string(entities.OutboxPending)},
		},
		ScanIndexForward: aws.Bool(true),
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}
	out, err := r.ddb.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("query pending events: %w", err)
	}
	events := make([]entities.OutboxEvent, 0, len(out.Items))
	for _, raw := range out.Items {
		var it outboxItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		events = append(events, fromOutboxItem(it))
	}
	return events, nil
}

// MarkPublished is idempotent; an already published event is left alone.
func (r *OutboxDynamoRepository) MarkPublished(ctx context.Context, id string, at time.Time) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(#id) AND #status = :pending"),
		UpdateExpression:    aws.String("SET #status = :published, #published_at = :at ADD #attempts :one"),
		ExpressionAttributeNames: map[string]string{
			"#id":           "id",
			"#status":       "status",
			"#published_at": "published_at",
			"#attempts":     "attempts",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending":   &types.AttributeValueMemberS{Value: string(entities.OutboxPending)},
			":published": &types.AttributeValueMemberS{Value: string(entities.OutboxPublished)},
			":at":        &types.AttributeValueMemberS{Value: formatTime(at)},
			":one":       &types.AttributeValueMemberN{Value: "1"},
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return nil
		}
		return fmt.Errorf("mark event %s published: %w", id, err)
	}
	return nil
}
