package repository

import (
	"context"
	"fmt"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/usecase/interfaces"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const refundsOrderIndex = "order_id-index"

// RefundDynamoRepository persists refund requests.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: order_id-index (PK: order_id)
type RefundDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IRefundRepository = (*RefundDynamoRepository)(nil)

func NewRefundDynamoRepository(ddb *dynamodb.Client, tableName string) *RefundDynamoRepository {
	return &RefundDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *RefundDynamoRepository) GetByID(ctx context.Context, id string) (entities.RefundRequest, error) {
	var it refundItem
	found, err := getItem(ctx, r.ddb, r.tableName, "id", id, &it)
	if err != nil || !found {
		return entities.RefundRequest{}, err
	}
	return fromRefundItem(it), nil
}

func (r *RefundDynamoRepository) ListByOrder(ctx context.Context, orderID string) ([]entities.RefundRequest, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(refundsOrderIndex),
		KeyConditionExpression: aws.String("order_id = :oid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query refunds for %s: %w", orderID, err)
	}

	items := make([]entities.RefundRequest, 0, len(out.Items))
	for _, raw := range out.Items {
		var it refundItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		items = append(items, fromRefundItem(it))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}
