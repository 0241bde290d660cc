package repository

import (
	"context"
	"fmt"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	ordersClientIndex = "client_id-created_at-index"
	ordersWorkerIndex = "worker_id-created_at-index"
	ordersStatusIndex = "status-created_at-index"
)

// OrderDynamoRepository reads orders from DynamoDB. Writes go through the
// changeset writer.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: client_id-created_at-index, worker_id-created_at-index,
//     status-created_at-index (PK: attribute, SK: created_at)
type OrderDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IOrderRepository = (*OrderDynamoRepository)(nil)

func NewOrderDynamoRepository(ddb *dynamodb.Client, tableName string) *OrderDynamoRepository {
	return &OrderDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *OrderDynamoRepository) GetByID(ctx context.Context, id string) (entities.Order, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Order{}, fmt.Errorf("get order %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return entities.Order{}, nil
	}
	var it orderItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Order{}, err
	}
	return fromOrderItem(it)
}

func (r *OrderDynamoRepository) ListByClient(ctx context.Context, clientID string) ([]entities.Order, error) {
	return r.query(ctx, ordersClientIndex, "client_id", clientID, 0)
}

func (r *OrderDynamoRepository) ListByWorker(ctx context.Context, workerID string) ([]entities.Order, error) {
	return r.query(ctx, ordersWorkerIndex, "worker_id", workerID, 0)
}

// ListByStatus returns the oldest orders first so long-waiting orders surface.
func (r *OrderDynamoRepository) ListByStatus(ctx context.Context, status entities.OrderStatus, limit int) ([]entities.Order, error) {
	return r.query(ctx, ordersStatusIndex, "status", string(status), limit)
}

func (r *OrderDynamoRepository) query(ctx context.Context, index, attr, value string, limit int) ([]entities.Order, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#k = :v"),
		ExpressionAttributeNames: map[string]string{
			"#k": attr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
		ScanIndexForward: aws.Bool(attr == "status"),
	}
	orders := []entities.Order{}
	paginator := dynamodb.NewQueryPaginator(r.ddb, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query orders by %s: %w", attr, err)
		}
		for _, raw := range page.Items {
			var it orderItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			o, err := fromOrderItem(it)
			if err != nil {
				return nil, err
			}
			orders = append(orders, o)
			if limit > 0 && len(orders) == limit {
				return orders, nil
			}
		}
	}
	return orders, nil
}
