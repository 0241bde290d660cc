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

const transactionsAccountIndex = "account_id-created_at-index"

// WalletDynamoRepository reads accounts, holds and the transaction log.
//
// Table requirements:
//   - wallet_accounts PK: owner_id
//   - escrow_holds PK: order_id
//   - ledger_transactions PK: id, GSI account_id-created_at-index
type WalletDynamoRepository struct {
	ddb    *dynamodb.Client
	tables Tables
}

var _ interfaces.IWalletRepository = (*WalletDynamoRepository)(nil)

func NewWalletDynamoRepository(ddb *dynamodb.Client, tables Tables) *WalletDynamoRepository {
	return &WalletDynamoRepository{ddb: ddb, tables: tables}
}

func (r *WalletDynamoRepository) GetAccount(ctx context.Context, ownerID string) (entities.WalletAccount, error) {
	var it accountItem
	found, err := getItem(ctx, r.ddb, r.tables.Accounts, "owner_id", ownerID, &it)
	if err != nil || !found {
		return entities.WalletAccount{}, err
	}
	return fromAccountItem(it), nil
}

func (r *WalletDynamoRepository) GetHold(ctx context.Context, orderID string) (entities.EscrowHold, error) {
	var it holdItem
	found, err := getItem(ctx, r.ddb, r.tables.Holds, "order_id", orderID, &it)
	if err != nil || !found {
		return entities.EscrowHold{}, err
	}
	return fromHoldItem(it), nil
}

func (r *WalletDynamoRepository) GetTransaction(ctx context.Context, id string) (entities.Transaction, error) {
	var it transactionItem
	found, err := getItem(ctx, r.ddb, r.tables.Transactions, "id", id, &it)
	if err != nil || !found {
		return entities.Transaction{}, err
	}
	return fromTransactionItem(it), nil
}

// ListTransactions pushes the date range into the key condition and applies
// the remaining filter in memory.
func (r *WalletDynamoRepository) ListTransactions(ctx context.Context, accountID string, filter interfaces.TransactionFilter) ([]entities.Transaction, error) {
	keyCond := "account_id = :a"
	values := map[string]types.AttributeValue{
		":a": &types.AttributeValueMemberS{Value: accountID},
	}
	switch {
	case !filter.From.IsZero() && !filter.To.IsZero():
		keyCond += " AND created_at BETWEEN :from AND :to"
		values[":from"] = &types.AttributeValueMemberS{Value: formatTime(filter.From)}
		values[":to"] = &types.AttributeValueMemberS{Value: formatTime(filter.To)}
	case !filter.From.IsZero():
		keyCond += " AND created_at >= :from"
		values[":from"] = &types.AttributeValueMemberS{Value: formatTime(filter.From)}
	case !filter.To.IsZero():
		keyCond += " AND created_at <= :to"
		values[":to"] = &types.AttributeValueMemberS{Value: formatTime(filter.To)}
	}

	paginator := dynamodb.NewQueryPaginator(r.ddb, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tables.Transactions),
		IndexName:                 aws.String(transactionsAccountIndex),
		KeyConditionExpression:    aws.String(keyCond),
		ExpressionAttributeValues: values,
		ScanIndexForward:          aws.Bool(false),
	})
	txs := []entities.Transaction{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query transactions for %s: %w", accountID, err)
		}
		for _, raw := range page.Items {
			var it transactionItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			t := fromTransactionItem(it)
			if !filter.Match(t) {
				continue
			}
			txs = append(txs, t)
			if filter.Limit > 0 && len(txs) == filter.Limit {
				return txs, nil
			}
		}
	}
	return txs, nil
}

func getItem(ctx context.Context, ddb *dynamodb.Client, table, keyName, key string, out any) (bool, error) {
	res, err := ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			keyName: &types.AttributeValueMemberS{Value: key},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return false, fmt.Errorf("get %s %s: %w", table, key, err)
	}
	if len(res.Item) == 0 {
		return false, nil
	}
	if err := attributevalue.UnmarshalMap(res.Item, out); err != nil {
		return false, err
	}
	return true, nil
}
