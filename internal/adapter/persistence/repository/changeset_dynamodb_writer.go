package repository

import (
	"context"
	"errors"
	"fmt"
	"marketplace_escrow/internal/domain/entities"
	"marketplace_escrow/internal/usecase/interfaces"
	"marketplace_escrow/pkg/logger"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// maxTransactItems is DynamoDB's TransactWriteItems limit.
const maxTransactItems = 100

var ErrChangesetTooLarge = errors.New("changeset exceeds transactional write limit")

type writeRef struct {
	entity string
	id     string
}

// ChangesetDynamoWriter commits a changeset with one TransactWriteItems call.
// Version-guarded records carry a condition on their stored version;
// insert-only records carry attribute_not_exists.
type ChangesetDynamoWriter struct {
	ddb    *dynamodb.Client
	tables Tables
}

var _ interfaces.IChangesetWriter = (*ChangesetDynamoWriter)(nil)

func NewChangesetDynamoWriter(ddb *dynamodb.Client, tables Tables) *ChangesetDynamoWriter {
	return &ChangesetDynamoWriter{ddb: ddb, tables: tables}
}

func (w *ChangesetDynamoWriter) Commit(ctx context.Context, cs interfaces.Changeset) error {
	items, refs, err := w.buildTransactItems(cs)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	_, err = w.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err == nil {
		return nil
	}
	if conflict := conflictFromCancellation(err, refs); conflict != nil {
		logger.Debug("[changeset][dynamodb] conditional check failed",
			zap.String("entity", conflict.Entity), zap.String("id", conflict.ID))
		return conflict
	}
	return fmt.Errorf("transact write: %w", err)
}

func (w *ChangesetDynamoWriter) buildTransactItems(cs interfaces.Changeset) ([]types.TransactWriteItem, []writeRef, error) {
	if cs.Size() > maxTransactItems {
		return nil, nil, fmt.Errorf("%w: %d records", ErrChangesetTooLarge, cs.Size())
	}
	items := make([]types.TransactWriteItem, 0, cs.Size())
	refs := make([]writeRef, 0, cs.Size())
	add := func(entity, id, table, key string, item any, expected int64, versioned bool) error {
		av, err := attributevalue.MarshalMap(item)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", entity, id, err)
		}
		put := &types.Put{
			TableName: aws.String(table),
			Item:      av,
		}
		if versioned && expected > 0 {
			put.ConditionExpression = aws.String("#version = :expected")
			put.ExpressionAttributeNames = map[string]string{"#version": "version"}
			put.ExpressionAttributeValues = map[string]types.AttributeValue{
				":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(expected, 10)},
			}
		} else {
			put.ConditionExpression = aws.String("attribute_not_exists(#pk)")
			put.ExpressionAttributeNames = map[string]string{"#pk": key}
		}
		items = append(items, types.TransactWriteItem{Put: put})
		refs = append(refs, writeRef{entity: entity, id: id})
		return nil
	}

	for _, ow := range cs.Orders {
		it, err := toOrderItem(ow.Order)
		if err != nil {
			return nil, nil, err
		}
		if err := add(entities.KindOrder, ow.Order.ID, w.tables.Orders, "id", it, ow.ExpectedVersion, true); err != nil {
			return nil, nil, err
		}
	}
	for _, aw := range cs.Accounts {
		if err := add(entities.KindAccount, aw.Account.OwnerID, w.tables.Accounts, "owner_id", toAccountItem(aw.Account), aw.ExpectedVersion, true); err != nil {
			return nil, nil, err
		}
	}
	for _, hw := range cs.Holds {
		if err := add(entities.KindHold, hw.Hold.OrderID, w.tables.Holds, "order_id", toHoldItem(hw.Hold), hw.ExpectedVersion, true); err != nil {
			return nil, nil, err
		}
	}
	for _, rw := range cs.Refunds {
		if err := add(entities.KindRefund, rw.Refund.ID, w.tables.Refunds, "id", toRefundItem(rw.Refund), rw.ExpectedVersion, true); err != nil {
			return nil, nil, err
		}
	}
	for _, t := range cs.Transactions {
		if err := add(entities.KindTransaction, t.ID, w.tables.Transactions, "id", toTransactionItem(t), 0, false); err != nil {
			return nil, nil, err
		}
	}
	for _, e := range cs.Events {
		if err := add(entities.KindEvent, e.ID, w.tables.Outbox, "id", toOutboxItem(e), 0, false); err != nil {
			return nil, nil, err
		}
	}
	return items, refs, nil
}

// conflictFromCancellation names the first record whose condition failed.
// Cancellation reasons are positional, one per transact item.
func conflictFromCancellation(err error, refs []writeRef) *entities.ConflictError {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return nil
	}
	for i, reason := range tce.CancellationReasons {
		if aws.ToString(reason.Code) != "ConditionalCheckFailed" || i >= len(refs) {
			continue
		}
		return &entities.ConflictError{Entity: refs[i].entity, ID: refs[i].id}
	}
	return nil
}
