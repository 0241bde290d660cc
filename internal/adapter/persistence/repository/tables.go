package repository

import (
	"context"
	"errors"
	"fmt"
	"marketplace_escrow/internal/infrastructure/config"
	"marketplace_escrow/pkg/logger"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

type Tables = config.Tables

type gsi struct {
	name, pk, sk string
}

type tableSpec struct {
	name    string
	pk      string
	indexes []gsi
}

func tableSpecs(t Tables) []tableSpec {
	return []tableSpec{
		{name: t.Orders, pk: "id", indexes: []gsi{
			{ordersClientIndex, "client_id", "created_at"},
			{ordersWorkerIndex, "worker_id", "created_at"},
			{ordersStatusIndex, "status", "created_at"},
		}},
		{name: t.Accounts, pk: "owner_id"},
		{name: t.Holds, pk: "order_id"},
		{name: t.Transactions, pk: "id", indexes: []gsi{
			{transactionsAccountIndex, "account_id", "created_at"},
		}},
		{name: t.Refunds, pk: "id", indexes: []gsi{
			{refundsOrderIndex, "order_id", ""},
		}},
		{name: t.Outbox, pk: "id", indexes: []gsi{
			{outboxStatusIndex, "status", "created_at"},
		}},
	}
}

func (s tableSpec) createInput() *dynamodb.CreateTableInput {
	attrs := map[string]bool{s.pk: true}
	in := &dynamodb.CreateTableInput{
		TableName:   aws.String(s.name),
		BillingMode: types.BillingModePayPerRequest,
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(s.pk), KeyType: types.KeyTypeHash},
		},
	}
	for _, ix := range s.indexes {
		keys := []types.KeySchemaElement{{AttributeName: aws.String(ix.pk), KeyType: types.KeyTypeHash}}
		attrs[ix.pk] = true
		if ix.sk != "" {
			keys = append(keys, types.KeySchemaElement{AttributeName: aws.String(ix.sk), KeyType: types.KeyTypeRange})
			attrs[ix.sk] = true
		}
		in.GlobalSecondaryIndexes = append(in.GlobalSecondaryIndexes, types.GlobalSecondaryIndex{
			IndexName:  aws.String(ix.name),
			KeySchema:  keys,
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		})
	}
	for _, name := range sortedKeys(attrs) {
		in.AttributeDefinitions = append(in.AttributeDefinitions, types.AttributeDefinition{
			AttributeName: aws.String(name),
			AttributeType: types.ScalarAttributeTypeS,
		})
	}
	return in
}

// EnsureTables creates any missing table. Existing tables are left as they
// are.
func EnsureTables(ctx context.Context, ddb *dynamodb.Client, tables Tables) error {
	for _, spec := range tableSpecs(tables) {
		_, err := ddb.CreateTable(ctx, spec.createInput())
		if err != nil {
			var inUse *types.ResourceInUseException
			if errors.As(err, &inUse) {
				logger.Debug("[migrate][dynamodb] table exists", zap.String("table", spec.name))
				continue
			}
			return fmt.Errorf("create table %s: %w", spec.name, err)
		}
		logger.Info("[migrate][dynamodb] table created", zap.String("table", spec.name))
	}
	return nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
