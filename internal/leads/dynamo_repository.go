package leads

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/heralf/legal-leads/pkg/logging"
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoRepository persists leads to DynamoDB, one item per lead keyed by id.
type DynamoRepository struct {
	client    dynamoAPI
	tableName string
	logger    *logging.Logger
}

var _ Repository = (*DynamoRepository)(nil)

// NewDynamoRepository builds a repository backed by the provided client.
func NewDynamoRepository(client dynamoAPI, tableName string, logger *logging.Logger) *DynamoRepository {
	if client == nil {
		panic("leads: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("leads: table name cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &DynamoRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Put inserts a new lead item. The conditional expression keeps a generator
// collision from silently overwriting an earlier submission.
func (r *DynamoRepository) Put(ctx context.Context, lead *Lead) error {
	if lead == nil {
		return errors.New("leads: lead cannot be nil")
	}

	item, err := attributevalue.MarshalMap(lead)
	if err != nil {
		return fmt.Errorf("leads: failed to marshal lead: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return r.classify(err)
	}
	return nil
}

// GetByID fetches a lead by id.
func (r *DynamoRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	if id == "" {
		return nil, errors.New("leads: id required")
	}
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, r.classify(err)
	}
	if out.Item == nil {
		return nil, ErrLeadNotFound
	}

	var lead Lead
	if err := attributevalue.UnmarshalMap(out.Item, &lead); err != nil {
		return nil, fmt.Errorf("leads: failed to decode lead: %w", err)
	}
	return &lead, nil
}

// ListRecent scans the table and returns up to limit leads, newest first.
// A scan is acceptable at this table's volume; the redundant epoch-millis
// attribute exists exactly so this sort stays numeric.
func (r *DynamoRepository) ListRecent(ctx context.Context, limit int) ([]*Lead, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(r.tableName)}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}
	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, r.classify(err)
	}

	leads := make([]*Lead, 0, len(out.Items))
	for _, item := range out.Items {
		var lead Lead
		if err := attributevalue.UnmarshalMap(item, &lead); err != nil {
			return nil, fmt.Errorf("leads: failed to decode lead: %w", err)
		}
		leads = append(leads, &lead)
	}
	sort.Slice(leads, func(i, j int) bool {
		return leads[i].CreatedAtEpochMillis > leads[j].CreatedAtEpochMillis
	})
	return leads, nil
}

// classify maps store failures onto the taxonomy the handler translates into
// user-facing statuses: missing table, denied access, or unknown.
func (r *DynamoRepository) classify(err error) error {
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %s", ErrTableNotFound, notFound.ErrorMessage())
	}

	var conditional *types.ConditionalCheckFailedException
	if errors.As(err, &conditional) {
		return fmt.Errorf("%w: %s", ErrDuplicateID, conditional.ErrorMessage())
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "AccessDeniedException" {
		return fmt.Errorf("%w: %s", ErrAccessDenied, apiErr.ErrorMessage())
	}

	return fmt.Errorf("leads: store error: %w", err)
}
