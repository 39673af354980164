package leads

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/heralf/legal-leads/pkg/logging"
)

type mockDynamo struct {
	putInput *dynamodb.PutItemInput
	putErr   error
	getOut   *dynamodb.GetItemOutput
	getErr   error
	scanOut  *dynamodb.ScanOutput
	scanErr  error
}

func (m *mockDynamo) PutItem(ctx context.Context, input *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.putInput = input
	return &dynamodb.PutItemOutput{}, m.putErr
}

func (m *mockDynamo) GetItem(ctx context.Context, input *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.getOut == nil {
		return &dynamodb.GetItemOutput{}, nil
	}
	return m.getOut, nil
}

func (m *mockDynamo) Scan(ctx context.Context, input *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	if m.scanOut == nil {
		return &dynamodb.ScanOutput{}, nil
	}
	return m.scanOut, nil
}

func TestDynamoRepository_PutMarshalsRecord(t *testing.T) {
	mock := &mockDynamo{}
	repo := NewDynamoRepository(mock, "heralf-legal-leads", logging.Default())

	lead := memLead("lead_1700000000000_abc123xyz", 1700000000000)
	lead.CreatedAt = "2023-11-14T22:13:20Z"
	lead.Date = "2023-11-14"

	if err := repo.Put(context.Background(), lead); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if mock.putInput == nil {
		t.Fatal("expected PutItem to be called")
	}
	if got := aws.ToString(mock.putInput.TableName); got != "heralf-legal-leads" {
		t.Fatalf("unexpected table name %q", got)
	}
	if expr := mock.putInput.ConditionExpression; expr == nil || *expr != "attribute_not_exists(id)" {
		t.Fatalf("expected condition expression to prevent overwrites, got %v", expr)
	}

	var stored Lead
	if err := attributevalue.UnmarshalMap(mock.putInput.Item, &stored); err != nil {
		t.Fatalf("failed to unmarshal stored lead: %v", err)
	}
	if stored.ID != lead.ID || stored.Status != StatusNew || stored.Source != SourceWebForm {
		t.Fatalf("unexpected stored lead: %#v", stored)
	}
	if stored.CreatedAtEpochMillis != lead.CreatedAtEpochMillis {
		t.Fatalf("expected epoch millis to round-trip, got %d", stored.CreatedAtEpochMillis)
	}
}

func TestDynamoRepository_PutNilLead(t *testing.T) {
	repo := NewDynamoRepository(&mockDynamo{}, "heralf-legal-leads", logging.Default())
	if err := repo.Put(context.Background(), nil); err == nil {
		t.Fatal("expected error when lead is nil")
	}
}

func TestDynamoRepository_ClassifiesTableNotFound(t *testing.T) {
	mock := &mockDynamo{putErr: &types.ResourceNotFoundException{Message: aws.String("Requested resource not found")}}
	repo := NewDynamoRepository(mock, "heralf-legal-leads", logging.Default())

	err := repo.Put(context.Background(), memLead("lead_1_aaa", 1))
	if !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("expected ErrTableNotFound, got %v", err)
	}
}

func TestDynamoRepository_ClassifiesAccessDenied(t *testing.T) {
	mock := &mockDynamo{putErr: &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "not authorized"}}
	repo := NewDynamoRepository(mock, "heralf-legal-leads", logging.Default())

	err := repo.Put(context.Background(), memLead("lead_1_aaa", 1))
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestDynamoRepository_ClassifiesDuplicate(t *testing.T) {
	mock := &mockDynamo{putErr: &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}}
	repo := NewDynamoRepository(mock, "heralf-legal-leads", logging.Default())

	err := repo.Put(context.Background(), memLead("lead_1_aaa", 1))
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestDynamoRepository_UnknownErrorStaysGeneric(t *testing.T) {
	mock := &mockDynamo{putErr: errors.New("dial tcp: connection refused")}
	repo := NewDynamoRepository(mock, "heralf-legal-leads", logging.Default())

	err := repo.Put(context.Background(), memLead("lead_1_aaa", 1))
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrTableNotFound) || errors.Is(err, ErrAccessDenied) {
		t.Fatalf("generic failure should not map to a specific kind: %v", err)
	}
}

func TestDynamoRepository_GetByID(t *testing.T) {
	item, err := attributevalue.MarshalMap(memLead("lead_42_abc", 42))
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	mock := &mockDynamo{getOut: &dynamodb.GetItemOutput{Item: item}}
	repo := NewDynamoRepository(mock, "heralf-legal-leads", logging.Default())

	lead, err := repo.GetByID(context.Background(), "lead_42_abc")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if lead.ID != "lead_42_abc" || lead.Status != StatusNew {
		t.Fatalf("unexpected lead result: %#v", lead)
	}
}

func TestDynamoRepository_GetByID_NotFound(t *testing.T) {
	repo := NewDynamoRepository(&mockDynamo{getOut: &dynamodb.GetItemOutput{}}, "heralf-legal-leads", logging.Default())
	if _, err := repo.GetByID(context.Background(), "lead_42_abc"); !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestDynamoRepository_ListRecentSortsNewestFirst(t *testing.T) {
	older, _ := attributevalue.MarshalMap(memLead("lead_1_aaa", 1))
	newer, _ := attributevalue.MarshalMap(memLead("lead_2_bbb", 2))
	mock := &mockDynamo{scanOut: &dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{older, newer}}}
	repo := NewDynamoRepository(mock, "heralf-legal-leads", logging.Default())

	leads, err := repo.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(leads) != 2 || leads[0].ID != "lead_2_bbb" {
		t.Fatalf("expected newest-first ordering, got %#v", leads)
	}
}
