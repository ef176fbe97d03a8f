package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-otp-api/internal/domain"
)

// PasscodeStore keeps passcode records in a single DynamoDB table.
// PK: identifier. expires_at is the table's TTL attribute; DynamoDB removes
// expired items eventually, not promptly, so reads can still return an
// expired record; callers must re-check ExpiresAt themselves.
type PasscodeStore struct {
	client    *dynamodb.Client
	tableName string
}

func NewPasscodeStore(client *dynamodb.Client, tableName string) *PasscodeStore {
	return &PasscodeStore{client: client, tableName: tableName}
}

// Put stores the record, overwriting any previous record for the identifier.
func (s *PasscodeStore) Put(ctx context.Context, p *domain.Passcode) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal passcode: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	return err
}

// Get returns the record for identifier or domain.ErrNotFound.
func (s *PasscodeStore) Get(ctx context.Context, identifier string) (*domain.Passcode, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            strKey("identifier", identifier),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("passcode for %q: %w", identifier, domain.ErrNotFound)
	}
	var p domain.Passcode
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes the record for identifier. Absent items are not an error.
func (s *PasscodeStore) Delete(ctx context.Context, identifier string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       strKey("identifier", identifier),
	})
	return err
}

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}
