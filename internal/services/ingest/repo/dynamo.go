package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"steakfeed/internal/core/record"
	perr "steakfeed/internal/platform/errors"
	"steakfeed/internal/platform/store"
)

// Dynamo writes items to a DynamoDB table keyed by the string attribute hash
type Dynamo struct {
	db     store.Dynamo
	table  string
	create bool

	// WaitFor bounds how long Ensure waits for a new table to become active
	WaitFor time.Duration
}

// NewDynamo builds the DynamoDB repo. When create is set, Ensure creates a
// missing table; otherwise Ensure only checks that it exists
func NewDynamo(db store.Dynamo, table string, create bool) (*Dynamo, error) {
	if db == nil {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "repo: dynamodb backend is not enabled")
	}
	if table == "" {
		table = DefaultTable
	}
	return &Dynamo{db: db, table: table, create: create, WaitFor: 5 * time.Minute}, nil
}

// Name implements domain.ItemRepo
func (d *Dynamo) Name() string { return "dynamodb" }

// Ensure describes the table and, when allowed, creates it pay-per-request
func (d *Dynamo) Ensure(ctx context.Context) error {
	_, err := d.db.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(d.table)})
	if err == nil {
		return nil
	}
	var rnfe *ddbtypes.ResourceNotFoundException
	if !errors.As(err, &rnfe) {
		return dynamoErr(err, "describe table")
	}
	if !d.create {
		return perr.Wrapf(err, perr.ErrorCodeNotFound, "table %s does not exist", d.table)
	}

	_, err = d.db.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(d.table),
		BillingMode: ddbtypes.BillingModePayPerRequest,
		AttributeDefinitions: []ddbtypes.AttributeDefinition{
			{AttributeName: aws.String("hash"), AttributeType: ddbtypes.ScalarAttributeTypeS},
		},
		KeySchema: []ddbtypes.KeySchemaElement{
			{AttributeName: aws.String("hash"), KeyType: ddbtypes.KeyTypeHash},
		},
	})
	if err != nil {
		return dynamoErr(err, "create table")
	}

	waiter := dynamodb.NewTableExistsWaiter(d.db)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(d.table)}, d.WaitFor); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "wait for table %s", d.table)
	}
	return nil
}

// BatchWrite implements domain.ItemWriter with one BatchWriteItem call.
// Items DynamoDB hands back in UnprocessedItems are returned for resubmission
func (d *Dynamo) BatchWrite(ctx context.Context, items []record.Item) ([]record.Item, error) {
	if len(items) == 0 {
		return nil, nil
	}
	reqs := make([]ddbtypes.WriteRequest, 0, len(items))
	for _, it := range items {
		reqs = append(reqs, ddbtypes.WriteRequest{PutRequest: &ddbtypes.PutRequest{Item: toDynamo(it)}})
	}
	out, err := d.db.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]ddbtypes.WriteRequest{d.table: reqs},
	})
	if err != nil {
		if perr.IsCanceled(err) {
			return nil, err
		}
		return nil, dynamoErr(err, "batch write")
	}

	left := out.UnprocessedItems[d.table]
	if len(left) == 0 {
		return nil, nil
	}
	unprocessed := make([]record.Item, 0, len(left))
	for _, wr := range left {
		if wr.PutRequest == nil {
			continue
		}
		it, err := fromDynamo(wr.PutRequest.Item)
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeDB, "decode unprocessed item")
		}
		unprocessed = append(unprocessed, it)
	}
	return unprocessed, nil
}

// Get implements domain.ItemReader with a consistent read
func (d *Dynamo) Get(ctx context.Context, hash string) (record.Item, error) {
	out, err := d.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.table),
		Key:            map[string]ddbtypes.AttributeValue{"hash": &ddbtypes.AttributeValueMemberS{Value: hash}},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, dynamoErr(err, "get item")
	}
	if len(out.Item) == 0 {
		return nil, notFound(hash)
	}
	it, err := fromDynamo(out.Item)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "decode item")
	}
	return it, nil
}

// dynamoErr codes an API error so throttling is retried and the rest is not
func dynamoErr(err error, msg string) error {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		switch ae.ErrorCode() {
		case "ProvisionedThroughputExceededException", "ThrottlingException", "RequestLimitExceeded":
			return perr.Wrap(err, perr.ErrorCodeTooManyRequests, msg)
		case "InternalServerError", "ServiceUnavailable":
			return perr.Wrap(err, perr.ErrorCodeUnavailable, msg)
		case "ValidationException":
			return perr.Wrap(err, perr.ErrorCodeInvalidArgument, msg)
		case "ResourceNotFoundException":
			return perr.Wrap(err, perr.ErrorCodeNotFound, msg)
		}
	}
	return perr.Wrap(err, perr.ErrorCodeDB, msg)
}

func toDynamo(it record.Item) map[string]ddbtypes.AttributeValue {
	out := make(map[string]ddbtypes.AttributeValue, len(it))
	for k, a := range it {
		out[k] = toAttr(a)
	}
	return out
}

func toAttr(a record.Attr) ddbtypes.AttributeValue {
	switch a.Kind {
	case record.KindN:
		return &ddbtypes.AttributeValueMemberN{Value: a.N}
	case record.KindBOOL:
		return &ddbtypes.AttributeValueMemberBOOL{Value: a.BOOL}
	case record.KindL:
		l := make([]ddbtypes.AttributeValue, len(a.L))
		for i, v := range a.L {
			l[i] = toAttr(v)
		}
		return &ddbtypes.AttributeValueMemberL{Value: l}
	default:
		return &ddbtypes.AttributeValueMemberS{Value: a.S}
	}
}

func fromDynamo(m map[string]ddbtypes.AttributeValue) (record.Item, error) {
	it := make(record.Item, len(m))
	for k, v := range m {
		a, err := fromAttr(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", k, err)
		}
		it[k] = a
	}
	return it, nil
}

func fromAttr(v ddbtypes.AttributeValue) (record.Attr, error) {
	switch x := v.(type) {
	case *ddbtypes.AttributeValueMemberS:
		return record.S(x.Value), nil
	case *ddbtypes.AttributeValueMemberN:
		return record.N(x.Value), nil
	case *ddbtypes.AttributeValueMemberBOOL:
		return record.Bool(x.Value), nil
	case *ddbtypes.AttributeValueMemberL:
		l := make([]record.Attr, len(x.Value))
		for i, e := range x.Value {
			a, err := fromAttr(e)
			if err != nil {
				return record.Attr{}, err
			}
			l[i] = a
		}
		return record.List(l...), nil
	default:
		return record.Attr{}, fmt.Errorf("unsupported attribute type %T", v)
	}
}
