// Package dynamodb is the TreeStore backed by a single DynamoDB table.
//
// Item layout:
//
//	PK=NODE#<id>           SK=METADATA      node
//	PK=NODE#<id>           SK=PROP#<name>   property of the node
//	PK=PARENT#<id|ROOT>    SK=CHILD#<name>  sibling-name guard, one per node
//
// The guard items make sibling names unique and let children be listed with
// a single Query on the parent partition.
package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"nodetree/application/ports"
	"nodetree/application/queries/subtree"
	"nodetree/infrastructure/persistence/abstractions"
	pkgerrors "nodetree/pkg/errors"
)

const (
	nodePrefix   = "NODE#"
	parentPrefix = "PARENT#"
	childPrefix  = "CHILD#"
	propPrefix   = "PROP#"
	metadataSK   = "METADATA"
	rootParent   = "ROOT"

	entityNode     = "NODE"
	entityChild    = "CHILD"
	entityProperty = "PROPERTY"
)

// Client is the part of *dynamodb.Client the store calls
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// Store implements ports.TreeStore on DynamoDB
type Store struct {
	client    Client
	tableName string
	logger    *zap.Logger
}

var (
	_ ports.TreeStore         = (*Store)(nil)
	_ ports.HealthChecker     = (*Store)(nil)
	_ abstractions.TreeSource = (*Store)(nil)
)

// NewStore creates a store for tableName
func NewStore(client Client, tableName string, logger *zap.Logger) *Store {
	return &Store{client: client, tableName: tableName, logger: logger}
}

type nodeItem struct {
	PK         string  `dynamodbav:"PK"`
	SK         string  `dynamodbav:"SK"`
	EntityType string  `dynamodbav:"EntityType"`
	NodeID     string  `dynamodbav:"NodeID"`
	Name       string  `dynamodbav:"Name"`
	ParentID   *string `dynamodbav:"ParentID,omitempty"`
}

func (i nodeItem) record() abstractions.NodeRecord {
	return abstractions.NodeRecord{ID: i.NodeID, Name: i.Name, ParentID: i.ParentID}
}

type propertyItem struct {
	PK         string  `dynamodbav:"PK"`
	SK         string  `dynamodbav:"SK"`
	EntityType string  `dynamodbav:"EntityType"`
	PropertyID string  `dynamodbav:"PropertyID"`
	NodeID     string  `dynamodbav:"NodeID"`
	Name       string  `dynamodbav:"Name"`
	Value      float64 `dynamodbav:"Value"`
}

func nodeKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: nodePrefix + id},
		"SK": &types.AttributeValueMemberS{Value: metadataSK},
	}
}

func parentPK(parentID *string) string {
	if parentID == nil {
		return parentPrefix + rootParent
	}
	return parentPrefix + *parentID
}

func guardKey(parentID *string, name string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: parentPK(parentID)},
		"SK": &types.AttributeValueMemberS{Value: childPrefix + name},
	}
}

func (s *Store) Nodes() ports.NodeRepository {
	return &nodeRepository{store: s}
}

func (s *Store) Properties() ports.PropertyRepository {
	return &propertyRepository{store: s}
}

// Ping describes the table
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.tableName)})
	if err != nil {
		return pkgerrors.NewDatabaseError("describe table", err)
	}
	return nil
}

// EnsureTable creates the table with on-demand billing when it does not exist
func (s *Store) EnsureTable(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.tableName)})
	if err == nil {
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return pkgerrors.NewDatabaseError("describe table", err)
	}

	s.logger.Info("Creating DynamoDB table", zap.String("table", s.tableName))
	_, err = s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(s.tableName),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("PK"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("SK"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("PK"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("SK"), KeyType: types.KeyTypeRange},
		},
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("create table", err)
	}
	return nil
}

// FetchSubtreeRows resolves the selector and walks the tree one level at a time
func (s *Store) FetchSubtreeRows(ctx context.Context, selector subtree.Selector) ([]subtree.Row, error) {
	root, err := abstractions.ResolveSelector(ctx, s, selector)
	if err != nil || root == nil {
		return nil, err
	}
	return abstractions.CollectRows(ctx, s, *root)
}

func (s *Store) GetNode(ctx context.Context, id string) (*abstractions.NodeRecord, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            nodeKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get node", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var item nodeItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal node", err)
	}
	rec := item.record()
	return &rec, nil
}

func (s *Store) ChildByName(ctx context.Context, parentID *string, name string) (*abstractions.NodeRecord, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            guardKey(parentID, name),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get child by name", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var item nodeItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal child", err)
	}
	rec := item.record()
	return &rec, nil
}

func (s *Store) Children(ctx context.Context, parentID string) ([]abstractions.NodeRecord, error) {
	var items []nodeItem
	if err := s.queryPrefix(ctx, parentPrefix+parentID, childPrefix, &items); err != nil {
		return nil, pkgerrors.NewDatabaseError("list children", err)
	}

	out := make([]abstractions.NodeRecord, len(items))
	for i, item := range items {
		out[i] = item.record()
	}
	return out, nil
}

func (s *Store) PropertiesOf(ctx context.Context, nodeID string) ([]abstractions.PropertyRecord, error) {
	var items []propertyItem
	if err := s.queryPrefix(ctx, nodePrefix+nodeID, propPrefix, &items); err != nil {
		return nil, pkgerrors.NewDatabaseError("list properties", err)
	}

	out := make([]abstractions.PropertyRecord, len(items))
	for i, item := range items {
		out[i] = abstractions.PropertyRecord{
			ID:     item.PropertyID,
			NodeID: item.NodeID,
			Name:   item.Name,
			Value:  item.Value,
		}
	}
	return out, nil
}

// queryPrefix reads every item of partition pk whose sort key starts with
// prefix, following pagination, and unmarshals them into out.
func (s *Store) queryPrefix(ctx context.Context, pk, prefix string, out any) error {
	keyCond := expression.Key("PK").Equal(expression.Value(pk)).
		And(expression.Key("SK").BeginsWith(prefix))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return fmt.Errorf("build key condition: %w", err)
	}

	paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ConsistentRead:            aws.Bool(true),
	})

	var items []map[string]types.AttributeValue
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}
		items = append(items, page.Items...)
	}
	return attributevalue.UnmarshalListOfMaps(items, out)
}

// cancelledAt reports which items of a cancelled transaction failed their
// condition check.
func cancelledAt(err error) (map[int]bool, bool) {
	var cancelled *types.TransactionCanceledException
	if !errors.As(err, &cancelled) {
		return nil, false
	}
	failed := make(map[int]bool)
	for i, reason := range cancelled.CancellationReasons {
		if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
			failed[i] = true
		}
	}
	return failed, true
}
