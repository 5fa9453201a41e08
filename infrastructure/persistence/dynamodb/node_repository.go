package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"nodetree/domain/core/entities"
	"nodetree/domain/core/valueobjects"
	"nodetree/infrastructure/persistence/abstractions"
	pkgerrors "nodetree/pkg/errors"
)

type nodeRepository struct {
	store *Store
}

func (r *nodeRepository) FindByID(ctx context.Context, id valueobjects.NodeID) (*entities.Node, error) {
	rec, err := r.store.GetNode(ctx, id.String())
	if err != nil || rec == nil {
		return nil, err
	}
	return toNode(*rec)
}

func (r *nodeRepository) GetByID(ctx context.Context, id valueobjects.NodeID) (*entities.Node, error) {
	node, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, entities.ErrNodeNotFound(id)
	}
	return node, nil
}

func (r *nodeRepository) FindByPath(ctx context.Context, path string) (*entities.Node, error) {
	rec, err := abstractions.ResolvePath(ctx, r.store, path)
	if err != nil || rec == nil {
		return nil, err
	}
	return toNode(*rec)
}

func (r *nodeRepository) ExistsInParent(ctx context.Context, name string, parentID *valueobjects.NodeID) (bool, error) {
	var parent *string
	if parentID != nil {
		p := parentID.String()
		parent = &p
	}
	rec, err := r.store.ChildByName(ctx, parent, name)
	return rec != nil, err
}

// Save writes the node, its name guard and, for children, a check that the
// parent exists, all in one transaction.
func (r *nodeRepository) Save(ctx context.Context, node *entities.Node) error {
	s := r.store
	item := nodeItem{
		PK:         nodePrefix + node.ID().String(),
		SK:         metadataSK,
		EntityType: entityNode,
		NodeID:     node.ID().String(),
		Name:       node.Name(),
	}
	if p := node.ParentID(); p != nil {
		id := p.String()
		item.ParentID = &id
	}

	nodeAV, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal node", err)
	}

	guard := item
	guard.PK = parentPK(item.ParentID)
	guard.SK = childPrefix + item.Name
	guard.EntityType = entityChild
	guardAV, err := attributevalue.MarshalMap(guard)
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal name guard", err)
	}

	notExists := aws.String("attribute_not_exists(PK)")
	txItems := []types.TransactWriteItem{
		{Put: &types.Put{TableName: aws.String(s.tableName), Item: nodeAV, ConditionExpression: notExists}},
		{Put: &types.Put{TableName: aws.String(s.tableName), Item: guardAV, ConditionExpression: notExists}},
	}
	if item.ParentID != nil {
		txItems = append(txItems, types.TransactWriteItem{
			ConditionCheck: &types.ConditionCheck{
				TableName:           aws.String(s.tableName),
				Key:                 nodeKey(*item.ParentID),
				ConditionExpression: aws.String("attribute_exists(PK)"),
			},
		})
	}

	_, err = s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: txItems})
	if err == nil {
		return nil
	}

	if failed, ok := cancelledAt(err); ok {
		switch {
		case failed[2]:
			return entities.ErrNodeNotFound(*node.ParentID())
		case failed[1]:
			return entities.ErrDuplicateNodeName(node.Name(), node.ParentID())
		}
	}
	s.logger.Error("Failed to save node", zap.String("node_id", item.NodeID), zap.Error(err))
	return pkgerrors.NewDatabaseError("save node", err)
}

func toNode(rec abstractions.NodeRecord) (*entities.Node, error) {
	id, err := valueobjects.ParseNodeID(rec.ID)
	if err != nil {
		return nil, err
	}
	var parent *valueobjects.NodeID
	if rec.ParentID != nil {
		p, err := valueobjects.ParseNodeID(*rec.ParentID)
		if err != nil {
			return nil, err
		}
		parent = &p
	}
	return entities.ReconstructNode(id, parent, rec.Name)
}
