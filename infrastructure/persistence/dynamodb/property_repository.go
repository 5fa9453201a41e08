package dynamodb

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"nodetree/domain/core/entities"
	"nodetree/domain/core/valueobjects"
	pkgerrors "nodetree/pkg/errors"
)

type propertyRepository struct {
	store *Store
}

func (r *propertyRepository) ExistsInNode(ctx context.Context, name string, nodeID valueobjects.NodeID) (bool, error) {
	s := r.store
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: nodePrefix + nodeID.String()},
			"SK": &types.AttributeValueMemberS{Value: propPrefix + name},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return false, pkgerrors.NewDatabaseError("get property", err)
	}
	return len(out.Item) > 0, nil
}

// Save writes the property together with a check that its node exists. The
// sort key PROP#<name> makes the name unique within the node.
func (r *propertyRepository) Save(ctx context.Context, property *entities.Property) error {
	s := r.store
	nodeID := property.NodeID().String()
	av, err := attributevalue.MarshalMap(propertyItem{
		PK:         nodePrefix + nodeID,
		SK:         propPrefix + property.Name(),
		EntityType: entityProperty,
		PropertyID: property.ID().String(),
		NodeID:     nodeID,
		Name:       property.Name(),
		Value:      property.Value().Float64(),
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal property", err)
	}

	_, err = s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(s.tableName),
				Item:                av,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			}},
			{ConditionCheck: &types.ConditionCheck{
				TableName:           aws.String(s.tableName),
				Key:                 nodeKey(nodeID),
				ConditionExpression: aws.String("attribute_exists(PK)"),
			}},
		},
	})
	if err == nil {
		return nil
	}

	if failed, ok := cancelledAt(err); ok {
		switch {
		case failed[1]:
			return entities.ErrNodeNotFound(property.NodeID())
		case failed[0]:
			return entities.ErrDuplicatePropertyName(property.Name(), property.NodeID())
		}
	}
	s.logger.Error("Failed to save property", zap.String("node_id", nodeID), zap.Error(err))
	return pkgerrors.NewDatabaseError("save property", err)
}

func (r *propertyRepository) ListByNodeID(ctx context.Context, nodeID valueobjects.NodeID) ([]*entities.Property, error) {
	records, err := r.store.PropertiesOf(ctx, nodeID.String())
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })

	out := make([]*entities.Property, 0, len(records))
	for _, rec := range records {
		id, err := valueobjects.ParsePropertyID(rec.ID)
		if err != nil {
			return nil, err
		}
		prop, err := entities.ReconstructProperty(id, nodeID, rec.Name, rec.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, prop)
	}
	return out, nil
}
