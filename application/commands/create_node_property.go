package commands

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"nodetree/application/ports"
	"nodetree/domain/core/entities"
	"nodetree/domain/core/valueobjects"
	"nodetree/pkg/validation"
)

// CreateNodePropertyCommand attaches a property to an existing node
type CreateNodePropertyCommand struct {
	NodeID string  `json:"nodeId"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
}

func NewCreateNodePropertyCommand(nodeID, name string, value float64) CreateNodePropertyCommand {
	return CreateNodePropertyCommand{NodeID: nodeID, Name: name, Value: value}
}

func (CreateNodePropertyCommand) MessageName() string { return "CreateNodeProperty" }

var createNodePropertySchema = validation.Object(
	validation.Field("nodeId", func(c CreateNodePropertyCommand) string { return c.NodeID },
		validation.UUID("Invalid UUID")),
	validation.Field("name", func(c CreateNodePropertyCommand) string { return c.Name },
		validation.NonBlank("Property name cannot be empty")),
	validation.Field("value", func(c CreateNodePropertyCommand) float64 { return c.Value },
		validation.Finite("Property value must be a valid number")),
)

// Validate validates the command
func (c CreateNodePropertyCommand) Validate() error {
	return validation.Check(c, createNodePropertySchema).Err("Invalid command")
}

// CreateNodePropertyHandler handles the CreateNodePropertyCommand
type CreateNodePropertyHandler struct {
	nodes      ports.NodeRepository
	properties ports.PropertyRepository
	publisher  ports.EventPublisher
	logger     *zap.Logger
}

// NewCreateNodePropertyHandler creates a new handler instance
func NewCreateNodePropertyHandler(
	nodes ports.NodeRepository,
	properties ports.PropertyRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *CreateNodePropertyHandler {
	return &CreateNodePropertyHandler{
		nodes:      nodes,
		properties: properties,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle creates the property and returns its id
func (h *CreateNodePropertyHandler) Handle(ctx context.Context, cmd CreateNodePropertyCommand) (valueobjects.PropertyID, error) {
	nodeID, err := valueobjects.ParseNodeID(cmd.NodeID)
	if err != nil {
		return valueobjects.PropertyID{}, err
	}
	node, err := h.nodes.GetByID(ctx, nodeID)
	if err != nil {
		return valueobjects.PropertyID{}, err
	}

	name := strings.TrimSpace(cmd.Name)
	exists, err := h.properties.ExistsInNode(ctx, name, node.ID())
	if err != nil {
		return valueobjects.PropertyID{}, err
	}
	if exists {
		return valueobjects.PropertyID{}, entities.ErrDuplicatePropertyName(name, node.ID())
	}

	prop, err := entities.NewProperty(node.ID(), name, cmd.Value)
	if err != nil {
		return valueobjects.PropertyID{}, err
	}
	if err := h.properties.Save(ctx, prop); err != nil {
		return valueobjects.PropertyID{}, err
	}

	publishEvents(ctx, h.publisher, h.logger, prop)

	return prop.ID(), nil
}
