package commands

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"nodetree/application/ports"
	"nodetree/domain/core/entities"
	"nodetree/domain/core/valueobjects"
	pkgerrors "nodetree/pkg/errors"
	"nodetree/pkg/validation"
)

// PropertyInput is one property supplied together with a new node
type PropertyInput struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// CreateNodeCommand represents the command to create a new node.
// ParentNodeIDOmitted marks a request that left out parentNodeId entirely;
// a root node needs an explicit null.
type CreateNodeCommand struct {
	ParentNodeID        *string         `json:"parentNodeId"`
	ParentNodeIDOmitted bool            `json:"-"`
	Name                string          `json:"name"`
	Properties          []PropertyInput `json:"properties"`
}

// NewCreateNodeCommand builds the command; a nil parent creates a root node
func NewCreateNodeCommand(parentNodeID *string, name string, properties []PropertyInput) CreateNodeCommand {
	if properties == nil {
		properties = []PropertyInput{}
	}
	return CreateNodeCommand{ParentNodeID: parentNodeID, Name: name, Properties: properties}
}

func (CreateNodeCommand) MessageName() string { return "CreateNode" }

// parentField is nil when parentNodeId was omitted and points at the possibly
// null id otherwise
func (c CreateNodeCommand) parentField() **string {
	if c.ParentNodeIDOmitted {
		return nil
	}
	return &c.ParentNodeID
}

var propertyInputSchema = validation.Object(
	validation.Field("name", func(p PropertyInput) string { return p.Name },
		validation.NonBlank("Property name cannot be empty")),
	validation.Field("value", func(p PropertyInput) float64 { return p.Value },
		validation.Finite("Property value must be a valid number")),
)

var createNodeSchema = validation.Object(
	validation.Field("parentNodeId", CreateNodeCommand.parentField,
		validation.Required("Parent node ID is required, use null for a root node",
			validation.Nullable(validation.UUID("Invalid UUID")))),
	validation.Field("name", func(c CreateNodeCommand) string { return c.Name },
		validation.NonBlank("Name cannot be empty")),
	validation.Field("properties", func(c CreateNodeCommand) []PropertyInput { return c.Properties },
		validation.Each(propertyInputSchema)),
)

// Validate validates the command
func (c CreateNodeCommand) Validate() error {
	return validation.Check(c, createNodeSchema).Err("Invalid command")
}

// CreateNodeHandler handles the CreateNodeCommand
type CreateNodeHandler struct {
	nodes      ports.NodeRepository
	properties ports.PropertyRepository
	publisher  ports.EventPublisher
	logger     *zap.Logger
}

// NewCreateNodeHandler creates a new handler instance
func NewCreateNodeHandler(
	nodes ports.NodeRepository,
	properties ports.PropertyRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *CreateNodeHandler {
	return &CreateNodeHandler{
		nodes:      nodes,
		properties: properties,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle creates the node and its properties and returns the new node id
func (h *CreateNodeHandler) Handle(ctx context.Context, cmd CreateNodeCommand) (valueobjects.NodeID, error) {
	// Step 1: the parent must exist
	parentID, err := h.resolveParent(ctx, cmd.ParentNodeID)
	if err != nil {
		return valueobjects.NodeID{}, err
	}

	// Step 2: sibling names are unique
	name := strings.TrimSpace(cmd.Name)
	exists, err := h.nodes.ExistsInParent(ctx, name, parentID)
	if err != nil {
		return valueobjects.NodeID{}, err
	}
	if exists {
		return valueobjects.NodeID{}, entities.ErrDuplicateNodeName(name, parentID)
	}

	// Step 3: build the node and its properties
	node, err := entities.NewNode(parentID, name)
	if err != nil {
		return valueobjects.NodeID{}, err
	}
	props, err := buildProperties(node.ID(), cmd.Properties)
	if err != nil {
		return valueobjects.NodeID{}, err
	}

	// Step 4: persist the node, then its properties concurrently
	if err := h.nodes.Save(ctx, node); err != nil {
		return valueobjects.NodeID{}, err
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range props {
		g.Go(func() error {
			return h.properties.Save(gctx, p)
		})
	}
	if err := g.Wait(); err != nil {
		return valueobjects.NodeID{}, err
	}

	sources := make([]eventSource, 0, len(props)+1)
	sources = append(sources, node)
	for _, p := range props {
		sources = append(sources, p)
	}
	publishEvents(ctx, h.publisher, h.logger, sources...)

	return node.ID(), nil
}

func (h *CreateNodeHandler) resolveParent(ctx context.Context, raw *string) (*valueobjects.NodeID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := valueobjects.ParseNodeID(*raw)
	if err != nil {
		return nil, err
	}
	parent, err := h.nodes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	parentID := parent.ID()
	return &parentID, nil
}

func buildProperties(nodeID valueobjects.NodeID, inputs []PropertyInput) ([]*entities.Property, error) {
	seen := make(map[string]struct{}, len(inputs))
	props := make([]*entities.Property, 0, len(inputs))
	for _, in := range inputs {
		prop, err := entities.NewProperty(nodeID, in.Name, in.Value)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[prop.Name()]; dup {
			return nil, pkgerrors.NewBusinessRuleError(fmt.Sprintf("Property with name %q is given more than once", prop.Name()))
		}
		seen[prop.Name()] = struct{}{}
		props = append(props, prop)
	}
	return props, nil
}
