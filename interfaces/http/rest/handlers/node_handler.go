package handlers

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"nodetree/application/bus"
	"nodetree/application/commands"
	"nodetree/application/queries"
	"nodetree/application/queries/subtree"
	"nodetree/domain/core/valueobjects"
)

var nan = math.NaN()

// NodeHandler handles node-related HTTP requests
type NodeHandler struct {
	commandBus *bus.CommandBus
	queryBus   *bus.QueryBus
	logger     *zap.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(commandBus *bus.CommandBus, queryBus *bus.QueryBus, logger *zap.Logger) *NodeHandler {
	return &NodeHandler{commandBus: commandBus, queryBus: queryBus, logger: logger}
}

// PropertyRequest is one property in a request body. Value stays untyped so
// that a non-numeric value is reported as a violation rather than a decode
// failure.
type PropertyRequest struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

func (p PropertyRequest) input() commands.PropertyInput {
	return commands.PropertyInput{Name: p.Name, Value: numberOrNaN(p.Value)}
}

// OptionalString tells an absent JSON key apart from an explicit null
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON only runs when the key is present, null included
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	return json.Unmarshal(data, &o.Value)
}

// CreateNodeRequest represents the request body for creating a node
type CreateNodeRequest struct {
	ParentNodeID OptionalString    `json:"parentNodeId"`
	Name         string            `json:"name"`
	Properties   []PropertyRequest `json:"properties"`
}

// CreateNode handles POST /nodes and responds with the new node's subtree
func (h *NodeHandler) CreateNode(w http.ResponseWriter, r *http.Request) error {
	var req CreateNodeRequest
	if err := decodeJSON(r, w, &req); err != nil {
		return err
	}

	props := make([]commands.PropertyInput, len(req.Properties))
	for i, p := range req.Properties {
		props[i] = p.input()
	}

	cmd := commands.NewCreateNodeCommand(req.ParentNodeID.Value, req.Name, props)
	cmd.ParentNodeIDOmitted = !req.ParentNodeID.Set
	nodeID, err := bus.Send[commands.CreateNodeCommand, valueobjects.NodeID](r.Context(), h.commandBus, cmd)
	if err != nil {
		return err
	}

	tree, err := h.subtree(r, queries.ByNodeID(nodeID.String()))
	if err != nil {
		return err
	}
	return respond(w, h.logger, http.StatusCreated, tree)
}

// CreateNodeProperty handles POST /nodes/{nodeId}/properties and responds with
// the owning node's subtree
func (h *NodeHandler) CreateNodeProperty(w http.ResponseWriter, r *http.Request) error {
	var req PropertyRequest
	if err := decodeJSON(r, w, &req); err != nil {
		return err
	}

	nodeID := chi.URLParam(r, "nodeId")
	in := req.input()
	cmd := commands.NewCreateNodePropertyCommand(nodeID, in.Name, in.Value)
	if _, err := bus.Send[commands.CreateNodePropertyCommand, valueobjects.PropertyID](r.Context(), h.commandBus, cmd); err != nil {
		return err
	}

	tree, err := h.subtree(r, queries.ByNodeID(nodeID))
	if err != nil {
		return err
	}
	return respond(w, h.logger, http.StatusCreated, tree)
}

// GetNode handles GET /nodes/{nodeId}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) error {
	tree, err := h.subtree(r, queries.ByNodeID(chi.URLParam(r, "nodeId")))
	if err != nil {
		return err
	}
	return respond(w, h.logger, http.StatusOK, tree)
}

// GetSubtree handles GET /subtree/*
func (h *NodeHandler) GetSubtree(w http.ResponseWriter, r *http.Request) error {
	tree, err := h.subtree(r, queries.ByPath(wildcardPath(r)))
	if err != nil {
		return err
	}
	return respond(w, h.logger, http.StatusOK, tree)
}

// ListNodeProperties handles GET /nodes/{nodeId}/properties
func (h *NodeHandler) ListNodeProperties(w http.ResponseWriter, r *http.Request) error {
	return h.listProperties(w, r, queries.ByNodeID(chi.URLParam(r, "nodeId")))
}

// ListPathProperties handles GET /properties/*
func (h *NodeHandler) ListPathProperties(w http.ResponseWriter, r *http.Request) error {
	return h.listProperties(w, r, queries.ByPath(wildcardPath(r)))
}

func (h *NodeHandler) listProperties(w http.ResponseWriter, r *http.Request, by queries.NodeSelector) error {
	props, err := bus.Ask[queries.ListNodePropertiesQuery, []subtree.PropertyDTO](
		r.Context(), h.queryBus, queries.NewListNodePropertiesQuery(by))
	if err != nil {
		return err
	}
	return respond(w, h.logger, http.StatusOK, props)
}

func (h *NodeHandler) subtree(r *http.Request, by queries.NodeSelector) (*subtree.NodeDTO, error) {
	return bus.Ask[queries.GetNodeSubtreeQuery, *subtree.NodeDTO](
		r.Context(), h.queryBus, queries.NewGetNodeSubtreeQuery(by))
}
