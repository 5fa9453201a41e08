package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"nodetree/application/bus"
	"nodetree/application/commands"
	"nodetree/domain/core/valueobjects"
	"nodetree/infrastructure/di"
)

//go:embed seeds/alphapc.yaml
var defaultSeed []byte

// seedFile is a tree of nodes to create
type seedFile struct {
	Nodes []seedNode `yaml:"nodes"`
}

type seedNode struct {
	Name       string             `yaml:"name"`
	Properties map[string]float64 `yaml:"properties"`
	Children   []seedNode         `yaml:"children"`
}

func newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a tree of nodes from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML tree to load (defaults to SEED_FILE, then the built-in AlphaPC tree)")
	return cmd
}

func runSeed(ctx context.Context, file string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if file == "" {
		file = cfg.SeedFile
	}

	data := defaultSeed
	if file != "" {
		if data, err = os.ReadFile(file); err != nil {
			return fmt.Errorf("read seed file: %w", err)
		}
	}
	tree, err := parseSeed(data)
	if err != nil {
		return err
	}

	container, cleanup, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	created, err := seedTree(ctx, container.CommandBus, nil, tree.Nodes)
	if err != nil {
		return err
	}
	container.Logger.Info("Seed complete", zap.Int("nodes", created))
	return nil
}

func parseSeed(data []byte) (*seedFile, error) {
	var tree seedFile
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &tree, nil
}

// seedTree creates nodes depth first through the command bus and returns how
// many were created
func seedTree(ctx context.Context, commandBus *bus.CommandBus, parent *string, nodes []seedNode) (int, error) {
	created := 0
	for _, n := range nodes {
		props := make([]commands.PropertyInput, 0, len(n.Properties))
		for name, value := range n.Properties {
			props = append(props, commands.PropertyInput{Name: name, Value: value})
		}

		cmd := commands.NewCreateNodeCommand(parent, n.Name, props)
		id, err := bus.Send[commands.CreateNodeCommand, valueobjects.NodeID](ctx, commandBus, cmd)
		if err != nil {
			return created, fmt.Errorf("seed node %q: %w", n.Name, err)
		}
		created++

		parentID := id.String()
		sub, err := seedTree(ctx, commandBus, &parentID, n.Children)
		created += sub
		if err != nil {
			return created, err
		}
	}
	return created, nil
}
