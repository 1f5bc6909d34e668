package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Show the dependency-resolved insertion order",
	Long:  `Builds the entity dependency graph from foreign keys and prints the order tables should be populated in.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		batch, err := extractBatch(cfg)
		if err != nil {
			return err
		}

		graph, order := resolveOrder(batch)

		color.Green("📊 Found %d entities", len(order))
		color.Cyan("📋 Insertion order: %s", strings.Join(order, " → "))

		if members := graph.CycleMembers(); len(members) > 0 {
			color.Yellow("⚠️  Entities in a reference cycle: %s", strings.Join(members, ", "))
		}

		fmt.Println()
		for _, name := range order {
			deps := graph.DependsOn(name)
			if len(deps) == 0 {
				fmt.Printf("   %s\n", name)
				continue
			}
			fmt.Printf("   %s (needs %s)\n", name, strings.Join(deps, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(orderCmd)
}
