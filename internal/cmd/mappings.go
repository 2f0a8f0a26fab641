package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mealweek/bls-meal-plan/internal/config"
	"github.com/mealweek/bls-meal-plan/internal/mapping"
)

var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "Curate the ingredient mapping table",
}

var (
	mappingCategory string
	mappingNotes    string
)

var mappingsAddCmd = &cobra.Command{
	Use:   "add <ingredient-name> <bls-entry-name>",
	Short: "Add or update one mapping, validating it against the BLS table",
	Args:  cobra.ExactArgs(2),
	RunE:  runMappingsAdd,
}

var mappingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List mappings, optionally filtered by category",
	Args:  cobra.NoArgs,
	RunE:  runMappingsList,
}

var mappingsValidateCmd = &cobra.Command{
	Use:   "validate [bls-entry-name]",
	Short: "Check mapping targets against the BLS table",
	Long: `Without arguments, checks every stored mapping target and fails when
any no longer resolves. With a BLS entry name, dry-runs the lookup and
prints the nutrient row it would bind to, without touching the table.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMappingsValidate,
}

func init() {
	mappingsAddCmd.Flags().StringVar(&mappingCategory, "category", "", "Free-text category label")
	mappingsAddCmd.Flags().StringVar(&mappingNotes, "notes", "", "Free-text notes")
	mappingsListCmd.Flags().StringVar(&mappingCategory, "category", "", "Only list mappings in this category")

	mappingsCmd.AddCommand(mappingsAddCmd)
	mappingsCmd.AddCommand(mappingsListCmd)
	mappingsCmd.AddCommand(mappingsValidateCmd)
}

func runMappingsAdd(cmd *cobra.Command, args []string) error {
	logger := config.NewLogger()
	cfg := config.Load()
	ctx := context.Background()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	// Reject the mapping before persisting anything
	entry, err := store.FindByDesignation(ctx, args[1])
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("no BLS entry matches %q, mapping not added", args[1])
	}

	replaced, err := mapping.NewStore(cfg.MappingsPath).Upsert(mapping.Mapping{
		IngredientName: args[0],
		BLSEntryName:   args[1],
		Category:       mappingCategory,
		Notes:          mappingNotes,
	})
	if err != nil {
		return err
	}

	verb := "added"
	if replaced {
		verb = "updated"
	}
	logger.Info("mapping "+verb,
		"ingredient", args[0],
		"bls_entry", entry.Name)
	return nil
}

func runMappingsList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	mappings, err := mapping.NewStore(cfg.MappingsPath).List(mappingCategory)
	if err != nil {
		return err
	}

	for _, m := range mappings {
		line := fmt.Sprintf("%s -> %s", m.IngredientName, m.BLSEntryName)
		if m.Category != "" {
			line += fmt.Sprintf(" [%s]", m.Category)
		}
		if m.Notes != "" {
			line += fmt.Sprintf(" (%s)", m.Notes)
		}
		cmd.Println(line)
	}
	cmd.Printf("%d mappings\n", len(mappings))
	return nil
}

func runMappingsValidate(cmd *cobra.Command, args []string) error {
	logger := config.NewLogger()
	cfg := config.Load()
	ctx := context.Background()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 1 {
		entry, err := store.FindByDesignation(ctx, args[0])
		if err != nil {
			return err
		}
		if entry == nil {
			return fmt.Errorf("no BLS entry matches %q", args[0])
		}
		cmd.Printf("%s\n", entry.Name)
		columns := make([]string, 0, len(entry.Nutrients))
		for column := range entry.Nutrients {
			columns = append(columns, column)
		}
		sort.Strings(columns)
		for _, column := range columns {
			if entry.Nutrients[column] == 0 {
				continue
			}
			cmd.Printf("  %s: %g\n", column, entry.Nutrients[column])
		}
		return nil
	}

	mappings, err := mapping.NewStore(cfg.MappingsPath).Load()
	if err != nil {
		return err
	}

	issues, err := mapping.Validate(ctx, store, mappings)
	if err != nil {
		return err
	}

	for _, issue := range issues {
		cmd.Printf("INVALID %s -> %s: %s\n", issue.IngredientName, issue.BLSEntryName, issue.Reason)
	}
	cmd.Printf("%d of %d mappings valid\n", len(mappings)-len(issues), len(mappings))

	if len(issues) > 0 {
		return fmt.Errorf("%d mappings have dangling targets", len(issues))
	}
	return nil
}
