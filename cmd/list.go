package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcus/tick/internal/models"
	"github.com/marcus/tick/internal/output"
	"github.com/marcus/tick/internal/store"
	"github.com/marcus/tick/internal/suggest"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List todos matching the given filters",
	Example: `  tick list --filter active --sort due
  tick list -c Work --search report
  tick list --search rpt --fuzzy --json`,
	GroupID: "view",
	RunE: func(cmd *cobra.Command, args []string) error {
		actions, err := listActions(cmd)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		jsonOut, _ := cmd.Flags().GetBool("json")
		long, _ := cmd.Flags().GetBool("long")

		return withProject(func(p *project) error {
			// View settings are not persisted, so reduce a local copy.
			state := p.store.State()
			warnUnknownCategory(state, cmd)
			for _, a := range actions {
				next, err := store.Reduce(state, a, store.DefaultEnv())
				if err != nil {
					return err
				}
				state = next
			}

			now := time.Now()
			todos := store.VisibleTodos(state, now)
			if jsonOut {
				return output.JSON(todos)
			}
			if len(todos) == 0 {
				fmt.Println("No todos found")
				return nil
			}
			for _, t := range todos {
				if long {
					fmt.Print(output.FormatTodoLong(t, now))
					fmt.Println("---")
					continue
				}
				fmt.Println(output.FormatTodoShort(t, now))
			}
			return nil
		})
	},
}

// listActions turns the list flags into view actions.
func listActions(cmd *cobra.Command) ([]store.Action, error) {
	var actions []store.Action

	if f, _ := cmd.Flags().GetString("filter"); f != "" {
		filter := models.Filter(f)
		if !models.IsValidFilter(filter) {
			return nil, fmt.Errorf("%w %q: use all, active, completed or overdue", store.ErrInvalidFilter, f)
		}
		actions = append(actions, store.SetFilter{Filter: filter})
	}
	if s, _ := cmd.Flags().GetString("sort"); s != "" {
		key := models.NormalizeSortKey(s)
		if !models.IsValidSortKey(key) {
			return nil, fmt.Errorf("%w %q: use created, due, priority or alpha", store.ErrInvalidSort, s)
		}
		actions = append(actions, store.SetSortBy{SortBy: key})
	}
	if c, _ := cmd.Flags().GetString("category"); c != "" {
		actions = append(actions, store.SetSelectedCategory{Category: c})
	}
	if q, _ := cmd.Flags().GetString("search"); q != "" {
		actions = append(actions, store.SetSearchQuery{Query: q})
	}
	if fuzzy, _ := cmd.Flags().GetBool("fuzzy"); fuzzy {
		actions = append(actions, store.SetFuzzySearch{Enabled: true})
	}
	return actions, nil
}

// warnUnknownCategory points out a --category that matches nothing.
func warnUnknownCategory(state store.State, cmd *cobra.Command) {
	c, _ := cmd.Flags().GetString("category")
	if c == "" || c == models.AllCategories || state.HasCategory(c) {
		return
	}
	output.Warning("no category %q", c)
	if matches := suggest.Closest(c, state.Categories); len(matches) > 0 {
		output.Info("Did you mean: %s", strings.Join(matches, ", "))
	}
}

var statsCmd = &cobra.Command{
	Use:     "stats",
	Short:   "Show todo statistics",
	GroupID: "view",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		return withProject(func(p *project) error {
			stats := store.ComputeStats(p.store.State(), time.Now())
			if jsonOut {
				return output.JSON(stats)
			}
			fmt.Print(output.FormatStats(stats))
			return nil
		})
	},
}

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "List or add categories",
	GroupID: "core",
}

var categoryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List categories with todo counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		return withProject(func(p *project) error {
			stats := store.ComputeStats(p.store.State(), time.Now())
			if jsonOut {
				return output.JSON(stats.Categories)
			}
			for _, c := range stats.Categories {
				fmt.Printf("%-15s %d/%d done\n", c.Name, c.Completed, c.Total)
			}
			return nil
		})
	},
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProject(func(p *project) error {
			before := p.store.State()
			if before.HasCategory(args[0]) {
				output.Warning("category %q already exists", args[0])
				return nil
			}
			if _, err := p.store.Dispatch(store.AddCategory{Category: args[0]}); err != nil {
				return err
			}
			output.Success("ADDED category %s", args[0])
			return nil
		})
	},
}

func init() {
	listCmd.Flags().StringP("filter", "f", "", "status filter: all, active, completed, overdue")
	listCmd.Flags().StringP("sort", "s", "", "sort by: created, due, priority, alpha")
	listCmd.Flags().StringP("category", "c", "", "only show this category")
	listCmd.Flags().StringP("search", "q", "", "search text and tags")
	listCmd.Flags().Bool("fuzzy", false, "fuzzy match the search")
	listCmd.Flags().Bool("json", false, "JSON output")
	listCmd.Flags().BoolP("long", "l", false, "show every field")

	statsCmd.Flags().Bool("json", false, "JSON output")
	categoryListCmd.Flags().Bool("json", false, "JSON output")

	categoryCmd.AddCommand(categoryListCmd, categoryAddCmd)
	rootCmd.AddCommand(listCmd, statsCmd, categoryCmd)
}
