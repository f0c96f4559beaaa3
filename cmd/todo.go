package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcus/tick/internal/dateparse"
	"github.com/marcus/tick/internal/input"
	"github.com/marcus/tick/internal/models"
	"github.com/marcus/tick/internal/output"
	"github.com/marcus/tick/internal/store"
)

var addPriority models.Priority

var addCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a todo",
	Long:  `Adds a todo. Use - to add one todo per line of stdin, or @file for one per line of a file.`,
	Example: `  tick add "Buy milk" -c Shopping --due tomorrow
  tick add "Write report" -p high --tags work,q3
  tick add @groceries.txt -c Shopping`,
	GroupID: "core",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		dueStr, _ := cmd.Flags().GetString("due")
		tags, _ := cmd.Flags().GetStringSlice("tags")
		jsonOut, _ := cmd.Flags().GetBool("json")

		due, err := parseDue(dueStr)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		texts := []string{strings.Join(args, " ")}
		if input.IsExpandable(args) {
			if texts, err = input.Expand(args, cmd.InOrStdin()); err != nil {
				output.Error("%v", err)
				return err
			}
		}

		return withProject(func(p *project) error {
			if category == "" {
				category = p.cfg.DefaultCategory
			}
			var added []models.Todo
			for _, text := range texts {
				state, err := p.store.Dispatch(store.AddTodo{
					Text:     text,
					Priority: addPriority,
					Category: category,
					DueDate:  due,
					Tags:     splitTags(tags),
				})
				if err != nil {
					return err
				}
				added = append(added, state.Todos[len(state.Todos)-1])
			}
			if jsonOut {
				if len(added) == 1 {
					return output.JSON(added[0])
				}
				return output.JSON(added)
			}
			for _, t := range added {
				output.Success("ADDED %s %s", output.ShortID(t.ID), t.Text)
			}
			return nil
		})
	},
}

// parseDue resolves a --due value; "none" and empty mean no date.
func parseDue(s string) (string, error) {
	if dateparse.None(s) {
		return "", nil
	}
	return dateparse.ParseFrom(s, time.Now())
}

// todoCommand builds a command that applies one action to one todo.
func todoCommand(use, short string, args cobra.PositionalArgs, build func(t models.Todo, args []string) (store.Action, error), done func(t models.Todo)) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Short:   short,
		GroupID: "core",
		Args:    args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(func(p *project) error {
				t, err := p.resolve(args[0])
				if err != nil {
					return err
				}
				a, err := build(t, args[1:])
				if err != nil {
					return err
				}
				state, err := p.store.Dispatch(a)
				if err != nil {
					return err
				}
				updated, _ := state.Find(t.ID)
				if updated.ID == "" {
					updated = t
				}
				done(updated)
				return nil
			})
		},
	}
}

var doneCmd = todoCommand("done <id>", "Mark a todo as completed", cobra.ExactArgs(1),
	func(t models.Todo, _ []string) (store.Action, error) {
		return store.SetCompleted{ID: t.ID, Completed: true}, nil
	},
	func(t models.Todo) { output.Success("DONE %s %s", output.ShortID(t.ID), t.Text) })

var undoCmd = todoCommand("undo <id>", "Mark a todo as not completed", cobra.ExactArgs(1),
	func(t models.Todo, _ []string) (store.Action, error) {
		return store.SetCompleted{ID: t.ID, Completed: false}, nil
	},
	func(t models.Todo) { output.Success("REOPENED %s %s", output.ShortID(t.ID), t.Text) })

var toggleCmd = todoCommand("toggle <id>", "Flip a todo between done and not done", cobra.ExactArgs(1),
	func(t models.Todo, _ []string) (store.Action, error) {
		return store.ToggleTodo{ID: t.ID}, nil
	},
	func(t models.Todo) {
		output.Success("%s %s %s", output.CheckBox(t.Completed), output.ShortID(t.ID), t.Text)
	})

var deleteCmd = todoCommand("delete <id>", "Delete a todo", cobra.ExactArgs(1),
	func(t models.Todo, _ []string) (store.Action, error) {
		return store.DeleteTodo{ID: t.ID}, nil
	},
	func(t models.Todo) { output.Success("DELETED %s %s", output.ShortID(t.ID), t.Text) })

var editCmd = todoCommand("edit <id> <text>", "Change a todo's text", cobra.MinimumNArgs(2),
	func(t models.Todo, rest []string) (store.Action, error) {
		return store.EditTodo{ID: t.ID, Text: strings.Join(rest, " ")}, nil
	},
	func(t models.Todo) { output.Success("UPDATED %s %s", output.ShortID(t.ID), t.Text) })

var priorityCmd = todoCommand("priority <id> <low|medium|high>", "Set a todo's priority", cobra.ExactArgs(2),
	func(t models.Todo, rest []string) (store.Action, error) {
		var p models.Priority
		if err := newPriorityValue("", &p).Set(rest[0]); err != nil {
			return nil, err
		}
		return store.SetPriority{ID: t.ID, Priority: p}, nil
	},
	func(t models.Todo) {
		output.Success("PRIORITY %s %s", output.ShortID(t.ID), output.FormatPriority(t.Priority))
	})

var dueCmd = todoCommand("due <id> <date|none>", "Set or clear a todo's due date", cobra.ExactArgs(2),
	func(t models.Todo, rest []string) (store.Action, error) {
		due, err := parseDue(rest[0])
		if err != nil {
			return nil, err
		}
		return store.SetDueDate{ID: t.ID, DueDate: due}, nil
	},
	func(t models.Todo) {
		if t.DueDate == "" {
			output.Success("CLEARED due date of %s", output.ShortID(t.ID))
			return
		}
		output.Success("DUE %s %s (%s)", output.ShortID(t.ID), t.DueDate, dateparse.Describe(t.DueDate, time.Now()))
	})

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Show every field of a todo",
	GroupID: "view",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		return withProject(func(p *project) error {
			t, err := p.resolve(args[0])
			if err != nil {
				if jsonOut {
					output.JSONError(errorCode(err), err.Error())
				}
				return err
			}
			if jsonOut {
				return output.JSON(t)
			}
			fmt.Print(output.FormatTodoLong(t, time.Now()))
			return nil
		})
	},
}

var tagCmd = &cobra.Command{
	Use:     "tag",
	Short:   "Add or remove todo tags",
	GroupID: "core",
}

var tagAddCmd = &cobra.Command{
	Use:   "add <id> <tag>...",
	Short: "Add tags to a todo",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProject(func(p *project) error {
			return applyTags(p, args[0], splitTags(args[1:]), func(id, tag string) store.Action {
				return store.AddTag{ID: id, Tag: tag}
			})
		})
	},
}

var tagRmCmd = &cobra.Command{
	Use:     "rm <id> <tag>...",
	Aliases: []string{"remove"},
	Short:   "Remove tags from a todo",
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProject(func(p *project) error {
			return applyTags(p, args[0], splitTags(args[1:]), func(id, tag string) store.Action {
				return store.RemoveTag{ID: id, Tag: tag}
			})
		})
	},
}

func applyTags(p *project, ref string, tags []string, build func(id, tag string) store.Action) error {
	var t models.Todo
	for _, tag := range tags {
		updated, err := p.dispatch(ref, func(t models.Todo) store.Action { return build(t.ID, tag) })
		if err != nil {
			return err
		}
		t = updated
	}
	tagStr := output.FormatTags(t.Tags)
	if tagStr == "" {
		tagStr = "(no tags)"
	}
	output.Success("TAGS %s %s", output.ShortID(t.ID), tagStr)
	return nil
}

var clearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Delete all completed todos",
	GroupID: "core",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProject(func(p *project) error {
			before := len(p.store.State().Todos)
			state, err := p.store.Dispatch(store.ClearCompleted{})
			if err != nil {
				return err
			}
			output.Success("CLEARED %s", output.Plural(before-len(state.Todos), "completed todo"))
			return nil
		})
	},
}

func init() {
	addCmd.Flags().VarP(newPriorityValue(models.PriorityMedium, &addPriority), "priority", "p", "priority: low, medium, high")
	addCmd.Flags().StringP("category", "c", "", "category (created if new)")
	addCmd.Flags().String("due", "", "due date: YYYY-MM-DD, today, tomorrow, fri, +3d, next-week")
	addCmd.Flags().StringSlice("tags", nil, "comma separated tags")
	addCmd.Flags().Bool("json", false, "print the new todo as JSON")
	showCmd.Flags().Bool("json", false, "JSON output")

	tagCmd.AddCommand(tagAddCmd, tagRmCmd)
	rootCmd.AddCommand(addCmd, doneCmd, undoCmd, toggleCmd, deleteCmd, editCmd, priorityCmd, dueCmd, showCmd, tagCmd, clearCmd)

	deleteCmd.Aliases = []string{"rm"}
	editCmd.Aliases = []string{"rename"}
}
