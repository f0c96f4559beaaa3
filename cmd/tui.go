package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/marcus/tick/internal/config"
	"github.com/marcus/tick/internal/output"
	"github.com/marcus/tick/internal/pomodoro"
	"github.com/marcus/tick/pkg/tui"
)

var uiCmd = &cobra.Command{
	Use:     "ui",
	Short:   "Open the interactive todo list",
	GroupID: "view",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProject(func(p *project) error {
			m := tui.NewTodoModel(p.store, tui.TodoOptions{
				SearchDelay:     config.SearchDebounce(p.cfg),
				DefaultCategory: p.cfg.DefaultCategory,
			})
			defer m.Close()

			_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		})
	},
}

var searchCmd = &cobra.Command{
	Use:     "search [query]",
	Short:   "Search todos interactively as you type",
	Long:    `Opens a live search over all todos. Results refresh once typing pauses for the search delay. Enter prints the ID of the selected todo.`,
	GroupID: "view",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fuzzy, _ := cmd.Flags().GetBool("fuzzy")
		return withProject(func(p *project) error {
			delay := config.SearchDebounce(p.cfg)
			if cmd.Flags().Changed("delay") {
				delay, _ = cmd.Flags().GetDuration("delay")
			}
			query := ""
			if len(args) > 0 {
				query = args[0]
			}

			m := tui.NewSearchModel(p.store.State(), tui.SearchOptions{
				Delay: delay,
				Fuzzy: fuzzy,
				Query: query,
			})
			defer m.Close()

			final, err := tea.NewProgram(m).Run()
			if err != nil {
				return err
			}
			if sm, ok := final.(tui.SearchModel); ok {
				if t, ok := sm.Chosen(); ok {
					fmt.Println(t.ID)
				}
			}
			return nil
		})
	},
}

var timerCmd = &cobra.Command{
	Use:     "timer",
	Aliases: []string{"pomodoro"},
	Short:   "Run a pomodoro timer",
	Long: `Runs a pomodoro timer. Work sessions alternate with short breaks, and
every few cycles a long break is taken instead. Durations come from the
pomodoro.* config keys.`,
	GroupID: "timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		modeStr, _ := cmd.Flags().GetString("mode")
		custom, _ := cmd.Flags().GetInt("custom")
		autostart, _ := cmd.Flags().GetBool("start")

		mode, err := pomodoro.ParseMode(modeStr)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		cfg, err := config.Load(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}

		m := tui.NewPomodoroModel(func(opts ...pomodoro.Option) *pomodoro.Session {
			opts = append(opts, pomodoro.WithDurations(pomodoro.FromConfig(cfg.Pomodoro)))
			s := pomodoro.New(opts...)
			if mode != pomodoro.Work {
				s.SetMode(mode)
			}
			if custom > 0 {
				s.SetCustomMinutes(custom)
				s.UseCustom(true)
			}
			if autostart {
				s.Start()
			}
			return s
		})
		defer m.Close()

		_, err = tea.NewProgram(m).Run()
		return err
	},
}

func init() {
	searchCmd.Flags().Duration("delay", config.DefaultSearchDebounce, "quiet period before a search runs")
	searchCmd.Flags().Bool("fuzzy", false, "fuzzy matching")

	timerCmd.Flags().String("mode", string(pomodoro.Work), "starting mode: work, short, long")
	timerCmd.Flags().Int("custom", 0, "custom session length in minutes")
	timerCmd.Flags().Bool("start", false, "start counting immediately")

	rootCmd.AddCommand(uiCmd, searchCmd, timerCmd)
}
