package cmd

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/tick/internal/config"
	"github.com/marcus/tick/internal/output"
	"github.com/marcus/tick/internal/snapshot"
	"github.com/marcus/tick/internal/suggest"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Read and change settings in .tick/config.json",
	GroupID: "system",
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}

		keys := config.Keys()
		if len(args) == 1 {
			keys = args
		}
		for _, key := range keys {
			v, err := config.Get(cfg, key)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			if len(args) == 1 {
				fmt.Println(v)
				continue
			}
			if v == "" {
				v = "(default)"
			}
			fmt.Printf("%-26s %s\n", key, v)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Example: `  tick config set pomodoro.work 50m
  tick config set search_debounce 150ms
  tick config set driver sqlite3`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Set(getBaseDir(), args[0], args[1]); err != nil {
			output.Error("%v", err)
			if errors.Is(err, config.ErrUnknownKey) {
				if matches := suggest.Closest(args[0], config.Keys()); len(matches) > 0 {
					output.Info("Did you mean: %s", strings.Join(matches, ", "))
				}
			}
			return err
		}
		output.Success("SET %s = %s", args[0], args[1])
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the settable keys",
	Run: func(cmd *cobra.Command, args []string) {
		for _, k := range config.Keys() {
			fmt.Println(k)
		}
	},
}

var helpTopicsCmd = &cobra.Command{
	Use:     "guide",
	Short:   "Show a short guide to tick",
	GroupID: "system",
	Run: func(cmd *cobra.Command, args []string) {
		output.Markdown(guide)
	},
}

const guide = `# tick

Todos live in ` + "`.tick/tick.db`" + ` next to your project.

## Everyday use

- ` + "`tick add \"Buy milk\" -c Shopping --due tomorrow`" + `
- ` + "`tick list --filter active --sort due`" + `
- ` + "`tick done <id>`" + `: any unique ID prefix works
- ` + "`tick ui`" + `: the full-screen list

## Due dates

Use ` + "`YYYY-MM-DD`" + `, ` + "`today`" + `, ` + "`tomorrow`" + `, weekday names such as ` + "`fri`" + `,
offsets such as ` + "`+3d`" + ` or ` + "`+2w`" + `, or ` + "`none`" + ` to clear.

## Pomodoro

` + "`tick timer`" + ` alternates work sessions and breaks. Every fourth break is a
long one. Durations are set with ` + "`tick config set pomodoro.work 50m`" + `.
`

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Show version",
	GroupID: "system",
	Run: func(cmd *cobra.Command, args []string) {
		short, _ := cmd.Flags().GetBool("short")
		if short {
			fmt.Print(version)
			return
		}
		fmt.Printf("tick version %s (%s/%s)\n", version, runtime.GOOS, runtime.GOARCH)

		if !snapshot.Exists(getBaseDir()) {
			return
		}
		cfg, err := config.Load(getBaseDir())
		if err != nil {
			return
		}
		db, err := snapshot.Open(getBaseDir(), config.Driver(cfg))
		if err != nil {
			return
		}
		defer db.Close()
		if v, err := db.SchemaVersion(); err == nil {
			fmt.Printf("database: %s (driver %s, schema v%d)\n", snapshot.Path(getBaseDir()), db.Driver(), v)
		}
	},
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd, configKeysCmd)
	versionCmd.Flags().Bool("short", false, "Output only version string")
	rootCmd.AddCommand(configCmd, helpTopicsCmd, versionCmd)
}
