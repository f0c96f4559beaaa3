package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/tick/internal/config"
	"github.com/marcus/tick/internal/models"
	"github.com/marcus/tick/internal/output"
	"github.com/marcus/tick/internal/pomodoro"
	"github.com/marcus/tick/internal/snapshot"
)

var initCmd = &cobra.Command{
	Use:     "init",
	Short:   "Initialize a new tick project",
	Long:    `Creates the local .tick directory with a config file and SQLite database.`,
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		if snapshot.Exists(baseDir) {
			output.Warning(".tick/ already exists")
			return nil
		}

		driver, _ := cmd.Flags().GetString("driver")
		if !config.Exists(baseDir) {
			d := pomodoro.DefaultDurations()
			cfg := &models.Config{
				Pomodoro: models.PomodoroConfig{
					Work:           models.Duration(d.Work),
					ShortBreak:     models.Duration(d.ShortBreak),
					LongBreak:      models.Duration(d.LongBreak),
					LongBreakEvery: d.LongBreakEvery,
				},
				SearchDebounce: models.Duration(config.DefaultSearchDebounce),
				Driver:         driver,
			}
			if err := config.Save(baseDir, cfg); err != nil {
				output.Error("failed to write config: %v", err)
				return err
			}
		}

		database, err := snapshot.Initialize(baseDir, driver)
		if err != nil {
			output.Error("failed to initialize database: %v", err)
			return err
		}
		defer database.Close()

		fmt.Println("INITIALIZED .tick/")

		if _, err := os.Stat(filepath.Join(baseDir, ".git")); err == nil {
			addToGitignore(filepath.Join(baseDir, ".gitignore"))
		}
		return nil
	},
}

func addToGitignore(path string) {
	content, _ := os.ReadFile(path)
	if strings.Contains(string(content), ".tick/") {
		return
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		f.WriteString("\n")
	}
	f.WriteString(".tick/\n")
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("driver", snapshot.DriverModernc, "sqlite driver: sqlite (pure Go) or sqlite3 (cgo)")
}
