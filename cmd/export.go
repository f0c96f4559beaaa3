package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/marcus/tick/internal/models"
	"github.com/marcus/tick/internal/output"
	"github.com/marcus/tick/internal/store"
)

// exportDoc is the file format shared by export and import.
type exportDoc struct {
	Categories []string      `json:"categories" yaml:"categories"`
	Todos      []models.Todo `json:"todos" yaml:"todos"`
}

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Write all todos as JSON or YAML",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("output")

		return withProject(func(p *project) error {
			state := p.store.State()
			doc := exportDoc{Categories: state.Categories, Todos: state.Todos}

			var w io.Writer = os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := writeDoc(w, format, doc); err != nil {
				return err
			}
			if outPath != "" {
				output.Success("EXPORTED %s to %s", output.Plural(len(doc.Todos), "todo"), outPath)
			}
			return nil
		})
	},
}

func writeDoc(w io.Writer, format string, doc exportDoc) error {
	switch strings.ToLower(format) {
	case "", "json":
		return output.WriteJSON(w, doc)
	case "yaml", "yml":
		return output.WriteYAML(w, doc)
	default:
		return fmt.Errorf("unknown format %q: use json or yaml", format)
	}
}

// readDoc decodes an export file. The format follows the extension;
// anything other than .yaml/.yml is read as JSON.
func readDoc(path string) (exportDoc, error) {
	var doc exportDoc
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return doc, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

var importCmd = &cobra.Command{
	Use:     "import <file>",
	Short:   "Replace or merge todos from an export file",
	GroupID: "system",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		merge, _ := cmd.Flags().GetBool("merge")

		doc, err := readDoc(args[0])
		if err != nil {
			output.Error("%v", err)
			return err
		}

		return withProject(func(p *project) error {
			todos := doc.Todos
			if merge {
				todos = mergeTodos(p.store.State().Todos, doc.Todos)
			}
			if _, err := p.store.Dispatch(store.ReplaceTodos{Todos: todos}); err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			for _, c := range doc.Categories {
				if _, err := p.store.Dispatch(store.AddCategory{Category: c}); err != nil {
					return err
				}
			}
			output.Success("IMPORTED %s", output.Plural(len(doc.Todos), "todo"))
			return nil
		})
	},
}

// mergeTodos overlays incoming on existing by ID, keeping existing order
// and appending new todos. A later incoming todo wins over an earlier one
// with the same ID.
func mergeTodos(existing, incoming []models.Todo) []models.Todo {
	out := append([]models.Todo(nil), existing...)
	index := make(map[string]int, len(out))
	for i, t := range out {
		index[t.ID] = i
	}
	for _, t := range incoming {
		if i, ok := index[t.ID]; ok && t.ID != "" {
			out[i] = t
			continue
		}
		if t.ID != "" {
			index[t.ID] = len(out)
		}
		out = append(out, t)
	}
	return out
}

func init() {
	exportCmd.Flags().String("format", "json", "output format: json or yaml")
	exportCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
	importCmd.Flags().Bool("merge", false, "merge by ID instead of replacing the list")
	rootCmd.AddCommand(exportCmd, importCmd)
}
