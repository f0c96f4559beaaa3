package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/marcus/tick/internal/config"
	"github.com/marcus/tick/internal/models"
	"github.com/marcus/tick/internal/output"
	"github.com/marcus/tick/internal/snapshot"
	"github.com/marcus/tick/internal/store"
)

// project is an opened tick directory: config, database and loaded store.
type project struct {
	cfg   *models.Config
	db    *snapshot.DB
	store *store.Store
}

// openProject loads the config and the todo store under baseDir. The
// caller must Close it.
func openProject(baseDir string) (*project, error) {
	cfg, err := config.Load(baseDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	db, err := snapshot.Open(baseDir, config.Driver(cfg))
	if err != nil {
		return nil, err
	}
	st := store.New(db)
	st.Load()
	return &project{cfg: cfg, db: db, store: st}, nil
}

func (p *project) Close() error {
	return p.db.Close()
}

// resolve maps a full or short todo ID to a todo.
func (p *project) resolve(ref string) (models.Todo, error) {
	state := p.store.State()
	id, err := state.Resolve(ref)
	if err != nil {
		return models.Todo{}, err
	}
	t, _ := state.Find(id)
	return t, nil
}

// dispatch applies a to the todo identified by ref. build receives the
// resolved todo and returns the action to run.
func (p *project) dispatch(ref string, build func(models.Todo) store.Action) (models.Todo, error) {
	t, err := p.resolve(ref)
	if err != nil {
		return models.Todo{}, err
	}
	state, err := p.store.Dispatch(build(t))
	if err != nil {
		return models.Todo{}, err
	}
	updated, _ := state.Find(t.ID)
	return updated, nil
}

// withProject opens the project at the current base dir, runs fn and
// closes it. Errors are printed before being returned.
func withProject(fn func(p *project) error) error {
	p, err := openProject(getBaseDir())
	if err != nil {
		output.Error("%v", err)
		return err
	}
	defer p.Close()
	if err := fn(p); err != nil {
		output.Error("%v", err)
		return err
	}
	return nil
}

// errorCode maps an error to the code used in JSON error output.
func errorCode(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return output.ErrCodeNotFound
	case errors.Is(err, store.ErrAmbiguousID):
		return output.ErrCodeAmbiguous
	case errors.Is(err, snapshot.ErrNotInitialized):
		return output.ErrCodeDatabaseError
	default:
		return output.ErrCodeInvalidInput
	}
}

// priorityValue is a pflag.Value accepting priority names and aliases.
type priorityValue struct {
	p *models.Priority
}

var _ pflag.Value = priorityValue{}

func newPriorityValue(def models.Priority, p *models.Priority) priorityValue {
	*p = def
	return priorityValue{p: p}
}

func (v priorityValue) String() string {
	if v.p == nil {
		return ""
	}
	return string(*v.p)
}

func (v priorityValue) Set(s string) error {
	p := models.NormalizePriority(s)
	if !models.IsValidPriority(p) {
		return fmt.Errorf("%w %q: use low, medium or high", store.ErrInvalidPriority, s)
	}
	*v.p = p
	return nil
}

func (v priorityValue) Type() string { return "priority" }

// splitTags splits comma separated tags, dropping blanks.
func splitTags(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
