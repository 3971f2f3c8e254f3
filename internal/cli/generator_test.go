package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/loom/internal/errors"
	"github.com/toyz/loom/internal/utils"
)

const appSource = `package shop

import "github.com/toyz/loom/pkg/loom"

//loom::application -Context=AppContext -StartRoute=/main/home
//loom::shells main=MainShell
type App struct{}

type AppContext struct{}

type MainShell struct{}
`

const pagesSource = `package pages

import (
	"example.com/shop"
	"example.com/shop/widgets"

	"github.com/toyz/loom/pkg/loom"
)

//loom::controller -Route=/main/home -Cache
//loom::composite -Name=card -Component=widgets.Card -Setter=SetCard
type Home struct {
	loom.BaseController[*shop.AppContext]
}

func (h *Home) SetCard(c *widgets.Card) {}
`

const widgetsSource = `package widgets

import "github.com/toyz/loom/pkg/loom"

//loom::component
type Card struct {
	loom.BaseComponent[any]
}

func (c *Card) Render() {}

func (c *Card) Bind() {}
`

// writeProject lays out a module example.com/shop with three packages
func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"go.mod":               "module example.com/shop\n\ngo 1.25\n",
		"app.go":               appSource,
		"pages/home.go":        pagesSource,
		"widgets/card.go":      widgetsSource,
		"widgets/card_test.go": "package widgets\n",
		"_scratch/ignored.go":  "package scratch\n\n//loom::controller -Route=/nowhere\ntype X struct{}\n",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func newTestGenerator(t *testing.T, cfg Config) *Generator {
	t.Helper()
	g, err := NewGenerator(&cfg, utils.NewDiagnosticSystemWithWriters(utils.DiagnosticDebug, &bytes.Buffer{}, &bytes.Buffer{}))
	require.NoError(t, err)
	return g
}

func TestGenerator_Run(t *testing.T) {
	root := writeProject(t)
	cfg := DefaultConfig()
	cfg.Directories = []string{root + "/..."}

	summary, err := newTestGenerator(t, cfg).Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 3, summary.PackagesProcessed)
	assert.Equal(t, 1, summary.Shells)
	assert.Equal(t, 1, summary.Controllers)
	assert.Equal(t, 1, summary.Composites)
	assert.Equal(t, []string{
		filepath.Join(root, "autogen_application.go"),
		filepath.Join(root, "pages", "autogen_home_creator.go"),
	}, summary.Written)

	creator, err := os.ReadFile(filepath.Join(root, "pages", "autogen_home_creator.go"))
	require.NoError(t, err)
	assert.Contains(t, string(creator), "package pages")
	assert.Contains(t, string(creator), `"example.com/shop/widgets"`)
	assert.Contains(t, string(creator), "session *loom.Session[*shop.AppContext]")
	assert.Contains(t, string(creator), "cardComponent := &widgets.Card{}")

	second, err := newTestGenerator(t, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second.Written, "a second run changes nothing")
	assert.Len(t, second.Unchanged, 2)
	assert.NotEqual(t, summary.RunID, second.RunID)
}

func TestGenerator_PrunesStaleFiles(t *testing.T) {
	root := writeProject(t)
	stale := filepath.Join(root, "pages", "autogen_removed_creator.go")
	require.NoError(t, os.WriteFile(stale, []byte("package pages\n"), 0o644))

	cfg := DefaultConfig()
	cfg.Directories = []string{root}

	summary, err := newTestGenerator(t, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{stale}, summary.Removed)
	assert.NoFileExists(t, stale)

	require.NoError(t, os.WriteFile(stale, []byte("package pages\n"), 0o644))
	cfg.PruneStale = false
	summary, err = newTestGenerator(t, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summary.Removed)
	assert.FileExists(t, stale)
}

func TestGenerator_DryRun(t *testing.T) {
	root := writeProject(t)
	cfg := DefaultConfig()
	cfg.Directories = []string{root}
	cfg.DryRun = true

	summary, err := newTestGenerator(t, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, summary.Written, 2)
	assert.NoFileExists(t, filepath.Join(root, "autogen_application.go"))
}

func TestGenerator_FailureWritesNothing(t *testing.T) {
	root := writeProject(t)
	broken := appSource + "\n//loom::controller -Route=/admin/home\ntype Admin struct{ loom.BaseController[*AppContext] }\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.go"), []byte(broken), 0o644))

	cfg := DefaultConfig()
	cfg.Directories = []string{root}

	_, err := newTestGenerator(t, cfg).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.UnresolvedReferenceErrorCode, errors.CodeOf(err))
	assert.NoFileExists(t, filepath.Join(root, "autogen_application.go"))
	assert.NoFileExists(t, filepath.Join(root, "pages", "autogen_home_creator.go"))
}

func TestGenerator_Canceled(t *testing.T) {
	root := writeProject(t)
	cfg := DefaultConfig()
	cfg.Directories = []string{root}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestGenerator(t, cfg).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCleaner(t *testing.T) {
	root := writeProject(t)
	cfg := DefaultConfig()
	cfg.Directories = []string{root}
	_, err := newTestGenerator(t, cfg).Run(context.Background())
	require.NoError(t, err)

	removed, err := NewCleaner(nil).CleanGeneratedFiles([]string{root + "/..."})
	require.NoError(t, err)
	assert.Len(t, removed, 2)
	assert.NoFileExists(t, filepath.Join(root, "autogen_application.go"))
	assert.FileExists(t, filepath.Join(root, "app.go"))
}

func TestNormalizeRoots(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	roots, err := NormalizeRoots([]string{"./...", "...", "./internal/...", "pkg"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		cwd,
		cwd,
		filepath.Join(cwd, "internal"),
		filepath.Join(cwd, "pkg"),
	}, roots)
}

func TestRootCommand(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewRootCommand(&out, &out)
		cmd.SetArgs([]string{"config", "--format", "toml", "--verbosity", "debug"})
		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "verbosity = ")
		assert.Contains(t, out.String(), "debug")
	})

	t.Run("generate and clean", func(t *testing.T) {
		root := writeProject(t)
		var out, errOut bytes.Buffer

		cmd := NewRootCommand(&out, &errOut)
		cmd.SetArgs([]string{"generate", "--no-color", root})
		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "Generation complete")
		assert.Contains(t, out.String(), "Files written: 2")
		assert.FileExists(t, filepath.Join(root, "autogen_application.go"))

		cmd = NewRootCommand(&out, &errOut)
		cmd.SetArgs([]string{"clean", "--quiet", root})
		require.NoError(t, cmd.Execute())
		assert.NoFileExists(t, filepath.Join(root, "autogen_application.go"))
	})

	t.Run("failure is reported once", func(t *testing.T) {
		root := writeProject(t)
		require.NoError(t, os.WriteFile(filepath.Join(root, "pages", "home.go"), []byte("package pages\n\nfunc {"), 0o644))
		var out, errOut bytes.Buffer

		cmd := NewRootCommand(&out, &errOut)
		cmd.SetArgs([]string{root})
		err := cmd.Execute()
		require.Error(t, err)

		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 1, exitErr.Code)
		assert.Contains(t, errOut.String(), "[ERROR]")
	})
}
