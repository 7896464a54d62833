package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestResolve_MergesIncludeChain(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	root := writeFile(t, dir, "main.prj.hcl", `
		kernel {
			tick_rate_hz = 100
		}
		include {
			file = "b.prj.hcl"
		}
	`)
	writeFile(t, dir, "b.prj.hcl", `
		tasks {
			task "a" {}
		}
		include {
			file = "c.prj.hcl"
		}
	`)
	writeFile(t, dir, "c.prj.hcl", `
		queues {}
	`)

	raw, err := New().Resolve(context.Background(), root)
	require.NoError(t, err)

	var got []string
	for _, el := range raw.Elements {
		got = append(got, el.Kind)
	}
	require.Equal(t, []string{"kernel", "tasks", "queues"}, got)
}

func TestResolve_IncludeSplicedInPlace(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	root := writeFile(t, dir, "main.prj.hcl", `
		kernel {}
		include {
			file = "mid.prj.hcl"
		}
		queues {}
	`)
	writeFile(t, dir, "mid.prj.hcl", `
		tasks {}
	`)

	raw, err := New().Resolve(context.Background(), root)
	require.NoError(t, err)

	var got []string
	for _, el := range raw.Elements {
		got = append(got, el.Kind)
	}
	require.Equal(t, []string{"kernel", "tasks", "queues"}, got)
}

func TestResolve_NestedIncludeInsideElement(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	root := writeFile(t, dir, "main.prj.hcl", `
		tasks {
			include {
				file = "extra_tasks.prj.hcl"
			}
			task "local" {}
		}
	`)
	writeFile(t, dir, "extra_tasks.prj.hcl", `
		task "included_first" {}
	`)

	raw, err := New().Resolve(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, raw.Elements, 1)

	children := raw.Elements[0].Children
	require.Len(t, children, 2)
	require.Equal(t, "included_first", children[0].Name)
	require.Equal(t, "local", children[1].Name)
}

func TestResolve_CyclicIncludeFails(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	root := writeFile(t, dir, "a.prj.hcl", `
		include {
			file = "b.prj.hcl"
		}
	`)
	writeFile(t, dir, "b.prj.hcl", `
		include {
			file = "a.prj.hcl"
		}
	`)

	_, err := New().Resolve(context.Background(), root)
	var cerr *CyclicIncludeError
	require.ErrorAs(t, err, &cerr)
	require.GreaterOrEqual(t, len(cerr.Cycle), 3)
	require.Contains(t, cerr.Cycle[0], "a.prj.hcl")
	require.Contains(t, cerr.Cycle[1], "b.prj.hcl")
	require.Equal(t, cerr.Cycle[0], cerr.Cycle[len(cerr.Cycle)-1])
}

func TestResolve_MissingIncludeFails(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	root := writeFile(t, dir, "main.prj.hcl", `
		include {
			file = "foo.inc"
		}
	`)

	_, err := New().Resolve(context.Background(), root)
	var nerr *IncludeNotFoundError
	require.ErrorAs(t, err, &nerr)
	require.Equal(t, "foo.inc", nerr.Path)
	require.Contains(t, nerr.RequestedBy, "main.prj.hcl")
	require.NotEmpty(t, nerr.Attempted)
}

func TestResolve_MissingRootFails(t *testing.T) {
	t.Parallel()

	_, err := New().Resolve(context.Background(), filepath.Join(t.TempDir(), "nope.prj.hcl"))
	var nerr *IncludeNotFoundError
	require.ErrorAs(t, err, &nerr)
	require.Empty(t, nerr.RequestedBy)
}

func TestResolve_SharedIncludeParsedOnce(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	root := writeFile(t, dir, "main.prj.hcl", `
		tasks {
			include {
				file = "common.prj.hcl"
			}
		}
		queues {
			include {
				file = "common.prj.hcl"
			}
		}
	`)
	writeFile(t, dir, "common.prj.hcl", `
		item "shared" {}
	`)

	raw, err := New().Resolve(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, raw.Elements, 2)

	first := raw.Elements[0].Children
	second := raw.Elements[1].Children
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	// Same parse, structurally shared.
	require.Same(t, first[0], second[0])
}

func TestResolve_SearchPathFallback(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	root := writeFile(t, dir, filepath.Join("proj", "main.prj.hcl"), `
		include {
			file = "widgets.prj.hcl"
		}
	`)
	writeFile(t, dir, filepath.Join("lib", "widgets.prj.hcl"), `
		widgets {}
	`)

	// Not found without the search path.
	_, err := New().Resolve(context.Background(), root)
	var nerr *IncludeNotFoundError
	require.ErrorAs(t, err, &nerr)

	raw, err := New(filepath.Join(dir, "lib")).Resolve(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, raw.Elements, 1)
	require.Equal(t, "widgets", raw.Elements[0].Kind)
}

func TestResolve_IncludingFileDirectoryWinsOverSearchPaths(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	root := writeFile(t, dir, filepath.Join("proj", "main.prj.hcl"), `
		include {
			file = "common.prj.hcl"
		}
	`)
	writeFile(t, dir, filepath.Join("proj", "common.prj.hcl"), `
		local {}
	`)
	writeFile(t, dir, filepath.Join("lib", "common.prj.hcl"), `
		library {}
	`)

	raw, err := New(filepath.Join(dir, "lib")).Resolve(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, raw.Elements, 1)
	require.Equal(t, "local", raw.Elements[0].Kind)
}

func TestResolve_InvocationPathsBeatDeclaredPaths(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	root := writeFile(t, dir, filepath.Join("proj", "main.prj.hcl"), `
		search_path = ["../declared"]

		include {
			file = "common.prj.hcl"
		}
	`)
	writeFile(t, dir, filepath.Join("declared", "common.prj.hcl"), `
		declared {}
	`)
	writeFile(t, dir, filepath.Join("cli", "common.prj.hcl"), `
		invocation {}
	`)

	// Declared search paths work on their own...
	raw, err := New().Resolve(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, "declared", raw.Elements[0].Kind)

	// ...but invocation-time paths are tried first.
	raw, err = New(filepath.Join(dir, "cli")).Resolve(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, "invocation", raw.Elements[0].Kind)
}

func TestResolve_AttributesAndLabels(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	root := writeFile(t, dir, "main.prj.hcl", `
		tasks {
			task "rx_handler" {
				stack_size = 256
				name       = "rx_handler"
			}
		}
	`)

	raw, err := New().Resolve(context.Background(), root)
	require.NoError(t, err)

	task := raw.Elements[0].Children[0]
	require.Equal(t, "task", task.Kind)
	require.Equal(t, "rx_handler", task.Name)
	// Attribute order follows the source text.
	require.Equal(t, []string{"stack_size", "name"}, task.AttrNames())
}

func TestResolve_RejectsMalformedIncludeDirective(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	root := writeFile(t, dir, "main.prj.hcl", `
		include {
			path = "b.prj.hcl"
		}
	`)

	_, err := New().Resolve(context.Background(), root)
	require.Error(t, err)
	require.Contains(t, err.Error(), "include")
}
