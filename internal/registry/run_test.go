package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/prjkit/prjgen/internal/document"
	"github.com/prjkit/prjgen/internal/schema"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func rawEl(kind, name string, attrs map[string]cty.Value, children ...*document.RawElement) *document.RawElement {
	el := document.NewRawElement(kind, name, hcl.Range{})
	for n, v := range attrs {
		el.SetAttr(n, document.RawAttr{Value: v})
	}
	el.Children = children
	return el
}

func rawTask(name string, extra map[string]cty.Value) *document.RawElement {
	attrs := map[string]cty.Value{
		"stack_size": cty.NumberIntVal(256),
	}
	for k, v := range extra {
		attrs[k] = v
	}
	// The block label doubles as the name field.
	return rawEl("task", name, attrs)
}

// testRegistry registers a tasks-and-queues pair close to the real core
// modules, small enough to steer from each test.
func testRegistry(tasksFixup FixupFunc) *Registry {
	taskSchema := schema.New("task",
		&schema.Field{Name: "name", Type: schema.Identifier(), Required: true, Unique: true, Declares: "task"},
		&schema.Field{Name: "stack_size", Type: schema.Int(), Required: true},
		&schema.Field{Name: "queue", Type: schema.Reference("queue")},
	)
	queueSchema := schema.New("queue",
		&schema.Field{Name: "name", Type: schema.Identifier(), Required: true, Unique: true, Declares: "queue"},
		&schema.Field{Name: "depth", Type: schema.Int(), Required: true},
	)

	r := New()
	r.Register(&Module{
		Name: "tasks",
		Schema: schema.New("tasks",
			&schema.Field{Name: "task", Type: schema.Elements(taskSchema), Required: true, AutoIdx: true},
		),
		Fixup: tasksFixup,
	})
	r.Register(&Module{
		Name: "queues",
		Schema: schema.New("queues",
			&schema.Field{Name: "queue", Type: schema.Elements(queueSchema)},
		),
	})
	return r
}

func TestRun_DerivesSequentialIndices(t *testing.T) {
	t.Parallel()

	raw := &document.Raw{Elements: []*document.RawElement{
		rawEl("tasks", "", nil,
			rawTask("a", nil),
			rawTask("b", nil),
			rawTask("c", nil),
		),
	}}

	doc, err := testRegistry(nil).Run(context.Background(), raw)
	require.NoError(t, err)

	tasks := doc.ByKind("tasks").List("task")
	require.Equal(t, 3, doc.ByKind("tasks").Length("task"))
	for i, task := range tasks {
		idx, ok := task.AttrInt("idx")
		require.True(t, ok)
		require.Equal(t, int64(i), idx)
	}
}

func TestRun_ExplicitIdxOverridesOnlyThatItem(t *testing.T) {
	t.Parallel()

	raw := &document.Raw{Elements: []*document.RawElement{
		rawEl("tasks", "", nil,
			rawTask("a", nil),
			rawTask("b", map[string]cty.Value{"idx": cty.NumberIntVal(0)}),
			rawTask("c", nil),
		),
	}}

	doc, err := testRegistry(nil).Run(context.Background(), raw)
	require.NoError(t, err)

	tasks := doc.ByKind("tasks").List("task")
	var got []int64
	for _, task := range tasks {
		idx, _ := task.AttrInt("idx")
		got = append(got, idx)
	}
	// b claimed 0; a and c take the remaining indices in document order.
	require.Equal(t, []int64{1, 0, 2}, got)
}

func TestRun_DuplicateExplicitIdxFails(t *testing.T) {
	t.Parallel()

	raw := &document.Raw{Elements: []*document.RawElement{
		rawEl("tasks", "", nil,
			rawTask("a", map[string]cty.Value{"idx": cty.NumberIntVal(1)}),
			rawTask("b", map[string]cty.Value{"idx": cty.NumberIntVal(1)}),
		),
	}}

	_, err := testRegistry(nil).Run(context.Background(), raw)
	var derr *DuplicateIdentifierError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, "idx", derr.Field)
}

func TestRun_DuplicateIdentifierNamesBothItems(t *testing.T) {
	t.Parallel()

	raw := &document.Raw{Elements: []*document.RawElement{
		rawEl("tasks", "", nil,
			rawTask("worker", nil),
			rawTask("other", nil),
			rawTask("worker", nil),
		),
	}}

	_, err := testRegistry(nil).Run(context.Background(), raw)
	var derr *DuplicateIdentifierError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, "name", derr.Field)
	require.Equal(t, "worker", derr.Value)
	require.Contains(t, derr.First, "task[0]")
	require.Contains(t, derr.Second, "task[2]")
}

func TestRun_UnresolvedReferenceFails(t *testing.T) {
	t.Parallel()

	raw := &document.Raw{Elements: []*document.RawElement{
		rawEl("tasks", "", nil,
			rawTask("a", map[string]cty.Value{"queue": cty.StringVal("missing_q")}),
		),
	}}

	_, err := testRegistry(nil).Run(context.Background(), raw)
	var rerr *ReferenceError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, "queue", rerr.Field)
	require.Equal(t, "missing_q", rerr.Target)
	require.Contains(t, rerr.Path, "task[0]")
}

func TestRun_ReferenceResolvesAcrossSubtrees(t *testing.T) {
	t.Parallel()

	raw := &document.Raw{Elements: []*document.RawElement{
		rawEl("tasks", "", nil,
			rawTask("a", map[string]cty.Value{"queue": cty.StringVal("rx_q")}),
		),
		rawEl("queues", "", nil,
			rawEl("queue", "rx_q", map[string]cty.Value{
				"depth": cty.NumberIntVal(4),
			}),
		),
	}}

	doc, err := testRegistry(nil).Run(context.Background(), raw)
	require.NoError(t, err)

	target, found := doc.Index.Resolve("queue", "rx_q")
	require.True(t, found)
	require.Equal(t, "queue", target.Kind)
}

func TestRun_UnknownElementKindFails(t *testing.T) {
	t.Parallel()

	raw := &document.Raw{Elements: []*document.RawElement{
		rawEl("mystery", "", nil),
	}}

	_, err := testRegistry(nil).Run(context.Background(), raw)
	var uerr *schema.UnexpectedFieldError
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, "mystery", uerr.Field)
}

func TestRun_DuplicateSubtreeKindFails(t *testing.T) {
	t.Parallel()

	raw := &document.Raw{Elements: []*document.RawElement{
		rawEl("tasks", "", nil, rawTask("a", nil)),
		rawEl("tasks", "", nil, rawTask("b", nil)),
	}}

	_, err := testRegistry(nil).Run(context.Background(), raw)
	var uerr *schema.UnexpectedFieldError
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, "tasks", uerr.Field)
}

func TestRun_CustomFixupSeesDefaultedSubtree(t *testing.T) {
	t.Parallel()

	fixup := func(ctx context.Context, el *document.Element, ix *document.Index) error {
		var total int64
		for _, task := range el.List("task") {
			size, _ := task.AttrInt("stack_size")
			total += size
		}
		el.SetAttr("total_stack_size", cty.NumberIntVal(total))
		return nil
	}

	raw := &document.Raw{Elements: []*document.RawElement{
		rawEl("tasks", "", nil, rawTask("a", nil), rawTask("b", nil)),
	}}

	doc, err := testRegistry(fixup).Run(context.Background(), raw)
	require.NoError(t, err)
	total, ok := doc.ByKind("tasks").AttrInt("total_stack_size")
	require.True(t, ok)
	require.Equal(t, int64(512), total)
}

func TestRun_CustomFixupErrorIsFatal(t *testing.T) {
	t.Parallel()

	boom := errors.New("stack budget exceeded")
	fixup := func(ctx context.Context, el *document.Element, ix *document.Index) error {
		return boom
	}

	raw := &document.Raw{Elements: []*document.RawElement{
		rawEl("tasks", "", nil, rawTask("a", nil)),
	}}

	_, err := testRegistry(fixup).Run(context.Background(), raw)
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "tasks")
}

func TestRegister_DuplicateKindPanics(t *testing.T) {
	t.Parallel()

	r := New()
	r.Register(&Module{Name: "tasks", Schema: schema.New("tasks")})
	require.Panics(t, func() {
		r.Register(&Module{Name: "tasks", Schema: schema.New("tasks")})
	})
}
