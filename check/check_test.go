package check

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/foomo/docsite-mcp/site"
)

func loadTree(t *testing.T, name string) *site.Tree {
	t.Helper()
	tree, err := site.Load(filepath.Join("testdata", name))
	require.NoError(t, err)
	return tree
}

func byRule(findings []Finding) map[Rule][]Finding {
	out := map[Rule][]Finding{}
	for _, f := range findings {
		out[f.Rule] = append(out[f.Rule], f)
	}
	return out
}

func TestRunCleanTree(t *testing.T) {
	checker := New(zap.NewNop())
	findings, err := checker.Run(context.Background(), loadTree(t, "clean"))
	require.NoError(t, err)
	require.Empty(t, findings)
}

func TestRunBrokenTree(t *testing.T) {
	checker := New(zap.NewNop())
	findings, err := checker.Run(context.Background(), loadTree(t, "broken"))
	require.NoError(t, err)
	require.True(t, HasErrors(findings))

	rules := byRule(findings)

	require.Len(t, rules[RuleDanglingLink], 1)
	require.Equal(t, SeverityError, rules[RuleDanglingLink][0].Severity)
	require.Contains(t, rules[RuleDanglingLink][0].Message, "Topics/Missing")

	require.Len(t, rules[RuleDanglingFragment], 1)
	require.Contains(t, rules[RuleDanglingFragment][0].Message, "no-such-heading")

	require.Len(t, rules[RuleDuplicateTarget], 1)
	require.Equal(t, SeverityWarning, rules[RuleDuplicateTarget][0].Severity)

	require.Len(t, rules[RuleEmptySection], 1)
	require.Contains(t, rules[RuleEmptySection][0].Message, "Nothing here yet")

	require.Len(t, rules[RuleMalformedLink], 3)
}

func TestRunAcceptsRenderedAnchors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	// The anchor id the renderer produces for "Héllo Wörld" drops the
	// non-ASCII letters without inserting dashes.
	write("index.md", "# Index\n\n## Pages\n\n- [Target](./Target#hllo-wrld)\n")
	write("Target.md", "# Target\n\n## Héllo Wörld\n\ntext\n")

	tree, err := site.Load(dir)
	require.NoError(t, err)

	findings, err := New(zap.NewNop()).Run(context.Background(), tree)
	require.NoError(t, err)
	require.Empty(t, findings)
}

func TestRunFindingsSorted(t *testing.T) {
	checker := New(zap.NewNop())
	findings, err := checker.Run(context.Background(), loadTree(t, "broken"))
	require.NoError(t, err)
	require.NotEmpty(t, findings)

	for i := 1; i < len(findings); i++ {
		prev, cur := findings[i-1], findings[i]
		if prev.Page == cur.Page {
			require.LessOrEqual(t, prev.Line, cur.Line)
		} else {
			require.Less(t, prev.Page, cur.Page)
		}
	}
}

func TestSeverityOverrides(t *testing.T) {
	checker := New(zap.NewNop(), WithSeverities(map[Rule]Severity{
		RuleDuplicateTarget: SeverityError,
		RuleEmptySection:    SeverityOff,
	}))
	findings, err := checker.Run(context.Background(), loadTree(t, "broken"))
	require.NoError(t, err)

	rules := byRule(findings)
	require.Empty(t, rules[RuleEmptySection])
	require.Len(t, rules[RuleDuplicateTarget], 1)
	require.Equal(t, SeverityError, rules[RuleDuplicateTarget][0].Severity)
}

func TestProgressCallback(t *testing.T) {
	var mu sync.Mutex
	pages := map[string]int{}
	checker := New(zap.NewNop(),
		WithWorkers(2),
		WithProgress(func(page string, findings int) {
			mu.Lock()
			pages[page] = findings
			mu.Unlock()
		}),
	)

	tree := loadTree(t, "broken")
	_, err := checker.Run(context.Background(), tree)
	require.NoError(t, err)
	require.Len(t, pages, tree.Len())
}

func TestCloneKeepsSeverities(t *testing.T) {
	base := New(zap.NewNop(), WithSeverities(map[Rule]Severity{
		RuleEmptySection: SeverityOff,
	}))

	var called atomic.Bool
	clone := base.Clone(WithProgress(func(string, int) { called.Store(true) }))

	findings, err := clone.Run(context.Background(), loadTree(t, "broken"))
	require.NoError(t, err)
	require.True(t, called.Load())
	require.Empty(t, byRule(findings)[RuleEmptySection])
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	checker := New(zap.NewNop())
	_, err := checker.Run(ctx, loadTree(t, "broken"))
	require.ErrorIs(t, err, context.Canceled)
}
