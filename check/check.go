// Package check validates the structure of a documentation tree. The rules
// mirror what a site build is expected to enforce: every link resolves to an
// existing page, no page lists the same target twice, no section heading is
// left without entries, and no link syntax is malformed.
package check

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/foomo/docsite-mcp/site"
)

// Rule identifies a validation rule.
type Rule string

const (
	RuleDanglingLink     Rule = "dangling-link"
	RuleDanglingFragment Rule = "dangling-fragment"
	RuleDuplicateTarget  Rule = "duplicate-target"
	RuleEmptySection     Rule = "empty-section"
	RuleMalformedLink    Rule = "malformed-link"
)

// Severity of a finding. Errors fail the build, warnings do not.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityOff     Severity = "off" // rule disabled
)

// Finding is one structural defect located in the tree.
type Finding struct {
	Page     string   `json:"page"`
	Line     int      `json:"line"`
	Rule     Rule     `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s:%d: %s: %s (%s)", f.Page, f.Line, f.Severity, f.Message, f.Rule)
}

// DefaultSeverities matches the build contract: unresolvable and malformed
// links break the build, duplicates and empty sections only warn.
func DefaultSeverities() map[Rule]Severity {
	return map[Rule]Severity{
		RuleDanglingLink:     SeverityError,
		RuleDanglingFragment: SeverityError,
		RuleMalformedLink:    SeverityError,
		RuleDuplicateTarget:  SeverityWarning,
		RuleEmptySection:     SeverityWarning,
	}
}

// Progress is invoked after each page has been checked.
type Progress func(page string, findings int)

// Checker runs the structural rules over a tree.
type Checker struct {
	logger     *zap.Logger
	severities map[Rule]Severity
	progress   Progress
	workers    int
}

// Option configures a Checker.
type Option func(*Checker)

// WithSeverities overrides the severity of individual rules.
func WithSeverities(severities map[Rule]Severity) Option {
	return func(c *Checker) {
		for rule, severity := range severities {
			c.severities[rule] = severity
		}
	}
}

// WithProgress registers a callback fired per checked page.
func WithProgress(progress Progress) Option {
	return func(c *Checker) {
		c.progress = progress
	}
}

// WithWorkers caps the number of pages checked concurrently.
func WithWorkers(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.workers = n
		}
	}
}

func New(logger *zap.Logger, opts ...Option) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Checker{
		logger:     logger,
		severities: DefaultSeverities(),
		workers:    8,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clone returns a copy of the checker with additional options applied,
// keeping the configured severities. Used to attach a per-run progress
// callback.
func (c *Checker) Clone(opts ...Option) *Checker {
	clone := &Checker{
		logger:     c.logger,
		severities: map[Rule]Severity{},
		progress:   c.progress,
		workers:    c.workers,
	}
	for rule, severity := range c.severities {
		clone.severities[rule] = severity
	}
	for _, opt := range opts {
		opt(clone)
	}
	return clone
}

// Run checks every page of the tree and returns the findings sorted by page
// and line.
func (c *Checker) Run(ctx context.Context, tree *site.Tree) ([]Finding, error) {
	var mu sync.Mutex
	var findings []Finding

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for _, path := range tree.Paths() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			page, err := tree.Page(path)
			if err != nil {
				return err
			}
			pageFindings := c.checkPage(tree, page)

			mu.Lock()
			findings = append(findings, pageFindings...)
			mu.Unlock()

			if c.progress != nil {
				c.progress(path, len(pageFindings))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Page != findings[j].Page {
			return findings[i].Page < findings[j].Page
		}
		if findings[i].Line != findings[j].Line {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].Rule < findings[j].Rule
	})

	c.logger.Info("check complete",
		zap.Int("pages", tree.Len()),
		zap.Int("findings", len(findings)),
	)
	return findings, nil
}

// HasErrors reports whether any finding carries error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (c *Checker) checkPage(tree *site.Tree, page *site.Page) []Finding {
	var findings []Finding

	add := func(rule Rule, line int, format string, args ...any) {
		if c.severities[rule] == SeverityOff {
			return
		}
		findings = append(findings, Finding{
			Page:     page.Path,
			Line:     line,
			Rule:     rule,
			Severity: c.severities[rule],
			Message:  fmt.Sprintf(format, args...),
		})
	}

	seen := map[string][]int{}

	for _, link := range page.Links {
		switch link.Kind {
		case site.LinkMalformed:
			add(RuleMalformedLink, link.Line, "malformed link target %q", link.Target)
		case site.LinkRelative, site.LinkAbsolute:
			target, ok := tree.Lookup(link.Path)
			if !ok {
				add(RuleDanglingLink, link.Line, "link %q resolves to %q, which does not exist", link.Target, link.Path)
				continue
			}
			if link.Fragment != "" && !target.HasAnchor(link.Fragment) {
				add(RuleDanglingFragment, link.Line, "link %q points at missing anchor #%s on %s", link.Target, link.Fragment, target.Path)
			}
			seen[target.Path] = append(seen[target.Path], link.Line)
		}
	}

	for target, lines := range seen {
		if len(lines) < 2 || target == page.Path {
			// Self links and anchors within the page are not duplicates.
			continue
		}
		sort.Ints(lines)
		add(RuleDuplicateTarget, lines[1], "target %q is listed %d times", target, len(lines))
	}

	if page.IsTOC() {
		for _, sec := range page.Sections {
			if sec.Level == 1 {
				// The page title heading is not a TOC section.
				continue
			}
			if len(sec.Links) == 0 {
				add(RuleEmptySection, sec.Line, "section %q has no links", sec.Heading)
			}
		}
	}

	return findings
}
