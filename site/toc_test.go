package site

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestBuildTOC(t *testing.T) {
	tree, err := Load(filepath.Join("testdata", "docs"))
	require.NoError(t, err)

	page, err := tree.Page("Coding/index")
	require.NoError(t, err)

	toc := BuildTOC(tree, page)
	require.Equal(t, "Coding/index", toc.Page)
	require.Equal(t, "Coding", toc.Title)

	want := []TOCSection{
		{
			Heading: "Setting up a workflow",
			Entries: []TOCEntry{
				{Title: "Overview of the game directory", Target: "../Howto/Starting/Part1/Gamedir-Overview", Path: "Howto/Starting/Part1/Gamedir-Overview"},
				{Title: "Quirks to be aware of", Target: "./Quirks", Path: "Coding/Quirks"},
				{Title: "Setting up PyCharm", Target: "./Setting-up-PyCharm", Path: "Coding/Setting-up-PyCharm"},
				{Title: "Version control", Target: "./Version-Control", Path: "Coding/Version-Control"},
				{Title: "Keeping your game up to date", Target: "./Updating-Your-Game", Path: "Coding/Updating-Your-Game"},
			},
		},
		{
			Heading: "Writing and debugging code",
			Entries: []TOCEntry{
				{Title: "Introduction to coding", Target: "./Coding-Introduction", Path: "Coding/Coding-Introduction"},
				{Title: "Debugging", Target: "./Debugging", Path: "Coding/Debugging"},
				{Title: "Unit testing", Target: "./Unit-Testing", Path: "Coding/Unit-Testing"},
				{Title: "The flat API", Target: "./Flat-API", Path: "Coding/Flat-API"},
			},
		},
		{
			Heading: "Testing infrastructure",
			Entries: []TOCEntry{
				{Title: "Continuous integration", Target: "./Continuous-Integration", Path: "Coding/Continuous-Integration"},
				{Title: "Using Travis", Target: "./Using-Travis", Path: "Coding/Using-Travis"},
				{Title: "Profiling", Target: "./Profiling", Path: "Coding/Profiling"},
			},
		},
	}
	if diff := cmp.Diff(want, toc.Sections); diff != "" {
		t.Fatalf("TOC mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTOCTitleFromTarget(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.md", "# Index\n\n## Pages\n\n- [](./Named)\n")
	writeFile(t, dir, "Named.md", "---\ntitle: A Named Page\n---\n\n# A Named Page\n")

	tree, err := Load(dir)
	require.NoError(t, err)
	page, err := tree.Page("index")
	require.NoError(t, err)

	toc := BuildTOC(tree, page)
	require.Len(t, toc.Sections, 1)
	require.Len(t, toc.Sections[0].Entries, 1)
	require.Equal(t, "A Named Page", toc.Sections[0].Entries[0].Title)
}
