package vo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocumentJSON(t *testing.T) {
	doc := Document{
		DocumentSummary: DocumentSummary{
			Path: "Coding/Debugging",
			ContentSummary: ContentSummary{
				Title:       "Debugging",
				Description: "Finding out why your code does not do what you meant.",
				Keywords:    []string{"debugging", "tracebacks"},
			},
		},
		Markdown: "# Debugging\n\nUse the interactive shell and the log files.",
		Breadcrumb: []DocumentSummary{
			{Path: "index", ContentSummary: ContentSummary{Title: "Documentation"}},
			{Path: "Coding/index", ContentSummary: ContentSummary{Title: "Coding"}},
		},
		NextSiblings: []DocumentSummary{
			{Path: "Coding/Flat-API", ContentSummary: ContentSummary{Title: "The flat API"}},
		},
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	require.Contains(t, string(data), `"path":"Coding/Debugging"`)
	require.Contains(t, string(data), `"breadcrumb"`)
	require.Contains(t, string(data), `"next"`)
	require.NotContains(t, string(data), `"prev"`)

	var roundtrip Document
	require.NoError(t, json.Unmarshal(data, &roundtrip))
	require.Equal(t, doc.DocumentSummary, roundtrip.DocumentSummary)
}
