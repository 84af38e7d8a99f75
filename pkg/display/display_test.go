package display_test

import (
	"bytes"
	"testing"

	"github.com/soundprediction/go-askagent/pkg/display"
	"github.com/soundprediction/go-askagent/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinterView(t *testing.T) {
	var buf bytes.Buffer
	p := display.NewPrinter(&buf, false)

	require.NoError(t, p.View(types.RenderedView{
		Kind:    types.ViewAnswer,
		Answer:  "Paris",
		Context: "France facts",
		Score:   "87.00%",
	}))

	assert.Equal(t, "Answer:\nParis\n\nContext used: France facts\nSimilarity: 87.00%\n", buf.String())
}

func TestPrinterErrorView(t *testing.T) {
	tests := []struct {
		name  string
		color bool
		want  string
	}{
		{name: "plain", color: false, want: "Error: 500: request failed\n"},
		{name: "colored", color: true, want: "\033[31mError: 500: request failed\033[0m\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := display.NewPrinter(&buf, tt.color)
			require.NoError(t, p.View(types.RenderedView{Kind: types.ViewError, Error: "500: request failed"}))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrinterQuestions(t *testing.T) {
	var buf bytes.Buffer
	p := display.NewPrinter(&buf, false)

	require.NoError(t, p.Questions(nil))
	assert.Equal(t, "No pending questions!\n", buf.String())

	buf.Reset()
	require.NoError(t, p.Questions([]types.UnansweredQuestion{{ID: 1, Text: "Where?"}, {ID: 12, Text: "Who?"}}))
	assert.Equal(t, "[1] Where?\n[12] Who?\n", buf.String())
}

func TestPrinterPromptAndLine(t *testing.T) {
	var buf bytes.Buffer
	p := display.NewPrinter(&buf, true)

	require.NoError(t, p.Prompt("> "))
	require.NoError(t, p.Line("Question %d deleted!", 3))
	assert.Equal(t, "> Question 3 deleted!\n", buf.String())
}
