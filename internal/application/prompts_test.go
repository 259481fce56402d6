package application

import (
	"strings"
	"testing"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMergeTemplateFallsBackToBalanced(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MergeTemplate(domain.StyleBalanced), MergeTemplate(""))
	assert.True(t, strings.HasPrefix(MergeTemplate(domain.StyleCreative), "You are a creative synthesizer."))
}

func TestInitialPromptPrefixesFileContext(t *testing.T) {
	t.Parallel()

	cfg := domain.SessionConfig{
		Prompt: "Summarize",
		Files: []domain.Attachment{
			{Filename: "notes.txt", ContentType: "text/plain", ExtractedText: "  alpha  "},
			{Filename: "empty.txt", ContentType: "text/plain"},
			{Filename: "logo.png", ContentType: "image/png", Base64Data: "aW1n"},
			{Filename: "b.md", ContentType: "text/markdown", ExtractedText: "beta"},
		},
	}

	assert.Equal(t, "=== File: notes.txt ===\nalpha\n\n=== File: b.md ===\nbeta\n\nSummarize", InitialPrompt(cfg))
	assert.Equal(t, "Summarize", InitialPrompt(domain.SessionConfig{Prompt: "Summarize"}))

	image, ok := FirstImage(cfg.Files)
	assert.True(t, ok)
	assert.Equal(t, domain.Image{MediaType: "image/png", Base64Data: "aW1n"}, image)

	_, ok = FirstImage(cfg.Files[:2])
	assert.False(t, ok)
}

func TestFeedbackPromptReferencesPreviousIteration(t *testing.T) {
	t.Parallel()

	prompt := FeedbackPrompt("Write a haiku", 3, "old haiku")

	assert.Contains(t, prompt, "Original prompt: Write a haiku")
	assert.Contains(t, prompt, "Previous output (iteration 2):\nold haiku")
	assert.Contains(t, prompt, "constructive feedback")
}

func TestMergePrompt(t *testing.T) {
	t.Parallel()

	responses := []domain.CouncilResponse{{Provider: domain.ProviderOllama, MemberRole: "Skeptic", Content: "too long"}}

	tests := []struct {
		name    string
		in      MergeInput
		want    []string
		exclude []string
	}{
		{
			name: "first iteration synthesizes",
			in:   MergeInput{Iteration: 1, Prompt: "P", Style: domain.StyleAnalytical, Responses: responses},
			want: []string{
				"You are an analytical synthesizer.",
				"As the chair of this council, synthesize",
				"--- Response from Skeptic (ollama) ---\ntoo long",
			},
			exclude: []string{"ACTUAL IMPROVED VERSION"},
		},
		{
			name: "later iteration revises previous merge",
			in:   MergeInput{Iteration: 2, Prompt: "P", Previous: "draft one", Responses: responses},
			want: []string{
				"You are a balanced synthesizer.",
				"ACTUAL IMPROVED VERSION",
				"Previous version (iteration 1):\ndraft one",
				"--- Response from Skeptic (ollama) ---",
			},
		},
		{
			name: "later iteration without feedback",
			in:   MergeInput{Iteration: 3, Prompt: "P", Previous: "draft two"},
			want: []string{"No council feedback was received for this iteration."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MergePrompt(tt.in)
			for _, part := range tt.want {
				assert.Contains(t, got, part)
			}
			for _, part := range tt.exclude {
				assert.NotContains(t, got, part)
			}
		})
	}
}
