package application

import (
	"fmt"
	"strings"

	"github.com/bnema/llm-council/internal/domain"
)

var mergeTemplates = map[domain.SynthesisStyle]string{
	domain.StyleAnalytical: `You are an analytical synthesizer. Your task is to merge multiple AI responses into a single, cohesive answer.

Focus on:
- Logical synthesis of key points
- Evidence-based consolidation
- Clear reasoning and structure
- Identifying common themes and unique insights
- Maintaining factual accuracy

Create a well-structured response that represents the best thinking from all sources.`,
	domain.StyleCreative: `You are a creative synthesizer. Your task is to merge multiple AI responses into a single, innovative answer.

Focus on:
- Novel combinations of ideas
- Expansive and exploratory thinking
- Synthesizing unique perspectives
- Building on creative insights
- Encouraging bold connections

Create an imaginative response that expands beyond individual contributions.`,
	domain.StyleTechnical: `You are a technical synthesizer. Your task is to merge multiple AI responses into a single, accurate answer.

Focus on:
- Technical precision and correctness
- Detailed accuracy
- Clear technical explanations
- Verification of claims
- Consistent terminology

Create a technically sound response that maintains high standards of accuracy.`,
	domain.StyleBalanced: `You are a balanced synthesizer. Your task is to merge multiple AI responses into a single, well-rounded answer.

Focus on:
- Integrating diverse perspectives
- Balanced representation of ideas
- Clear and accessible language
- Practical applicability
- Thoughtful synthesis

Create a comprehensive response that reflects the collective wisdom of all sources.`,
}

func MergeTemplate(style domain.SynthesisStyle) string {
	return mergeTemplates[style.OrDefault()]
}

// FileContext flattens extracted attachment text into labelled blocks.
func FileContext(files []domain.Attachment) string {
	blocks := make([]string, 0, len(files))
	for _, file := range files {
		text := strings.TrimSpace(file.ExtractedText)
		if text == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("=== File: %s ===\n%s", file.Filename, text))
	}
	return strings.Join(blocks, "\n\n")
}

// FirstImage returns the image forwarded to vision-capable members.
func FirstImage(files []domain.Attachment) (domain.Image, bool) {
	for _, file := range files {
		if file.IsImage() {
			return domain.Image{MediaType: file.ContentType, Base64Data: file.Base64Data}, true
		}
	}
	return domain.Image{}, false
}

func InitialPrompt(cfg domain.SessionConfig) string {
	if fileContext := FileContext(cfg.Files); fileContext != "" {
		return fileContext + "\n\n" + cfg.Prompt
	}
	return cfg.Prompt
}

func FeedbackPrompt(prompt string, iteration int, previous string) string {
	return fmt.Sprintf(`Original prompt: %s

Previous output (iteration %d):
%s

Please provide constructive feedback on this output. What could be improved? What's working well? What's missing?`,
		prompt, iteration-1, previous)
}

func MergePrompt(in MergeInput) string {
	blocks := make([]string, 0, len(in.Responses))
	for _, resp := range in.Responses {
		blocks = append(blocks, fmt.Sprintf("--- Response from %s (%s) ---\n%s", resp.MemberRole, resp.Provider, resp.Content))
	}
	responses := strings.Join(blocks, "\n\n")

	var body string
	if in.Iteration <= 1 || in.Previous == "" {
		body = fmt.Sprintf(`As the chair of this council, synthesize these council member responses into a single, concrete deliverable.

Original prompt: %s

Council responses:
%s

Your task:
- If the original prompt contains content to be improved or revised, create an IMPROVED VERSION of that specific content based on the council's feedback and suggestions.
- If the prompt is an instruction or question without existing content, create the actual output requested (new content, answer, or analysis).

This should be a complete, ready-to-use result that incorporates the collective wisdom of the council, not a summary of their opinions.`,
			in.Prompt, responses)
	} else {
		if responses == "" {
			responses = "No council feedback was received for this iteration."
		}
		body = fmt.Sprintf(`As the chair, you must now produce the ACTUAL IMPROVED VERSION of the deliverable, incorporating the council's feedback.

Original prompt: %s

Previous version (iteration %d):
%s

Council feedback:
%s

CRITICAL INSTRUCTIONS:
- DO NOT provide commentary, analysis, or suggestions
- DO NOT explain what changes you're making
- PRODUCE THE ACTUAL IMPROVED DELIVERABLE that directly fulfills the original prompt
- If it's an essay, write the full improved essay
- If it's code, write the full improved code

Begin your response with the actual deliverable content immediately.`,
			in.Prompt, in.Iteration-1, in.Previous, responses)
	}

	return MergeTemplate(in.Style) + "\n\n" + body
}
