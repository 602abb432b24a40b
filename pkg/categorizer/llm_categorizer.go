package categorizer

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"promptpilot/internal/costtracker"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

// FallbackConfidence is reported when the classifier reply carries no usable number.
const FallbackConfidence = 0.7

// DefaultClassifierSystemPrompt instructs the model to answer "<category>,<confidence>".
const DefaultClassifierSystemPrompt = `You are an AI model classifier. Your task is to analyze prompts and classify them into categories. Respond with ONLY the category name and a confidence score between 0 and 1, separated by a comma. Example: "code,0.85"`

// DefaultClassifierPromptTemplate is the user message; {{PROMPT}} is replaced
// with the text being classified.
const DefaultClassifierPromptTemplate = `Analyze the following prompt and classify it into one of these categories:
- chat: General conversation, Q&A, or simple interactions
- code: Programming, code generation, debugging, or technical explanations
- reasoning: Complex problem-solving, logical analysis, or deep reasoning
- writing: Content creation, creative writing, or document drafting
- multimodal: Tasks involving images, audio, or other non-text media

Prompt to classify:
"{{PROMPT}}"

Respond with ONLY the category name and a confidence score between 0 and 1, separated by a comma.
Example: "code,0.85"`

const (
	classifierMaxTokens   = 20
	classifierTemperature = 0.3
)

// ChatCompletionCreator is the slice of the OpenAI client the classifier needs.
type ChatCompletionCreator interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// LLMCategorizer implements ContentCategorizer by asking a chat model.
type LLMCategorizer struct {
	client         ChatCompletionCreator
	model          string
	promptTemplate string

	costTracker costtracker.CostTracker
}

// NewLLMCategorizer creates a categorizer over an OpenAI-compatible client.
// An empty prompt selects DefaultClassifierPromptTemplate; costTracker may be nil.
func NewLLMCategorizer(client ChatCompletionCreator, model, prompt string, costTracker costtracker.CostTracker) *LLMCategorizer {
	if prompt == "" {
		prompt = DefaultClassifierPromptTemplate
	}
	return &LLMCategorizer{
		client:         client,
		model:          model,
		promptTemplate: prompt,
		costTracker:    costTracker,
	}
}

func (c *LLMCategorizer) Categorize(ctx context.Context, text string) (CategorizationResult, error) {
	if c.client == nil {
		return CategorizationResult{}, fmt.Errorf("LLM categorizer is not initialized with a completion client")
	}

	prompt := strings.ReplaceAll(c.promptTemplate, "{{PROMPT}}", text)

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: DefaultClassifierSystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			MaxTokens:   classifierMaxTokens,
			Temperature: classifierTemperature,
		},
	)
	if err != nil {
		return CategorizationResult{}, fmt.Errorf("classification completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return CategorizationResult{}, fmt.Errorf("no choices returned from classifier model %s", c.model)
	}

	category, confidence := ParseClassification(resp.Choices[0].Message.Content)
	log.Debugf("Classifier reply %q -> category=%s confidence=%.2f", resp.Choices[0].Message.Content, category, confidence)

	if c.costTracker != nil && resp.Usage.TotalTokens > 0 {
		event := costtracker.CostEvent{
			Operation:    "classification",
			Model:        c.model,
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		}
		if err := c.costTracker.RecordCost(ctx, event); err != nil {
			log.Errorf("Failed to record AI usage for classification: %v", err)
		}
	}

	return CategorizationResult{
		Category:   category,
		Confidence: confidence,
		Tokens:     resp.Usage.TotalTokens,
	}, nil
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseClassification reads a "<category>,<confidence>" reply. Unknown
// categories become DefaultCategory; a missing or non-numeric confidence
// becomes FallbackConfidence. Like a lenient float parse, only the numeric
// prefix of the confidence field is considered.
func ParseClassification(reply string) (Category, float64) {
	reply = strings.Trim(strings.TrimSpace(reply), "\"'`")

	rawCategory, rawConfidence, _ := strings.Cut(reply, ",")
	category, _ := ParseCategory(rawCategory)

	confidence := FallbackConfidence
	if num := leadingNumber.FindString(strings.TrimSpace(rawConfidence)); num != "" {
		if v, err := strconv.ParseFloat(num, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			confidence = v
		}
	}
	return category, confidence
}
