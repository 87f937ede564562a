package capability

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAITextCompletion implements TextCompletion against the OpenAI chat
// completions API.
type OpenAITextCompletion struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAITextCompletion builds an OpenAITextCompletion. baseURL and model
// may be empty to fall back to the OPENAI_URL env var and GPT-4o-mini
// respectively; apiKey falls back to OPENAI_API_KEY.
func NewOpenAITextCompletion(baseURL, model, apiKey string) *OpenAITextCompletion {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if baseURL == "" {
		baseURL = os.Getenv("OPENAI_URL")
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAITextCompletion{
		client: openai.NewClientWithConfig(config),
		model:  model,
		logger: slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}
}

// NewOpenAITextCompletionWithClient injects a preconfigured client, for tests.
func NewOpenAITextCompletionWithClient(client *openai.Client, model string) *OpenAITextCompletion {
	return &OpenAITextCompletion{client: client, model: model, logger: slog.New(slog.NewJSONHandler(os.Stdout, nil))}
}

func (o *OpenAITextCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	o.logger.Info("complete called", "model", o.model, "prompt_len", len(prompt))

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		o.logger.Error("complete failed", "error", err)
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAITextCompletion) AnalyzeStructure(ctx context.Context, content string) (StructureAnalysisResult, error) {
	prompt := fmt.Sprintf("List the headings and top-level section boundaries in this document as a JSON object with keys \"headings\" (array of strings) and \"sections\" (object mapping heading to a one-line description):\n\n%s", content)
	raw, err := o.Complete(ctx, prompt)
	if err != nil {
		return StructureAnalysisResult{}, err
	}
	var parsed struct {
		Headings []string          `json:"headings"`
		Sections map[string]string `json:"sections"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return StructureAnalysisResult{Confidence: 0.2}, nil
	}
	return StructureAnalysisResult{Headings: parsed.Headings, SectionMap: parsed.Sections, Confidence: 0.8}, nil
}

func (o *OpenAITextCompletion) Summarize(ctx context.Context, content string) (ContentSummary, error) {
	prompt := fmt.Sprintf("Summarize the following content in two sentences, then list up to three key points as a JSON object with keys \"summary\" and \"key_points\":\n\n%s", content)
	raw, err := o.Complete(ctx, prompt)
	if err != nil {
		return ContentSummary{}, err
	}
	var parsed struct {
		Summary   string   `json:"summary"`
		KeyPoints []string `json:"key_points"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return ContentSummary{Summary: strings.TrimSpace(raw), Confidence: 0.3}, nil
	}
	return ContentSummary{Summary: parsed.Summary, KeyPoints: parsed.KeyPoints, Confidence: 0.8}, nil
}

func (o *OpenAITextCompletion) ExtractMetadata(ctx context.Context, content string) (MetadataExtractionResult, error) {
	prompt := fmt.Sprintf("Extract document metadata as a JSON object with keys \"title\", \"author\", \"topics\" (array), \"language\":\n\n%s", content)
	raw, err := o.Complete(ctx, prompt)
	if err != nil {
		return MetadataExtractionResult{}, err
	}
	var parsed struct {
		Title    string   `json:"title"`
		Author   string   `json:"author"`
		Topics   []string `json:"topics"`
		Language string   `json:"language"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return MetadataExtractionResult{Confidence: 0.2}, nil
	}
	return MetadataExtractionResult{
		Title: parsed.Title, Author: parsed.Author, Topics: parsed.Topics,
		Language: parsed.Language, Confidence: 0.8,
	}, nil
}

func (o *OpenAITextCompletion) AssessQuality(ctx context.Context, chunkText, contextHeader string) (QualityAssessment, error) {
	prompt := fmt.Sprintf(
		"Header: %s\n\nChunk:\n%s\n\nDoes this chunk carry enough standalone meaning to be useful in isolation? Respond as JSON with keys \"keep\" (bool), \"score\" (0-1 float), \"reason\" (string).",
		contextHeader, chunkText,
	)
	raw, err := o.Complete(ctx, prompt)
	if err != nil {
		return QualityAssessment{}, err
	}
	var parsed struct {
		Keep   bool    `json:"keep"`
		Score  float64 `json:"score"`
		Reason string  `json:"reason"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return QualityAssessment{Keep: true, Score: 0.5, Reason: "unparseable quality response", Confidence: 0.1}, nil
	}
	return QualityAssessment{Keep: parsed.Keep, Score: parsed.Score, Reason: parsed.Reason, Confidence: 0.8}, nil
}

// extractJSON trims leading/trailing prose around a JSON object that a chat
// model sometimes wraps in markdown fences or commentary.
func extractJSON(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < 0 || end < start {
		return "{}"
	}
	return s[start : end+1]
}
