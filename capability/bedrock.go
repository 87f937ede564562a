package capability

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// DefaultBedrockModel is used when no model is configured.
const DefaultBedrockModel = "anthropic.claude-3-5-sonnet-20241022-v2:0"

// DefaultBedrockMaxTokens bounds a single Converse call's output.
const DefaultBedrockMaxTokens = 1024

// BedrockTextCompletion implements TextCompletion against the AWS Bedrock
// Converse API.
type BedrockTextCompletion struct {
	client      *bedrockruntime.Client
	model       string
	maxTokens   int
	temperature float32
	topP        float32
	region      string
	logger      *slog.Logger
}

// BedrockOption configures a BedrockTextCompletion.
type BedrockOption func(*BedrockTextCompletion)

func WithBedrockModel(model string) BedrockOption {
	return func(b *BedrockTextCompletion) { b.model = model }
}

func WithBedrockMaxTokens(maxTokens int) BedrockOption {
	return func(b *BedrockTextCompletion) { b.maxTokens = maxTokens }
}

func WithBedrockTemperature(temperature float32) BedrockOption {
	return func(b *BedrockTextCompletion) { b.temperature = temperature }
}

func WithBedrockRegion(region string) BedrockOption {
	return func(b *BedrockTextCompletion) { b.region = region }
}

// WithBedrockCredentials sets explicit AWS credentials instead of the
// environment's default chain.
func WithBedrockCredentials(accessKeyID, secretAccessKey, sessionToken string) BedrockOption {
	return func(b *BedrockTextCompletion) {
		cfg, err := config.LoadDefaultConfig(context.Background(),
			config.WithRegion(b.region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				accessKeyID,
				secretAccessKey,
				sessionToken,
			)),
		)
		if err == nil {
			b.client = bedrockruntime.NewFromConfig(cfg)
		}
	}
}

// WithBedrockClient injects a preconfigured client, for tests.
func WithBedrockClient(client *bedrockruntime.Client) BedrockOption {
	return func(b *BedrockTextCompletion) { b.client = client }
}

// NewBedrockTextCompletion creates a Bedrock-backed TextCompletion,
// resolving credentials and region from the environment unless overridden
// by options.
func NewBedrockTextCompletion(opts ...BedrockOption) *BedrockTextCompletion {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = os.Getenv("AWS_DEFAULT_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}

	b := &BedrockTextCompletion{
		model:       DefaultBedrockModel,
		maxTokens:   DefaultBedrockMaxTokens,
		temperature: 0.1,
		topP:        1.0,
		region:      region,
		logger:      slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.client == nil {
		cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(b.region))
		if err == nil {
			b.client = bedrockruntime.NewFromConfig(cfg)
		}
	}
	return b
}

func (b *BedrockTextCompletion) converse(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(b.model),
		Messages: []types.Message{
			{
				Role:    types.ConversationRoleUser,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: userPrompt}},
			},
		},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32(b.maxTokens)),
			Temperature: aws.Float32(b.temperature),
			TopP:        aws.Float32(b.topP),
		},
	}
	if systemPrompt != "" {
		input.System = []types.SystemContentBlock{&types.SystemContentBlockMemberText{Value: systemPrompt}}
	}

	resp, err := b.client.Converse(ctx, input)
	if err != nil {
		b.logger.Error("converse failed", "error", err)
		return "", fmt.Errorf("bedrock converse failed: %w", err)
	}
	return extractBedrockText(resp), nil
}

func (b *BedrockTextCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	b.logger.Info("complete called", "model", b.model, "prompt_len", len(prompt))
	return b.converse(ctx, "", prompt)
}

func (b *BedrockTextCompletion) AnalyzeStructure(ctx context.Context, content string) (StructureAnalysisResult, error) {
	raw, err := b.converse(ctx, "Respond with JSON only.",
		fmt.Sprintf("List the headings and top-level sections in this document as JSON {\"headings\":[...], \"sections\":{...}}:\n\n%s", content))
	if err != nil {
		return StructureAnalysisResult{}, err
	}
	return StructureAnalysisResult{Headings: splitLines(raw), Confidence: 0.6}, nil
}

func (b *BedrockTextCompletion) Summarize(ctx context.Context, content string) (ContentSummary, error) {
	raw, err := b.converse(ctx, "", fmt.Sprintf("Summarize in two sentences:\n\n%s", content))
	if err != nil {
		return ContentSummary{}, err
	}
	return ContentSummary{Summary: strings.TrimSpace(raw), Confidence: 0.6}, nil
}

func (b *BedrockTextCompletion) ExtractMetadata(ctx context.Context, content string) (MetadataExtractionResult, error) {
	raw, err := b.converse(ctx, "", fmt.Sprintf("State the document title in one line:\n\n%s", content))
	if err != nil {
		return MetadataExtractionResult{}, err
	}
	return MetadataExtractionResult{Title: strings.TrimSpace(raw), Confidence: 0.5}, nil
}

func (b *BedrockTextCompletion) AssessQuality(ctx context.Context, chunkText, contextHeader string) (QualityAssessment, error) {
	raw, err := b.converse(ctx, "",
		fmt.Sprintf("Header: %s\n\nChunk:\n%s\n\nIs this chunk useful standalone? Answer yes or no and why.", contextHeader, chunkText))
	if err != nil {
		return QualityAssessment{}, err
	}
	keep := strings.HasPrefix(strings.ToLower(strings.TrimSpace(raw)), "yes")
	score := 0.3
	if keep {
		score = 0.7
	}
	return QualityAssessment{Keep: keep, Score: score, Reason: raw, Confidence: 0.5}, nil
}

func extractBedrockText(resp *bedrockruntime.ConverseOutput) string {
	if resp == nil || resp.Output == nil {
		return ""
	}
	msgOutput, ok := resp.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return ""
	}
	var parts []string
	for _, block := range msgOutput.Value.Content {
		if textBlock, ok := block.(*types.ContentBlockMemberText); ok {
			parts = append(parts, textBlock.Value)
		}
	}
	return strings.Join(parts, "")
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
