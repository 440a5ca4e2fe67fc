package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const (
	defaultBedrockModel  = "anthropic.claude-3-5-sonnet-20241022-v2:0"
	defaultBedrockRegion = "us-east-1"
	anthropicVersion     = "bedrock-2023-05-31"
)

// BedrockConfig holds the credentials and model selection for the
// Bedrock runtime.
type BedrockConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	ModelID         string
}

// Bedrock generates completions through an Anthropic model hosted on
// the AWS Bedrock runtime.
type Bedrock struct {
	client  *bedrockruntime.Client
	modelID string
	logger  *slog.Logger
}

// NewBedrock fails fast when the static credentials are absent.
func NewBedrock(ctx context.Context, cfg BedrockConfig, logger *slog.Logger) (*Bedrock, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("AWS credentials are required")
	}
	if cfg.Region == "" {
		cfg.Region = defaultBedrockRegion
	}
	if cfg.ModelID == "" {
		cfg.ModelID = defaultBedrockModel
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &Bedrock{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		modelID: cfg.ModelID,
		logger:  logger,
	}, nil
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicPayload struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	Temperature      float64            `json:"temperature"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (b *Bedrock) GenerateInsights(ctx context.Context, query string, queryContext QueryContext) (string, error) {
	prompt, err := BuildPrompt(query, queryContext)
	if err != nil {
		return "", err
	}

	payload := anthropicPayload{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        4096,
		Temperature:      0.1,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling request payload: %w", err)
	}

	b.logger.Debug("invoking bedrock", "model", b.modelID, "prompt_len", len(prompt))

	output, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("invoking model: %w", err)
	}

	var response anthropicResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return "", fmt.Errorf("parsing model response: %w", err)
	}
	if len(response.Content) == 0 || response.Content[0].Text == "" {
		return "", errors.New("invalid response format from bedrock")
	}

	b.logger.Debug("bedrock response", "model", b.modelID, "response_len", len(response.Content[0].Text))
	return response.Content[0].Text, nil
}
