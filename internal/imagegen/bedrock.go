package imagegen

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"
)

// MaxPromptLen is Titan's limit, in runes, on textToImageParams.text and
// negativeText. Longer prompts are cut.
const MaxPromptLen = 512

// ModelInvoker is the subset of the Bedrock runtime client Bedrock needs.
type ModelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Bedrock generates images with an Amazon Titan image model.
type Bedrock struct {
	client  ModelInvoker
	modelID string
	logger  *zap.Logger
}

// NewBedrock returns a Bedrock generator for modelID,
// e.g. "amazon.titan-image-generator-v2:0".
func NewBedrock(client ModelInvoker, modelID string, logger *zap.Logger) *Bedrock {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bedrock{client: client, modelID: modelID, logger: logger}
}

type titanRequest struct {
	TaskType              string                `json:"taskType"`
	TextToImageParams     titanTextToImage      `json:"textToImageParams"`
	ImageGenerationConfig titanGenerationConfig `json:"imageGenerationConfig"`
}

type titanTextToImage struct {
	Text         string `json:"text"`
	NegativeText string `json:"negativeText,omitempty"`
}

type titanGenerationConfig struct {
	NumberOfImages int     `json:"numberOfImages"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	CFGScale       float64 `json:"cfgScale"`
	Seed           int64   `json:"seed"`
}

type titanResponse struct {
	Images []string `json:"images"`
	Error  *string  `json:"error"`
}

// Generate invokes the model once and decodes the first returned image.
func (b *Bedrock) Generate(ctx context.Context, req Request) ([]byte, error) {
	if n := utf8.RuneCountInString(req.Prompt); n > MaxPromptLen {
		b.logger.Warn("prompt cut to model limit", zap.Int("runes", n), zap.Int("limit", MaxPromptLen))
	}
	body, err := json.Marshal(titanRequest{
		TaskType: "TEXT_IMAGE",
		TextToImageParams: titanTextToImage{
			Text:         truncate(req.Prompt, MaxPromptLen),
			NegativeText: truncate(req.NegativePrompt, MaxPromptLen),
		},
		ImageGenerationConfig: titanGenerationConfig{
			NumberOfImages: 1,
			Width:          req.Width,
			Height:         req.Height,
			CFGScale:       req.CFGScale,
			Seed:           req.Seed,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode titan request: %w", err)
	}

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("invoke model %s: %w", b.modelID, err)
	}

	var resp titanResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, fmt.Errorf("decode titan response: %w", err)
	}
	if resp.Error != nil && *resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrNoImage, *resp.Error)
	}
	if len(resp.Images) == 0 || resp.Images[0] == "" {
		return nil, ErrNoImage
	}

	img, err := base64.StdEncoding.DecodeString(resp.Images[0])
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}

	b.logger.Debug("image generated",
		zap.String("model", b.modelID),
		zap.Int64("seed", req.Seed),
		zap.Int("bytes", len(img)),
	)
	return img, nil
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
