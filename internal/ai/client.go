// Package ai adapts the external LLM appraisal service. The rest of the
// system treats it as a black box that either returns a complete estimate or
// fails; fallback construction belongs to the caller.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sirupsen/logrus"

	"evdeger/server/internal/models"
)

const (
	maxOutputTokens = 2048
	temperature     = 0.2
)

// MessageSender is the minimal completion surface the estimator needs.
// Wrapping the SDK behind it keeps the estimator testable without network
// access.
type MessageSender interface {
	CreateMessage(ctx context.Context, model, prompt string) (string, error)
}

// sdkSender implements MessageSender over the official SDK.
type sdkSender struct {
	client sdk.Client
}

func newSDKSender(apiKey string) *sdkSender {
	return &sdkSender{
		client: sdk.NewClient(option.WithAPIKey(apiKey)),
	}
}

func (s *sdkSender) CreateMessage(ctx context.Context, model, prompt string) (string, error) {
	msg, err := s.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(model),
		MaxTokens:   maxOutputTokens,
		Temperature: sdk.Float(temperature),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("create message: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// Estimator calls the LLM service with an ordered model list, stopping at
// the first model that answers. All attempts exhausted means failure, never
// a hang: the per-call timeout bounds the whole sequence.
type Estimator struct {
	sender     MessageSender
	modelNames []string
	timeout    time.Duration
	logger     *logrus.Logger
}

// NewEstimator builds an estimator backed by the real SDK.
func NewEstimator(apiKey string, modelNames []string, timeout time.Duration, logger *logrus.Logger) *Estimator {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Estimator{
		sender:     newSDKSender(apiKey),
		modelNames: modelNames,
		timeout:    timeout,
		logger:     logger,
	}
}

// EstimatePrice asks the LLM to appraise the target given its most similar
// comparables. Transport failures, exhausted models, and malformed or
// incomplete payloads all surface as errors.
func (e *Estimator) EstimatePrice(ctx context.Context, req models.ValuationRequest, comparables []models.Listing) (*models.AIEstimate, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	text, err := e.generate(ctx, buildPrompt(req, comparables))
	if err != nil {
		return nil, err
	}

	estimate, err := parseEstimate(text)
	if err != nil {
		e.logger.WithError(err).WithField("response", text).Warn("AI response rejected")
		return nil, err
	}
	return estimate, nil
}

// generate walks the model list sequentially and returns the first
// successful completion.
func (e *Estimator) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for _, model := range e.modelNames {
		text, err := e.sender.CreateMessage(ctx, model, prompt)
		if err == nil {
			return text, nil
		}
		e.logger.WithError(err).WithField("model", model).Warn("Model attempt failed")
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no models configured")
	}
	return "", fmt.Errorf("all models failed: %w", lastErr)
}

// parseEstimate cleans code fences off the response and decodes the JSON
// payload. An estimate with missing or out-of-range sub-fields is treated
// the same as a transport failure.
func parseEstimate(text string) (*models.AIEstimate, error) {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	// Tolerate prose around the object by cutting to the outermost braces.
	if start := strings.Index(cleaned, "{"); start >= 0 {
		if end := strings.LastIndex(cleaned, "}"); end > start {
			cleaned = cleaned[start : end+1]
		}
	}

	var estimate models.AIEstimate
	if err := json.Unmarshal([]byte(cleaned), &estimate); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}

	if estimate.EstimatedPrice <= 0 {
		return nil, fmt.Errorf("missing or non-positive estimatedPrice")
	}
	if estimate.PriceRange.Min <= 0 || estimate.PriceRange.Max < estimate.PriceRange.Min {
		return nil, fmt.Errorf("missing or inverted priceRange")
	}
	if estimate.ConfidenceLevel < 0 || estimate.ConfidenceLevel > 100 {
		return nil, fmt.Errorf("confidenceLevel %d outside [0,100]", estimate.ConfidenceLevel)
	}
	return &estimate, nil
}
