package ai

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"

	"github.com/amityadav/stratreport/internal/apperr"
	"github.com/amityadav/stratreport/internal/logger"
	openai "github.com/sashabaranov/go-openai"
)

// ErrNoChoices is wrapped when a completion response carries no choices.
var ErrNoChoices = errors.New("completion response has no choices")

// BaseProvider implements Provider for Azure OpenAI and OpenAI-compatible APIs
type BaseProvider struct {
	config ProviderConfig
	client *openai.Client
}

// NewBaseProvider creates a new base provider. hc may be nil.
func NewBaseProvider(config ProviderConfig, hc *http.Client) *BaseProvider {
	var cc openai.ClientConfig
	if config.Azure {
		cc = openai.DefaultAzureConfig(config.APIKey, config.BaseURL)
		if config.APIVersion != "" {
			cc.APIVersion = config.APIVersion
		}
	} else {
		cc = openai.DefaultConfig(config.APIKey)
		if config.BaseURL != "" {
			cc.BaseURL = config.BaseURL
		}
	}
	if hc != nil {
		cc.HTTPClient = hc
	}
	return &BaseProvider{
		config: config,
		client: openai.NewClientWithConfig(cc),
	}
}

func (p *BaseProvider) Name() string {
	return p.config.Name
}

// Complete issues a single chat-completion request. It does not retry.
func (p *BaseProvider) Complete(ctx context.Context, system, user string) (string, error) {
	logger.Log.Infof("[%s.Complete] Sending request (model=%s, prompt=%d chars)", p.config.Name, p.config.Model, len(user))

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		cerr := p.classify(err)
		logger.Log.Errorf("[%s.Complete] Request failed: %v", p.config.Name, cerr)
		return "", cerr
	}

	if len(resp.Choices) == 0 {
		return "", apperr.New(p.config.Name, apperr.KindMalformed, http.StatusOK, ErrNoChoices)
	}

	content := resp.Choices[0].Message.Content
	logger.Log.Infof("[%s.Complete] Received %d chars (finish_reason=%s)", p.config.Name, len(content), resp.Choices[0].FinishReason)
	return content, nil
}

func (p *BaseProvider) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apperr.New(p.config.Name, apperr.KindForStatus(apiErr.HTTPStatusCode), apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return apperr.New(p.config.Name, apperr.KindForStatus(reqErr.HTTPStatusCode), reqErr.HTTPStatusCode, err)
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperr.New(p.config.Name, apperr.KindNetwork, 0, err)
	}

	// Anything else comes from decoding a 2xx body.
	return apperr.New(p.config.Name, apperr.KindMalformed, http.StatusOK, err)
}
