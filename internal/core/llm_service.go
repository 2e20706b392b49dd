package core

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"gwi.com/answer-bubbles/internal/config"
	"gwi.com/answer-bubbles/internal/utils"
)

const (
	BackendHTTP  = "http"
	BackendGenAI = "genai"

	defaultChatModelName = "gemini-1.5-flash-latest"
	noDetails            = "No details"

	// Error bodies are only kept for logging.
	maxErrorBodyBytes = 4 << 10
)

// Generator sends one question to the text-generation endpoint and returns
// the raw reply text.
type Generator interface {
	Generate(ctx context.Context, question string) (string, error)
}

// NewGenerator builds the Generator selected by cfg.LLMBackend. The returned
// close func releases any client resources.
func NewGenerator(ctx context.Context, cfg config.Config) (Generator, func(), error) {
	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	switch strings.ToLower(cfg.LLMBackend) {
	case "", BackendHTTP:
		gen := NewHTTPGenerator(cfg.GenerateURL, cfg.GeminiAPIKey, &http.Client{Timeout: timeout})
		return gen, func() {}, nil
	case BackendGenAI:
		gen, err := NewGenAIGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return gen, gen.Close, nil
	default:
		return nil, nil, errors.Errorf("unknown llm backend %q", cfg.LLMBackend)
	}
}

type generateRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text string `json:"text"`
}

// HTTPGenerator talks to a generateContent-style endpoint over plain JSON.
type HTTPGenerator struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewHTTPGenerator(endpoint, apiKey string, client *http.Client) *HTTPGenerator {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPGenerator{endpoint: endpoint, apiKey: apiKey, client: client}
}

func (g *HTTPGenerator) Generate(ctx context.Context, question string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []requestContent{{Parts: []requestPart{{Text: question}}}},
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to encode request")
	}

	endpoint, err := g.requestURL()
	if err != nil {
		return "", &TransportError{Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	// Any non-2xx status is a failure, whatever the body looks like.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		text := string(body)
		if readErr != nil {
			text = noDetails
		}
		return "", &ServerError{StatusCode: resp.StatusCode, Body: text}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: errors.Wrap(err, "failed to read response body")}
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", &DecodeError{Err: err}
	}
	// Missing fields at any level mean an empty reply, not a failure.
	return utils.DigString(doc, "candidates", 0, "content", "parts", 0, "text"), nil
}

func (g *HTTPGenerator) requestURL() (string, error) {
	if g.apiKey == "" {
		return g.endpoint, nil
	}
	u, err := url.Parse(g.endpoint)
	if err != nil {
		return "", errors.Wrap(err, "invalid generate url")
	}
	q := u.Query()
	if q.Get("key") == "" {
		q.Set("key", g.apiKey)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// GenAIGenerator uses the Gemini Go SDK.
type GenAIGenerator struct {
	client    *genai.Client
	modelName string
}

func NewGenAIGenerator(ctx context.Context, apiKey, modelName string) (*GenAIGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("genai backend requires an API key")
	}
	if modelName == "" {
		modelName = defaultChatModelName
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create GenAI client")
	}
	return &GenAIGenerator{client: client, modelName: modelName}, nil
}

func (g *GenAIGenerator) Close() {
	if g.client != nil {
		if err := g.client.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing GenAI client")
		} else {
			log.Debug().Msg("GenAI client closed")
		}
	}
}

func (g *GenAIGenerator) Generate(ctx context.Context, question string) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	resp, err := model.GenerateContent(ctx, genai.Text(question))
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			body := apiErr.Body
			if body == "" {
				body = apiErr.Message
			}
			if body == "" {
				body = noDetails
			}
			return "", &ServerError{StatusCode: apiErr.Code, Body: body}
		}
		return "", &TransportError{Err: err}
	}
	return firstText(resp), nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	if txt, ok := resp.Candidates[0].Content.Parts[0].(genai.Text); ok {
		return string(txt)
	}
	log.Debug().Msgf("Gemini response part was not text: %T", resp.Candidates[0].Content.Parts[0])
	return ""
}
