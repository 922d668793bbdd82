// Package llm is a thin completion client for the keyword generator.
// It speaks OpenAI (the journal's default model is gpt-5-mini),
// Anthropic, and local OpenAI-compatible servers.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/emarron/quaderno/internal/output"
)

// Provider identifies a completion backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderLocal     Provider = "local"
)

// Request is a completion request.
type Request struct {
	System      string  // system prompt
	Prompt      string  // user prompt
	Temperature float64 // 0 uses the provider default
	MaxTokens   int     // 0 uses the provider default
}

// Response is a completion response.
type Response struct {
	Content string
	Model   string
}

// HTTPDoer is the HTTP surface the client needs; tests inject doubles.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is a provider-agnostic completion client.
type Client struct {
	provider   Provider
	model      string
	apiKey     string
	httpClient HTTPDoer
}

// New creates a client for the configured model (the `model:` setting
// in quaderno.yml). With an empty provider, it is inferred from the
// model name; shorthand aliases like "mini" expand to full names.
func New(model string, provider Provider) (*Client, error) {
	if provider == "" {
		provider = inferProvider(model)
	}
	model = resolveModelAlias(model, provider)

	apiKey, err := getAPIKey(provider)
	if err != nil {
		return nil, err
	}

	return &Client{
		provider: provider,
		model:    model,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}, nil
}

// Complete generates a completion for the given request.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	switch c.provider {
	case ProviderOpenAI:
		return c.completeOpenAI(ctx, req)
	case ProviderAnthropic:
		return c.completeAnthropic(ctx, req)
	case ProviderLocal:
		return c.completeLocal(ctx, req)
	default:
		return nil, output.NewUserError(fmt.Sprintf("proveedor no soportado: %s", c.provider))
	}
}

// providerPatterns map model-name substrings to providers; first match
// wins. Anything unrecognized falls back to OpenAI, the journal's
// historical provider.
var providerPatterns = []struct {
	substring string
	provider  Provider
}{
	{"claude", ProviderAnthropic},
	{"haiku", ProviderAnthropic},
	{"sonnet", ProviderAnthropic},
	{"opus", ProviderAnthropic},
	{"gpt", ProviderOpenAI},
	{"mini", ProviderOpenAI},
	{"nano", ProviderOpenAI},
	{"local", ProviderLocal},
	{"qwen", ProviderLocal},
	{"llama", ProviderLocal},
}

func inferProvider(model string) Provider {
	modelLower := strings.ToLower(model)
	for _, p := range providerPatterns {
		if strings.Contains(modelLower, p.substring) {
			return p.provider
		}
	}
	return ProviderOpenAI
}

// modelAliases are shorthands for quaderno.yml; full names pass through.
var modelAliases = map[Provider]map[string]string{
	ProviderOpenAI: {
		"mini": "gpt-5-mini",
		"nano": "gpt-5-nano",
	},
	ProviderAnthropic: {
		"haiku":  "claude-haiku-4-5",
		"sonnet": "claude-sonnet-4-5",
	},
	ProviderLocal: {
		"local": "default",
	},
}

func resolveModelAlias(model string, provider Provider) string {
	if aliases, ok := modelAliases[provider]; ok {
		if resolved, ok := aliases[strings.ToLower(model)]; ok {
			return resolved
		}
	}
	return model
}

var envVarForProvider = map[Provider]string{
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
	ProviderLocal:     "", // no key needed
}

func getAPIKey(provider Provider) (string, error) {
	envVar, ok := envVarForProvider[provider]
	if !ok {
		return "", output.NewUserError(fmt.Sprintf("proveedor no soportado: %s", provider))
	}
	if envVar == "" {
		return "not-needed", nil
	}

	key := os.Getenv(envVar)
	if key == "" {
		return "", output.NewUserError("falta la variable de entorno " + envVar + " (defínela en .env)")
	}
	return key, nil
}

// localServerURL points at the local completion server.
// Defaults to the LM Studio port.
func localServerURL() string {
	if url := os.Getenv("LOCAL_LLM_URL"); url != "" {
		return url
	}
	return "http://localhost:1234/v1"
}

// doRequest performs an HTTP POST with a JSON body.
func (c *Client) doRequest(ctx context.Context, url string, body any, headers map[string]string) ([]byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("no pude serializar la petición", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, output.NewSystemErrorWithCause("no pude crear la petición", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("la petición al modelo falló", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("no pude leer la respuesta", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Truncate: error bodies can echo the whole prompt back.
		errBody := string(respBody)
		if len(errBody) > 500 {
			errBody = errBody[:500]
		}
		return nil, output.NewSystemError(fmt.Sprintf("error de la API (estado %d): %s", resp.StatusCode, errBody))
	}

	return respBody, nil
}
