package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/viper"
	"google.golang.org/genai"

	"drafty/internal/logger"
)

const (
	// DefaultModel is the default Gemini model used for generation.
	DefaultModel = "gemini-2.5-flash-preview-05-20"
	// maxToolRounds bounds the function-calling loop so a misbehaving
	// model cannot keep requesting tools forever.
	maxToolRounds = 6
)

// Client represents a client for interacting with an LLM.
type Client struct {
	apiKey    string
	modelName string
	gClient   *genai.Client
}

// TextGenerationOptions contains options for text generation
type TextGenerationOptions struct {
	MaxTokens   int32   // Maximum number of tokens to generate
	Temperature float32 // Temperature for randomness (0.0 to 1.0)
	Model       string  // Model to use (optional, defaults to client's model)
}

// Tool is a callable the model may invoke before finishing. Implementations
// live in internal/tools.
type Tool interface {
	Name() string
	Declaration() *genai.FunctionDeclaration
	Call(ctx context.Context, args map[string]any) (map[string]any, error)
}

// NewClient creates a new LLM client.
// It supports multiple ways to get the API key (in order of preference):
// 1. Environment variable: GEMINI_API_KEY (or alternatives)
// 2. Viper configuration: ai.gemini.api_key
func NewClient(modelName string) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		if apiKey = os.Getenv("GOOGLE_GEMINI_API_KEY"); apiKey == "" {
			if apiKey = os.Getenv("GOOGLE_AI_API_KEY"); apiKey == "" {
				apiKey = viper.GetString("ai.gemini.api_key")
			}
		}
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required. Set GEMINI_API_KEY environment variable or ai.gemini.api_key in config file")
	}

	if modelName == "" {
		modelName = viper.GetString("ai.gemini.model")
		if modelName == "" {
			modelName = DefaultModel
		}
	}

	ctx := context.Background()
	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: requestTimeout(viper.GetString("ai.gemini.timeout"))},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		apiKey:    apiKey,
		modelName: modelName,
		gClient:   gClient,
	}, nil
}

// requestTimeout parses the configured per-request timeout, falling back to
// 60s when unset or malformed.
func requestTimeout(raw string) time.Duration {
	if raw == "" {
		return 60 * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// ModelName returns the model this client sends requests to.
func (c *Client) ModelName() string {
	return c.modelName
}

// GenerateText generates text from a prompt. The options parameter accepts
// *TextGenerationOptions (or nil for defaults); the interface{} signature
// keeps callers decoupled from this package.
func (c *Client) GenerateText(ctx context.Context, prompt string, options interface{}) (string, error) {
	config := &genai.GenerateContentConfig{}
	modelName := c.modelName

	if opts, ok := options.(*TextGenerationOptions); ok && opts != nil {
		if opts.Model != "" {
			modelName = opts.Model
		}
		if opts.MaxTokens > 0 {
			config.MaxOutputTokens = opts.MaxTokens
		}
		if opts.Temperature > 0 {
			config.Temperature = genai.Ptr(opts.Temperature)
		}
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	resp, err := c.gClient.Models.GenerateContent(ctx, modelName, contents, config)
	if err != nil {
		return "", fmt.Errorf("model request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("model request failed: empty response")
	}

	return text, nil
}

// GenerateWithTools generates text from a prompt while letting the model
// invoke the given tools. Tool calls are executed locally and fed back until
// the model produces a final text answer or the round limit is hit.
func (c *Client) GenerateWithTools(ctx context.Context, prompt string, tools []Tool) (string, error) {
	if len(tools) == 0 {
		return c.GenerateText(ctx, prompt, nil)
	}

	byName := make(map[string]Tool, len(tools))
	declarations := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		byName[tool.Name()] = tool
		declarations = append(declarations, tool.Declaration())
	}

	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{FunctionDeclarations: declarations}},
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	for round := 0; round < maxToolRounds; round++ {
		resp, err := c.gClient.Models.GenerateContent(ctx, c.modelName, contents, config)
		if err != nil {
			return "", fmt.Errorf("model request failed: %w", err)
		}

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			text := resp.Text()
			if text == "" {
				return "", fmt.Errorf("model request failed: empty response")
			}
			return text, nil
		}

		if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
			contents = append(contents, resp.Candidates[0].Content)
		}

		responseParts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			tool, ok := byName[call.Name]
			if !ok {
				responseParts = append(responseParts, functionResponsePart(call,
					map[string]any{"error": fmt.Sprintf("unknown tool %q", call.Name)}))
				continue
			}
			logger.Debug("Executing model tool call", "tool", call.Name)
			result, err := tool.Call(ctx, call.Args)
			if err != nil {
				result = map[string]any{"error": err.Error()}
			}
			responseParts = append(responseParts, functionResponsePart(call, result))
		}

		contents = append(contents, &genai.Content{
			Parts: responseParts,
			Role:  "user",
		})
	}

	return "", fmt.Errorf("model request failed: tool loop exceeded %d rounds", maxToolRounds)
}

func functionResponsePart(call *genai.FunctionCall, response map[string]any) *genai.Part {
	return &genai.Part{FunctionResponse: &genai.FunctionResponse{
		ID:       call.ID,
		Name:     call.Name,
		Response: response,
	}}
}
