/**
 * @description
 * HTTP client for the external chat-completion gateway. All "AI" in the
 * product flows through this one client: vision food recognition, body-fat
 * estimation, audio transcription, diet generation, and the streamed coach.
 *
 * The gateway speaks the OpenAI-compatible wire shape: POST a JSON body of
 * {model, messages, stream?}; messages may embed image_url or input_audio
 * content parts. Non-streamed responses are a single completion object;
 * streamed responses are `data: {...}` framed partial-delta records ending
 * with a literal `data: [DONE]` line.
 */
package aigateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Upstream-quota errors are kept distinct so callers can show different user
// guidance for rate limits versus exhausted credits.
var (
	ErrRateLimited      = errors.New("aigateway: rate limited by model gateway")
	ErrCreditsExhausted = errors.New("aigateway: model gateway credits exhausted")
	ErrEmptyCompletion  = errors.New("aigateway: completion contained no content")
)

// Message is one chat message. Content is either a plain string or a slice
// of content parts (text, image_url, input_audio).
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// TextPart, ImagePart and AudioPart are the structured content parts the
// gateway accepts inside a user message.
type TextPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ImagePart struct {
	Type     string   `json:"type"`
	ImageURL ImageURL `json:"image_url"`
}

type ImageURL struct {
	URL string `json:"url"`
}

type AudioPart struct {
	Type       string     `json:"type"`
	InputAudio InputAudio `json:"input_audio"`
}

type InputAudio struct {
	Data   string `json:"data"`
	Format string `json:"format"`
}

// NewTextPart, NewImagePart and NewAudioPart build correctly tagged parts.
func NewTextPart(text string) TextPart {
	return TextPart{Type: "text", Text: text}
}

func NewImagePart(url string) ImagePart {
	return ImagePart{Type: "image_url", ImageURL: ImageURL{URL: url}}
}

func NewAudioPart(base64Data, format string) AudioPart {
	return AudioPart{Type: "input_audio", InputAudio: InputAudio{Data: base64Data, Format: format}}
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// streamChunk is one decoded `data:` record of a streamed completion.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Client talks to the chat-completion gateway. Construct it once at startup
// and inject it into whatever needs model access; there is no package-level
// singleton.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a gateway client. A nil httpClient gets a sensible
// default with a generous timeout for vision calls.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, httpClient: httpClient}
}

func (c *Client) post(ctx context.Context, reqBody completionRequest) (*http.Response, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			return nil, ErrRateLimited
		case http.StatusPaymentRequired:
			return nil, ErrCreditsExhausted
		default:
			return nil, fmt.Errorf("aigateway: unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
		}
	}
	return resp, nil
}

// Complete performs a non-streamed completion and returns the assistant
// message content.
func (c *Client) Complete(ctx context.Context, model string, messages []Message) (string, error) {
	resp, err := c.post(ctx, completionRequest{Model: model, Messages: messages})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode gateway response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return parsed.Choices[0].Message.Content, nil
}

// StreamCompletion performs a streamed completion, invoking onDelta for each
// content fragment as it decodes, and returns the full accumulated assistant
// message when the stream ends. Cancelling ctx abandons the stream; the
// decoder stops at the next read without surfacing the in-flight fragments.
func (c *Client) StreamCompletion(ctx context.Context, model string, messages []Message, onDelta func(delta string) error) (string, error) {
	resp, err := c.post(ctx, completionRequest{Model: model, Messages: messages, Stream: true})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var full bytes.Buffer
	err = DecodeEventStream(resp.Body, func(data string) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// Tolerate records we cannot decode; the stream often carries
			// bookkeeping frames with no delta.
			return nil
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			full.WriteString(choice.Delta.Content)
			if onDelta != nil {
				if err := onDelta(choice.Delta.Content); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return full.String(), err
	}
	return full.String(), nil
}
