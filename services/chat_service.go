package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/nexafin/fincoach/config"
	apiError "github.com/nexafin/fincoach/errors"
	"github.com/nexafin/fincoach/models"
)

// SystemPrompt is the fixed coaching persona sent with every completion
// request. Kept as one canonical variant.
const SystemPrompt = `You are an empowering financial coach and mentor who believes in every person's ability to achieve financial success and wellness.

When responding:
1. Always start with a warm, professional greeting using <strong>Welcome:</strong> format
2. Structure your responses with clear sections and white space
3. Use bullet points for options and lists
4. Keep paragraphs short and focused (2-3 lines max)
5. Add visual breaks between sections using line spacing

When reviewing documents or providing analysis:
- Format all headings as <strong>SECTION TITLE:</strong>
- Present information in clear, numbered or bulleted points
- Keep insights crisp and business-focused
- Use professional language without being overly technical
- End with a clear call to action

Remember to:
- Celebrate wins and progress
- Frame challenges positively
- Provide actionable insights
- Keep the tone encouraging but professional`

const (
	chatCompletionsPath = "/v1/chat/completions"
	tokenBalancePath    = "/v1/account/balance"

	// transient (5xx) failures are retried this many times total, with the
	// delay doubling between attempts
	maxChatAttempts   = 3
	initialRetryDelay = time.Second

	chatTemperature      = 0.5
	chatMaxTokens        = 2000
	chatPresencePenalty  = 0.1
	chatFrequencyPenalty = 0.1
)

// ChatService turns a user prompt into an assistant reply, isolating
// transient provider failures from the caller
type ChatService interface {
	Complete(userText string, fileContext *models.FileContext) (*models.ChatCompletion, *apiError.Error)
	GetTokenBalance() (*models.TokenBalance, *apiError.Error)
}

type chatService struct {
	Config      *config.Config
	client      *http.Client
	maxAttempts int
	retryDelay  time.Duration
}

// NewChatService instantiate a chatService
func NewChatService(conf *config.Config) ChatService {
	return &chatService{
		Config:      conf,
		client:      &http.Client{Timeout: 60 * time.Second},
		maxAttempts: maxChatAttempts,
		retryDelay:  initialRetryDelay,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model            string        `json:"model"`
	Messages         []chatMessage `json:"messages"`
	Temperature      float64       `json:"temperature"`
	MaxTokens        int           `json:"max_tokens"`
	PresencePenalty  float64       `json:"presence_penalty"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *models.TokenUsage `json:"usage"`
}

type providerErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (s *chatService) Complete(userText string, fileContext *models.FileContext) (*models.ChatCompletion, *apiError.Error) {
	messages := []chatMessage{
		{Role: "system", Content: SystemPrompt},
	}

	if fileContext != nil {
		messages = append(messages, chatMessage{
			Role: "user",
			Content: fmt.Sprintf("[File Analysis Request] File Name: %s\nFile Content:\n%s\n\nPlease analyze this document and provide financial insights.",
				fileContext.Name, fileContext.Content),
		})
	}

	messages = append(messages, chatMessage{Role: "user", Content: userText})

	payload, err := json.Marshal(chatCompletionRequest{
		Model:            s.Config.DeepseekModel,
		Messages:         messages,
		Temperature:      chatTemperature,
		MaxTokens:        chatMaxTokens,
		PresencePenalty:  chatPresencePenalty,
		FrequencyPenalty: chatFrequencyPenalty,
	})
	if err != nil {
		log.Printf("Complete error marshalling request: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	body, apiErr := s.requestWithRetry(http.MethodPost, s.Config.DeepseekBaseUrl+chatCompletionsPath, payload)
	if apiErr != nil {
		return nil, apiErr
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		log.Printf("Complete error decoding provider response: %v", err)
		return nil, apiError.New("assistant returned an unexpected response", http.StatusBadGateway)
	}
	if len(completion.Choices) == 0 {
		log.Printf("Complete error: provider response has no choices")
		return nil, apiError.New("assistant returned an unexpected response", http.StatusBadGateway)
	}

	return &models.ChatCompletion{
		Message: completion.Choices[0].Message.Content,
		Usage:   completion.Usage,
	}, nil
}

func (s *chatService) GetTokenBalance() (*models.TokenBalance, *apiError.Error) {
	body, apiErr := s.requestWithRetry(http.MethodGet, s.Config.DeepseekBaseUrl+tokenBalancePath, nil)
	if apiErr != nil {
		return nil, apiErr
	}

	var balance models.TokenBalance
	if err := json.Unmarshal(body, &balance); err != nil {
		log.Printf("GetTokenBalance error decoding provider response: %v", err)
		return nil, apiError.New("assistant returned an unexpected response", http.StatusBadGateway)
	}

	return &balance, nil
}

// requestWithRetry issues the request, retrying only server-side (5xx)
// failures with a bounded doubling backoff. Implemented as an explicit loop
// so the attempt count is visible at a glance.
func (s *chatService) requestWithRetry(method, url string, payload []byte) ([]byte, *apiError.Error) {
	delay := s.retryDelay

	var status int
	var body []byte
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequest(method, url, reqBody)
		if err != nil {
			log.Printf("chat request build error: %v", err)
			return nil, apiError.ErrInternalServerError
		}
		req.Header.Set("Authorization", "Bearer "+s.Config.DeepseekApiKey)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := s.client.Do(req)
		if err != nil {
			log.Printf("chat provider unreachable: %v", err)
			return nil, apiError.New("assistant service is unreachable, please check your connection and try again", http.StatusServiceUnavailable)
		}

		body, err = io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			log.Printf("chat response read error: %v", err)
			return nil, apiError.New("assistant returned an unexpected response", http.StatusBadGateway)
		}
		status = resp.StatusCode

		if status < http.StatusInternalServerError {
			break
		}
		if attempt < s.maxAttempts {
			log.Printf("chat provider returned %d, retrying (%d/%d)", status, attempt, s.maxAttempts-1)
			time.Sleep(delay)
			delay *= 2
		}
	}

	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return body, nil
	}
	return nil, classifyProviderError(status, body)
}

// classifyProviderError maps a provider failure to a user-safe message.
// Authentication failures and rate limits are never retried upstream.
func classifyProviderError(status int, body []byte) *apiError.Error {
	var providerErr providerErrorResponse
	_ = json.Unmarshal(body, &providerErr)
	providerMessage := providerErr.Error.Message

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apiError.New("assistant authentication failed, please check the configured API key", http.StatusUnauthorized)
	case status == http.StatusTooManyRequests:
		return apiError.New("assistant is receiving too many requests, please wait a moment and try again", http.StatusTooManyRequests)
	case status >= http.StatusInternalServerError:
		if providerMessage == "" {
			providerMessage = "assistant provider error, please try again later"
		}
		return apiError.New(providerMessage, http.StatusBadGateway)
	default:
		if providerMessage == "" {
			providerMessage = "failed to process request"
		}
		return apiError.New(providerMessage, http.StatusBadRequest)
	}
}
