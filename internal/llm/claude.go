// Package llm はAnthropic Claude Messages APIのクライアントを提供する。
// 分類器とリライトエンジンの両方がこのクライアント経由でLLMを呼び出す。
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// defaultEndpoint はAnthropic Messages APIのエンドポイント。
	defaultEndpoint = "https://api.anthropic.com/v1/messages"
	// apiVersion はanthropic-versionヘッダに指定するAPIバージョン。
	apiVersion = "2023-06-01"
	// defaultMaxTokens は1回の呼び出しで許容する最大出力トークン数。
	defaultMaxTokens = 4096
)

// CompletionClient はテキスト補完サービスのインターフェース。
// モジュールレベルのシングルトンにせず、依存として注入する。
type CompletionClient interface {
	// Complete は単一のユーザーメッセージを送信し、応答テキストを返す。
	// レスポンスのスキーマ検証はプロバイダ側では行われないため、
	// 解釈は呼び出し元の責務となる。
	Complete(ctx context.Context, prompt string) (string, error)
}

// ClaudeClient はAnthropic Claude Messages APIのクライアント。
type ClaudeClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	endpoint   string // テスト用にエンドポイントを差し替え可能
	apiKey     string
	model      string
}

// NewClaudeClient はClaudeClientの新しいインスタンスを生成する。
func NewClaudeClient(apiKey, model string, timeout time.Duration, logger *slog.Logger) *ClaudeClient {
	return &ClaudeClient{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		endpoint:   defaultEndpoint,
		apiKey:     apiKey,
		model:      model,
	}
}

// SetEndpoint はエンドポイントを差し替える。テスト専用。
func (c *ClaudeClient) SetEndpoint(endpoint string) {
	c.endpoint = endpoint
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
	Error   *apiError      `json:"error,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Complete は単一のユーザーメッセージを送信し、応答テキストを返す。
func (c *ClaudeClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("APIキーが設定されていません")
	}

	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: defaultMaxTokens,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("リクエストのJSON変換に失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("LLM APIの呼び出しに失敗しました",
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("LLM APIの呼び出しに失敗しました: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("LLM APIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
			slog.String("body", truncate(string(respBody), 512)),
		)
		return "", fmt.Errorf("LLM APIがステータス %d を返しました", resp.StatusCode)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("レスポンスのJSON解析に失敗しました: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("LLM APIエラー: %s: %s", parsed.Error.Type, parsed.Error.Message)
	}

	var sb strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("LLM APIの応答にテキストが含まれていません")
	}

	c.logger.Info("LLM呼び出しが完了しました",
		slog.String("model", c.model),
		slog.Int("prompt_chars", len(prompt)),
		slog.Int("response_chars", len(text)),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return text, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
