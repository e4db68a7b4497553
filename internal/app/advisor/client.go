package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"samurai/internal/app/apperr"
	"samurai/internal/app/config"
	"samurai/internal/app/report"
)

// Advisor — внешний AI сервис рекомендаций. Интерфейс внедряется в
// обработчики, чтобы ядро тестировалось без сети
type Advisor interface {
	Recommend(ctx context.Context, summary report.Summary, question string) (string, error)
}

type Client struct {
	cfg        config.AdvisorConfig
	httpClient *http.Client
}

func New(cfg config.AdvisorConfig) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Recommend отправляет агрегированный отчёт и вопрос пользователя во
// внешний сервис. Любой сбой возвращается как ErrExternalService —
// вызывающая сторона деградирует до пустой рекомендации
func (c *Client) Recommend(ctx context.Context, summary report.Summary, question string) (string, error) {
	systemMessage := fmt.Sprintf(
		"Ты SAMurAI — ассистент по управлению программными активами. "+
			"Текущее состояние инвентаря: активов %d, мест %d, занято %d, "+
			"истекают в течение месяца %d, просрочено %d, недоиспользуются %d, "+
			"суммарная стоимость %.2f, возможная экономия %.2f. "+
			"Давай конкретные рекомендации по данным. Суммы указывай с двумя знаками, проценты с одним.",
		summary.TotalAssets, summary.TotalSeats, summary.UsedSeats,
		len(summary.ExpiringSoon), len(summary.Expired), len(summary.Underutilized),
		summary.TotalCost, summary.PotentialSavings,
	)

	payload := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemMessage},
			{Role: "user", Content: question},
		},
		MaxTokens:   250,
		Temperature: 0.7,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", apperr.ErrExternalService, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v1/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", apperr.ErrExternalService, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		logrus.Warnf("advisor responded %d: %s", resp.StatusCode, string(respBody))
		return "", fmt.Errorf("%w: статус %d", apperr.ErrExternalService, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", apperr.ErrExternalService, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: пустой ответ сервиса", apperr.ErrExternalService)
	}

	return parsed.Choices[0].Message.Content, nil
}
