// internal/service/notification/infrastructure/callmebot.go
package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"garde/internal/pkg/logger"
)

const callMeBotEndpoint = "https://api.callmebot.com/whatsapp.php"

// CallMeBotClient 通过 CallMeBot 的免费网关给店主发 WhatsApp 消息。
// 没配凭证时降级为空操作：开发环境和自动化测试都不该打外网。
type CallMeBotClient struct {
	phone      string
	apiKey     string
	httpClient *http.Client
}

func NewCallMeBotClient(phone, apiKey string) *CallMeBotClient {
	return &CallMeBotClient{
		phone:   phone,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Send 发送一条文本消息。凭证缺失时记一条警告后跳过。
func (c *CallMeBotClient) Send(ctx context.Context, text string) error {
	if c.phone == "" || c.apiKey == "" {
		logger.Ctx(ctx).Warn().Msg("callmebot credentials not configured, skipping WhatsApp notification")
		return nil
	}

	params := url.Values{}
	params.Set("phone", c.phone)
	params.Set("apikey", c.apiKey)
	params.Set("text", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, callMeBotEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("callmebot request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("callmebot returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
