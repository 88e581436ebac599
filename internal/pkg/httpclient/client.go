// internal/pkg/httpclient/client.go
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"garde/internal/pkg/nacos"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Client 是一个可追踪的服务间 HTTP 客户端。
// 目标地址通过 Nacos 按服务名解析，调用方不关心实例在哪。
type Client struct {
	Tracer     trace.Tracer
	Nacos      *nacos.Client
	HTTPClient *http.Client
}

// ErrStatus 表示下游返回了非 2xx 状态码，保留状态码和响应体供调用方分类处理。
type ErrStatus struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *ErrStatus) Error() string {
	return fmt.Sprintf("service %s returned status %d: %s", e.Service, e.StatusCode, e.Body)
}

// NewClient 创建一个新的客户端实例。
// 不设置全局 Timeout，超时完全受每次请求传入的 context 控制。
func NewClient(tracer trace.Tracer, nacosClient *nacos.Client) *Client {
	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
	}
	return &Client{
		Tracer:     tracer,
		Nacos:      nacosClient,
		HTTPClient: httpClient,
	}
}

// CallService 以表单参数 POST 调用目标服务，只关心成功与否。
func (c *Client) CallService(ctx context.Context, serviceName, path string, params url.Values) error {
	_, err := c.do(ctx, http.MethodPost, serviceName, path, params, nil, nil)
	return err
}

// CallServiceJSON 以 JSON 体 POST 调用目标服务，并把响应解码到 out。
// out 为 nil 时丢弃响应体。
func (c *Client) CallServiceJSON(ctx context.Context, serviceName, path string, body, out interface{}) error {
	return c.CallServiceJSONHeaders(ctx, serviceName, path, nil, body, out)
}

// CallServiceJSONHeaders 同 CallServiceJSON，额外携带自定义请求头，
// 用于透传会话标识这类带外信息。
func (c *Client) CallServiceJSONHeaders(ctx context.Context, serviceName, path string, headers http.Header, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	respBody, err := c.do(ctx, http.MethodPost, serviceName, path, nil, headers, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response from %s%s: %w", serviceName, path, err)
	}
	return nil
}

// GetServiceJSON 以 GET 调用目标服务，并把响应解码到 out。
func (c *Client) GetServiceJSON(ctx context.Context, serviceName, path string, params url.Values, headers http.Header, out interface{}) error {
	respBody, err := c.do(ctx, http.MethodGet, serviceName, path, params, headers, nil)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response from %s%s: %w", serviceName, path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, serviceName, path string, params url.Values, headers http.Header, jsonBody []byte) ([]byte, error) {
	ctx, span := c.Tracer.Start(ctx, fmt.Sprintf("call-%s", serviceName), trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	addr, err := c.Nacos.DiscoverServiceInstance(serviceName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	downstreamURL := url.URL{Scheme: "http", Host: addr, Path: path}
	if params != nil {
		downstreamURL.RawQuery = params.Encode()
	}

	var reqBody io.Reader
	if jsonBody != nil {
		reqBody = bytes.NewReader(jsonBody)
	}
	req, err := http.NewRequestWithContext(ctx, method, downstreamURL.String(), reqBody)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if jsonBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	span.SetAttributes(
		attribute.String("http.url", downstreamURL.String()),
		attribute.String("http.method", method),
		attribute.String("peer.service", serviceName),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &ErrStatus{Service: serviceName, StatusCode: resp.StatusCode, Body: string(respBody)}
		span.RecordError(statusErr)
		span.SetStatus(codes.Error, statusErr.Error())
		return nil, statusErr
	}
	return respBody, nil
}
