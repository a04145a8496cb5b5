// Package api はバックエンドREST APIの型付きクライアントを提供する。
//
// 全リクエストはトランスポートチェーン（CSRF付与等）を通過し、
// 全レスポンスの失敗はエラーインターセプターを通過する。
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hitoshi/projectmatch/internal/model"
)

// maxErrorBodySize はエラーレスポンスボディの読み取り上限。
const maxErrorBodySize = 1 << 16

// Client はバックエンドAPIクライアント。
type Client struct {
	baseURL     string
	httpClient  *http.Client
	interceptor *ErrorInterceptor
}

// Config はClientの構成要素。
type Config struct {
	BaseURL     string
	HTTPClient  *http.Client      // セッションCookieジャーとトランスポートチェーンを持つこと
	Interceptor *ErrorInterceptor // nilの場合はインターセプトを行わない
}

// New はClientの新しいインスタンスを生成する。
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:  httpClient,
		interceptor: cfg.Interceptor,
	}
}

// do はHTTPリクエストを実行し、成功時にレスポンスボディをoutへデコードする。
// outがnilの場合はボディを破棄する。失敗は必ずインターセプターを通過した上で
// 呼び出し元へそのまま返す。
func (c *Client) do(ctx context.Context, method, path string, headers http.Header, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("リクエストボディのエンコードに失敗しました: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.intercept(model.NewTransportError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.intercept(decodeError(resp))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("レスポンスのデコードに失敗しました: %w", err)
		}
	}
	return nil
}

// intercept は失敗をインターセプターへ渡し、エラーをそのまま返す。
func (c *Client) intercept(apiErr *model.APIError) error {
	if c.interceptor == nil {
		return apiErr
	}
	return c.interceptor.Handle(apiErr)
}

// decodeError はエラーレスポンスのボディから詳細メッセージを取り出して
// APIErrorを生成する。ボディがJSONでない場合は詳細なしとして扱う。
func decodeError(resp *http.Response) *model.APIError {
	var body struct {
		Detail string `json:"detail"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, maxErrorBodySize)).Decode(&body)
	return model.NewAPIError(resp.StatusCode, body.Detail)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
