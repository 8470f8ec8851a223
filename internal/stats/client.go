package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"explore-with-me/internal/model"
)

// Client 主服務呼叫統計服務的 HTTP client。
// 逾時必須有界：enricher 依賴這裡的失敗快速回傳來維持降級行為。
type Client interface {
	Hit(ctx context.Context, hit *model.EndpointHit) error
	Stats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]model.ViewStats, error)
}

type ClientImpl struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) Client {
	return &ClientImpl{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *ClientImpl) Hit(ctx context.Context, hit *model.EndpointHit) error {
	body, err := json.Marshal(hit)
	if err != nil {
		return fmt.Errorf("marshal hit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("stats server returned %d", resp.StatusCode)
	}
	return nil
}

func (c *ClientImpl) Stats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]model.ViewStats, error) {
	params := url.Values{}
	params.Set("start", start.Format(model.DateTimeLayout))
	params.Set("end", end.Format(model.DateTimeLayout))
	params.Set("unique", strconv.FormatBool(unique))
	for _, uri := range uris {
		params.Add("uris", uri)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("stats server returned %d", resp.StatusCode)
	}

	var result []model.ViewStats
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode stats response: %w", err)
	}
	return result, nil
}
