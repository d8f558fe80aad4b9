package disk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://cloud-api.yandex.net/v1/disk/resources"

// Client talks to the Yandex.Disk REST API. Every method degrades to a
// boolean outcome: remote failures are logged, never returned.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.http = httpClient }
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:   token,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FolderExists reports whether a folder named after the order number
// exists on the disk. Fails closed on any non-200 response.
func (c *Client) FolderExists(ctx context.Context, orderNumber string) bool {
	reqURL := c.baseURL + "?path=" + url.QueryEscape(orderNumber)

	resp, err := c.doGet(ctx, reqURL)
	if err != nil {
		zap.S().Warnf("disk: folder check for order %s failed: %v", orderNumber, err)
		return false
	}
	defer resp.Body.Close()

	zap.S().Debugf("disk: folder check for order %s, status %d", orderNumber, resp.StatusCode)
	return resp.StatusCode == http.StatusOK
}

// Upload pushes a staged local file into the order's folder. Two
// phases: obtain an upload href, then PUT the bytes. No retry.
func (c *Client) Upload(ctx context.Context, orderNumber, localPath, remoteName string) bool {
	reqURL := fmt.Sprintf("%s/upload?path=%s&overwrite=true",
		c.baseURL, url.QueryEscape(orderNumber+"/"+remoteName))

	resp, err := c.doGet(ctx, reqURL)
	if err != nil {
		zap.S().Warnf("disk: failed to request upload href for %s: %v", remoteName, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		zap.S().Warnf("disk: upload href request for %s returned status %d", remoteName, resp.StatusCode)
		return false
	}

	var target struct {
		Href string `json:"href"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&target); err != nil || target.Href == "" {
		zap.S().Warnf("disk: malformed upload href response for %s: %v", remoteName, err)
		return false
	}

	file, err := os.Open(localPath)
	if err != nil {
		zap.S().Warnf("disk: failed to open staged file %s: %v", localPath, err)
		return false
	}
	defer file.Close()

	putReq, err := http.NewRequestWithContext(ctx, http.MethodPut, target.Href, file)
	if err != nil {
		zap.S().Warnf("disk: failed to build PUT request for %s: %v", remoteName, err)
		return false
	}

	putResp, err := c.http.Do(putReq)
	if err != nil {
		zap.S().Warnf("disk: upload of %s failed: %v", remoteName, err)
		return false
	}
	defer putResp.Body.Close()

	zap.S().Debugf("disk: upload of %s finished with status %d", remoteName, putResp.StatusCode)
	return putResp.StatusCode == http.StatusCreated
}

func (c *Client) doGet(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	return c.http.Do(req)
}
