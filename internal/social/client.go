package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dghubble/oauth1"

	"gpslogger/internal/logging"
)

const (
	DefaultEndpoint = "https://api.twitter.com/1.1/statuses/update.json"
	defaultTimeout  = 15 * time.Second
	maxErrorBody    = 2048
)

type Poster interface {
	Post(ctx context.Context, status string) (Response, error)
}

// Response is the subset of the created status the app reports.
type Response struct {
	ID   string `json:"id_str"`
	Text string `json:"text"`
}

type ClientOptions struct {
	Endpoint string
	// HTTPClient is the unsigned base client. Its transport is wrapped with
	// OAuth1 signing.
	HTTPClient *http.Client
}

type Client struct {
	http     *http.Client
	endpoint string
	logger   *logging.Logger
}

func NewClient(creds Credentials, opts ClientOptions, logger *logging.Logger) (*Client, error) {
	if logger == nil {
		panic("social.NewClient: logger must not be nil")
	}
	if !creds.Complete() {
		return nil, ErrIncompleteCredentials
	}
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	base := opts.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: defaultTimeout}
	}
	config := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessKey, creds.AccessSecret)
	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, base)
	signed := config.Client(ctx, token)
	signed.Timeout = base.Timeout
	return &Client{http: signed, endpoint: endpoint, logger: logger}, nil
}

// Post publishes status. There are no retries.
func (c *Client) Post(ctx context.Context, status string) (Response, error) {
	form := url.Values{"status": {status}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("post status: %w", err)
	}
	defer resp.Body.Close()
	c.logger.Debugf("POST %s -> %s", c.endpoint, resp.Status)

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		formatted := logging.FormatHTTPPayload(data)
		c.logger.Warn("post rejected",
			logging.Field("status", resp.Status),
			logging.Field("response", formatted),
		)
		return Response{}, &HTTPStatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: formatted}
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && err != io.EOF {
		return Response{}, fmt.Errorf("decode post response: %w", err)
	}
	c.logger.Debug("post accepted", logging.Field("id", out.ID))
	return out, nil
}
