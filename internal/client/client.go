package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"imagerater/internal/dto"
	"imagerater/internal/logger"
	"imagerater/internal/model"
	"imagerater/internal/rater"
)

// HttpError is returned for any non-2xx response.
type HttpError struct {
	StatusCode int
	Status     string
	Detail     string
}

func (e *HttpError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP %s: %s", e.Status, e.Detail)
	}
	return "HTTP " + e.Status
}

// Client talks to the rating API. It implements rater.Backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

var _ rater.Backend = (*Client)(nil)

func createHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = 7 * time.Second
	transport.ResponseHeaderTimeout = 15 * time.Second
	transport.MaxIdleConnsPerHost = 20
	transport.IdleConnTimeout = 5 * time.Minute

	return &http.Client{Transport: transport}
}

// New creates a Client for the API rooted at baseURL. A nil httpClient
// selects a client with conservative timeouts.
func New(baseURL string, httpClient *http.Client, log *logger.Logger) *Client {
	if httpClient == nil {
		httpClient = createHTTPClient()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, logger: log}
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ImageURL returns the absolute URL of an image's bytes.
func (c *Client) ImageURL(img model.ImageWithRating) string {
	return c.baseURL + "/" + img.Path
}

func (c *Client) Counts(ctx context.Context, user string) (dto.Counts, error) {
	var counts dto.Counts
	err := c.get(ctx, "/api/images/count", url.Values{"user_name": {user}}, &counts)
	return counts, err
}

func (c *Client) Images(ctx context.Context, user string, filter model.Filter, page, pageSize int) ([]model.ImageWithRating, error) {
	var data dto.ImagesPage
	err := c.get(ctx, "/api/images", url.Values{
		"user_name": {user},
		"filter":    {string(filter)},
		"page":      {strconv.Itoa(page)},
		"limit":     {strconv.Itoa(pageSize)},
	}, &data)
	if err != nil {
		return nil, err
	}
	return data.Images, nil
}

// FindImage returns a *rater.NotFoundError carrying the server's message
// when the API answers 404.
func (c *Client) FindImage(ctx context.Context, user string, filter model.Filter, filename string, pageSize int) (int, error) {
	var result dto.FindResult
	err := c.get(ctx, "/api/images/find", url.Values{
		"user_name": {user},
		"filter":    {string(filter)},
		"filename":  {filename},
		"limit":     {strconv.Itoa(pageSize)},
	}, &result)
	var httpErr *HttpError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
		return 0, &rater.NotFoundError{Message: httpErr.Detail}
	}
	if err != nil {
		return 0, err
	}
	return result.Page, nil
}

func (c *Client) RateImage(ctx context.Context, imageID int64, user string, rating1, rating2 int) error {
	body := dto.RateRequest{UserName: user, Rating1: &rating1, Rating2: &rating2}
	return c.post(ctx, fmt.Sprintf("/api/images/%d/rate", imageID), body, nil)
}

// Summary fetches the ratings pivot. Numbers are kept as json.Number.
func (c *Client) Summary(ctx context.Context) (*dto.Summary, error) {
	var summary dto.Summary
	if err := c.get(ctx, "/api/ratings/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, result)
}

func (c *Client) post(ctx context.Context, path string, input any, result any) error {
	jsonData, err := json.Marshal(input)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, result)
}

func (c *Client) do(req *http.Request, result any) error {
	c.logger.Debug("%s %s", req.Method, req.URL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.logger.Warning("Failed to close response body: %v", err)
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HttpError{StatusCode: resp.StatusCode, Status: resp.Status}
		var errResp dto.ErrorResponse
		if json.Unmarshal(body, &errResp) == nil {
			httpErr.Detail = errResp.Detail
		}
		return httpErr
	}

	if result == nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(result)
}
