package registry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
	"github.com/Mutombe/zim-rec-sub000/internal/domain/dto"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/logger"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/session"
)

// API is the registry surface the services consume. Client is the HTTP
// implementation; tests substitute fakes.
type API interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	RegisterAccount(ctx context.Context, email, password, firstName, lastName string) error
	Profile(ctx context.Context) (domain.User, error)
	UpdateProfile(ctx context.Context, fields map[string]interface{}) (domain.User, error)

	ListDevices(ctx context.Context) ([]domain.Device, error)
	CreateDevice(ctx context.Context, payload dto.DevicePayload) (domain.Device, error)
	UpdateDevice(ctx context.Context, id int64, fields map[string]interface{}) (domain.Device, error)
	DeleteDevice(ctx context.Context, id int64) error
	SubmitDevice(ctx context.Context, id int64) (domain.Device, error)

	FuelOptions(ctx context.Context) ([]domain.FuelOption, error)
	TechnologyOptions(ctx context.Context, fuel domain.FuelType) ([]domain.TechnologyOption, error)

	ListRequests(ctx context.Context) ([]domain.IssueRequest, error)
	CreateRequest(ctx context.Context, fields map[string]interface{}, upload *domain.Attachment) (domain.IssueRequest, error)
	UpdateRequest(ctx context.Context, id int64, fields map[string]interface{}) (domain.IssueRequest, error)
	SubmitRequest(ctx context.Context, id int64) (domain.IssueRequest, error)
}

type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
}

func NewClient(baseURL string, sess *session.Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		session: sess,
	}
}

// expiryMargin is how close to the access token's exp claim we refresh
// proactively instead of waiting for a 401.
const expiryMargin = 30 * time.Second

// do performs one authenticated call. A 401 triggers a single
// refresh-and-retry; there is no retry loop beyond that one attempt.
func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string, out interface{}) error {
	if c.session.LoggedIn() && c.session.Refresh() != "" && c.session.ExpiresWithin(expiryMargin) {
		if err := c.refreshToken(ctx); err != nil {
			logger.Warnf(ctx, "proactive token refresh: %s", err.Error())
		}
	}

	resp, raw, err := c.roundTrip(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && c.session.Refresh() != "" {
		if refreshErr := c.refreshToken(ctx); refreshErr != nil {
			return fmt.Errorf("token refresh: %w", refreshErr)
		}
		resp, raw, err = c.roundTrip(ctx, method, path, body, contentType)
		if err != nil {
			return err
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Raw: raw, Fields: parseFieldErrors(raw)}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body []byte, contentType string) (*http.Response, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if access := c.session.Access(); access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warnf(ctx, "close response body: %s", closeErr.Error())
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}
	return resp, raw, nil
}

func (c *Client) refreshToken(ctx context.Context) error {
	body, err := sonic.Marshal(map[string]string{"refresh": c.session.Refresh()})
	if err != nil {
		return err
	}

	resp, raw, err := c.roundTrip(ctx, http.MethodPost, "/api/token/refresh/", body, "application/json")
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Raw: raw}
	}

	var answer struct {
		Access string `json:"access"`
	}
	if err := sonic.Unmarshal(raw, &answer); err != nil {
		return fmt.Errorf("decode refresh answer: %w", err)
	}
	return c.session.SetAccess(answer.Access)
}

// getJSON wraps collection GETs in a short constant backoff; only transient
// failures are retried.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return backoff.Retry(
		func() error {
			err := c.do(ctx, http.MethodGet, path, nil, "", out)
			var apiErr *APIError
			if errors.As(err, &apiErr) && !apiErr.Transient() {
				return backoff.Permanent(err)
			}
			return err
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(500*time.Millisecond), 3),
			ctx,
		),
	)
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := sonic.Marshal(payload)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, body, "application/json", out)
}

func multipartBody(fields map[string]string, files []dto.FilePart) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Name))
		if f.ContentType != "" {
			header.Set("Content-Type", f.ContentType)
		}
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
