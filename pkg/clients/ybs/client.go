// Package ybs is the HTTP client for the order-management portal.
package ybs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/shopmetrics/ybscontrol/internal/config"
)

// ErrLoginFailed indicates the portal accepted the request but the response
// did not look like a logged-in session.
var ErrLoginFailed = errors.New("portal login rejected")

// Client exposes the portal operations used by the refresh pipeline.
type Client interface {
	Login(ctx context.Context) error
	FetchPages(ctx context.Context) (Pages, error)
}

// Pages carries the two raw HTML documents a refresh consumes.
type Pages struct {
	OrdersHTML string
	QueueHTML  string
}

// PortalClient is a resty-backed implementation of Client. The portal has no
// API; authentication is a form post and the session lives in cookies.
type PortalClient struct {
	httpClient *resty.Client
	cfg        config.PortalConfig
}

// NewClient builds a portal client from configuration. Cookies persist on
// the underlying resty client across Login and FetchPages calls.
func NewClient(cfg config.PortalConfig) *PortalClient {
	restyClient := resty.New().
		SetTimeout(10 * time.Second).
		SetHeader("User-Agent", "ybscontrol/1.0")

	return &PortalClient{
		httpClient: restyClient,
		cfg:        cfg,
	}
}

// Login posts the signin form. The portal answers 200 either way, so success
// is sniffed from the response body: a logout link or a reference to the
// orders page means we are in.
func (c *PortalClient) Login(ctx context.Context) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"email":    c.cfg.Username,
			"password": c.cfg.Password,
			"action":   "signin",
		}).
		Post(c.cfg.LoginURL)
	if err != nil {
		return fmt.Errorf("portal login: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("portal login: unexpected status %d", resp.StatusCode())
	}

	body := strings.ToLower(resp.String())
	ordersPage := strings.ToLower(path.Base(c.cfg.OrdersURL))
	if !strings.Contains(body, "logout") && !strings.Contains(body, ordersPage) {
		return ErrLoginFailed
	}
	return nil
}

// FetchPages retrieves the orders and queue pages with the session cookies
// established by Login.
func (c *PortalClient) FetchPages(ctx context.Context) (Pages, error) {
	ordersResp, err := c.httpClient.R().SetContext(ctx).Get(c.cfg.OrdersURL)
	if err != nil {
		return Pages{}, fmt.Errorf("fetch orders page: %w", err)
	}
	queueResp, err := c.httpClient.R().SetContext(ctx).Get(c.cfg.QueueURL)
	if err != nil {
		return Pages{}, fmt.Errorf("fetch queue page: %w", err)
	}
	return Pages{
		OrdersHTML: ordersResp.String(),
		QueueHTML:  queueResp.String(),
	}, nil
}
