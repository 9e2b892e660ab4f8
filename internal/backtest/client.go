// Package backtest is the typed surface of the backtesting service's REST
// API: stock reference data, backtest runs, strategy CRUD, and auth. It
// sits on the generic api.Client and owns session invalidation on 401s.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"backtest-client/internal/api"
	"backtest-client/internal/logger"
	"backtest-client/internal/session"
	"backtest-client/internal/types"
)

type Client struct {
	api     *api.Client
	sess    *session.Session
	retries *api.RetryConfig
}

type Params struct {
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts int
	Logging       bool
}

func NewClient(p Params, sess *session.Session) *Client {
	retries := api.DefaultRetryConfig()
	if p.RetryAttempts > 0 {
		retries.MaxAttempts = p.RetryAttempts
	}
	timeout := p.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		api: api.NewClient(
			api.WithBaseURL(p.BaseURL),
			api.WithTimeout(timeout),
			api.WithLogging(p.Logging),
		),
		sess:    sess,
		retries: retries,
	}
}

// get performs an idempotent GET with retries. Writes and the backtest run
// go through the plain methods instead.
func (c *Client) get(ctx context.Context, path string) (*api.Response, error) {
	return c.api.DoWithRetry(api.NewRequest("GET", path).WithContext(ctx), c.retries)
}

// checkAuth invalidates the local session when the service rejected the
// credential, so the caller is forced back through login.
func (c *Client) checkAuth(ctx context.Context, err error) error {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.IsAuthFailure() {
		logger.Warn(ctx, "Credential rejected by service, clearing session")
		c.sess.Clear()
		c.api.ClearBearer()
	}
	return err
}

// Stocks returns the service's curated symbol list.
func (c *Client) Stocks(ctx context.Context) ([]types.Stock, error) {
	resp, err := c.get(ctx, "/api/stocks/")
	if err != nil {
		return nil, fmt.Errorf("fetch stocks: %w", err)
	}
	var stocks []types.Stock
	if err := resp.ParseJSON(&stocks); err != nil {
		return nil, err
	}
	return stocks, nil
}

// Prices fetches a symbol's price history; start and end are optional
// YYYY-MM-DD bounds.
func (c *Client) Prices(ctx context.Context, symbol, start, end string) (*types.PriceHistory, error) {
	q := url.Values{}
	if start != "" {
		q.Set("start_date", start)
	}
	if end != "" {
		q.Set("end_date", end)
	}
	path := "/api/stocks/" + url.PathEscape(symbol) + "/prices"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetch prices for %s: %w", symbol, err)
	}
	var history types.PriceHistory
	if err := resp.ParseJSON(&history); err != nil {
		return nil, err
	}
	return &history, nil
}

// Run submits a backtest request and waits for the simulation result. The
// call is not retried: the simulation is not idempotent enough to repeat on
// an ambiguous timeout.
func (c *Client) Run(ctx context.Context, req *types.BacktestRequest) (*types.BacktestResponse, error) {
	timer, ctx := logger.StartOperation(ctx, "backtest.run",
		"symbol", req.Symbol, "strategy_type", req.StrategyType)
	resp, err := c.api.POST(ctx, "/api/backtest/run", req)
	if err != nil {
		timer.End(err)
		return nil, fmt.Errorf("run backtest: %w", err)
	}
	var out types.BacktestResponse
	if err := resp.ParseJSON(&out); err != nil {
		timer.End(err)
		return nil, err
	}
	timer.End(nil)
	return &out, nil
}

// Strategies lists the user's saved strategies. sortBy and order map to the
// service's sort_by/order query parameters.
func (c *Client) Strategies(ctx context.Context, sortBy, order string) ([]types.Strategy, error) {
	if sortBy == "" {
		sortBy = "created_at"
	}
	if order == "" {
		order = "desc"
	}
	q := url.Values{"sort_by": {sortBy}, "order": {order}}
	resp, err := c.get(ctx, "/api/strategies/?"+q.Encode())
	if err != nil {
		return nil, c.checkAuth(ctx, fmt.Errorf("fetch strategies: %w", err))
	}
	var strategies []types.Strategy
	if err := resp.ParseJSON(&strategies); err != nil {
		return nil, err
	}
	return strategies, nil
}

func (c *Client) Strategy(ctx context.Context, id string) (*types.Strategy, error) {
	resp, err := c.get(ctx, "/api/strategies/"+url.PathEscape(id))
	if err != nil {
		return nil, c.checkAuth(ctx, fmt.Errorf("fetch strategy %s: %w", id, err))
	}
	var s types.Strategy
	if err := resp.ParseJSON(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) createOrUpdate(ctx context.Context, method, path string, body any) (*types.Strategy, error) {
	var resp *api.Response
	var err error
	if method == "PUT" {
		resp, err = c.api.PUT(ctx, path, body)
	} else {
		resp, err = c.api.POST(ctx, path, body)
	}
	if err != nil {
		return nil, c.checkAuth(ctx, fmt.Errorf("save strategy: %w", err))
	}
	var s types.Strategy
	if err := resp.ParseJSON(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveStrategy creates the strategy on the service.
func (c *Client) SaveStrategy(ctx context.Context, body any) (*types.Strategy, error) {
	return c.createOrUpdate(ctx, "POST", "/api/strategies/", body)
}

// UpdateStrategy replaces an existing strategy.
func (c *Client) UpdateStrategy(ctx context.Context, id string, body any) (*types.Strategy, error) {
	return c.createOrUpdate(ctx, "PUT", "/api/strategies/"+url.PathEscape(id), body)
}

func (c *Client) DeleteStrategy(ctx context.Context, id string) error {
	resp, err := c.api.DELETE(ctx, "/api/strategies/"+url.PathEscape(id))
	if err != nil {
		return c.checkAuth(ctx, fmt.Errorf("delete strategy %s: %w", id, err))
	}
	var msg types.APIMessage
	if err := resp.ParseJSON(&msg); err != nil {
		return err
	}
	if !msg.Success {
		return fmt.Errorf("delete strategy %s: %s", id, msg.Message)
	}
	return nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, email, password, fullName string) (*types.User, error) {
	body := map[string]any{
		"username": username,
		"email":    email,
		"password": password,
	}
	if fullName != "" {
		body["full_name"] = fullName
	}
	resp, err := c.api.POST(ctx, "/api/auth/register", body)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	var user types.User
	if err := resp.ParseJSON(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates with form-encoded credentials and establishes the
// session on success.
func (c *Client) Login(ctx context.Context, username, password string) (*types.LoginResponse, error) {
	form := url.Values{
		"username": {username},
		"password": {password},
	}
	resp, err := c.api.PostForm(ctx, "/api/auth/login", form)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	var login types.LoginResponse
	if err := resp.ParseJSON(&login); err != nil {
		return nil, err
	}
	c.sess.Establish(login.AccessToken, login.User)
	c.api.SetBearer(login.AccessToken)
	logger.Info(ctx, "Logged in", "username", login.User.Username)
	return &login, nil
}

// Me fetches the user behind the current credential.
func (c *Client) Me(ctx context.Context) (*types.User, error) {
	resp, err := c.get(ctx, "/api/auth/me")
	if err != nil {
		return nil, c.checkAuth(ctx, fmt.Errorf("fetch current user: %w", err))
	}
	var user types.User
	if err := resp.ParseJSON(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout invalidates the credential on the service and locally. The local
// session is cleared even if the service call fails.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.api.POST(ctx, "/api/auth/logout", nil)
	c.sess.Clear()
	c.api.ClearBearer()
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
