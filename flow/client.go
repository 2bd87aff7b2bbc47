package flow

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Mauthecat/tienda/config"
)

// StatusPaid is Flow's status code for a settled payment.
const StatusPaid = 2

// Client talks to the Flow REST API. Credentials come from the process
// configuration loaded at startup.
type Client struct {
	APIKey    string
	SecretKey string
	BaseURL   string
	HTTP      *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		APIKey:    cfg.FlowAPIKey,
		SecretKey: cfg.FlowSecretKey,
		BaseURL:   cfg.FlowBaseURL,
		HTTP:      &http.Client{Timeout: 15 * time.Second},
	}
}

// PaymentOrder is Flow's response to payment/create.
type PaymentOrder struct {
	URL       string `json:"url"`
	Token     string `json:"token"`
	FlowOrder int64  `json:"flowOrder"`
}

// RedirectURL combines url and token into the address the browser is sent to.
func (p *PaymentOrder) RedirectURL() string {
	return p.URL + "?token=" + p.Token
}

// PaymentStatus is the subset of payment/getStatus we rely on. Nothing in
// an inbound webhook body is trusted; the handler re-queries this endpoint
// with the token instead.
type PaymentStatus struct {
	FlowOrder     int64  `json:"flowOrder"`
	CommerceOrder string `json:"commerceOrder"`
	Status        int    `json:"status"`
	Subject       string `json:"subject"`
	Currency      string `json:"currency"`
	Payer         string `json:"payer"`
}

type CreateParams struct {
	CommerceOrder   string
	Subject         string
	Currency        string
	Amount          int
	Email           string
	URLConfirmation string
	URLReturn       string
}

// CreatePayment opens a payment session and returns the redirect target.
// On a non-200 reply the raw body is surfaced for diagnostics.
func (c *Client) CreatePayment(p CreateParams) (*PaymentOrder, error) {
	params := map[string]string{
		"apiKey":          c.APIKey,
		"commerceOrder":   p.CommerceOrder,
		"subject":         p.Subject,
		"currency":        p.Currency,
		"amount":          strconv.Itoa(p.Amount),
		"email":           p.Email,
		"urlConfirmation": p.URLConfirmation,
		"urlReturn":       p.URLReturn,
	}
	params["s"] = Sign(params, c.SecretKey)

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}

	resp, err := c.HTTP.PostForm(c.BaseURL+"/payment/create", form)
	if err != nil {
		return nil, fmt.Errorf("failed to reach flow: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("flow API error (%d): %s", resp.StatusCode, string(body))
	}

	var out PaymentOrder
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse flow response: %w", err)
	}
	if out.URL == "" || out.Token == "" {
		return nil, errors.New("flow returned an empty payment URL")
	}
	return &out, nil
}

// GetStatus asks Flow for the state of a payment session.
func (c *Client) GetStatus(token string) (*PaymentStatus, error) {
	params := map[string]string{
		"apiKey": c.APIKey,
		"token":  token,
	}
	params["s"] = Sign(params, c.SecretKey)

	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}

	resp, err := c.HTTP.Get(c.BaseURL + "/payment/getStatus?" + query.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to reach flow: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("flow API error (%d): %s", resp.StatusCode, string(body))
	}

	var out PaymentStatus
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse flow response: %w", err)
	}
	return &out, nil
}
