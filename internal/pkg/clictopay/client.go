// Package clictopay implements a client for the ClicToPay payment gateway
// used by Tunisian merchants. The gateway is treated as a black box: we
// initiate a payment to obtain a checkout token, poll its status, and
// request refunds for completed transactions.
package clictopay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/benhmida/formatech/internal/pkg/logger"
)

// Currency is the only currency the platform charges in.
const Currency = "TND"

// Status reported by the gateway for a transaction.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Config holds the gateway credentials and endpoint.
type Config struct {
	BaseURL    string
	MerchantID string
	APIKey     string
	ReturnURL  string
	Timeout    time.Duration
}

// Gateway is the payment-gateway surface the payment service depends on.
type Gateway interface {
	InitiatePayment(ctx context.Context, amount float64, description, transactionReference string) (token string, err error)
	VerifyPayment(ctx context.Context, token string) (Status, error)
	RefundPayment(ctx context.Context, transactionReference string, amount float64) error
}

// Client is the HTTP implementation of Gateway.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a gateway client from config.
func NewClient(config Config) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewTransactionReference generates a platform transaction reference.
func NewTransactionReference(now time.Time) string {
	return fmt.Sprintf("PT-%d", now.UnixMilli())
}

type initiateRequest struct {
	Amount               float64 `json:"amount"`
	Currency             string  `json:"currency"`
	MerchantID           string  `json:"merchantId"`
	Description          string  `json:"description"`
	TransactionReference string  `json:"transactionReference"`
	ReturnURL            string  `json:"returnUrl"`
}

type initiateResponse struct {
	Token string `json:"token"`
}

// InitiatePayment registers a transaction with the gateway and returns the
// checkout token the client uses to complete the charge.
func (c *Client) InitiatePayment(ctx context.Context, amount float64, description, transactionReference string) (string, error) {
	body := initiateRequest{
		Amount:               amount,
		Currency:             Currency,
		MerchantID:           c.config.MerchantID,
		Description:          description,
		TransactionReference: transactionReference,
		ReturnURL:            c.config.ReturnURL,
	}

	var resp initiateResponse
	if err := c.postJSON(ctx, "/payments/initiate", body, &resp); err != nil {
		return "", fmt.Errorf("failed to initiate payment: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("gateway returned no payment token")
	}

	logger.Info().Str("reference", transactionReference).Msg("Payment initiated with gateway")
	return resp.Token, nil
}

type verifyResponse struct {
	Status string `json:"status"`
}

// VerifyPayment asks the gateway for the current status of a transaction.
// Unknown status strings are reported as failed.
func (c *Client) VerifyPayment(ctx context.Context, token string) (Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/payments/verify/"+token, nil)
	if err != nil {
		return StatusFailed, fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	var resp verifyResponse
	if err := c.do(req, &resp); err != nil {
		return StatusFailed, fmt.Errorf("failed to verify payment: %w", err)
	}

	switch strings.ToLower(resp.Status) {
	case "completed":
		return StatusCompleted, nil
	case "pending":
		return StatusPending, nil
	case "failed":
		return StatusFailed, nil
	default:
		logger.Warn().Str("status", resp.Status).Msg("Gateway returned unknown payment status")
		return StatusFailed, nil
	}
}

type refundRequest struct {
	TransactionReference string  `json:"transactionReference"`
	Amount               float64 `json:"amount"`
}

// RefundPayment requests a refund for a completed transaction.
func (c *Client) RefundPayment(ctx context.Context, transactionReference string, amount float64) error {
	body := refundRequest{
		TransactionReference: transactionReference,
		Amount:               amount,
	}

	if err := c.postJSON(ctx, "/payments/refund", body, nil); err != nil {
		return fmt.Errorf("failed to refund payment: %w", err)
	}

	logger.Info().Str("reference", transactionReference).Msg("Payment refunded with gateway")
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("gateway responded with status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return nil
}
