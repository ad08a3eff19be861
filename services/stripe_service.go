package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

const stripeAPIBase = "https://api.stripe.com"

// StripeConfig holds Stripe configuration
type StripeConfig struct {
	SecretKey      string
	PublishableKey string
	Currency       string
}

// StripeService drives the hosted card-capture flow: it creates a
// PaymentIntent for the order total in minor units and confirms it with the
// customer's payment method. It implements PaymentGateway.
type StripeService struct {
	config     *StripeConfig
	httpClient *http.Client
	baseURL    string
}

var (
	stripeService *StripeService
	stripeOnce    sync.Once
)

// GetStripeService returns the singleton instance configured from the
// environment.
func GetStripeService() *StripeService {
	stripeOnce.Do(func() {
		currency := os.Getenv("STRIPE_CURRENCY")
		if currency == "" {
			currency = "usd"
		}
		stripeService = &StripeService{
			config: &StripeConfig{
				SecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
				PublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
				Currency:       currency,
			},
			httpClient: &http.Client{
				Timeout: 30 * time.Second,
			},
			baseURL: stripeAPIBase,
		}
	})
	return stripeService
}

// ValidateConfig validates Stripe configuration
func (ss *StripeService) ValidateConfig() error {
	if ss.config.SecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is not set")
	}
	if ss.config.PublishableKey == "" {
		return fmt.Errorf("STRIPE_PUBLISHABLE_KEY is not set")
	}
	if ss.config.Currency == "" {
		return fmt.Errorf("STRIPE_CURRENCY is not set")
	}
	return nil
}

// PublishableKey exposes the client-side key for the hosted card widget.
func (ss *StripeService) PublishableKey() string {
	return ss.config.PublishableKey
}

type stripeIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

type stripeErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// CreatePaymentIntent creates a PaymentIntent for the given amount in minor
// units and returns its client secret.
func (ss *StripeService) CreatePaymentIntent(ctx context.Context, amountMinorUnits int64) (string, error) {
	form := url.Values{}
	form.Set("amount", fmt.Sprintf("%d", amountMinorUnits))
	form.Set("currency", ss.config.Currency)
	form.Add("payment_method_types[]", "card")

	intent, err := ss.postForm(ctx, "/v1/payment_intents", form)
	if err != nil {
		return "", err
	}
	if intent.ClientSecret == "" {
		return "", fmt.Errorf("stripe returned no client secret")
	}
	return intent.ClientSecret, nil
}

// ConfirmCardPayment confirms the intent behind the client secret with the
// given payment method and reports the resulting status plus the intent id as
// the payment reference.
func (ss *StripeService) ConfirmCardPayment(ctx context.Context, clientSecret, paymentMethodID string) (PaymentResult, error) {
	intentID := intentIDFromClientSecret(clientSecret)
	if intentID == "" {
		return PaymentResult{}, fmt.Errorf("invalid client secret")
	}

	form := url.Values{}
	form.Set("payment_method", paymentMethodID)

	intent, err := ss.postForm(ctx, fmt.Sprintf("/v1/payment_intents/%s/confirm", intentID), form)
	if err != nil {
		return PaymentResult{}, err
	}

	return PaymentResult{
		Status:      intent.Status,
		ReferenceID: intent.ID,
	}, nil
}

func (ss *StripeService) postForm(ctx context.Context, path string, form url.Values) (*stripeIntent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ss.baseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+ss.config.SecretKey)

	resp, err := ss.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		var stripeErr stripeErrorResponse
		if err := json.Unmarshal(body, &stripeErr); err == nil && stripeErr.Error.Message != "" {
			return nil, fmt.Errorf("stripe error: %s", stripeErr.Error.Message)
		}
		return nil, fmt.Errorf("stripe returned status %d", resp.StatusCode)
	}

	var intent stripeIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("error parsing response: %v", err)
	}
	return &intent, nil
}

// intentIDFromClientSecret extracts "pi_123" from "pi_123_secret_456".
func intentIDFromClientSecret(clientSecret string) string {
	idx := strings.Index(clientSecret, "_secret")
	if idx <= 0 {
		return ""
	}
	return clientSecret[:idx]
}
