package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStripeService_ValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  *StripeConfig
		wantErr bool
	}{
		{
			name: "valid config",
			config: &StripeConfig{
				SecretKey:      "sk_test_123",
				PublishableKey: "pk_test_123",
				Currency:       "usd",
			},
			wantErr: false,
		},
		{
			name: "missing secret key",
			config: &StripeConfig{
				PublishableKey: "pk_test_123",
				Currency:       "usd",
			},
			wantErr: true,
		},
		{
			name: "missing publishable key",
			config: &StripeConfig{
				SecretKey: "sk_test_123",
				Currency:  "usd",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ss := &StripeService{
				config: tt.config,
			}
			err := ss.ValidateConfig()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStripeService_CreatePaymentIntent(t *testing.T) {
	tests := []struct {
		name             string
		mockResponse     string
		mockStatusCode   int
		wantClientSecret string
		wantErr          bool
	}{
		{
			name:             "intent created",
			mockResponse:     `{"id": "pi_123", "client_secret": "pi_123_secret_456", "status": "requires_payment_method"}`,
			mockStatusCode:   http.StatusOK,
			wantClientSecret: "pi_123_secret_456",
			wantErr:          false,
		},
		{
			name:           "missing client secret",
			mockResponse:   `{"id": "pi_123", "status": "requires_payment_method"}`,
			mockStatusCode: http.StatusOK,
			wantErr:        true,
		},
		{
			name:           "api error",
			mockResponse:   `{"error": {"message": "Invalid API Key provided", "code": "invalid_api_key"}}`,
			mockStatusCode: http.StatusUnauthorized,
			wantErr:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.mockStatusCode)
				w.Write([]byte(tt.mockResponse))
			}))
			defer server.Close()

			ss := &StripeService{
				config: &StripeConfig{
					SecretKey: "sk_test_123",
					Currency:  "usd",
				},
				httpClient: server.Client(),
				baseURL:    server.URL,
			}

			secret, err := ss.CreatePaymentIntent(context.Background(), 2399)
			if (err != nil) != tt.wantErr {
				t.Errorf("CreatePaymentIntent() error = %v, wantErr %v", err, tt.wantErr)
			}
			if secret != tt.wantClientSecret {
				t.Errorf("CreatePaymentIntent() secret = %v, want %v", secret, tt.wantClientSecret)
			}
		})
	}
}

func TestStripeService_ConfirmCardPayment(t *testing.T) {
	tests := []struct {
		name           string
		clientSecret   string
		mockResponse   string
		mockStatusCode int
		wantStatus     string
		wantRef        string
		wantErr        bool
	}{
		{
			name:           "payment succeeded",
			clientSecret:   "pi_123_secret_456",
			mockResponse:   `{"id": "pi_123", "status": "succeeded"}`,
			mockStatusCode: http.StatusOK,
			wantStatus:     "succeeded",
			wantRef:        "pi_123",
			wantErr:        false,
		},
		{
			name:           "card declined",
			clientSecret:   "pi_123_secret_456",
			mockResponse:   `{"error": {"message": "Your card was declined.", "code": "card_declined"}}`,
			mockStatusCode: http.StatusPaymentRequired,
			wantErr:        true,
		},
		{
			name:         "malformed client secret",
			clientSecret: "not-a-client-secret",
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.mockStatusCode)
				w.Write([]byte(tt.mockResponse))
			}))
			defer server.Close()

			ss := &StripeService{
				config: &StripeConfig{
					SecretKey: "sk_test_123",
					Currency:  "usd",
				},
				httpClient: server.Client(),
				baseURL:    server.URL,
			}

			result, err := ss.ConfirmCardPayment(context.Background(), tt.clientSecret, "pm_card_visa")
			if (err != nil) != tt.wantErr {
				t.Errorf("ConfirmCardPayment() error = %v, wantErr %v", err, tt.wantErr)
			}
			if result.Status != tt.wantStatus {
				t.Errorf("ConfirmCardPayment() status = %v, want %v", result.Status, tt.wantStatus)
			}
			if result.ReferenceID != tt.wantRef {
				t.Errorf("ConfirmCardPayment() reference = %v, want %v", result.ReferenceID, tt.wantRef)
			}
		})
	}
}

func TestIntentIDFromClientSecret(t *testing.T) {
	tests := []struct {
		name         string
		clientSecret string
		want         string
	}{
		{"well formed", "pi_3ABC_secret_XYZ", "pi_3ABC"},
		{"no secret marker", "pi_3ABC", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := intentIDFromClientSecret(tt.clientSecret); got != tt.want {
				t.Errorf("intentIDFromClientSecret() = %v, want %v", got, tt.want)
			}
		})
	}
}
