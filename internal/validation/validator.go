package validation

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"liberia/internal/external"
	"liberia/internal/middleware"
	"liberia/internal/models"
)

// DeploymentValidator - проверка развернутого сервиса снаружи
type DeploymentValidator struct {
	baseURL       string
	webhookSecret string
	sessionToken  string
	client        *http.Client
}

// NewDeploymentValidator создает новый валидатор. sessionToken may be empty,
// then the authenticated checks are skipped.
func NewDeploymentValidator(baseURL, webhookSecret, sessionToken string) *DeploymentValidator {
	return &DeploymentValidator{
		baseURL:       baseURL,
		webhookSecret: webhookSecret,
		sessionToken:  sessionToken,
		client:        &http.Client{Timeout: 10 * time.Second},
	}
}

// ValidateAll проверяет все точки входа
func (v *DeploymentValidator) ValidateAll() error {
	log.Println("Начинаю проверку развертывания...")

	if err := v.validateHealth(); err != nil {
		return fmt.Errorf("health validation failed: %w", err)
	}

	if err := v.validateWebhookPing(); err != nil {
		return fmt.Errorf("webhook validation failed: %w", err)
	}

	if err := v.validateAuth(); err != nil {
		return fmt.Errorf("auth validation failed: %w", err)
	}

	log.Println("✅ Все проверки пройдены успешно!")
	return nil
}

func (v *DeploymentValidator) validateHealth() error {
	resp, err := v.makeRequest(http.MethodGet, "/health", nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET /health: expected 200, got %d", resp.StatusCode)
	}

	log.Println("✅ /health отвечает")
	return nil
}

// validateWebhookPing sends what the store sends when a webhook is created.
func (v *DeploymentValidator) validateWebhookPing() error {
	body := []byte(`{"webhook_id":1}`)
	headers := map[string]string{
		"Content-Type":                   "application/json",
		external.HeaderWebhookTopic:      "action.woocommerce_webhook_ping",
		external.HeaderWebhookDeliveryID: "validation",
	}
	if v.webhookSecret != "" {
		headers[external.HeaderWebhookSignature] = external.SignWebhook(body, v.webhookSecret)
	}

	resp, err := v.makeRequest(http.MethodPost, "/api/webhook/woocommerce", body, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("POST /api/webhook/woocommerce: expected 200, got %d", resp.StatusCode)
	}

	var out models.WebhookResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("POST /api/webhook/woocommerce: failed to decode response: %w", err)
	}
	if !out.Success || out.Action != "ping" {
		return fmt.Errorf("POST /api/webhook/woocommerce: expected ping acknowledgement, got %+v", out)
	}

	log.Println("✅ Webhook принимает ping")
	return nil
}

func (v *DeploymentValidator) validateAuth() error {
	resp, err := v.makeRequest(http.MethodGet, "/api/reservas", nil, nil)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
	case http.StatusOK:
		log.Println("⚠️  /api открыт без сессии (AUTH_ENABLED=false)")
	default:
		return fmt.Errorf("GET /api/reservas without session: expected 401, got %d", resp.StatusCode)
	}

	if v.sessionToken == "" {
		return nil
	}

	resp, err = v.makeRequest(http.MethodGet, "/api/reservas?per_page=1", nil, map[string]string{
		middleware.HeaderSessionToken: v.sessionToken,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET /api/reservas: expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-WP-Total") == "" {
		return fmt.Errorf("GET /api/reservas: missing X-WP-Total header")
	}

	log.Println("✅ /api/reservas доступен с сессией")
	return nil
}

func (v *DeploymentValidator) makeRequest(method, path string, body []byte, headers map[string]string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, v.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}

	return resp, nil
}

// RunValidation запускает проверку развертывания; флаги читаются после
// подкоманды "validate".
func RunValidation() {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	baseURL := fs.String("url", "http://localhost:8081", "Base URL of the deployed API")
	secret := fs.String("webhook-secret", os.Getenv("WOO_WEBHOOK_SECRET"), "Secret used to sign the ping")
	token := fs.String("token", os.Getenv("VALIDATION_SESSION_TOKEN"), "Session token for authenticated checks")

	args := os.Args[1:]
	if len(args) > 0 && args[0] == "validate" {
		args = args[1:]
	}
	fs.Parse(args)

	log.Printf("Starting deployment validation against: %s", *baseURL)

	validator := NewDeploymentValidator(*baseURL, *secret, *token)
	if err := validator.ValidateAll(); err != nil {
		log.Fatalf("❌ Валидация не пройдена: %v", err)
	}
}
