package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// WhatsAppProvider defines the interface for WhatsApp API providers
type WhatsAppProvider interface {
	// SendMedia sends body with one attached document to an E.164 number and returns the provider message id
	SendMedia(ctx context.Context, to, body, mediaURL string) (string, error)
	GetName() string
}

// WhatsAppConfig holds configuration for WhatsApp providers
type WhatsAppConfig struct {
	Provider      string // "twilio", "meta", "mock"
	AccountSID    string // Twilio account SID
	AuthToken     string // Twilio auth token
	FromNumber    string // Sender number, with or without the whatsapp: prefix
	APIKey        string // Meta access token
	PhoneNumberID string // Meta WhatsApp Phone Number ID
	BaseURL       string
}

var ErrInvalidNumber = errors.New("invalid mobile number")

// NormalizePhone turns a stored Indian mobile number into E.164 (+91XXXXXXXXXX).
// A leading +91, 91 (on 12 digits) or 0 is dropped along with any separators.
func NormalizePhone(phone string) (string, error) {
	p := strings.TrimSpace(phone)
	p = strings.TrimPrefix(p, "+91")

	var digits strings.Builder
	for _, c := range p {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	cleaned := digits.String()

	if len(cleaned) == 12 && strings.HasPrefix(cleaned, "91") {
		cleaned = cleaned[2:]
	}
	cleaned = strings.TrimPrefix(cleaned, "0")

	if len(cleaned) != 10 {
		return "", fmt.Errorf("%w: %q", ErrInvalidNumber, phone)
	}
	return "+91" + cleaned, nil
}

// TwilioService implements WhatsApp via the Twilio Messages API
type TwilioService struct {
	config *WhatsAppConfig
	client *http.Client
}

// NewTwilioService creates a new Twilio WhatsApp service
func NewTwilioService(accountSID, authToken, fromNumber string) *TwilioService {
	return &TwilioService{
		config: &WhatsAppConfig{
			Provider:   "twilio",
			AccountSID: accountSID,
			AuthToken:  authToken,
			FromNumber: fromNumber,
			BaseURL:    "https://api.twilio.com/2010-04-01",
		},
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetBaseURL allows overriding the API base URL
func (s *TwilioService) SetBaseURL(u string) {
	s.config.BaseURL = strings.TrimRight(u, "/")
}

// SendMedia sends a WhatsApp message with a media attachment via Twilio
func (s *TwilioService) SendMedia(ctx context.Context, to, body, mediaURL string) (string, error) {
	form := url.Values{}
	form.Set("From", whatsappAddress(s.config.FromNumber))
	form.Set("To", whatsappAddress(to))
	form.Set("Body", body)
	if mediaURL != "" {
		form.Set("MediaUrl", mediaURL)
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.config.BaseURL, s.config.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.config.AccountSID, s.config.AuthToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errResp struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Message != "" {
			return "", fmt.Errorf("Twilio API error %d: %s", errResp.Code, errResp.Message)
		}
		return "", fmt.Errorf("Twilio API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var msg struct {
		SID string `json:"sid"`
	}
	if err := json.Unmarshal(respBody, &msg); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return msg.SID, nil
}

// GetName returns the provider name
func (s *TwilioService) GetName() string {
	return "Twilio"
}

func whatsappAddress(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}

// GenericWhatsAppService implements WhatsApp via Meta Cloud API (works with any BSP)
type GenericWhatsAppService struct {
	config *WhatsAppConfig
	client *http.Client
}

// NewGenericWhatsAppService creates a new Generic WhatsApp service
// apiKey: Access Token from Meta Business Suite or BSP
// phoneNumberID: WhatsApp Business Phone Number ID
func NewGenericWhatsAppService(apiKey, phoneNumberID string) *GenericWhatsAppService {
	return &GenericWhatsAppService{
		config: &WhatsAppConfig{
			Provider:      "meta",
			APIKey:        apiKey,
			PhoneNumberID: phoneNumberID,
			BaseURL:       "https://graph.facebook.com/v18.0",
		},
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetBaseURL allows overriding the API base URL (for BSP proxies)
func (s *GenericWhatsAppService) SetBaseURL(u string) {
	s.config.BaseURL = strings.TrimRight(u, "/")
}

// SendMedia sends a document message; the body becomes the caption
func (s *GenericWhatsAppService) SendMedia(ctx context.Context, to, body, mediaURL string) (string, error) {
	document := map[string]string{
		"link":    mediaURL,
		"caption": body,
	}
	if name := fileNameFromURL(mediaURL); name != "" {
		document["filename"] = name
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                strings.TrimPrefix(to, "+"),
		"type":              "document",
		"document":          document,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/messages", s.config.BaseURL, s.config.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		// Parse error response
		var errResp map[string]interface{}
		if json.Unmarshal(respBody, &errResp) == nil {
			if errObj, ok := errResp["error"].(map[string]interface{}); ok {
				if msg, ok := errObj["message"].(string); ok {
					return "", fmt.Errorf("WhatsApp API error: %s", msg)
				}
			}
		}
		return "", fmt.Errorf("WhatsApp API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var sent struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	if json.Unmarshal(respBody, &sent) == nil && len(sent.Messages) > 0 {
		return sent.Messages[0].ID, nil
	}
	return "", nil
}

// GetName returns the provider name
func (s *GenericWhatsAppService) GetName() string {
	return "Generic (Meta Cloud API)"
}

func fileNameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	idx := strings.LastIndex(u.Path, "/")
	return u.Path[idx+1:]
}

// SentMessage is a message recorded by MockService
type SentMessage struct {
	To       string
	Body     string
	MediaURL string
}

// MockService only logs messages. Used in development when no provider is configured.
type MockService struct {
	mu   sync.Mutex
	sent []SentMessage
}

func NewMockService() *MockService {
	return &MockService{}
}

func (s *MockService) SendMedia(ctx context.Context, to, body, mediaURL string) (string, error) {
	s.mu.Lock()
	s.sent = append(s.sent, SentMessage{To: to, Body: body, MediaURL: mediaURL})
	n := len(s.sent)
	s.mu.Unlock()

	log.Printf("[WhatsApp] (mock) to=%s media=%s body=%q", to, mediaURL, body)
	return fmt.Sprintf("mock-%d", n), nil
}

// Sent returns a copy of every message sent so far
func (s *MockService) Sent() []SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SentMessage(nil), s.sent...)
}

func (s *MockService) GetName() string {
	return "Mock"
}

// CreateWhatsAppProvider creates a WhatsApp provider based on provider name
func CreateWhatsAppProvider(cfg WhatsAppConfig) WhatsAppProvider {
	var p WhatsAppProvider
	switch strings.ToLower(cfg.Provider) {
	case "twilio":
		t := NewTwilioService(cfg.AccountSID, cfg.AuthToken, cfg.FromNumber)
		if cfg.BaseURL != "" {
			t.SetBaseURL(cfg.BaseURL)
		}
		p = t
	case "generic", "meta", "cloud":
		g := NewGenericWhatsAppService(cfg.APIKey, cfg.PhoneNumberID)
		if cfg.BaseURL != "" {
			g.SetBaseURL(cfg.BaseURL)
		}
		p = g
	case "mock":
		p = NewMockService()
	default:
		// Default to Twilio when credentials are present
		if cfg.AccountSID != "" && cfg.AuthToken != "" {
			p = NewTwilioService(cfg.AccountSID, cfg.AuthToken, cfg.FromNumber)
		} else {
			p = NewMockService()
		}
	}
	return p
}
