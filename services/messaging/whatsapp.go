package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const graphAPIBase = "https://graph.facebook.com/v20.0"

// WhatsAppSender sends texts through the WhatsApp Cloud API.
type WhatsAppSender struct {
	http    *http.Client
	token   string
	phoneID string
}

func NewWhatsAppSender(token, phoneID string) *WhatsAppSender {
	return &WhatsAppSender{
		http:    &http.Client{Timeout: 15 * time.Second},
		token:   token,
		phoneID: phoneID,
	}
}

func (s *WhatsAppSender) Send(ctx context.Context, toE164, text string) (string, error) {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                NormalizeE164(toE164),
		"type":              "text",
		"text":              map[string]string{"body": text},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal message payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", graphAPIBase, s.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	res, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp send failed: %w", err)
	}
	defer res.Body.Close()

	resBody, _ := io.ReadAll(res.Body)
	if res.StatusCode >= 300 {
		return "", fmt.Errorf("whatsapp send failed with status %d: %s", res.StatusCode, resBody)
	}

	var parsed struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(resBody, &parsed); err != nil || len(parsed.Messages) == 0 {
		return "", nil
	}
	return parsed.Messages[0].ID, nil
}
