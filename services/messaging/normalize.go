package messaging

import (
	"encoding/json"
	"strings"
	"time"

	"turnero/models"
)

// NormalizeE164 reduces a channel-specific address ("whatsapp:+54911...")
// to bare digits, the key format used across the store.
func NormalizeE164(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "whatsapp:", ""))
	s = strings.TrimPrefix(s, "+")
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Minimal view of the Meta Cloud API webhook payload. Only the fields the
// booking flow needs are parsed; everything else is ignored.
type metaWebhook struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Metadata struct {
					DisplayPhoneNumber string `json:"display_phone_number"`
				} `json:"metadata"`
				Contacts []struct {
					Profile struct {
						Name string `json:"name"`
					} `json:"profile"`
					WaID string `json:"wa_id"`
				} `json:"contacts"`
				Messages []struct {
					From string `json:"from"`
					ID   string `json:"id"`
					Type string `json:"type"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// ParseMetaWebhook extracts the text messages of a webhook delivery as
// uniform inbound records. Non-text messages are dropped (explicit no-op).
func ParseMetaWebhook(body []byte, receivedAt time.Time) ([]models.Inbound, error) {
	var payload metaWebhook
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	var inbound []models.Inbound
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			v := change.Value
			names := make(map[string]string, len(v.Contacts))
			for _, c := range v.Contacts {
				names[NormalizeE164(c.WaID)] = c.Profile.Name
			}
			for _, msg := range v.Messages {
				if msg.Type != "text" {
					continue
				}
				from := NormalizeE164(msg.From)
				inbound = append(inbound, models.Inbound{
					FromE164:   from,
					ToE164:     NormalizeE164(v.Metadata.DisplayPhoneNumber),
					MessageID:  msg.ID,
					FromName:   names[from],
					Text:       msg.Text.Body,
					ReceivedAt: receivedAt,
				})
			}
		}
	}
	return inbound, nil
}
