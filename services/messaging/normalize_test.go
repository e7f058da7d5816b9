package messaging

import (
	"testing"
	"time"
)

func TestNormalizeE164(t *testing.T) {
	cases := []struct{ in, want string }{
		{"+5491144445555", "5491144445555"},
		{"whatsapp:+5491144445555", "5491144445555"},
		{"54 9 11 4444-5555", "5491144445555"},
		{"  +54 (911) 4444 5555 ", "5491144445555"},
		{"5491144445555", "5491144445555"},
	}
	for _, tc := range cases {
		if got := NormalizeE164(tc.in); got != tc.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseMetaWebhookTextOnly(t *testing.T) {
	body := []byte(`{
		"entry": [{
			"changes": [{
				"value": {
					"metadata": {"display_phone_number": "+54 911 0000 0000"},
					"contacts": [{"profile": {"name": "Ana López"}, "wa_id": "5491144445555"}],
					"messages": [
						{"from": "5491144445555", "id": "wamid.1", "type": "text", "text": {"body": "consulta el martes 14:30"}},
						{"from": "5491144445555", "id": "wamid.2", "type": "image"}
					]
				}
			}]
		}]
	}`)

	received := time.Date(2025, time.September, 3, 13, 0, 0, 0, time.UTC)
	inbound, err := ParseMetaWebhook(body, received)
	if err != nil {
		t.Fatalf("ParseMetaWebhook: %v", err)
	}
	if len(inbound) != 1 {
		t.Fatalf("got %d inbound messages, want 1 (non-text dropped)", len(inbound))
	}

	in := inbound[0]
	if in.FromE164 != "5491144445555" {
		t.Errorf("from = %q", in.FromE164)
	}
	if in.ToE164 != "5491100000000" {
		t.Errorf("to = %q, want normalized display number", in.ToE164)
	}
	if in.FromName != "Ana López" {
		t.Errorf("fromName = %q", in.FromName)
	}
	if in.Text != "consulta el martes 14:30" {
		t.Errorf("text = %q", in.Text)
	}
	if !in.ReceivedAt.Equal(received) {
		t.Errorf("receivedAt = %v", in.ReceivedAt)
	}
}

func TestParseMetaWebhookBadPayload(t *testing.T) {
	if _, err := ParseMetaWebhook([]byte("not json"), time.Now()); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestParseMetaWebhookEmptyDelivery(t *testing.T) {
	inbound, err := ParseMetaWebhook([]byte(`{"entry": []}`), time.Now())
	if err != nil {
		t.Fatalf("ParseMetaWebhook: %v", err)
	}
	if len(inbound) != 0 {
		t.Errorf("got %d inbound messages, want 0", len(inbound))
	}
}
