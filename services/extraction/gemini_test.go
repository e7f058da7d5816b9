package extraction

import (
	"testing"
	"time"

	"turnero/models"
)

func TestGeminiPayloadMissingServiceNotComplete(t *testing.T) {
	// A model reply that resolved date and time but no service must not
	// come back complete when several services are enabled.
	p := geminiPayload{Fecha: "2025-09-10", Hora: "14:30"}

	res := p.toResult(time.UTC, twoServices())

	if res.Complete() {
		t.Fatal("result reported complete with no service resolved")
	}
	found := false
	for _, m := range res.Missing {
		if m == models.MissingService {
			found = true
		}
	}
	if !found {
		t.Errorf("missing = %v, want it to include %q", res.Missing, models.MissingService)
	}
	if res.Clarify != copyAskService {
		t.Errorf("clarify = %q, want service question", res.Clarify)
	}
	if res.LocalStart == nil {
		t.Fatal("expected date and time to resolve")
	}
	want := time.Date(2025, time.September, 10, 14, 30, 0, 0, time.UTC)
	if !res.LocalStart.Equal(want) {
		t.Errorf("local start = %v, want %v", res.LocalStart, want)
	}
}

func TestGeminiPayloadAssumesSingleService(t *testing.T) {
	p := geminiPayload{Fecha: "2025-09-10", Hora: "09:00"}

	res := p.toResult(time.UTC, singleService())

	if !res.Complete() {
		t.Fatalf("result incomplete, missing = %v", res.Missing)
	}
	if res.Service != "Consulta general" {
		t.Errorf("service = %q, want the only enabled one", res.Service)
	}
	if res.DurationMin != 30 {
		t.Errorf("duration = %d, want 30 from the offering", res.DurationMin)
	}
}

func TestGeminiPayloadDateTimeQuestionTakesPriority(t *testing.T) {
	// When both service and date/time are unresolved the single clarifying
	// question asks for date and time.
	p := geminiPayload{}

	res := p.toResult(time.UTC, twoServices())

	if res.Complete() {
		t.Fatal("empty payload reported complete")
	}
	if res.Clarify != copyAskDateTime {
		t.Errorf("clarify = %q, want date/time question", res.Clarify)
	}
}

func TestGeminiPayloadKeepsModelCopy(t *testing.T) {
	p := geminiPayload{
		Servicio: "Control",
		Faltan:   []string{models.MissingDateTime},
		Copy:     "¿Qué día te queda bien?",
	}

	res := p.toResult(time.UTC, twoServices())

	if res.Clarify != "¿Qué día te queda bien?" {
		t.Errorf("clarify = %q, want the model's own question kept", res.Clarify)
	}
	if len(res.Missing) != 1 || res.Missing[0] != models.MissingDateTime {
		t.Errorf("missing = %v, want only the date/time tag", res.Missing)
	}
}
