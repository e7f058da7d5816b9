package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"turnero/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiExtractor asks Gemini for a structured reading of the utterance.
// Any API failure is returned as-is so the caller can fall back.
type GeminiExtractor struct {
	model *genai.GenerativeModel
}

func NewGeminiExtractor(apiKey string) (*GeminiExtractor, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("models/gemini-1.5-pro")
	model.ResponseMIMEType = "application/json"
	return &GeminiExtractor{model: model}, nil
}

// geminiPayload is the JSON shape the prompt requests.
type geminiPayload struct {
	Servicio    string   `json:"servicio"`
	Fecha       string   `json:"fecha"` // "2006-01-02"
	Hora        string   `json:"hora"`  // "15:04"
	DuracionMin int      `json:"duracion_min"`
	Modalidad   string   `json:"modalidad"` // "presencial" | "virtual" | ""
	Faltan      []string `json:"faltan"`
	Copy        string   `json:"copy"`
}

func (g *GeminiExtractor) Extract(ctx context.Context, text string, in Input) (models.ExtractionResult, error) {
	loc := loadLocation(in.Timezone)
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.In(loc)

	names := make([]string, 0, len(in.Services))
	for _, s := range in.Services {
		names = append(names, s.Name)
	}

	prompt := fmt.Sprintf(
		"Sos un asistente de turnos por WhatsApp. Hoy es %s (%s). "+
			"Servicios disponibles: %s. "+
			"Extraé del mensaje del paciente un JSON con: servicio (string), "+
			"fecha (YYYY-MM-DD), hora (HH:MM, 24h), duracion_min (int), "+
			"modalidad (presencial|virtual), faltan (lista: \"servicio\" y/o \"fecha y hora\"), "+
			"copy (una sola repregunta breve, tono rioplatense, o vacía). "+
			"Dejá vacío lo que no puedas resolver.\n\nMensaje: %s",
		now.Format("2006-01-02 15:04"), now.Weekday(), strings.Join(names, ", "), text,
	)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return models.ExtractionResult{}, fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return models.ExtractionResult{}, fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}

	raw := strings.TrimSpace(sb.String())
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var payload geminiPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		return models.ExtractionResult{}, fmt.Errorf("gemini returned unparseable payload: %w", err)
	}

	return payload.toResult(loc, in.Services), nil
}

// toResult applies the same completeness rules as the heuristic path, so a
// sloppy model reply cannot yield a result that claims to be complete.
func (p geminiPayload) toResult(loc *time.Location, services []models.ServiceOffering) models.ExtractionResult {
	res := models.ExtractionResult{
		Service:     p.Servicio,
		DurationMin: p.DuracionMin,
		Clarify:     p.Copy,
		Missing:     p.Faltan,
	}
	if res.Missing == nil {
		res.Missing = []string{}
	}

	switch p.Modalidad {
	case "virtual":
		res.Modality = models.ModalityRemote
	case "presencial":
		res.Modality = models.ModalityInPerson
	}

	if p.Fecha != "" && p.Hora != "" {
		if t, err := time.ParseInLocation("2006-01-02 15:04", p.Fecha+" "+p.Hora, loc); err == nil {
			res.LocalStart = &t
		}
	}
	if res.Service == "" {
		if len(services) == 1 {
			res.Service = services[0].Name
			if res.DurationMin == 0 {
				res.DurationMin = services[0].DurationMin
			}
		} else if len(services) > 1 && !contains(res.Missing, models.MissingService) {
			res.Missing = append(res.Missing, models.MissingService)
		}
	}

	if res.LocalStart == nil && !contains(res.Missing, models.MissingDateTime) {
		res.Missing = append(res.Missing, models.MissingDateTime)
	}
	if res.Clarify == "" {
		if contains(res.Missing, models.MissingDateTime) {
			res.Clarify = copyAskDateTime
		} else if contains(res.Missing, models.MissingService) {
			res.Clarify = copyAskService
		}
	}
	return res
}

func contains(xs []string, want string) bool {
	for _, x := range xs {
		if strings.EqualFold(x, want) {
			return true
		}
	}
	return false
}
