package extraction

import (
	"context"
	"time"

	"turnero/models"
	"turnero/utils"

	"go.uber.org/zap"
)

// Input carries the context an utterance is interpreted against.
type Input struct {
	Timezone string // professional's IANA zone
	Services []models.ServiceOffering
	Now      time.Time
}

// Extractor turns an utterance into a best-effort ExtractionResult. It never
// fails: unresolvable fields come back in Missing with a clarifying prompt.
type Extractor interface {
	Extract(ctx context.Context, text string, in Input) models.ExtractionResult
}

// Delegate is a higher-quality extraction provider (e.g. an LLM). It may
// fail or time out; callers fall back to the heuristic rules.
type Delegate interface {
	Extract(ctx context.Context, text string, in Input) (models.ExtractionResult, error)
}

// FallbackExtractor tries the delegate first and falls back synchronously to
// the heuristic on any failure. No retry loop.
type FallbackExtractor struct {
	Delegate  Delegate
	Heuristic Extractor
	Timeout   time.Duration
}

func (f *FallbackExtractor) Extract(ctx context.Context, text string, in Input) models.ExtractionResult {
	if f.Delegate != nil {
		timeout := f.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		dctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		res, err := f.Delegate.Extract(dctx, text, in)
		if err == nil {
			return res
		}
		utils.GetLogger().Warn("extraction delegate failed, using heuristic", zap.Error(err))
	}
	return f.Heuristic.Extract(ctx, text, in)
}
