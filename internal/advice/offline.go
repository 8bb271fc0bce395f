package advice

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sprite-ai/veloratio/internal/analysis"
	"github.com/sprite-ai/veloratio/internal/model"
)

// OfflineGenerator answers from rules of thumb without a network call.
type OfflineGenerator struct{}

func NewOfflineGenerator() *OfflineGenerator { return &OfflineGenerator{} }

func (o *OfflineGenerator) Name() string { return "Offline" }
func (o *OfflineGenerator) Close() error { return nil }

// GenerateJSON ignores prompt and reasons over input, which must be a Request.
func (o *OfflineGenerator) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var req Request
	switch v := input.(type) {
	case Request:
		req = v
	case *Request:
		req = *v
	default:
		return nil, fmt.Errorf("offline advice: unsupported input %T", input)
	}
	r := offlineAdvice(req)
	return json.Marshal(reply{Advice: r.Advice, Category: r.Category.String()})
}

func offlineAdvice(req Request) model.AdviceResult {
	switch {
	case req.GearClass == analysis.ClassCrossChain:
		return model.AdviceResult{
			Category: model.CategoryCrossChain,
			Advice:   fmt.Sprintf("The %dx%d combination crosses the chain; switch chainrings and pick a cog nearer the middle.", req.FrontTeeth, req.RearTeeth),
		}
	case req.GearClass == analysis.ClassGrinding:
		return model.AdviceResult{
			Category: model.CategoryClimbing,
			Advice:   fmt.Sprintf("At %g%% the big ring is a grind; drop to the small ring and keep cadence above 80 RPM.", req.GradientPercent),
		}
	case req.GearClass == analysis.ClassClimbing || req.GradientPercent >= 4:
		return model.AdviceResult{
			Category: model.CategoryClimbing,
			Advice:   fmt.Sprintf("Settle in and hold about %d W seated; smooth pedal strokes waste less on the climb.", int(req.PowerWatts)),
		}
	case req.GearClass == analysis.ClassSprint || req.SpeedKmh >= 40:
		return model.AdviceResult{
			Category: model.CategorySprinting,
			Advice:   "You are in a big gear at high speed; get low on the drops to cut drag before you kick.",
		}
	case req.CadenceRPM < 70:
		return model.AdviceResult{
			Category: model.CategoryCruising,
			Advice:   fmt.Sprintf("%d RPM is heavy on the knees; shift one or two cogs easier and spin closer to 90.", req.CadenceRPM),
		}
	case req.WindKmh >= 15:
		return model.AdviceResult{
			Category: model.CategoryCruising,
			Advice:   "Into a strong headwind, tuck in and accept a lower speed rather than chasing it with power.",
		}
	default:
		return model.AdviceResult{
			Category: model.CategoryCruising,
			Advice:   "Good cruising gear; keep the cadence steady and save your legs for the hills.",
		}
	}
}
