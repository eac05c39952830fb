// Package classification guesses whether an uploaded photo shows electronic waste.
package classification

import (
	"context"

	"ewaste_pickup_backend/internal/adapters/storage"
	"ewaste_pickup_backend/internal/classification/classifier"
	"ewaste_pickup_backend/internal/classification/handler"
	"ewaste_pickup_backend/internal/classification/service"
	apphttp "ewaste_pickup_backend/internal/http"
	"ewaste_pickup_backend/platform/config"
	"ewaste_pickup_backend/platform/logger"
)

// Module is the classification bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule wires the Gemini classifier when an API key is configured.
// archive may be nil when object storage is disabled.
func NewModule(ctx context.Context, cfg config.ClassifierConfig, archive storage.PhotoArchive, log *logger.Logger) *Module {
	var remote classifier.Classifier
	if cfg.IsClassifierEnabled() {
		gen, err := classifier.NewGenAIGenerator(ctx, cfg.GetGeminiAPIKey(), cfg.GetGeminiModel())
		if err != nil {
			log.Error("gemini client unavailable, classification disabled", "error", err)
		} else {
			remote = classifier.NewRemote(gen, log)
			log.Info("image classifier enabled", "model", cfg.GetGeminiModel())
		}
	} else {
		log.Warn("GEMINI_API_KEY not set, image classification disabled")
	}

	selector := classifier.NewSelector(remote, classifier.NewHeuristic(), log)
	svc := service.New(selector, archive, cfg.GetClassifierMaxImageBytes(), log)
	return &Module{handler: handler.New(svc, cfg.GetClassifierMaxImageBytes())}
}

func (m *Module) Name() string {
	return "classification"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/ai/health", m.handler.Health)
	ctx.Protected.POST("/ai/classify-image", m.handler.ClassifyImage)
}

var _ apphttp.Module = (*Module)(nil)
