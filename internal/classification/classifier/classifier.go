// Package classifier decides whether a photo shows electronic waste. A remote
// vision model is preferred; a local heuristic covers its failures.
package classifier

import (
	"context"

	"ewaste_pickup_backend/internal/classification/domain"
	"ewaste_pickup_backend/platform/apperr"
	"ewaste_pickup_backend/platform/logger"
)

// Classifier labels one image.
type Classifier interface {
	Classify(ctx context.Context, img domain.Image) (domain.Result, error)
}

// negativeThreshold is the confidence at which a remote "not e-waste" answer is trusted.
const negativeThreshold = 0.5

// Selector picks between the remote classifier and the local fallback.
type Selector struct {
	remote   Classifier
	fallback Classifier
	log      *logger.Logger
}

// NewSelector accepts a nil remote, in which case classification is unavailable.
func NewSelector(remote, fallback Classifier, log *logger.Logger) *Selector {
	return &Selector{remote: remote, fallback: fallback, log: log}
}

// Available reports whether a remote classifier is configured.
func (s *Selector) Available() bool {
	return s.remote != nil
}

// Classify returns the remote result unless the remote failed or gave a
// low-confidence negative, in which case the fallback decides.
func (s *Selector) Classify(ctx context.Context, img domain.Image) (domain.Result, error) {
	if s.remote == nil {
		return domain.Result{}, apperr.Unavailable("image classification service not available")
	}

	res, err := s.remote.Classify(ctx, img)
	switch {
	case err != nil:
		s.log.Warn("remote classifier error, using fallback", "error", err)
	case res.Failed:
		s.log.Warn("remote classifier failed, using fallback", "message", res.Message)
	case res.IsElectronicWaste:
		return res, nil
	case res.Confidence >= negativeThreshold:
		return res, nil
	default:
		s.log.Info("low confidence negative, using fallback", "confidence", res.Confidence)
	}

	return s.fallback.Classify(ctx, img)
}
