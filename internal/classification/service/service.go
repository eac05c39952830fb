// Package service validates uploads, runs the classifier and archives photos.
package service

import (
	"context"
	"strings"

	"ewaste_pickup_backend/internal/adapters/storage"
	"ewaste_pickup_backend/internal/classification/classifier"
	"ewaste_pickup_backend/internal/classification/domain"
	"ewaste_pickup_backend/platform/apperr"
	"ewaste_pickup_backend/platform/authz"
	"ewaste_pickup_backend/platform/logger"
)

const (
	msgInvalidImage = "Please upload a valid image file (JPEG, PNG, etc.)"
	msgTooLarge     = "File too large. Please upload an image smaller than 10MB."
)

// Upload is a received photo. Size is the byte count the client declared or
// that was read, whichever is larger.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// Outcome is the classification plus where the photo was archived, if anywhere.
type Outcome struct {
	Result   domain.Result
	PhotoKey *string
}

type Service struct {
	selector *classifier.Selector
	archive  storage.PhotoArchive
	maxBytes int64
	log      *logger.Logger
}

// New accepts a nil archive, in which case photos are not kept.
func New(selector *classifier.Selector, archive storage.PhotoArchive, maxBytes int64, log *logger.Logger) *Service {
	return &Service{selector: selector, archive: archive, maxBytes: maxBytes, log: log}
}

// Available reports whether a remote classifier is configured.
func (s *Service) Available() bool {
	return s.selector.Available()
}

func (s *Service) Classify(ctx context.Context, actor authz.Actor, up Upload) (Outcome, error) {
	if err := actor.Require(authz.ClassifyImage); err != nil {
		return Outcome{}, err
	}
	if !s.selector.Available() {
		return Outcome{}, apperr.Unavailable("image classification service not available")
	}
	if !strings.HasPrefix(strings.ToLower(up.ContentType), "image/") {
		return Outcome{}, apperr.BadRequest(msgInvalidImage)
	}
	if up.Size > s.maxBytes || int64(len(up.Data)) > s.maxBytes {
		return Outcome{}, apperr.BadRequest(msgTooLarge)
	}

	res, err := s.selector.Classify(ctx, domain.Image{Data: up.Data, Filename: up.Filename, ContentType: up.ContentType})
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Result: res}
	if s.archive != nil {
		key, err := s.archive.Save(ctx, actor.UserID.String(), up.Filename, up.ContentType, up.Data)
		if err != nil {
			s.log.Warn("photo archive failed", "userId", actor.UserID, "error", err)
		} else {
			out.PhotoKey = &key
		}
	}

	s.log.Info("image classified",
		"userId", actor.UserID,
		"deviceType", res.DeviceType,
		"confidence", res.Confidence,
		"source", res.Source,
	)
	return out, nil
}
