package service

import (
	"context"
	"errors"
	"testing"

	"ewaste_pickup_backend/internal/classification/classifier"
	"ewaste_pickup_backend/internal/classification/domain"
	"ewaste_pickup_backend/platform/apperr"
	"ewaste_pickup_backend/platform/authz"
	"ewaste_pickup_backend/platform/logger"

	"github.com/google/uuid"
)

type fixedClassifier struct {
	res domain.Result
}

func (f fixedClassifier) Classify(context.Context, domain.Image) (domain.Result, error) {
	return f.res, nil
}

type memoryArchive struct {
	saved map[string][]byte
	err   error
}

func (m *memoryArchive) Save(_ context.Context, folder, fileName, _ string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	key := folder + "/" + fileName
	m.saved[key] = data
	return key, nil
}

var userActor = authz.Actor{UserID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Role: authz.RoleUser}

func newService(archive *memoryArchive) *Service {
	remote := fixedClassifier{res: domain.Result{IsElectronicWaste: true, DeviceType: domain.DeviceLaptop, Confidence: 0.9, Source: domain.SourceRemote}}
	sel := classifier.NewSelector(remote, classifier.NewHeuristic(), logger.Discard())
	if archive == nil {
		return New(sel, nil, 1024, logger.Discard())
	}
	return New(sel, archive, 1024, logger.Discard())
}

func TestClassifyRejectsBadUploads(t *testing.T) {
	svc := newService(nil)
	cases := []struct {
		name  string
		actor authz.Actor
		up    Upload
		kind  apperr.Kind
	}{
		{"delivery role", authz.Actor{UserID: uuid.New(), Role: authz.RoleDelivery}, Upload{ContentType: "image/png", Data: []byte("x")}, apperr.KindForbidden},
		{"not an image", userActor, Upload{ContentType: "application/pdf", Data: []byte("x")}, apperr.KindBadRequest},
		{"too large", userActor, Upload{ContentType: "image/png", Size: 2048, Data: []byte("x")}, apperr.KindBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Classify(context.Background(), tc.actor, tc.up)
			if !apperr.Is(err, tc.kind) {
				t.Fatalf("expected kind %v, got %v", tc.kind, err)
			}
		})
	}
}

func TestClassifyUnavailableWithoutRemote(t *testing.T) {
	svc := New(classifier.NewSelector(nil, classifier.NewHeuristic(), logger.Discard()), nil, 1024, logger.Discard())

	if svc.Available() {
		t.Fatal("expected service unavailable")
	}
	_, err := svc.Classify(context.Background(), userActor, Upload{ContentType: "application/pdf"})
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable before content checks, got %v", err)
	}
}

func TestClassifyArchivesPhoto(t *testing.T) {
	archive := &memoryArchive{saved: map[string][]byte{}}
	svc := newService(archive)

	out, err := svc.Classify(context.Background(), userActor, Upload{Filename: "laptop.png", ContentType: "image/png", Size: 3, Data: []byte("abc")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Result.DeviceType != domain.DeviceLaptop {
		t.Fatalf("expected laptop, got %s", out.Result.DeviceType)
	}
	want := userActor.UserID.String() + "/laptop.png"
	if out.PhotoKey == nil || *out.PhotoKey != want {
		t.Fatalf("expected photo key %s, got %v", want, out.PhotoKey)
	}
	if string(archive.saved[want]) != "abc" {
		t.Fatal("expected archived bytes")
	}
}

func TestClassifyIgnoresArchiveFailure(t *testing.T) {
	svc := newService(&memoryArchive{err: errors.New("bucket gone")})

	out, err := svc.Classify(context.Background(), userActor, Upload{Filename: "a.png", ContentType: "image/png", Size: 1, Data: []byte("a")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.PhotoKey != nil {
		t.Fatalf("expected no photo key, got %s", *out.PhotoKey)
	}
}
