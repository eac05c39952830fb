package handler

import (
	"io"
	"net/http"

	"ewaste_pickup_backend/internal/classification/service"
	"ewaste_pickup_backend/internal/classification/transport"
	"ewaste_pickup_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc      *service.Service
	maxBytes int64
}

func New(svc *service.Service, maxBytes int64) *Handler {
	return &Handler{svc: svc, maxBytes: maxBytes}
}

// ClassifyImage runs the classifier on an uploaded photo.
// POST /api/v1/ai/classify-image (multipart field "file")
func (h *Handler) ClassifyImage(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "file is required", nil)
		return
	}
	file, err := header.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "could not read upload", nil)
		return
	}
	defer file.Close()

	// One byte past the cap is enough to know the upload is too large.
	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "could not read upload", nil)
		return
	}

	contentType := header.Header.Get("Content-Type")
	out, err := h.svc.Classify(c.Request.Context(), httpkit.Actor(identity), service.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        max(header.Size, int64(len(data))),
		Data:        data,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	res := out.Result
	httpkit.OK(c, transport.ClassifyResponse{
		Success: true,
		Classification: transport.ClassificationResponse{
			IsElectronicWaste: res.IsElectronicWaste,
			DeviceCount:       res.DeviceCount,
			DetectedDevices:   res.DetectedDevices,
			DeviceType:        string(res.DeviceType),
			DeviceModel:       res.DeviceModel,
			Confidence:        res.Confidence,
			Message:           res.Message,
			UserMessage:       res.UserMessage,
			Error:             res.Failed,
			Source:            string(res.Source),
		},
		FileInfo: transport.FileInfo{
			Filename:    header.Filename,
			ContentType: contentType,
			Size:        int64(len(data)),
		},
		PhotoKey: out.PhotoKey,
	})
}

// Health reports whether the remote classifier is configured.
// GET /api/v1/ai/health
func (h *Handler) Health(c *gin.Context) {
	resp := transport.HealthResponse{Available: h.svc.Available(), Service: "Not configured"}
	if resp.Available {
		resp.Service = "Gemini API"
	}
	httpkit.OK(c, resp)
}
