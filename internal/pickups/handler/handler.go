package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"ewaste_pickup_backend/internal/pickups/domain"
	"ewaste_pickup_backend/internal/pickups/repository"
	"ewaste_pickup_backend/internal/pickups/service"
	"ewaste_pickup_backend/internal/pickups/transport"
	"ewaste_pickup_backend/platform/httpkit"
	"ewaste_pickup_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"

	defaultRouteCount = 3
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// CreateBooking stores a pickup request for the caller.
// POST /api/v1/bookings
func (h *Handler) CreateBooking(c *gin.Context) {
	var req transport.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	booking, err := h.svc.CreateBooking(c.Request.Context(), httpkit.Actor(identity), service.CreateBookingInput{
		Category:    req.Category,
		DeviceModel: req.DeviceModel,
		Address: domain.Address{
			ApartmentName: req.ApartmentName,
			StreetNumber:  req.StreetNumber,
			Area:          req.Area,
			State:         req.State,
			PostalCode:    req.PostalCode,
		},
		ContactPhone: req.ContactPhone,
		PhotoKey:     req.PhotoKey,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.CreateBookingResponse{
		ID:      booking.ID.String(),
		Message: "Booking created",
	})
}

// ListBookings returns the caller's bookings, or all bookings for staff.
// GET /api/v1/bookings
func (h *Handler) ListBookings(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	bookings, err := h.svc.ListBookings(c.Request.Context(), httpkit.Actor(identity))
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	httpkit.OK(c, out)
}

// GetBooking returns one visible booking.
// GET /api/v1/bookings/:id
func (h *Handler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	booking, err := h.svc.GetBooking(c.Request.Context(), httpkit.Actor(identity), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toBookingResponse(booking))
}

// ScheduleRoutes groups unscheduled bookings into k routes.
// POST /api/v1/admin/routes/schedule?k=3
func (h *Handler) ScheduleRoutes(c *gin.Context) {
	k := defaultRouteCount
	if raw := c.Query("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "k must be an integer", nil)
			return
		}
		k = parsed
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ScheduleRoutes(c.Request.Context(), httpkit.Actor(identity), k)
	if httpkit.HandleError(c, err) {
		return
	}

	routes := make(map[string]int, len(result.Routes))
	for id, stops := range result.Routes {
		routes[strconv.Itoa(id)] = stops
	}
	message := fmt.Sprintf("Scheduled %d bookings on %d routes", result.Scheduled, len(result.Routes))
	if result.Empty() {
		message = "No unscheduled bookings"
	}
	httpkit.OK(c, transport.ScheduleRoutesResponse{Message: message, Routes: routes, Scheduled: result.Scheduled})
}

// ListRoutes returns scheduled routes visible to the caller.
// GET /api/v1/routes
func (h *Handler) ListRoutes(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	routes, err := h.svc.ListRoutes(c.Request.Context(), httpkit.Actor(identity))
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.RouteResponse, 0, len(routes))
	for _, r := range routes {
		out = append(out, transport.RouteResponse{RouteID: r.RouteID, NumStops: r.NumStops, TotalBookings: r.NumStops})
	}
	httpkit.OK(c, out)
}

// Dashboard summarises recovered materials.
// GET /api/v1/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	d, err := h.svc.Dashboard(c.Request.Context(), httpkit.Actor(identity))
	if httpkit.HandleError(c, err) {
		return
	}

	metals := make(map[string]float64, len(d.Materials))
	for m, qty := range d.Materials {
		metals[string(m)] = qty
	}
	httpkit.OK(c, transport.DashboardResponse{
		TotalBookings:    d.TotalBookings,
		BookingsThisWeek: d.BookingsThisWeek,
		WeekStart:        d.WeekStart,
		Metals:           metals,
		EVBatteryUnits:   d.Impact.EVBatteryUnits,
		SolarPanelUnits:  d.Impact.SolarPanelUnits,
		UserRole:         string(d.Role),
	})
}

// PickupsOverview lists every booking with its assignment, unassigned first.
// GET /api/v1/admin/pickups
func (h *Handler) PickupsOverview(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	items, err := h.svc.PickupsOverview(c.Request.Context(), httpkit.Actor(identity))
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.PickupOverviewResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toOverviewResponse(item))
	}
	httpkit.OK(c, out)
}

// AssignDelivery puts a delivery agent on a booking.
// POST /api/v1/admin/assign-delivery
func (h *Handler) AssignDelivery(c *gin.Context) {
	var req transport.AssignDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	assignment, err := h.svc.AssignDelivery(c.Request.Context(), httpkit.Actor(identity),
		uuid.MustParse(req.BookingID), uuid.MustParse(req.AgentID))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.AssignDeliveryResponse{
		Message:    "Delivery assigned successfully",
		BookingID:  assignment.BookingID.String(),
		AgentID:    assignment.AgentID.String(),
		AssignedAt: assignment.AssignedAt,
	})
}

// Assignments lists the calling agent's bookings.
// GET /api/v1/delivery/assignments
func (h *Handler) Assignments(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	items, err := h.svc.Assignments(c.Request.Context(), httpkit.Actor(identity))
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.AssignmentResponse, 0, len(items))
	for _, item := range items {
		out = append(out, transport.AssignmentResponse{
			BookingResponse: toBookingResponse(item.Booking),
			DeliveryStatus:  string(item.Assignment.Status),
			AssignedAt:      item.Assignment.AssignedAt,
			CompletedAt:     item.Assignment.CompletedAt,
		})
	}
	httpkit.OK(c, out)
}

// UpdateStatus advances the caller's delivery.
// POST /api/v1/delivery/update-status
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.AdvanceDelivery(c.Request.Context(), httpkit.Actor(identity), uuid.MustParse(req.BookingID), req.Status)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.UpdateStatusResponse{
		Message:       "Status updated to " + string(result.Status),
		BookingID:     result.BookingID.String(),
		Status:        string(result.Status),
		PointsAwarded: result.PointsAwarded,
	})
}

func toBookingResponse(b domain.Booking) transport.BookingResponse {
	materials := make([]transport.MaterialResponse, 0, len(b.Materials))
	for _, m := range b.Materials {
		materials = append(materials, transport.MaterialResponse{Material: string(m.Material), Quantity: m.Quantity})
	}
	return transport.BookingResponse{
		ID:               b.ID.String(),
		UserID:           b.UserID.String(),
		CustomerName:     b.CustomerName,
		Category:         string(b.Category),
		DeviceModel:      b.DeviceModel,
		ApartmentName:    b.Address.ApartmentName,
		StreetNumber:     b.Address.StreetNumber,
		Area:             b.Address.Area,
		State:            b.Address.State,
		PostalCode:       b.Address.PostalCode,
		ContactPhone:     b.ContactPhone,
		PhotoKey:         b.PhotoKey,
		Status:           string(b.Status()),
		SchedulingState:  string(b.Scheduling),
		FulfillmentState: string(b.Fulfillment),
		RouteID:          b.RouteID,
		Scheduled:        b.IsScheduled(),
		CreatedAt:        b.CreatedAt,
		Materials:        materials,
	}
}

func toOverviewResponse(item repository.PickupOverviewItem) transport.PickupOverviewResponse {
	out := transport.PickupOverviewResponse{
		BookingResponse: toBookingResponse(item.Booking),
		DeliveryAgent:   item.AgentUsername,
	}
	if item.DeliveryStatus != nil {
		status := string(*item.DeliveryStatus)
		out.DeliveryStatus = &status
	}
	if item.AgentID != nil {
		id := item.AgentID.String()
		out.AgentID = &id
	}
	return out
}
