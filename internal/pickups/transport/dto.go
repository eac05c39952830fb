package transport

import "time"

type CreateBookingRequest struct {
	Category      string `json:"category" validate:"required,max=50"`
	DeviceModel   string `json:"deviceModel" validate:"max=200"`
	ApartmentName string `json:"apartmentName" validate:"required,max=200"`
	StreetNumber  string `json:"streetNumber" validate:"required,max=100"`
	Area          string `json:"area" validate:"required,max=200"`
	State         string `json:"state" validate:"required,max=100"`
	PostalCode    string `json:"postalCode" validate:"required,postalcode"`
	ContactPhone  string `json:"contactPhone,omitempty" validate:"max=32"`
	PhotoKey      string `json:"photoKey,omitempty" validate:"max=512"`
}

type CreateBookingResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type MaterialResponse struct {
	Material string  `json:"material"`
	Quantity float64 `json:"quantity"`
}

type BookingResponse struct {
	ID               string             `json:"id"`
	UserID           string             `json:"userId"`
	CustomerName     string             `json:"customerName"`
	Category         string             `json:"category"`
	DeviceModel      string             `json:"deviceModel"`
	ApartmentName    string             `json:"apartmentName"`
	StreetNumber     string             `json:"streetNumber"`
	Area             string             `json:"area"`
	State            string             `json:"state"`
	PostalCode       string             `json:"postalCode"`
	ContactPhone     *string            `json:"contactPhone,omitempty"`
	PhotoKey         *string            `json:"photoKey,omitempty"`
	Status           string             `json:"status"`
	SchedulingState  string             `json:"schedulingState"`
	FulfillmentState string             `json:"fulfillmentState"`
	RouteID          *int               `json:"routeId"`
	Scheduled        bool               `json:"scheduled"`
	CreatedAt        time.Time          `json:"createdAt"`
	Materials        []MaterialResponse `json:"materials,omitempty"`
}

type ScheduleRoutesResponse struct {
	Message   string         `json:"message"`
	Routes    map[string]int `json:"routes"`
	Scheduled int            `json:"scheduled"`
}

type RouteResponse struct {
	RouteID       int `json:"routeId"`
	NumStops      int `json:"numStops"`
	TotalBookings int `json:"totalBookings"`
}

type DashboardResponse struct {
	TotalBookings    int                `json:"totalBookings"`
	BookingsThisWeek int                `json:"bookingsThisWeek"`
	WeekStart        time.Time          `json:"weekStart"`
	Metals           map[string]float64 `json:"metals"`
	EVBatteryUnits   int                `json:"evBatteryUnits"`
	SolarPanelUnits  int                `json:"solarPanelUnits"`
	UserRole         string             `json:"userRole"`
}

type PickupOverviewResponse struct {
	BookingResponse
	DeliveryStatus *string `json:"deliveryStatus"`
	AgentID        *string `json:"agentId"`
	DeliveryAgent  *string `json:"deliveryAgent"`
}

type AssignDeliveryRequest struct {
	BookingID string `json:"bookingId" validate:"required,uuid"`
	AgentID   string `json:"agentId" validate:"required,uuid"`
}

type AssignDeliveryResponse struct {
	Message    string    `json:"message"`
	BookingID  string    `json:"bookingId"`
	AgentID    string    `json:"agentId"`
	AssignedAt time.Time `json:"assignedAt"`
}

type AssignmentResponse struct {
	BookingResponse
	DeliveryStatus string     `json:"deliveryStatus"`
	AssignedAt     time.Time  `json:"assignedAt"`
	CompletedAt    *time.Time `json:"completedAt"`
}

type UpdateStatusRequest struct {
	BookingID string `json:"bookingId" validate:"required,uuid"`
	Status    string `json:"status" validate:"required,oneof=assigned picked_up delivered"`
}

type UpdateStatusResponse struct {
	Message       string `json:"message"`
	BookingID     string `json:"bookingId"`
	Status        string `json:"status"`
	PointsAwarded int    `json:"pointsAwarded"`
}
