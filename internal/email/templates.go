package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title   string
	Heading string
}

// BookingCreated confirms a new booking to its owner.
type BookingCreated struct {
	CustomerName string
	BookingID    string
	Category     string
}

// PickupAssigned tells the owner an agent was assigned.
type PickupAssigned struct {
	CustomerName string
	BookingID    string
	AgentName    string
}

// AgentAssignment tells the agent about a new pickup.
type AgentAssignment struct {
	AgentName string
	BookingID string
}

// PickupStatus reports a delivery status change to the owner.
type PickupStatus struct {
	CustomerName string
	BookingID    string
	Status       string
}

type PointsAwarded struct {
	CustomerName string
	BookingID    string
	Points       int
	Balance      int
}

type PointsRedeemed struct {
	CustomerName   string
	Points         int
	RedemptionCode string
	Balance        int
}

type templateData struct {
	baseEmailData
	Body any
}

func renderEmailTemplate(name, heading string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").Funcs(template.FuncMap{
		"human": humanStatus,
	}).ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	payload := templateData{baseEmailData: baseEmailData{Title: heading, Heading: heading}, Body: data}
	if err := tmpl.ExecuteTemplate(&buf, "email", payload); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func humanStatus(status string) string {
	return strings.ReplaceAll(status, "_", " ")
}
