// Package domain holds the photo classification result model.
package domain

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DeviceType is the category a classifier reports.
type DeviceType string

const (
	DeviceSmartphone DeviceType = "smartphone"
	DeviceLaptop     DeviceType = "laptop"
	DeviceBattery    DeviceType = "battery"
	DeviceTablet     DeviceType = "tablet"
	DeviceOther      DeviceType = "other"
)

// ParseDeviceType maps unknown values to DeviceOther.
func ParseDeviceType(s string) DeviceType {
	switch t := DeviceType(strings.ToLower(strings.TrimSpace(s))); t {
	case DeviceSmartphone, DeviceLaptop, DeviceBattery, DeviceTablet:
		return t
	}
	return DeviceOther
}

// Source names the classifier that produced a result.
type Source string

const (
	SourceRemote    Source = "gemini"
	SourceHeuristic Source = "heuristic"
)

const UnknownModel = "Unknown Device"

// Image is an uploaded photo.
type Image struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Result is what the classification endpoint returns.
type Result struct {
	IsElectronicWaste bool
	DeviceCount       int
	DetectedDevices   []string
	DeviceType        DeviceType
	DeviceModel       string
	Confidence        float64
	Message           string
	UserMessage       string
	// Failed marks a remote call that gave up after its retries.
	Failed bool
	Source Source
}

// FailedResult builds the result of a remote classifier that could not answer.
func FailedResult(cause error) Result {
	return Result{
		DetectedDevices: []string{},
		DeviceType:      DeviceOther,
		DeviceModel:     UnknownModel,
		Message:         fmt.Sprintf("API error: %v", cause),
		UserMessage:     "Please upload a valid image of an electronic device.",
		Failed:          true,
		Source:          SourceRemote,
	}
}

// ClampConfidence keeps c within [0, 1]. NaN counts as no confidence.
func ClampConfidence(c float64) float64 {
	if math.IsNaN(c) {
		return 0
	}
	return min(max(c, 0), 1)
}

var titleCase = cases.Title(language.English)

// UserMessage phrases the result for the person who uploaded the photo.
func UserMessage(count int, t DeviceType, model string) string {
	switch {
	case count <= 0:
		return "Please upload an image of an electronic device for e-waste pickup."
	case count == 1:
		typeName := titleCase.String(strings.ReplaceAll(string(t), "_", " "))
		return fmt.Sprintf("Great! I can see 1 %s (%s). This is valid for e-waste pickup.", model, typeName)
	default:
		return fmt.Sprintf("I can see %d electronic devices. Please upload one device at a time for better processing.", count)
	}
}
