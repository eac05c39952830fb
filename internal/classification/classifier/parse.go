package classifier

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"ewaste_pickup_backend/internal/classification/domain"
)

// Tried in order; the first match that decodes wins.
var jsonPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\{[^{}]*"is_electronic_waste"[^{}]*\}`),
	regexp.MustCompile(`(?s)\{.*?"device_type".*?\}`),
	regexp.MustCompile(`(?s)\{.*?\}`),
}

var firstNumber = regexp.MustCompile(`\d+`)

type rawAnswer struct {
	IsElectronicWaste any      `json:"is_electronic_waste"`
	DeviceCount       any      `json:"device_count"`
	DetectedDevices   []string `json:"detected_devices"`
	DeviceType        string   `json:"device_type"`
	DeviceModel       string   `json:"device_model"`
	Confidence        any      `json:"confidence"`
	Message           string   `json:"message"`
}

// parseAnswer turns model output into a validated result, falling back to
// keyword matching when no JSON object can be decoded.
func parseAnswer(text string) domain.Result {
	for _, pattern := range jsonPatterns {
		match := pattern.FindString(text)
		if match == "" {
			continue
		}
		var raw rawAnswer
		if err := json.Unmarshal([]byte(match), &raw); err != nil {
			continue
		}
		return validate(raw)
	}
	return validate(keywordAnswer(text))
}

func validate(raw rawAnswer) domain.Result {
	res := domain.Result{
		IsElectronicWaste: truthy(raw.IsElectronicWaste),
		DeviceCount:       max(toInt(raw.DeviceCount), 0),
		DetectedDevices:   raw.DetectedDevices,
		DeviceType:        domain.ParseDeviceType(raw.DeviceType),
		DeviceModel:       strings.TrimSpace(raw.DeviceModel),
		Confidence:        domain.ClampConfidence(toFloat(raw.Confidence)),
		Message:           raw.Message,
		Source:            domain.SourceRemote,
	}
	if res.DetectedDevices == nil {
		res.DetectedDevices = []string{}
	}
	if res.DeviceModel == "" {
		res.DeviceModel = domain.UnknownModel
	}
	res.UserMessage = domain.UserMessage(res.DeviceCount, res.DeviceType, res.DeviceModel)
	return res
}

var (
	laptopWords     = []string{"laptop", "computer", "notebook", "macbook", "pc", "keyboard", "trackpad", "screen", "display", "aluminum", "metal case"}
	phoneWords      = []string{"phone", "smartphone", "mobile", "iphone", "android", "cell", "handset"}
	iphoneWords     = []string{"iphone", "apple", "ios", "home button", "notch", "face id", "touch id"}
	batteryWords    = []string{"battery", "power bank", "powerbank"}
	tabletWords     = []string{"tablet", "ipad", "e-reader", "touchscreen"}
	electronicWords = []string{
		"phone", "smartphone", "mobile", "iphone", "android", "cell",
		"laptop", "computer", "notebook", "macbook", "pc",
		"tablet", "ipad", "e-reader", "touchscreen",
		"battery", "charger", "power bank", "powerbank",
		"electronic", "device", "gadget", "tech",
		"headphone", "earbud", "speaker", "camera",
		"watch", "smartwatch", "gaming", "console",
	}
)

// iPhone generations checked in this order against free text.
var iphoneModels = []struct {
	hints []string
	model string
}{
	{[]string{"13", "thirteen", "pro max", "pro"}, "iPhone 13"},
	{[]string{"12", "twelve"}, "iPhone 12"},
	{[]string{"14", "fourteen"}, "iPhone 14"},
	{[]string{"15", "fifteen"}, "iPhone 15"},
	{[]string{"11", "eleven"}, "iPhone 11"},
	{[]string{"x", "ten"}, "iPhone X"},
}

func keywordAnswer(text string) rawAnswer {
	lower := strings.ToLower(text)
	deviceType, model := domain.DeviceOther, "Unknown Device"

	switch {
	case containsAny(lower, laptopWords):
		deviceType = domain.DeviceLaptop
		model = firstBrand(lower, "Laptop", brand{"macbook", "MacBook"}, brand{"dell", "Dell Laptop"},
			brand{"hp", "HP Laptop"}, brand{"lenovo", "Lenovo Laptop"})
	case containsAny(lower, phoneWords) || containsAny(lower, iphoneWords):
		deviceType = domain.DeviceSmartphone
		switch {
		case containsAny(lower, iphoneWords):
			model = "iPhone"
			for _, m := range iphoneModels {
				if containsAny(lower, m.hints) {
					model = m.model
					break
				}
			}
		case containsAny(lower, []string{"android", "samsung", "galaxy"}):
			model = "Android Phone"
		default:
			model = "Smartphone"
		}
	case containsAny(lower, batteryWords):
		deviceType, model = domain.DeviceBattery, "Battery"
	case containsAny(lower, tabletWords):
		deviceType = domain.DeviceTablet
		model = firstBrand(lower, "Tablet", brand{"ipad", "iPad"})
	}

	electronic := containsAny(lower, electronicWords)
	count := 0
	if n := firstNumber.FindString(text); n != "" {
		count, _ = strconv.Atoi(n)
	} else if electronic {
		count = 1
	}

	answer := rawAnswer{
		IsElectronicWaste: electronic,
		DeviceCount:       count,
		DetectedDevices:   []string{},
		DeviceType:        string(deviceType),
		DeviceModel:       model,
		Confidence:        0.3,
		Message:           truncate(text, 200),
	}
	if electronic {
		answer.DetectedDevices = []string{"electronic device"}
		answer.Confidence = 0.7
	}
	return answer
}

type brand struct {
	keyword string
	model   string
}

func firstBrand(lower, fallback string, brands ...brand) string {
	for _, b := range brands {
		if strings.Contains(lower, b.keyword) {
			return b.model
		}
	}
	return fallback
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// truncate keeps the first n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(t))
		return b
	case float64:
		return t != 0
	}
	return false
}

func toInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(t))
		return n
	case int:
		return t
	}
	return 0
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	case int:
		return float64(t)
	}
	return 0
}
