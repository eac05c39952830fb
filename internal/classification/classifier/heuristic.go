package classifier

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"ewaste_pickup_backend/internal/classification/domain"

	"github.com/rwcarlsen/goexif/exif"
)

// Heuristic guesses the device from image proportions and the file name.
// It always reports electronic waste and leaves the final call to the user.
type Heuristic struct{}

func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

type guess struct {
	deviceType domain.DeviceType
	model      string
	confidence float64
}

func (Heuristic) Classify(_ context.Context, img domain.Image) (domain.Result, error) {
	name := strings.ToLower(img.Filename)

	g := guess{deviceType: domain.DeviceLaptop, model: "Laptop", confidence: 0.6}
	if width, height, err := orientedSize(img.Data); err == nil {
		g = guessFromShape(width, height, name)
		g = applyFilenameHints(g, name)
	}

	return domain.Result{
		IsElectronicWaste: true,
		DeviceCount:       1,
		DetectedDevices:   []string{"electronic device"},
		DeviceType:        g.deviceType,
		DeviceModel:       g.model,
		Confidence:        g.confidence,
		Message:           fmt.Sprintf("Enhanced fallback detection - detected as %s", g.deviceType),
		UserMessage:       fmt.Sprintf("Device detected as %s using enhanced analysis. Please verify the category.", g.model),
		Source:            domain.SourceHeuristic,
	}, nil
}

// orientedSize returns the displayed dimensions, swapping them when EXIF says
// the camera was rotated a quarter turn.
func orientedSize(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("invalid image size %dx%d", cfg.Width, cfg.Height)
	}

	width, height := cfg.Width, cfg.Height
	if x, err := exif.Decode(bytes.NewReader(data)); err == nil {
		if tag, err := x.Get(exif.Orientation); err == nil {
			if o, err := tag.Int(0); err == nil && o >= 5 && o <= 8 {
				width, height = height, width
			}
		}
	}
	return width, height, nil
}

func guessFromShape(width, height int, name string) guess {
	ratio := float64(width) / float64(height)
	pixels := width * height
	shortSide, longSide := min(width, height), max(width, height)

	laptop := 0
	if ratio > 0.8 {
		laptop += 2
	}
	if pixels > 500_000 {
		laptop += 2
	}
	if shortSide > 300 {
		laptop += 2
	}
	if ratio > 1.2 || ratio < 0.8 {
		laptop++
	}
	if pixels > 1_000_000 {
		laptop++
	}

	phone := 0
	if ratio >= 0.4 && ratio <= 0.7 {
		phone += 6
	}
	if longSide >= 200 && longSide <= 2000 {
		phone += 3
	}
	if pixels < 500_000 {
		phone += 2
	}
	if ratio < 0.6 {
		phone += 4
	}
	if ratio < 0.5 {
		phone += 3
	}

	switch {
	case laptop >= phone && laptop >= 3:
		return guess{domain.DeviceLaptop, laptopModel(name), min(0.85, 0.6+float64(laptop)*0.05)}
	case phone > laptop && phone >= 2:
		return guess{domain.DeviceSmartphone, phoneModel(name), min(0.8, 0.6+float64(phone)*0.05)}
	case ratio < 0.8:
		return guess{domain.DeviceSmartphone, firstBrand(name, "Smartphone", brand{"iphone", "iPhone"},
			brand{"samsung", "Samsung Galaxy"}, brand{"galaxy", "Samsung Galaxy"}), 0.75}
	case ratio > 1.5 && pixels > 2_000_000:
		return guess{domain.DeviceLaptop, firstBrand(name, "Laptop", brand{"macbook", "MacBook"}, brand{"dell", "Dell Laptop"}), 0.7}
	case pixels < 200_000:
		return guess{domain.DeviceSmartphone, "Smartphone", 0.7}
	default:
		return guess{domain.DeviceSmartphone, "Smartphone", 0.65}
	}
}

func laptopModel(name string) string {
	switch {
	case strings.Contains(name, "macbook"):
		return firstBrand(name, "MacBook", brand{"pro", "MacBook Pro"}, brand{"air", "MacBook Air"})
	case strings.Contains(name, "dell"):
		if !strings.Contains(name, "xps") {
			return "Dell Laptop"
		}
		return firstBrand(name, "Dell XPS", brand{"13", "Dell XPS 13"}, brand{"15", "Dell XPS 15"})
	case strings.Contains(name, "hp"):
		return "HP Laptop"
	case strings.Contains(name, "lenovo"):
		return "Lenovo Laptop"
	}
	return "Laptop"
}

func phoneModel(name string) string {
	switch {
	case strings.Contains(name, "iphone"):
		if strings.Contains(name, "15") {
			return firstBrand(name, "iPhone 15", brand{"pro", "iPhone 15 Pro"})
		}
		return firstBrand(name, "iPhone", brand{"14", "iPhone 14"}, brand{"13", "iPhone 13"}, brand{"12", "iPhone 12"})
	case strings.Contains(name, "samsung") || strings.Contains(name, "galaxy"):
		return firstBrand(name, "Samsung Galaxy", brand{"s24", "Samsung Galaxy S24"}, brand{"s23", "Samsung Galaxy S23"})
	case strings.Contains(name, "pixel"):
		return "Google Pixel"
	}
	return "Smartphone"
}

// applyFilenameHints raises confidence when the file name agrees with the shape.
func applyFilenameHints(g guess, name string) guess {
	switch {
	case containsAny(name, []string{"laptop", "macbook", "computer", "notebook"}):
		if g.deviceType == domain.DeviceLaptop {
			g.confidence = min(0.9, g.confidence+0.1)
		}
	case containsAny(name, []string{"phone", "iphone", "mobile", "smartphone"}):
		if g.deviceType == domain.DeviceSmartphone {
			g.confidence = min(0.9, g.confidence+0.1)
		}
	}
	return g
}
