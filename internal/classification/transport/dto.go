package transport

type ClassificationResponse struct {
	IsElectronicWaste bool     `json:"isElectronicWaste"`
	DeviceCount       int      `json:"deviceCount"`
	DetectedDevices   []string `json:"detectedDevices"`
	DeviceType        string   `json:"deviceType"`
	DeviceModel       string   `json:"deviceModel"`
	Confidence        float64  `json:"confidence"`
	Message           string   `json:"message"`
	UserMessage       string   `json:"userMessage"`
	Error             bool     `json:"error"`
	Source            string   `json:"source"`
}

type FileInfo struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type ClassifyResponse struct {
	Success        bool                   `json:"success"`
	Classification ClassificationResponse `json:"classification"`
	FileInfo       FileInfo               `json:"fileInfo"`
	PhotoKey       *string                `json:"photoKey,omitempty"`
}

type HealthResponse struct {
	Available bool   `json:"available"`
	Service   string `json:"service"`
}
