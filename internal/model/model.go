// Package model defines the farm domain records exchanged with the remote
// AgriNote API and held in the local store. All types are plain data; the
// store owns every record once it enters local state.
package model

import "time"

// TreatmentStatus is the lifecycle state of a treatment or fertilization
type TreatmentStatus string

const (
	StatusPlanned   TreatmentStatus = "planned"
	StatusCompleted TreatmentStatus = "completed"
	StatusOverdue   TreatmentStatus = "overdue"
)

// TreatmentOrigin records how a treatment entered the system
type TreatmentOrigin string

const (
	OriginManual TreatmentOrigin = "manual"
	OriginVoice  TreatmentOrigin = "voice"
	OriginImport TreatmentOrigin = "import"
)

// ProductCategory classifies warehouse products
type ProductCategory string

const (
	CategoryPesticide  ProductCategory = "pesticide"
	CategoryFertilizer ProductCategory = "fertilizer"
	CategorySeed       ProductCategory = "seed"
	CategoryEquipment  ProductCategory = "equipment"
)

// ReportStatus is the lifecycle state of a generated report
type ReportStatus string

const (
	ReportGenerating ReportStatus = "generating"
	ReportReady      ReportStatus = "ready"
	ReportError      ReportStatus = "error"
	ReportExpired    ReportStatus = "expired"
)

// GeoCoordinate is a WGS84 position
type GeoCoordinate struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Altitude  *float64 `json:"altitude,omitempty"`
}

// AIValidation is the result of server-side treatment validation
type AIValidation struct {
	Status      string   `json:"status"`
	Message     string   `json:"message"`
	Confidence  float64  `json:"confidence"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// WeatherCondition is a point-in-time weather snapshot. It is read-only and
// replaced wholesale on each sync, never merged field by field.
type WeatherCondition struct {
	Temperature float64  `json:"temperature"`
	Humidity    float64  `json:"humidity"`
	WindSpeed   float64  `json:"windSpeed"`
	Pressure    float64  `json:"pressure"`
	Condition   string   `json:"condition"`
	Rainfall    float64  `json:"rainfall"`
	Suitable    bool     `json:"suitable"`
	Warnings    []string `json:"warnings,omitempty"`
}

// Treatment is a crop treatment log entry
type Treatment struct {
	ID           string            `json:"id"`
	Description  string            `json:"description"`
	Date         time.Time         `json:"date"`
	Crop         string            `json:"crop"`
	Product      string            `json:"product"`
	ProductID    string            `json:"productId"`
	Dose         float64           `json:"dose"`
	Unit         string            `json:"unit"`
	Area         float64           `json:"area"`
	Method       string            `json:"method"`
	Weather      *WeatherCondition `json:"weather,omitempty"`
	Notes        string            `json:"notes,omitempty"`
	Status       TreatmentStatus   `json:"status"`
	CreatedBy    TreatmentOrigin   `json:"createdBy"`
	AIValidation *AIValidation     `json:"aiValidation,omitempty"`
	Coordinates  *GeoCoordinate    `json:"coordinates,omitempty"`
	Photos       []string          `json:"photos,omitempty"`
	Cost         *float64          `json:"cost,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// Product is a warehouse inventory item. Quantity must never go negative;
// decrements clamp at zero.
type Product struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Category            ProductCategory `json:"category"`
	Quantity            float64         `json:"quantity"`
	Unit                string          `json:"unit"`
	MinStock            float64         `json:"minStock"`
	MaxStock            *float64        `json:"maxStock,omitempty"`
	Supplier            string          `json:"supplier"`
	SupplierID          string          `json:"supplierId"`
	ExpiryDate          *time.Time      `json:"expiryDate,omitempty"`
	BatchNumber         string          `json:"batchNumber,omitempty"`
	Barcode             string          `json:"barcode,omitempty"`
	Location            string          `json:"location,omitempty"`
	Cost                *float64        `json:"cost,omitempty"`
	Notes               string          `json:"notes,omitempty"`
	ActiveIngredients   []string        `json:"activeIngredients,omitempty"`
	Certifications      []string        `json:"certifications,omitempty"`
	HazardLevel         string          `json:"hazardLevel,omitempty"`
	StorageRequirements string          `json:"storageRequirements,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

// SoilTest holds soil analysis results attached to a fertilization
type SoilTest struct {
	PH            float64   `json:"ph"`
	Nitrogen      float64   `json:"nitrogen"`
	Phosphorus    float64   `json:"phosphorus"`
	Potassium     float64   `json:"potassium"`
	OrganicMatter float64   `json:"organicMatter"`
	TestDate      time.Time `json:"testDate"`
}

// Fertilization is a fertilization log entry
type Fertilization struct {
	ID              string          `json:"id"`
	Description     string          `json:"description"`
	Date            time.Time       `json:"date"`
	Crop            string          `json:"crop"`
	FertilizerType  string          `json:"fertilizerType"`
	ProductID       string          `json:"productId"`
	Dose            float64         `json:"dose"`
	Unit            string          `json:"unit"`
	Area            float64         `json:"area"`
	Method          string          `json:"method"`
	NPKRatio        string          `json:"npkRatio,omitempty"`
	OrganicContent  *float64        `json:"organicContent,omitempty"`
	SoilTestResults *SoilTest       `json:"soilTestResults,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	Status          TreatmentStatus `json:"status"`
	Cost            *float64        `json:"cost,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ReportParameters selects what a generated report covers
type ReportParameters struct {
	DateFrom       *time.Time `json:"dateFrom,omitempty"`
	DateTo         *time.Time `json:"dateTo,omitempty"`
	Crops          []string   `json:"crops,omitempty"`
	Categories     []string   `json:"categories,omitempty"`
	IncludePhotos  bool       `json:"includePhotos"`
	IncludeWeather bool       `json:"includeWeather"`
}

// Report is a generated document tracked through its lifecycle
type Report struct {
	ID         string           `json:"id"`
	TemplateID string           `json:"templateId"`
	Name       string           `json:"name"`
	Type       string           `json:"type"`
	Parameters ReportParameters `json:"parameters"`
	Status     ReportStatus     `json:"status"`
	FileURL    string           `json:"fileUrl,omitempty"`
	FileSize   string           `json:"fileSize,omitempty"`
	Format     string           `json:"format"`
	CreatedAt  time.Time        `json:"createdAt"`
	ExpiresAt  *time.Time       `json:"expiresAt,omitempty"`
}

// CropArea is one cultivated plot of the farm
type CropArea struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Variety         string          `json:"variety"`
	Area            float64         `json:"area"`
	PlantingDate    time.Time       `json:"plantingDate"`
	ExpectedHarvest time.Time       `json:"expectedHarvest"`
	Coordinates     []GeoCoordinate `json:"coordinates,omitempty"`
}

// Farm is the farm master record
type Farm struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Owner          string        `json:"owner"`
	Location       GeoCoordinate `json:"location"`
	TotalArea      float64       `json:"totalArea"`
	Crops          []CropArea    `json:"crops,omitempty"`
	Certifications []string      `json:"certifications,omitempty"`
}

// Notification is a server-issued message for the operator
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// PaginatedTreatments is the list envelope returned by the treatments endpoint
type PaginatedTreatments struct {
	Items      []Treatment `json:"items"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}
