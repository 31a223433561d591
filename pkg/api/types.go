package api

import (
	"time"

	"github.com/vcscsvcscs/vitals-tracker/pkg/model"
)

// Error codes
const (
	CodeValidationError   = "VALIDATION_ERROR"
	CodeStoreError        = "STORE_ERROR"
	CodeRequestInProgress = "REQUEST_IN_PROGRESS"
	CodeReportsDisabled   = "REPORTS_DISABLED"
	CodeNotFound          = "NOT_FOUND"
	CodeNoData            = "NO_DATA"
	CodeInternalError     = "INTERNAL_ERROR"
)

// Range selects the trend window
type Range string

// Defines values for Range.
const (
	Range7days  Range = "7days"
	Range14days Range = "14days"
	Range1month Range = "1month"
)

// ChartMetric selects the charted measurement
type ChartMetric string

// Defines values for ChartMetric.
const (
	ChartMetricBloodPressure ChartMetric = "blood_pressure"
	ChartMetricPulse         ChartMetric = "pulse"
)

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Details *string            `json:"details,omitempty"`
	Fields  *map[string]string `json:"fields,omitempty"`
}

// HealthResponse defines model for HealthResponse.
type HealthResponse struct {
	Status     string  `json:"status"`
	Store      *string `json:"store,omitempty"`
	AiProvider *string `json:"ai_provider,omitempty"`
	Reports    *bool   `json:"reports,omitempty"`
}

// SubmitVitalsResponse defines model for SubmitVitalsResponse.
type SubmitVitalsResponse struct {
	Key  string           `json:"key"`
	Form model.VitalsForm `json:"form"`
}

// VitalRecordsResponse defines model for VitalRecordsResponse.
type VitalRecordsResponse struct {
	Records []model.VitalRecord `json:"records"`
	Skipped *int                `json:"skipped,omitempty"`
	NoData  bool                `json:"no_data"`
}

// ChatRequest defines model for ChatRequest.
type ChatRequest struct {
	Text              string `json:"text"`
	IncludeHealthData *bool  `json:"include_health_data,omitempty"`
}

// MessagesResponse defines model for MessagesResponse.
type MessagesResponse struct {
	Messages []model.ChatMessage `json:"messages"`
}

// ExchangeResponse defines model for ExchangeResponse.
type ExchangeResponse struct {
	Messages []model.ChatMessage `json:"messages"`
	Alert    *string             `json:"alert,omitempty"`
}

// Report defines model for Report.
type Report struct {
	Window      string    `json:"window"`
	CsvBlob     string    `json:"csv_blob"`
	PdfBlob     string    `json:"pdf_blob"`
	Readings    int       `json:"readings"`
	GeneratedAt time.Time `json:"generated_at"`
}

// GetApiV1DashboardParams defines parameters for GetApiV1Dashboard.
type GetApiV1DashboardParams struct {
	Range *Range `form:"range,omitempty" json:"range,omitempty"`
}

// GetApiV1DashboardChartParams defines parameters for GetApiV1DashboardChart.
type GetApiV1DashboardChartParams struct {
	Range  *Range       `form:"range,omitempty" json:"range,omitempty"`
	Metric *ChartMetric `form:"metric,omitempty" json:"metric,omitempty"`
}

// PostApiV1ReportsParams defines parameters for PostApiV1Reports.
type PostApiV1ReportsParams struct {
	Range *Range `form:"range,omitempty" json:"range,omitempty"`
}
