package handler

import "github.com/vcscsvcscs/vitals-tracker/pkg/api"

// APIHandler implements the generated ServerInterface by delegating to individual handlers
type APIHandler struct {
	*HealthHandler
	*VitalsHandler
	*DashboardHandler
	*AssistantHandler
	*ReportHandler
}

var _ api.ServerInterface = (*APIHandler)(nil)
