package app

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	if s.app.parser != nil {
		status.Components["parser"] = fmt.Sprintf("ok (%v)", s.app.parser.SupportedExtensions())
	} else {
		status.Status = "degraded"
		status.Components["parser"] = "missing"
	}

	names := make([]string, 0)
	for _, m := range s.app.catalog.Metrics() {
		names = append(names, m.Name())
	}
	status.Components["catalog"] = strings.Join(names, ",")

	if s.app.history != nil {
		status.Components["history"] = "ok"
	} else if s.app.Config.History.Enabled {
		status.Status = "degraded"
		status.Components["history"] = "missing but enabled in config"
	}

	if r := s.app.LastReport(); r != nil {
		status.Components["last_scan"] = fmt.Sprintf("ok (%d files, %d functions)", r.Files, r.Functions)
	} else {
		status.Components["last_scan"] = "pending"
	}

	return status
}
