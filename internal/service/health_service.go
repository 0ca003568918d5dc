package service

import (
	"context"
	"time"
)

// Pinger 可做连通性检查的依赖
type Pinger interface {
	Ping(ctx context.Context) error
}

type ComponentHealth struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type HealthReport struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
}

type HealthService struct {
	Components map[string]Pinger
	Timeout    time.Duration
}

func NewHealthService(components map[string]Pinger) *HealthService {
	return &HealthService{Components: components, Timeout: 3 * time.Second}
}

// Check 任一组件不可用时整体状态为 degraded
func (s *HealthService) Check(ctx context.Context) HealthReport {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	report := HealthReport{Status: "ok", Components: make(map[string]ComponentHealth, len(s.Components))}
	for name, p := range s.Components {
		if err := p.Ping(ctx); err != nil {
			report.Status = "degraded"
			report.Components[name] = ComponentHealth{Status: "down", Error: err.Error()}
			continue
		}
		report.Components[name] = ComponentHealth{Status: "up"}
	}
	return report
}
