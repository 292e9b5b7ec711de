package services

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Background job names.
const (
	ServiceCacheCleanup = "cache_cleanup"
)

// ServiceStatus is the last known state of a background job.
type ServiceStatus struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Running     bool      `json:"running"`
	Interval    string    `json:"interval"`
	LastRun     time.Time `json:"last_run"`
	NextRun     time.Time `json:"next_run"`
	LastError   string    `json:"last_error,omitempty"`
	RunCount    int64     `json:"run_count"`
}

// ServiceScheduler runs periodic jobs and keeps their status for the
// health endpoint.
type ServiceScheduler struct {
	services map[string]*ServiceStatus
	mu       sync.RWMutex
	now      func() time.Time
	logger   *slog.Logger
}

func NewServiceScheduler(logger *slog.Logger) *ServiceScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ServiceScheduler{
		services: make(map[string]*ServiceStatus),
		now:      time.Now,
		logger:   logger,
	}
}

// Every registers a job and runs it on each tick of interval until ctx is
// done. The first run happens after one interval.
func (s *ServiceScheduler) Every(ctx context.Context, name, description string, interval time.Duration, job func(context.Context) error) {
	s.register(name, description, interval)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce(ctx, name, interval, job)
			}
		}
	}()
}

// RunOnce runs a registered job synchronously and records the outcome.
func (s *ServiceScheduler) RunOnce(ctx context.Context, name string, interval time.Duration, job func(context.Context) error) {
	s.markRunning(name)
	err := job(ctx)
	if err != nil {
		s.logger.Warn("background job failed", "job", name, "error", err)
	}
	s.markComplete(name, err, interval)
}

func (s *ServiceScheduler) register(name, description string, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.services[name] = &ServiceStatus{
		Name:        name,
		Description: description,
		Interval:    interval.String(),
		NextRun:     s.now().Add(interval),
	}
}

func (s *ServiceScheduler) markRunning(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if svc, exists := s.services[name]; exists {
		svc.Running = true
	}
}

func (s *ServiceScheduler) markComplete(name string, err error, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	svc, exists := s.services[name]
	if !exists {
		return
	}
	now := s.now()
	svc.Running = false
	svc.LastRun = now
	svc.NextRun = now.Add(interval)
	svc.RunCount++
	svc.LastError = ""
	if err != nil {
		svc.LastError = err.Error()
	}
}

// GetStatus returns a copy of one job's status.
func (s *ServiceScheduler) GetStatus(name string) (ServiceStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if svc, exists := s.services[name]; exists {
		return *svc, true
	}
	return ServiceStatus{}, false
}

// GetAllStatus returns copies of every job's status, sorted by name.
func (s *ServiceScheduler) GetAllStatus() []ServiceStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make([]ServiceStatus, 0, len(s.services))
	for _, svc := range s.services {
		statuses = append(statuses, *svc)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses
}
