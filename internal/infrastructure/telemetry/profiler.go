package telemetry

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/debtbook/backend/internal/infrastructure/config"
	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

var (
	ErrProfilerAddressRequired = errors.New("telemetry: profiler server address is required")
	ErrProfilerNameRequired    = errors.New("telemetry: profiler application name is required")
)

// defaultProfileTypes is the set collected for the ledger service. Mutex and
// block profiles are left off since they need runtime sampling rates.
var defaultProfileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseObjects,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
}

// Profiler wraps the Pyroscope profiler with lifecycle management.
type Profiler struct {
	profiler *pyroscope.Profiler
	logger   *zap.Logger
	mu       sync.Mutex
	stopped  bool
}

// NewProfiler starts continuous profiling. A disabled config yields a
// profiler whose Stop is a no-op.
func NewProfiler(cfg config.ProfilingConfig, logger *zap.Logger) (*Profiler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Profiler{logger: logger}

	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return p, nil
	}
	if cfg.ServerAddress == "" {
		return nil, ErrProfilerAddressRequired
	}
	if cfg.ApplicationName == "" {
		return nil, ErrProfilerNameRequired
	}

	tags := map[string]string{}
	if hostname := os.Getenv("HOSTNAME"); hostname != "" {
		tags["hostname"] = hostname
	}

	pcfg := pyroscope.Config{
		ApplicationName: cfg.ApplicationName,
		ServerAddress:   cfg.ServerAddress,
		Logger:          &pyroscopeLogger{logger: logger.Named("pyroscope").Sugar()},
		Tags:            tags,
		ProfileTypes:    defaultProfileTypes,
	}
	if cfg.BasicAuthUser != "" && cfg.BasicAuthPassword != "" {
		pcfg.BasicAuthUser = cfg.BasicAuthUser
		pcfg.BasicAuthPassword = cfg.BasicAuthPassword
	}

	profiler, err := pyroscope.Start(pcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start Pyroscope profiler: %w", err)
	}
	p.profiler = profiler

	logger.Info("Pyroscope profiler started",
		zap.String("server_address", cfg.ServerAddress),
		zap.String("application_name", cfg.ApplicationName))
	return p, nil
}

// Stop flushes pending profiles. It is safe to call more than once.
func (p *Profiler) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped || p.profiler == nil {
		p.stopped = true
		return nil
	}
	p.stopped = true

	if err := p.profiler.Stop(); err != nil {
		return fmt.Errorf("failed to stop profiler: %w", err)
	}
	p.logger.Info("Pyroscope profiler stopped")
	return nil
}

// IsEnabled reports whether profiles are being collected.
func (p *Profiler) IsEnabled() bool {
	return p.profiler != nil
}

// pyroscopeLogger adapts zap to pyroscope.Logger.
type pyroscopeLogger struct {
	logger *zap.SugaredLogger
}

func (l *pyroscopeLogger) Infof(format string, args ...any)  { l.logger.Infof(format, args...) }
func (l *pyroscopeLogger) Debugf(format string, args ...any) { l.logger.Debugf(format, args...) }
func (l *pyroscopeLogger) Errorf(format string, args ...any) { l.logger.Errorf(format, args...) }
