package jobs

import (
	"context"
	"fmt"
	"time"

	"questionbank/internal/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const probeTimeout = 3 * time.Second

// Probe checks one backing service.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// DependencyProbeJob periodically checks the store and cache and exports the
// result as the dependency_up gauge.
type DependencyProbeJob struct {
	schedule string
	probes   []Probe
	logger   *zap.Logger
	cron     *cron.Cron
}

func NewDependencyProbeJob(schedule string, logger *zap.Logger, probes ...Probe) *DependencyProbeJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DependencyProbeJob{
		schedule: schedule,
		probes:   probes,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start schedules the probes. The first run happens immediately so the gauge
// is populated before the first tick.
func (j *DependencyProbeJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunProbes(context.Background()) }); err != nil {
		return fmt.Errorf("failed to schedule dependency probe: %w", err)
	}
	j.RunProbes(context.Background())
	j.cron.Start()
	j.logger.Info("dependency probe started", zap.String("schedule", j.schedule), zap.Int("probes", len(j.probes)))
	return nil
}

// Stop waits for a running probe to finish.
func (j *DependencyProbeJob) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
	}
}

// RunProbes checks every dependency once and returns the failures by name.
func (j *DependencyProbeJob) RunProbes(ctx context.Context) map[string]error {
	failed := map[string]error{}
	for _, p := range j.probes {
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := p.Check(pctx)
		cancel()

		metrics.SetDependencyUp(p.Name, err == nil)
		if err != nil {
			failed[p.Name] = err
			j.logger.Warn("dependency probe failed", zap.String("dependency", p.Name), zap.Error(err))
		}
	}
	return failed
}
