package app

import (
	"context"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"

	"github.com/talkincode/pedeai/internal/domain"
	"github.com/talkincode/pedeai/pkg/metrics"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedSystemMonitorTask()
		go a.SchedProcessMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@every 10m", func() {
		a.SchedCatalogRefreshTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.SchedEventPurgeTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedSystemMonitorTask system monitor
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	_cpuuse, err := cpu.Percent(0, false)
	if err == nil && len(_cpuuse) > 0 {
		metrics.RecordValue(metrics.MetricSystemCpuuse, _cpuuse[0])
	}

	_meminfo, err := mem.VirtualMemory()
	if err == nil {
		metrics.RecordValue(metrics.MetricSystemMemuse, float64(_meminfo.Used/1024/1024))
	}
}

// SchedProcessMonitorTask app process monitor
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	p, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // G115: PID is always within int32 range
	if err != nil {
		return
	}
	if cpuPercent, err := p.CPUPercent(); err == nil {
		metrics.RecordValue("pedeai_process_cpuuse", cpuPercent)
	}
	if memInfo, err := p.MemoryInfo(); err == nil && memInfo != nil {
		metrics.RecordValue("pedeai_process_memuse", float64(memInfo.RSS/1024/1024))
	}
}

// SchedCatalogRefreshTask reloads the product snapshot from the CMS.
func (a *Application) SchedCatalogRefreshTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := a.catalogSvc.Refresh(ctx); err != nil {
		zap.S().Warnf("catalog refresh job failed: %v", err)
	}
}

// SchedEventPurgeTask drops analytics events past the retention window.
func (a *Application) SchedEventPurgeTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	days := a.GetSettingsInt64Value("storefront", "event_retention_days")
	if days <= 0 {
		days = 365
	}
	a.gormDB.
		Where("created_at < ?", time.Now().Add(-time.Hour*24*time.Duration(days))).
		Delete(&domain.TrackEvent{})
}
