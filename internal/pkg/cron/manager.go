package cron

import (
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type entry struct {
	name string
	spec string
	job  cron.Job
}

type Manager struct {
	engine  *cron.Cron
	entries []entry
}

func NewCronManager() *Manager {
	return &Manager{
		engine: cron.New(cron.WithSeconds()),
	}
}

// Add 登记任务，spec 为空视为关闭该任务
func (s *Manager) Add(name, spec string, job cron.Job) {
	if spec == "" || job == nil {
		log.Info("cron job disabled", "job", name)
		return
	}
	s.entries = append(s.entries, entry{name: name, spec: spec, job: job})
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	for _, e := range s.entries {
		if _, err := s.engine.AddJob(e.spec, e.job); err != nil {
			return err
		}
		log.Info("cron job registered", "job", e.name, "spec", e.spec)
	}
	return nil
}

func (s *Manager) Len() int {
	return len(s.entries)
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

// Stop 等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
