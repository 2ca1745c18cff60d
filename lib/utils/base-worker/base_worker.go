package baseworker

import (
	"context"
	"runtime/debug"
	"time"

	log "github.com/sirupsen/logrus"
)

type BaseImpl struct {
	WorkerName    string
	firstRunDelay time.Duration
	runInterval   time.Duration
}

func NewInstance(WorkerName string, firstRunDelay, runInterval time.Duration) *BaseImpl {
	return &BaseImpl{
		WorkerName:    WorkerName,
		firstRunDelay: firstRunDelay,
		runInterval:   runInterval,
	}
}

func (i BaseImpl) GetLogger() *log.Entry {
	return log.WithField("worker_name", i.WorkerName)
}

// Run выполняет jobFunc с паузой runInterval до отмены ctx. Паника в одном запуске не останавливает задачу
func (i BaseImpl) Run(ctx context.Context, jobFunc func(ctx context.Context)) {
	period := i.firstRunDelay
	logger := i.GetLogger()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Задача остановлена")
			return
		case <-time.After(period):
			i.runOnce(ctx, jobFunc)
		}
		period = i.runInterval
	}
}

func (i BaseImpl) runOnce(ctx context.Context, jobFunc func(ctx context.Context)) {
	logger := i.GetLogger()
	startedAt := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.
				WithField("panic_stack", string(debug.Stack())).
				Errorf("panic: (%v)", r)
		}
	}()
	jobFunc(ctx)
	logger.WithField("duration_ms", time.Since(startedAt).Milliseconds()).Debug("Задача выполнена")
}
