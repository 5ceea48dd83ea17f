package outbox

import (
	"context"
	"time"

	"church-app-go/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Worker retries pending actions on a cron schedule.
type Worker struct {
	cron *cron.Cron
	log  logger.Logger
}

type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(keysAndValues, "err", err)...)
}

func NewWorker(service *Service, schedule string, log logger.Logger) (*Worker, error) {
	// Ticks never overlap: a slow pass skips the next trigger instead of
	// dispatching the same due rows twice.
	c := cron.New(
		cron.WithLogger(cronLogger{log: log}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{log: log})),
	)
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		service.RunDue(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &Worker{cron: c, log: log}, nil
}

func (w *Worker) Start() {
	w.log.Info("outbox: worker started")
	w.cron.Start()
}

// Stop waits for an in-flight tick to finish.
func (w *Worker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.log.Info("outbox: worker stopped")
}
