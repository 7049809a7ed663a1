package lib

import (
	"time"

	"voyagemate/src/logger"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

var scheduler gocron.Scheduler

func NewScheduler(s gocron.Scheduler) {
	scheduler = s
}

func GetScheduler() (gocron.Scheduler, error) {
	if scheduler != nil {
		return scheduler, nil
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		logger.L.Error("error initializing scheduler", zap.Error(err))
		return nil, err
	}
	scheduler = sched
	return sched, nil
}

// CreateCronJob registers handler to run every duration, once immediately on
// start. Overlapping runs are skipped.
func CreateCronJob(name string, duration time.Duration, handler any, args ...any) (string, error) {
	sched, err := GetScheduler()
	if err != nil {
		return "", err
	}
	j, err := sched.NewJob(
		gocron.DurationJob(duration),
		gocron.NewTask(handler, args...),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return "", err
	}
	logger.L.Info("scheduled job", zap.String("name", name), zap.String("id", j.ID().String()), zap.Duration("every", duration))
	return j.ID().String(), nil
}
