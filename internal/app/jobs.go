package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/talkincode/storefront/internal/carousel"
	"github.com/talkincode/storefront/internal/router"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// initJob starts the scheduler and ties the view dependent jobs to the
// router: the carousel only rotates while home is shown, and the admin
// panel is mounted only while it is rendered.
func (a *Application) initJob() error {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	a.carousel = carousel.New(a.sched, a.appConfig.CarouselInterval(), func() int {
		return len(a.catalog.Banners())
	})
	if err := a.carousel.Follow(a.bus); err != nil {
		return err
	}

	_, err = a.sched.AddFunc("@hourly", a.SchedOrderHistoryTask)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.router.OnChange(a.onViewChange)
	a.onViewChange(router.ViewHome, a.router.Rendered())

	a.sched.Start()
	return nil
}

func (a *Application) onViewChange(from, to router.View) {
	if to == router.ViewHome {
		if err := a.carousel.Start(); err != nil {
			zap.L().Error("start carousel", zap.String("namespace", "carousel"), zap.Error(err))
		}
	} else {
		a.carousel.Stop()
	}

	if to == router.ViewAdmin && from != router.ViewAdmin {
		a.admin.Mount()
	}
	if from == router.ViewAdmin && to != router.ViewAdmin {
		a.admin.Unmount()
	}
	zap.L().Debug("view changed", zap.String("namespace", "router"),
		zap.String("from", from.String()), zap.String("to", to.String()))
}

// SchedOrderHistoryTask logs how many orders were dispatched recently.
func (a *Application) SchedOrderHistoryTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	since := time.Now().Add(-time.Hour)
	n := 0
	for _, d := range a.messenger.History() {
		if d.Created.After(since) {
			n++
		}
	}
	if n > 0 {
		zap.L().Info("orders dispatched in the last hour",
			zap.String("namespace", "checkout"), zap.Int("count", n))
	}
}
