package app

import (
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/talkincode/storefront/config"
	"github.com/talkincode/storefront/internal/admin"
	"github.com/talkincode/storefront/internal/ai"
	"github.com/talkincode/storefront/internal/carousel"
	"github.com/talkincode/storefront/internal/cart"
	"github.com/talkincode/storefront/internal/catalog"
	"github.com/talkincode/storefront/internal/notify"
	"github.com/talkincode/storefront/internal/order"
	"github.com/talkincode/storefront/internal/router"
	"github.com/talkincode/storefront/internal/storage"
	"github.com/talkincode/storefront/internal/whatsapp"
)

type Application struct {
	appConfig *config.AppConfig
	store     *storage.Store
	bus       EventBus.Bus
	catalog   *catalog.Store
	sched     *cron.Cron
	router    *router.Router
	cart      *cart.Engine
	notifier  *notify.Notifier
	carousel  *carousel.Carousel
	admin     *admin.Controller
	messenger *whatsapp.Service
	orders    order.Builder
	now       func() time.Time
}

// Ensure Application implements all interfaces
var (
	_ ConfigProvider    = (*Application)(nil)
	_ CatalogProvider   = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ SessionProvider   = (*Application)(nil)
	_ MessengerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig, now: time.Now}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Catalog() *catalog.Store {
	return a.catalog
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

func (a *Application) Router() *router.Router {
	return a.router
}

func (a *Application) Cart() *cart.Engine {
	return a.cart
}

func (a *Application) Notifier() *notify.Notifier {
	return a.notifier
}

func (a *Application) Carousel() *carousel.Carousel {
	return a.carousel
}

func (a *Application) Admin() *admin.Controller {
	return a.admin
}

func (a *Application) Messenger() *whatsapp.Service {
	return a.messenger
}

// OverrideClock replaces the time source used for order folios (used in tests).
func (a *Application) OverrideClock(now func() time.Time) {
	a.now = now
}

func (a *Application) initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		filename := cfg.Logger.Filename
		if filename == "" {
			filename = filepath.Join(cfg.GetLogDir(), "storefront.log")
		}
		lumberJackLogger := &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

// Init builds every component from cfg. Only a storage file that cannot be
// opened is an error; unreadable collections fall back to their seed data.
func (a *Application) Init(cfg *config.AppConfig) error {
	a.appConfig = cfg
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger(cfg)

	dbpath := cfg.GetStoragePath()
	if err := os.MkdirAll(filepath.Dir(dbpath), 0o755); err != nil {
		return errors.Wrapf(err, "create storage dir for %s", dbpath)
	}
	a.store, err = storage.Open(dbpath)
	if err != nil {
		return err
	}
	zap.S().Infof("Storage open successful, path: %s", dbpath)

	a.bus = EventBus.New()
	a.catalog, err = catalog.New(a.store, a.bus)
	if err != nil {
		return err
	}
	a.checkSettings()

	a.notifier = notify.New(cfg.NotifyDismiss())
	a.cart = cart.New()
	a.router = router.New(router.Credentials{
		Username: cfg.Admin.Username,
		Password: cfg.Admin.Password,
	})
	a.admin = admin.New(a.catalog, a.newGenerator(cfg), a.notifier)
	a.messenger = whatsapp.New(cfg.Messaging.Host)
	a.orders = order.Builder{Host: cfg.Messaging.Host}

	return a.initJob()
}

// newGenerator returns nil when no API key is configured; the admin panel
// then reports AI actions as unavailable.
func (a *Application) newGenerator(cfg *config.AppConfig) admin.Generator {
	if cfg.AI.APIKey == "" {
		zap.L().Warn("ai api key is not configured, ai suggestions disabled", zap.String("namespace", "ai"))
		return nil
	}
	return ai.New(ai.Config{
		Endpoint: cfg.AI.Endpoint,
		APIKey:   cfg.AI.APIKey,
		Timeout:  cfg.AITimeout(),
	})
}

// Release releases application resources
func (a *Application) Release() {
	if a.carousel != nil {
		a.carousel.Stop()
	}
	if a.sched != nil {
		<-a.sched.Stop().Done()
	}
	if a.notifier != nil {
		a.notifier.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			zap.L().Error("close storage", zap.String("namespace", "storage"), zap.Error(err))
		}
	}
	_ = zap.L().Sync()
}
