package config

import (
	"os"
	"path"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// StorageConfig locates the bbolt file that holds the catalog documents.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// AdminConfig is the single administrator credential.
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type AIConfig struct {
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"api_key"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

type MessagingConfig struct {
	Host string `yaml:"host"`
}

type StorefrontConfig struct {
	CarouselIntervalSec int `yaml:"carousel_interval_sec"`
	NotifyDismissSec    int `yaml:"notify_dismiss_sec"`
}

type AppConfig struct {
	System     SysConfig        `yaml:"system"`
	Web        WebConfig        `yaml:"web"`
	Logger     LogConfig        `yaml:"logger"`
	Storage    StorageConfig    `yaml:"storage"`
	Admin      AdminConfig      `yaml:"admin"`
	AI         AIConfig         `yaml:"ai"`
	Messaging  MessagingConfig  `yaml:"messaging"`
	Storefront StorefrontConfig `yaml:"storefront"`
}

const DefaultAIEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "Storefront",
		Location: "America/Mexico_City",
		Workdir:  "/var/storefront",
		Debug:    false,
	},
	Web: WebConfig{
		Host: "0.0.0.0",
		Port: 1880,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: false,
		Filename:   "/var/storefront/storefront.log",
	},
	Admin: AdminConfig{
		Username: "merida13",
		Password: "darwin13",
	},
	AI: AIConfig{
		Endpoint:   DefaultAIEndpoint,
		TimeoutSec: 30,
	},
	Messaging: MessagingConfig{
		Host: "wa.me",
	},
	Storefront: StorefrontConfig{
		CarouselIntervalSec: 5,
		NotifyDismissSec:    4,
	},
}

// GetStoragePath returns the bbolt file path, defaulting under the workdir.
func (c *AppConfig) GetStoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return path.Join(c.System.Workdir, "data", "storefront.db")
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSec) * time.Second
}

func (c *AppConfig) CarouselInterval() time.Duration {
	return time.Duration(c.Storefront.CarouselIntervalSec) * time.Second
}

func (c *AppConfig) NotifyDismiss() time.Duration {
	return time.Duration(c.Storefront.NotifyDismissSec) * time.Second
}

// LoadConfig reads the YAML file at cfile (if any), fills missing values
// from DefaultAppConfig and applies STOREFRONT_* environment overrides. A
// .env file in the working directory is loaded first when present.
func LoadConfig(cfile string) (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		data, err := os.ReadFile(cfile)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", cfile)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", cfile)
		}
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	d := DefaultAppConfig
	if c.System.Location == "" {
		c.System.Location = d.System.Location
	}
	if c.System.Workdir == "" {
		c.System.Workdir = d.System.Workdir
	}
	if c.Web.Port == 0 {
		c.Web.Port = d.Web.Port
	}
	if c.Logger.Mode == "" {
		c.Logger.Mode = d.Logger.Mode
	}
	if c.Admin.Username == "" {
		c.Admin.Username = d.Admin.Username
	}
	if c.Admin.Password == "" {
		c.Admin.Password = d.Admin.Password
	}
	if c.AI.Endpoint == "" {
		c.AI.Endpoint = d.AI.Endpoint
	}
	if c.AI.TimeoutSec <= 0 {
		c.AI.TimeoutSec = d.AI.TimeoutSec
	}
	if c.Messaging.Host == "" {
		c.Messaging.Host = d.Messaging.Host
	}
	if c.Storefront.CarouselIntervalSec <= 0 {
		c.Storefront.CarouselIntervalSec = d.Storefront.CarouselIntervalSec
	}
	if c.Storefront.NotifyDismissSec <= 0 {
		c.Storefront.NotifyDismissSec = d.Storefront.NotifyDismissSec
	}
}

func (c *AppConfig) applyEnv() {
	setEnvString("STOREFRONT_WORKDIR", &c.System.Workdir)
	setEnvString("STOREFRONT_LOCATION", &c.System.Location)
	setEnvBool("STOREFRONT_DEBUG", &c.System.Debug)
	setEnvString("STOREFRONT_WEB_HOST", &c.Web.Host)
	setEnvInt("STOREFRONT_WEB_PORT", &c.Web.Port)
	setEnvString("STOREFRONT_LOGGER_MODE", &c.Logger.Mode)
	setEnvBool("STOREFRONT_LOGGER_FILE_ENABLE", &c.Logger.FileEnable)
	setEnvString("STOREFRONT_STORAGE_PATH", &c.Storage.Path)
	setEnvString("STOREFRONT_ADMIN_USERNAME", &c.Admin.Username)
	setEnvString("STOREFRONT_ADMIN_PASSWORD", &c.Admin.Password)
	setEnvString("STOREFRONT_AI_ENDPOINT", &c.AI.Endpoint)
	setEnvString("STOREFRONT_AI_API_KEY", &c.AI.APIKey)
	setEnvInt("STOREFRONT_AI_TIMEOUT_SEC", &c.AI.TimeoutSec)
	setEnvString("STOREFRONT_MESSAGING_HOST", &c.Messaging.Host)
}

func setEnvString(name string, val *string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*val = v
	}
}

func setEnvInt(name string, val *int) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if n, err := cast.ToIntE(v); err == nil {
			*val = n
		}
	}
}

func setEnvBool(name string, val *bool) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if b, err := cast.ToBoolE(v); err == nil {
			*val = b
		}
	}
}
