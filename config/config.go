package config

import (
	"os"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SystemConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host       string `yaml:"host" json:"host"`
	Port       int    `yaml:"port" json:"port"`
	CorsOrigin string `yaml:"cors_origin" json:"cors_origin"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type OrdersConfig struct {
	// LogRetentionDays limits how long activity-log rows are kept by the
	// retention job. Zero disables trimming.
	LogRetentionDays int `yaml:"log_retention_days" json:"log_retention_days"`
}

type AppConfig struct {
	System   SystemConfig `yaml:"system" json:"system"`
	Web      WebConfig    `yaml:"web" json:"web"`
	Database DBConfig     `yaml:"database" json:"database"`
	Logger   LoggerConfig `yaml:"logger" json:"logger"`
	Orders   OrdersConfig `yaml:"orders" json:"orders"`
}

var DefaultAppConfig = &AppConfig{
	System: SystemConfig{
		Appid:    "bookstore",
		Location: "America/Recife",
		Workdir:  "/var/bookstore",
		Debug:    true,
	},
	Web: WebConfig{
		Host:       "0.0.0.0",
		Port:       3333,
		CorsOrigin: "http://localhost:5173",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "bookstore",
		User:     "postgres",
		Passwd:   "postgres",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/bookstore/bookstore.log",
	},
	Orders: OrdersConfig{
		LogRetentionDays: 90,
	},
}

func setEnvString(name string, f func(v string)) {
	if v := os.Getenv(name); v != "" {
		f(v)
	}
}

func setEnvInt(name string, f func(v int)) {
	if v := os.Getenv(name); v != "" {
		f(cast.ToInt(v))
	}
}

func setEnvBool(name string, f func(v bool)) {
	if v := os.Getenv(name); v != "" {
		f(cast.ToBool(v))
	}
}

// LoadConfig reads the yaml configuration file and applies
// BOOKSTORE_* environment overrides on top.
func LoadConfig(cfile string) *AppConfig {
	defaults := *DefaultAppConfig
	cfg := &defaults
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			// The file merges over the defaults so a partial yaml only
			// overrides the keys it names.
			merged := defaults
			if err := yaml.Unmarshal(data, &merged); err == nil {
				cfg = &merged
			}
		}
	}

	setEnvString("BOOKSTORE_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvBool("BOOKSTORE_SYSTEM_DEBUG", func(v bool) { cfg.System.Debug = v })
	setEnvString("BOOKSTORE_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvInt("BOOKSTORE_WEB_PORT", func(v int) { cfg.Web.Port = v })
	setEnvString("BOOKSTORE_WEB_CORS_ORIGIN", func(v string) { cfg.Web.CorsOrigin = v })
	setEnvString("BOOKSTORE_DB_TYPE", func(v string) { cfg.Database.Type = v })
	setEnvString("BOOKSTORE_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvInt("BOOKSTORE_DB_PORT", func(v int) { cfg.Database.Port = v })
	setEnvString("BOOKSTORE_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvString("BOOKSTORE_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvString("BOOKSTORE_DB_PWD", func(v string) { cfg.Database.Passwd = v })
	setEnvString("BOOKSTORE_LOGGER_MODE", func(v string) { cfg.Logger.Mode = v })
	setEnvInt("BOOKSTORE_ORDERS_LOG_RETENTION_DAYS", func(v int) { cfg.Orders.LogRetentionDays = v })

	return cfg
}
