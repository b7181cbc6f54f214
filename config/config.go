package config

import (
	"fmt"
	"os"
	"path"

	"github.com/labstack/gommon/random"
	"gopkg.in/yaml.v3"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Secret string `yaml:"secret" json:"secret"`
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

// CartConfig configures the bbolt file that backs per-session carts.
type CartConfig struct {
	Path string `yaml:"path" json:"path"`
}

// CmsConfig points at the headless CMS (Strapi-style API) that owns the
// product catalog, the general storefront config and the sales collection.
type CmsConfig struct {
	URL     string `yaml:"url" json:"url"`
	Token   string `yaml:"token" json:"token"`
	Timeout int    `yaml:"timeout" json:"timeout"`
}

type PostalConfig struct {
	URL     string `yaml:"url" json:"url"`
	Timeout int    `yaml:"timeout" json:"timeout"`
}

type WhatsAppConfig struct {
	Enable    bool   `yaml:"enable" json:"enable"`
	StorePath string `yaml:"store_path" json:"store_path"`
}

type SmtpConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
	To       string `yaml:"to" json:"to"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig      `yaml:"system" json:"system"`
	Web      WebConfig      `yaml:"web" json:"web"`
	Database DBConfig       `yaml:"database" json:"database"`
	Cart     CartConfig     `yaml:"cart" json:"cart"`
	Cms      CmsConfig      `yaml:"cms" json:"cms"`
	Postal   PostalConfig   `yaml:"postal" json:"postal"`
	WhatsApp WhatsAppConfig `yaml:"whatsapp" json:"whatsapp"`
	Smtp     SmtpConfig     `yaml:"smtp" json:"smtp"`
	Logger   LogConfig      `yaml:"logger" json:"logger"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(path.Join(c.System.Workdir, "logs"), 0755)
	_ = os.MkdirAll(path.Join(c.System.Workdir, "data"), 0755)
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "PedeAi",
		Location: "America/Sao_Paulo",
		Workdir:  "/var/pedeai",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1816,
		Secret: "9b6de5cc-pedeai-1816-8846-37153facf706",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "pedeai",
		User:     "postgres",
		Passwd:   "myroot",
		MaxConn:  100,
		IdleConn: 10,
	},
	Cart: CartConfig{
		Path: "",
	},
	Cms: CmsConfig{
		URL:     "http://127.0.0.1:1337",
		Token:   "",
		Timeout: 10,
	},
	Postal: PostalConfig{
		URL:     "https://brasilapi.com.br",
		Timeout: 5,
	},
	WhatsApp: WhatsAppConfig{
		Enable:    false,
		StorePath: "",
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/pedeai/pedeai.log",
	},
}

func setEnvValue(name string, val *string) {
	if v, ok := os.LookupEnv(name); ok {
		*val = v
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v, ok := os.LookupEnv(name); ok {
		*val = v == "true" || v == "1" || v == "on"
	}
}

// LoadConfig reads the YAML config file and applies PEDEAI_* environment
// overrides. A missing file yields the defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig
	if cfile != "" {
		if _, err := os.Stat(cfile); err == nil {
			data, err := os.ReadFile(cfile)
			if err != nil {
				panic(err)
			}
			cfg = new(AppConfig)
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic(fmt.Errorf("parse config %s: %w", cfile, err))
			}
		}
	}

	setEnvValue("PEDEAI_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("PEDEAI_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvValue("PEDEAI_WEB_SECRET", &cfg.Web.Secret)
	setEnvValue("PEDEAI_DB_HOST", &cfg.Database.Host)
	setEnvValue("PEDEAI_DB_NAME", &cfg.Database.Name)
	setEnvValue("PEDEAI_DB_USER", &cfg.Database.User)
	setEnvValue("PEDEAI_DB_PWD", &cfg.Database.Passwd)
	setEnvValue("PEDEAI_CMS_URL", &cfg.Cms.URL)
	setEnvValue("PEDEAI_CMS_TOKEN", &cfg.Cms.Token)
	setEnvValue("PEDEAI_BRASILAPI_URL", &cfg.Postal.URL)
	setEnvBoolValue("PEDEAI_WHATSAPP_ENABLE", &cfg.WhatsApp.Enable)
	setEnvValue("PEDEAI_LOGGER_MODE", &cfg.Logger.Mode)

	if cfg.Web.Secret == "" {
		cfg.Web.Secret = random.String(32)
	}
	if cfg.Cart.Path == "" {
		cfg.Cart.Path = path.Join(cfg.System.Workdir, "data", "cart.db")
	}
	if cfg.WhatsApp.StorePath == "" {
		cfg.WhatsApp.StorePath = path.Join(cfg.System.Workdir, "data", "whatsapp.db")
	}

	cfg.initDirs()
	return cfg
}
