package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	// Notifications управляет планировщиком напоминаний об истечении документов.
	Notifications struct {
		TickIntervalMinutes int   `yaml:"tick_interval_minutes"` // default 1440 (daily)
		DefaultThresholds   []int `yaml:"default_thresholds"`    // days before expiry, e.g. [30,7,1]
		MaxRetries          int   `yaml:"max_retries"`           // default 3
		SendTimeoutSeconds  int   `yaml:"send_timeout_seconds"`  // default 30
		DispatchBatchSize   int   `yaml:"dispatch_batch_size"`   // default 50
	} `yaml:"notifications"`
}

var AppConfig *Config

func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")
	serverEnv := os.Getenv("SERVER_ENV")
	portStr := os.Getenv("SERVER_PORT")
	jwtSecret := os.Getenv("JWT_SECRET")

	if dbURL == "" {
		log.Println("Загрузка из config.yaml (режим НЕ-тест)")

		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyNotificationDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	log.Println("Загрузка конфигурации из переменных окружения (режим теста)")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = serverEnv
	cfg.Server.Port, _ = strconv.Atoi(portStr)
	cfg.JWT.Secret = jwtSecret
	cfg.JWT.TTL = 60

	cfg.Email.SMTPHost = "smtp.test.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "noreply@rentpro.test"
	cfg.Email.FromName = "RentPro"

	applyNotificationDefaults(&cfg)
	AppConfig = &cfg
}

// applyNotificationDefaults подставляет значения по умолчанию для планировщика
func applyNotificationDefaults(cfg *Config) {
	n := &cfg.Notifications
	if n.TickIntervalMinutes <= 0 {
		n.TickIntervalMinutes = 1440
	}
	if len(n.DefaultThresholds) == 0 {
		n.DefaultThresholds = []int{30, 7, 1}
	}
	if n.MaxRetries <= 0 {
		n.MaxRetries = 3
	}
	if n.SendTimeoutSeconds <= 0 {
		n.SendTimeoutSeconds = 30
	}
	if n.DispatchBatchSize <= 0 {
		n.DispatchBatchSize = 50
	}
}

// TickInterval возвращает интервал тика как Duration
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Notifications.TickIntervalMinutes) * time.Minute
}

// SendTimeout возвращает таймаут отправки как Duration
func (c *Config) SendTimeout() time.Duration {
	return time.Duration(c.Notifications.SendTimeoutSeconds) * time.Second
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
