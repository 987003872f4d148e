package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Database struct {
		Driver   string `mapstructure:"driver"` // "postgres" or "dynamodb"
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
		MaxConns int    `mapstructure:"max_conns"`

		DynamoDB struct {
			Region        string `mapstructure:"region"`
			Endpoint      string `mapstructure:"endpoint"`
			JobsTable     string `mapstructure:"jobs_table"`
			ExpensesTable string `mapstructure:"expenses_table"`
			RatesTable    string `mapstructure:"rates_table"`
		} `mapstructure:"dynamodb"`
	} `mapstructure:"database"`

	Redis struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Bills struct {
		Storage       string `mapstructure:"storage"` // "local" or "r2"
		Dir           string `mapstructure:"dir"`
		PublicBaseURL string `mapstructure:"public_base_url"`

		R2 struct {
			Endpoint  string `mapstructure:"endpoint"`
			AccessKey string `mapstructure:"access_key"`
			SecretKey string `mapstructure:"secret_key"`
			Bucket    string `mapstructure:"bucket"`
			Region    string `mapstructure:"region"`
			Prefix    string `mapstructure:"prefix"`
		} `mapstructure:"r2"`

		Business struct {
			Name     string   `mapstructure:"name"`
			Address  []string `mapstructure:"address"`
			Email    string   `mapstructure:"email"`
			Contacts []string `mapstructure:"contacts"`
			GSTIN    string   `mapstructure:"gstin"`
			LogoPath string   `mapstructure:"logo_path"`
		} `mapstructure:"business"`
	} `mapstructure:"bills"`

	WhatsApp struct {
		Provider      string `mapstructure:"provider"` // "twilio", "meta" or "mock"
		AccountSID    string `mapstructure:"account_sid"`
		AuthToken     string `mapstructure:"auth_token"`
		FromNumber    string `mapstructure:"from_number"`
		APIKey        string `mapstructure:"api_key"`
		PhoneNumberID string `mapstructure:"phone_number_id"`
		BaseURL       string `mapstructure:"base_url"`
		// Outbound sends per second; 0 disables throttling
		MaxPerSecond float64 `mapstructure:"max_per_second"`
		Burst        int     `mapstructure:"burst"`
	} `mapstructure:"whatsapp"`

	Workflow struct {
		StrictTransitions bool `mapstructure:"strict_transitions"`
		TaskConcurrency   int  `mapstructure:"task_concurrency"`
	} `mapstructure:"workflow"`
}

// Load reads configs/config.yaml (optional), .env and the environment
func Load() *Config {
	return LoadFile("configs/config.yaml")
}

func LoadFile(path string) *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)

	// Auto bind environment variables, server.port -> SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	applyEnvOverrides(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Content-Type", "Authorization"})

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "fabric_db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.dynamodb.region", "us-east-1")
	v.SetDefault("database.dynamodb.jobs_table", "fabric_jobs")
	v.SetDefault("database.dynamodb.expenses_table", "expenses")
	v.SetDefault("database.dynamodb.rates_table", "rate_config")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)

	v.SetDefault("bills.storage", "local")
	v.SetDefault("bills.dir", "bills")
	v.SetDefault("bills.public_base_url", "http://localhost:5000")
	v.SetDefault("bills.r2.region", "auto")
	v.SetDefault("bills.r2.prefix", "bills/")
	v.SetDefault("bills.business.name", "Harsh Enterprise")
	v.SetDefault("bills.business.logo_path", "assets/logo.png")

	v.SetDefault("whatsapp.provider", "twilio")
	v.SetDefault("whatsapp.max_per_second", 1)
	v.SetDefault("whatsapp.burst", 5)

	v.SetDefault("workflow.strict_transitions", false)
	v.SetDefault("workflow.task_concurrency", 5)
}

// applyEnvOverrides lets deployment secrets win over the config file
func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}
	if endpoint := os.Getenv("DYNAMODB_ENDPOINT"); endpoint != "" {
		cfg.Database.DynamoDB.Endpoint = endpoint
	}

	// K8s sets REDIS_SERVICE_HOST and REDIS_SERVICE_PORT for services
	if host := firstEnv("REDIS_HOST", "REDIS_SERVICE_HOST"); host != "" {
		cfg.Redis.Host = host
	}
	if port := firstEnv("REDIS_PORT", "REDIS_SERVICE_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Redis.Port = n
		}
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		cfg.Redis.Password = pass
	}

	if sid := os.Getenv("TWILIO_ACCOUNT_SID"); sid != "" {
		cfg.WhatsApp.AccountSID = sid
	}
	if token := os.Getenv("TWILIO_AUTH_TOKEN"); token != "" {
		cfg.WhatsApp.AuthToken = token
	}
	if from := os.Getenv("TWILIO_WHATSAPP_NUMBER"); from != "" {
		cfg.WhatsApp.FromNumber = from
	}
	if key := os.Getenv("WHATSAPP_API_KEY"); key != "" {
		cfg.WhatsApp.APIKey = key
	}
	if id := os.Getenv("WHATSAPP_PHONE_NUMBER_ID"); id != "" {
		cfg.WhatsApp.PhoneNumberID = id
	}

	if endpoint := os.Getenv("R2_ENDPOINT"); endpoint != "" {
		cfg.Bills.R2.Endpoint = endpoint
	}
	if key := os.Getenv("R2_ACCESS_KEY"); key != "" {
		cfg.Bills.R2.AccessKey = key
	}
	if secret := os.Getenv("R2_SECRET_KEY"); secret != "" {
		cfg.Bills.R2.SecretKey = secret
	}
	if bucket := os.Getenv("R2_BUCKET"); bucket != "" {
		cfg.Bills.R2.Bucket = bucket
	}
	if base := os.Getenv("BASE_URL"); base != "" {
		cfg.Bills.PublicBaseURL = base
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// RedisAddr returns host:port of the configured Redis
func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + strconv.Itoa(c.Redis.Port)
}
