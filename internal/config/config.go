package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Server   ServerConfig   `yaml:"server"`
	YouTube  YouTubeConfig  `yaml:"youtube"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Collect  CollectConfig  `yaml:"collect"`
	Schedule ScheduleConfig `yaml:"schedule"`
	LogLevel string         `yaml:"log_level"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RabbitMQConfig configures the collection-report publisher. An empty URL
// disables publishing entirely.
type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type YouTubeConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type OpenAIConfig struct {
	APIKey   string        `yaml:"api_key"`
	Endpoint string        `yaml:"endpoint"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

// CollectConfig drives one collection run. Fallback chains are data: Chains
// maps a country code to an ordered list of keyword source IDs, DefaultChain
// applies to every country without an entry, and Platforms maps a country to
// the single source used by the platform-keywords passthrough.
type CollectConfig struct {
	RequestTimeout    time.Duration       `yaml:"request_timeout"`
	AdapterTimeout    time.Duration       `yaml:"adapter_timeout"`
	KeywordLimit      int                 `yaml:"keyword_limit"`
	VideosPerKeyword  int                 `yaml:"videos_per_keyword"`
	SearchConcurrency int                 `yaml:"search_concurrency"`
	TrendingMinVideos int                 `yaml:"trending_min_videos"`
	TrendingLimit     int                 `yaml:"trending_limit"`
	InsightTitleLimit int                 `yaml:"insight_title_limit"`
	InsightKeywords   int                 `yaml:"insight_keywords"`
	Chains            map[string][]string `yaml:"chains"`
	DefaultChain      []string            `yaml:"default_chain"`
	Platforms         map[string]string   `yaml:"platforms"`
}

type ScheduleConfig struct {
	Interval  time.Duration `yaml:"interval"`
	Countries []string      `yaml:"countries"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "trendwatch"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "collections"
	}
	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "trend_collections"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.YouTube.BaseURL == "" {
		c.YouTube.BaseURL = "https://www.googleapis.com/youtube/v3"
	}
	if c.YouTube.Timeout == 0 {
		c.YouTube.Timeout = 10 * time.Second
	}
	if c.OpenAI.Endpoint == "" {
		c.OpenAI.Endpoint = "https://api.openai.com/v1/chat/completions"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.OpenAI.Timeout == 0 {
		c.OpenAI.Timeout = 20 * time.Second
	}
	if c.Collect.RequestTimeout == 0 {
		c.Collect.RequestTimeout = 90 * time.Second
	}
	if c.Collect.AdapterTimeout == 0 {
		c.Collect.AdapterTimeout = 10 * time.Second
	}
	if c.Collect.KeywordLimit == 0 {
		c.Collect.KeywordLimit = 20
	}
	if c.Collect.VideosPerKeyword == 0 {
		c.Collect.VideosPerKeyword = 3
	}
	if c.Collect.SearchConcurrency == 0 {
		c.Collect.SearchConcurrency = 5
	}
	if c.Collect.TrendingMinVideos == 0 {
		c.Collect.TrendingMinVideos = 10
	}
	if c.Collect.TrendingLimit == 0 {
		c.Collect.TrendingLimit = 10
	}
	if c.Collect.InsightTitleLimit == 0 {
		c.Collect.InsightTitleLimit = 30
	}
	if c.Collect.InsightKeywords == 0 {
		c.Collect.InsightKeywords = 15
	}
	if len(c.Collect.Chains) == 0 {
		c.Collect.Chains = map[string][]string{
			"KR": {"nate", "reddit"},
		}
	}
	if len(c.Collect.DefaultChain) == 0 {
		c.Collect.DefaultChain = []string{"reddit"}
	}
	if len(c.Collect.Platforms) == 0 {
		c.Collect.Platforms = map[string]string{
			"KR": "nate",
			"JP": "yahoo_japan",
		}
	}
	if c.Schedule.Interval == 0 {
		c.Schedule.Interval = 6 * time.Hour
	}
	if len(c.Schedule.Countries) == 0 {
		c.Schedule.Countries = []string{"KR"}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
