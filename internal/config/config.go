// Package config 提供配置加载和管理功能
package config

import (
	"time"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Providers     ProvidersConfig     `yaml:"providers" mapstructure:"providers"`
	Generation    GenerationConfig    `yaml:"generation" mapstructure:"generation"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
	Features      FeaturesConfig      `yaml:"features" mapstructure:"features"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 服务器配置
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// ProvidersConfig 文本/图片提供商选择与各实现配置
type ProvidersConfig struct {
	// Text 文本提供商名称: ollama / huggingface / gemini
	Text string `yaml:"text" mapstructure:"text"`
	// Image 图片提供商名称: placeholder / replicate / gemini，空值回退 placeholder
	Image string `yaml:"image" mapstructure:"image"`

	Ollama      OllamaConfig      `yaml:"ollama" mapstructure:"ollama"`
	HuggingFace HuggingFaceConfig `yaml:"huggingface" mapstructure:"huggingface"`
	Gemini      GeminiConfig      `yaml:"gemini" mapstructure:"gemini"`
	Replicate   ReplicateConfig   `yaml:"replicate" mapstructure:"replicate"`

	// HealthCacheTTL 健康检查结果缓存时长
	HealthCacheTTL time.Duration `yaml:"health_cache_ttl" mapstructure:"health_cache_ttl"`
}

// OllamaConfig 本地推理服务配置
type OllamaConfig struct {
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Model   string        `yaml:"model" mapstructure:"model"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// HuggingFaceConfig Hugging Face Inference API 配置
type HuggingFaceConfig struct {
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Model   string        `yaml:"model" mapstructure:"model"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// GeminiConfig Gemini 多模态 SDK 配置（文本与图片共用凭证）
type GeminiConfig struct {
	APIKey     string `yaml:"api_key" mapstructure:"api_key"`
	TextModel  string `yaml:"text_model" mapstructure:"text_model"`
	ImageModel string `yaml:"image_model" mapstructure:"image_model"`
}

// ReplicateConfig Replicate 异步图片生成配置
type ReplicateConfig struct {
	APIKey       string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL      string        `yaml:"base_url" mapstructure:"base_url"`
	Version      string        `yaml:"version" mapstructure:"version"`
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`
	PollTimeout  time.Duration `yaml:"poll_timeout" mapstructure:"poll_timeout"`
}

// GenerationConfig 生成参数全局覆盖
type GenerationConfig struct {
	// Temperature 全局温度覆盖，nil 表示使用题材默认值
	Temperature *float64 `yaml:"temperature" mapstructure:"temperature"`
	// MaxTokens 全局 token 上限覆盖，nil 表示使用题材默认值
	MaxTokens *int `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig Redis 配置（仅限流器使用，可选）
type RedisConfig struct {
	Enabled      bool          `yaml:"enabled" mapstructure:"enabled"`
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Requests 窗口内允许的请求数
	Requests int `yaml:"requests" mapstructure:"requests"`
	// Window 限流窗口长度
	Window time.Duration `yaml:"window" mapstructure:"window"`
	// Store 限流状态存储: memory / redis
	Store string `yaml:"store" mapstructure:"store"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}

// FeaturesConfig 功能开关配置
type FeaturesConfig struct {
	Images ImagesFeature `yaml:"images" mapstructure:"images"`
}

// ImagesFeature 图片生成功能开关
type ImagesFeature struct {
	// Enabled 生成故事时是否同步为每个段落生成插图
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}
