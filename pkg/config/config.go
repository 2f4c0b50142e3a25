// Package config 提供 TOML 配置加载与环境变量覆盖
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 引擎服务配置
type Config struct {
	// 服务名称
	ServiceName string `mapstructure:"service_name"`
	// 服务版本
	Version string `mapstructure:"version"`
	// 环境：dev, staging, prod
	Environment string `mapstructure:"environment"`
	// HTTP 服务配置
	HTTP HTTPConfig `mapstructure:"http"`
	// 数据库配置
	Database DatabaseConfig `mapstructure:"database"`
	// Kafka 配置
	Kafka KafkaConfig `mapstructure:"kafka"`
	// 日志配置
	Logger LoggerConfig `mapstructure:"logger"`
	// 定价与风控引擎参数
	Engine EngineConfig `mapstructure:"engine"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	// 监听地址
	Host string `mapstructure:"host"`
	// 监听端口
	Port int `mapstructure:"port"`
	// 读超时（秒）
	ReadTimeout int `mapstructure:"read_timeout"`
	// 写超时（秒）
	WriteTimeout int `mapstructure:"write_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// 数据源名称
	DSN string `mapstructure:"dsn"`
	// 最大连接数
	MaxOpenConns int `mapstructure:"max_open_conns"`
	// 最大空闲连接数
	MaxIdleConns int `mapstructure:"max_idle_conns"`
	// 连接最大生命周期（秒）
	ConnMaxLifetime int `mapstructure:"conn_max_lifetime"`
}

// KafkaConfig Kafka 配置
type KafkaConfig struct {
	// Broker 地址列表
	Brokers []string `mapstructure:"brokers"`
	// 风险告警事件主题
	RiskAlertTopic string `mapstructure:"risk_alert_topic"`
	// 套利机会事件主题
	OpportunityTopic string `mapstructure:"opportunity_topic"`
	// 最大重试次数
	MaxRetries int `mapstructure:"max_retries"`
	// 重试退避（毫秒）
	RetryBackoff int `mapstructure:"retry_backoff"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	// 日志级别：debug, info, warn, error
	Level string `mapstructure:"level"`
	// 输出格式：json 或 text
	Format string `mapstructure:"format"`
	// 输出目标：stdout, file, both
	Output string `mapstructure:"output"`
	// 日志文件路径
	FilePath string `mapstructure:"file_path"`
	// 最大文件大小（MB）
	MaxSize int `mapstructure:"max_size"`
	// 最大备份文件数
	MaxBackups int `mapstructure:"max_backups"`
	// 最大保留天数
	MaxAge int `mapstructure:"max_age"`
	// 是否压缩
	Compress bool `mapstructure:"compress"`
	// 是否输出调用者信息
	WithCaller bool `mapstructure:"with_caller"`
}

// EngineConfig 定价与风控引擎参数
type EngineConfig struct {
	// 二叉树定价步数
	BinomialSteps int `mapstructure:"binomial_steps"`
	// 蒙特卡洛模拟路径数
	MonteCarloPaths int `mapstructure:"monte_carlo_paths"`
	// 蒙特卡洛并发 worker 数（0 表示取 CPU 核数）
	MonteCarloWorkers int `mapstructure:"monte_carlo_workers"`
	// 套利检测数值容差
	ArbitrageTolerance float64 `mapstructure:"arbitrage_tolerance"`
	// 波动率套利触发阈值（相对价差）
	VolSpreadThreshold float64 `mapstructure:"vol_spread_threshold"`
	// 无风险利率默认值
	DefaultRiskFreeRate float64 `mapstructure:"default_risk_free_rate"`
}

// Load 从 TOML 文件加载配置，支持 QUANTENGINE_ 前缀的环境变量覆盖
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v.SetEnvPrefix("QUANTENGINE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Default 返回全默认配置，供测试与本地运行使用
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate 校验配置合法性
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port: %d", c.HTTP.Port)
	}
	if c.Engine.BinomialSteps <= 0 {
		return fmt.Errorf("binomial_steps must be positive, got %d", c.Engine.BinomialSteps)
	}
	if c.Engine.MonteCarloPaths <= 0 {
		return fmt.Errorf("monte_carlo_paths must be positive, got %d", c.Engine.MonteCarloPaths)
	}
	if c.Engine.ArbitrageTolerance <= 0 {
		return fmt.Errorf("arbitrage_tolerance must be positive, got %f", c.Engine.ArbitrageTolerance)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "quantengine")
	v.SetDefault("version", "0.1.0")
	v.SetDefault("environment", "dev")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 30)
	v.SetDefault("http.write_timeout", 30)

	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 300)

	v.SetDefault("kafka.risk_alert_topic", "quantengine.risk.alerts")
	v.SetDefault("kafka.opportunity_topic", "quantengine.arbitrage.opportunities")
	v.SetDefault("kafka.max_retries", 3)
	v.SetDefault("kafka.retry_backoff", 100)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "logs/quantengine.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.with_caller", true)

	v.SetDefault("engine.binomial_steps", 500)
	v.SetDefault("engine.monte_carlo_paths", 10000)
	v.SetDefault("engine.monte_carlo_workers", 0)
	v.SetDefault("engine.arbitrage_tolerance", 1e-10)
	v.SetDefault("engine.vol_spread_threshold", 0.05)
	v.SetDefault("engine.default_risk_free_rate", 0.03)
}
