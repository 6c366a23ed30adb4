package config

import (
	"log"
	"strconv"
	"strings"
	"time"

	"orderbook-core/pkg/errno"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

type Config struct {
	// 以下三个字段直接来自环境变量 PRIVATE_KEY / CONTRACT_ADDRESS / START_BLOCK
	PrivateKey      string `mapstructure:"private_key"`
	ContractAddress string `mapstructure:"contract_address"`

	App       AppConfig       `mapstructure:"app"`
	Chain     ChainConfig     `mapstructure:"chain"`
	Scanner   ScannerConfig   `mapstructure:"scanner"`
	FHE       FHEConfig       `mapstructure:"fhe"`
	OrderBook OrderBookConfig `mapstructure:"orderbook"`
	DB        DBConfig        `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	MQ        MQConfig        `mapstructure:"mq"`

	startBlockSet bool
}

type AppConfig struct {
	Env       string `mapstructure:"env"`
	HttpPort  string `mapstructure:"http_port"`
	AdminPort string `mapstructure:"admin_port"`

	// API 服务允许的跨域来源
	CorsOrigins []string `mapstructure:"cors_origins"`
}

type ChainConfig struct {
	RpcUrl  string  `mapstructure:"rpc_url"`
	ChainID int64   `mapstructure:"chain_id"`
	RPS     float64 `mapstructure:"rps"`   // 每秒 RPC 请求上限, <=0 表示不限速
	Burst   int     `mapstructure:"burst"` // 令牌桶容量
}

type ScannerConfig struct {
	StartBlock      uint64        `mapstructure:"start_block"`
	BlockWindow     uint64        `mapstructure:"block_window"`
	PollingInterval time.Duration `mapstructure:"polling_interval"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	MaxBackoff      time.Duration `mapstructure:"max_backoff"`
	AlertThreshold  int           `mapstructure:"alert_threshold"`
	CursorStore     string        `mapstructure:"cursor_store"` // "memory", "postgres" or "redis"
	CursorKey       string        `mapstructure:"cursor_key"`
}

type FHEConfig struct {
	EncryptURL   string        `mapstructure:"encrypt_url"`
	PermitTTL    time.Duration `mapstructure:"permit_ttl"`
	SecurityZone int32         `mapstructure:"security_zone"`
}

type OrderBookConfig struct {
	URL     string        `mapstructure:"url"`
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
}

type MQConfig struct {
	Type  string `mapstructure:"type"` // "none", "redis" or "kafka"
	Topic string `mapstructure:"topic"`
}

// Load 读取 config.yaml (可选) + 环境变量, 返回一份只读配置
// 进程启动时调用一次，然后显式传给各个组件
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// 环境变量设置
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// 必填项不设默认值，只绑定环境变量
	for _, key := range []string{"private_key", "contract_address", "start_block"} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Warning: Config file not found, using defaults and environment variables")
		} else {
			return nil, errno.Wrap(errno.ErrConfig, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errno.Wrap(errno.ErrConfig, err)
	}

	// START_BLOCK 是顶层环境变量，覆盖 scanner.start_block
	if raw := strings.TrimSpace(v.GetString("start_block")); raw != "" {
		start, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, errno.Wrapf(errno.ErrConfig, "START_BLOCK %q is not a block number", raw)
		}
		cfg.Scanner.StartBlock = start
		cfg.startBlockSet = true
	}

	return &cfg, nil
}

// ValidateWallet 校验钱包相关的必填项 (order-placer / order-scanner 都需要)
func (c *Config) ValidateWallet() error {
	if strings.TrimSpace(c.PrivateKey) == "" {
		return errno.Wrapf(errno.ErrConfig, "PRIVATE_KEY is required")
	}
	if strings.TrimSpace(c.ContractAddress) == "" {
		return errno.Wrapf(errno.ErrConfig, "CONTRACT_ADDRESS is required")
	}
	if !common.IsHexAddress(c.ContractAddress) {
		return errno.Wrapf(errno.ErrConfig, "CONTRACT_ADDRESS %q is not a hex address", c.ContractAddress)
	}
	if c.Chain.RpcUrl == "" {
		return errno.Wrapf(errno.ErrConfig, "chain.rpc_url is required")
	}
	return nil
}

// ValidateScanner 在 ValidateWallet 的基础上校验扫描器配置
func (c *Config) ValidateScanner() error {
	if err := c.ValidateWallet(); err != nil {
		return err
	}
	if !c.startBlockSet {
		return errno.Wrapf(errno.ErrConfig, "START_BLOCK is required")
	}
	if c.Scanner.BlockWindow == 0 {
		return errno.Wrapf(errno.ErrConfig, "scanner.block_window must be > 0")
	}
	if c.Scanner.PollingInterval <= 0 {
		return errno.Wrapf(errno.ErrConfig, "scanner.polling_interval must be > 0")
	}
	switch c.Scanner.CursorStore {
	case "memory", "postgres", "redis":
	default:
		return errno.Wrapf(errno.ErrConfig, "unknown scanner.cursor_store %q", c.Scanner.CursorStore)
	}
	switch c.MQ.Type {
	case "none", "redis", "kafka":
	default:
		return errno.Wrapf(errno.ErrConfig, "unknown mq.type %q", c.MQ.Type)
	}
	if c.OrderBook.Enabled && c.OrderBook.URL == "" {
		return errno.Wrapf(errno.ErrConfig, "orderbook.url is required when orderbook.enabled")
	}
	return nil
}

// ContractAddr 返回解析后的订单簿合约地址
func (c *Config) ContractAddr() common.Address {
	return common.HexToAddress(c.ContractAddress)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.http_port", "3000")
	v.SetDefault("app.admin_port", "9100")
	v.SetDefault("app.cors_origins", []string{"*"})

	v.SetDefault("chain.rpc_url", "https://api.nitrogen.fhenix.zone")
	v.SetDefault("chain.chain_id", 8008148)
	v.SetDefault("chain.rps", 10)
	v.SetDefault("chain.burst", 5)

	v.SetDefault("scanner.block_window", 100)
	v.SetDefault("scanner.polling_interval", "4s")
	v.SetDefault("scanner.request_timeout", "15s")
	v.SetDefault("scanner.max_backoff", "1m")
	v.SetDefault("scanner.alert_threshold", 5)
	v.SetDefault("scanner.cursor_store", "memory")
	v.SetDefault("scanner.cursor_key", "orderbook")

	v.SetDefault("fhe.encrypt_url", "http://localhost:8070")
	v.SetDefault("fhe.permit_ttl", "1h")
	v.SetDefault("fhe.security_zone", 0)

	v.SetDefault("orderbook.url", "http://localhost:4042")
	v.SetDefault("orderbook.enabled", false)
	v.SetDefault("orderbook.timeout", "10s")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "orderbook")
	v.SetDefault("db.password", "orderbook")
	v.SetDefault("db.name", "orderbook")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})

	v.SetDefault("mq.type", "none")
	v.SetDefault("mq.topic", "orderbook_events")
}
