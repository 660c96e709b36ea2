package config

import (
	"time"

	"trusted-swap-sol/internal/pkg/logger"
)

type LogConfig struct {
	Format   string `json:"format,default=console"` // 日志格式，支持 "console" 或 "json"
	LogDir   string `json:"log_dir,optional"`       // 日志目录（可为相对路径或绝对路径）
	Level    string `json:"level,default=info"`     // 日志级别：debug / info / warn / error
	Compress bool   `json:"compress,optional"`      // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// LedgerConfig 账本运行时配置
type LedgerConfig struct {
	Slot           uint64 `json:"slot,default=1"`             // 起始 slot
	MaxInvokeDepth int    `json:"max_invoke_depth,default=4"` // 最大调用深度（含顶层指令）
}

// StatusCacheConfig 交易签名去重缓存
type StatusCacheConfig struct {
	Backend   string `json:"backend,default=memory,options=memory|redis|tiered"`
	Size      int    `json:"size,default=100000"`   // 本地缓存容量
	TTLSec    int    `json:"ttl_sec,default=86400"` // 签名保留时长（秒），仅 redis 生效
	RedisAddr string `json:"redis_addr,optional"`   // Redis 地址
	RedisDB   int    `json:"redis_db,optional"`     // Redis DB
}

func (c *StatusCacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSec) * time.Second
}

// KafkaProducerConfig 表示 Kafka 生产者相关配置
type KafkaProducerConfig struct {
	Enabled   bool   `json:"enabled,optional"`         // 是否推送回执
	Brokers   string `json:"brokers,optional"`         // Kafka broker 地址，多个用英文逗号分隔
	BatchSize int    `json:"batch_size,default=32768"` // 批处理大小（单位字节）
	LingerMs  int    `json:"linger_ms,default=5"`      // 批处理最大延迟（毫秒）

	Topics struct {
		Receipt string `json:"receipt,default=swapsim_receipt"` // 交易回执 topic
		Balance string `json:"balance,default=swapsim_balance"` // 余额变更 topic
	} `json:"topics,optional"`

	Partitions struct {
		Receipt int `json:"receipt,default=4"` // receipt topic 的分区数
		Balance int `json:"balance,default=4"` // balance topic 的分区数
	} `json:"partitions,optional"`

	SendTimeoutMs int `json:"send_timeout_ms,default=3000"` // 单条消息发送并等待 ack 的超时时间
}

func (c *KafkaProducerConfig) SendTimeout() time.Duration {
	return time.Duration(c.SendTimeoutMs) * time.Millisecond
}

// Config 是主配置结构体，用于驱动 swapsim 服务
type Config struct {
	LogConf           LogConfig           `json:"logger,optional"`         // 日志配置
	LedgerConf        LedgerConfig        `json:"ledger,optional"`         // 账本配置
	StatusCacheConf   StatusCacheConfig   `json:"status_cache,optional"`   // 签名去重配置
	KafkaProducerConf KafkaProducerConfig `json:"kafka_producer,optional"` // Kafka 生产者配置

	GenesisFile string `json:"genesis_file"` // 初始账户文件（yaml）
	BatchFile   string `json:"batch_file"`   // 待执行交易批次文件（yaml）
}
