package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/conf"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	err := conf.LoadFromYamlBytes([]byte(`
genesis_file: etc/genesis.yaml
batch_file: etc/batch.yaml
logger:
  level: debug
ledger:
  slot: 1
status_cache:
  backend: redis
  redis_addr: 127.0.0.1:6379
kafka_producer:
  enabled: false
  topics:
    balance: balances
  partitions:
    receipt: 8
`), &c)
	require.NoError(t, err)

	assert.Equal(t, "console", c.LogConf.Format)
	assert.Equal(t, "debug", c.LogConf.ToLogOption().Level)
	assert.Equal(t, uint64(1), c.LedgerConf.Slot)
	assert.Equal(t, 4, c.LedgerConf.MaxInvokeDepth)
	assert.Equal(t, "redis", c.StatusCacheConf.Backend)
	assert.Equal(t, 24*time.Hour, c.StatusCacheConf.TTL())
	assert.False(t, c.KafkaProducerConf.Enabled)
	assert.Equal(t, "swapsim_receipt", c.KafkaProducerConf.Topics.Receipt)
	assert.Equal(t, "balances", c.KafkaProducerConf.Topics.Balance)
	assert.Equal(t, 8, c.KafkaProducerConf.Partitions.Receipt)
	assert.Equal(t, 3*time.Second, c.KafkaProducerConf.SendTimeout())
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	var c Config
	err := conf.LoadFromYamlBytes([]byte(`
genesis_file: g.yaml
batch_file: b.yaml
status_cache:
  backend: etcd
`), &c)
	assert.Error(t, err)
}
