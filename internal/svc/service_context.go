package svc

import (
	"fmt"

	"trusted-swap-sol/internal/config"
	"trusted-swap-sol/internal/logic/fixedswap"
	"trusted-swap-sol/internal/logic/genesis"
	"trusted-swap-sol/internal/logic/runtime"
	"trusted-swap-sol/internal/logic/statuscache"
	"trusted-swap-sol/internal/logic/tokenprogram"
	"trusted-swap-sol/internal/mq"
	"trusted-swap-sol/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// ServiceContext 包含 swapsim 服务资源
type ServiceContext struct {
	Config    config.Config
	Bank      *runtime.Bank
	Publisher *mq.Publisher // 未启用 Kafka 时为 nil
	redis     *redis.Client
}

// NewServiceContext 创建服务上下文：状态缓存、账本（含创世账户）、可选的 Kafka 生产者
func NewServiceContext(c config.Config) (*ServiceContext, error) {
	ctx := &ServiceContext{Config: c}

	// 1. 签名去重缓存
	opt := statuscache.Options{
		Backend: c.StatusCacheConf.Backend,
		Size:    c.StatusCacheConf.Size,
		TTL:     c.StatusCacheConf.TTL(),
	}
	if opt.Backend == statuscache.BackendRedis || opt.Backend == statuscache.BackendTiered {
		ctx.redis = redis.NewClient(&redis.Options{
			Addr: c.StatusCacheConf.RedisAddr,
			DB:   c.StatusCacheConf.RedisDB,
		})
		opt.Redis = ctx.redis
	}
	cache, err := statuscache.New(opt)
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("init status cache: %w", err)
	}

	// 2. 账本与程序路由
	db := runtime.NewAccountsDB()
	if c.GenesisFile != "" {
		g, err := genesis.Load(c.GenesisFile)
		if err != nil {
			ctx.Close()
			return nil, err
		}
		if err := g.Apply(db); err != nil {
			ctx.Close()
			return nil, fmt.Errorf("apply genesis: %w", err)
		}
	}
	ctx.Bank = runtime.NewBank(db,
		runtime.WithStatusCache(cache),
		runtime.WithSlot(c.LedgerConf.Slot),
		runtime.WithMaxInvokeDepth(c.LedgerConf.MaxInvokeDepth),
	)
	ctx.Bank.RegisterHandlers(tokenprogram.RegisterHandlers, fixedswap.RegisterHandlers)

	// 3. Kafka 生产者
	if c.KafkaProducerConf.Enabled {
		producer, err := mq.NewKafkaProducer(c.KafkaProducerConf)
		if err != nil {
			logger.Errorf("Kafka producer 初始化失败: %v", err)
			ctx.Close()
			return nil, err
		}
		ctx.Publisher = mq.NewPublisher(producer, c.KafkaProducerConf.SendTimeout())
	}

	logger.Infof("服务上下文初始化完成: accounts=%d status_cache=%s kafka=%v",
		db.Len(), c.StatusCacheConf.Backend, c.KafkaProducerConf.Enabled)
	return ctx, nil
}

// Close 关闭服务上下文中的资源
func (ctx *ServiceContext) Close() {
	if ctx.Publisher != nil {
		ctx.Publisher.Close()
	}
	if ctx.redis != nil {
		_ = ctx.redis.Close()
	}
}
