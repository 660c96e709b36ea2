package main

import (
	"flag"
	"runtime/debug"

	"trusted-swap-sol/internal/config"
	"trusted-swap-sol/internal/pkg/logger"
	"trusted-swap-sol/internal/service"
	"trusted-swap-sol/internal/svc"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	zerosvc "github.com/zeromicro/go-zero/core/service"
)

var configFile = flag.String("f", "etc/swapsim.yaml", "the config file")

func main() {
	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
		}
	}()

	flag.Parse()

	var c config.Config
	conf.MustLoad(*configFile, &c)

	logx.Must(logger.Init(c.LogConf.ToLogOption()))
	defer logger.Sync()

	serviceContext, err := svc.NewServiceContext(c)
	logx.Must(err)
	defer serviceContext.Close()

	batch, err := service.LoadBatch(c.BatchFile)
	logx.Must(err)

	sg := zerosvc.NewServiceGroup()
	defer sg.Stop()
	sg.Add(service.NewBatchService(serviceContext, batch))

	logx.Infof("Starting swapsim: batch=%s transactions=%d", batch.Name, len(batch.Transactions))

	// 批次执行完毕后返回
	sg.Start()
}
