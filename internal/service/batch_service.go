package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"trusted-swap-sol/internal/logic/core"
	"trusted-swap-sol/internal/logic/dispatcher"
	"trusted-swap-sol/internal/pkg/logger"
	"trusted-swap-sol/internal/svc"
)

// BatchService 按顺序把批次中的交易提交到账本，记录回执并推送到 Kafka。
// 实现 go-zero service.Service 接口。
type BatchService struct {
	svcCtx *svc.ServiceContext
	batch  *Batch

	ctx      context.Context
	cancel   context.CancelFunc
	started  atomic.Bool
	stopOnce sync.Once
	done     chan struct{}

	mu       sync.Mutex
	receipts []*core.Receipt
}

func NewBatchService(svcCtx *svc.ServiceContext, batch *Batch) *BatchService {
	ctx, cancel := context.WithCancel(context.Background())
	return &BatchService{
		svcCtx: svcCtx,
		batch:  batch,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

func (s *BatchService) Start() {
	s.started.Store(true)
	defer close(s.done)
	if _, err := s.Run(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Errorf("[BatchService::Start] batch=%s: %v", s.batch.Name, err)
	}
}

func (s *BatchService) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		if s.started.Load() {
			<-s.done
		}
	})
}

// Receipts 返回已执行交易的回执
func (s *BatchService) Receipts() []*core.Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*core.Receipt(nil), s.receipts...)
}

// Run 执行整个批次。被拒绝的交易（重复签名、缺少签名）只记录日志，不产生回执。
func (s *BatchService) Run(ctx context.Context) ([]*core.Receipt, error) {
	bank := s.svcCtx.Bank
	slot := bank.Slot()

	receipts := make([]*core.Receipt, 0, len(s.batch.Transactions))
	for i := range s.batch.Transactions {
		if err := ctx.Err(); err != nil {
			return receipts, err
		}

		tx, err := s.batch.Build(i)
		if err != nil {
			logger.Warnf("[BatchService::Run] skip: %v", err)
			continue
		}

		receipt, err := bank.ProcessTransaction(ctx, tx)
		if err != nil {
			logger.Warnf("[BatchService::Run] tx #%d %s rejected: %v", i, tx.Signature, err)
			continue
		}
		logReceipt(i, receipt)
		receipts = append(receipts, receipt)

		s.mu.Lock()
		s.receipts = append(s.receipts, receipt)
		s.mu.Unlock()
	}

	succeeded := 0
	for _, r := range receipts {
		if r.Status == core.TxSucceeded {
			succeeded++
		}
	}
	logger.Infof("[BatchService::Run] batch=%s slot=%d: %d executed, %d succeeded",
		s.batch.Name, slot, len(receipts), succeeded)

	if err := s.publish(ctx, slot, receipts); err != nil {
		return receipts, err
	}
	bank.AdvanceSlot()
	return receipts, nil
}

func (s *BatchService) publish(ctx context.Context, slot uint64, receipts []*core.Receipt) error {
	if s.svcCtx.Publisher == nil || len(receipts) == 0 {
		return nil
	}
	jobs := dispatcher.BuildAllKafkaJobs(slot, receipts, s.svcCtx.Config.KafkaProducerConf)
	if err := s.svcCtx.Publisher.Publish(ctx, jobs); err != nil {
		logger.Errorf("[BatchService::publish] slot=%d: %v", slot, err)
		return err
	}
	logger.Infof("[BatchService::publish] slot=%d: sent %d messages", slot, len(jobs))
	return nil
}

func logReceipt(index int, r *core.Receipt) {
	if r.Status != core.TxSucceeded {
		logger.Infof("[BatchService::Run] tx #%d %s %s: %s", index, r.Signature, r.Status, r.ErrMessage())
	} else {
		logger.Infof("[BatchService::Run] tx #%d %s %s", index, r.Signature, r.Status)
	}
	for _, line := range r.LogMessages {
		logger.Debugf("    %s", line)
	}
	for _, b := range r.Balances {
		if b.PreBalance != b.PostBalance {
			logger.Debugf("    token account %s: %d -> %d", b.TokenAccount, b.PreBalance, b.PostBalance)
		}
	}
}
