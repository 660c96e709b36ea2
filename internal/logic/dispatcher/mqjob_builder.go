package dispatcher

import (
	"sort"

	"trusted-swap-sol/internal/config"
	"trusted-swap-sol/internal/logic/core"
	"trusted-swap-sol/internal/mq"
	"trusted-swap-sol/internal/pkg/logger"
	"trusted-swap-sol/internal/types"
	"trusted-swap-sol/internal/utils"
)

// BuildAllKafkaJobs 构建回执类和余额类的所有 KafkaJob。
// 构建后的 []*mq.KafkaJob 可直接传入 mq.SendKafkaJobs 发送。
func BuildAllKafkaJobs(slot uint64, receipts []*core.Receipt, cfg config.KafkaProducerConfig) []*mq.KafkaJob {
	receiptJobs := BuildReceiptKafkaJobs(cfg.Topics.Receipt, cfg.Partitions.Receipt, receipts)
	balanceJobs := BuildBalanceKafkaJobs(slot, cfg.Topics.Balance, cfg.Partitions.Balance, receipts)

	jobs := make([]*mq.KafkaJob, 0, len(receiptJobs)+len(balanceJobs))
	jobs = append(jobs, receiptJobs...)
	jobs = append(jobs, balanceJobs...)
	return jobs
}

// BuildReceiptKafkaJobs 每个回执一条消息，按签名选择分区，key 为签名
func BuildReceiptKafkaJobs(topic string, partitions int, receipts []*core.Receipt) []*mq.KafkaJob {
	jobs := make([]*mq.KafkaJob, 0, len(receipts))
	for _, r := range receipts {
		value, err := utils.EncodeEvent(EventTypeReceipt, *newReceiptEvent(r))
		if err != nil {
			logger.Errorf("[Dispatcher::BuildReceiptKafkaJobs] tx=%s: encode failed: %v", r.Signature, err)
			continue
		}
		jobs = append(jobs, &mq.KafkaJob{
			Topic:     topic,
			Partition: utils.PartitionOf(r.Signature, partitions),
			Key:       r.Signature[:],
			Value:     value,
		})
	}
	return jobs
}

// BuildBalanceKafkaJobs 收集成功交易中余额有变化的 Token 账户，按 owner 分区，
// 每个分区一条消息。
func BuildBalanceKafkaJobs(slot uint64, topic string, partitions int, receipts []*core.Receipt) []*mq.KafkaJob {
	if partitions <= 0 {
		partitions = 1
	}

	total := 0
	for _, r := range receipts {
		total += len(r.Balances)
	}
	if total == 0 {
		return nil
	}

	buckets := make([][]BalanceEvent, partitions)
	capacity := utils.CalcCapPerPartition(total, partitions, 10)
	for i := range buckets {
		buckets[i] = make([]BalanceEvent, 0, capacity)
	}

	for _, r := range receipts {
		if r.Status != core.TxSucceeded {
			continue
		}
		for _, bal := range r.Balances {
			if bal.PreBalance == bal.PostBalance {
				continue
			}
			pid := utils.PartitionOf(bal.Owner, partitions)
			buckets[pid] = append(buckets[pid], BalanceEvent{
				Signature:    r.Signature,
				TokenAccount: bal.TokenAccount,
				Token:        bal.Token,
				Owner:        bal.Owner,
				PreBalance:   bal.PreBalance,
				PostBalance:  bal.PostBalance,
			})
		}
	}

	jobs := make([]*mq.KafkaJob, 0, partitions)
	for pid, events := range buckets {
		if len(events) == 0 {
			continue
		}
		merged := mergeBalanceByAccount(events)
		value, err := utils.EncodeEvent(EventTypeBalance, BalanceEvents{
			Version: eventVersion,
			Slot:    slot,
			Events:  merged,
		})
		if err != nil {
			logger.Errorf("[Dispatcher::BuildBalanceKafkaJobs] slot=%d partition=%d: encode failed: %v", slot, pid, err)
			continue
		}
		jobs = append(jobs, &mq.KafkaJob{
			Topic:     topic,
			Partition: int32(pid),
			Value:     value,
		})
	}
	return jobs
}

// mergeBalanceByAccount 合并同一 TokenAccount 的多次变化：
// 保留第一次的 PreBalance，最后一次的 PostBalance。
func mergeBalanceByAccount(events []BalanceEvent) []BalanceEvent {
	index := make(map[types.Pubkey]int, len(events))
	out := make([]BalanceEvent, 0, len(events))
	for _, e := range events {
		if i, ok := index[e.TokenAccount]; ok {
			out[i].Signature = e.Signature
			out[i].PostBalance = e.PostBalance
			continue
		}
		index[e.TokenAccount] = len(out)
		out = append(out, e)
	}

	// 输出顺序与账户地址相关，保证同一批数据的消息内容确定
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TokenAccount.String() < out[j].TokenAccount.String()
	})
	return out
}
