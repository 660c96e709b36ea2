package utils

// PartitionHashBytes 从任意 byte slice 中选取 4 字节构造 uint32 并模 mod，用于分区选择。
// 非加密哈希，签名 / 地址这类均匀分布的 32 字节数据足够。
func PartitionHashBytes(b []byte, mod uint32) uint32 {
	if len(b) < 28 || mod <= 1 {
		return 0
	}
	switch mod {
	case 2, 4, 8, 16:
		return uint32(b[27]) & (mod - 1)
	}
	hash := uint32(b[7])<<24 | uint32(b[15])<<16 | uint32(b[19])<<8 | uint32(b[27])
	return hash % mod
}

// PartitionOf 32 字节 key 对应的 Kafka 分区
func PartitionOf(key [32]byte, partitions int) int32 {
	if partitions <= 1 {
		return 0
	}
	return int32(PartitionHashBytes(key[:], uint32(partitions)))
}

// CalcCapPerPartition 根据总量和分区数估算每个分区的初始容量，minCap 为保底值
func CalcCapPerPartition(total, partitions, minCap int) int {
	if partitions <= 1 {
		return max(total, minCap)
	}
	if partitions < 5 {
		return max(total/2, minCap)
	}
	return max(total*3/partitions, minCap)
}
