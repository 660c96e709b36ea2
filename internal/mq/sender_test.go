package mq

import (
	"context"
	"net"
	"testing"
	"time"

	"trusted-swap-sol/internal/config"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testBrokers = "127.0.0.1:9092"
	testTopic   = "swapsim-test-topic"
)

func requireKafka(t *testing.T) {
	t.Helper()
	conn, err := net.DialTimeout("tcp", testBrokers, 300*time.Millisecond)
	if err != nil {
		t.Skipf("kafka not reachable at %s: %v", testBrokers, err)
	}
	_ = conn.Close()
}

// 创建测试用的生产者
func createTestProducer(t *testing.T, clientID string) *kafka.Producer {
	requireKafka(t)

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":        testBrokers,
		"client.id":                clientID,
		"acks":                     "all",
		"delivery.timeout.ms":      30000,
		"request.timeout.ms":       30000,
		"message.send.max.retries": 3,
		"retry.backoff.ms":         100,
		"linger.ms":                5,
		"allow.auto.create.topics": true,
	})
	require.NoError(t, err)
	return producer
}

func TestMissingTopics(t *testing.T) {
	meta := &kafka.Metadata{Topics: map[string]kafka.TopicMetadata{
		"receipt": {Topic: "receipt"},
	}}

	specs := missingTopics(meta, 2, []topicSpec{
		{name: "receipt", partitions: 4},
		{name: "balance", partitions: 0},
		{name: "", partitions: 3},
	})
	require.Len(t, specs, 1)
	assert.Equal(t, "balance", specs[0].Topic)
	assert.Equal(t, 1, specs[0].NumPartitions)
	assert.Equal(t, 2, specs[0].ReplicationFactor)
}

func TestProducerConfigMap(t *testing.T) {
	cfg := config.KafkaProducerConfig{Brokers: testBrokers, BatchSize: 0, LingerMs: -1}
	m := producerConfigMap(cfg)

	v, err := m.Get("batch.size", nil)
	require.NoError(t, err)
	assert.Equal(t, defaultBatchSize, v)

	v, err = m.Get("linger.ms", nil)
	require.NoError(t, err)
	assert.Equal(t, defaultLingerMs, v)

	v, err = m.Get("client.id", nil)
	require.NoError(t, err)
	assert.Contains(t, v, "swapsim-")
}

func TestPublisherEmpty(t *testing.T) {
	p := NewPublisher(nil, 0)
	assert.NoError(t, p.Publish(context.Background(), nil))
	assert.Equal(t, 3*time.Second, p.timeout)
}

// 测试正常发送消息
func TestSendKafkaJobs_RealKafka(t *testing.T) {
	producer := createTestProducer(t, "test-producer")
	defer producer.Close()

	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": testBrokers,
		"group.id":          "test-group-" + time.Now().Format("20060102150405"),
		"auto.offset.reset": "earliest",
	})
	require.NoError(t, err)
	defer consumer.Close()
	require.NoError(t, consumer.Subscribe(testTopic, nil))

	jobs := []*KafkaJob{
		{Topic: testTopic, Key: []byte("k1"), Value: []byte("test message 1")},
		{Topic: testTopic, Key: []byte("k2"), Value: []byte("test message 2")},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ok, failed := SendKafkaJobs(ctx, producer, jobs, 2*time.Second)
	assert.Len(t, ok, 2)
	assert.Empty(t, failed)
	producer.Flush(1000)

	received := make(map[string]string)
	for i := 0; i < 2; i++ {
		msg, err := consumer.ReadMessage(5 * time.Second)
		require.NoError(t, err)
		received[string(msg.Key)] = string(msg.Value)
	}
	assert.Equal(t, "test message 1", received["k1"])
	assert.Equal(t, "test message 2", received["k2"])
}

// 测试超时场景
func TestSendKafkaJobs_RealKafka_Timeout(t *testing.T) {
	producer := createTestProducer(t, "test-producer-timeout")
	defer func() {
		producer.Flush(1000)
		producer.Close()
	}()

	jobs := []*KafkaJob{{Topic: testTopic, Value: []byte("test message")}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	ok, failed := SendKafkaJobs(ctx, producer, jobs, 5*time.Millisecond)
	assert.Empty(t, ok)
	assert.Len(t, failed, 1)
}

// 测试并发发送
func TestSendKafkaJobs_RealKafka_Concurrent(t *testing.T) {
	producer := createTestProducer(t, "test-producer-concurrent")
	defer producer.Close()

	jobs := make([]*KafkaJob, 10)
	for i := range jobs {
		jobs[i] = &KafkaJob{Topic: testTopic, Value: []byte("test message " + string(rune('0'+i)))}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p := NewPublisher(producer, 2*time.Second)
	assert.NoError(t, p.Publish(ctx, jobs))
	producer.Flush(1000)
}

// 测试空消息列表
func TestSendKafkaJobs_RealKafka_Empty(t *testing.T) {
	producer := createTestProducer(t, "test-producer-empty")
	defer producer.Close()

	ok, failed := SendKafkaJobs(context.Background(), producer, []*KafkaJob{}, 2*time.Second)
	assert.Empty(t, ok)
	assert.Empty(t, failed)
}
