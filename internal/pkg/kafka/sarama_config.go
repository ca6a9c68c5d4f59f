package kafka

import (
	"Bulletin/internal/api/config"
	"time"

	"github.com/IBM/sarama"
)

// newSaramaConfig 统一初始化生产者的 sarama.Config
func newSaramaConfig(kafkaCfg config.KafkaConfig) *sarama.Config {
	c := sarama.NewConfig()

	if kafkaCfg.Sasl.Enable {
		c.Net.SASL.Enable = true
		c.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		c.Net.SASL.User = kafkaCfg.Sasl.Username
		c.Net.SASL.Password = kafkaCfg.Sasl.Password
	}

	// SyncProducer 要求两者都为 true
	c.Producer.Return.Successes = true
	c.Producer.Return.Errors = true
	c.Producer.RequiredAcks = sarama.WaitForLocal
	c.Producer.Retry.Max = 3
	c.Producer.Timeout = 5 * time.Second
	// 同一帖子的事件落在同一分区，保证顺序
	c.Producer.Partitioner = sarama.NewHashPartitioner

	return c
}
