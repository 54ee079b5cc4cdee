package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/Capitan-Parrot/proctoring-demo/internal/models"
)

type Producer struct {
	producer sarama.SyncProducer
	topic    string
	key      string
}

// NewProducer создаёт продюсера; все сообщения идут с одним ключом, чтобы
// обновления одной доски попадали в одну партицию и не перемешивались
func NewProducer(brokers []string, topic, key string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return NewProducerWith(producer, topic, key), nil
}

// NewProducerWith оборачивает готовый sarama producer
func NewProducerWith(producer sarama.SyncProducer, topic, key string) *Producer {
	return &Producer{
		producer: producer,
		topic:    topic,
		key:      key,
	}
}

func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

// SendEvent отправляет одно обновление доски
func (p *Producer) SendEvent(event models.DisplayEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	kafkaMsg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(p.key),
		Value: sarama.ByteEncoder(payload),
	}

	if _, _, err = p.producer.SendMessage(kafkaMsg); err != nil {
		return fmt.Errorf("send %s event: %w", event.Kind, err)
	}
	return nil
}
