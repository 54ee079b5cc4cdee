package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/IBM/sarama"

	"github.com/Capitan-Parrot/proctoring-demo/internal/models"
)

// Command: декодированная команда вместе с offset, который нужно
// подтвердить после выполнения
type Command struct {
	models.ScenarioCommand

	session sarama.ConsumerGroupSession
	message *sarama.ConsumerMessage
}

// NewCommand оборачивает команду, пришедшую не из Kafka; Ack для неё ничего не делает
func NewCommand(cmd models.ScenarioCommand) Command {
	return Command{ScenarioCommand: cmd}
}

// Ack помечает сообщение как обработанное
func (c Command) Ack() {
	if c.session != nil && c.message != nil {
		c.session.MarkMessage(c.message, "")
	}
}

// CommandListener читает топик команд через consumer group
type CommandListener struct {
	group      sarama.ConsumerGroup
	topic      string
	retryDelay time.Duration
	commands   chan Command
	done       chan struct{}
}

// NewCommandListener создаёт consumer group, читающую только новые команды:
// старые команды от прошлых запусков демо не переигрываются
func NewCommandListener(brokers []string, groupID, topic string) (*CommandListener, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_6_0_0
	config.Consumer.Offsets.Initial = sarama.OffsetNewest

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, err
	}
	return NewCommandListenerWith(group, topic), nil
}

// NewCommandListenerWith работает поверх готовой consumer group
func NewCommandListenerWith(group sarama.ConsumerGroup, topic string) *CommandListener {
	return &CommandListener{
		group:      group,
		topic:      topic,
		retryDelay: 5 * time.Second,
		commands:   make(chan Command),
		done:       make(chan struct{}),
	}
}

// Start читает команды в фоне, пока не отменён ctx. После остановки канал
// Commands закрывается.
func (l *CommandListener) Start(ctx context.Context) {
	handler := &commandHandler{commands: l.commands, done: l.done}

	go func() {
		defer close(l.commands)

		for ctx.Err() == nil {
			if err := l.group.Consume(ctx, []string{l.topic}, handler); err != nil {
				log.Printf("CommandListener: consume error: %v, retrying in %v", err, l.retryDelay)
				select {
				case <-ctx.Done():
				case <-time.After(l.retryDelay):
				}
			}
		}
		log.Println("CommandListener: stopped")
	}()
}

func (l *CommandListener) Close() error {
	close(l.done)
	return l.group.Close()
}

func (l *CommandListener) Commands() <-chan Command {
	return l.commands
}

type commandHandler struct {
	commands chan<- Command
	done     <-chan struct{}
}

func (h *commandHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *commandHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim декодирует сообщения партиции. Битые сообщения сразу
// помечаются: при повторной доставке они снова не разберутся.
func (h *commandHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}

			var cmd models.ScenarioCommand
			if err := json.Unmarshal(msg.Value, &cmd); err != nil {
				log.Printf("CommandListener: invalid command at %s/%d/%d: %v", msg.Topic, msg.Partition, msg.Offset, err)
				sess.MarkMessage(msg, "")
				continue
			}

			select {
			case h.commands <- Command{ScenarioCommand: cmd, session: sess, message: msg}:
			case <-sess.Context().Done():
				return nil
			case <-h.done:
				return nil
			}
		case <-sess.Context().Done():
			return nil
		case <-h.done:
			return nil
		}
	}
}
