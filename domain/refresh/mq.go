package refresh

import (
	"encoding/json"
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
	"maestro-dashboard/utils"
	"sync"
)

var (
	ErrClosed        = errors.New("broker has been closed")
	ErrQueueNotFound = errors.New("queue not declared on broker")
)

// broker 持有一条 AMQP 连接，每个队列至多一个消费协程。
type broker struct {
	logger *logrus.Logger
	conn   *amqp.Connection
	queues map[string]amqp.Queue

	mu        sync.Mutex
	consumers map[string]chan<- struct{} // queue -> stop
	closeOnce sync.Once
}

func dialBroker(url string, queueNames []string, logger *logrus.Logger) (*broker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, utils.WrapError(err, "create connection fail")
	}

	queues, err := declareQueues(conn, queueNames)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &broker{
		logger:    logger,
		conn:      conn,
		queues:    queues,
		consumers: make(map[string]chan<- struct{}),
	}, nil
}

// declareQueues 声明持久化队列，broker 重启后通知不丢失。
func declareQueues(conn *amqp.Connection, names []string) (map[string]amqp.Queue, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, utils.WrapError(err, "create channel fail")
	}
	defer ch.Close()

	queues := make(map[string]amqp.Queue, len(names))
	for _, name := range names {
		q, err := ch.QueueDeclare(name, true, false, false, false, nil)
		if err != nil {
			return nil, utils.WrapErrorf(err, "declare queue [%s] fail", name)
		}
		queues[name] = q
	}

	return queues, nil
}

func (b *broker) Close() error {
	closed := false
	var err error

	b.closeOnce.Do(func() {
		closed = true

		b.mu.Lock()
		for name, stop := range b.consumers {
			b.logger.Infof("stop consuming queue [%s] for closing the broker", name)
			close(stop)
		}
		b.consumers = make(map[string]chan<- struct{})
		b.mu.Unlock()

		err = b.conn.Close()
	})

	if !closed {
		return ErrClosed
	}
	return err
}

func (b *broker) publishJSON(queueName string, obj any) error {
	queue, ok := b.queues[queueName]
	if !ok {
		return ErrQueueNotFound
	}

	body, err := json.Marshal(obj)
	if err != nil {
		return utils.WrapError(err, "json marshal fail")
	}

	ch, err := b.conn.Channel()
	if err != nil {
		return utils.WrapError(err, "create channel fail")
	}
	defer ch.Close()

	return utils.WrapError(ch.Publish("", queue.Name, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
	}), "publish fail")
}

// subscribe 以自动确认方式消费队列；同一队列重复订阅时旧的消费协程退出。
func (b *broker) subscribe(queueName string, handle func(msg *amqp.Delivery) error) error {
	queue, ok := b.queues[queueName]
	if !ok {
		return ErrQueueNotFound
	}

	ch, err := b.conn.Channel()
	if err != nil {
		return utils.WrapError(err, "create channel fail")
	}

	deliveries, err := ch.Consume(queue.Name, "", true, false, false, false, nil)
	if err != nil {
		return utils.WrapError(err, "create delivery-chan fail")
	}

	stop := make(chan struct{})

	b.mu.Lock()
	if old, exist := b.consumers[queueName]; exist {
		close(old)
	}
	b.consumers[queueName] = stop
	b.mu.Unlock()

	go b.consume(queueName, deliveries, stop, handle)
	return nil
}

func (b *broker) consume(queueName string, deliveries <-chan amqp.Delivery, stop <-chan struct{}, handle func(msg *amqp.Delivery) error) {
	for {
		select {
		case msg, alive := <-deliveries:
			if !alive {
				b.logger.Infof("stop consuming queue [%s]: delivery channel closed", queueName)
				return
			}

			b.logger.Debugf("receive data [%#v]", string(msg.Body))

			if err := handle(&msg); err != nil {
				b.logger.WithError(err).Errorf("handle message from queue [%s] error: %s", queueName, err.Error())
			}
		case <-stop:
			b.logger.Infof("stop consuming queue [%s]: close signal", queueName)
			return
		}
	}
}
