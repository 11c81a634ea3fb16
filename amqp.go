package masstransit

import (
	"context"

	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

var _ ChannelOps = (*AMQPChannel)(nil)

// AMQPChannel ChannelOps 的 amqp 绑定。
// 连接的建立和认证由调用方完成，这里拿到的是已打开的 channel。
// streadway/amqp 的 api 不接收 context，各方法在委托前检查一次
// ctx 是否已取消
type AMQPChannel struct {
	ch *amqp.Channel
}

func NewAMQPChannel(ch *amqp.Channel) *AMQPChannel {
	return &AMQPChannel{ch: ch}
}

func (c *AMQPChannel) ExchangeDeclare(ctx context.Context, name, kind string, durable, autoDelete bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.ch.ExchangeDeclare(name, kind, durable, autoDelete, false, false, nil)
}

func (c *AMQPChannel) QueueDeclare(ctx context.Context, name string, durable, autoDelete, exclusive bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	q, err := c.ch.QueueDeclare(name, durable, autoDelete, exclusive, false, nil)
	if err != nil {
		return "", err
	}
	return q.Name, nil
}

func (c *AMQPChannel) QueueBind(ctx context.Context, queue, key, exchange string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.ch.QueueBind(queue, key, exchange, false, nil)
}

func (c *AMQPChannel) QueuePurge(ctx context.Context, queue string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return c.ch.QueuePurge(queue, false)
}

func (c *AMQPChannel) Qos(ctx context.Context, prefetch int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.ch.Qos(prefetch, 0, false)
}

func (c *AMQPChannel) Publish(ctx context.Context, env *Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	table := make(amqp.Table, len(env.Header)+1)
	for key := range env.Header {
		table[key] = env.Header.Get(key)
	}
	table[STAGE] = env.Stage

	err := c.ch.Publish(env.Exchange, env.RoutingKey, false, false, amqp.Publishing{
		ContentType:   env.ContentType,
		CorrelationId: env.CorrelationID(),
		ReplyTo:       env.ReplyTo,
		Type:          env.MessageURN,
		Headers:       table,
		Body:          env.Body,
	})
	return errors.WithMessage(err, "masstransit: publish")
}

func (c *AMQPChannel) Consume(ctx context.Context, queue string) (<-chan Delivery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	msgs, err := c.ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, errors.WithMessage(err, "masstransit: consume")
	}

	out := make(chan Delivery)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- convertDelivery(m):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (c *AMQPChannel) Ack(ctx context.Context, tag uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.ch.Ack(tag, false)
}

func (c *AMQPChannel) Nack(ctx context.Context, tag uint64, requeue bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.ch.Nack(tag, false, requeue)
}

func convertDelivery(m amqp.Delivery) Delivery {
	h := make(Header, len(m.Headers))
	for key, value := range m.Headers {
		if s, ok := value.(string); ok {
			h.Set(key, s)
		}
	}

	stage := h.Get(STAGE)
	if stage == "" {
		stage = REPLY
	}
	correlationID := m.CorrelationId
	if correlationID == "" {
		correlationID = h.Get(CORRELATIONID)
	}
	return Delivery{
		Stage:         stage,
		MessageURN:    m.Type,
		CorrelationID: correlationID,
		Header:        h,
		Body:          m.Body,
		Tag:           m.DeliveryTag,
	}
}
