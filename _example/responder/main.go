package main

import (
	"context"
	"log"

	masstransit "github.com/rafaela2/MassTransit"
	"github.com/rafaela2/MassTransit/_example/orders"
)

func main() {
	// channel 的打开方式见 requester；这里假定已有 ChannelOps
	var ch masstransit.ChannelOps = mustOpenChannel()

	ctx := context.Background()
	serializer := masstransit.NewMsgpackSerializer()

	queue, err := ch.QueueDeclare(ctx, "order.cancel", true, false, false)
	if err != nil {
		log.Fatal(err)
	}
	deliveries, err := ch.Consume(ctx, queue)
	if err != nil {
		log.Fatal(err)
	}

	for d := range deliveries {
		var req orders.CancelOrder
		if err := serializer.Unmarshal(d.Body, &req); err != nil {
			ch.Nack(ctx, d.Tag, false)
			continue
		}

		reply := &orders.OrderCanceled{OrderID: req.OrderID}
		urn := masstransit.URNOfValue(reply)
		// 请求方未声明接收类型时（旧版本），任何类型都可接受
		if !masstransit.IsAccepted(d.Get(masstransit.ACCEPTTYPE), urn) {
			log.Printf("requester does not accept %s", urn)
			ch.Ack(ctx, d.Tag)
			continue
		}

		body, err := serializer.Marshal(reply)
		if err != nil {
			ch.Nack(ctx, d.Tag, false)
			continue
		}
		env := &masstransit.Envelope{
			RoutingKey:  d.Get(masstransit.REPLYTO),
			Stage:       masstransit.REPLY,
			MessageURN:  urn,
			ContentType: serializer.ContentType(),
			Header:      make(masstransit.Header),
			Body:        body,
		}
		env.SetCorrelationID(d.CorrelationID)
		if err := ch.Publish(ctx, env); err != nil {
			log.Printf("reply: %v", err)
		}
		ch.Ack(ctx, d.Tag)
	}
}

func mustOpenChannel() masstransit.ChannelOps {
	panic("open an amqp connection and wrap the channel, see requester/main.go")
}
