package rabbitmq

// QueueConfig очередь и ключ, которым она привязана к exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// PaymentQueues очереди для событий платёжных намерений.
// Ключ маршрутизации совпадает с типом события процессора.
func PaymentQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "payments.intents", RoutingKey: "payment_intent.*"},
		{QueueName: "payments.succeeded", RoutingKey: "payment_intent.succeeded"},
	}
}
