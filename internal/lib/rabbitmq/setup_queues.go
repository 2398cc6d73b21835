// Package rabbitmq публикует доменные события сервиса в RabbitMQ.
package rabbitmq

// Ключи маршрутизации событий.
const (
	RoutingKeyChatCreated   = "chat.created"
	RoutingKeyMessagePosted = "message.posted"
)

// QueueConfig очередь и шаблон ключа, по которому она привязана к exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// EventQueues очереди, которые объявляются при старте, чтобы события не терялись
// до подключения потребителей.
func EventQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "nemtsvar.chats", RoutingKey: "chat.*"},
		{QueueName: "nemtsvar.messages", RoutingKey: "message.*"},
	}
}
