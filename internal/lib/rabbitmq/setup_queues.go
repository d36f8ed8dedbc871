package rabbitmq

// ReminderUpcomingQueue очередь напоминаний о поездках, начинающихся завтра.
const ReminderUpcomingQueue = "reminder.upcoming"

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

func GetReminderQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: ReminderUpcomingQueue, RoutingKey: "upcoming"},
		// при необходимости дополнительные очереди для других воркеров
	}
}
