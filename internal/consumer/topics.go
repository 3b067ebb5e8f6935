package consumer

// Topic identifies one logical event category. A broker topic name
// (canonical or legacy alias) is resolved to a Topic once per message,
// so dispatch happens over a closed set instead of raw strings.
type Topic int

const (
	TopicUserEvents Topic = iota
	TopicOrderEvents
	TopicLogisticsEvents
	TopicPaymentEvents
	TopicAnalyticsEvents
	TopicIoTTelemetry
	TopicProductEvents
	TopicIncidentEvents
)

// topicNames maps every subscribed spelling to its Topic. Dot-separated
// names are canonical; hyphenated ones are legacy aliases kept so
// producers can migrate naming without breaking this consumer.
var topicNames = map[string]Topic{
	"user.events":      TopicUserEvents,
	"user-events":      TopicUserEvents,
	"order.events":     TopicOrderEvents,
	"order-events":     TopicOrderEvents,
	"logistics.events": TopicLogisticsEvents,
	"payment.events":   TopicPaymentEvents,
	"analytics.events": TopicAnalyticsEvents,
	"iot.telemetry":    TopicIoTTelemetry,
	"product-events":   TopicProductEvents,
	"incident-events":  TopicIncidentEvents,
}

// SubscribedTopics returns every topic spelling the consumer group
// subscribes to, in a stable order.
func SubscribedTopics() []string {
	return []string{
		"user.events", "order.events", "logistics.events", "payment.events",
		"analytics.events", "iot.telemetry",
		"user-events", "order-events", "product-events", "incident-events",
	}
}

// ParseTopic resolves a broker topic name to its Topic.
func ParseTopic(name string) (Topic, bool) {
	t, ok := topicNames[name]
	return t, ok
}

// String returns the canonical spelling, used for log and metric labels.
func (t Topic) String() string {
	switch t {
	case TopicUserEvents:
		return "user.events"
	case TopicOrderEvents:
		return "order.events"
	case TopicLogisticsEvents:
		return "logistics.events"
	case TopicPaymentEvents:
		return "payment.events"
	case TopicAnalyticsEvents:
		return "analytics.events"
	case TopicIoTTelemetry:
		return "iot.telemetry"
	case TopicProductEvents:
		return "product-events"
	case TopicIncidentEvents:
		return "incident-events"
	}
	return "unknown"
}
