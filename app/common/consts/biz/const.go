package biz

import "time"

const (
	// Exchange is the single durable topic exchange every service publishes to.
	Exchange = "swapit_events"

	SearchQueue       = "search_service_queue"
	NotificationQueue = "notification_service_queue"
	TransactionQueue  = "transaction_service_queue"
)

const (
	PublishTimeout    = 2 * time.Second
	DependencyTimeout = 5 * time.Second

	NotificationDedupTTL = 24 * time.Hour
)

const (
	TaskRelayCompensations = "order:relay_compensations"
)
