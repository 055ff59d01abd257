package bus

import "time"

// Conf configures the broker connection. An empty Brokers list runs the client degraded.
type Conf struct {
	Brokers            []string      `json:",optional"`
	Exchange           string        `json:",default=swapit_events"`
	PublishTimeout     time.Duration `json:",default=2s"`
	DialTimeout        time.Duration `json:",default=3s"`
	RedeliveryDelay    time.Duration `json:",default=200ms"`
	MaxRedeliveryDelay time.Duration `json:",default=10s"`
	Partitions         int           `json:",default=1"`
	ReplicationFactor  int           `json:",default=1"`
}

// withDefaults fills zero fields for confs built in code rather than loaded by conf.MustLoad.
func (c Conf) withDefaults() Conf {
	if c.Exchange == "" {
		c.Exchange = "swapit_events"
	}
	if c.PublishTimeout <= 0 {
		c.PublishTimeout = 2 * time.Second
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 3 * time.Second
	}
	if c.RedeliveryDelay <= 0 {
		c.RedeliveryDelay = 200 * time.Millisecond
	}
	if c.MaxRedeliveryDelay < c.RedeliveryDelay {
		c.MaxRedeliveryDelay = 10 * time.Second
	}
	if c.Partitions <= 0 {
		c.Partitions = 1
	}
	if c.ReplicationFactor <= 0 {
		c.ReplicationFactor = 1
	}
	return c
}
