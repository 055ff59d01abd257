package bus

import (
	"errors"
	"strings"
)

// Binding attaches a durable queue to the exchange for the routing keys matching any Pattern.
// Patterns follow topic-exchange rules: words split by '.', '*' is one word, '#' is zero or more.
type Binding struct {
	Queue    string
	Exchange string
	Patterns []string
}

func (b Binding) validate() error {
	if b.Queue == "" {
		return errors.New("binding: empty queue")
	}
	if len(b.Patterns) == 0 {
		return errors.New("binding: no routing patterns")
	}
	return nil
}

// Matches reports whether a message with routing key key is delivered to the queue.
func (b Binding) Matches(key string) bool {
	for _, p := range b.Patterns {
		if MatchRoutingKey(p, key) {
			return true
		}
	}
	return false
}

func MatchRoutingKey(pattern, key string) bool {
	return matchWords(strings.Split(pattern, "."), strings.Split(key, "."))
}

func matchWords(pattern, key []string) bool {
	if len(pattern) == 0 {
		return len(key) == 0
	}
	switch pattern[0] {
	case "#":
		for i := 0; i <= len(key); i++ {
			if matchWords(pattern[1:], key[i:]) {
				return true
			}
		}
		return false
	case "*":
		return len(key) > 0 && matchWords(pattern[1:], key[1:])
	default:
		return len(key) > 0 && pattern[0] == key[0] && matchWords(pattern[1:], key[1:])
	}
}
