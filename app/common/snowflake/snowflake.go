package snowflake

import (
	"hash/fnv"
	"os"
	"sync"

	bwsnowflake "github.com/bwmarrin/snowflake"
)

var (
	once sync.Once
	node *bwsnowflake.Node
)

// SetNodeID overrides the hostname-derived node ID (0-1023). Call once at bootstrap.
func SetNodeID(id int64) error {
	n, err := bwsnowflake.NewNode(id & 0x3FF)
	if err != nil {
		return err
	}
	once.Do(func() {})
	node = n
	return nil
}

func initNode() {
	if node != nil {
		return
	}
	// 10 bits of the hostname hash
	host, _ := os.Hostname()
	h := fnv.New32a()
	_, _ = h.Write([]byte(host))
	n, err := bwsnowflake.NewNode(int64(h.Sum32()) & 0x3FF)
	if err != nil {
		n, _ = bwsnowflake.NewNode(1)
	}
	node = n
}

// Next returns a new snowflake id.
func Next() int64 {
	once.Do(initNode)
	return node.Generate().Int64()
}

// NextString returns a new snowflake id in its decimal form, used for order ids.
func NextString() string {
	once.Do(initNode)
	return node.Generate().String()
}
