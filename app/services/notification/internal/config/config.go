package config

import (
	"SwapIt/app/common/bus"

	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/rest"
)

type Config struct {
	rest.RestConf

	Bus bus.Conf `json:",optional"`

	// Without a redis host every delivery is mailed, duplicates included.
	RedisConf redis.RedisConf `json:",optional"`

	SmtpConf SmtpConf `json:",optional"`
}

// SmtpConf selects the SMTP mailer when Host, Username and Password are all set.
type SmtpConf struct {
	Host     string `json:",optional"`
	Port     int    `json:",default=587"`
	Username string `json:",optional"`
	Password string `json:",optional"`
	From     string `json:",default=noreply@swapit.com"`
	Timeout  int64  `json:",default=10000"`
}
