package config

import (
	"SwapIt/app/common/bus"

	"github.com/zeromicro/go-zero/rest"
)

type Config struct {
	rest.RestConf

	Bus         bus.Conf    `json:",optional"`
	ElasticConf ElasticConf `json:",optional"`
}

type ElasticConf struct {
	Addresses        []string `json:",optional"`
	Username         string   `json:",optional"`
	Password         string   `json:",optional"`
	IndexName        string   `json:",default=products"`
	NumberOfShards   int      `json:",default=1"`
	NumberOfReplicas int      `json:",optional"`
}
