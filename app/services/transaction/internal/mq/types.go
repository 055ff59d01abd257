package mq

import "SwapIt/app/common/consts/biz"

const TaskRelayCompensations = biz.TaskRelayCompensations

// RelayTaskPayload is the payload of the periodic compensation relay task.
type RelayTaskPayload struct {
	BatchSize int64 `json:"batchSize"`
}
