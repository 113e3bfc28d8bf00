package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskDedupScan = "leads.dedup.scan"

type DedupScanPayload struct {
	// BatchSize caps how many leads a single scan loads. Zero uses the
	// configured default.
	BatchSize int `json:"batchSize,omitempty"`
}

func NewDedupScanTask(payload DedupScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDedupScan, data), nil
}

func ParseDedupScanPayload(task *asynq.Task) (DedupScanPayload, error) {
	var payload DedupScanPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return DedupScanPayload{}, err
	}
	return payload, nil
}
