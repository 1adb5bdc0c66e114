package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"bling/internal/core"
)

// ReportRequestMessage asks the report worker to generate one monthly
// report. It carries only the month key and a job id; the worker snapshots
// the stores itself.
type ReportRequestMessage struct {
	JobID     uuid.UUID `json:"job_id"`
	Month     string    `json:"month"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReportRequestMessage creates a request for the given month.
func NewReportRequestMessage(jobID uuid.UUID, month core.MonthKey) *ReportRequestMessage {
	return &ReportRequestMessage{
		JobID:     jobID,
		Month:     month.String(),
		Timestamp: time.Now(),
	}
}

// MonthKey parses the message's month field.
func (m *ReportRequestMessage) MonthKey() (core.MonthKey, error) {
	return core.ParseMonthKey(m.Month)
}

// ToJSON converts the message to JSON bytes
func (m *ReportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportRequestMessageFromJSON creates a message from JSON bytes
func ReportRequestMessageFromJSON(data []byte) (*ReportRequestMessage, error) {
	var msg ReportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
