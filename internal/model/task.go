package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Task is a single to-do item. The JSON field names match the persisted slot layout.
type Task struct {
	ID        int64     `json:"id" yaml:"id" toml:"id"`
	Text      string    `json:"text" yaml:"text" toml:"text"`
	Completed bool      `json:"completed" yaml:"completed" toml:"completed"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at" toml:"created_at"`
}

// TimeLayout is the persisted createdAt form: UTC with exactly three
// fractional digits, e.g. 2026-03-01T09:30:00.000Z.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// MarshalJSON writes createdAt in TimeLayout. Decoding uses the default
// time.Time parser, which accepts any RFC 3339 form.
func (t Task) MarshalJSON() ([]byte, error) {
	type plain Task
	return json.Marshal(struct {
		plain
		CreatedAt string `json:"createdAt"`
	}{plain(t), t.CreatedAt.UTC().Format(TimeLayout)})
}

func (t *Task) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("task id must be positive")
	}
	if strings.TrimSpace(t.Text) == "" {
		return fmt.Errorf("task text is required")
	}
	return nil
}
