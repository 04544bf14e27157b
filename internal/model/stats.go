package model

import "math"

type Stats struct {
	Total          int `json:"total" yaml:"total" toml:"total"`
	Active         int `json:"active" yaml:"active" toml:"active"`
	Completed      int `json:"completed" yaml:"completed" toml:"completed"`
	CompletionRate int `json:"completionRate" yaml:"completion_rate" toml:"completion_rate"`
}

// ComputeStats derives aggregate counts from tasks. CompletionRate is a
// percentage rounded half up; an empty list yields 0.
func ComputeStats(tasks []Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Active = s.Total - s.Completed
	if s.Total > 0 {
		s.CompletionRate = int(math.Floor(float64(s.Completed)/float64(s.Total)*100 + 0.5))
	}
	return s
}
