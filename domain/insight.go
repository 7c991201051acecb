package domain

import "time"

// InsightCapacity bounds the per-session insight ring buffer.
const InsightCapacity = 12

// Insight is a short note the engine records about notable session events.
type Insight struct {
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// InsightLog is a bounded ring buffer of recent insights. Oldest entries
// are dropped once capacity is reached.
type InsightLog struct {
	Items []Insight `json:"items"`
}

// NewInsightLog returns an empty log.
func NewInsightLog() *InsightLog {
	return &InsightLog{}
}

// Add records an insight, evicting the oldest entry at capacity.
func (l *InsightLog) Add(text string, at time.Time) {
	l.Items = append(l.Items, Insight{Text: text, At: at})
	if len(l.Items) > InsightCapacity {
		l.Items = l.Items[len(l.Items)-InsightCapacity:]
	}
}

// Len returns the number of retained insights.
func (l *InsightLog) Len() int { return len(l.Items) }
