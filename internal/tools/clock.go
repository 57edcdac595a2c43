package tools

import (
	"fmt"
	"time"
)

// ClockTool reports the current local time
type ClockTool struct {
	now func() time.Time
}

// NewClockTool creates the get_time capability
func NewClockTool() *ClockTool {
	return &ClockTool{now: time.Now}
}

func (t *ClockTool) Name() string { return "get_time" }

func (t *ClockTool) Description() string {
	return "Get the current local time."
}

func (t *ClockTool) Schema() Schema {
	return Schema{}
}

func (t *ClockTool) Execute(args any) string {
	if _, err := t.Schema().Coerce(args); args != nil && err != nil {
		return errorText("validating arguments", err)
	}
	return fmt.Sprintf("Current Time: %s", t.now().Format("2006-01-02 15:04:05"))
}
