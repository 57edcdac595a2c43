package model

// Decision is one parsed oracle step: what the agent thinks and which
// capability it wants to invoke next. Transient, never persisted.
type Decision struct {
	Thought string `json:"thought"`
	Tool    string `json:"tool"`
	Args    any    `json:"args"`
}

// ToolOutput is the raw result of one capability invocation. Produced per
// loop step and only persisted via the evidence extractor.
type ToolOutput struct {
	ToolName string
	Content  string
	Metadata ToolMetadata
}

// ToolMetadata carries the decision context that produced an output
type ToolMetadata struct {
	Args    any
	Thought string
}
