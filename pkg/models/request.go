package models

// BusinessIdentity carries the identifiers under which external systems know
// the business. SmallID addresses account-level APIs, LongID addresses the
// enterprise/content APIs.
type BusinessIdentity struct {
	SmallID string `json:"small_id"      validate:"required"`
	LongID  string `json:"long_id"`
	Name    string `json:"business_name" validate:"required"`
}

// ToolConfig configures a single named tool for one source agent.
type ToolConfig struct {
	Name   string         `json:"tool_name" validate:"required"`
	Config map[string]any `json:"config,omitempty"`
}

// GenerationRequest is the caller-owned input of a generation run. The
// workflow treats it as read-only.
type GenerationRequest struct {
	TargetCount    int                     `json:"target_count"`
	EnabledSources []Source                `json:"enabled_sources"`
	Business       BusinessIdentity        `json:"business"        validate:"required"`
	LookbackDays   int                     `json:"lookback_days"   validate:"gte=0"`
	Instructions   map[Source][]string     `json:"instructions,omitempty"`
	Tools          map[Source][]ToolConfig `json:"tools,omitempty"`

	// IncludeSchedule enables the optional slot-assignment stage.
	IncludeSchedule bool `json:"include_schedule,omitempty"`
}

// Enabled reports whether the given source was requested. Unknown entries in
// EnabledSources never match.
func (r *GenerationRequest) Enabled(source Source) bool {
	for _, s := range r.EnabledSources {
		if s == source && s.Known() {
			return true
		}
	}

	return false
}

// EnabledSet returns the known enabled sources as a set.
func (r *GenerationRequest) EnabledSet() map[Source]bool {
	set := make(map[Source]bool, len(r.EnabledSources))

	for _, s := range r.EnabledSources {
		if s.Known() {
			set[s] = true
		}
	}

	return set
}

// InstructionsFor returns the caller's free-text instructions for one source.
func (r *GenerationRequest) InstructionsFor(source Source) []string {
	if r.Instructions == nil {
		return nil
	}

	return r.Instructions[source]
}

// ToolsFor returns the caller's tool configuration for one source.
func (r *GenerationRequest) ToolsFor(source Source) []ToolConfig {
	if r.Tools == nil {
		return nil
	}

	return r.Tools[source]
}
