package feedback

// ResetTrigger selects the lifecycle event that invalidates the delay buffer.
type ResetTrigger int64

const (
	ResetTriggerNone ResetTrigger = iota
	ResetTriggerShow
	ResetTriggerHide
	ResetTriggerActivate
	ResetTriggerDeactivate
	// ResetTriggerEnable drains the buffer every tick while the filter is disabled.
	ResetTriggerEnable
)

func (r ResetTrigger) String() string {
	switch r {
	case ResetTriggerNone:
		return "None"
	case ResetTriggerShow:
		return "Show"
	case ResetTriggerHide:
		return "Hide"
	case ResetTriggerActivate:
		return "Activate"
	case ResetTriggerDeactivate:
		return "Deactivate"
	case ResetTriggerEnable:
		return "Enable"
	default:
		return "Unknown"
	}
}

// LifecycleEvent is a host visibility event delivered to the filter.
type LifecycleEvent int

const (
	EventShow LifecycleEvent = iota
	EventHide
	EventActivate
	EventDeactivate
)

func (e LifecycleEvent) String() string {
	switch e {
	case EventShow:
		return "show"
	case EventHide:
		return "hide"
	case EventActivate:
		return "activate"
	case EventDeactivate:
		return "deactivate"
	default:
		return "unknown"
	}
}

// ResetPolicy maps lifecycle events to buffer invalidation.
type ResetPolicy struct {
	Trigger ResetTrigger
}

// Invalidates reports whether ev should invalidate the buffer.
func (p ResetPolicy) Invalidates(ev LifecycleEvent) bool {
	switch ev {
	case EventShow:
		return p.Trigger == ResetTriggerShow
	case EventHide:
		return p.Trigger == ResetTriggerHide
	case EventActivate:
		return p.Trigger == ResetTriggerActivate
	case EventDeactivate:
		return p.Trigger == ResetTriggerDeactivate
	}
	return false
}

// Drains reports whether the buffer should be freed this tick instead of being processed.
func (p ResetPolicy) Drains(enabled bool) bool {
	return p.Trigger == ResetTriggerEnable && !enabled
}
