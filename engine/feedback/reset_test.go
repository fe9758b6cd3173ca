package feedback

import "testing"

func TestResetPolicy(t *testing.T) {
	events := []LifecycleEvent{EventShow, EventHide, EventActivate, EventDeactivate}
	matching := map[ResetTrigger]LifecycleEvent{
		ResetTriggerShow:       EventShow,
		ResetTriggerHide:       EventHide,
		ResetTriggerActivate:   EventActivate,
		ResetTriggerDeactivate: EventDeactivate,
	}

	for trigger := ResetTriggerNone; trigger <= ResetTriggerEnable; trigger++ {
		p := ResetPolicy{Trigger: trigger}
		for _, ev := range events {
			want, ok := matching[trigger]
			if got := p.Invalidates(ev); got != (ok && want == ev) {
				t.Errorf("%v.Invalidates(%v) = %v", trigger, ev, got)
			}
		}
		if p.Drains(true) {
			t.Errorf("%v drains while enabled", trigger)
		}
		if got := p.Drains(false); got != (trigger == ResetTriggerEnable) {
			t.Errorf("%v.Drains(false) = %v", trigger, got)
		}
	}
}

func TestCompositeBlend(t *testing.T) {
	normal := DefaultEffectParameters().CompositeBlend()
	inv := EffectParameters{Inversed: true}.CompositeBlend()
	if normal == inv {
		t.Fatal("inversed blend matches normal blend")
	}
	if normal.Src.String() != "one" || inv.Src.String() != "srcalpha" {
		t.Errorf("normal=%v inversed=%v", normal, inv)
	}
}
