package settings

import "github.com/Carmen-Shannon/oxy-recursion/common"

// PropertyKind identifies how a property is presented and constrained.
type PropertyKind int

const (
	PropertyInt PropertyKind = iota
	PropertyFloat
	PropertyBool
	PropertyIntList
	PropertyText
)

// ListItem is one choice of an int list property.
type ListItem struct {
	Name  string
	Value int64
}

// Property describes one setting: its kind, label and the range the UI allows.
type Property struct {
	Name        string
	Description string
	Kind        PropertyKind
	Min         float64
	Max         float64
	Step        float64
	Suffix      string
	Items       []ListItem
	Text        string
}

// AddItem appends a choice to an int list property.
//
// Parameters:
//   - name: the choice label
//   - value: the stored value
//
// Returns:
//   - *Property: the property, for chaining
func (p *Property) AddItem(name string, value int64) *Property {
	p.Items = append(p.Items, ListItem{Name: name, Value: value})
	return p
}

// SetSuffix sets the unit label shown after the value.
func (p *Property) SetSuffix(suffix string) *Property {
	p.Suffix = suffix
	return p
}

// Properties is an ordered set of property descriptors.
type Properties struct {
	list []*Property
}

// NewProperties creates an empty property set.
func NewProperties() *Properties {
	return &Properties{}
}

func (ps *Properties) add(p *Property) *Property {
	ps.list = append(ps.list, p)
	return p
}

// AddInt adds an integer property constrained to [min, max].
func (ps *Properties) AddInt(name, desc string, min, max, step int64) *Property {
	return ps.add(&Property{Name: name, Description: desc, Kind: PropertyInt, Min: float64(min), Max: float64(max), Step: float64(step)})
}

// AddFloatSlider adds a float property constrained to [min, max].
func (ps *Properties) AddFloatSlider(name, desc string, min, max, step float64) *Property {
	return ps.add(&Property{Name: name, Description: desc, Kind: PropertyFloat, Min: min, Max: max, Step: step})
}

// AddBool adds a boolean property.
func (ps *Properties) AddBool(name, desc string) *Property {
	return ps.add(&Property{Name: name, Description: desc, Kind: PropertyBool})
}

// AddIntList adds an integer property whose value must be one of its items.
func (ps *Properties) AddIntList(name, desc string) *Property {
	return ps.add(&Property{Name: name, Description: desc, Kind: PropertyIntList})
}

// AddText adds a read-only informational line.
func (ps *Properties) AddText(name, text string) *Property {
	return ps.add(&Property{Name: name, Kind: PropertyText, Text: text})
}

// Get returns the named property, or nil.
func (ps *Properties) Get(name string) *Property {
	for _, p := range ps.list {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// List returns the properties in declaration order.
func (ps *Properties) List() []*Property {
	return ps.list
}

// Clamp applies the UI constraints to every explicit value in s: numeric values are clamped to their
// range and list values that match no item are erased so they read their default.
//
// Parameters:
//   - s: the settings to constrain in place
func (ps *Properties) Clamp(s *Settings) {
	for _, p := range ps.list {
		if !s.Has(p.Name) {
			continue
		}
		switch p.Kind {
		case PropertyInt:
			s.SetInt(p.Name, common.Clamp(s.Int(p.Name), int64(p.Min), int64(p.Max)))
		case PropertyFloat:
			s.SetDouble(p.Name, common.Clamp(s.Double(p.Name), p.Min, p.Max))
		case PropertyIntList:
			v := s.Int(p.Name)
			found := false
			for _, it := range p.Items {
				if it.Value == v {
					found = true
					break
				}
			}
			if !found {
				s.Erase(p.Name)
			}
		}
	}
}
