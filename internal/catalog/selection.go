package catalog

// Selection maps attribute names to chosen value names. It may be a partial
// or out-of-stock combination while the shopper is still choosing.
type Selection map[string]string

// Clone returns an independent copy.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Matches reports whether attrs holds exactly the same pairs as the selection.
func (s Selection) Matches(attrs map[string]string) bool {
	if len(s) != len(attrs) {
		return false
	}
	for k, v := range s {
		if other, ok := attrs[k]; !ok || other != v {
			return false
		}
	}
	return true
}

// SelectionResult is the next selection state and the variant it resolves to, if any.
type SelectionResult struct {
	Selection Selection `json:"selection"`
	Variant   *Variant  `json:"matched_variant,omitempty"`
}

// InitialSelection seeds the selection on product load: the requested variant
// when the product has it, else the first in-stock variant, else the first
// variant, else nothing.
func InitialSelection(p *Product, requestedVariantID string) SelectionResult {
	if p == nil || len(p.Variants) == 0 {
		return SelectionResult{Selection: Selection{}}
	}
	if v, ok := p.Variant(requestedVariantID); ok {
		return resultFor(v)
	}
	for _, v := range p.Variants {
		if v.InStock() {
			return resultFor(v)
		}
	}
	return resultFor(p.Variants[0])
}

// SelectOption applies "choose value for attribute" to the current selection.
//
// An exact in-stock match of the candidate selection wins. Otherwise the
// in-stock variant carrying the value that agrees with the most other current
// choices is adopted wholesale, first one winning ties. When no in-stock
// variant carries the value at all, the raw candidate is kept without a match.
func SelectOption(p *Product, current Selection, attribute, value string) SelectionResult {
	candidate := current.Clone()
	candidate[attribute] = value
	if p == nil {
		return SelectionResult{Selection: candidate}
	}

	for _, v := range p.Variants {
		if v.InStock() && candidate.Matches(v.Attributes) {
			return resultFor(v)
		}
	}

	bestScore := -1
	var best Variant
	for _, v := range p.Variants {
		if !v.InStock() || v.Attributes[attribute] != value {
			continue
		}
		score := 0
		for name, chosen := range current {
			if name == attribute {
				continue
			}
			if got, ok := v.Attributes[name]; ok && got == chosen {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = v
		}
	}
	if bestScore >= 0 {
		return resultFor(best)
	}

	return SelectionResult{Selection: candidate}
}

// IsDisabled reports whether no in-stock variant carries value for attribute.
// The rest of the current selection is deliberately ignored.
func IsDisabled(p *Product, attribute, value string) bool {
	if p == nil {
		return true
	}
	for _, v := range p.Variants {
		if v.InStock() && v.Attributes[attribute] == value {
			return false
		}
	}
	return true
}

// OptionState is an attribute with the availability of each of its values.
type OptionState struct {
	Attribute string             `json:"attribute"`
	IsColor   bool               `json:"is_color"`
	Values    []OptionValueState `json:"values"`
}

// OptionValueState is one value of an option picker.
type OptionValueState struct {
	Value    string `json:"value"`
	Swatch   string `json:"swatch,omitempty"`
	Image    string `json:"image,omitempty"`
	Disabled bool   `json:"disabled"`
}

// OptionStates lists every attribute value with its disabled flag.
func OptionStates(p *Product) []OptionState {
	if p == nil {
		return nil
	}
	states := make([]OptionState, 0, len(p.Attributes))
	for _, attr := range p.Attributes {
		state := OptionState{
			Attribute: attr.Name,
			IsColor:   attr.IsColor,
			Values:    make([]OptionValueState, 0, len(attr.Values)),
		}
		for _, value := range attr.Values {
			state.Values = append(state.Values, OptionValueState{
				Value:    value.Value,
				Swatch:   value.Swatch,
				Image:    value.Image,
				Disabled: IsDisabled(p, attr.Name, value.Value),
			})
		}
		states = append(states, state)
	}
	return states
}

// SelectionImage returns the image to show for a selection: the matched
// variant's image, else the image of the selected value of the
// media-controlling attribute, else the product's first image.
func SelectionImage(p *Product, result SelectionResult) string {
	if result.Variant != nil && result.Variant.Image != "" {
		return result.Variant.Image
	}
	if p == nil {
		return ""
	}
	for _, attr := range p.Attributes {
		if !attr.ControlsMedia {
			continue
		}
		chosen, ok := result.Selection[attr.Name]
		if !ok {
			break
		}
		for _, value := range attr.Values {
			if value.Value == chosen && value.Image != "" {
				return value.Image
			}
		}
		break
	}
	return p.PrimaryImage()
}

func resultFor(v Variant) SelectionResult {
	return SelectionResult{
		Selection: Selection(v.Attributes).Clone(),
		Variant:   &v,
	}
}
