package models

// LLMModel is a language model hosted by the backend
type LLMModel struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Available   bool   `json:"available"`
	Reason      string `json:"reason"`
}

// Label returns the display name, falling back to the identifier
func (m LLMModel) Label() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.Name
}

// UnavailableReason returns the reason text, or "—" when none was given
func (m LLMModel) UnavailableReason() string {
	if m.Reason == "" {
		return "—"
	}
	return m.Reason
}

// FindModel returns the model with the given name
func FindModel(list []LLMModel, name string) (LLMModel, bool) {
	for _, m := range list {
		if m.Name == name {
			return m, true
		}
	}
	return LLMModel{}, false
}

// ModelLabel resolves a model identifier to its label, or the raw name when unlisted
func ModelLabel(list []LLMModel, name string) string {
	if m, ok := FindModel(list, name); ok {
		return m.Label()
	}
	return name
}
