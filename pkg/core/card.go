package core

// AgentCard is the capability and identity descriptor used for routing.
// Cards are immutable once registered; the registry hands out copies.
type AgentCard struct {
	ID           string   `json:"id"`
	DisplayName  string   `json:"display_name"`
	Description  string   `json:"description,omitempty"`
	Capabilities []string `json:"capabilities"`
}

// HasCapability reports whether the card declares the given tag.
func (c AgentCard) HasCapability(tag string) bool {
	for _, capability := range c.Capabilities {
		if capability == tag {
			return true
		}
	}
	return false
}

// Clone returns a copy with its own capability slice.
func (c AgentCard) Clone() AgentCard {
	out := c
	out.Capabilities = append([]string(nil), c.Capabilities...)
	return out
}
