package fasting

// Protocol is a preset fasting length.
type Protocol struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Hours float64 `json:"hours"`
	Level string  `json:"level"`
}

// Protocols are the presets offered alongside a custom duration.
var Protocols = []Protocol{
	{ID: "rabbit", Name: "Rabbit", Hours: 12, Level: "easy"},
	{ID: "fox", Name: "Fox", Hours: 14, Level: "moderate"},
	{ID: "lion", Name: "Lion", Hours: 16, Level: "challenging"},
}

// ProtocolByID looks up a preset.
func ProtocolByID(id string) (Protocol, bool) {
	for _, p := range Protocols {
		if p.ID == id {
			return p, true
		}
	}
	return Protocol{}, false
}

// ProtocolFor names the preset matching hours, or a custom protocol.
func ProtocolFor(hours float64) Protocol {
	for _, p := range Protocols {
		if p.Hours == hours {
			return p
		}
	}
	return Protocol{ID: "custom", Name: "Custom", Hours: hours}
}
