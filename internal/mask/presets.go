package mask

import "sort"

// Preset is a named, documented template.
type Preset struct {
	Name        string
	Pattern     string
	Description string
}

var builtinPresets = map[string]Preset{
	"phone-us":    {Name: "phone-us", Pattern: "(999) 999-9999", Description: "North American phone number"},
	"ssn":         {Name: "ssn", Pattern: "999-99-9999", Description: "US social security number"},
	"zip":         {Name: "zip", Pattern: "99999", Description: "US ZIP code"},
	"zip4":        {Name: "zip4", Pattern: "99999-9999", Description: "US ZIP+4 code"},
	"date-us":     {Name: "date-us", Pattern: "99/99/9999", Description: "Date as MM/DD/YYYY"},
	"date-iso":    {Name: "date-iso", Pattern: "9999-99-99", Description: "Date as YYYY-MM-DD"},
	"time-24h":    {Name: "time-24h", Pattern: "99:99", Description: "24-hour clock time"},
	"credit-card": {Name: "credit-card", Pattern: "9999 9999 9999 9999", Description: "16-digit card number"},
	"plate":       {Name: "plate", Pattern: "aa/9999", Description: "Region code and registration year"},
	"postal-ca":   {Name: "postal-ca", Pattern: "a9a 9a9", Description: "Canadian postal code"},
}

// Presets returns the built-in presets sorted by name.
func Presets() []Preset {
	out := make([]Preset, 0, len(builtinPresets))
	for _, p := range builtinPresets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup compiles the built-in preset with the given name.
func Lookup(name string) (Template, bool) {
	p, ok := builtinPresets[name]
	if !ok {
		return Template{}, false
	}
	return Compile(p.Pattern), true
}
