package resolver

// Document shapes. Merged documents are decoded strictly into these, so an
// unknown key is a configuration error.

type thingSpec struct {
	Bridge     string            `yaml:"bridge"`
	Binding    string            `yaml:"binding"`
	ThingType  string            `yaml:"thingtype"`
	ThingUID   string            `yaml:"thinguid"`
	Label      string            `yaml:"label"`
	Properties map[string]string `yaml:"properties"`
	Secrets    []string          `yaml:"secrets"`
}

type bridgeSpec struct {
	Name       string            `yaml:"name"`
	Typed      string            `yaml:"typed"`
	Identifier string            `yaml:"identifier"`
	Parent     string            `yaml:"parent"`
	Properties map[string]string `yaml:"properties"`
	Secrets    []string          `yaml:"secrets"`
	Thing      *thingSpec        `yaml:"thing"`
}

type equipmentSpec struct {
	Name       string            `yaml:"name"`
	Typed      string            `yaml:"typed"`
	Identifier string            `yaml:"identifier"`
	Binding    string            `yaml:"binding"`
	Points     map[string]string `yaml:"points"`
	Properties map[string]string `yaml:"properties"`
	Thing      *thingSpec        `yaml:"thing"`
	Equipment  []map[string]any  `yaml:"equipment"`
}

type locationSpec struct {
	Name       string           `yaml:"name"`
	Typed      string           `yaml:"typed"`
	Subtype    string           `yaml:"subtype"`
	Identifier string           `yaml:"identifier"`
	Area       string           `yaml:"area"`
	Locations  []map[string]any `yaml:"locations"`
	Equipment  []map[string]any `yaml:"equipment"`
}

type personSpec struct {
	Name       string           `yaml:"name"`
	Identifier string           `yaml:"identifier"`
	States     []string         `yaml:"states"`
	Equipment  []map[string]any `yaml:"equipment"`
}
