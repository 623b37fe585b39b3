package domain

import "strings"

// Layer is an architectural layer in the dependency-direction model.
type Layer int

const (
	LayerUnclassified Layer = iota
	LayerDomain
	LayerApplication
	LayerInfrastructure
	LayerShared
)

var layerNames = map[Layer]string{
	LayerUnclassified:   "unclassified",
	LayerDomain:         "domain",
	LayerApplication:    "application",
	LayerInfrastructure: "infrastructure",
	LayerShared:         "shared",
}

// allowedTargets is the only place dependency-direction legality is defined.
var allowedTargets = map[Layer]map[Layer]bool{
	LayerDomain: {
		LayerDomain: true,
		LayerShared: true,
	},
	LayerApplication: {
		LayerDomain:      true,
		LayerApplication: true,
		LayerShared:      true,
	},
	LayerInfrastructure: {
		LayerDomain:         true,
		LayerApplication:    true,
		LayerInfrastructure: true,
		LayerShared:         true,
	},
	LayerShared: {
		LayerDomain:         true,
		LayerApplication:    true,
		LayerInfrastructure: true,
		LayerShared:         true,
	},
}

// ClassifiedLayers lists the layers that take part in the model, in order.
var ClassifiedLayers = []Layer{LayerDomain, LayerApplication, LayerInfrastructure, LayerShared}

func (l Layer) String() string {
	if name, ok := layerNames[l]; ok {
		return name
	}
	return layerNames[LayerUnclassified]
}

// Title returns the layer name with a leading capital, for messages.
func (l Layer) Title() string {
	s := l.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

func (l Layer) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Layer) UnmarshalText(text []byte) error {
	*l = ParseLayer(string(text))
	return nil
}

// ParseLayer maps a layer name to a Layer. Unknown or malformed names
// resolve to LayerUnclassified rather than an error so that a bad config
// value disables layer-scoped checks for the file instead of failing the run.
func ParseLayer(s string) Layer {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "domain":
		return LayerDomain
	case "application", "app-layer":
		return LayerApplication
	case "infrastructure", "infra", "adapters", "adapter":
		return LayerInfrastructure
	case "shared", "common":
		return LayerShared
	default:
		return LayerUnclassified
	}
}

// IsValidLayerName reports whether s names a classified layer.
func IsValidLayerName(s string) bool {
	return ParseLayer(s) != LayerUnclassified
}

// CanDependOn reports whether code in layer l may import code in target.
func (l Layer) CanDependOn(target Layer) bool {
	return allowedTargets[l][target]
}

// IsViolation reports whether an import from l to target breaks the
// dependency rule. Unclassified on either side is never a violation: such
// files and imports are outside the layer model.
func IsViolation(from, to Layer) bool {
	if from == LayerUnclassified || to == LayerUnclassified {
		return false
	}
	return !from.CanDependOn(to)
}

// AllowedTargets returns the layers l may depend on, in model order.
func (l Layer) AllowedTargets() []Layer {
	var out []Layer
	for _, t := range ClassifiedLayers {
		if l.CanDependOn(t) {
			out = append(out, t)
		}
	}
	return out
}
