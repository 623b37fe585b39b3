package hardcoded

import (
	"path/filepath"
	"strings"

	"github.com/openkraft/layerlint/internal/domain"
)

// cliSegments are path segments that mark command-line entry code, which is
// held to the same relaxed standard as infrastructure.
var cliSegments = map[string]bool{
	"cli": true, "commands": true, "bin": true, "scripts": true,
}

// importanceOf ranks a literal by the words around it and by what the value
// was recognised as. Critical terms win over everything; recognised network
// and contact values are at least High.
func importanceOf(ws []string, class domain.ValueType) domain.Importance {
	switch {
	case class == domain.ValueAPIKey || class == domain.ValueJWT:
		return domain.ImportanceCritical
	case mentions(ws, criticalTerms):
		return domain.ImportanceCritical
	case class == domain.ValueURL || class == domain.ValueIPAddress || class == domain.ValueEmail:
		return domain.ImportanceHigh
	case mentions(ws, highTerms):
		return domain.ImportanceHigh
	case mentions(ws, mediumTerms):
		return domain.ImportanceMedium
	case mentions(ws, lowTerms):
		return domain.ImportanceLow
	default:
		return domain.ImportanceMedium
	}
}

func severityOf(imp domain.Importance) string {
	switch imp {
	case domain.ImportanceCritical:
		return domain.SeverityError
	case domain.ImportanceLow:
		return domain.SeverityInfo
	default:
		return domain.SeverityWarning
	}
}

// Suppressed reports whether a literal of the given importance is dropped for
// a file. Infrastructure and command-line code may carry low-importance
// presentation values; inner layers report everything.
func Suppressed(layer domain.Layer, path string, imp domain.Importance) bool {
	if imp != domain.ImportanceLow {
		return false
	}
	return layer == domain.LayerInfrastructure || isCLIPath(path)
}

func isCLIPath(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if cliSegments[strings.ToLower(seg)] {
			return true
		}
	}
	return false
}
