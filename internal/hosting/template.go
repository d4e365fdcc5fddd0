package hosting

import (
	"strings"

	"github.com/jmoret/rosterbee/internal/settings"
)

// TemplateURL resolves where an assignment's template repository lives.
// An empty template group falls back to the student repos group, an
// absolute template group is used verbatim as a filesystem path, and
// anything else is a group under the hosting base URL.
func TemplateURL(hs settings.HostingSettings, assignment string) string {
	base := strings.TrimRight(hs.BaseURL, "/")
	switch {
	case hs.TemplateGroup == "":
		return base + "/" + hs.StudentReposGroup + "/" + assignment
	case strings.HasPrefix(hs.TemplateGroup, "/"):
		return strings.TrimRight(hs.TemplateGroup, "/") + "/" + assignment
	default:
		return base + "/" + hs.TemplateGroup + "/" + assignment
	}
}
