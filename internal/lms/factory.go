package lms

import (
	"fmt"

	"github.com/jmoret/rosterbee/internal/settings"
)

// New builds a client for the configured provider, using whichever base
// URL the preset/custom selector resolves to.
func New(ls settings.LMSSettings) (Client, error) {
	baseURL := ls.ResolvedLMSURL()
	switch ls.Type {
	case settings.ProviderCanvas:
		return NewCanvasClient(baseURL, ls.AccessToken), nil
	case settings.ProviderMoodle:
		return NewMoodleClient(baseURL, ls.AccessToken), nil
	default:
		return nil, fmt.Errorf("unknown lms type %q (supported: Canvas, Moodle)", ls.Type)
	}
}
