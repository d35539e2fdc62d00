package lookupkeys

import (
	"strings"

	"mercator-hq/valcheck/pkg/services"
)

// maxCultureChain bounds a fallback chain even if a culture service keeps
// inventing new cultures.
const maxCultureChain = 32

// WalkCultures tries requested and then each culture along its fallback chain
// until try reports success. It returns the culture that succeeded, or "" when
// the chain is exhausted. A culture is never tried twice, so cyclic fallbacks
// terminate. Errors from try or from the culture service stop the walk.
func WalkCultures(cultures services.CultureService, requested string, try func(cultureID string) (bool, error)) (string, error) {
	visited := make(map[string]bool)
	current := strings.TrimSpace(requested)

	for current != "" && len(visited) < maxCultureChain {
		key := strings.ToLower(current)
		if visited[key] {
			return "", nil
		}
		visited[key] = true

		ok, err := try(current)
		if err != nil {
			return "", err
		}
		if ok {
			return current, nil
		}

		if cultures == nil {
			return "", nil
		}
		cfg, err := cultures.Find(current)
		if err != nil {
			return "", err
		}
		if cfg == nil {
			return "", nil
		}
		current = strings.TrimSpace(cfg.FallbackCultureID)
	}
	return "", nil
}
