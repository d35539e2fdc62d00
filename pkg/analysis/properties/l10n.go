package properties

import (
	"fmt"
	"strings"

	"mercator-hq/valcheck/pkg/analysis/lookupkeys"
	"mercator-hq/valcheck/pkg/analysis/results"
	"mercator-hq/valcheck/pkg/services"
)

// L10nChecker checks text properties paired with localization keys.
type L10nChecker struct {
	localizer services.TextLocalizerService
	cultures  services.CultureService
	active    []string
}

// NewL10nChecker creates a checker over the registry's localizer for the
// active cultures.
func NewL10nChecker(reg *services.Registry, active []string) *L10nChecker {
	return &L10nChecker{localizer: reg.Localizer, cultures: reg.Cultures, active: active}
}

// Check resolves l10nKey in every active culture. It returns nil when no key
// is set. The node is info when every culture resolves, warning when some
// culture falls back to the literal text and error when a culture has
// neither.
func (c *L10nChecker) Check(propertyName, l10nPropertyName, text, l10nKey string) *results.L10nPropertyResult {
	l10nKey = strings.TrimSpace(l10nKey)
	if l10nKey == "" {
		return nil
	}

	res := &results.L10nPropertyResult{
		PropertyName:     propertyName,
		L10nPropertyName: l10nPropertyName,
		L10nKey:          l10nKey,
	}
	if c.localizer == nil {
		res.Report(results.SeverityWarning,
			"No text localizer is registered, so %s %q cannot be checked.", l10nPropertyName, l10nKey)
		return res
	}

	worst := results.SeverityInfo
	for _, culture := range c.active {
		ct := c.localize(culture, l10nKey, text)
		if ct.Severity.Rank() > worst.Rank() {
			worst = ct.Severity
		}
		res.CultureText = append(res.CultureText, ct)
	}

	switch worst {
	case results.SeverityError:
		res.Report(results.SeverityError,
			"Localization key %q has no text in some cultures and %s has no literal text to fall back to.", l10nKey, propertyName)
	case results.SeverityWarning:
		res.Report(results.SeverityWarning,
			"Localization key %q has no text in some cultures; %s is used instead.", l10nKey, propertyName)
	default:
		res.Report(results.SeverityInfo,
			"Localization key %q resolves in every culture.", l10nKey)
	}
	return res
}

func (c *L10nChecker) localize(culture, key, literal string) (ct results.CultureText) {
	ct.CultureID = culture
	defer func() {
		if r := recover(); r != nil {
			ct.Severity = results.SeverityError
			ct.Message = fmt.Sprintf("text localizer failed: %v", r)
		}
	}()

	var found string
	actual, err := lookupkeys.WalkCultures(c.cultures, culture, func(id string) (bool, error) {
		text, ok, err := c.localizer.Localize(id, key)
		if err != nil {
			return false, err
		}
		found = text
		return ok, nil
	})

	switch {
	case err != nil:
		ct.Severity = results.SeverityError
		ct.Message = err.Error()
	case actual != "":
		ct.ActualCultureID = actual
		ct.Text = found
	case literal != "":
		ct.Text = literal
		ct.Severity = results.SeverityWarning
		ct.Message = "No localized text; the literal text is used."
	default:
		ct.Severity = results.SeverityError
		ct.Message = "No localized text and no literal text."
	}
	return ct
}
