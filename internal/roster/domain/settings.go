package domain

// Recognized display preference keys.
const (
	SettingShowDateOfBirth   = "show_date_of_birth"
	SettingShowPersonalImage = "show_personal_image"
	SettingShowDarkMode      = "show_dark_mode"
)

// Settings maps recognized preference keys to their value. Missing keys fall
// back to DefaultSettings.
type Settings map[string]bool

// DefaultSettings returns a fresh copy of the defaults.
func DefaultSettings() Settings {
	return Settings{
		SettingShowDateOfBirth:   true,
		SettingShowPersonalImage: true,
		SettingShowDarkMode:      false,
	}
}

// IsRecognized reports whether key is a known preference.
func IsRecognized(key string) bool {
	_, ok := DefaultSettings()[key]
	return ok
}

// Effective returns the defaults overlaid with the stored values.
func (s Settings) Effective() Settings {
	out := DefaultSettings()
	for k, v := range s {
		if IsRecognized(k) {
			out[k] = v
		}
	}
	return out
}

// Merge returns s with every recognized key of update applied. Unknown keys
// are ignored.
func (s Settings) Merge(update map[string]bool) Settings {
	out := make(Settings, len(s)+len(update))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range update {
		if IsRecognized(k) {
			out[k] = v
		}
	}
	return out
}

// Shows reports whether the profile field named field is visible. Fields
// without a preference are always visible.
func (s Settings) Shows(field string) bool {
	v, ok := s.Effective()["show_"+field]
	return !ok || v
}
