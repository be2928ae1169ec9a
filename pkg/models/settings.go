package models

// DefaultBackendURL is the push service used until the operator saves another one.
const DefaultBackendURL = "https://timely-backend-hg2f.onrender.com"

// Settings holds the process-wide push service configuration.
type Settings struct {
	BackendURL string `json:"backendUrl" validate:"omitempty,url"`
	APIKey     string `json:"apiKey"`
}

// DefaultSettings returns the settings used when nothing has been saved.
func DefaultSettings() Settings {
	return Settings{BackendURL: DefaultBackendURL}
}

// Complete reports whether both the backend URL and the API key are set.
func (s Settings) Complete() bool {
	return s.BackendURL != "" && s.APIKey != ""
}
