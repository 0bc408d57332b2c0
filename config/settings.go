package config

import "fmt"

// Settings are the UI preferences stored next to the planning document.
// The engine never reads them; the API uses them for presentation.
type Settings struct {
	Currency       string            `json:"currency"`
	CurrencySymbol string            `json:"currency_symbol"`
	Colors         map[string]string `json:"colors"`
	Thresholds     Thresholds        `json:"utilization_thresholds"`
	PageSize       int               `json:"page_size"`
}

// Thresholds bands utilization percentages for display.
type Thresholds struct {
	Under float64 `json:"under"` // below this: underutilized
	High  float64 `json:"high"`  // at or above this: high
}

// Utilization status labels.
const (
	StatusUnderutilized = "underutilized"
	StatusBalanced      = "balanced"
	StatusHigh          = "high"
	StatusOverallocated = "overallocated"
)

// DefaultSettings returns the settings used when none were saved.
func DefaultSettings() Settings {
	return Settings{
		Currency:       "EUR",
		CurrencySymbol: "€",
		Colors:         map[string]string{},
		Thresholds:     Thresholds{Under: 50, High: 90},
		PageSize:       10,
	}
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	if s.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	if s.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", s.PageSize)
	}
	if s.Thresholds.Under < 0 || s.Thresholds.High > 100 || s.Thresholds.Under > s.Thresholds.High {
		return fmt.Errorf("utilization thresholds must satisfy 0 <= under <= high <= 100")
	}
	return nil
}

// WithDefaults fills zero fields from DefaultSettings.
func (s Settings) WithDefaults() Settings {
	def := DefaultSettings()
	if s.Currency == "" {
		s.Currency = def.Currency
		s.CurrencySymbol = def.CurrencySymbol
	}
	if s.Colors == nil {
		s.Colors = def.Colors
	}
	if s.Thresholds == (Thresholds{}) {
		s.Thresholds = def.Thresholds
	}
	if s.PageSize <= 0 {
		s.PageSize = def.PageSize
	}
	return s
}

// Status labels a utilization row for display.
func (s Settings) Status(utilization, overallocation float64) string {
	switch {
	case overallocation > 0:
		return StatusOverallocated
	case utilization < s.Thresholds.Under:
		return StatusUnderutilized
	case utilization >= s.Thresholds.High:
		return StatusHigh
	default:
		return StatusBalanced
	}
}
