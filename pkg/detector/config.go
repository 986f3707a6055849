package detector

// Detection modes. "both" flags when either signal alone exceeds its
// threshold.
const (
	ModePercentage = "percentage"
	ModeStdDev     = "stddev"
	ModeBoth       = "both"
)

// Config controls the detection pass. Construct with DefaultConfig and
// override fields; decoding a YAML/JSON override on top of
// DefaultConfig keeps unspecified keys at their defaults.
type Config struct {
	// PercentageThreshold is the relative deviation from the historical
	// mean above which a value is flagged (0.15 = 15%).
	PercentageThreshold float64 `json:"percentage_threshold" yaml:"percentage_threshold"`
	// StdDevThreshold is the number of standard deviations from the
	// mean above which a value is flagged.
	StdDevThreshold float64 `json:"std_dev_threshold" yaml:"std_dev_threshold"`
	// Mode selects which signal decides: percentage, stddev, or both.
	Mode string `json:"mode" yaml:"mode"`
	// MinSamples is the minimum historical sample count before an item
	// or vendor is compared at all. Below it, nothing is ever flagged.
	MinSamples int `json:"min_samples" yaml:"min_samples"`

	CheckLineItems bool `json:"check_line_items" yaml:"check_line_items"`
	CheckTotals    bool `json:"check_totals" yaml:"check_totals"`
}

// DefaultConfig returns the default detection configuration.
func DefaultConfig() Config {
	return Config{
		PercentageThreshold: 0.15,
		StdDevThreshold:     2,
		Mode:                ModeBoth,
		MinSamples:          3,
		CheckLineItems:      true,
		CheckTotals:         true,
	}
}

// normalized replaces out-of-range or unknown values with defaults.
// Bad caller input degrades to the default behavior instead of failing
// the detection pass.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.PercentageThreshold <= 0 {
		c.PercentageThreshold = def.PercentageThreshold
	}
	if c.StdDevThreshold <= 0 {
		c.StdDevThreshold = def.StdDevThreshold
	}
	switch c.Mode {
	case ModePercentage, ModeStdDev, ModeBoth:
	default:
		c.Mode = def.Mode
	}
	if c.MinSamples <= 0 {
		c.MinSamples = def.MinSamples
	}
	return c
}
