// internal/config/config.go
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"renovrisk-core/engine"
	"renovrisk-core/risk"
)

// EnvPrefix namespaces environment overrides, e.g. RENOVRISK_ITERATIONS.
const EnvPrefix = "RENOVRISK"

type Log struct {
	Level       string `mapstructure:"level"`
	Encoding    string `mapstructure:"encoding"` // console | json
	Development bool   `mapstructure:"development"`
}

// Run is the resolved configuration of one command invocation.
type Run struct {
	Register      string        `mapstructure:"register"`
	Iterations    int           `mapstructure:"iterations"`
	Seed          uint64        `mapstructure:"seed"`
	Shape         string        `mapstructure:"shape"`
	BaseCost      float64       `mapstructure:"base_cost"`
	BaseDuration  float64       `mapstructure:"base_duration"`
	Confidence    float64       `mapstructure:"confidence"`
	HistogramBins int           `mapstructure:"histogram_bins"`
	CurvePoints   int           `mapstructure:"curve_points"`
	Threads       int           `mapstructure:"threads"`
	BatchSize     int           `mapstructure:"batch_size"`
	Output        string        `mapstructure:"output"`
	Samples       bool          `mapstructure:"samples"`
	PlotDir       string        `mapstructure:"plot_dir"`
	Top           int           `mapstructure:"top"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Quiet         bool          `mapstructure:"quiet"`
	Log           Log           `mapstructure:"log"`

	// Resolved outside mapstructure.
	Percentiles []float64 `mapstructure:"-"`
	HasSeed     bool      `mapstructure:"-"`
	HasBaseline bool      `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("register", "")
	v.SetDefault("iterations", engine.DefaultIterations)
	v.SetDefault("percentiles", "10,50,90")
	v.SetDefault("shape", string(risk.Triangular))
	v.SetDefault("confidence", engine.DefaultConfidence)
	v.SetDefault("histogram_bins", engine.DefaultHistogramBins)
	v.SetDefault("curve_points", engine.DefaultCurvePoints)
	v.SetDefault("threads", 0)
	v.SetDefault("batch_size", 0)
	v.SetDefault("output", "text")
	v.SetDefault("samples", false)
	v.SetDefault("plot_dir", "")
	v.SetDefault("top", 5)
	v.SetDefault("timeout", "0s")
	v.SetDefault("quiet", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", false)
}

// FlagKey maps a command-line flag name to its configuration key.
func FlagKey(flag string) string {
	switch flag {
	case "log-level":
		return "log.level"
	case "log-format":
		return "log.encoding"
	case "bins":
		return "histogram_bins"
	}
	return strings.ReplaceAll(flag, "-", "_")
}

// Load resolves a Run from, in increasing precedence: defaults, the YAML file
// at path (optional), RENOVRISK_* environment variables, and the flags the
// user actually set.
func Load(path string, flags *pflag.FlagSet) (Run, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if f.Name == "config" || f.Name == "help" || bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(FlagKey(f.Name), f)
		})
		if bindErr != nil {
			return Run{}, bindErr
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Run{}, fmt.Errorf("config %s: %w", path, err)
		}
	}

	var cfg Run
	if err := v.Unmarshal(&cfg); err != nil {
		return Run{}, fmt.Errorf("config: %w", err)
	}
	ps, err := ParsePercentiles(v.Get("percentiles"))
	if err != nil {
		return Run{}, fmt.Errorf("config: percentiles: %w", err)
	}
	cfg.Percentiles = ps
	cfg.HasSeed = v.IsSet("seed")
	cfg.HasBaseline = v.IsSet("base_cost") || v.IsSet("base_duration")
	return cfg, nil
}

// ParsePercentiles accepts "10,50,90", a YAML list, or a float slice.
func ParsePercentiles(raw any) ([]float64, error) {
	switch x := raw.(type) {
	case nil:
		return nil, nil
	case []float64:
		return append([]float64(nil), x...), nil
	case string:
		var out []float64
		for _, f := range strings.FieldsFunc(x, func(r rune) bool { return r == ',' || r == ' ' }) {
			p, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("bad percentile %q", f)
			}
			out = append(out, p)
		}
		return out, nil
	case []string:
		return ParsePercentiles(strings.Join(x, ","))
	case []any:
		out := make([]float64, 0, len(x))
		for _, e := range x {
			p, err := cast.ToFloat64E(e)
			if err != nil {
				return nil, fmt.Errorf("bad percentile %v", e)
			}
			out = append(out, p)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported percentile list %T", raw)
}

// EngineConfig translates the run into an engine configuration. Validation
// happens in engine.Config.Normalize.
func (r Run) EngineConfig() engine.Config {
	c := engine.Config{
		Iterations:      r.Iterations,
		Percentiles:     r.Percentiles,
		Shape:           risk.Shape(r.Shape),
		BatchSize:       r.BatchSize,
		ConfidenceLevel: r.Confidence,
		HistogramBins:   r.HistogramBins,
		CurvePoints:     r.CurvePoints,
	}
	if r.HasSeed {
		c = c.WithSeed(r.Seed)
	}
	if r.HasBaseline {
		c.Baseline = &engine.Baseline{Cost: r.BaseCost, Schedule: r.BaseDuration}
	}
	return c
}
