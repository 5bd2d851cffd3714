package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ecosim/internal/bgc"
	"github.com/san-kum/ecosim/internal/output"
)

const (
	DefaultMode           = "model"
	DefaultYears          = 50
	DefaultFirstYear      = 1980
	DefaultVegetation     = "enf"
	DefaultSpinupMaxYears = 6000
	DefaultSyntheticYears = 10
)

// Run modes.
const (
	ModeModel     = "model"
	ModeSpinup    = "spinup"
	ModeSpinAndGo = "spin-and-go"
)

type Config struct {
	Mode       string        `yaml:"mode" validate:"required"`
	Years      int           `yaml:"years" validate:"gte=1"`
	FirstYear  int           `yaml:"first_year"`
	Vegetation string        `yaml:"vegetation"`
	EPC        bgc.EPC       `yaml:"epc"`
	Site       bgc.Site      `yaml:"site"`
	Met        MetConfig     `yaml:"met"`
	Init       InitConfig    `yaml:"init"`
	Spinup     SpinupConfig  `yaml:"spinup"`
	Restart    RestartConfig `yaml:"restart"`
	Output     OutputConfig  `yaml:"output"`
	Logging    LoggingConfig `yaml:"logging"`
}

// MetConfig selects the meteorology source: a text file, or the synthetic
// generator when File is empty.
type MetConfig struct {
	File           string  `yaml:"file"`
	SyntheticYears int     `yaml:"synthetic_years" validate:"gte=1"`
	MeanTemp       float64 `yaml:"mean_temp"`
	TempAmplitude  float64 `yaml:"temp_amplitude" validate:"gte=0"`
	AnnualPrcp     float64 `yaml:"annual_prcp" validate:"gte=0"`
}

// InitConfig holds the initial pools of a cold start.
type InitConfig struct {
	SoilWFrac float64 `yaml:"soilw_frac" validate:"gte=0,lte=1"`
	SnowW     float64 `yaml:"snoww" validate:"gte=0"`
	LeafCMax  float64 `yaml:"max_leafc" validate:"gte=0"`
	StemCMax  float64 `yaml:"max_stemc" validate:"gte=0"`
	CwdC      float64 `yaml:"cwdc" validate:"gte=0"`
	Litr1C    float64 `yaml:"litr1c" validate:"gte=0"`
	Litr2C    float64 `yaml:"litr2c" validate:"gte=0"`
	Litr3C    float64 `yaml:"litr3c" validate:"gte=0"`
	Litr4C    float64 `yaml:"litr4c" validate:"gte=0"`
	Soil1C    float64 `yaml:"soil1c" validate:"gte=0"`
	Soil2C    float64 `yaml:"soil2c" validate:"gte=0"`
	Soil3C    float64 `yaml:"soil3c" validate:"gte=0"`
	Soil4C    float64 `yaml:"soil4c" validate:"gte=0"`
	SminN     float64 `yaml:"sminn" validate:"gte=0"`
}

type SpinupConfig struct {
	MaxYears int `yaml:"max_years" validate:"gte=1"`
}

// RestartConfig names the restart records read at start and written at end.
type RestartConfig struct {
	Read        string `yaml:"read"`
	Write       string `yaml:"write"`
	KeepMetYear bool   `yaml:"keep_metyr"`
}

type OutputConfig struct {
	Dir    string   `yaml:"dir"`
	Prefix string   `yaml:"prefix" validate:"required"`
	Daily  []string `yaml:"daily" validate:"dive,outvar"`
	Annual []string `yaml:"annual" validate:"dive,outvar"`
	Text   bool     `yaml:"text"`
	SQLite string   `yaml:"sqlite"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=silent error warning progress detail diagnostic"`
	Format string `yaml:"format" validate:"oneof=text json"`
	File   string `yaml:"file"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("outvar", validateOutVar)
}

// validateOutVar accepts names known to the output registry.
func validateOutVar(fl validator.FieldLevel) bool {
	_, ok := output.Lookup(fl.Field().String())
	return ok
}

func DefaultConfig() *Config {
	epc := *GetPreset(DefaultVegetation)
	site := DefaultSite()
	return &Config{
		Mode:       DefaultMode,
		Years:      DefaultYears,
		FirstYear:  DefaultFirstYear,
		Vegetation: DefaultVegetation,
		EPC:        epc,
		Site:       site,
		Met: MetConfig{
			SyntheticYears: DefaultSyntheticYears,
			MeanTemp:       8,
			TempAmplitude:  12,
			AnnualPrcp:     900,
		},
		Init: InitConfig{
			SoilWFrac: 0.5,
			LeafCMax:  0.1,
			StemCMax:  0.5,
			Litr1C:    0.01,
			Litr2C:    0.05,
			Litr3C:    0.03,
			Litr4C:    0.05,
			Soil1C:    0.01,
			Soil2C:    0.1,
			Soil3C:    1.0,
			Soil4C:    5.0,
			SminN:     0.005,
		},
		Spinup:  SpinupConfig{MaxYears: DefaultSpinupMaxYears},
		Output:  OutputConfig{Prefix: "ecosim", Annual: []string{"summary.soil_c", "summary.total_c"}},
		Logging: LoggingConfig{Level: "progress", Format: "text"},
	}
}

// DefaultSite is a temperate loam at sea level.
func DefaultSite() bgc.Site {
	return bgc.Site{
		SoilDepth: 1.0,
		Sand:      30,
		Silt:      50,
		Clay:      20,
		Elevation: 100,
		Latitude:  45,
		SWAlbedo:  0.2,
		NDep:      0.0004 / 365,
		NFix:      0.0002 / 365,
		CO2:       380,
	}
}

// Load reads a YAML config over the defaults. A named vegetation preset
// replaces the default constants before any epc block is applied on top.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &bgc.IOError{Op: "read config", Path: path, Err: err}
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var probe struct {
		Vegetation string `yaml:"vegetation"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", bgc.ErrInvalidConfig, err)
	}
	cfg := DefaultConfig()
	if probe.Vegetation != "" {
		epc := GetPreset(probe.Vegetation)
		if epc == nil {
			return nil, fmt.Errorf("%w: unknown vegetation %q", bgc.ErrInvalidConfig, probe.Vegetation)
		}
		cfg.EPC = *epc
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", bgc.ErrInvalidConfig, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &bgc.IOError{Op: "write config", Path: path, Err: err}
	}
	return nil
}

// Validate rejects a configuration before any state is built.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeModel, ModeSpinup, ModeSpinAndGo:
	default:
		return fmt.Errorf("%w: %q", bgc.ErrUnknownMode, c.Mode)
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", bgc.ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", bgc.ErrInvalidConfig, err)
	}
	if err := c.EPC.Check(); err != nil {
		return err
	}
	if texture := c.Site.Sand + c.Site.Silt + c.Site.Clay; texture < 99 || texture > 101 {
		return fmt.Errorf("%w: sand+silt+clay = %g, want 100", bgc.ErrInvalidConfig, texture)
	}
	if c.Restart.KeepMetYear && c.Restart.Read == "" {
		return fmt.Errorf("%w: keep_metyr needs restart.read", bgc.ErrInvalidConfig)
	}
	return nil
}
