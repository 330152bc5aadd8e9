package profile

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BENCH_"

// LookupFunc reports the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// LoadEnv loads the given .env files into the process environment and applies
// the overrides found there to p. Variables already set in the environment
// take precedence over the files. Without files only the environment is used.
func (p *Profile) LoadEnv(files ...string) error {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return &LoadError{Message: "failed to load env file", Cause: err}
		}
	}

	return p.ApplyEnv(os.LookupEnv)
}

// ReadEnv applies the overrides in the given .env files to p without
// touching the process environment.
func (p *Profile) ReadEnv(files ...string) error {
	vars, err := godotenv.Read(files...)
	if err != nil {
		return &LoadError{Message: "failed to read env file", Cause: err}
	}

	return p.ApplyEnv(func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	})
}

// ApplyEnv applies the BENCH_ overrides reported by lookup. A channel source
// override replaces both source levels of that channel.
func (p *Profile) ApplyEnv(lookup LookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(EnvPrefix + key)
		return v, ok && v != ""
	}

	if v, ok := get("PSU_SERIAL"); ok {
		p.PSU.Serial = v
	}
	if v, ok := get("PSU_MULTIMETER_MODE"); ok {
		p.PSU.MultimeterMode = v
	}
	if v, ok := get("PSU_MULTIMETER_SIGNAL"); ok {
		p.PSU.MultimeterSignal = v
	}
	if err := envDuration(get, "PSU_TIMEOUT", &p.PSU.Timeout); err != nil {
		return err
	}
	if err := envFloat(get, "PSU_CONSTANT_VOLTAGE_OUTPUT", &p.PSU.ConstantVoltage); err != nil {
		return err
	}
	if err := envFloat(get, "PSU_CONSTANT_CURRENT_OUTPUT", &p.PSU.ConstantCurrent); err != nil {
		return err
	}

	if v, ok := get("SMU_SERIAL"); ok {
		p.SMU.Serial = v
	}
	if err := envDuration(get, "SMU_TIMEOUT", &p.SMU.Timeout); err != nil {
		return err
	}
	for n := 1; n <= 3; n++ {
		prefix := fmt.Sprintf("SMU_CH_%d_", n)

		var v, i *float64
		if err := envFloat(get, prefix+"SOURCE_VOLTAGE", &v); err != nil {
			return err
		}
		if err := envFloat(get, prefix+"SOURCE_CURRENT", &i); err != nil {
			return err
		}
		if v != nil || i != nil {
			ch := p.SMU.channel(n)
			ch.SourceVoltage, ch.SourceCurrent = v, i
		}
	}

	return nil
}

// channel returns the configuration of channel n, appending one if the
// profile has none.
func (s *SMU) channel(n int) *Channel {
	for i := range s.Channels {
		if s.Channels[i].Channel == n {
			return &s.Channels[i]
		}
	}
	s.Channels = append(s.Channels, Channel{Channel: n})

	return &s.Channels[len(s.Channels)-1]
}

func envFloat(get func(string) (string, bool), key string, dst **float64) error {
	v, ok := get(key)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return &LoadError{Message: EnvPrefix + key, Cause: err}
	}
	*dst = &f

	return nil
}

func envDuration(get func(string) (string, bool), key string, dst *time.Duration) error {
	v, ok := get(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return &LoadError{Message: EnvPrefix + key, Cause: err}
	}
	*dst = d

	return nil
}
