package kernel

import (
	"encoding/json"
	"os"

	"github.com/g8rtos/kernel/lib/errors"
)

// Config holds the static capacity limits the original G8RTOS kernel bakes
// in as compile-time #defines (MAX_THREADS, MAX_PTHREADS, STACKSIZE, ...).
// All kernel storage is allocated once from this struct and never resized,
// matching spec.md's "no dynamic memory allocation" non-goal.
type Config struct {
	MaxThreads    int `json:"maxThreads"`
	MaxPThreads   int `json:"maxPThreads"`
	MaxFIFOs      int `json:"maxFIFOs"`
	FIFOCapacity  int `json:"fifoCapacity"`
	StackWords    int `json:"stackWords"`
	TickRateHertz int `json:"tickRateHertz"`
	MaxNameLength int `json:"maxNameLength"`
}

// DefaultConfig mirrors the original firmware's #define values
// (MAX_THREADS 24, MAX_PTHREADS 6, STACKSIZE 275, FIFO_SIZE 16,
// MAX_NUMBER_OF_FIFOS 5), plus a 1kHz tick rate per spec.md §4.4.
func DefaultConfig() Config {
	return Config{
		MaxThreads:    24,
		MaxPThreads:   6,
		MaxFIFOs:      5,
		FIFOCapacity:  16,
		StackWords:    275,
		TickRateHertz: 1000,
		MaxNameLength: 16,
	}
}

// Validate checks every capacity is usable. It aggregates all violations
// into a single combined error rather than failing on the first, since
// config mistakes are typically caught all at once during startup review.
func (c Config) Validate() error {
	var errs error
	if c.MaxThreads <= 0 {
		errs = errors.Append(errs, errors.New("maxThreads must be positive"))
	}
	if c.MaxPThreads <= 0 {
		errs = errors.Append(errs, errors.New("maxPThreads must be positive"))
	}
	if c.MaxFIFOs <= 0 {
		errs = errors.Append(errs, errors.New("maxFIFOs must be positive"))
	}
	if c.FIFOCapacity <= 0 {
		errs = errors.Append(errs, errors.New("fifoCapacity must be positive"))
	}
	if c.StackWords <= 0 {
		errs = errors.Append(errs, errors.New("stackWords must be positive"))
	}
	if c.TickRateHertz <= 0 {
		errs = errors.Append(errs, errors.New("tickRateHertz must be positive"))
	}
	if c.MaxNameLength < 1 {
		errs = errors.Append(errs, errors.New("maxNameLength must be at least 1"))
	}
	return errs
}

// LoadConfig reads JSON config from path, falling back to DefaultConfig for
// an empty path, and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "reading kernel config")
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parsing kernel config")
	}
	return cfg, cfg.Validate()
}
