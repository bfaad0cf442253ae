package linz

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// Config bounds how a Verifier generates and runs trial scenarios
// (spec.md §6, §9). MaxThreads/MaxOpsPerThread bound a single
// scenario's shape; Trials and Seed are linz's own additions, since
// the harness needs a trial count and a reproducible starting seed
// that spec.md's table doesn't name.
type Config struct {
	MaxThreads      int   `toml:"max_threads"`
	MaxOpsPerThread int   `toml:"max_ops_per_thread"`
	Trials          int   `toml:"trials"`
	Seed            int64 `toml:"seed"`
}

// DefaultConfig matches spec.md §6's table: two threads, five
// operations per thread, with a conservative trial count and a fixed
// seed so an unconfigured run is still reproducible.
func DefaultConfig() Config {
	return Config{
		MaxThreads:      2,
		MaxOpsPerThread: 5,
		Trials:          1000,
		Seed:            1,
	}
}

// LoadConfig decodes a TOML document into a Config seeded with
// DefaultConfig's values, so a partial document only overrides the
// fields it mentions, mirroring the teacher's parseSpec/
// LoadSpecFromFile "parse then fill in defaults" shape.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("linz: decode config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile opens path and decodes it via LoadConfig.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("linz: open config file: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}
