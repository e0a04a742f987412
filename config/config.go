package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/hjson"
	"github.com/knadh/koanf/providers/cliflagv2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v2"
)

const (
	configDir  = "bluezero"
	configFile = "bluezero.conf"
)

// Config describes the configuration for the app.
type Config struct {
	path string

	Values Values
}

// NewConfig returns a new configuration.
func NewConfig() *Config {
	return &Config{}
}

// Load loads the default values, the configuration file and the command-line flags,
// in that order. If cliCtx is nil, only the defaults and the file are loaded.
func (c *Config) Load(k *koanf.Koanf, cliCtx *cli.Context) error {
	for key, value := range defaultValues() {
		if err := k.Set(key, value); err != nil {
			return err
		}
	}

	if err := c.createConfigDir(); err != nil {
		return err
	}

	cfgfile, err := c.FilePath(configFile)
	if err != nil {
		return err
	}

	if err := k.Load(file.Provider(cfgfile), hjson.Parser()); err != nil {
		return fmt.Errorf("%s: %w", cfgfile, err)
	}

	if cliCtx != nil {
		// required for koanf to merge all flags under the root namespace.
		for _, ctx := range cliCtx.Lineage() {
			if ctx.Command != nil {
				ctx.Command.Name = "global"
			}
		}

		if err := k.Load(cliflagv2.Provider(cliCtx, "."), nil); err != nil {
			return err
		}
	}

	return k.UnmarshalWithConf("", &c.Values, koanf.UnmarshalConf{Tag: "koanf"})
}

// ValidateValues validates the configuration values.
func (c *Config) ValidateValues() error {
	return c.Values.validateValues()
}

// ValidateSessionValues validates all configuration values that require a Bluez connection.
func (c *Config) ValidateSessionValues(finder AdapterFinder) error {
	return c.Values.validateSessionValues(finder)
}

// Dir returns the configuration directory that was selected by Load.
func (c *Config) Dir() string {
	return c.path
}

// createConfigDir selects the first existing bluezero configuration directory,
// and creates one if none of the candidates exist.
func (c *Config) createConfigDir() error {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot locate the bluezero configuration directory: %w", err)
	}

	var candidates []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, configDir))
	}
	candidates = append(candidates,
		filepath.Join(homedir, ".config", configDir),
		filepath.Join(homedir, "."+configDir),
	)

	for _, dir := range candidates {
		if _, err := os.Stat(filepath.Clean(dir)); err == nil {
			c.path = dir
			return nil
		}
	}

	var errs []error
	for _, dir := range candidates {
		err := os.Mkdir(dir, os.ModePerm)
		if err == nil {
			c.path = dir
			return nil
		}

		errs = append(errs, err)
	}

	return fmt.Errorf("the bluezero configuration directory could not be created: %w", errors.Join(errs...))
}

// FilePath returns the absolute path for the given configuration file,
// creating an empty file if it does not exist.
func (c *Config) FilePath(configFile string) (string, error) {
	confPath := filepath.Join(c.path, configFile)

	if _, err := os.Stat(confPath); err != nil {
		fd, err := os.Create(confPath)
		if err != nil {
			return "", fmt.Errorf("cannot create the bluezero configuration file %s: %w", confPath, err)
		}
		fd.Close()
	}

	return confPath, nil
}

// GenerateAndSave writes the current configuration to the configuration file.
func (c *Config) GenerateAndSave(currentCfg *koanf.Koanf) error {
	data, err := hjson.Parser().Marshal(currentCfg.All())
	if err != nil {
		return err
	}

	conf, err := c.FilePath(configFile)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(conf, os.O_WRONLY|os.O_TRUNC, os.ModePerm)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return err
	}

	return f.Sync()
}
