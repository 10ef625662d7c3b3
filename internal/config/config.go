package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the optional config file read at startup.
const DefaultPath = "dashboard.yaml"

type Config struct {
	Addr        string `yaml:"addr"`
	DataPath    string `yaml:"data_path"`
	IDColumn    string `yaml:"id_column"`
	Debug       bool   `yaml:"debug"`
	Title       string `yaml:"title"`
	ImageWidth  int    `yaml:"image_width"`
	ImageHeight int    `yaml:"image_height"`
}

func Default() Config {
	return Config{
		Addr:        ":8050",
		DataPath:    "CarPrice.csv",
		IDColumn:    "car_ID",
		Debug:       true,
		Title:       "Car Price Visualization",
		ImageWidth:  640,
		ImageHeight: 480,
	}
}

// Load returns the defaults overlaid with the YAML file at path.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return errors.New("config: addr is empty")
	case c.DataPath == "":
		return errors.New("config: data_path is empty")
	case c.ImageWidth <= 0 || c.ImageHeight <= 0:
		return fmt.Errorf("config: invalid image size %dx%d", c.ImageWidth, c.ImageHeight)
	}
	return nil
}
