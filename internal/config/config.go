package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no -config flag is given. It may be absent.
const DefaultPath = "navigation-qr.yaml"

type FloorCfg struct {
	Number int    `yaml:"number" json:"number"`
	Graph  string `yaml:"graph" json:"graph"`   // grafo_pisoN.json
	Output string `yaml:"output" json:"output"` // directory receiving QR_<id>.png
}

type QRCfg struct {
	BoxSize  int    `yaml:"box_size" json:"box_size"`
	Recovery string `yaml:"recovery" json:"recovery"` // L | M | Q | H
}

type PosterCfg struct {
	OutputDir   string `yaml:"output_dir" json:"output_dir"`
	ImagePrefix string `yaml:"image_prefix" json:"image_prefix"`
}

type MQTTCfg struct {
	Broker      string `yaml:"broker" json:"broker"`
	ClientID    string `yaml:"client_id" json:"client_id"`
	Username    string `yaml:"username" json:"username"`
	Password    string `yaml:"password" json:"password"`
	TopicPrefix string `yaml:"topic_prefix" json:"topic_prefix"`
	QoS         byte   `yaml:"qos" json:"qos"`
}

type ServerCfg struct {
	Addr string `yaml:"addr" json:"addr"`
}

type LogCfg struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type Config struct {
	BaseDir   string     `yaml:"base_dir" json:"base_dir"`
	Floors    []FloorCfg `yaml:"floors" json:"floors"`
	QR        QRCfg      `yaml:"qr" json:"qr"`
	Posters   PosterCfg  `yaml:"posters" json:"posters"`
	Inventory string     `yaml:"inventory" json:"inventory"`
	Report    string     `yaml:"report" json:"report"`
	MQTT      MQTTCfg    `yaml:"mqtt" json:"mqtt"`
	Server    ServerCfg  `yaml:"server" json:"server"`
	Log       LogCfg     `yaml:"log" json:"log"`
}

// Default returns the layout of the app repository: four floors under lib/data.
func Default() *Config {
	cfg := &Config{
		BaseDir: ".",
		QR:      QRCfg{BoxSize: 10, Recovery: "H"},
		Posters: PosterCfg{
			OutputDir:   "Formato_codigos_QR",
			ImagePrefix: "../qr_codes",
		},
		Inventory: "qr_codes/inventario.xlsx",
		Report:    "qr_codes/reporte.json",
		MQTT: MQTTCfg{
			Broker:      "tcp://localhost:1883",
			ClientID:    "navigation-qr",
			TopicPrefix: "umag/navegacion/qr",
			QoS:         1,
		},
		Server: ServerCfg{Addr: ":8080"},
		Log:    LogCfg{Level: "info", Format: "console"},
	}
	for n := 1; n <= 4; n++ {
		cfg.Floors = append(cfg.Floors, FloorCfg{
			Number: n,
			Graph:  fmt.Sprintf("lib/data/grafo_piso%d.json", n),
			Output: fmt.Sprintf("qr_codes/piso%d", n),
		})
	}
	return cfg
}

// Load reads path on top of the defaults and applies environment overrides.
// A missing file at DefaultPath is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath
	}
	f, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(f, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
	default:
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

func decode(f []byte, cfg *Config) error {
	yamlErr := yaml.Unmarshal(f, cfg)
	if yamlErr == nil {
		return nil
	}
	// fallback JSON
	if err := json.Unmarshal(f, cfg); err != nil {
		return fmt.Errorf("%w (json fallback: %v)", yamlErr, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.BaseDir = getEnv("QR_BASE_DIR", c.BaseDir)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	c.MQTT.Broker = getEnv("MQTT_BROKER", c.MQTT.Broker)
	c.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", c.MQTT.ClientID)
	c.MQTT.TopicPrefix = getEnv("MQTT_TOPIC_PREFIX", c.MQTT.TopicPrefix)
	c.Server.Addr = getEnv("SERVER_ADDR", c.Server.Addr)
	if v, err := strconv.Atoi(getEnv("QR_BOX_SIZE", "")); err == nil && v > 0 {
		c.QR.BoxSize = v
	}
}

// Floor returns the configuration of floor n.
func (c *Config) Floor(n int) (FloorCfg, bool) {
	for _, f := range c.Floors {
		if f.Number == n {
			return f, true
		}
	}
	return FloorCfg{}, false
}

// FloorNumbers lists the configured floors in declaration order.
func (c *Config) FloorNumbers() []int {
	out := make([]int, 0, len(c.Floors))
	for _, f := range c.Floors {
		out = append(out, f.Number)
	}
	return out
}

// Resolve makes p relative to the base directory unless it is absolute.
func (c *Config) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
