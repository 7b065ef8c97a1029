package config

type Configuration struct {
	App       App             `mapstructure:"APP" json:"app" yaml:"app"`
	Log       Log             `mapstructure:"LOG" json:"log" yaml:"log"`
	Gateway   Gateway         `mapstructure:"GATEWAY" json:"gateway" yaml:"gateway"`
	Listener  Listener        `mapstructure:"LISTENER" json:"listener" yaml:"listener"`
	Storage   Storage         `mapstructure:"STORAGE" json:"storage" yaml:"storage"`
	Site      Site            `mapstructure:"SITE" json:"site" yaml:"site"`
	Cron      Cron            `mapstructure:"CRON" json:"cron" yaml:"cron"`
	Redis     Redis           `mapstructure:"REDIS" json:"redis" yaml:"redis"`
	MongoDB   MongoDB         `mapstructure:"MONGODB" json:"mongodb" yaml:"mongodb"`
	Telemetry TelemetryConfig `mapstructure:"TELEMETRY" yaml:"telemetry"`
	Fluentd   Fluentd         `mapstructure:"FLUENTD" yaml:"fluentd"`
}
