package config

type MongoDB struct {
	Enabled    bool   `mapstructure:"ENABLED" json:"enabled" yaml:"enabled"`
	URI        string `mapstructure:"URI" json:"uri" yaml:"uri" validate:"required_if=Enabled true"`
	Options    string `mapstructure:"OPTIONS" json:"options" yaml:"options"`
	Database   string `mapstructure:"DATABASE" json:"database" yaml:"database"`
	Collection string `mapstructure:"COLLECTION" json:"collection" yaml:"collection"`
}
