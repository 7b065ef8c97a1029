package config

type Redis struct {
	Enabled  bool   `mapstructure:"ENABLED" json:"enabled" yaml:"enabled"`
	Host     string `mapstructure:"HOST" json:"host" yaml:"host"`
	Port     int    `mapstructure:"PORT" json:"port" yaml:"port"`
	Password string `mapstructure:"PASSWORD" json:"password" yaml:"password"`
	DB       int    `mapstructure:"DB" json:"db" yaml:"db"`
	// 新增紀錄時 PUBLISH 的頻道
	Channel string `mapstructure:"CHANNEL" json:"channel" yaml:"channel"`
}
