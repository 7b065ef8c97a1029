package config

// Listener UDP 接收端設定
type Listener struct {
	Host string `mapstructure:"HOST" json:"host" yaml:"host" validate:"required"`
	Port uint32 `mapstructure:"PORT" json:"port" yaml:"port" validate:"required,min=1,max=65535"`
	// 單一 datagram 的接收上限；超過的部分會被傳輸層截斷
	MaxDatagramSize int `mapstructure:"MAX_DATAGRAM_SIZE" json:"max_datagram_size" yaml:"max_datagram_size" validate:"min=1,max=65507"`
	// mirror（fluentd / mongo / redis）單筆逾時（毫秒）
	MirrorTimeout int64 `mapstructure:"MIRROR_TIMEOUT" json:"mirror_timeout" yaml:"mirror_timeout" validate:"min=0"`
}

type Storage struct {
	// JSON log document 路徑
	Path string `mapstructure:"PATH" json:"path" yaml:"path" validate:"required"`
}

type Cron struct {
	// 統計 job 的排程（含秒），空字串代表停用
	StatsSpec string `mapstructure:"STATS_SPEC" json:"stats_spec" yaml:"stats_spec"`
}
