package config

// Gateway HTTP 入口設定
type Gateway struct {
	// 綁定位址，預設 0.0.0.0
	Host string `mapstructure:"HOST" json:"host" yaml:"host"`
	// 服務端口
	Port uint32 `mapstructure:"PORT" json:"port" yaml:"port" validate:"required,min=1,max=65535"`
	// 轉送 datagram 的逾時（毫秒）
	SendTimeout int64 `mapstructure:"SEND_TIMEOUT" json:"send_timeout" yaml:"send_timeout" validate:"min=0"`
	// 靜態資源回應是否壓縮（br / zstd / gzip）
	Compression bool     `mapstructure:"COMPRESSION" json:"compression" yaml:"compression"`
	CorsOrigins []string `mapstructure:"CORS_ORIGINS" json:"cors_origins" yaml:"cors_origins"`
}

// Site 靜態檔案來源
type Site struct {
	// 根目錄（相對於工作目錄）
	Root     string `mapstructure:"ROOT" json:"root" yaml:"root" validate:"required"`
	Home     string `mapstructure:"HOME" json:"home" yaml:"home" validate:"required"`
	Message  string `mapstructure:"MESSAGE" json:"message" yaml:"message" validate:"required"`
	NotFound string `mapstructure:"NOT_FOUND" json:"not_found" yaml:"not_found" validate:"required"`
	// 不對外提供的路徑前綴（相對於 Root）
	Hidden []string `mapstructure:"HIDDEN" json:"hidden" yaml:"hidden"`
}
