package config

type App struct {
	// 當前開發環境
	Env string `mapstructure:"ENV" json:"env" yaml:"env"`
	// 服務名稱（同時作為 metric 前綴）
	Name string `mapstructure:"NAME" json:"name" yaml:"name" validate:"required"`
	// 服務版本
	Version        string `mapstructure:"VERSION" json:"version" yaml:"version"`
	SwaggerEnabled bool   `mapstructure:"SWAGGER_ENABLED" json:"swagger_enabled" yaml:"swagger_enabled"`
	PprofEnabled   bool   `mapstructure:"PPROF_ENABLED" json:"pprof_enabled" yaml:"pprof_enabled"`
}

type Log struct {
	// debug / info / warn / error
	Level string `mapstructure:"LEVEL" json:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
}
