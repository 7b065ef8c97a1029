package config

import (
	"net"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// 預設值（鍵以 "__" 分隔，對應環境變數名稱）
var defaults = map[string]any{
	"APP__ENV":                    "local",
	"APP__NAME":                   "formrelay",
	"APP__VERSION":                "1.0.0",
	"LOG__LEVEL":                  "info",
	"GATEWAY__HOST":               "0.0.0.0",
	"GATEWAY__PORT":               3000,
	"GATEWAY__SEND_TIMEOUT":       1000,
	"GATEWAY__CORS_ORIGINS":       []string{"*"},
	"LISTENER__HOST":              "127.0.0.1",
	"LISTENER__PORT":              5000,
	"LISTENER__MAX_DATAGRAM_SIZE": 1024,
	"LISTENER__MIRROR_TIMEOUT":    2000,
	"STORAGE__PATH":               "storage/data.json",
	"SITE__ROOT":                  "public",
	"SITE__HOME":                  "index.html",
	"SITE__MESSAGE":               "message.html",
	"SITE__NOT_FOUND":             "error.html",
	"SITE__HIDDEN":                []string{"storage", "conf"},
	"CRON__STATS_SPEC":            "0 */5 * * * *",
	"REDIS__PORT":                 6379,
	"REDIS__CHANNEL":              "formrelay.submissions",
	"MONGODB__DATABASE":           "formrelay",
	"MONGODB__COLLECTION":         "submissions",
	"FLUENTD__PORT":               24224,
	"FLUENTD__TAG_PREFIX":         "formrelay",
	"TELEMETRY__METRIC__ENABLED":  true,
}

// SetDefaults 將預設值註冊到 viper（需在 Unmarshal 之前呼叫）
func SetDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// Default 回傳只含預設值的設定，主要給測試與子命令使用
func Default() *Configuration {
	v := viper.NewWithOptions(viper.KeyDelimiter("__"))
	SetDefaults(v)
	var conf Configuration
	if err := v.Unmarshal(&conf); err != nil {
		panic(err)
	}
	return &conf
}

// Addr HTTP 綁定位址
func (g Gateway) Addr() string {
	return net.JoinHostPort(g.Host, strconv.FormatUint(uint64(g.Port), 10))
}

func (g Gateway) SendTimeoutDuration() time.Duration {
	return time.Duration(g.SendTimeout) * time.Millisecond
}

// Addr UDP 綁定位址；gateway 亦以此為轉送目標
func (l Listener) Addr() string {
	return net.JoinHostPort(l.Host, strconv.FormatUint(uint64(l.Port), 10))
}

func (l Listener) MirrorTimeoutDuration() time.Duration {
	return time.Duration(l.MirrorTimeout) * time.Millisecond
}
