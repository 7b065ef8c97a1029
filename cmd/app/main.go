package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"reflect"
	"strings"
	"syscall"
	"time"

	"formrelay/config"
	"formrelay/internal/command"
	"formrelay/internal/log"
	"formrelay/utils/path"
	"formrelay/utils/validate"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	_ "formrelay/cmd/docs"
)

var (
	rootPath = path.RootPath()
	envPath  string
	yamlPath string
	conf     *config.Configuration
	logger   *zap.Logger
)

func flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("app", pflag.ExitOnError)
	fs.StringVarP(&envPath, "env", "e", "", "Environment file, e.g. --env .env")
	fs.StringVarP(&yamlPath, "config", "c", "", "YAML config file, e.g. --config config.yaml")
	return fs
}

// @title        formrelay API
// @version      1.0
// @description  靜態頁面與表單轉送服務
// @host         localhost:3000
// @basePath     /
func main() {
	rootCmd := &cobra.Command{
		Use:          "app",
		Short:        "serve static pages and relay form submissions to the datagram listener",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envPath != "" && yamlPath != "" {
				fmt.Println("同時指定 --env 與 --config，將以 --env 優先")
			}
			if err := initConfig(); err != nil {
				return err
			}
			var err error
			logger, err = log.NewLogger(conf)
			if err != nil {
				return fmt.Errorf("init logger failed: %w", err)
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			code := serve()
			_ = logger.Sync()
			if code != 0 {
				os.Exit(code)
			}
		},
	}
	rootCmd.PersistentFlags().AddFlagSet(flags())

	command.Register(rootCmd, func() (*command.Command, func(), error) {
		return wireCommand(conf, logger)
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve() int {
	app, cleanup, err := wireApp(conf, logger)
	if err != nil {
		logger.Error("wire app failed", zap.Error(err))
		return 1
	}
	defer cleanup()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	logger.Info("start app ...")
	if err := app.Run(); err != nil {
		logger.Error("start app failed", zap.Error(err))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.Stop(ctx)
		return 1
	}

	code := 0
	select {
	case <-quit:
	case err := <-app.Done():
		if err != nil {
			logger.Error("gateway stopped unexpectedly", zap.Error(err))
			code = 1
		}
	}

	logger.Info("shutdown app ...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.Stop(ctx); err != nil {
		logger.Error("shutdown app failed", zap.Error(err))
		code = 1
	}
	fmt.Println("Done!")
	return code
}

func initConfig() error {
	v := viper.NewWithOptions(viper.KeyDelimiter("__"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()
	config.SetDefaults(v)

	useFile := false

	if envPath != "" {
		useFile = true
		envPath = path.Resolve(rootPath, envPath)
		fmt.Println("load .env config:", envPath)
		v.SetConfigFile(envPath)
		v.SetConfigType("env")
	} else if yamlPath != "" {
		useFile = true
		yamlPath = path.Resolve(filepath.Join(rootPath, "conf"), yamlPath)
		fmt.Println("load yaml config:", yamlPath)
		v.SetConfigFile(yamlPath)
		v.SetConfigType("yaml")
	} else {
		fmt.Println("No configuration file specified, using environment variables only.")
	}

	if useFile {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config failed: %w", err)
		}
		// 只有 log 層級可於執行中生效，其餘設定需重啟
		v.WatchConfig()
		v.OnConfigChange(func(in fsnotify.Event) {
			fmt.Println("config file changed:", in.Name)
			var next config.Configuration
			if err := v.Unmarshal(&next); err != nil {
				fmt.Println("unmarshal on change failed:", err)
				return
			}
			log.SetLevel(next.Log.Level)
		})
	}

	bindEnvs(v, reflect.TypeOf(config.Configuration{}))

	if err := v.Unmarshal(&conf); err != nil {
		return fmt.Errorf("unmarshal config failed: %w", err)
	}
	return validate.Config(conf)
}

func bindEnvs(v *viper.Viper, t reflect.Type, path ...string) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			tag = field.Name
		}
		newPath := append(append([]string{}, path...), tag)
		if field.Type.Kind() == reflect.Struct || (field.Type.Kind() == reflect.Ptr && field.Type.Elem().Kind() == reflect.Struct) {
			bindEnvs(v, field.Type, newPath...)
		} else {
			_ = v.BindEnv(strings.Join(newPath, "__"))
		}
	}
}
