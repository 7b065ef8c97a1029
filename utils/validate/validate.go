package validate

import (
	"errors"
	"fmt"
	"strings"

	"formrelay/config"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config 驗證 unmarshal 後的設定，錯誤訊息列出每個欄位與規則
func Config(conf *config.Configuration) error {
	if conf == nil {
		return errors.New("config is nil")
	}
	if err := validate.Struct(conf); err != nil {
		return fmt.Errorf("invalid config: %s", ValidationErrorMessage(err))
	}
	return nil
}

// 輸出格式化的 validator error（欄位路徑/值/規則）
func ValidationErrorMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}
	var b strings.Builder
	b.WriteString("Validation error:")
	for _, fe := range errs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fmt.Fprintf(&b, "\n - Field %q (value: %v) failed the '%s' validation", fieldPath(fe.Namespace()), fe.Value(), rule)
	}
	return b.String()
}

// Configuration.Listener.Port → Listener.Port
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
