package path

import (
	"os"
	"path/filepath"
	"runtime"
)

// RootPath 傳回專案根目錄的絕對路徑。
// 從原始碼位置回推（/project/utils/path/path.go → /project），找不到 go.mod 時改用工作目錄。
func RootPath() string {
	_, filename, _, ok := runtime.Caller(0)
	if ok {
		root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
		if exists, _ := Exists(filepath.Join(root, "go.mod")); exists {
			return root
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// Resolve 相對路徑以 base 為起點，絕對路徑原樣傳回
func Resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Exists 路径是否存在
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
