// Package embedded 提供对打包进二进制文件的资源的访问
//
// //go:embed 只能访问声明所在包的目录，因此 embed.FS 定义在仓库根目录
// (embed.go)，再通过 Init 传入本包。加载任何内置文件前必须先调用 Init。
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// ErrNotInitialized 在 Init 之前调用任何访问函数时返回
var ErrNotInitialized = errors.New("embedded package not initialized, call Init() first")

const dataPrefix = "data/"

var (
	dataFS      fs.FS
	initialized bool
)

// Init 设置内置文件系统，其中的路径以 "data/" 开头
func Init(data fs.FS) {
	dataFS = data
	initialized = true
}

// IsInitialized 返回是否已调用 Init
func IsInitialized() bool {
	return initialized
}

// clean 统一路径分隔符，去掉 "./" 前缀并检查目录前缀
func clean(path string) (string, error) {
	if !initialized {
		return "", ErrNotInitialized
	}
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")
	if !strings.HasPrefix(path, dataPrefix) {
		return "", fmt.Errorf("unknown resource path prefix: %s (must start with '%s')", path, dataPrefix)
	}
	return path, nil
}

// Open 打开内置文件
func Open(path string) (fs.File, error) {
	path, err := clean(path)
	if err != nil {
		return nil, err
	}
	return dataFS.Open(path)
}

// ReadFile 读取内置文件
func ReadFile(path string) ([]byte, error) {
	path, err := clean(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(dataFS, path)
}

// Exists 检查内置文件是否存在
func Exists(path string) bool {
	f, err := Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// Glob 列出匹配 pattern 的内置文件
func Glob(pattern string) ([]string, error) {
	pattern, err := clean(pattern)
	if err != nil {
		return nil, err
	}
	return fs.Glob(dataFS, pattern)
}
