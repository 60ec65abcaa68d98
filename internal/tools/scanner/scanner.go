// Package scanner 递归扫描本地（或挂载的网络）目录，收集知识库文件。
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Scan 递归遍历目录，按遍历顺序返回所有文件的完整路径。
// 路径不存在或不是目录时返回错误，由调用边界拍平为提示字符串。
func Scan(dirPath string) ([]string, error) {
	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("The directory '%s' does not exist.", dirPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat '%s': %w", dirPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("'%s' is not a directory.", dirPath)
	}

	var files []string
	err = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk '%s': %w", dirPath, err)
	}

	return files, nil
}
