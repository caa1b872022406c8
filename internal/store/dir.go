// 包 store 管理每个用户的本地数据目录（<DATA_DIR>/<user_id>），
// 每次运行开始时清空重建，保证目录内只有本次运行的结果。
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Dir 为单个用户的数据目录。
type Dir struct {
	path string
}

// Open 返回 root/userID 对应的目录句柄，不做任何文件操作。
func Open(root, userID string) (*Dir, error) {
	if userID == "" || userID != filepath.Base(userID) || userID == "." || userID == ".." {
		return nil, fmt.Errorf("invalid user id %q for data dir", userID)
	}
	return &Dir{path: filepath.Join(root, userID)}, nil
}

// Path 返回目录路径。
func (d *Dir) Path() string { return d.path }

// ResetAndPrepare 目录存在时先删除全部文件、再由深到浅删除子目录；
// 不存在时创建。重复调用结果相同：一个已存在的空目录。
func (d *Dir) ResetAndPrepare() error {
	fi, err := os.Stat(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(d.path, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", d.path, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", d.path, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s exists and is not a directory", d.path)
	}

	var dirs []string
	err = filepath.WalkDir(d.path, func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == d.path {
			return nil
		}
		if e.IsDir() {
			dirs = append(dirs, p)
			return nil
		}
		// 非目录（含符号链接）一律按文件删除
		if err := os.Remove(p); err != nil {
			return fmt.Errorf("remove file %s: %w", p, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clean %s: %w", d.path, err)
	}
	// 先深后浅：子目录清空后父目录才能删除
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })
	for _, p := range dirs {
		if err := os.Remove(p); err != nil {
			return fmt.Errorf("remove dir %s: %w", p, err)
		}
	}
	return nil
}
