//go:build !android

package utils

// EnsureStorageDir 桌面和 iOS 上 gdata 会自行创建存储目录，无需处理
func EnsureStorageDir() error {
	return nil
}
