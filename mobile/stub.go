//go:build !mobile

// Package mobile 的桌面端占位：绑定代码只在 -tags mobile 时编译，
// 这里保证 go build ./... 和 go vet ./... 在桌面端也能通过。
package mobile

// Dummy 与移动端导出的同名函数保持一致
func Dummy() {}
