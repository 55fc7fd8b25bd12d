//go:build mobile

// embed.go - 移动端关卡嵌入声明
//
// 此文件仅在使用 -tags mobile 构建时编译，
// 构建前需要把 data/levels 复制到 mobile/data/levels（见 mobile.go）。
package mobile

import "embed"

//go:embed data/levels
var dataFS embed.FS
