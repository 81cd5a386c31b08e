// 包 version：构建版本标识，发布时通过 -ldflags 注入
package version

var Version = "dev"
