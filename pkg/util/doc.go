// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xsys: OS 线程命名等系统适配能力
//
// 设计原则：
//   - 平台差异通过 build tag 隔离，对外暴露一致的校验与错误
//   - 不支持的能力显式返回 ErrUnsupported，调用方决定是否降级
package util
