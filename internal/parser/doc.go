// Package parser 将计分卡表格行转换为击球/投球记录
//
// 所有解析都是纯函数:相同的单元格文本总是得到相同的记录。
// 数值解析失败时取0,从不返回错误。
package parser
