// Package render 把看板状态转换为页面片段。所有用户输入在拼接前必须经过 Escape。
package render

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Escape 转义 & < > " ' 五个字符
func Escape(text string) string {
	return htmlEscaper.Replace(text)
}

// multiline 转义后把换行替换为 <br>
func multiline(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(Escape(text), "\n", "<br>")
}
