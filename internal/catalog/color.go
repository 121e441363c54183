package catalog

import (
	"regexp"
	"strconv"
)

// Цвет продукта хранится как четырёхзначный код RAL. На входе принимаем
// "9016", "RAL 9016", "ral9016" и т.п.
var colorRe = regexp.MustCompile(`(?i)(?:ral\s*)?(\d{4})`)

// NormalizeColor извлекает код RAL из пользовательского ввода.
func NormalizeColor(raw string) (int, bool) {
	m := colorRe.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return code, true
}
