// Package sanitize limpia texto libre antes de persistirlo: nombres,
// descripciones y demás campos que luego se muestran en el navegador.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// StrictPolicy es segura para uso concurrente una vez construida.
var strict = bluemonday.StrictPolicy()

// Text elimina todo el markup y devuelve texto plano sin espacios en los extremos.
// Las entidades se decodifican para que "Pérez & Cía" quede tal cual.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Ptr aplica Text sobre un campo opcional.
func Ptr(s *string) *string {
	if s == nil {
		return nil
	}
	v := Text(*s)
	return &v
}
