package sanitize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/domka/erp-api/pkg/sanitize"
)

func TestText(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"  Ana Pérez  ", "Ana Pérez"},
		{"Pérez & Cía", "Pérez & Cía"},
		{"<b>Hola</b> mundo", "Hola mundo"},
		{`<img src=x onerror="alert(1)">ACME`, "ACME"},
		{"<script>alert('x')</script>Cliente", "Cliente"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, sanitize.Text(tc.in), tc.in)
	}
}

func TestPtr(t *testing.T) {
	assert.Nil(t, sanitize.Ptr(nil))
	v := "<i>x</i>"
	assert.Equal(t, "x", *sanitize.Ptr(&v))
}
