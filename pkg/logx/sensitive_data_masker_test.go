package logx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nexaway/pkg/logx"
)

func TestSensitiveDataMaskerMask(t *testing.T) {
	rq := require.New(t)

	masker := logx.NewSensitiveDataMasker()

	testCases := []struct {
		name   string
		input  []byte
		output []byte
	}{
		{
			name:   "Bearer token",
			input:  []byte("Authorization: Bearer abc.def.ghi\r\n"),
			output: []byte("Authorization: Bearer [MASKED]\r\n"),
		},
		{
			name:   "Password field",
			input:  []byte(`{"password": "qwerty123"}`),
			output: []byte(`{"password": "[MASKED]"}`),
		},
		{
			name:   "Customer email",
			input:  []byte(`{"customerEmail": "sami@mail.tn","rating":5}`),
			output: []byte(`{"customerEmail": "[MASKED]","rating":5}`),
		},
		{
			name:   "Customer name",
			input:  []byte(`{"customerName": "Sami Ben Salah"}`),
			output: []byte(`{"customerName": "[MASKED]"}`),
		},
		{
			name:   "Agency phone",
			input:  []byte(`{"phone": "+21627123456"}`),
			output: []byte(`{"phone": "[MASKED]"}`),
		},
		{
			name:   "Nothing sensitive",
			input:  []byte(`{"taxId":"12345678A","governorate":"Tunis"}`),
			output: []byte(`{"taxId":"12345678A","governorate":"Tunis"}`),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.Equal(tc.output, masker.Mask(tc.input))
		})
	}
}
