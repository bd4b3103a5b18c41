package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{in: "doctor@x.com", want: "do***@x.com"},
		{in: "ab@x.com", want: "***@x.com"},
		{in: "no-at-sign", want: "***"},
		{in: "a@b@c", want: "***"},
		{in: "trailing@", want: "***"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Email(tt.in), tt.in)
	}
}
