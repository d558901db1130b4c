package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/foodcart/internal/core/domain"
)

func TestPromoBookResolve(t *testing.T) {
	book := DefaultPromoBook()

	tests := []struct {
		name    string
		code    string
		want    float64
		wantErr error
	}{
		{name: "empty code", code: "", want: 0},
		{name: "blank code", code: "   ", want: 0},
		{name: "percentage", code: "WELCOME10", want: 4},
		{name: "case and spaces ignored", code: " welcome10 ", want: 4},
		{name: "flat", code: "SAVE5", want: 5},
		{name: "unknown", code: "FREEFOOD", wantErr: domain.ErrInvalidPromoCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := book.Resolve(tt.code, 40)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, got)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
