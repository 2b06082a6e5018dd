package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewProductTrimsAndValidates(t *testing.T) {
	t.Parallel()

	p, err := NewProduct("  P-001  ", "store-1", "  Polo básico  ", nil, nil, nil, decimal.NewFromFloat(29.90), 10)
	require.NoError(t, err)
	require.Equal(t, "P-001", p.ID)
	require.Equal(t, "Polo básico", p.Name)
	require.Equal(t, 10, p.Quantity)
	require.True(t, p.Price.Equal(decimal.NewFromFloat(29.90)))
}

func TestProductValidateCollectsAllViolations(t *testing.T) {
	t.Parallel()

	badCategory := -3
	tests := []struct {
		name    string
		product Product
		want    []string
	}{
		{
			name:    "valid product has no violations",
			product: Product{ID: "P-1", Name: "Polo", Price: decimal.NewFromInt(10), Quantity: 1},
			want:    nil,
		},
		{
			name:    "missing id",
			product: Product{Name: "Polo", Price: decimal.NewFromInt(10)},
			want:    []string{"product id is required"},
		},
		{
			name:    "blank name counts as missing",
			product: Product{ID: "P-1", Name: "   ", Price: decimal.NewFromInt(10)},
			want:    []string{"product name is required"},
		},
		{
			name:    "negative price",
			product: Product{ID: "P-1", Name: "Polo", Price: decimal.NewFromInt(-5)},
			want:    []string{"price cannot be negative"},
		},
		{
			name:    "negative quantity",
			product: Product{ID: "P-1", Name: "Polo", Price: decimal.NewFromInt(5), Quantity: -1},
			want:    []string{"quantity cannot be negative"},
		},
		{
			name:    "non-positive category number",
			product: Product{ID: "P-1", Name: "Polo", Price: decimal.NewFromInt(5), CategoryNumber: &badCategory},
			want:    []string{"category number must be positive"},
		},
		{
			name:    "every violation is reported, not just the first",
			product: Product{Price: decimal.NewFromInt(-1), Quantity: -2},
			want: []string{
				"product id is required",
				"product name is required",
				"price cannot be negative",
				"quantity cannot be negative",
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, tc.product.Validate())
		})
	}
}

func TestProductApplyUpdateKeepsOldStateOnFailure(t *testing.T) {
	t.Parallel()

	p, err := NewProduct("P-1", "store-1", "Polo", nil, nil, nil, decimal.NewFromInt(10), 5)
	require.NoError(t, err)

	err = p.ApplyUpdate("", nil, nil, nil, decimal.NewFromInt(-1), -1)
	require.Error(t, err)
	require.Equal(t, "Polo", p.Name)
	require.Equal(t, 5, p.Quantity)
	require.True(t, p.Price.Equal(decimal.NewFromInt(10)))

	err = p.ApplyUpdate("Polo XL", nil, nil, nil, decimal.NewFromInt(12), 8)
	require.NoError(t, err)
	require.Equal(t, "Polo XL", p.Name)
	require.Equal(t, 8, p.Quantity)
}

func TestProductReduceStock(t *testing.T) {
	t.Parallel()

	p := Product{ID: "P-1", Name: "Polo", Price: decimal.NewFromInt(10), Quantity: 10}

	require.True(t, p.HasEnoughStock(10))
	require.False(t, p.HasEnoughStock(11))

	require.NoError(t, p.ReduceStock(3))
	require.Equal(t, 7, p.Quantity)

	// Over-reduction fails and leaves the quantity untouched
	require.Error(t, p.ReduceStock(8))
	require.Equal(t, 7, p.Quantity)

	require.Error(t, p.ReduceStock(0))
	require.Error(t, p.ReduceStock(-1))
	require.Equal(t, 7, p.Quantity)
}
