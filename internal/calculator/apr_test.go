package calculator

import (
	"aprcalc/internal/domain"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNormalizeApr(t *testing.T) {
	step := DefaultAprStep
	tests := []struct {
		raw  string
		want string
	}{
		{"12.37", "12.25"},
		{"12.5", "12.5"},
		{"0.24", "0"},
		{"0", "0"},
		{"0.25", "0.25"},
		{"45.74999999999999999999999999", "45.5"},
		{"100.00000000000000000000000001", "100"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeApr(tt.raw, step)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	t.Run("fractional step", func(t *testing.T) {
		got, err := NormalizeApr("0.123456789", decimal.RequireFromString("0.0025"))
		require.NoError(t, err)
		require.Equal(t, "0.1225", got)
	})

	t.Run("unparseable input", func(t *testing.T) {
		_, err := NormalizeApr("twelve", step)
		require.ErrorIs(t, err, domain.ErrInvalidNumber)
	})

	t.Run("exponent outside limits", func(t *testing.T) {
		_, err := NormalizeApr("1e-2147483648", step)
		require.ErrorIs(t, err, domain.ErrInvalidNumber)
	})

	t.Run("zero step", func(t *testing.T) {
		_, err := NormalizeApr("12", decimal.Zero)
		require.ErrorIs(t, err, domain.ErrDivisionByZero)
	})

	t.Run("negative apr", func(t *testing.T) {
		_, err := NormalizeApr("-1", step)
		require.ErrorIs(t, err, domain.ErrInvalidNumber)
	})
}

func TestNormalizeDecimal_properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	steps := []decimal.Decimal{
		DefaultAprStep,
		decimal.RequireFromString("0.0025"),
		decimal.RequireFromString("3"),
	}
	for i := 0; i < 500; i++ {
		// up to 8 decimal places of noise on a value below 1000
		x := decimal.New(r.Int63n(100_000_000_000), -8)
		for _, s := range steps {
			n, err := NormalizeDecimal(x, s)
			require.NoError(t, err)

			_, rem := n.QuoRem(s, 0)
			require.True(t, rem.IsZero(), "%s is not a multiple of %s", n, s)
			require.True(t, n.LessThanOrEqual(x), "%s > %s", n, x)
			require.True(t, x.LessThan(n.Add(s)), "%s >= %s + %s", x, n, s)

			again, err := NormalizeDecimal(n, s)
			require.NoError(t, err)
			require.True(t, again.Equal(n))
		}
	}
}

func TestNormalizeAssets(t *testing.T) {
	t.Run("keeps order and raw value", func(t *testing.T) {
		got, err := NormalizeAssets([]domain.Asset{
			{Symbol: "mTSLA", Apr: "31.9"},
			{Symbol: "mBTC", Apr: "4.01"},
		}, DefaultAprStep)
		require.NoError(t, err)

		require.Equal(t, "", cmp.Diff(
			[]domain.NormalizedAsset{
				{Symbol: "mTSLA", RawApr: "31.9", Apr: decimal.RequireFromString("31.75")},
				{Symbol: "mBTC", RawApr: "4.01", Apr: decimal.RequireFromString("4")},
			},
			got,
			cmp.Comparer(func(a, b decimal.Decimal) bool {
				return a.Equal(b)
			}),
		))
	})

	t.Run("bad apr names the asset", func(t *testing.T) {
		_, err := NormalizeAssets([]domain.Asset{{Symbol: "mFB", Apr: ""}}, DefaultAprStep)
		require.ErrorIs(t, err, domain.ErrInvalidNumber)
		require.ErrorContains(t, err, "mFB")
	})
}

func TestSortByAprDesc(t *testing.T) {
	t.Run("sorts exactly and stably", func(t *testing.T) {
		in := []domain.Asset{
			{Symbol: "A", Apr: "0.10000000000000000001"},
			{Symbol: "B", Apr: "0.1"},
			{Symbol: "C", Apr: "0.3"},
			{Symbol: "D", Apr: "0.1"},
		}
		got, err := SortByAprDesc(in)
		require.NoError(t, err)

		symbols := []string{}
		for _, a := range got {
			symbols = append(symbols, a.Symbol)
		}
		require.Equal(t, []string{"C", "A", "B", "D"}, symbols)
		// input untouched
		require.Equal(t, "A", in[0].Symbol)
	})

	t.Run("invalid apr", func(t *testing.T) {
		_, err := SortByAprDesc([]domain.Asset{{Symbol: "A", Apr: "n/a"}})
		require.ErrorIs(t, err, domain.ErrInvalidNumber)
	})
}
