package numbering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRomanMonth(t *testing.T) {
	tests := []struct {
		month int
		want  string
	}{
		{1, "I"},
		{4, "IV"},
		{9, "IX"},
		{12, "XII"},
		{0, ""},
		{13, ""},
		{-1, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RomanMonth(tt.month), "month %d", tt.month)
	}
}

func TestNewTokenContext(t *testing.T) {
	now := time.Date(2024, time.March, 7, 10, 0, 0, 0, time.UTC)

	t.Run("normalizes keys and injects date tokens", func(t *testing.T) {
		ctx := NewTokenContext(map[string]string{"site": "JKT", "Dept": "FIN"}, now)

		assert.Equal(t, "JKT", ctx["SITE"])
		assert.Equal(t, "FIN", ctx["DEPT"])
		assert.Equal(t, "2024", ctx[TokenYear])
		assert.Equal(t, "24", ctx[TokenShortYear])
		assert.Equal(t, "03", ctx[TokenMonth])
		assert.Equal(t, "07", ctx[TokenDay])
		assert.Equal(t, "III", ctx[TokenRomanMon])
	})

	t.Run("derived date tokens win over supplied values", func(t *testing.T) {
		ctx := NewTokenContext(map[string]string{"yyyy": "1999"}, now)
		assert.Equal(t, "2024", ctx[TokenYear])
	})

	t.Run("nil values", func(t *testing.T) {
		ctx := NewTokenContext(nil, now)
		assert.Len(t, ctx, 5)
	})

	t.Run("short year keeps leading zero", func(t *testing.T) {
		ctx := NewTokenContext(nil, time.Date(2005, time.December, 31, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, "05", ctx[TokenShortYear])
		assert.Equal(t, "XII", ctx[TokenRomanMon])
	})
}

func TestExpandTokens(t *testing.T) {
	ctx := NewTokenContext(map[string]string{"site": "JKT"}, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name   string
		format string
		seq    int64
		want   string
	}{
		{"date and padded sequence", "INV/{YYYY}/{MM}/{SEQ:4}", 7, "INV/2024/01/0007"},
		{"roman month", "PO/{MONTH}/{YY}/{SEQ:3}", 12, "PO/I/24/012"},
		{"custom context token", "{SITE}-{SEQ:2}", 3, "JKT-03"},
		{"lowercase token resolves via upper-case lookup", "{site}-{SEQ:2}", 3, "JKT-03"},
		{"unknown token left literal", "{BRANCH}/{SEQ:2}", 1, "{BRANCH}/01"},
		{"value wider than pad is not truncated", "{SEQ:2}", 12345, "12345"},
		{"multiple seq tokens", "{SEQ:2}-{SEQ:4}", 5, "05-0005"},
		{"no tokens", "STATIC", 9, "STATIC"},
		{"width beyond maximum left literal", "{SEQ:19}", 1, "{SEQ:19}"},
		{"bare SEQ word untouched", "{SEQ}-{SEQ:1}", 4, "{SEQ}-4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandTokens(tt.format, ctx, tt.seq))
		})
	}
}

func TestExpandTokens_NoDoubleSubstitution(t *testing.T) {
	// A context value that looks like a sequence token must come out verbatim.
	ctx := TokenContext{"REF": "{SEQ:3}", "SEQ": "x"}
	assert.Equal(t, "{SEQ:3}-001", ExpandTokens("{REF}-{SEQ:3}", ctx, 1))
}

func TestUnresolvedTokens(t *testing.T) {
	ctx := TokenContext{"SITE": "JKT", TokenYear: "2024"}

	assert.Empty(t, UnresolvedTokens("{SITE}/{YYYY}/{SEQ:4}", ctx))
	assert.Equal(t, []string{"Branch", "DEPT"}, UnresolvedTokens("{Branch}/{DEPT}/{site}/{SEQ:4}", ctx))
}
