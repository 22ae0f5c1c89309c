package numbering

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Derived date token names
const (
	TokenYear      = "YYYY"
	TokenShortYear = "YY"
	TokenMonth     = "MM"
	TokenDay       = "DD"
	TokenRomanMon  = "MONTH"
)

var (
	wordTokenPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)
	seqTokenPattern  = regexp.MustCompile(`\{SEQ:(\d+)\}`)
	anyTokenPattern  = regexp.MustCompile(`\{SEQ:\d+\}|\{[A-Za-z0-9_]+\}`)
)

var romanMonths = [12]string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X", "XI", "XII"}

// TokenContext maps upper-cased token names to their values
type TokenContext map[string]string

// NewTokenContext copies the caller-supplied values, normalizing every key to
// upper case, and injects the date tokens derived from now.
func NewTokenContext(values map[string]string, now time.Time) TokenContext {
	ctx := make(TokenContext, len(values)+5)
	for k, v := range values {
		ctx[strings.ToUpper(k)] = v
	}
	ctx[TokenYear] = fmt.Sprintf("%04d", now.Year())
	ctx[TokenShortYear] = fmt.Sprintf("%02d", now.Year()%100)
	ctx[TokenMonth] = fmt.Sprintf("%02d", int(now.Month()))
	ctx[TokenDay] = fmt.Sprintf("%02d", now.Day())
	ctx[TokenRomanMon] = RomanMonth(int(now.Month()))
	return ctx
}

// RomanMonth returns the upper-case Roman numeral of a month (1..12), or ""
// for anything outside that range.
func RomanMonth(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return romanMonths[month-1]
}

// ExpandTokens replaces {WORD} tokens from ctx and {SEQ:n} tokens with seq
// zero-padded to n digits. Words starting with SEQ are never resolved from
// ctx, and substituted values are not rescanned, so a context value that
// looks like a token is emitted verbatim. Unknown words are left as written.
func ExpandTokens(format string, ctx TokenContext, seq int64) string {
	return anyTokenPattern.ReplaceAllStringFunc(format, func(m string) string {
		if sub := seqTokenPattern.FindStringSubmatch(m); sub != nil {
			width, err := strconv.Atoi(sub[1])
			if err != nil || width > MaxSequenceWidth {
				return m
			}
			return fmt.Sprintf("%0*d", width, seq)
		}
		word := strings.ToUpper(m[1 : len(m)-1])
		if strings.HasPrefix(word, "SEQ") {
			return m
		}
		if v, ok := ctx[word]; ok {
			return v
		}
		return m
	})
}

// UnresolvedTokens lists the {WORD} tokens of format that ctx cannot resolve
func UnresolvedTokens(format string, ctx TokenContext) []string {
	var missing []string
	for _, m := range wordTokenPattern.FindAllStringSubmatch(format, -1) {
		word := strings.ToUpper(m[1])
		if strings.HasPrefix(word, "SEQ") {
			continue
		}
		if _, ok := ctx[word]; !ok {
			missing = append(missing, m[1])
		}
	}
	return missing
}
