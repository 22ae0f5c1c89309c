// Package numbering contains the document numbering domain: numbering
// templates, token expansion and the counter-key rules that scope a sequence.
package numbering

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/erp/docengine/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxSequenceWidth bounds the padding width accepted in a {SEQ:n} token
const MaxSequenceWidth = 18

var (
	docCodePattern   = regexp.MustCompile(`^[A-Za-z0-9_-]{1,50}$`)
	ruleFieldPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// DocumentTemplate is the numbering configuration of one document code.
// Templates are maintained by configuration management; the engine only reads them.
type DocumentTemplate struct {
	ID           uuid.UUID
	DocCode      string
	FormatString string
	ResetRule    string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewDocumentTemplate creates a validated template
func NewDocumentTemplate(docCode, formatString, resetRule string, isActive bool) (*DocumentTemplate, error) {
	now := time.Now()
	t := &DocumentTemplate{
		ID:           uuid.New(),
		DocCode:      strings.TrimSpace(docCode),
		FormatString: formatString,
		ResetRule:    strings.TrimSpace(resetRule),
		IsActive:     isActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the template definition
func (t *DocumentTemplate) Validate() error {
	if !docCodePattern.MatchString(t.DocCode) {
		return shared.NewDomainError(shared.CodeInvalidInput,
			"Document code must be 1-50 characters of letters, digits, '-' or '_'")
	}
	if strings.TrimSpace(t.FormatString) == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Format string cannot be empty")
	}

	matches := seqTokenPattern.FindAllStringSubmatch(t.FormatString, -1)
	if len(matches) == 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Format string must contain a {SEQ:n} token")
	}
	for _, m := range matches {
		width, err := strconv.Atoi(m[1])
		if err != nil || width < 1 || width > MaxSequenceWidth {
			return shared.NewDomainError(shared.CodeInvalidInput,
				"Sequence width must be between 1 and "+strconv.Itoa(MaxSequenceWidth))
		}
	}

	if t.ResetRule != "" {
		for _, raw := range strings.Split(t.ResetRule, ",") {
			field := strings.TrimSpace(raw)
			if !ruleFieldPattern.MatchString(field) {
				return shared.NewDomainError(shared.CodeInvalidInput,
					"Reset rule entries must be non-empty words, got "+strconv.Quote(raw))
			}
		}
	}
	return nil
}

// Update replaces the definition of the template and revalidates it
func (t *DocumentTemplate) Update(formatString, resetRule string, isActive bool) error {
	updated := *t
	updated.FormatString = formatString
	updated.ResetRule = strings.TrimSpace(resetRule)
	updated.IsActive = isActive
	if err := updated.Validate(); err != nil {
		return err
	}
	updated.UpdatedAt = time.Now()
	*t = updated
	return nil
}

// Deactivate marks the template inactive
func (t *DocumentTemplate) Deactivate() {
	t.IsActive = false
	t.UpdatedAt = time.Now()
}

// ResetFields returns the reset rule as an ordered list of upper-cased
// context key names. Empty entries are skipped.
func (t *DocumentTemplate) ResetFields() []string {
	if t.ResetRule == "" {
		return nil
	}
	parts := strings.Split(t.ResetRule, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		fields = append(fields, strings.ToUpper(p))
	}
	return fields
}

// CounterKey resolves the identity of the sequence this template draws from
// for the given context: the document code followed by each reset-rule value,
// joined with '-'.
func (t *DocumentTemplate) CounterKey(ctx TokenContext) (string, error) {
	var b strings.Builder
	b.WriteString(t.DocCode)
	for _, field := range t.ResetFields() {
		value, ok := ctx[field]
		if !ok {
			return "", NewMissingResetContextError(t.DocCode, field)
		}
		b.WriteByte('-')
		b.WriteString(value)
	}
	return b.String(), nil
}

// Format expands the template for one sequence value
func (t *DocumentTemplate) Format(ctx TokenContext, seq int64) string {
	return ExpandTokens(t.FormatString, ctx, seq)
}
