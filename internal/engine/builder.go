package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"coclass/internal/models"

	"go.uber.org/zap"
)

// DefaultSyntheticDimension is the dimension whose rows get the running
// empty-code count prepended to their code. Its rows mostly have no code of
// their own and would otherwise collide.
const DefaultSyntheticDimension = "Funktionella system"

var ErrDuplicateCode = errors.New("duplicate code path")

// DuplicateCodeError is returned when a code ends on a node that already
// holds an entry or children.
type DuplicateCodeError struct {
	Dimension string
	Code      string
	Line      int
}

func (e *DuplicateCodeError) Error() string {
	return fmt.Sprintf("line %d: %s: code %q in dimension %q reaches a populated node",
		e.Line, ErrDuplicateCode, e.Code, e.Dimension)
}

func (e *DuplicateCodeError) Is(target error) bool {
	return target == ErrDuplicateCode
}

type BuildOptions struct {
	// SyntheticDimension defaults to DefaultSyntheticDimension.
	SyntheticDimension string
	Logger             *zap.Logger
}

// Builder folds rows into a CodeTree. Rows must be added in file order: the
// empty-code count it carries decides the synthetic codes.
type Builder struct {
	tree       *CodeTree
	emptyCodes int
	synthetic  string
	log        *zap.Logger
}

func NewBuilder(opts BuildOptions) *Builder {
	b := &Builder{
		tree:      NewCodeTree(),
		synthetic: opts.SyntheticDimension,
		log:       opts.Logger,
	}
	if b.synthetic == "" {
		b.synthetic = DefaultSyntheticDimension
	}
	if b.log == nil {
		b.log = zap.NewNop()
	}
	return b
}

// Add applies one row. On error the builder must not be used further.
func (b *Builder) Add(row models.Row) error {
	b.emptyCodes = CountEmptyCode(b.emptyCodes, row.Code)
	code := EffectiveCode(row.Dimension, row.Code, b.emptyCodes, b.synthetic)
	if code != row.Code {
		b.log.Debug("synthetic code assigned",
			zap.Int("line", row.Line),
			zap.String("dimension", row.Dimension),
			zap.String("code", row.Code),
			zap.String("effective", code))
	}

	node := b.tree.rootOrCreate(row.Dimension)
	if code == "" {
		b.log.Debug("row without code skipped",
			zap.Int("line", row.Line),
			zap.String("dimension", row.Dimension),
			zap.String("term", strings.TrimSpace(row.Term)))
		return nil
	}

	for _, c := range code {
		node = node.childOrCreate(string(c))
	}
	if !node.empty() {
		return &DuplicateCodeError{Dimension: row.Dimension, Code: code, Line: row.Line}
	}
	node.entry = &models.Entry{
		Term: strings.TrimSpace(row.Term),
		Desc: strings.TrimSpace(row.Description),
		Syns: SplitSynonyms(row.Synonyms),
	}
	return nil
}

func (b *Builder) Tree() *CodeTree { return b.tree }

// EmptyCodes returns how many rows without a code were seen so far.
func (b *Builder) EmptyCodes() int { return b.emptyCodes }

// Build folds rows in order into a new tree.
func Build(rows []models.Row, opts BuildOptions) (*CodeTree, error) {
	b := NewBuilder(opts)
	for _, row := range rows {
		if err := b.Add(row); err != nil {
			return nil, err
		}
	}
	return b.Tree(), nil
}

// CountEmptyCode advances the empty-code count. The count spans the whole
// input, not a single dimension.
func CountEmptyCode(count int, code string) int {
	if code == "" {
		return count + 1
	}
	return count
}

// EffectiveCode returns the code a row is stored under. Rows of the synthetic
// dimension get the current empty-code count prepended, whether or not their
// own code is empty.
func EffectiveCode(dimension, code string, emptyCodes int, synthetic string) string {
	if dimension != synthetic {
		return code
	}
	return strconv.Itoa(emptyCodes) + code
}

// SplitSynonyms splits on commas and trims each part. An empty string gives
// a single empty synonym.
func SplitSynonyms(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
