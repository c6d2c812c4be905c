package spimidex

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// PostingClass names the three posting-list shapes a ranker can ask for.
type PostingClass string

const (
	Boolean    PostingClass = "boolean"
	Frequency  PostingClass = "frequency"
	Positional PostingClass = "positional"
)

// PostingList is the tagged-union contract every variant satisfies: add one
// occurrence, list contributing documents, merge with siblings from other
// blocks, and round-trip through the block/body line format. Ranker-owned
// augmentation (tf weights, IDF) is deliberately not part of this interface
// and is not stored in these types, so the wire format here never carries it.
type PostingList interface {
	Class() PostingClass
	Add(docID int, position int)
	Documents() []int
	Len() int
	Format() string
	Clone() PostingList
}

// mergePostingLists clones the largest input and folds every other input
// into that clone, which it returns; the inputs themselves are left
// unchanged. All inputs must share a class.
func mergePostingLists(lists []PostingList) (PostingList, error) {
	if len(lists) == 0 {
		return nil, fmt.Errorf("spimidex: merge of zero posting lists")
	}
	biggest := 0
	for i, l := range lists {
		if l.Len() > lists[biggest].Len() {
			biggest = i
		}
	}
	acc := lists[biggest].Clone()
	for i, l := range lists {
		if i == biggest {
			continue
		}
		if err := mergeInto(acc, l); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func mergeInto(acc, other PostingList) error {
	if acc.Class() != other.Class() {
		return &ConfigError{Msg: fmt.Sprintf("cannot merge %s posting list into %s", other.Class(), acc.Class())}
	}
	switch a := acc.(type) {
	case *BooleanPostingList:
		a.bitmap.Or(other.(*BooleanPostingList).bitmap)
	case *FrequencyPostingList:
		o := other.(*FrequencyPostingList)
		for doc, f := range o.counts {
			a.counts[doc] += f
		}
	case *PositionalPostingList:
		o := other.(*PositionalPostingList)
		for _, p := range o.skipList.Positions() {
			a.skipList.Insert(p)
		}
	default:
		return &ConfigError{Msg: "unknown posting list implementation"}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────
// Boolean
// ─────────────────────────────────────────────────────────────────────────

// BooleanPostingList stores the set of documents containing a term as a
// roaring bitmap: Add is naturally idempotent (Add twice == Add once) and
// union-merge is a single Or call, the same structure the teacher used for
// its document-level DocBitmaps in index.go.
type BooleanPostingList struct {
	bitmap *roaring.Bitmap
}

func NewBooleanPostingList() *BooleanPostingList {
	return &BooleanPostingList{bitmap: roaring.NewBitmap()}
}

func (p *BooleanPostingList) Class() PostingClass { return Boolean }

func (p *BooleanPostingList) Add(docID int, _ int) { p.bitmap.Add(uint32(docID)) }

func (p *BooleanPostingList) Documents() []int {
	out := make([]int, 0, p.bitmap.GetCardinality())
	it := p.bitmap.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

func (p *BooleanPostingList) Len() int { return int(p.bitmap.GetCardinality()) }

func (p *BooleanPostingList) Format() string {
	docs := p.Documents()
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, " ")
}

func (p *BooleanPostingList) Clone() PostingList {
	return &BooleanPostingList{bitmap: p.bitmap.Clone()}
}

func ParseBooleanPostingList(text string) (*BooleanPostingList, error) {
	p := NewBooleanPostingList()
	if strings.TrimSpace(text) == "" {
		return p, nil
	}
	for _, field := range strings.Fields(text) {
		doc, err := strconv.Atoi(field)
		if err != nil {
			return nil, &FormatError{Msg: fmt.Sprintf("malformed boolean posting field %q", field), ByteOffset: -1}
		}
		p.Add(doc, 0)
	}
	return p, nil
}

// ─────────────────────────────────────────────────────────────────────────
// Frequency
// ─────────────────────────────────────────────────────────────────────────

// FrequencyPostingList maps document id to occurrence count. A plain map is
// the idiomatic shape here — no pack dependency offers anything richer for
// a small sparse integer counter.
type FrequencyPostingList struct {
	counts map[int]int
}

func NewFrequencyPostingList() *FrequencyPostingList {
	return &FrequencyPostingList{counts: make(map[int]int)}
}

func (p *FrequencyPostingList) Class() PostingClass { return Frequency }

func (p *FrequencyPostingList) Add(docID int, _ int) { p.counts[docID]++ }

func (p *FrequencyPostingList) Documents() []int {
	out := make([]int, 0, len(p.counts))
	for d := range p.counts {
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

func (p *FrequencyPostingList) Len() int { return len(p.counts) }

func (p *FrequencyPostingList) Frequency(docID int) int { return p.counts[docID] }

func (p *FrequencyPostingList) Format() string {
	docs := p.Documents()
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = fmt.Sprintf("%d-%d", d, p.counts[d])
	}
	return strings.Join(parts, " ")
}

func (p *FrequencyPostingList) Clone() PostingList {
	c := NewFrequencyPostingList()
	for d, f := range p.counts {
		c.counts[d] = f
	}
	return c
}

func ParseFrequencyPostingList(text string) (*FrequencyPostingList, error) {
	p := NewFrequencyPostingList()
	if strings.TrimSpace(text) == "" {
		return p, nil
	}
	for _, field := range strings.Fields(text) {
		doc, freq, err := splitPair(field, '-')
		if err != nil {
			return nil, &FormatError{Msg: fmt.Sprintf("malformed frequency posting field %q", field), ByteOffset: -1}
		}
		p.counts[doc] = freq
	}
	return p, nil
}

func splitPair(field string, sep byte) (int, int, error) {
	idx := strings.IndexByte(field, sep)
	if idx < 0 {
		return 0, 0, fmt.Errorf("missing separator %q in %q", sep, field)
	}
	a, err := strconv.Atoi(field[:idx])
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.Atoi(field[idx+1:])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// ─────────────────────────────────────────────────────────────────────────
// Positional
// ─────────────────────────────────────────────────────────────────────────

// PositionalPostingList keeps an ordered sequence of token positions per
// document. During buffering it is backed by a SkipList (skiplist.go),
// whose Positions() drain is already sorted by (docID, offset) — exactly
// the order Format needs to group runs into "d:p1,p2,..." tokens.
type PositionalPostingList struct {
	skipList *SkipList
}

func NewPositionalPostingList() *PositionalPostingList {
	return &PositionalPostingList{skipList: NewSkipList()}
}

func (p *PositionalPostingList) Class() PostingClass { return Positional }

func (p *PositionalPostingList) Add(docID int, position int) {
	p.skipList.Insert(Position{DocumentID: float64(docID), Offset: float64(position)})
}

// documentPositions groups the drained, sorted positions by document id,
// preserving ascending document order and ascending offset order within
// each document.
func (p *PositionalPostingList) documentPositions() ([]int, map[int][]int) {
	docs := make([]int, 0)
	byDoc := make(map[int][]int)
	var lastDoc int
	first := true
	for _, pos := range p.skipList.Positions() {
		doc := pos.GetDocumentID()
		if first || doc != lastDoc {
			docs = append(docs, doc)
			lastDoc = doc
			first = false
		}
		byDoc[doc] = append(byDoc[doc], pos.GetOffset())
	}
	return docs, byDoc
}

func (p *PositionalPostingList) Documents() []int {
	docs, _ := p.documentPositions()
	return docs
}

func (p *PositionalPostingList) Len() int {
	docs, _ := p.documentPositions()
	return len(docs)
}

// Positions returns the ordered offsets recorded for one document (nil if
// the document never contained this term).
func (p *PositionalPostingList) Positions(docID int) []int {
	_, byDoc := p.documentPositions()
	return byDoc[docID]
}

func (p *PositionalPostingList) Format() string {
	docs, byDoc := p.documentPositions()
	parts := make([]string, len(docs))
	for i, d := range docs {
		offsets := byDoc[d]
		strs := make([]string, len(offsets))
		for j, o := range offsets {
			strs[j] = strconv.Itoa(o)
		}
		parts[i] = fmt.Sprintf("%d:%s", d, strings.Join(strs, ","))
	}
	return strings.Join(parts, " ")
}

func (p *PositionalPostingList) Clone() PostingList {
	c := NewPositionalPostingList()
	for _, pos := range p.skipList.Positions() {
		c.skipList.Insert(pos)
	}
	return c
}

func ParsePositionalPostingList(text string) (*PositionalPostingList, error) {
	p := NewPositionalPostingList()
	if strings.TrimSpace(text) == "" {
		return p, nil
	}
	for _, field := range strings.Fields(text) {
		idx := strings.IndexByte(field, ':')
		if idx < 0 {
			return nil, &FormatError{Msg: fmt.Sprintf("malformed positional posting field %q", field), ByteOffset: -1}
		}
		doc, err := strconv.Atoi(field[:idx])
		if err != nil {
			return nil, &FormatError{Msg: fmt.Sprintf("malformed positional posting doc id %q", field), ByteOffset: -1}
		}
		for _, ofs := range strings.Split(field[idx+1:], ",") {
			offset, err := strconv.Atoi(ofs)
			if err != nil {
				return nil, &FormatError{Msg: fmt.Sprintf("malformed positional posting offset %q", field), ByteOffset: -1}
			}
			p.Add(doc, offset)
		}
	}
	return p, nil
}

// NewPostingList constructs an empty posting list of the given class.
func NewPostingList(class PostingClass) (PostingList, error) {
	switch class {
	case Boolean:
		return NewBooleanPostingList(), nil
	case Frequency:
		return NewFrequencyPostingList(), nil
	case Positional:
		return NewPositionalPostingList(), nil
	default:
		return nil, &ConfigError{Msg: fmt.Sprintf("unknown posting list class %q", class)}
	}
}

// ParsePostingList parses a body/block line's posting representation
// according to the declared class. Only the plain per-class formats are
// accepted; weighted forms such as "d-f/w" or "d:p1,p2/w" are rejected as
// malformed.
func ParsePostingList(class PostingClass, text string) (PostingList, error) {
	switch class {
	case Boolean:
		return ParseBooleanPostingList(text)
	case Frequency:
		return ParseFrequencyPostingList(text)
	case Positional:
		return ParsePositionalPostingList(text)
	default:
		return nil, &ConfigError{Msg: fmt.Sprintf("unknown posting list class %q", class)}
	}
}
