package grammar

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"golang.org/x/text/unicode/norm"
)

// Label is an interned grammar symbol, either a non-terminal or a
// pre-terminal (POS tag). Labels are small non-negative integers,
// handed out by a Dictionary in order of first occurrence.
type Label int32

// NoLabel is the missing right child of a unary clause.
const NoLabel Label = -1

// ArtificialPrefix starts the names of labels introduced by binarization.
const ArtificialPrefix = "@"

// Dictionary maps label names to labels and back.
// Names are compared in Unicode normalization form NFC.
type Dictionary struct {
	ids   map[string]Label
	names *arraylist.List
}

// NewDictionary creates an empty label dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{
		ids:   make(map[string]Label),
		names: arraylist.New(),
	}
}

// Intern returns the label for name, creating a new one if necessary.
func (d *Dictionary) Intern(name string) Label {
	name = norm.NFC.String(name)
	if l, ok := d.ids[name]; ok {
		return l
	}
	l := Label(d.names.Size())
	d.ids[name] = l
	d.names.Add(name)
	return l
}

// Lookup returns the label for name, if it has been interned.
func (d *Dictionary) Lookup(name string) (Label, bool) {
	l, ok := d.ids[norm.NFC.String(name)]
	return l, ok
}

// Name returns the name of a label.
func (d *Dictionary) Name(l Label) string {
	if n, ok := d.names.Get(int(l)); ok {
		return n.(string)
	}
	return fmt.Sprintf("<%d>", l)
}

// Size is the number of labels interned so far.
func (d *Dictionary) Size() int {
	return d.names.Size()
}

// IsArtificial is true for labels which have been introduced by
// binarization and should not show up in derivation trees.
func (d *Dictionary) IsArtificial(l Label) bool {
	return strings.HasPrefix(d.Name(l), ArtificialPrefix)
}
