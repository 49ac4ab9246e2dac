package domain

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Field names a record attribute that SearchByFields can match on.
type Field int

const (
	FieldName Field = iota + 1
	FieldBirthday
)

// ParseField maps a field name used on the command line to a Field.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(s) {
	case "name":
		return FieldName, nil
	case "birthday":
		return FieldBirthday, nil
	default:
		return 0, fmt.Errorf("%w: unknown search field %q", ErrValidation, s)
	}
}

func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldBirthday:
		return "birthday"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// Directory maps contact names to records and remembers insertion order.
// Records never leave the directory by reference: readers get clones and
// writers go through Add, Update or Delete.
type Directory struct {
	mu      sync.Mutex
	index   map[string]int
	records []*Record
}

// NewDirectory returns a directory holding copies of rs. Later records with a
// repeated name overwrite earlier ones.
func NewDirectory(rs ...*Record) (*Directory, error) {
	d := &Directory{index: make(map[string]int, len(rs))}
	for _, r := range rs {
		if err := d.Add(r); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Add stores a copy of r under r.Name, replacing any record with that name in place.
func (d *Directory) Add(r *Record) error {
	if r == nil {
		return fmt.Errorf("%w: record must not be nil", ErrValidation)
	}
	if err := r.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.put(r.Clone())
	return nil
}

func (d *Directory) put(r *Record) {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if i, ok := d.index[r.Name]; ok {
		d.records[i] = r
		return
	}
	d.index[r.Name] = len(d.records)
	d.records = append(d.records, r)
}

// Get returns a copy of the record stored under name.
func (d *Directory) Get(name string) (*Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i, ok := d.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: contact %q", ErrNotFound, name)
	}
	return d.records[i].Clone(), nil
}

// Update applies fn to a copy of the record stored under name and keeps the
// result only if fn succeeds and the record is still valid and still named name.
func (d *Directory) Update(name string, fn func(*Record) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	i, ok := d.index[name]
	if !ok {
		return fmt.Errorf("%w: contact %q", ErrNotFound, name)
	}
	c := d.records[i].Clone()
	if err := fn(c); err != nil {
		return err
	}
	if c.Name != name {
		return fmt.Errorf("%w: cannot rename %q to %q", ErrValidation, name, c.Name)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	d.records[i] = c
	return nil
}

// Delete removes the record stored under name.
func (d *Directory) Delete(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	i, ok := d.index[name]
	if !ok {
		return fmt.Errorf("%w: contact %q", ErrNotFound, name)
	}
	d.records = slices.Delete(d.records, i, i+1)
	delete(d.index, name)
	for j := i; j < len(d.records); j++ {
		d.index[d.records[j].Name] = j
	}
	return nil
}

// Len returns the number of records.
func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.records)
}

// Records returns copies of all records in directory order.
func (d *Directory) Records() []*Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filter(func(*Record) bool { return true })
}

// Replace discards the current contents and stores copies of rs instead.
// On error the directory is left unchanged.
func (d *Directory) Replace(rs []*Record) error {
	fresh, err := NewDirectory(rs...)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.index, d.records = fresh.index, fresh.records
	return nil
}

// Reset empties the directory.
func (d *Directory) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.index = make(map[string]int)
	d.records = nil
}

// SearchByFields returns the records whose fields equal every given value exactly.
// Empty criteria match every record.
func (d *Directory) SearchByFields(criteria map[Field]string) ([]*Record, error) {
	for f := range criteria {
		if f != FieldName && f != FieldBirthday {
			return nil, fmt.Errorf("%w: unknown search field %v", ErrValidation, f)
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filter(func(r *Record) bool {
		for f, want := range criteria {
			var got string
			switch f {
			case FieldName:
				got = r.Name
			case FieldBirthday:
				got = r.Birthday.String()
			}
			if got != want {
				return false
			}
		}
		return true
	}), nil
}

// Search returns the records whose name contains q ignoring case, or that have
// a phone containing q.
func (d *Directory) Search(q string) []*Record {
	lower := strings.ToLower(q)
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filter(func(r *Record) bool {
		if strings.Contains(strings.ToLower(r.Name), lower) {
			return true
		}
		return slices.ContainsFunc(r.Phones, func(p string) bool {
			return strings.Contains(p, q)
		})
	})
}

// filter must be called with d.mu held.
func (d *Directory) filter(keep func(*Record) bool) []*Record {
	var out []*Record
	for _, r := range d.records {
		if keep(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}

// Pages splits the current records into consecutive batches of size records.
func (d *Directory) Pages(size int) (*Pager, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: page size must be positive, got %d", ErrValidation, size)
	}
	return &Pager{records: d.Records(), size: size}, nil
}

// Pager yields batches of records one at a time. It works like bufio.Scanner:
// call Next until it returns false, reading each batch with Page. A Pager
// cannot be rewound.
type Pager struct {
	records []*Record
	size    int
	offset  int
	page    []*Record
	number  int
}

// Next advances to the following batch and reports whether there is one.
func (p *Pager) Next() bool {
	if p.offset >= len(p.records) {
		p.page = nil
		return false
	}
	end := min(p.offset+p.size, len(p.records))
	p.page = p.records[p.offset:end:end]
	p.offset = end
	p.number++
	return true
}

// Page returns the current batch.
func (p *Pager) Page() []*Record {
	return p.page
}

// Number returns the 1-based number of the current batch.
func (p *Pager) Number() int {
	return p.number
}

// Total returns how many batches the pager yields overall.
func (p *Pager) Total() int {
	return (len(p.records) + p.size - 1) / p.size
}
