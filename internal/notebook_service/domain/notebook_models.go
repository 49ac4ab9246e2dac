package domain

import (
	"fmt"
	"strings"
	"sync"
)

// Separator joins a note's name and title in the stored and typed forms.
const Separator = ", "

// Note is a titled entry keyed by a single-word name.
type Note struct {
	Name  string
	Title string
}

// Validate checks that the note can be written as one "name, title" line and
// read back unchanged.
func (n Note) Validate() error {
	switch {
	case n.Name == "":
		return fmt.Errorf("%w: note name must not be empty", ErrValidation)
	case strings.ContainsAny(n.Name, " \t\r\n,"):
		return fmt.Errorf("%w: note name %q must be a single word", ErrValidation, n.Name)
	case strings.TrimSpace(n.Title) == "":
		return fmt.Errorf("%w: title for %s must not be empty", ErrValidation, n.Name)
	case strings.ContainsAny(n.Title, "\r\n"):
		return fmt.Errorf("%w: title for %s must fit on one line", ErrValidation, n.Name)
	}
	return nil
}

// Notebook maps note names to titles and keeps the order notes were first added.
type Notebook struct {
	mu    sync.Mutex
	order []string
	notes map[string]string
}

func NewNotebook() *Notebook {
	return &Notebook{notes: make(map[string]string)}
}

// Add stores n, replacing the title of an existing note with the same name.
func (b *Notebook) Add(n Note) error {
	if err := n.Validate(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.notes[n.Name]; !ok {
		b.order = append(b.order, n.Name)
	}
	b.notes[n.Name] = n.Title
	return nil
}

// Edit changes the title of an existing note.
func (b *Notebook) Edit(n Note) error {
	if err := n.Validate(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.notes[n.Name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, n.Name)
	}
	b.notes[n.Name] = n.Title
	return nil
}

func (b *Notebook) Delete(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.notes[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(b.notes, name)
	for i, n := range b.order {
		if n == name {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return nil
}

func (b *Notebook) Get(name string) (Note, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	title, ok := b.notes[name]
	if !ok {
		return Note{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return Note{Name: name, Title: title}, nil
}

// Notes returns every note in insertion order.
func (b *Notebook) Notes() []Note {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Note, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, Note{Name: name, Title: b.notes[name]})
	}
	return out
}

// Replace swaps the whole content for notes. Nothing changes when a note is invalid.
func (b *Notebook) Replace(notes []Note) error {
	order := make([]string, 0, len(notes))
	byName := make(map[string]string, len(notes))
	for _, n := range notes {
		if err := n.Validate(); err != nil {
			return err
		}
		if _, ok := byName[n.Name]; !ok {
			order = append(order, n.Name)
		}
		byName[n.Name] = n.Title
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.order, b.notes = order, byName
	return nil
}
