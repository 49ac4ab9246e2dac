package textfile

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aradsms/assistant/internal/notebook_service/domain"
	"github.com/aradsms/assistant/internal/platform/fsutil"
)

// NoteRepository stores notes as "name, title" lines in a plain text file.
type NoteRepository struct {
	logger *slog.Logger
}

func NewNoteRepository(logger *slog.Logger) *NoteRepository {
	return &NoteRepository{logger: logger}
}

var _ domain.NoteRepository = (*NoteRepository)(nil)

func (r *NoteRepository) Save(ctx context.Context, path string, notes []domain.Note) error {
	var buf bytes.Buffer
	for _, n := range notes {
		buf.WriteString(n.Name + domain.Separator + n.Title + "\n")
	}
	if err := fsutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		r.logger.ErrorContext(ctx, "Error writing notes", "error", err, "path", path)
		return fmt.Errorf("%w: write %s: %w", domain.ErrNotesIO, path, err)
	}
	r.logger.DebugContext(ctx, "Notes written", "path", path, "notes", len(notes))
	return nil
}

func (r *NoteRepository) Load(ctx context.Context, path string) ([]domain.Note, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		r.logger.DebugContext(ctx, "No notes file", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrNotesIO, path, err)
	}
	defer f.Close()

	var notes []domain.Note
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		name, title, ok := strings.Cut(line, domain.Separator)
		n := domain.Note{Name: name, Title: title}
		if !ok || n.Validate() != nil {
			r.logger.WarnContext(ctx, "Skipping malformed note line", "path", path, "line", lineNo)
			continue
		}
		notes = append(notes, n)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrNotesIO, path, err)
	}
	r.logger.DebugContext(ctx, "Notes read", "path", path, "notes", len(notes))
	return notes, nil
}
