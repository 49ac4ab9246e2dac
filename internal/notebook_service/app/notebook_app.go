package app

import (
	"context"
	"log/slog"

	"github.com/aradsms/assistant/internal/notebook_service/domain"
)

// Application keeps a notebook in memory and writes it to dataFile after every change.
type Application struct {
	notebook *domain.Notebook
	repo     domain.NoteRepository
	dataFile string
	logger   *slog.Logger
}

func NewApplication(repo domain.NoteRepository, dataFile string, logger *slog.Logger) *Application {
	return &Application{
		notebook: domain.NewNotebook(),
		repo:     repo,
		dataFile: dataFile,
		logger:   logger,
	}
}

// Load replaces the notebook with the notes stored in the data file.
func (a *Application) Load(ctx context.Context) (int, error) {
	notes, err := a.repo.Load(ctx, a.dataFile)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to load notes", "error", err, "path", a.dataFile)
		return 0, err
	}
	if err := a.notebook.Replace(notes); err != nil {
		return 0, err
	}
	a.logger.InfoContext(ctx, "Notes loaded", "path", a.dataFile, "notes", len(notes))
	return len(notes), nil
}

// Save writes the notebook to the data file.
func (a *Application) Save(ctx context.Context) error {
	if err := a.repo.Save(ctx, a.dataFile, a.notebook.Notes()); err != nil {
		a.logger.ErrorContext(ctx, "Failed to save notes", "error", err, "path", a.dataFile)
		return err
	}
	return nil
}

func (a *Application) AddNote(ctx context.Context, name, title string) error {
	if err := a.notebook.Add(domain.Note{Name: name, Title: title}); err != nil {
		return err
	}
	a.logger.DebugContext(ctx, "Note added", "name", name)
	return a.Save(ctx)
}

func (a *Application) EditNote(ctx context.Context, name, title string) error {
	if err := a.notebook.Edit(domain.Note{Name: name, Title: title}); err != nil {
		return err
	}
	a.logger.DebugContext(ctx, "Note edited", "name", name)
	return a.Save(ctx)
}

func (a *Application) DeleteNote(ctx context.Context, name string) error {
	if err := a.notebook.Delete(name); err != nil {
		return err
	}
	a.logger.DebugContext(ctx, "Note deleted", "name", name)
	return a.Save(ctx)
}

func (a *Application) GetNote(_ context.Context, name string) (domain.Note, error) {
	return a.notebook.Get(name)
}

func (a *Application) Notes(_ context.Context) []domain.Note {
	return a.notebook.Notes()
}
