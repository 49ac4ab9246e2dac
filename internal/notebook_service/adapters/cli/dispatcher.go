package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aradsms/assistant/internal/notebook_service/app"
	"github.com/aradsms/assistant/internal/notebook_service/domain"
)

// ExitWords end the session.
var ExitWords = []string{"good bye", "close", "exit", "bye"}

const unknownCommand = "Unknown command. Please try again."

// Dispatcher maps note commands onto the notebook application.
type Dispatcher struct {
	app    *app.Application
	logger *slog.Logger
}

func NewDispatcher(application *app.Application, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{app: application, logger: logger}
}

// Close saves the notebook and says good bye.
func (d *Dispatcher) Close(ctx context.Context) string {
	if err := d.app.Save(ctx); err != nil {
		return "Error: " + err.Error() + "\nGood bye!"
	}
	return "Good bye!"
}

func (d *Dispatcher) Handle(ctx context.Context, line string) (string, bool) {
	normalized := strings.ToLower(strings.Join(strings.Fields(line), " "))
	for _, w := range ExitWords {
		if normalized == w {
			return d.Close(ctx), true
		}
	}
	if normalized == "hello" {
		return "How can I help you?", false
	}
	if normalized == "list" || normalized == "show all" {
		return d.list(ctx), false
	}

	command, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(command) {
	case "add":
		name, title, err := parseNote(rest, "add <name>, <title>")
		if err != nil {
			return "Error: " + err.Error(), false
		}
		if err := d.app.AddNote(ctx, name, title); err != nil {
			return d.failure(ctx, name, err), false
		}
		return fmt.Sprintf("Note added: %s, %s", name, title), false
	case "edit":
		name, title, err := parseNote(rest, "edit <name>, <title>")
		if err != nil {
			return "Error: " + err.Error(), false
		}
		if err := d.app.EditNote(ctx, name, title); err != nil {
			return d.failure(ctx, name, err), false
		}
		return fmt.Sprintf("Note for %s edited: %s", name, title), false
	case "delete":
		if err := singleWord(rest, "delete <name>"); err != nil {
			return "Error: " + err.Error(), false
		}
		if err := d.app.DeleteNote(ctx, rest); err != nil {
			return d.failure(ctx, rest, err), false
		}
		return fmt.Sprintf("Note for %s deleted.", rest), false
	case "get":
		if err := singleWord(rest, "get <name>"); err != nil {
			return "Error: " + err.Error(), false
		}
		n, err := d.app.GetNote(ctx, rest)
		if err != nil {
			return d.failure(ctx, rest, err), false
		}
		return fmt.Sprintf("Note for %s: %s", n.Name, n.Title), false
	default:
		return unknownCommand, false
	}
}

func (d *Dispatcher) list(ctx context.Context) string {
	notes := d.app.Notes(ctx)
	if len(notes) == 0 {
		return "No notes available."
	}
	var b strings.Builder
	b.WriteString("All notes:")
	for _, n := range notes {
		b.WriteString("\n" + n.Name + domain.Separator + n.Title)
	}
	return b.String()
}

func (d *Dispatcher) failure(ctx context.Context, name string, err error) string {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Sprintf("Note for %s not found.", name)
	}
	d.logger.DebugContext(ctx, "Command failed", "name", name, "error", err)
	return "Error: " + err.Error()
}

var errUsage = errors.New("wrong arguments")

func parseNote(s, usage string) (name, title string, err error) {
	name, title, ok := strings.Cut(s, ",")
	name, title = strings.TrimSpace(name), strings.TrimSpace(title)
	if !ok || name == "" || title == "" {
		return "", "", fmt.Errorf("%w, usage: %s", errUsage, usage)
	}
	return name, title, nil
}

func singleWord(s, usage string) error {
	if s == "" || len(strings.Fields(s)) != 1 {
		return fmt.Errorf("%w, usage: %s", errUsage, usage)
	}
	return nil
}
