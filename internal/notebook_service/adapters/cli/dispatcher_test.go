package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aradsms/assistant/internal/notebook_service/app"
	"github.com/aradsms/assistant/internal/notebook_service/repository/textfile"
)

func setupDispatcherTest(t *testing.T) (*Dispatcher, string) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "notes.txt")
	application := app.NewApplication(textfile.NewNoteRepository(logger), path, logger)
	return NewDispatcher(application, logger), path
}

func handle(t *testing.T, d *Dispatcher, line string) string {
	t.Helper()
	reply, done := d.Handle(context.Background(), line)
	assert.False(t, done)
	return reply
}

func TestDispatcher_Notes(t *testing.T) {
	d, path := setupDispatcherTest(t)

	assert.Equal(t, "How can I help you?", handle(t, d, "Hello"))
	assert.Equal(t, "No notes available.", handle(t, d, "list"))

	assert.Equal(t, "Note added: shopping, milk, bread", handle(t, d, "add shopping, milk, bread"))
	assert.Equal(t, "Note added: work, report", handle(t, d, "ADD work ,  report"))
	assert.Equal(t, "Note for work edited: slides", handle(t, d, "edit work, slides"))
	assert.Equal(t, "Note for work: slides", handle(t, d, "get work"))
	assert.Equal(t, "All notes:\nshopping, milk, bread\nwork, slides", handle(t, d, "show all"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "shopping, milk, bread\nwork, slides\n", string(data), "every change is written immediately")

	assert.Equal(t, "Note for work deleted.", handle(t, d, "delete work"))
	assert.Equal(t, "Note for work not found.", handle(t, d, "get work"))
	assert.Equal(t, "Note for work not found.", handle(t, d, "delete work"))
	assert.Equal(t, "Note for home not found.", handle(t, d, "edit home, rent"))
}

func TestDispatcher_BadInput(t *testing.T) {
	d, _ := setupDispatcherTest(t)

	for _, line := range []string{"add shopping", "add , milk", "edit work", "get", "delete a b", "add to do, milk"} {
		t.Run(line, func(t *testing.T) {
			assert.True(t, strings.HasPrefix(handle(t, d, line), "Error: "))
		})
	}
	assert.Equal(t, unknownCommand, handle(t, d, "remember milk"))
}

func TestDispatcher_ExitSaves(t *testing.T) {
	d, path := setupDispatcherTest(t)

	handle(t, d, "add work, report")
	require.NoError(t, os.Remove(path))

	reply, done := d.Handle(context.Background(), "Good Bye")
	assert.True(t, done)
	assert.Equal(t, "Good bye!", reply)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "work, report\n", string(data))
}
