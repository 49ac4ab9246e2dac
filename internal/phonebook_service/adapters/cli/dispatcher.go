package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aradsms/assistant/internal/phonebook_service/app"
	"github.com/aradsms/assistant/internal/phonebook_service/domain"
)

// ExitWords end the session.
var ExitWords = []string{"good bye", "close", "exit", "bye"}

const unknownCommand = "Unknown command. Please try again."

// Settings tune the dispatcher.
type Settings struct {
	// DataFile is used by save and load when no path is given.
	DataFile string
	PageSize int
	// Autosave writes DataFile when the session ends.
	Autosave bool
}

// Dispatcher translates command lines into Application calls and formats the replies.
type Dispatcher struct {
	app      *app.Application
	logger   *slog.Logger
	settings Settings
}

func NewDispatcher(application *app.Application, logger *slog.Logger, settings Settings) *Dispatcher {
	if settings.PageSize <= 0 {
		settings.PageSize = 5
	}
	return &Dispatcher{app: application, logger: logger, settings: settings}
}

// Close ends the session, saving first when autosave is on.
func (d *Dispatcher) Close(ctx context.Context) string {
	if !d.settings.Autosave || d.settings.DataFile == "" {
		return "Good bye!"
	}
	if _, err := d.app.Save(ctx, d.settings.DataFile); err != nil {
		return "Error: " + err.Error() + "\nGood bye!"
	}
	return fmt.Sprintf("Address book saved to %s\nGood bye!", d.settings.DataFile)
}

// Handle executes one command line. done is true when the user asked to leave.
func (d *Dispatcher) Handle(ctx context.Context, line string) (reply string, done bool) {
	normalized := strings.ToLower(strings.Join(strings.Fields(line), " "))
	for _, w := range ExitWords {
		if normalized == w {
			return d.Close(ctx), true
		}
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}
	command, args := strings.ToLower(fields[0]), fields[1:]

	var err error
	switch command {
	case "hello":
		reply = "How can I help you?"
	case "add":
		reply, err = d.add(ctx, args)
	case "change", "edit":
		reply, err = d.change(ctx, args)
	case "phone", "get":
		reply, err = d.phone(ctx, args)
	case "delete", "remove":
		reply, err = d.delete(ctx, args)
	case "birthday":
		reply, err = d.birthday(ctx, args)
	case "birthdays":
		reply = d.birthdays(ctx)
	case "show":
		if len(args) == 1 && strings.EqualFold(args[0], "all") {
			reply, err = d.showAll(ctx)
		} else {
			reply = unknownCommand
		}
	case "search":
		reply, err = d.search(ctx, line)
	case "find":
		reply, err = d.find(ctx, args)
	case "save":
		reply, err = d.save(ctx, args)
	case "load":
		reply, err = d.load(ctx, args)
	default:
		reply = unknownCommand
	}
	if err != nil {
		d.logger.DebugContext(ctx, "Command failed", "command", command, "error", err)
		return "Error: " + err.Error(), false
	}
	return reply, false
}

var errUsage = errors.New("wrong arguments")

func usage(format string) error {
	return fmt.Errorf("%w, usage: %s", errUsage, format)
}

func (d *Dispatcher) add(ctx context.Context, args []string) (string, error) {
	if len(args) != 2 && len(args) != 3 {
		return "", usage("add <name> <phone> [YYYY-MM-DD]")
	}
	var birthday string
	if len(args) == 3 {
		birthday = args[2]
	}
	if _, err := d.app.AddContact(ctx, args[0], args[1], birthday); err != nil {
		return "", err
	}
	return fmt.Sprintf("Contact %s added with phone %s", args[0], args[1]), nil
}

func (d *Dispatcher) change(ctx context.Context, args []string) (string, error) {
	if len(args) != 3 {
		return "", usage("change <name> <old phone> <new phone>")
	}
	name, oldPhone, newPhone := args[0], args[1], args[2]
	if err := d.app.ChangePhone(ctx, name, oldPhone, newPhone); err != nil {
		return "", err
	}
	return fmt.Sprintf("Phone number for %s changed from %s to %s", name, oldPhone, newPhone), nil
}

func (d *Dispatcher) phone(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", usage("phone <name>")
	}
	phones, err := d.app.Phones(ctx, args[0])
	if err != nil {
		return "", err
	}
	if len(phones) == 0 {
		return fmt.Sprintf("%s has no phone numbers", args[0]), nil
	}
	return fmt.Sprintf("The phone numbers for %s are %s", args[0], strings.Join(phones, ", ")), nil
}

func (d *Dispatcher) delete(ctx context.Context, args []string) (string, error) {
	switch len(args) {
	case 1:
		if err := d.app.DeleteContact(ctx, args[0]); err != nil {
			return "", err
		}
		return fmt.Sprintf("Contact %s deleted", args[0]), nil
	case 2:
		if err := d.app.RemovePhone(ctx, args[0], args[1]); err != nil {
			return "", err
		}
		return fmt.Sprintf("Phone number %s removed from %s", args[1], args[0]), nil
	default:
		return "", usage("delete <name> [phone]")
	}
}

func (d *Dispatcher) birthday(ctx context.Context, args []string) (string, error) {
	switch len(args) {
	case 1:
		days, ok, err := d.app.DaysToBirthday(ctx, args[0])
		if err != nil {
			return "", err
		}
		switch {
		case !ok:
			return fmt.Sprintf("Birthday of %s is unknown", args[0]), nil
		case days == 0:
			return fmt.Sprintf("%s has a birthday today!", args[0]), nil
		default:
			return fmt.Sprintf("%d days until the birthday of %s", days, args[0]), nil
		}
	case 2:
		if err := d.app.SetBirthday(ctx, args[0], args[1]); err != nil {
			return "", err
		}
		return fmt.Sprintf("Birthday of %s set to %s", args[0], args[1]), nil
	default:
		return "", usage("birthday <name> [YYYY-MM-DD]")
	}
}

func (d *Dispatcher) birthdays(ctx context.Context) string {
	buckets := d.app.UpcomingBirthdays(ctx)
	var b strings.Builder
	b.WriteString("Birthdays this week:")
	empty := true
	for _, day := range domain.Workdays {
		names := buckets[day]
		if len(names) == 0 {
			continue
		}
		empty = false
		fmt.Fprintf(&b, "\n%s: %s", day, strings.Join(names, ", "))
	}
	if empty {
		return "No birthdays in the coming week."
	}
	return b.String()
}

func (d *Dispatcher) showAll(ctx context.Context) (string, error) {
	pager, err := d.app.Pages(ctx, d.settings.PageSize)
	if err != nil {
		return "", err
	}
	if pager.Total() == 0 {
		return "No contacts available.", nil
	}
	var b strings.Builder
	b.WriteString("All contacts:")
	for pager.Next() {
		if pager.Total() > 1 {
			fmt.Fprintf(&b, "\n-- page %d of %d --", pager.Number(), pager.Total())
		}
		for _, r := range pager.Page() {
			b.WriteString("\n" + FormatRecord(r))
		}
	}
	return b.String(), nil
}

// search keeps the query's inner spacing, so it reads the raw line after the command word.
func (d *Dispatcher) search(ctx context.Context, line string) (string, error) {
	trimmed := strings.TrimSpace(line)
	query := strings.TrimSpace(strings.TrimPrefix(trimmed, strings.Fields(trimmed)[0]))
	if query == "" {
		return "", usage("search <text>")
	}
	return formatFound(d.app.Search(ctx, query)), nil
}

func (d *Dispatcher) find(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", usage("find <field>=<value> ...")
	}
	criteria := make(map[domain.Field]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return "", usage("find <field>=<value> ...")
		}
		field, err := domain.ParseField(key)
		if err != nil {
			return "", err
		}
		criteria[field] = value
	}
	records, err := d.app.FindByFields(ctx, criteria)
	if err != nil {
		return "", err
	}
	return formatFound(records), nil
}

func (d *Dispatcher) save(ctx context.Context, args []string) (string, error) {
	path, err := d.path(args, "save [path]")
	if err != nil {
		return "", err
	}
	info, err := d.app.Save(ctx, path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Address book saved to %s (%d contacts)", path, info.Records), nil
}

func (d *Dispatcher) load(ctx context.Context, args []string) (string, error) {
	path, err := d.path(args, "load [path]")
	if err != nil {
		return "", err
	}
	out := d.app.Load(ctx, path)
	switch {
	case out.Missing():
		return fmt.Sprintf("No address book at %s, starting with no contacts", path), nil
	case out.Reset:
		return fmt.Sprintf("Address book at %s could not be loaded (%v), starting with no contacts", path, out.Cause), nil
	default:
		return fmt.Sprintf("Address book loaded from %s (%d contacts)", path, out.Records), nil
	}
}

func (d *Dispatcher) path(args []string, format string) (string, error) {
	switch len(args) {
	case 0:
		if d.settings.DataFile == "" {
			return "", usage(format)
		}
		return d.settings.DataFile, nil
	case 1:
		return args[0], nil
	default:
		return "", usage(format)
	}
}

// FormatRecord renders one contact on a single line.
func FormatRecord(r *domain.Record) string {
	birthday := r.Birthday.String()
	if birthday == "" {
		birthday = "unknown"
	}
	return fmt.Sprintf("Name: %s, Birthday: %s, Phones: %s", r.Name, birthday, strings.Join(r.Phones, ", "))
}

func formatFound(records []*domain.Record) string {
	if len(records) == 0 {
		return "No matching contacts found."
	}
	var b strings.Builder
	b.WriteString("Found contacts:")
	for _, r := range records {
		b.WriteString("\n" + FormatRecord(r))
	}
	return b.String()
}
