package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aradsms/assistant/internal/phonebook_service/domain"
)

// Application provides the contact book operations used by the command dispatcher.
type Application struct {
	directory *domain.Directory
	store     domain.SnapshotStore
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures an Application.
type Option func(*Application)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Application) { a.now = now }
}

// WithDirectory starts the application with an existing directory instead of an empty one.
func WithDirectory(d *domain.Directory) Option {
	return func(a *Application) { a.directory = d }
}

// NewApplication creates a new Application instance.
func NewApplication(store domain.SnapshotStore, logger *slog.Logger, opts ...Option) *Application {
	a := &Application{
		directory: &domain.Directory{},
		store:     store,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// LoadOutcome reports what Load did. When Reset is true the directory was
// emptied because the snapshot was missing or unusable, and Cause says why.
type LoadOutcome struct {
	Path     string
	Records  int
	Reset    bool
	Cause    error
	Snapshot domain.SnapshotInfo
}

// Missing reports whether the reset happened because there was no snapshot at all.
func (o LoadOutcome) Missing() bool {
	return o.Reset && errors.Is(o.Cause, os.ErrNotExist)
}

// --- Contact Methods ---

// AddContact adds phone to the contact called name, creating the contact if
// needed. birthday may be empty; for an existing contact a non-empty birthday
// replaces the stored one.
func (a *Application) AddContact(ctx context.Context, name, phone, birthday string) (*domain.Record, error) {
	err := a.directory.Update(name, func(r *domain.Record) error {
		if birthday != "" {
			if err := r.SetBirthday(birthday); err != nil {
				return err
			}
		}
		return r.AddPhone(phone)
	})
	if errors.Is(err, domain.ErrNotFound) {
		var rec *domain.Record
		if rec, err = domain.NewRecord(name, birthday); err != nil {
			return nil, err
		}
		if err = rec.AddPhone(phone); err != nil {
			return nil, err
		}
		if err = a.directory.Add(rec); err != nil {
			return nil, err
		}
		a.logger.InfoContext(ctx, "Contact created", "name", name)
	}
	if err != nil {
		return nil, err
	}
	a.logger.DebugContext(ctx, "Phone added", "name", name)
	return a.directory.Get(name)
}

// AddRecord stores rec, replacing any contact with the same name.
func (a *Application) AddRecord(ctx context.Context, rec *domain.Record) error {
	if err := a.directory.Add(rec); err != nil {
		return err
	}
	a.logger.DebugContext(ctx, "Record stored", "name", rec.Name)
	return nil
}

// GetContact returns the contact called name.
func (a *Application) GetContact(_ context.Context, name string) (*domain.Record, error) {
	return a.directory.Get(name)
}

// ChangePhone replaces oldPhone with newPhone in the contact called name.
func (a *Application) ChangePhone(ctx context.Context, name, oldPhone, newPhone string) error {
	err := a.directory.Update(name, func(r *domain.Record) error {
		i := r.FindPhone(oldPhone)
		if i == -1 {
			return fmt.Errorf("%w: phone number %s for %s", domain.ErrNotFound, oldPhone, name)
		}
		return r.EditPhone(i, newPhone)
	})
	if err != nil {
		return err
	}
	a.logger.DebugContext(ctx, "Phone changed", "name", name)
	return nil
}

// RemovePhone deletes phone from the contact called name.
func (a *Application) RemovePhone(ctx context.Context, name, phone string) error {
	err := a.directory.Update(name, func(r *domain.Record) error {
		i := r.FindPhone(phone)
		if i == -1 {
			return fmt.Errorf("%w: phone number %s for %s", domain.ErrNotFound, phone, name)
		}
		return r.RemovePhone(i)
	})
	if err != nil {
		return err
	}
	a.logger.DebugContext(ctx, "Phone removed", "name", name)
	return nil
}

// Phones returns the phone numbers of the contact called name.
func (a *Application) Phones(_ context.Context, name string) ([]string, error) {
	rec, err := a.directory.Get(name)
	if err != nil {
		return nil, err
	}
	return rec.Phones, nil
}

// DeleteContact removes the contact called name.
func (a *Application) DeleteContact(ctx context.Context, name string) error {
	if err := a.directory.Delete(name); err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "Contact deleted", "name", name)
	return nil
}

// SetBirthday sets or, with an empty birthday, clears the birthday of the contact called name.
func (a *Application) SetBirthday(_ context.Context, name, birthday string) error {
	return a.directory.Update(name, func(r *domain.Record) error {
		return r.SetBirthday(birthday)
	})
}

// DaysToBirthday returns the days until the next birthday of the contact
// called name. ok is false when the birthday is unknown.
func (a *Application) DaysToBirthday(_ context.Context, name string) (days int, ok bool, err error) {
	rec, err := a.directory.Get(name)
	if err != nil {
		return 0, false, err
	}
	days, ok = rec.DaysUntilBirthday(a.now())
	return days, ok, nil
}

// Contacts returns every contact in directory order.
func (a *Application) Contacts(_ context.Context) []*domain.Record {
	return a.directory.Records()
}

// Search returns contacts whose name or phones contain query.
func (a *Application) Search(_ context.Context, query string) []*domain.Record {
	return a.directory.Search(query)
}

// FindByFields returns contacts whose fields equal all of criteria.
func (a *Application) FindByFields(_ context.Context, criteria map[domain.Field]string) ([]*domain.Record, error) {
	return a.directory.SearchByFields(criteria)
}

// Pages splits the contacts into batches of size.
func (a *Application) Pages(_ context.Context, size int) (*domain.Pager, error) {
	return a.directory.Pages(size)
}

// UpcomingBirthdays groups contacts with a birthday in the coming week by workday.
func (a *Application) UpcomingBirthdays(_ context.Context) map[time.Weekday][]string {
	return domain.BirthdaysPerWeek(a.directory.Records(), a.now())
}

// --- Persistence Methods ---

// Save writes a snapshot of the whole directory to path.
func (a *Application) Save(ctx context.Context, path string) (domain.SnapshotInfo, error) {
	info, err := a.store.Save(ctx, path, a.directory.Records())
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to save address book", "error", err, "path", path)
		return domain.SnapshotInfo{}, err
	}
	a.logger.InfoContext(ctx, "Address book saved", "path", path, "snapshot_id", info.ID, "records", info.Records)
	return info, nil
}

// Load replaces the directory with the snapshot at path. It never fails: a
// missing, unreadable or corrupt snapshot leaves an empty directory, and the
// outcome says so.
func (a *Application) Load(ctx context.Context, path string) LoadOutcome {
	out := LoadOutcome{Path: path}
	records, info, err := a.store.Load(ctx, path)
	if err == nil {
		err = a.directory.Replace(records)
	}
	if err != nil {
		a.directory.Reset()
		out.Reset, out.Cause = true, err
		if errors.Is(err, os.ErrNotExist) {
			a.logger.InfoContext(ctx, "No address book found, starting empty", "path", path)
		} else {
			a.logger.WarnContext(ctx, "Address book could not be loaded, starting empty", "error", err, "path", path)
		}
		return out
	}
	out.Records, out.Snapshot = a.directory.Len(), info
	a.logger.InfoContext(ctx, "Address book loaded", "path", path, "snapshot_id", info.ID, "records", out.Records)
	return out
}
