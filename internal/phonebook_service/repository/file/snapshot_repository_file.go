package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/aradsms/assistant/internal/phonebook_service/domain"
	"github.com/aradsms/assistant/internal/platform/fsutil"
)

// Codec encodes snapshot documents.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec stores snapshots as indented JSON.
type JSONCodec struct{}

func (JSONCodec) Name() string                       { return "json" }
func (JSONCodec) Marshal(v any) ([]byte, error)      { return json.MarshalIndent(v, "", "  ") }
func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// YAMLCodec stores snapshots as YAML.
type YAMLCodec struct{}

func (YAMLCodec) Name() string                       { return "yaml" }
func (YAMLCodec) Marshal(v any) ([]byte, error)      { return yaml.Marshal(v) }
func (YAMLCodec) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }

type snapshotDocument struct {
	ID       string            `json:"id" yaml:"id"`
	SavedAt  time.Time         `json:"saved_at" yaml:"saved_at"`
	Contacts []contactDocument `json:"contacts" yaml:"contacts"`
}

type contactDocument struct {
	Name     string   `json:"name" yaml:"name"`
	Birthday string   `json:"birthday,omitempty" yaml:"birthday,omitempty"`
	Phones   []string `json:"phones" yaml:"phones"`
}

// SnapshotRepository keeps directory snapshots in single files encoded by a Codec.
type SnapshotRepository struct {
	codec  Codec
	logger *slog.Logger
	now    func() time.Time
}

func NewSnapshotRepository(codec Codec, logger *slog.Logger) *SnapshotRepository {
	return &SnapshotRepository{codec: codec, logger: logger, now: time.Now}
}

var _ domain.SnapshotStore = (*SnapshotRepository)(nil)

func (r *SnapshotRepository) Save(ctx context.Context, path string, records []*domain.Record) (domain.SnapshotInfo, error) {
	info := domain.SnapshotInfo{ID: uuid.New(), SavedAt: r.now().UTC(), Records: len(records)}
	doc := snapshotDocument{
		ID:       info.ID.String(),
		SavedAt:  info.SavedAt,
		Contacts: make([]contactDocument, 0, len(records)),
	}
	for _, rec := range records {
		phones := make([]string, len(rec.Phones))
		copy(phones, rec.Phones)
		doc.Contacts = append(doc.Contacts, contactDocument{
			Name:     rec.Name,
			Birthday: rec.Birthday.String(),
			Phones:   phones,
		})
	}

	data, err := r.codec.Marshal(doc)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error encoding snapshot", "error", err, "format", r.codec.Name())
		return domain.SnapshotInfo{}, fmt.Errorf("%w: encode %s: %w", domain.ErrSnapshotIO, path, err)
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		r.logger.ErrorContext(ctx, "Error writing snapshot", "error", err, "path", path)
		return domain.SnapshotInfo{}, fmt.Errorf("%w: write %s: %w", domain.ErrSnapshotIO, path, err)
	}
	r.logger.DebugContext(ctx, "Snapshot written", "path", path, "snapshot_id", info.ID, "records", info.Records, "format", r.codec.Name())
	return info, nil
}

func (r *SnapshotRepository) Load(ctx context.Context, path string) ([]*domain.Record, domain.SnapshotInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.SnapshotInfo{}, fmt.Errorf("%w: read %s: %w", domain.ErrSnapshotIO, path, err)
	}

	var doc snapshotDocument
	if err := r.codec.Unmarshal(data, &doc); err != nil {
		return nil, domain.SnapshotInfo{}, fmt.Errorf("%w: decode %s: %w", domain.ErrCorruptSnapshot, path, err)
	}

	info := domain.SnapshotInfo{SavedAt: doc.SavedAt, Records: len(doc.Contacts)}
	if doc.ID != "" {
		if info.ID, err = uuid.Parse(doc.ID); err != nil {
			return nil, domain.SnapshotInfo{}, fmt.Errorf("%w: snapshot id %q: %w", domain.ErrCorruptSnapshot, doc.ID, err)
		}
	}

	records := make([]*domain.Record, 0, len(doc.Contacts))
	seen := make(map[string]bool, len(doc.Contacts))
	for _, c := range doc.Contacts {
		rec, err := restore(c)
		if err != nil {
			return nil, domain.SnapshotInfo{}, fmt.Errorf("%w: contact %q: %w", domain.ErrCorruptSnapshot, c.Name, err)
		}
		if seen[rec.Name] {
			return nil, domain.SnapshotInfo{}, fmt.Errorf("%w: duplicate contact %q", domain.ErrCorruptSnapshot, rec.Name)
		}
		seen[rec.Name] = true
		records = append(records, rec)
	}
	r.logger.DebugContext(ctx, "Snapshot read", "path", path, "snapshot_id", info.ID, "records", info.Records)
	return records, info, nil
}

func restore(c contactDocument) (*domain.Record, error) {
	rec, err := domain.NewRecord(c.Name, c.Birthday)
	if err != nil {
		return nil, err
	}
	for _, p := range c.Phones {
		if err := rec.AddPhone(p); err != nil {
			return nil, err
		}
	}
	return rec, nil
}
