// Package export reads and writes retained permission decisions as YAML.
package export

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bnema/geoprompt/internal/domain/entity"
	"gopkg.in/yaml.v3"
)

// FormatVersion is the document version written by Encode.
const FormatVersion = 1

// ErrUnsupportedVersion is returned for documents written by a newer format.
var ErrUnsupportedVersion = errors.New("unsupported export version")

// Document is the on-disk export layout.
type Document struct {
	Version     int       `yaml:"version"`
	ExportedAt  time.Time `yaml:"exported_at"`
	Permissions []Entry   `yaml:"permissions"`
}

// Entry is one retained decision. An empty origin is opaque content.
type Entry struct {
	Origin    string `yaml:"origin"`
	Type      string `yaml:"type,omitempty"`
	State     string `yaml:"state"`
	UpdatedAt int64  `yaml:"updated_at,omitempty"`
}

// Encode writes records to w.
func Encode(w io.Writer, records []*entity.PermissionRecord, now time.Time) error {
	doc := Document{
		Version:     FormatVersion,
		ExportedAt:  now.UTC().Truncate(time.Second),
		Permissions: make([]Entry, 0, len(records)),
	}
	for _, r := range records {
		if r == nil {
			continue
		}
		doc.Permissions = append(doc.Permissions, Entry{
			Origin:    r.Origin,
			Type:      string(r.Type),
			State:     string(r.State),
			UpdatedAt: r.UpdatedAt,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode permissions: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode permissions: %w", err)
	}
	return nil
}

// Decode reads records from r. Unknown keys are rejected; a missing type means
// geolocation. States are passed through unchanged so the caller can validate
// them. An empty document yields no records.
func Decode(r io.Reader) ([]*entity.PermissionRecord, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode permissions: %w", err)
	}
	if doc.Version > FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	records := make([]*entity.PermissionRecord, 0, len(doc.Permissions))
	for _, e := range doc.Permissions {
		permType := entity.PermissionType(e.Type)
		if permType == "" {
			permType = entity.PermissionTypeGeolocation
		}
		records = append(records, &entity.PermissionRecord{
			Origin:    e.Origin,
			Type:      permType,
			State:     entity.PermissionState(e.State),
			UpdatedAt: e.UpdatedAt,
		})
	}
	return records, nil
}
