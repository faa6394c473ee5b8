// Package library defines the read-only item store contract. The reference
// library itself is externally owned; drivers only load and decode it.
package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/citedex/internal/domain"
)

// Sentinel errors for store operations.
var (
	ErrNotLoaded   = errors.New("library: not loaded")
	ErrKeyNotFound = errors.New("library: key not found")
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Library is one consistent view of the reference library: every item plus
// collection membership and the current selection, stamped with the store
// version it was loaded at.
type Library struct {
	Version     string
	Items       []domain.Item
	Collections map[string][]string
	Selected    []string
}

// Store loads the externally owned reference library. Load returns a fully
// consistent Library; Version is cheap and lets callers detect staleness
// without reloading.
type Store interface {
	Load(ctx context.Context) (Library, error)
	Version(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
	Close()
}

// itemDTO is the stored item shape shared by drivers. Dates arrive as CSL
// date-parts whose elements may be numbers or strings depending on the
// exporter, so they decode as raw JSON first.
type itemDTO struct {
	Key            string        `json:"key"`
	ID             int           `json:"id"`
	Type           string        `json:"type"`
	Title          string        `json:"title"`
	ContainerTitle string        `json:"container-title"`
	Volume         string        `json:"volume"`
	Page           string        `json:"page"`
	Author         []domain.Name `json:"author"`
	Issued         *issuedDTO    `json:"issued"`
	CustomKey      string        `json:"citekey"`
}

type issuedDTO struct {
	DateParts [][]any `json:"date-parts"`
}

func datePartString(v any) string {
	switch p := v.(type) {
	case string:
		return p
	case float64:
		return strconv.Itoa(int(p))
	default:
		return fmt.Sprint(p)
	}
}

// DecodeItem parses one stored item record.
func DecodeItem(data []byte) (domain.Item, error) {
	var dto itemDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domain.Item{}, fmt.Errorf("decode item: %w", err)
	}
	return dto.toDomain()
}

func (dto itemDTO) toDomain() (domain.Item, error) {
	if dto.Key == "" {
		return domain.Item{}, fmt.Errorf("item has no key")
	}
	item := domain.Item{
		Key:            dto.Key,
		ID:             dto.ID,
		Type:           dto.Type,
		Title:          dto.Title,
		ContainerTitle: dto.ContainerTitle,
		Volume:         dto.Volume,
		Page:           dto.Page,
		Authors:        dto.Author,
		CustomKey:      dto.CustomKey,
	}
	if dto.Issued != nil && len(dto.Issued.DateParts) > 0 {
		row := dto.Issued.DateParts[0]
		parts := make([]string, len(row))
		for i, p := range row {
			parts[i] = datePartString(p)
		}
		if len(parts) > 0 {
			item.Issued.Year = parts[0]
		}
		if len(parts) > 1 {
			item.Issued.Month = parts[1]
		}
		if len(parts) > 2 {
			item.Issued.Day = parts[2]
		}
	}
	return item, nil
}
