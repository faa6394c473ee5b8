package render

import "github.com/kailas-cloud/citedex/internal/domain"

// CSLDate is the issued date as a date-parts array of strings.
type CSLDate struct {
	DateParts [][]string `json:"date-parts"`
}

// CSLItem is the canonical bibliographic-metadata object the json format
// emits. Field names and their order are a stable contract; other formats
// are derivable from this representation.
type CSLItem struct {
	ID             int           `json:"id"`
	Type           string        `json:"type"`
	Title          string        `json:"title,omitempty"`
	ContainerTitle string        `json:"container-title,omitempty"`
	Page           string        `json:"page,omitempty"`
	Volume         string        `json:"volume,omitempty"`
	Author         []domain.Name `json:"author,omitempty"`
	Issued         *CSLDate      `json:"issued,omitempty"`
}

func cslItem(item domain.Item) CSLItem {
	out := CSLItem{
		ID:             item.ID,
		Type:           item.Type,
		Title:          item.Title,
		ContainerTitle: item.ContainerTitle,
		Page:           item.Page,
		Volume:         item.Volume,
		Author:         item.Authors,
	}
	if item.Year() != "" {
		out.Issued = &CSLDate{DateParts: [][]string{item.Issued.Parts()}}
	}
	return out
}
