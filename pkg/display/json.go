package display

import (
	"encoding/json"
	"io"

	"github.com/mkolge/apm-monitor/pkg/report"
)

// jsonFormatter formats output as JSON.
type jsonFormatter struct {
	config Config
}

// jsonListing is the JSON shape of a report listing.
type jsonListing struct {
	Groups  []jsonGroup `json:"groups"`
	Skipped int         `json:"skipped"`
}

type jsonGroup struct {
	Tag     string          `json:"tag"`
	Records []report.Record `json:"records"`
}

// FormatGroups implements Formatter.FormatGroups.
func (f *jsonFormatter) FormatGroups(w io.Writer, groups []report.TagGroup, skipped int) error {
	listing := jsonListing{
		Groups:  make([]jsonGroup, 0, len(groups)),
		Skipped: skipped,
	}
	for _, group := range groups {
		listing.Groups = append(listing.Groups, jsonGroup{
			Tag:     group.Tag,
			Records: group.Records,
		})
	}

	encoder := json.NewEncoder(w)
	if !f.config.Compact {
		encoder.SetIndent("", "  ")
	}

	return encoder.Encode(listing)
}
