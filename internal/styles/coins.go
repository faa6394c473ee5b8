package styles

import (
	"net/url"
	"strings"

	"github.com/kailas-cloud/citedex/internal/domain"
)

type kev struct {
	key   string
	value string
}

// coins builds the OpenURL ContextObject for the Z3988 span. Key order is
// part of the stable output and matches what library tooling expects, so
// the pairs are assembled by hand rather than through url.Values.
func coins(item domain.Item) string {
	journalish := false
	genre := domain.TypeWord(item.Type)
	switch genre {
	case "article", "magazine", "newspaper", "paper":
		journalish = true
		genre = "article"
	default:
		genre = "book"
	}

	pairs := []kev{
		{"url_ver", "Z39.88-2004"},
		{"ctx_ver", "Z39.88-2004"},
		{"rfr_id", "info:sid/zotero.org:2"},
	}
	if journalish {
		pairs = append(pairs,
			kev{"rft_val_fmt", "info:ofi/fmt:kev:mtx:journal"},
			kev{"rft.genre", genre},
			kev{"rft.atitle", item.Title},
			kev{"rft.jtitle", item.ContainerTitle},
		)
		if item.Volume != "" {
			pairs = append(pairs, kev{"rft.volume", item.Volume})
		}
	} else {
		pairs = append(pairs,
			kev{"rft_val_fmt", "info:ofi/fmt:kev:mtx:book"},
			kev{"rft.genre", genre},
			kev{"rft.btitle", item.Title},
		)
	}

	if len(item.Authors) > 0 {
		first := item.Authors[0]
		if first.Given != "" {
			pairs = append(pairs, kev{"rft.aufirst", first.Given})
		}
		if first.Family != "" {
			pairs = append(pairs, kev{"rft.aulast", first.Family})
		}
		for _, a := range item.Authors {
			full := strings.TrimSpace(a.Given + " " + a.Family)
			pairs = append(pairs, kev{"rft.au", full})
		}
	}

	if item.Year() != "" {
		pairs = append(pairs, kev{"rft.date", item.Year()})
	}
	if item.Page != "" {
		pairs = append(pairs, kev{"rft.pages", item.Page})
		start, end, ok := strings.Cut(item.Page, "-")
		if ok {
			pairs = append(pairs, kev{"rft.spage", start}, kev{"rft.epage", end})
		}
	}

	enc := make([]string, 0, len(pairs))
	for _, p := range pairs {
		enc = append(enc, escape(p.key)+"="+escape(p.value))
	}
	// The query lives in an HTML title attribute.
	return strings.ReplaceAll(strings.Join(enc, "&"), "&", "&amp;")
}

// escape percent-encodes like url.QueryEscape but with %20 for spaces,
// the form OpenURL resolvers produce.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
