package importer

import (
	"context"
	"encoding/json"
	"time"

	"menuchat/internal/core"
	"menuchat/internal/llm"
	"menuchat/internal/menu"
	"menuchat/internal/offers"
)

// Source is where a sub-resource is read from. Exactly one field is used,
// in the order URL, Text, ImageURL.
type Source struct {
	URL      string `json:"url"`
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl"`
}

func (s Source) validate() error {
	if s.URL == "" && s.Text == "" && s.ImageURL == "" {
		return core.Validation("one of url, text or imageUrl is required")
	}
	return nil
}

// Extractor turns a source into structured restaurant data.
type Extractor interface {
	Metadata(ctx context.Context, src Source) (map[string]json.RawMessage, error)
	Menu(ctx context.Context, src Source) ([]menu.Category, error)
	Offers(ctx context.Context, src Source) ([]offers.Offer, error)
}

// metadataKeys are the record fields a metadata extraction may overwrite.
var metadataKeys = []string{
	"name", "address", "phone", "email",
	"googleMapsUrl", "googleReviewLink", "orderingLinks", "hours",
}

type LLMExtractor struct {
	llm     llm.Client
	fetcher Fetcher
	now     func() time.Time
}

func NewLLMExtractor(client llm.Client, fetcher Fetcher, now func() time.Time) *LLMExtractor {
	return &LLMExtractor{llm: client, fetcher: fetcher, now: now}
}

func (x *LLMExtractor) Metadata(ctx context.Context, src Source) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := x.extract(ctx, src, llm.BuildMetadataPrompt, &raw); err != nil {
		return nil, err
	}

	fields := make(map[string]json.RawMessage)
	for _, k := range metadataKeys {
		v, ok := raw[k]
		if !ok || isBlank(v) {
			continue
		}
		fields[k] = v
	}
	return fields, nil
}

func (x *LLMExtractor) Menu(ctx context.Context, src Source) ([]menu.Category, error) {
	var out []menu.Category
	if err := x.extract(ctx, src, llm.BuildMenuPrompt, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []menu.Category{}
	}
	return out, nil
}

func (x *LLMExtractor) Offers(ctx context.Context, src Source) ([]offers.Offer, error) {
	today := x.now().Format("2006-01-02")
	prompt := func(content string) string {
		return llm.BuildOffersPrompt(content, today)
	}

	var out []offers.Offer
	if err := x.extract(ctx, src, prompt, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []offers.Offer{}
	}
	return out, nil
}

func (x *LLMExtractor) extract(ctx context.Context, src Source, prompt func(string) string, v any) error {
	if err := src.validate(); err != nil {
		return err
	}

	req := llm.Request{Temperature: 0}
	content := src.Text

	switch {
	case src.URL != "":
		text, err := x.fetcher.Fetch(ctx, src.URL)
		if err != nil {
			return err
		}
		content = text
	case src.Text == "":
		req.ImageURL = src.ImageURL
		content = "(see the attached image)"
	}

	req.Messages = []llm.Message{{Role: llm.RoleUser, Content: prompt(content)}}

	reply, err := x.llm.Complete(ctx, req)
	if err != nil {
		return core.Upstream(err, "extraction call")
	}
	return llm.Decode(reply, v)
}

func isBlank(v json.RawMessage) bool {
	s := string(v)
	return s == "null" || s == `""` || s == "[]" || s == "{}"
}
