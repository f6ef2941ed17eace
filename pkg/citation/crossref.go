package citation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ai-writeassist-be/pkg/suggest"
)

const defaultCrossrefEndpoint = "https://api.crossref.org/works"

// CrossrefProvider looks citations up in the Crossref works index by keyword
// relevance. Only the best match is considered.
type CrossrefProvider struct {
	Endpoint string
	Client   *http.Client
}

var _ Provider = &CrossrefProvider{}

func NewCrossrefProvider() *CrossrefProvider {
	return &CrossrefProvider{
		Endpoint: defaultCrossrefEndpoint,
		Client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossrefWork struct {
	Title     []string         `json:"title"`
	Author    []crossrefAuthor `json:"author"`
	DOI       string           `json:"DOI"`
	URL       string           `json:"URL"`
	Published struct {
		DateParts [][]int `json:"date-parts"`
	} `json:"published"`
}

type crossrefResponse struct {
	Message struct {
		Items []crossrefWork `json:"items"`
	} `json:"message"`
}

func (p *CrossrefProvider) Lookup(ctx context.Context, keywords []string) (*suggest.Citation, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	query := url.Values{}
	query.Set("query", strings.Join(keywords, " "))
	query.Set("rows", "1")

	req, err := http.NewRequestWithContext(ctx, "GET", p.Endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	res, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNoContent || res.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(body),
		)
	}

	var parsed crossrefResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Message.Items) == 0 {
		return nil, nil
	}

	return workToCitation(parsed.Message.Items[0]), nil
}

func workToCitation(work crossrefWork) *suggest.Citation {
	c := &suggest.Citation{
		DOI: work.DOI,
		URL: work.URL,
	}
	if len(work.Title) > 0 {
		c.Title = work.Title[0]
	}
	for _, a := range work.Author {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name != "" {
			c.Authors = append(c.Authors, name)
		}
	}
	if len(work.Published.DateParts) > 0 && len(work.Published.DateParts[0]) > 0 {
		c.Year = work.Published.DateParts[0][0]
	}
	return c
}
