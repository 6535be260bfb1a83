// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package arxiv is a minimal client for the arXiv Atom query API.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://export.arxiv.org/api/query"

const userAgent = "researchpal/1.0"

// Entry is one paper record from the arXiv feed.
type Entry struct {
	// ID is the short identifier, e.g. "1707.04849v1".
	ID         string
	Title      string
	Summary    string
	Published  string // YYYY-MM-DD
	Authors    []string
	Categories []string
	EntryURL   string
	PDFURL     string
	JournalRef string
	DOI        string
}

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
	Links []struct {
		Href  string `xml:"href,attr"`
		Type  string `xml:"type,attr"`
		Title string `xml:"title,attr"`
		Rel   string `xml:"rel,attr"`
	} `xml:"link"`
	Categories []struct {
		Term string `xml:"term,attr"`
	} `xml:"category"`
	JournalRef string `xml:"journal_ref"`
	DOI        string `xml:"doi"`
}

// Client queries the arXiv export API. The zero value is not usable; use
// NewClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a Client for the public arXiv export API.
func NewClient() *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// NewClientWithBaseURL returns a Client pointed at a custom endpoint.
// Used in tests against a local fake.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// Search runs a free-text query. When newestFirst is set, results are
// ordered by submission date descending.
func (c *Client) Search(ctx context.Context, query string, maxResults int, newestFirst bool) ([]Entry, error) {
	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprintf("%d", maxResults))
	if newestFirst {
		params.Set("sortBy", "submittedDate")
		params.Set("sortOrder", "descending")
	}
	return c.fetch(ctx, params)
}

// Lookup fetches specific papers by identifier. A well-formed identifier
// that matches nothing yields an empty slice, not an error.
func (c *Client) Lookup(ctx context.Context, ids []string) ([]Entry, error) {
	params := url.Values{}
	params.Set("id_list", strings.Join(ids, ","))
	params.Set("max_results", fmt.Sprintf("%d", len(ids)))
	return c.fetch(ctx, params)
}

func (c *Client) fetch(ctx context.Context, params url.Values) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create arXiv request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read arXiv response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv returned status %d: %s", resp.StatusCode, string(body))
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to parse arXiv feed: %w", err)
	}

	entries := make([]Entry, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		entry := parseEntry(e)
		// The API answers some unknown id_list lookups with a stub entry
		// that has no title. Skip those so callers see a clean miss.
		if entry.Title == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseEntry(e atomEntry) Entry {
	entry := Entry{
		Title:      strings.TrimSpace(strings.Join(strings.Fields(e.Title), " ")),
		Summary:    strings.TrimSpace(e.Summary),
		EntryURL:   e.ID,
		JournalRef: strings.TrimSpace(e.JournalRef),
		DOI:        strings.TrimSpace(e.DOI),
	}

	// Entry IDs look like http://arxiv.org/abs/1234.5678v1; the short
	// identifier is the last path segment.
	if idx := strings.LastIndex(e.ID, "/"); idx != -1 {
		entry.ID = e.ID[idx+1:]
	} else {
		entry.ID = e.ID
	}

	if len(e.Published) >= 10 {
		entry.Published = e.Published[:10]
	} else {
		entry.Published = e.Published
	}

	for _, a := range e.Authors {
		entry.Authors = append(entry.Authors, a.Name)
	}
	for _, cat := range e.Categories {
		entry.Categories = append(entry.Categories, cat.Term)
	}

	for _, link := range e.Links {
		if link.Title == "pdf" || link.Type == "application/pdf" {
			entry.PDFURL = link.Href
		} else if link.Rel == "alternate" {
			entry.EntryURL = link.Href
		}
	}
	if entry.PDFURL == "" && strings.Contains(e.ID, "arxiv.org/abs/") {
		entry.PDFURL = strings.Replace(e.ID, "/abs/", "/pdf/", 1)
	}
	return entry
}
