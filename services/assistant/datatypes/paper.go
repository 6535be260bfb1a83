// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

// PaperRecord is one paper in a structured search response. ID is never
// empty: when no catalog identifier is known a synthetic "paper-<n>"
// fallback is assigned during parsing.
type PaperRecord struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Abstract string   `json:"abstract"`
	Subjects []string `json:"subjects"`
	Date     string   `json:"date"`
	ArxivID  string   `json:"arxiv_id,omitempty"`
}

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	Query string `json:"query" validate:"required"`
}

// Validate checks the request against its validation tags.
func (r *SearchRequest) Validate() error {
	return chatValidate.Struct(r)
}

// SearchResponse is the body returned by POST /api/search. Papers always
// holds at least one record; an empty search yields a placeholder entry.
type SearchResponse struct {
	Papers []PaperRecord `json:"papers"`
	Total  int           `json:"total"`
}

// LibraryPaper is a paper saved to the user's library.
type LibraryPaper struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Abstract  string   `json:"abstract"`
	ArxivID   string   `json:"arxiv_id"`
	DateAdded string   `json:"date_added"`
	Tags      []string `json:"tags"`
	Notes     string   `json:"notes"`
}

// LibraryRequest is the body of POST /api/library.
type LibraryRequest struct {
	ArxivID  string   `json:"arxiv_id" validate:"required"`
	Title    string   `json:"title" validate:"required"`
	Authors  []string `json:"authors"`
	Abstract string   `json:"abstract"`
	Tags     []string `json:"tags"`
	Notes    string   `json:"notes"`
}

// Validate checks the request against its validation tags.
func (r *LibraryRequest) Validate() error {
	return chatValidate.Struct(r)
}

// LibraryResponse is the body returned by GET /api/library.
type LibraryResponse struct {
	Papers []LibraryPaper `json:"papers"`
	Total  int            `json:"total"`
}
