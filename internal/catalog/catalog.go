// Package catalog loads the tool catalog and builds the three Document
// granularity variants (type_service, type_service_tool, tool) that the
// Lexical and Vector indexes are built over.
package catalog

import (
	"encoding/gob"
	"encoding/json"
	"fmt"

	"github.com/aman-router/toolrouter/internal/apperr"
)

func init() {
	// Metadata values are always one of these concrete types; gob needs
	// them registered to encode/decode the map[string]any field.
	gob.Register(0)
	gob.Register("")
}

// Document is an immutable indexed record: the text surface form plus a
// metadata map. Every Document produced by this package carries a stable
// "id" (the catalog row's corpus position), and, depending on granularity,
// "type", "service", "tool".
type Document struct {
	Content  string
	Metadata map[string]any
}

// ID returns the document's metadata id as a string, the identity used
// for RRF fusion (pkg/retriever).
func (d Document) ID() string {
	if id, ok := d.Metadata["id"]; ok {
		return fmt.Sprintf("%v", id)
	}
	return ""
}

// Service returns the document's metadata service field, used by the
// Evaluator's binary relevance model. Empty if absent.
func (d Document) Service() string {
	if s, ok := d.Metadata["service"].(string); ok {
		return s
	}
	return ""
}

// Corpus is an ordered sequence of Documents; position in the slice is
// the canonical integer identifier used inside the Lexical and Vector
// indexes.
type Corpus []Document

// Row is a single tool catalog entry as read from the input JSON array.
type Row struct {
	Type    string `json:"type"`
	Service string `json:"service"`
	Tool    string `json:"tool"`
}

// LoadRows parses the tool catalog JSON array, validating that every row
// carries the three required fields.
func LoadRows(data []byte) ([]Row, error) {
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, apperr.Wrap(apperr.CorpusInvalid, fmt.Errorf("parse catalog: %w", err))
	}

	for i, r := range rows {
		if r.Type == "" || r.Service == "" || r.Tool == "" {
			return nil, apperr.New(apperr.CorpusInvalid,
				fmt.Sprintf("row %d missing required field (type/service/tool)", i), nil)
		}
	}

	return rows, nil
}

// Granularity names the three Document variants built from the same
// catalog.
type Granularity string

const (
	// TypeService is the coarse granularity: "type: X service: Y".
	TypeService Granularity = "type_service"
	// TypeServiceTool is the fine granularity: "type: X service: Y tool: Z".
	TypeServiceTool Granularity = "type_service_tool"
	// Tool is the finest granularity: "tool: Z" alone.
	Tool Granularity = "tool"
)

// Build constructs the Corpus for a given granularity. Document order
// matches rows order, so the same position indexes every granularity's
// Document, its BM25 row, and its vector row identically (Testable
// Property 3: granularity monotonicity).
func Build(rows []Row, granularity Granularity) (Corpus, error) {
	corpus := make(Corpus, len(rows))

	for i, row := range rows {
		meta := map[string]any{"id": i}
		var content string

		switch granularity {
		case TypeService:
			content = fmt.Sprintf("type: %s service: %s", row.Type, row.Service)
			meta["type"] = row.Type
			meta["service"] = row.Service
		case TypeServiceTool:
			content = fmt.Sprintf("type: %s service: %s tool: %s", row.Type, row.Service, row.Tool)
			meta["type"] = row.Type
			meta["service"] = row.Service
			meta["tool"] = row.Tool
		case Tool:
			content = fmt.Sprintf("tool: %s", row.Tool)
			meta["tool"] = row.Tool
		default:
			return nil, apperr.New(apperr.CorpusInvalid, fmt.Sprintf("unknown granularity %q", granularity), nil)
		}

		corpus[i] = Document{Content: content, Metadata: meta}
	}

	return corpus, nil
}

// BuildAll constructs all three granularity variants from the same rows,
// named the way the three index bundles are (see bundleNames in
// cmd/toolrouter/cmd/wiring.go),
// mirroring the "build all three granularities in one pass" behavior.
func BuildAll(rows []Row) (map[Granularity]Corpus, error) {
	out := make(map[Granularity]Corpus, 3)
	for _, g := range []Granularity{TypeService, TypeServiceTool, Tool} {
		corpus, err := Build(rows, g)
		if err != nil {
			return nil, err
		}
		out[g] = corpus
	}
	return out, nil
}
