package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/cardforge/pkg/core"
	"github.com/aretw0/cardforge/pkg/state"
)

// Importer merges a parsed document. state.Collection satisfies it.
type Importer interface {
	ImportSnapshot(ctx context.Context, snap core.Snapshot) (state.ImportResult, error)
}

// Parse reads an import document. Both top-level "projects" and "notes"
// arrays are required; anything else is core.ErrImportFormatInvalid and
// nothing is returned.
func Parse(r io.Reader) (core.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("failed to read import: %w", err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return core.Snapshot{}, fmt.Errorf("%w: %v", core.ErrImportFormatInvalid, err)
	}
	for _, key := range []string{"projects", "notes"} {
		raw, ok := top[key]
		if !ok || !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
			return core.Snapshot{}, fmt.Errorf("%w: missing %q array", core.ErrImportFormatInvalid, key)
		}
	}

	var snap core.Snapshot
	if err := json.Unmarshal(top["projects"], &snap.Projects); err != nil {
		return core.Snapshot{}, fmt.Errorf("%w: projects: %v", core.ErrImportFormatInvalid, err)
	}
	if err := json.Unmarshal(top["notes"], &snap.Notes); err != nil {
		return core.Snapshot{}, fmt.Errorf("%w: notes: %v", core.ErrImportFormatInvalid, err)
	}
	return snap, nil
}

// Import parses r and hands the document to imp.
func Import(ctx context.Context, imp Importer, r io.Reader) (state.ImportResult, error) {
	snap, err := Parse(r)
	if err != nil {
		return state.ImportResult{}, err
	}
	return imp.ImportSnapshot(ctx, snap)
}
