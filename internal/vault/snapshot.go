package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
)

// ImportResult reports the outcome of an import: how many records were
// persisted before any failure, and a human-readable message.
type ImportResult struct {
	Success  bool   `json:"success"`
	Imported int    `json:"imported"`
	Message  string `json:"message"`
}

// Export produces a portable snapshot of the current cache, in cache order.
// It has no side effects on the store. The store must be ready: exporting
// before a successful Init would snapshot an empty cache and let a caller
// overwrite a good backup with it.
func (s *Store) Export() (Snapshot, error) {
	if err := s.requireReady(); err != nil {
		return Snapshot{}, err
	}
	out := make([]Record, len(s.cache))
	copy(out, s.cache)
	return Snapshot{
		UserID:     s.uid,
		Passwords:  out,
		ExportDate: s.now().UTC().Format(time.RFC3339),
	}, nil
}

type dedupKey struct {
	website  string
	username string
}

// Import merges an externally supplied snapshot into the store. Records whose
// (website, username) pair already exists in the cache are skipped; surviving
// records are persisted one at a time, in snapshot order, each stamped with
// the import instant and the imported flag. A failure partway through leaves
// the already-imported records in place and reports how many made it.
func (s *Store) Import(ctx context.Context, data []byte) (ImportResult, error) {
	if err := s.requireReady(); err != nil {
		return ImportResult{}, err
	}

	var snap struct {
		UserID     string    `json:"userId"`
		Passwords  *[]Record `json:"passwords"`
		ExportDate string    `json:"exportDate"`
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", common.ErrMalformedImport, err)
	}
	if snap.Passwords == nil {
		return ImportResult{}, fmt.Errorf("%w: missing passwords list", common.ErrMalformedImport)
	}

	seen := make(map[dedupKey]struct{}, len(s.cache))
	for _, r := range s.cache {
		seen[dedupKey{r.Website, r.Username}] = struct{}{}
	}

	var pending []Record
	for _, r := range *snap.Passwords {
		key := dedupKey{r.Website, r.Username}
		if _, ok := seen[key]; ok {
			continue
		}
		// also guards against duplicate pairs inside one snapshot
		seen[key] = struct{}{}
		pending = append(pending, r)
	}

	if len(pending) == 0 {
		return ImportResult{Success: true, Imported: 0, Message: "no new passwords to import"}, nil
	}

	// one instant for the whole import, captured before the first write
	importedAt := s.now().UTC().Format(time.RFC3339)

	count := 0
	for _, r := range pending {
		rec := Record{
			Website:   r.Website,
			Username:  r.Username,
			Password:  r.Password,
			CreatedAt: importedAt,
			Imported:  true,
		}

		id, err := s.docs.Add(ctx, s.passwordsPath(), recordFields(rec))
		if err != nil {
			res := ImportResult{
				Success:  false,
				Imported: count,
				Message:  fmt.Sprintf("imported %d of %d passwords before a storage failure", count, len(pending)),
			}
			return res, remoteErr("importing password", err)
		}
		rec.ID = id

		s.cache = append(s.cache, rec)
		count++
	}

	s.log.Info(ctx, "import complete", "uid", s.uid, "imported", count, "skipped", len(*snap.Passwords)-count)
	return ImportResult{
		Success:  true,
		Imported: count,
		Message:  fmt.Sprintf("imported %d passwords", count),
	}, nil
}
