// Package vault implements the session-scoped credential store: a local
// cache of credential records kept consistent with a per-user collection in
// a remote document store.
package vault

import "github.com/dmitrijs2005/passvault/internal/docstore"

// Record is one stored credential. The secret is stored verbatim; the export
// format below is part of the external contract and must stay cleartext.
type Record struct {
	ID        string `json:"id"`
	Website   string `json:"website"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	CreatedAt string `json:"createdAt"`
	Imported  bool   `json:"imported,omitempty"`
}

// Snapshot is the portable export/import envelope:
// { userId, passwords: [...], exportDate }.
type Snapshot struct {
	UserID     string   `json:"userId"`
	Passwords  []Record `json:"passwords"`
	ExportDate string   `json:"exportDate"`
}

// recordFields maps a record onto remote document fields. The id is the
// document id and is never duplicated into the fields; the imported flag is
// stored only when set, keeping it optional in the wire format.
func recordFields(r Record) map[string]any {
	fields := map[string]any{
		"website":   r.Website,
		"username":  r.Username,
		"password":  r.Password,
		"createdAt": r.CreatedAt,
	}
	if r.Imported {
		fields["imported"] = true
	}
	return fields
}

func recordFromDoc(d docstore.Document) Record {
	return Record{
		ID:        d.ID,
		Website:   stringField(d.Fields, "website"),
		Username:  stringField(d.Fields, "username"),
		Password:  stringField(d.Fields, "password"),
		CreatedAt: stringField(d.Fields, "createdAt"),
		Imported:  boolField(d.Fields, "imported"),
	}
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

func boolField(fields map[string]any, key string) bool {
	if v, ok := fields[key].(bool); ok {
		return v
	}
	return false
}
