package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Document is one saved editor document together with the files imported
// into it.
type Document struct {
	ID        string
	Owner     string
	Title     string
	Content   string
	Keywords  []string
	Files     []RelatedFile
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RelatedFile is the extracted text of an imported file.
type RelatedFile struct {
	ID      string
	Name    string
	Format  string
	Content string
	Read    bool
	AddedAt time.Time
}

// File returns the related file with the given id.
func (d Document) File(id string) (RelatedFile, bool) {
	for _, f := range d.Files {
		if f.ID == id {
			return f, true
		}
	}
	return RelatedFile{}, false
}

// DefaultTitle is the title given to documents created without one.
func DefaultTitle(t time.Time) string {
	return t.Format("20060102") + "_notes"
}

// Create inserts an empty document owned by owner.
func (s *Store) Create(ctx context.Context, owner, title string) (Document, error) {
	now := s.now()
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle(now)
	}
	doc := Document{
		ID:        newID(),
		Owner:     owner,
		Title:     title,
		Keywords:  []string{},
		CreatedAt: now.UTC().Truncate(time.Millisecond),
		UpdatedAt: now.UTC().Truncate(time.Millisecond),
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO documents
		(id, owner, title, content, keywords_json, created_at_unixms, updated_at_unixms)
		VALUES (?, ?, ?, '', '[]', ?, ?)`,
		doc.ID, doc.Owner, doc.Title, unixMS(now), unixMS(now))
	if err != nil {
		return Document{}, fmt.Errorf("create document: %w", err)
	}
	return doc, nil
}

// Load returns the document with its related files.
func (s *Store) Load(ctx context.Context, id string) (Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, owner, title, content, keywords_json,
		created_at_unixms, updated_at_unixms FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("load document %s: %w", id, err)
	}
	files, err := s.files(ctx, id)
	if err != nil {
		return Document{}, err
	}
	doc.Files = files
	return doc, nil
}

// Save writes the whole record. A document without an ID is inserted with a
// fresh one. Related files are replaced by doc.Files, so a record from List,
// which carries no files, must be reloaded with Load before it is saved.
func (s *Store) Save(ctx context.Context, doc *Document) error {
	now := s.now().UTC().Truncate(time.Millisecond)
	if doc.ID == "" {
		doc.ID = newID()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if strings.TrimSpace(doc.Title) == "" {
		doc.Title = DefaultTitle(now)
	}
	if doc.Keywords == nil {
		doc.Keywords = []string{}
	}
	kw, err := json.Marshal(doc.Keywords)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO documents
		(id, owner, title, content, keywords_json, created_at_unixms, updated_at_unixms)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner = excluded.owner,
			title = excluded.title,
			content = excluded.content,
			keywords_json = excluded.keywords_json,
			updated_at_unixms = excluded.updated_at_unixms`,
		doc.ID, doc.Owner, doc.Title, doc.Content, string(kw), unixMS(doc.CreatedAt), unixMS(now))
	if err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM related_files WHERE document_id = ?`, doc.ID); err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	for i := range doc.Files {
		f := &doc.Files[i]
		if f.ID == "" {
			f.ID = newID()
		}
		if f.AddedAt.IsZero() {
			f.AddedAt = now
		}
		if err := insertFile(ctx, tx, doc.ID, i, *f); err != nil {
			return fmt.Errorf("save document %s: %w", doc.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	doc.UpdatedAt = now
	return nil
}

// SaveContent replaces only the editor text. It is the autosave path.
func (s *Store) SaveContent(ctx context.Context, id, content string) error {
	return s.update(ctx, id, `UPDATE documents SET content = ?, updated_at_unixms = ? WHERE id = ?`,
		content, unixMS(s.now()), id)
}

// Rename changes the title. A blank title is rejected.
func (s *Store) Rename(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("rename: title is empty")
	}
	return s.update(ctx, id, `UPDATE documents SET title = ?, updated_at_unixms = ? WHERE id = ?`,
		title, unixMS(s.now()), id)
}

// SetKeywords replaces the keyword list.
func (s *Store) SetKeywords(ctx context.Context, id string, keywords []string) error {
	if keywords == nil {
		keywords = []string{}
	}
	kw, err := json.Marshal(keywords)
	if err != nil {
		return err
	}
	return s.update(ctx, id, `UPDATE documents SET keywords_json = ?, updated_at_unixms = ? WHERE id = ?`,
		string(kw), unixMS(s.now()), id)
}

// Delete removes the document and its files.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.update(ctx, id, `DELETE FROM documents WHERE id = ?`, id)
}

func (s *Store) update(ctx context.Context, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("document %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return nil
}

// List returns the owner's documents, most recently updated first. Related
// files are not loaded.
func (s *Store) List(ctx context.Context, owner string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, owner, title, content, keywords_json,
		created_at_unixms, updated_at_unixms FROM documents
		WHERE owner = ?
		ORDER BY updated_at_unixms DESC, created_at_unixms DESC, id DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// AddFile appends an imported file to the document.
func (s *Store) AddFile(ctx context.Context, docID string, f RelatedFile) (RelatedFile, error) {
	now := s.now().UTC().Truncate(time.Millisecond)
	if f.ID == "" {
		f.ID = newID()
	}
	if f.AddedAt.IsZero() {
		f.AddedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RelatedFile{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var pos int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM related_files WHERE document_id = ?`, docID).Scan(&pos)
	if err != nil {
		return RelatedFile{}, err
	}
	res, err := tx.ExecContext(ctx, `UPDATE documents SET updated_at_unixms = ? WHERE id = ?`, unixMS(now), docID)
	if err != nil {
		return RelatedFile{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return RelatedFile{}, fmt.Errorf("document %s: %w", docID, ErrNotFound)
	}
	if err := insertFile(ctx, tx, docID, pos, f); err != nil {
		return RelatedFile{}, fmt.Errorf("add file to %s: %w", docID, err)
	}
	if err := tx.Commit(); err != nil {
		return RelatedFile{}, err
	}
	return f, nil
}

// SetFileRead marks one related file as read or unread.
func (s *Store) SetFileRead(ctx context.Context, docID, fileID string, read bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE related_files SET read = ? WHERE document_id = ? AND id = ?`,
		boolInt(read), docID, fileID)
	if err != nil {
		return fmt.Errorf("file %s: %w", fileID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("file %s: %w", fileID, ErrNotFound)
	}
	return nil
}

func (s *Store) files(ctx context.Context, docID string) ([]RelatedFile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, format, content, read, added_at_unixms
		FROM related_files WHERE document_id = ? ORDER BY position`, docID)
	if err != nil {
		return nil, fmt.Errorf("load files of %s: %w", docID, err)
	}
	defer rows.Close()

	var out []RelatedFile
	for rows.Next() {
		var (
			f     RelatedFile
			read  int
			added int64
		)
		if err := rows.Scan(&f.ID, &f.Name, &f.Format, &f.Content, &read, &added); err != nil {
			return nil, err
		}
		f.Read = read != 0
		f.AddedAt = fromUnixMS(added)
		out = append(out, f)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(r rowScanner) (Document, error) {
	var (
		doc              Document
		kw               string
		created, updated int64
	)
	if err := r.Scan(&doc.ID, &doc.Owner, &doc.Title, &doc.Content, &kw, &created, &updated); err != nil {
		return Document{}, err
	}
	if err := json.Unmarshal([]byte(kw), &doc.Keywords); err != nil {
		return Document{}, fmt.Errorf("keywords of %s: %w", doc.ID, err)
	}
	doc.CreatedAt = fromUnixMS(created)
	doc.UpdatedAt = fromUnixMS(updated)
	return doc, nil
}

func insertFile(ctx context.Context, tx *sql.Tx, docID string, pos int, f RelatedFile) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO related_files
		(id, document_id, position, name, format, content, read, added_at_unixms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, docID, pos, f.Name, f.Format, f.Content, boolInt(f.Read), unixMS(f.AddedAt))
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
