// Package migration provides versioned database migration capabilities.
// Basic usage sample:
//
// Errors should be handled, but ignored for example code
// src := migration.NewSource()
// src.AddDir(migrations, "db/migrations") // migrations is an embed.FS
// r := migration.NewRunner(db, src)
// res, _ := r.Run(ctx)
package migration

import (
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/Skyrin/go-migrate/e"
	"github.com/Skyrin/go-migrate/migration/model"
)

const (
	// ForwardSuffix names forward script files, ReverseSuffix the optional
	// reverse scripts paired by identifier
	ForwardSuffix = ".sql"
	ReverseSuffix = ".down.sql"

	ECode010101 = e.Code0101 + "01"
	ECode010102 = e.Code0101 + "02"
	ECode010103 = e.Code0101 + "03"
	ECode010104 = e.Code0101 + "04"
	ECode010105 = e.Code0101 + "05"
	ECode010106 = e.Code0101 + "06"
	ECode010107 = e.Code0101 + "07"
	ECode010108 = e.Code0101 + "08"
	ECode010109 = e.Code0101 + "09"
)

// Source discovers migration units from one or more directories. The
// file systems are typically embed.FS instances, but any fs.FS works
// (e.g. os.DirFS for an on disk directory). Discovery is read only and
// deterministic for a fixed set of directories.
type Source struct {
	dirs []sourceDir
}

type sourceDir struct {
	fsys fs.FS
	path string
}

// NewSource initializes an empty source
func NewSource() (s *Source) {
	return &Source{}
}

// NewDirSource initializes a source reading from the specified directory
// on disk
func NewDirSource(dir string) (s *Source) {
	s = NewSource()
	s.AddDir(os.DirFS(dir), ".")
	return s
}

// AddDir registers a directory to discover migration files from
func (s *Source) AddDir(fsys fs.FS, dirPath string) {
	s.dirs = append(s.dirs, sourceDir{fsys: fsys, path: dirPath})
}

// Discover enumerates all migration units, sorted by identifier
// ascending. Each <identifier>.sql file becomes one unit; a matching
// <identifier>.down.sql becomes its reverse script. It fails if two
// units share an identifier, an identifier is not sortable, or a
// forward script contains no statements.
func (s *Source) Discover() (uList []*model.Unit, err error) {
	seen := map[string]bool{}

	for _, d := range s.dirs {
		dirList, err := fs.ReadDir(d.fsys, d.path)
		if err != nil {
			return nil, e.W(err, ECode010101, d.path)
		}

		names := make(map[string]bool, len(dirList))
		for _, de := range dirList {
			if !de.IsDir() {
				names[de.Name()] = true
			}
		}

		for _, de := range dirList {
			name := de.Name()
			if de.IsDir() || !strings.HasSuffix(name, ForwardSuffix) ||
				strings.HasSuffix(name, ReverseSuffix) {
				continue
			}

			id := strings.TrimSuffix(name, ForwardSuffix)
			label, err := labelFromIdentifier(id)
			if err != nil {
				return nil, e.W(err, ECode010102, name)
			}

			if seen[id] {
				return nil, e.N(ECode010103, e.MsgMigrationDuplicate, id)
			}
			seen[id] = true

			fwd, err := readScript(d, name)
			if err != nil {
				return nil, e.W(err, ECode010104)
			}
			if len(fwd.Statements) == 0 {
				return nil, e.N(ECode010105, e.MsgMigrationScriptEmpty, id)
			}

			u := &model.Unit{
				Identifier: id,
				Label:      label,
				Forward:    fwd,
			}

			if names[id+ReverseSuffix] {
				u.Reverse, err = readScript(d, id+ReverseSuffix)
				if err != nil {
					return nil, e.W(err, ECode010106)
				}
			}

			uList = append(uList, u)
		}
	}

	sort.Slice(uList, func(i, j int) bool {
		return uList[i].Identifier < uList[j].Identifier
	})

	return uList, nil
}

// labelFromIdentifier validates the identifier and returns its human
// label portion. Identifiers must start with a numeric, zero padded
// sortable prefix (e.g. a timestamp), then an underscore and the label,
// so that lexicographic order matches chronological order.
func labelFromIdentifier(id string) (label string, err error) {
	idx := strings.Index(id, "_")
	if idx <= 0 || idx == len(id)-1 {
		return "", e.N(ECode010107, e.MsgMigrationIdentifierInvalid, id)
	}

	for i := 0; i < idx; i++ {
		if id[i] < '0' || id[i] > '9' {
			return "", e.N(ECode010108, e.MsgMigrationIdentifierInvalid, id)
		}
	}

	return id[idx+1:], nil
}

// readScript reads and parses one script file
func readScript(d sourceDir, name string) (sc *model.Script, err error) {
	raw, err := fs.ReadFile(d.fsys, path.Join(d.path, name))
	if err != nil {
		return nil, e.W(err, ECode010109, name)
	}

	return &model.Script{
		Raw:        string(raw),
		Statements: SplitStatements(string(raw)),
	}, nil
}
